package problem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// rung is one step of the difficulty ladder
type rung struct {
	key     int
	problem *domain.ProblemDescriptor
}

// ComputeSequence orders a batch for sending. Outside sequential mode the
// batch is returned as is with no links. In sequential mode problems are
// stably sorted by the integer after the last "_" of their base name, a
// correct answer leads to the next strictly harder problem and an incorrect
// one to the next problem on the ladder.
func ComputeSequence(problems []*domain.ProblemDescriptor, mode domain.BroadcastMode) (*domain.Sequence, error) {
	n := len(problems)
	seq := &domain.Sequence{
		Mode:            mode,
		Problems:        make([]*domain.ProblemDescriptor, n),
		NextIfCorrect:   noLinks(n),
		NextIfIncorrect: noLinks(n),
	}
	copy(seq.Problems, problems)

	if !mode.Sequential() {
		return seq, nil
	}

	ladder := make([]rung, n)
	for i, p := range problems {
		key, err := DifficultyKey(p.SourceName)
		if err != nil {
			return nil, err
		}
		ladder[i] = rung{key: key, problem: p}
	}

	sort.SliceStable(ladder, func(a, b int) bool {
		return ladder[a].key < ladder[b].key
	})

	for i := range ladder {
		seq.Problems[i] = ladder[i].problem
		for j := i + 1; j < n; j++ {
			if ladder[j].key > ladder[i].key {
				seq.NextIfCorrect[i] = j
				break
			}
		}
		if i < n-1 {
			seq.NextIfIncorrect[i] = i + 1
		}
	}

	return seq, nil
}

// DifficultyKey extracts the level from a file name such as "loops_3.py".
func DifficultyKey(name string) (int, error) {
	stem := name
	if idx := strings.LastIndex(stem, "."); idx >= 0 {
		stem = stem[:idx]
	}

	idx := strings.LastIndex(stem, "_")
	if idx < 0 {
		return 0, invalidKey(name, "no \"_<level>\" suffix, e.g. abc_1.py")
	}

	key, err := strconv.Atoi(stem[idx+1:])
	if err != nil {
		return 0, invalidKey(name, fmt.Sprintf("level %q is not an integer", stem[idx+1:]))
	}
	return key, nil
}

func noLinks(n int) []int {
	links := make([]int, n)
	for i := range links {
		links[i] = domain.NoNext
	}
	return links
}

func invalidKey(file, reason string) error {
	return &domain.ParseError{File: file, Reason: reason, Err: domain.ErrInvalidDifficultyKey}
}
