package problem

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// LoadBatch reads and parses every file and orders them for the given mode.
// Any failure aborts the whole batch so nothing partial is ever sent.
func (p *Parser) LoadBatch(paths []string, mode domain.BroadcastMode) (*domain.Sequence, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("unknown broadcast mode %q", mode)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no problem files given")
	}
	if mode == domain.ModeUnicast && len(paths) != 1 {
		return nil, fmt.Errorf("unicast sends exactly one problem, got %d files", len(paths))
	}

	problems := make([]*domain.ProblemDescriptor, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read problem file: %w", err)
		}
		desc, err := p.Parse(string(data), path)
		if err != nil {
			return nil, err
		}
		problems = append(problems, desc)
	}

	return ComputeSequence(problems, mode)
}

// EncodeBatch renders a sequence as the form fields of a broadcast request.
func EncodeBatch(seq *domain.Sequence) url.Values {
	n := seq.Len()
	bodies := make([]string, n)
	answers := make([]string, n)
	merits := make([]string, n)
	efforts := make([]string, n)
	attempts := make([]string, n)
	tags := make([]string, n)
	names := make([]string, n)
	exts := make([]string, n)

	for i, p := range seq.Problems {
		bodies[i] = p.Body
		answers[i] = p.Answer
		merits[i] = strconv.Itoa(p.Merit)
		efforts[i] = strconv.Itoa(p.Effort)
		attempts[i] = strconv.Itoa(p.MaxAttempts)
		tags[i] = p.Tag
		names[i] = p.SourceName
		exts[i] = p.Extension
	}

	divider := seq.Mode.Divider()
	form := url.Values{}
	form.Set("content", strings.Join(bodies, "\n"+divider+"\n"))
	form.Set("answers", strings.Join(answers, "\n"))
	form.Set("merits", strings.Join(merits, "\n"))
	form.Set("efforts", strings.Join(efforts, "\n"))
	form.Set("attempts", strings.Join(attempts, "\n"))
	form.Set("tags", strings.Join(tags, "\n"))
	form.Set("filenames", strings.Join(names, "\n"))
	form.Set("exts", strings.Join(exts, "\n"))
	form.Set("divider", divider)
	form.Set("mode", string(seq.Mode))

	if seq.Mode == domain.ModeUnicast {
		form.Set("nic", "")
		form.Set("nii", "")
	} else {
		form.Set("nic", joinInts(seq.NextIfCorrect))
		form.Set("nii", joinInts(seq.NextIfIncorrect))
	}
	return form
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, "\n")
}
