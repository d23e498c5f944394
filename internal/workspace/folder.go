package workspace

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/msh-shiplu/GEM/internal/domain"
)

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Folder is the local directory where working files are written
type Folder struct {
	dir string
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Folder
type Option func(*Folder)

// WithClock sets the clock used for dated file names
func WithClock(now func() time.Time) Option {
	return func(f *Folder) {
		f.now = now
	}
}

// WithRand sets the random source used for note tags
func WithRand(rng *rand.Rand) Option {
	return func(f *Folder) {
		f.rng = rng
	}
}

// NewFolder returns a Folder rooted at dir.
func NewFolder(dir string, opts ...Option) *Folder {
	f := &Folder{
		dir: dir,
		now: time.Now,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dir returns the folder path
func (f *Folder) Dir() string {
	return f.dir
}

// WriteSubmission stores a submission for grading and returns its path.
func (f *Folder) WriteSubmission(sub *domain.Submission, defaultExt string) (string, error) {
	ext := Extension(sub.Filename, defaultExt)
	path := filepath.Join(f.dir, SubmissionName(sub.Uid, sub.Pid, sub.Sid, ext))
	if err := f.write(path, sub.Content); err != nil {
		return "", err
	}
	return path, nil
}

// WriteBoard stores a whiteboard item under the next free dated name.
func (f *Folder) WriteBoard(board *domain.Board) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tag := ""
	if !board.IsProblem() {
		tag = string([]byte{letters[f.rng.Intn(len(letters))], letters[f.rng.Intn(len(letters))]})
	}
	prefix := boardPrefix(f.now(), board.Pid, tag)

	count, err := f.countPrefix(prefix)
	if err != nil {
		return "", err
	}

	path := filepath.Join(f.dir, fmt.Sprintf("%s_%d.%s", prefix, count+1, board.Ext))
	if err := f.write(path, board.Content); err != nil {
		return "", err
	}
	return path, nil
}

// WriteReport writes the points summary and returns its path.
func (f *Folder) WriteReport(entries []domain.ReportEntry) (string, error) {
	path := filepath.Join(f.dir, ReportFile)
	if err := f.write(path, FormatReport(entries)); err != nil {
		return "", err
	}
	return path, nil
}

// FormatReport renders report entries, newest first, under a points total.
func FormatReport(entries []domain.ReportEntry) string {
	sorted := make([]domain.ReportEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	total := 0
	for _, e := range sorted {
		total += e.Points
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total points: %d\n", total)
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s\t%d\n", e.Day().Format("2006-01-02"), e.Points)
	}
	return b.String()
}

func (f *Folder) countPrefix(prefix string) (int, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("read folder: %w", err)
	}
	count := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) {
			count++
		}
	}
	return count, nil
}

func (f *Folder) write(path, content string) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
