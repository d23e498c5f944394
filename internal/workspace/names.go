package workspace

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/msh-shiplu/GEM/internal/domain"
)

const (
	submissionPrefix = "gemt"
	problemPrefix    = "gemp"
	notePrefix       = "gem"

	// ReportFile is where the student's points summary is written
	ReportFile = "report.txt"
)

// SubmissionRef identifies a student submission opened by the teacher
type SubmissionRef struct {
	Stid int
	Pid  int
	Sid  int
}

// SubmissionName is the file name used for a submission handed to the teacher.
func SubmissionName(uid, pid, sid int, ext string) string {
	return fmt.Sprintf("%s%d_%d_%d.%s", submissionPrefix, uid, pid, sid, ext)
}

// ParseSubmissionName recovers the ids from a gemt<stid>_<pid>_<sid>[.ext] path.
func ParseSubmissionName(path string) (SubmissionRef, error) {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, submissionPrefix) || strings.Count(base, "_") < 2 {
		return SubmissionRef{}, fmt.Errorf("%w: %s", domain.ErrNotSubmission, base)
	}

	stem := base
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	parts := strings.Split(strings.TrimPrefix(stem, submissionPrefix), "_")
	if len(parts) != 3 {
		return SubmissionRef{}, fmt.Errorf("%w: %s", domain.ErrNotSubmission, base)
	}

	var ids [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return SubmissionRef{}, fmt.Errorf("%w: %s", domain.ErrNotSubmission, base)
		}
		ids[i] = n
	}
	return SubmissionRef{Stid: ids[0], Pid: ids[1], Sid: ids[2]}, nil
}

// ProblemID extracts the problem id from a board file name
// gemp<MMDD>_<pid>_<n>.<ext>. Anything else yields 0.
func ProblemID(path string) int {
	base := filepath.Base(path)
	if !strings.HasPrefix(base, problemPrefix) {
		return 0
	}
	stem := base
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}

	last := strings.LastIndex(stem, "_")
	if last < 0 {
		return 0
	}
	head, n := stem[:last], stem[last+1:]
	mid := strings.LastIndex(head, "_")
	if mid < 0 {
		return 0
	}
	pid := head[mid+1:]
	if !isDecimal(pid) || !isDecimal(n) {
		return 0
	}
	v, err := strconv.Atoi(pid)
	if err != nil {
		return 0
	}
	return v
}

// Extension returns the part of the file name after the last dot.
func Extension(path, fallback string) string {
	base := filepath.Base(path)
	if i := strings.LastIndex(base, "."); i >= 0 && i < len(base)-1 {
		return base[i+1:]
	}
	return fallback
}

func boardPrefix(day time.Time, pid int, tag string) string {
	if pid > 0 {
		return fmt.Sprintf("%s%s_%d", problemPrefix, day.Format("0102"), pid)
	}
	return fmt.Sprintf("%s%s_%s", notePrefix, day.Format("0102"), tag)
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
