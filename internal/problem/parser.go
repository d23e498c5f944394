package problem

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// DefaultExtension is used when a file name has no extension.
const DefaultExtension = "txt"

// headerPattern matches "merit effort attempts [trailing text]" once the comment
// prefix is gone. Only trailing text starting with a letter, digit or
// underscore becomes the tag; anything else is ignored.
var headerPattern = regexp.MustCompile(`^(\d+)\s+(\d+)\s+(-?\d+)(?:\s+(.*?))?\s*$`)

var tagPattern = regexp.MustCompile(`^[\p{L}\p{N}_]`)

// Parser turns problem files into descriptors
type Parser struct {
	// DefaultExt is the extension given to files without one
	DefaultExt string
}

// NewParser creates a parser that falls back to DefaultExtension
func NewParser() *Parser {
	return &Parser{DefaultExt: DefaultExtension}
}

// Parse parses a problem file with the default parser.
func Parse(contents, sourceName string) (*domain.ProblemDescriptor, error) {
	return NewParser().Parse(contents, sourceName)
}

// Parse reads the header line (merit, effort, max attempts, optional tag) and
// the body, pulls out the reference answer and annotates the body with the
// scoring line shown to students.
func (p *Parser) Parse(contents, sourceName string) (*domain.ProblemDescriptor, error) {
	base := filepath.Base(sourceName)

	header, body, ok := strings.Cut(contents, "\n")
	if !ok {
		return nil, malformed(base, "missing line break after header")
	}

	prefix := "//"
	switch {
	case strings.HasPrefix(header, "#"):
		prefix = "#"
		header = strings.Trim(strings.TrimSpace(header), "# ")
	case strings.HasPrefix(header, "/"):
		header = strings.Trim(strings.TrimSpace(header), "/ ")
	}
	header = strings.TrimSpace(header)

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, malformed(base, fmt.Sprintf("header %q is not \"merit effort attempts [tag]\"", header))
	}
	merit, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, malformed(base, "merit out of range")
	}
	effort, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, malformed(base, "effort out of range")
	}
	attempts, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, malformed(base, "attempts out of range")
	}
	if merit < effort {
		return nil, malformed(base, fmt.Sprintf("merit points (%d) should be higher than effort points (%d)", merit, effort))
	}

	tag := m[4]
	if !tagPattern.MatchString(tag) {
		tag = ""
	}

	pieces := strings.Split(body, domain.AnswerTag)
	if len(pieces) > 2 {
		return nil, malformed(base, fmt.Sprintf("problem has %d answers, there should be at most 1", len(pieces)-1))
	}

	display := fmt.Sprintf("%s %d points, %d for effort. Maximum attempts: %d.\n%s",
		prefix, merit, effort, attempts, pieces[0])
	answer := ""
	if len(pieces) == 2 {
		display += "\n" + domain.AnswerTag + " "
		answer = strings.TrimSpace(pieces[1])
	}

	return &domain.ProblemDescriptor{
		Merit:       merit,
		Effort:      effort,
		MaxAttempts: attempts,
		Tag:         tag,
		Body:        display,
		Answer:      answer,
		SourceName:  base,
		Extension:   p.extension(base),
	}, nil
}

func (p *Parser) extension(base string) string {
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return p.DefaultExt
	}
	return base[idx+1:]
}

func malformed(file, reason string) error {
	return &domain.ParseError{File: file, Reason: reason, Err: domain.ErrMalformedDescriptor}
}
