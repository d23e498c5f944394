package domain

import "time"

// Role distinguishes the two client programs
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Decision is a teacher's verdict on a submission
type Decision string

const (
	DecisionCorrect   Decision = "correct"
	DecisionIncorrect Decision = "incorrect"
	DecisionDismissed Decision = "dismissed"
)

// IsValid checks if the decision is known
func (d Decision) IsValid() bool {
	switch d {
	case DecisionCorrect, DecisionIncorrect, DecisionDismissed:
		return true
	}
	return false
}

// Priority orders submissions in the teacher's queue
type Priority int

const (
	// PriorityAny asks the server for the next submission regardless of priority
	PriorityAny Priority = 0
	// PriorityGotIt is used when a student believes the work is done
	PriorityGotIt Priority = 1
	// PriorityNeedHelp is used when a student is stuck
	PriorityNeedHelp Priority = 2
)

// String returns a human readable label
func (p Priority) String() string {
	switch p {
	case PriorityGotIt:
		return "got it"
	case PriorityNeedHelp:
		return "need help"
	default:
		return "any"
	}
}

// Submission is a student's work as handed to the teacher
type Submission struct {
	Content  string `json:"Content"`
	Filename string `json:"Filename"`
	Pid      int    `json:"Pid"`
	Sid      int    `json:"Sid"`
	Uid      int    `json:"Uid"`
}

// Empty reports whether the server had nothing to hand out.
func (s *Submission) Empty() bool {
	return s.Content == ""
}

// Board is content pushed to a student's whiteboard
type Board struct {
	Content  string `json:"Content"`
	Attempts int    `json:"Attempts"`
	Ext      string `json:"Ext"`
	Pid      int    `json:"Pid"`
}

// IsProblem reports whether the board carries a graded problem.
func (b *Board) IsProblem() bool {
	return b.Pid > 0
}

// ReportEntry is one scored problem in a student's report
type ReportEntry struct {
	Date   int64 `json:"Date"` // unix seconds
	Points int   `json:"Points"`
}

// Day returns the entry's calendar date in local time.
func (e ReportEntry) Day() time.Time {
	t := time.Unix(e.Date, 0)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// Registration holds the credentials the server assigns on sign-up
type Registration struct {
	Uid        int
	Password   string
	CourseID   string
	NameServer string
}
