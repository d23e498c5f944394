package student

import (
	"context"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// Operations is the set of student actions used by the CLI and the MCP server
type Operations interface {
	// Share submits a working file to the teacher
	Share(ctx context.Context, req ShareRequest, budget AttemptBudget) (string, error)

	// GetBoards downloads everything on the student's whiteboard
	GetBoards(ctx context.Context, budget AttemptBudget) (*Boards, error)

	// Checkin records attendance
	Checkin(ctx context.Context) (string, error)
}

// Ensure Service implements Operations
var _ Operations = (*Service)(nil)

// AttemptBudget tracks how many more submissions each problem accepts.
// Both the in-memory and SQLite stores implement this.
type AttemptBudget interface {
	Set(pid, remaining int) error
	Remaining(pid int) (remaining int, ok bool, err error)
}

// ShareRequest describes a submission
type ShareRequest struct {
	Path     string
	Priority domain.Priority
	// Confirmed must be set to send a file that is not a graded problem
	Confirmed bool
}
