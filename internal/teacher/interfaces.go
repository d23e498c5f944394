package teacher

import (
	"context"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// Operations is the set of teacher actions used by the CLI and the MCP server
type Operations interface {
	// Broadcast starts new problems for the class
	Broadcast(ctx context.Context, paths []string, mode domain.BroadcastMode) (*BroadcastResult, error)

	// Share pushes a plain file to every student's whiteboard
	Share(ctx context.Context, path string) (string, error)

	// GetSubmission fetches the next submission into the working folder
	GetSubmission(ctx context.Context, index int, priority domain.Priority, seen SeenSubmissions) (*Fetched, error)

	// Grade sends a verdict for a submission file
	Grade(ctx context.Context, path string, decision domain.Decision, seen SeenSubmissions) (string, error)

	// DeactivateProblems closes active problems and returns answer pages
	DeactivateProblems(ctx context.Context) (*Deactivation, error)
}

// Ensure Service implements Operations
var _ Operations = (*Service)(nil)

// SeenSubmissions remembers the last submission content opened for each
// problem so grading can tell whether the teacher edited it.
// Both the in-memory and SQLite stores implement this.
type SeenSubmissions interface {
	Remember(sub *domain.Submission) error
	Lookup(pid int) (content string, ok bool, err error)
	Clear() error
}
