package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// AttemptStore tracks how many submissions a student has left per problem.
type AttemptStore struct {
	db *DB
}

// NewAttemptStore creates a SQLite-backed attempt store.
func NewAttemptStore(db *DB) *AttemptStore {
	return &AttemptStore{db: db}
}

// Set stores the remaining attempts for pid.
func (s *AttemptStore) Set(pid, remaining int) error {
	if remaining < 0 {
		return fmt.Errorf("negative attempt budget %d for problem %d", remaining, pid)
	}
	_, err := s.db.Exec(`
		INSERT INTO attempt_budgets (pid, remaining, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(pid) DO UPDATE SET
			remaining=excluded.remaining, updated_at=excluded.updated_at`,
		pid, remaining, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save attempt budget: %w", err)
	}
	return nil
}

// Remaining returns the attempts left for pid; ok is false when pid has no budget.
func (s *AttemptStore) Remaining(pid int) (int, bool, error) {
	var remaining int
	err := s.db.QueryRow("SELECT remaining FROM attempt_budgets WHERE pid = ?", pid).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get attempt budget: %w", err)
	}
	return remaining, true, nil
}
