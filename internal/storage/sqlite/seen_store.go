package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// SeenStore remembers the last submission the teacher opened per problem.
type SeenStore struct {
	db *DB
}

// NewSeenStore creates a SQLite-backed seen-submission store.
func NewSeenStore(db *DB) *SeenStore {
	return &SeenStore{db: db}
}

// Remember records sub as the latest content seen for its problem.
func (s *SeenStore) Remember(sub *domain.Submission) error {
	_, err := s.db.Exec(`
		INSERT INTO seen_submissions (pid, content, sid, uid, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(pid) DO UPDATE SET
			content=excluded.content, sid=excluded.sid,
			uid=excluded.uid, updated_at=excluded.updated_at`,
		sub.Pid, sub.Content, sub.Sid, sub.Uid, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save seen submission: %w", err)
	}
	return nil
}

// Lookup returns the last content seen for pid.
func (s *SeenStore) Lookup(pid int) (string, bool, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM seen_submissions WHERE pid = ?", pid).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get seen submission: %w", err)
	}
	return content, true, nil
}

// Clear forgets everything, used when the teacher clears all submissions.
func (s *SeenStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM seen_submissions"); err != nil {
		return fmt.Errorf("clear seen submissions: %w", err)
	}
	return nil
}
