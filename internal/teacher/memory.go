package teacher

import (
	"sync"

	"github.com/msh-shiplu/GEM/internal/domain"
)

// MemorySeen keeps seen submissions for the life of the process.
type MemorySeen struct {
	mu      sync.RWMutex
	content map[int]string
}

// NewMemorySeen creates an empty in-memory store
func NewMemorySeen() *MemorySeen {
	return &MemorySeen{content: make(map[int]string)}
}

func (m *MemorySeen) Remember(sub *domain.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[sub.Pid] = sub.Content
	return nil
}

func (m *MemorySeen) Lookup(pid int) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.content[pid]
	return c, ok, nil
}

func (m *MemorySeen) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content = make(map[int]string)
	return nil
}
