package student

import "sync"

// MemoryBudget keeps attempt budgets for the life of the process.
type MemoryBudget struct {
	mu        sync.RWMutex
	remaining map[int]int
}

// NewMemoryBudget creates an empty in-memory budget
func NewMemoryBudget() *MemoryBudget {
	return &MemoryBudget{remaining: make(map[int]int)}
}

func (m *MemoryBudget) Set(pid, remaining int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remaining[pid] = remaining
	return nil
}

func (m *MemoryBudget) Remaining(pid int) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.remaining[pid]
	return n, ok, nil
}
