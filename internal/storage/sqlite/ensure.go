package sqlite

import (
	"github.com/msh-shiplu/GEM/internal/student"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

// Ensure SQLite stores implement the state interfaces.
var (
	_ teacher.SeenSubmissions = (*SeenStore)(nil)
	_ student.AttemptBudget   = (*AttemptStore)(nil)
)
