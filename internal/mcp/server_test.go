package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/student"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

// fakeTeacher records the arguments of the last call
type fakeTeacher struct {
	mode     domain.BroadcastMode
	index    int
	priority domain.Priority
	decision domain.Decision
	seen     teacher.SeenSubmissions
	fetched  *teacher.Fetched
	err      error
}

func (f *fakeTeacher) Broadcast(ctx context.Context, paths []string, mode domain.BroadcastMode) (*teacher.BroadcastResult, error) {
	f.mode = mode
	return &teacher.BroadcastResult{Reply: "started"}, f.err
}

func (f *fakeTeacher) Share(ctx context.Context, path string) (string, error) {
	return "shared " + filepath.Base(path), f.err
}

func (f *fakeTeacher) GetSubmission(ctx context.Context, index int, priority domain.Priority, seen teacher.SeenSubmissions) (*teacher.Fetched, error) {
	f.index, f.priority, f.seen = index, priority, seen
	return f.fetched, f.err
}

func (f *fakeTeacher) Grade(ctx context.Context, path string, decision domain.Decision, seen teacher.SeenSubmissions) (string, error) {
	f.decision, f.seen = decision, seen
	return "graded", f.err
}

func (f *fakeTeacher) DeactivateProblems(ctx context.Context) (*teacher.Deactivation, error) {
	return &teacher.Deactivation{Message: "Problems closed.", AnswerURLs: []string{"http://s/view_answers?pc=x&pid=1"}}, f.err
}

type fakeStudent struct {
	req    student.ShareRequest
	budget student.AttemptBudget
}

func (f *fakeStudent) Share(ctx context.Context, req student.ShareRequest, budget student.AttemptBudget) (string, error) {
	f.req, f.budget = req, budget
	return "Content submitted.", nil
}

func (f *fakeStudent) GetBoards(ctx context.Context, budget student.AttemptBudget) (*student.Boards, error) {
	f.budget = budget
	return &student.Boards{Message: "Whiteboard is empty."}, nil
}

func (f *fakeStudent) Checkin(ctx context.Context) (string, error) {
	return "checked in", nil
}

func writeProblem(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write problem: %v", err)
	}
	return path
}

func TestNewServer(t *testing.T) {
	s := NewServer(Config{Teacher: &fakeTeacher{}})
	if s.GetMCPServer() == nil {
		t.Fatal("expected non-nil MCP server")
	}
	if s.seen == nil || s.budget == nil {
		t.Error("state stores should default to in-memory implementations")
	}

	// Nil services register only the local tools and must not panic
	if NewServer(Config{}) == nil {
		t.Fatal("expected non-nil server with empty config")
	}
}

func TestHandleParseProblem(t *testing.T) {
	s := NewServer(Config{})
	path := writeProblem(t, "loop_1.py", "# 3 1 2 loops\nwrite a loop\nANSWER: 10\n")

	out, err := s.handleParseProblem(context.Background(), ParseProblemInput{Path: path})
	if err != nil {
		t.Fatalf("handleParseProblem() error = %v", err)
	}
	if out.Merit != 3 || out.Effort != 1 || out.MaxAttempts != 2 || out.Tag != "loops" {
		t.Errorf("header = %+v", out)
	}
	if out.Answer != "10" || out.Extension != "py" {
		t.Errorf("answer/extension = %q/%q", out.Answer, out.Extension)
	}

	bad := writeProblem(t, "bad.py", "no header\nbody")
	if _, err := s.handleParseProblem(context.Background(), ParseProblemInput{Path: bad}); !errors.Is(err, domain.ErrMalformedDescriptor) {
		t.Errorf("handleParseProblem() error = %v, want ErrMalformedDescriptor", err)
	}
}

func TestHandleSequence(t *testing.T) {
	s := NewServer(Config{Teacher: &fakeTeacher{}})
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c_2.py", "a_1.py", "b_3.py"} {
		p := filepath.Join(dir, name)
		os.WriteFile(p, []byte("# 2 1 0\nbody\n"), 0644)
		paths = append(paths, p)
	}

	out, err := s.handleSequence(context.Background(), BatchInput{Paths: paths, Mode: "multicast_seq"})
	if err != nil {
		t.Fatalf("handleSequence() error = %v", err)
	}
	want := []string{"a_1.py", "c_2.py", "b_3.py"}
	for i := range want {
		if out.Files[i] != want[i] {
			t.Fatalf("Files = %v, want %v", out.Files, want)
		}
	}
	if out.NextIfCorrect[0] != 1 || out.NextIfCorrect[2] != -1 {
		t.Errorf("NextIfCorrect = %v", out.NextIfCorrect)
	}
}

func TestHandleGetSubmission(t *testing.T) {
	ft := &fakeTeacher{fetched: &teacher.Fetched{
		Submission: &domain.Submission{Pid: 3, Sid: 9},
		Path:       "/tmp/gemt1_3_9.py",
	}}
	s := NewServer(Config{Teacher: ft})

	out, err := s.handleGetSubmission(context.Background(), GetSubmissionInput{Priority: 2})
	if err != nil {
		t.Fatalf("handleGetSubmission() error = %v", err)
	}
	if ft.index != -1 || ft.priority != domain.PriorityNeedHelp {
		t.Errorf("index/priority = %d/%d", ft.index, ft.priority)
	}
	if ft.seen != s.seen {
		t.Error("server should pass its seen store")
	}
	if out.Pid != 3 || out.Sid != 9 || out.Path != "/tmp/gemt1_3_9.py" {
		t.Errorf("output = %+v", out)
	}

	idx := 4
	ft.fetched = &teacher.Fetched{Message: "There are no submissions with index 4."}
	out, err = s.handleGetSubmission(context.Background(), GetSubmissionInput{Index: &idx})
	if err != nil {
		t.Fatalf("handleGetSubmission() error = %v", err)
	}
	if ft.index != 4 || out.Path != "" || out.Message == "" {
		t.Errorf("empty queue output = %+v", out)
	}
}

func TestHandleGrade(t *testing.T) {
	ft := &fakeTeacher{}
	s := NewServer(Config{Teacher: ft})

	out, err := s.handleGrade(context.Background(), GradeInput{Path: "gemt1_3_9.py", Decision: "incorrect"})
	if err != nil {
		t.Fatalf("handleGrade() error = %v", err)
	}
	if ft.decision != domain.DecisionIncorrect || out.Message != "graded" {
		t.Errorf("decision = %q, message = %q", ft.decision, out.Message)
	}

	ft.err = domain.ErrNotGraded
	if _, err := s.handleGrade(context.Background(), GradeInput{Path: "x", Decision: "correct"}); !errors.Is(err, domain.ErrNotGraded) {
		t.Errorf("handleGrade() error = %v", err)
	}
}

func TestHandleDeactivate(t *testing.T) {
	s := NewServer(Config{Teacher: &fakeTeacher{}})

	out, err := s.handleDeactivate(context.Background(), EmptyInput{})
	if err != nil {
		t.Fatalf("handleDeactivate() error = %v", err)
	}
	if out.Message != "Problems closed." || len(out.AnswerURLs) != 1 {
		t.Errorf("output = %+v", out)
	}
}

func TestHandleStudentShare(t *testing.T) {
	fs := &fakeStudent{}
	s := NewServer(Config{Student: fs})

	out, err := s.handleStudentShare(context.Background(), StudentShareInput{Path: "gemp1019_5_1.py"})
	if err != nil {
		t.Fatalf("handleStudentShare() error = %v", err)
	}
	if fs.req.Priority != domain.PriorityGotIt {
		t.Errorf("default priority = %d, want got it", fs.req.Priority)
	}
	if fs.budget != s.budget {
		t.Error("server should pass its attempt budget")
	}
	if out.Message != "Content submitted." {
		t.Errorf("message = %q", out.Message)
	}

	s.handleStudentShare(context.Background(), StudentShareInput{Path: "notes.txt", Priority: 2, Confirm: true})
	if fs.req.Priority != domain.PriorityNeedHelp || !fs.req.Confirmed {
		t.Errorf("request = %+v", fs.req)
	}
}

func TestHandleBoardsAndCheckin(t *testing.T) {
	s := NewServer(Config{Student: &fakeStudent{}})

	boards, err := s.handleBoards(context.Background(), EmptyInput{})
	if err != nil {
		t.Fatalf("handleBoards() error = %v", err)
	}
	if boards.Message != "Whiteboard is empty." {
		t.Errorf("message = %q", boards.Message)
	}

	out, err := s.handleCheckin(context.Background(), EmptyInput{})
	if err != nil {
		t.Fatalf("handleCheckin() error = %v", err)
	}
	if out.Message != "checked in" {
		t.Errorf("message = %q", out.Message)
	}
}
