package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	mcp "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/server"
	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/problem"
	"github.com/msh-shiplu/GEM/internal/student"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

// Server exposes GEM classroom actions as MCP tools for editor integration
type Server struct {
	mcpServer *server.Server
	parser    *problem.Parser

	teacher teacher.Operations
	seen    teacher.SeenSubmissions

	student student.Operations
	budget  student.AttemptBudget
}

// Config contains configuration for the MCP server. Teacher tools are
// registered when Teacher is set, student tools when Student is set.
type Config struct {
	Version string

	Teacher teacher.Operations
	Seen    teacher.SeenSubmissions

	Student student.Operations
	Budget  student.AttemptBudget
}

// NewServer creates a new MCP server for GEM
func NewServer(cfg Config) *Server {
	s := &Server{
		parser:  problem.NewParser(),
		teacher: cfg.Teacher,
		seen:    cfg.Seen,
		student: cfg.Student,
		budget:  cfg.Budget,
	}
	if s.seen == nil {
		s.seen = teacher.NewMemorySeen()
	}
	if s.budget == nil {
		s.budget = student.NewMemoryBudget()
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s.mcpServer = server.New(server.Info{
		Name:    "gem",
		Version: version,
	}, server.WithInstructions(`
GEM connects a teacher and a class of students working in their editors.

Problem files start with a header line "<merit> <effort> <attempts> [tag]",
optionally behind a "#" or "//" comment marker. Text after "ANSWER:" is the
expected answer. For sequential sets, name files <name>_<level>.<ext>.

Teacher tools: gem_parse_problem, gem_sequence, gem_broadcast, gem_share,
gem_get_submission, gem_grade, gem_deactivate.
Student tools: gem_parse_problem, gem_student_share, gem_boards, gem_checkin.
`))

	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("gem_parse_problem").
		Description("Parse a problem file and show how students will see it.").
		Handler(s.handleParseProblem)

	if s.teacher != nil {
		s.mcpServer.Tool("gem_sequence").
			Description("Order problem files by difficulty without sending them.").
			Handler(s.handleSequence)

		s.mcpServer.Tool("gem_broadcast").
			Description("Start problems for the class. Closes currently active problems.").
			Handler(s.handleBroadcast)

		s.mcpServer.Tool("gem_share").
			Description("Share a file on every student's whiteboard.").
			Handler(s.handleShare)

		s.mcpServer.Tool("gem_get_submission").
			Description("Fetch the next student submission into the working folder.").
			Handler(s.handleGetSubmission)

		s.mcpServer.Tool("gem_grade").
			Description("Grade a fetched submission as correct, incorrect or dismissed.").
			Handler(s.handleGrade)

		s.mcpServer.Tool("gem_deactivate").
			Description("Close active problems and list their answer pages.").
			Handler(s.handleDeactivate)
	}

	if s.student != nil {
		s.mcpServer.Tool("gem_student_share").
			Description("Submit a working file to the teacher.").
			Handler(s.handleStudentShare)

		s.mcpServer.Tool("gem_boards").
			Description("Copy everything on the whiteboard into the working folder.").
			Handler(s.handleBoards)

		s.mcpServer.Tool("gem_checkin").
			Description("Check in for today's class.").
			Handler(s.handleCheckin)
	}
}

// Input/Output types for tools

type ParseProblemInput struct {
	Path string `json:"path" jsonschema:"description=Path to the problem file"`
}

type ParseProblemOutput struct {
	Merit       int    `json:"merit"`
	Effort      int    `json:"effort"`
	MaxAttempts int    `json:"max_attempts"`
	Tag         string `json:"tag,omitempty"`
	Answer      string `json:"answer,omitempty"`
	Extension   string `json:"extension"`
	Body        string `json:"body"`
}

type BatchInput struct {
	Paths []string `json:"paths" jsonschema:"description=Problem files to send"`
	Mode  string   `json:"mode" jsonschema:"description=Broadcast mode,enum=unicast,enum=multicast_or,enum=multicast_and,enum=multicast_seq"`
}

type SequenceOutput struct {
	Files           []string `json:"files"`
	NextIfCorrect   []int    `json:"next_if_correct"`
	NextIfIncorrect []int    `json:"next_if_incorrect"`
}

type PathInput struct {
	Path string `json:"path" jsonschema:"description=Path to the file"`
}

type GetSubmissionInput struct {
	Priority int  `json:"priority,omitempty" jsonschema:"description=0 any; 1 got it; 2 need help"`
	Index    *int `json:"index,omitempty" jsonschema:"description=Fetch a specific queue position instead of the next one"`
}

type GetSubmissionOutput struct {
	Path    string `json:"path,omitempty"`
	Pid     int    `json:"pid,omitempty"`
	Sid     int    `json:"sid,omitempty"`
	Message string `json:"message,omitempty"`
}

type GradeInput struct {
	Path     string `json:"path" jsonschema:"description=Submission file fetched with gem_get_submission"`
	Decision string `json:"decision" jsonschema:"description=Verdict,enum=correct,enum=incorrect,enum=dismissed"`
}

type EmptyInput struct{}

type DeactivateOutput struct {
	Message    string   `json:"message"`
	AnswerURLs []string `json:"answer_urls,omitempty"`
}

type StudentShareInput struct {
	Path     string `json:"path" jsonschema:"description=Working file to submit"`
	Priority int    `json:"priority,omitempty" jsonschema:"description=1 got it (default); 2 need help"`
	Confirm  bool   `json:"confirm,omitempty" jsonschema:"description=Required to send a file that is not a graded problem"`
}

type BoardsOutput struct {
	Files   []string `json:"files,omitempty"`
	Message string   `json:"message"`
}

type MessageOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleParseProblem(ctx context.Context, input ParseProblemInput) (ParseProblemOutput, error) {
	data, err := os.ReadFile(input.Path)
	if err != nil {
		return ParseProblemOutput{}, fmt.Errorf("read problem file: %w", err)
	}
	desc, err := s.parser.Parse(string(data), input.Path)
	if err != nil {
		return ParseProblemOutput{}, err
	}
	return ParseProblemOutput{
		Merit:       desc.Merit,
		Effort:      desc.Effort,
		MaxAttempts: desc.MaxAttempts,
		Tag:         desc.Tag,
		Answer:      desc.Answer,
		Extension:   desc.Extension,
		Body:        desc.Body,
	}, nil
}

func (s *Server) handleSequence(ctx context.Context, input BatchInput) (SequenceOutput, error) {
	seq, err := s.parser.LoadBatch(input.Paths, domain.BroadcastMode(input.Mode))
	if err != nil {
		return SequenceOutput{}, err
	}
	out := SequenceOutput{
		NextIfCorrect:   seq.NextIfCorrect,
		NextIfIncorrect: seq.NextIfIncorrect,
	}
	for _, p := range seq.Problems {
		out.Files = append(out.Files, p.SourceName)
	}
	return out, nil
}

func (s *Server) handleBroadcast(ctx context.Context, input BatchInput) (MessageOutput, error) {
	res, err := s.teacher.Broadcast(ctx, input.Paths, domain.BroadcastMode(input.Mode))
	if err != nil {
		return MessageOutput{}, err
	}
	return MessageOutput{Message: res.Reply}, nil
}

func (s *Server) handleShare(ctx context.Context, input PathInput) (MessageOutput, error) {
	reply, err := s.teacher.Share(ctx, input.Path)
	if err != nil {
		return MessageOutput{}, err
	}
	return MessageOutput{Message: reply}, nil
}

func (s *Server) handleGetSubmission(ctx context.Context, input GetSubmissionInput) (GetSubmissionOutput, error) {
	index := -1
	if input.Index != nil {
		index = *input.Index
	}
	fetched, err := s.teacher.GetSubmission(ctx, index, domain.Priority(input.Priority), s.seen)
	if err != nil {
		return GetSubmissionOutput{}, err
	}
	if fetched.Submission == nil {
		return GetSubmissionOutput{Message: fetched.Message}, nil
	}
	return GetSubmissionOutput{
		Path:    fetched.Path,
		Pid:     fetched.Submission.Pid,
		Sid:     fetched.Submission.Sid,
		Message: fmt.Sprintf("Opened %s", filepath.Base(fetched.Path)),
	}, nil
}

func (s *Server) handleGrade(ctx context.Context, input GradeInput) (MessageOutput, error) {
	reply, err := s.teacher.Grade(ctx, input.Path, domain.Decision(input.Decision), s.seen)
	if err != nil {
		return MessageOutput{}, err
	}
	return MessageOutput{Message: reply}, nil
}

func (s *Server) handleDeactivate(ctx context.Context, input EmptyInput) (DeactivateOutput, error) {
	d, err := s.teacher.DeactivateProblems(ctx)
	if err != nil {
		return DeactivateOutput{}, err
	}
	return DeactivateOutput{Message: d.Message, AnswerURLs: d.AnswerURLs}, nil
}

func (s *Server) handleStudentShare(ctx context.Context, input StudentShareInput) (MessageOutput, error) {
	priority := domain.Priority(input.Priority)
	if priority == domain.PriorityAny {
		priority = domain.PriorityGotIt
	}
	msg, err := s.student.Share(ctx, student.ShareRequest{
		Path:      input.Path,
		Priority:  priority,
		Confirmed: input.Confirm,
	}, s.budget)
	if err != nil {
		return MessageOutput{}, err
	}
	return MessageOutput{Message: msg}, nil
}

func (s *Server) handleBoards(ctx context.Context, input EmptyInput) (BoardsOutput, error) {
	boards, err := s.student.GetBoards(ctx, s.budget)
	if err != nil {
		return BoardsOutput{}, err
	}
	return BoardsOutput{Files: boards.Paths, Message: boards.Message}, nil
}

func (s *Server) handleCheckin(ctx context.Context, input EmptyInput) (MessageOutput, error) {
	reply, err := s.student.Checkin(ctx)
	if err != nil {
		return MessageOutput{}, err
	}
	return MessageOutput{Message: reply}, nil
}

// ServeStdio starts the MCP server on stdio
func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

// GetMCPServer returns the underlying MCP server (for testing)
func (s *Server) GetMCPServer() *server.Server {
	return s.mcpServer
}
