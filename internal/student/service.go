package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/msh-shiplu/GEM/internal/client"
	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/problem"
	"github.com/msh-shiplu/GEM/internal/workspace"
)

// lowAttempts is the budget at which the student is warned after a submission.
const lowAttempts = 3

// Boards is the result of downloading the whiteboard
type Boards struct {
	Paths   []string
	Message string
}

// Service performs student actions against a GEM server
type Service struct {
	client     *client.Client
	logger     *slog.Logger
	folder     func(dir string) *workspace.Folder
	saveConfig func(*config.LocalConfig) error
}

// NewService creates a student service
func NewService(c *client.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client: c,
		logger: logger,
		folder: func(dir string) *workspace.Folder {
			return workspace.NewFolder(dir)
		},
		saveConfig: config.SaveLocalConfig,
	}
}

// SetConfigSaver replaces how registration persists the config
func (s *Service) SetConfigSaver(save func(*config.LocalConfig) error) {
	s.saveConfig = save
}

// SetFolderOptions configures the working folder, e.g. a fixed clock in tests
func (s *Service) SetFolderOptions(opts ...workspace.Option) {
	s.folder = func(dir string) *workspace.Folder {
		return workspace.NewFolder(dir, opts...)
	}
}

// Register signs up under name and saves the assigned credentials.
func (s *Service) Register(ctx context.Context, name string) (*domain.Registration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	reply, err := s.client.PostAnonymous(ctx, "student_registers", url.Values{"name": {name}})
	if err != nil {
		return nil, err
	}
	reply = strings.TrimSpace(reply)
	if reply == "exist" {
		return nil, fmt.Errorf("%w: %s, choose a different name", domain.ErrNameTaken, name)
	}

	uidText, password, ok := strings.Cut(reply, ",")
	uid, err := strconv.Atoi(strings.TrimSpace(uidText))
	if !ok || err != nil {
		return nil, fmt.Errorf("%w: unexpected reply %q", domain.ErrRegistrationFailed, reply)
	}
	reg := &domain.Registration{Uid: uid, Password: strings.TrimSpace(password)}

	cfg := s.client.Config()
	cfg.ApplyRegistration(name, *reg)
	if err := s.saveConfig(cfg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Checkin records attendance for today.
func (s *Service) Checkin(ctx context.Context) (string, error) {
	return s.client.Post(ctx, "student_checks_in", nil)
}

// Share submits a working file. Files that are not graded problems go out at
// "got it" priority and only when confirmed. A problem whose attempt budget is
// used up is not sent.
func (s *Service) Share(ctx context.Context, req ShareRequest, budget AttemptBudget) (string, error) {
	data, err := os.ReadFile(req.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", req.Path, err)
	}

	pid := workspace.ProblemID(req.Path)
	priority := req.Priority
	if pid == 0 {
		if !req.Confirmed {
			return "", fmt.Errorf("%w: this file is not a graded problem", domain.ErrNeedsConfirm)
		}
		priority = domain.PriorityGotIt
	}

	remaining, tracked := 0, false
	if budget != nil {
		remaining, tracked, err = budget.Remaining(pid)
		if err != nil {
			return "", err
		}
		if tracked && remaining == 0 {
			return "", fmt.Errorf("%w: not submitted", domain.ErrExpired)
		}
	}

	content := strings.TrimLeftFunc(string(data), unicode.IsSpace)
	form := url.Values{}
	form.Set("content", content)
	form.Set("answer", ExtractAnswer(content))
	form.Set("pid", strconv.Itoa(pid))
	form.Set("ext", workspace.Extension(req.Path, problem.DefaultExtension))
	form.Set("priority", strconv.Itoa(int(priority)))

	reply, err := s.client.Post(ctx, "student_shares", form)
	if err != nil {
		return "", err
	}
	if reply = strings.TrimSpace(reply); reply != "OK" {
		return "", errors.New(reply)
	}

	if tracked {
		remaining--
		if err := budget.Set(pid, remaining); err != nil {
			return "", err
		}
		s.logger.Debug("attempt used", "pid", pid, "remaining", remaining)
		if remaining <= lowAttempts {
			return fmt.Sprintf("There are %d attempts left.", remaining), nil
		}
	}
	return "Content submitted.", nil
}

// ExtractAnswer returns the trimmed text after the last answer tag.
func ExtractAnswer(content string) string {
	i := strings.LastIndex(content, domain.AnswerTag)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(content[i+len(domain.AnswerTag):])
}

// GetBoards downloads every whiteboard item into the working folder. Problems
// that limit attempts reset the budget for their pid.
func (s *Service) GetBoards(ctx context.Context, budget AttemptBudget) (*Boards, error) {
	reply, err := s.client.Post(ctx, "student_gets", nil)
	if err != nil {
		return nil, err
	}
	var boards []domain.Board
	if err := json.Unmarshal([]byte(reply), &boards); err != nil {
		return nil, fmt.Errorf("decode whiteboard: %w", err)
	}
	if len(boards) == 0 {
		return &Boards{Message: "Whiteboard is empty."}, nil
	}

	folder := s.folder(s.client.Config().Folder)
	res := &Boards{}
	for i := range boards {
		b := &boards[i]
		if b.IsProblem() && b.Attempts > 0 && budget != nil {
			if err := budget.Set(b.Pid, b.Attempts); err != nil {
				return nil, err
			}
		}
		path, err := folder.WriteBoard(b)
		if err != nil {
			return nil, err
		}
		res.Paths = append(res.Paths, path)
	}
	res.Message = fmt.Sprintf("%d item(s) copied from the whiteboard.", len(res.Paths))
	return res, nil
}

// Report downloads the student's points and writes them to report.txt.
func (s *Service) Report(ctx context.Context) (string, error) {
	reply, err := s.client.Post(ctx, "student_gets_report", nil)
	if err != nil {
		return "", err
	}
	var entries []domain.ReportEntry
	if err := json.Unmarshal([]byte(reply), &entries); err != nil {
		return "", fmt.Errorf("decode report: %w", err)
	}
	return s.folder(s.client.Config().Folder).WriteReport(entries)
}

// MessagesURL links to the page with the teacher's feedback for this student.
func (s *Service) MessagesURL() (string, error) {
	cfg := s.client.Config()
	if cfg.Uid == 0 {
		return "", fmt.Errorf("%w: register first", domain.ErrNotRegistered)
	}
	return s.client.URL("show_student_messages", url.Values{"stid": {strconv.Itoa(cfg.Uid)}})
}
