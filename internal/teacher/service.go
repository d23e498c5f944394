package teacher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/msh-shiplu/GEM/internal/client"
	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/problem"
	"github.com/msh-shiplu/GEM/internal/workspace"
)

// minBulletinLength is the shortest padded bulletin the server accepts.
const minBulletinLength = 20

// View is a teacher page served by the GEM web interface
type View string

const (
	ViewReport        View = "report"
	ViewActivities    View = "view_activities"
	ViewBulletinBoard View = "view_bulletin_board"
	ViewAnswers       View = "view_answers"
)

// BroadcastResult describes a batch that was sent
type BroadcastResult struct {
	Reply    string
	Sequence *domain.Sequence
}

// Fetched is the outcome of asking for the next submission
type Fetched struct {
	Submission *domain.Submission
	Path       string // empty when there was nothing to fetch
	Message    string
}

// Deactivation lists the answer pages of the problems that were closed
type Deactivation struct {
	Message    string
	Pids       []int
	AnswerURLs []string
}

// Service performs teacher actions against a GEM server
type Service struct {
	client     *client.Client
	parser     *problem.Parser
	logger     *slog.Logger
	saveConfig func(*config.LocalConfig) error
}

// NewService creates a teacher service
func NewService(c *client.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:     c,
		parser:     problem.NewParser(),
		logger:     logger,
		saveConfig: config.SaveLocalConfig,
	}
}

// SetConfigSaver replaces how registration and connect persist the config
func (s *Service) SetConfigSaver(save func(*config.LocalConfig) error) {
	s.saveConfig = save
}

// Test checks that the server is reachable and the credentials work.
func (s *Service) Test(ctx context.Context) (string, error) {
	return s.client.Post(ctx, "test", nil)
}

// Passcode fetches the session token used by the web views.
func (s *Service) Passcode(ctx context.Context) (string, error) {
	reply, err := s.client.Post(ctx, "teacher_gets_passcode", nil)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if strings.HasPrefix(reply, "Unauthorized") {
		return "", domain.ErrUnauthorized
	}
	return reply, nil
}

// ViewURL returns a passcode-protected link to a teacher page.
func (s *Service) ViewURL(ctx context.Context, view View) (string, error) {
	pc, err := s.Passcode(ctx)
	if err != nil {
		return "", err
	}
	return s.client.URL(string(view), url.Values{"pc": {pc}})
}

// Share sends a file to every student's whiteboard.
func (s *Service) Share(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	content := strings.TrimLeftFunc(string(data), unicode.IsSpace)
	if content == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrEmptyContent, filepath.Base(path))
	}

	form := url.Values{}
	form.Set("content", content)
	form.Set("filename", filepath.Base(path))
	return s.client.Post(ctx, "teacher_shares", form)
}

// Broadcast parses every file, orders them for mode and starts them as new
// problems. Nothing is sent if any file fails to parse.
func (s *Service) Broadcast(ctx context.Context, paths []string, mode domain.BroadcastMode) (*BroadcastResult, error) {
	seq, err := s.parser.LoadBatch(paths, mode)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.Post(ctx, "teacher_broadcasts", problem.EncodeBatch(seq))
	if err != nil {
		return nil, err
	}
	s.logger.Info("problems broadcast", "mode", mode, "count", seq.Len())
	return &BroadcastResult{Reply: reply, Sequence: seq}, nil
}

// DeactivateProblems closes the active problems and returns one answer page per problem.
func (s *Service) DeactivateProblems(ctx context.Context) (*Deactivation, error) {
	pc, err := s.Passcode(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.Post(ctx, "teacher_deactivates_problems", nil)
	if err != nil {
		return nil, err
	}
	var pids []int
	if err := json.Unmarshal([]byte(reply), &pids); err != nil {
		return nil, fmt.Errorf("decode active problems: %w", err)
	}

	d := &Deactivation{Message: "Problems closed.", Pids: pids}
	if len(pids) > 0 {
		d.Message += " Answers to be summarized."
	}
	for _, pid := range pids {
		u, err := s.client.URL(string(ViewAnswers), url.Values{
			"pc":  {pc},
			"pid": {strconv.Itoa(pid)},
		})
		if err != nil {
			return nil, err
		}
		d.AnswerURLs = append(d.AnswerURLs, u)
	}
	return d, nil
}

// ClearSubmissions removes all submissions and whiteboards on the server.
func (s *Service) ClearSubmissions(ctx context.Context, seen SeenSubmissions) (string, error) {
	reply, err := s.client.Post(ctx, "teacher_clears_submissions", nil)
	if err != nil {
		return "", err
	}
	if seen != nil {
		if err := seen.Clear(); err != nil {
			s.logger.Warn("could not reset seen submissions", "error", err)
		}
	}
	return reply, nil
}

// AddBulletin posts text to the class bulletin board.
func (s *Service) AddBulletin(ctx context.Context, text string) (string, error) {
	content := "\n\n" + text + "\n\n"
	if len(content) <= minBulletinLength {
		return "", fmt.Errorf("%w: select more text to show on the bulletin board", domain.ErrEmptyContent)
	}
	return s.client.Post(ctx, "teacher_adds_bulletin_page", url.Values{"content": {content}})
}

// GetSubmission asks for the next submission. A negative index means "next in
// queue"; priority narrows the queue. The submission is written to the
// working folder and remembered in seen.
func (s *Service) GetSubmission(ctx context.Context, index int, priority domain.Priority, seen SeenSubmissions) (*Fetched, error) {
	form := url.Values{}
	form.Set("index", strconv.Itoa(index))
	form.Set("priority", strconv.Itoa(int(priority)))

	reply, err := s.client.Post(ctx, "teacher_gets", form)
	if err != nil {
		return nil, err
	}
	var sub domain.Submission
	if err := json.Unmarshal([]byte(reply), &sub); err != nil {
		return nil, fmt.Errorf("decode submission: %w", err)
	}

	if sub.Empty() {
		return &Fetched{Message: noSubmissionMessage(index, priority)}, nil
	}

	folder := workspace.NewFolder(s.client.Config().Folder)
	path, err := folder.WriteSubmission(&sub, problem.DefaultExtension)
	if err != nil {
		return nil, err
	}
	if seen != nil {
		if err := seen.Remember(&sub); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("submission fetched", "pid", sub.Pid, "sid", sub.Sid, "path", path)
	return &Fetched{Submission: &sub, Path: path}, nil
}

func noSubmissionMessage(index int, priority domain.Priority) string {
	switch {
	case index >= 0:
		return fmt.Sprintf("There are no submissions with index %d.", index)
	case priority > 0:
		return fmt.Sprintf("There are no submissions with priority %d.", priority)
	default:
		return "There are no submissions."
	}
}

// Grade sends a verdict for the submission stored at path.
func (s *Service) Grade(ctx context.Context, path string, decision domain.Decision, seen SeenSubmissions) (string, error) {
	if !decision.IsValid() {
		return "", fmt.Errorf("unknown decision %q", decision)
	}
	ref, err := workspace.ParseSubmissionName(path)
	if err != nil {
		return "", err
	}
	if ref.Pid == 0 {
		return "", domain.ErrNotGraded
	}

	content := ""
	changed := false
	if decision != domain.DecisionDismissed {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		content = strings.TrimSpace(string(data))

		if seen != nil {
			prev, ok, err := seen.Lookup(ref.Pid)
			if err != nil {
				return "", err
			}
			changed = ok && content != strings.TrimSpace(prev)
		}
	}

	form := url.Values{}
	form.Set("stid", strconv.Itoa(ref.Stid))
	form.Set("pid", strconv.Itoa(ref.Pid))
	form.Set("sid", strconv.Itoa(ref.Sid))
	form.Set("content", content)
	form.Set("decision", string(decision))
	form.Set("changed", strconv.FormatBool(changed))

	reply, err := s.client.Post(ctx, "teacher_grades", form)
	if err != nil {
		return "", err
	}
	s.logger.Info("submission graded", "pid", ref.Pid, "sid", ref.Sid, "decision", decision, "changed", changed)
	return reply, nil
}

// CompleteRegistration claims the teacher account assigned to name and
// saves the returned credentials.
func (s *Service) CompleteRegistration(ctx context.Context, name string) (*domain.Registration, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	form := url.Values{}
	form.Set("name", name)
	form.Set("role", string(domain.RoleTeacher))
	reply, err := s.client.PostAnonymous(ctx, "complete_registration", form)
	if err != nil {
		return nil, err
	}

	reg, err := ParseRegistration(reply)
	if err != nil {
		return nil, err
	}

	cfg := s.client.Config()
	cfg.ApplyRegistration(name, *reg)
	if err := s.saveConfig(cfg); err != nil {
		return nil, err
	}
	return reg, nil
}

// ParseRegistration decodes "uid,password,course[,nameserver]".
func ParseRegistration(reply string) (*domain.Registration, error) {
	reply = strings.TrimSpace(reply)
	if reply == "Failed" {
		return nil, domain.ErrRegistrationFailed
	}

	parts := strings.Split(reply, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("%w: unexpected reply %q", domain.ErrRegistrationFailed, reply)
	}
	uid, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad uid %q", domain.ErrRegistrationFailed, parts[0])
	}

	reg := &domain.Registration{
		Uid:      uid,
		Password: strings.TrimSpace(parts[1]),
		CourseID: strings.TrimSpace(parts[2]),
	}
	if len(parts) == 4 {
		ns := strings.TrimSpace(parts[3])
		if ns != "" {
			if !strings.HasPrefix(ns, "http://") && !strings.HasPrefix(ns, "https://") {
				ns = "http://" + ns
			}
			reg.NameServer = ns
		}
	}
	return reg, nil
}

// Connect looks up the server address through the course name server and saves it.
func (s *Service) Connect(ctx context.Context) (string, error) {
	cfg := s.client.Config()
	if cfg.NameServer == "" {
		return "", errors.New("no name server configured; set the server address instead")
	}

	server, err := client.Resolve(ctx, cfg, client.WithLogger(s.logger))
	if err != nil {
		return "", err
	}
	cfg.Server = server
	if err := s.saveConfig(cfg); err != nil {
		return "", err
	}
	s.logger.Info("connected", "server", server)
	return server, nil
}
