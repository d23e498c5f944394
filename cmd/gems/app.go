package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/msh-shiplu/GEM/internal/cli"
	"github.com/msh-shiplu/GEM/internal/client"
	"github.com/msh-shiplu/GEM/internal/config"
	"github.com/msh-shiplu/GEM/internal/domain"
	mcpserver "github.com/msh-shiplu/GEM/internal/mcp"
	"github.com/msh-shiplu/GEM/internal/storage/sqlite"
	"github.com/msh-shiplu/GEM/internal/student"
)

type app struct {
	env    *cli.Env
	client *client.Client
	svc    *student.Service
	db     *sqlite.DB
}

func newApp() (*app, error) {
	env, err := cli.Load(domain.RoleStudent, "gems")
	if err != nil {
		return nil, err
	}
	c := env.Client()
	return &app{
		env:    env,
		client: c,
		svc:    student.NewService(c, env.Logger),
	}, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	a.client.Close()
	a.env.Close()
}

// budget returns the persistent attempt budget, or an in-memory one when the
// local database is unavailable.
func (a *app) budget(ctx context.Context) student.AttemptBudget {
	if a.db == nil {
		db, err := sqlite.OpenLocal(ctx, a.env.Logger)
		if err != nil {
			a.env.Logger.Warn("local state unavailable, attempt limits not tracked", "error", err)
			return student.NewMemoryBudget()
		}
		a.db = db
	}
	return sqlite.NewAttemptStore(a.db)
}

func (a *app) cmdServer(args []string) error {
	addr := ""
	if len(args) > 0 {
		addr = args[0]
	} else {
		def := a.env.Config.Server
		if def == "" {
			def = config.StudentServerPlaceholder
		}
		addr = a.env.Prompt("Set server address", def)
	}
	if err := a.env.Config.SetServer(addr); err != nil {
		return err
	}
	if err := a.env.Save(); err != nil {
		return err
	}
	a.env.Success("Server set to %s", a.env.Config.Server)
	return nil
}

func (a *app) cmdFolder(args []string) error {
	folder := ""
	if len(args) > 0 {
		folder = args[0]
	} else {
		def := a.env.Config.Folder
		if def == "" {
			def = config.DefaultFolder(domain.RoleStudent)
		}
		folder = a.env.Prompt("Folder for working files", def)
	}

	existed, err := a.env.Config.SetFolder(folder)
	if err != nil {
		return err
	}
	if err := a.env.Save(); err != nil {
		return err
	}
	if existed {
		a.env.Notice("Folder exists. Will use it to store working files.")
	}
	a.env.Success("Working folder set to %s", a.env.Config.Folder)
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	} else {
		label := "Enter your name"
		if a.env.Config.Name != "" {
			label = fmt.Sprintf("%s is already registered. Enter a name to register again", a.env.Config.Name)
		}
		name = a.env.Prompt(label, "")
	}

	if _, err := a.svc.Register(ctx, name); err != nil {
		return err
	}
	a.env.Success("%s registered", a.env.Config.Name)
	return nil
}

func (a *app) cmdCheckin(ctx context.Context) error {
	reply, err := a.svc.Checkin(ctx)
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}

func (a *app) cmdShare(ctx context.Context, args []string, priority domain.Priority, yes bool) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gems got-it|need-help <file>")
	}
	req := student.ShareRequest{Path: args[0], Priority: priority, Confirmed: yes}
	budget := a.budget(ctx)

	reply, err := a.svc.Share(ctx, req, budget)
	if errors.Is(err, domain.ErrNeedsConfirm) {
		if !a.env.Confirm("This file is not a graded problem. Do you want to send it anyway?") {
			return nil
		}
		req.Confirmed = true
		reply, err = a.svc.Share(ctx, req, budget)
	}
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}

func (a *app) cmdBoards(ctx context.Context) error {
	boards, err := a.svc.GetBoards(ctx, a.budget(ctx))
	if err != nil {
		return err
	}
	for _, p := range boards.Paths {
		a.env.Info("%s", p)
	}
	a.env.Success("%s", boards.Message)
	return nil
}

func (a *app) cmdReport(ctx context.Context) error {
	path, err := a.svc.Report(ctx)
	if err != nil {
		return err
	}
	a.env.Success("Report saved to %s", path)
	return nil
}

func (a *app) cmdMessages() error {
	u, err := a.svc.MessagesURL()
	if err != nil {
		return err
	}
	a.env.OpenBrowser(u)
	return nil
}

// cmdMCP serves the student tools on stdio
func (a *app) cmdMCP(ctx context.Context) error {
	srv := mcpserver.NewServer(mcpserver.Config{
		Version: Version,
		Student: a.svc,
		Budget:  a.budget(ctx),
	})
	a.env.Logger.Info("mcp server starting", "role", "student")
	return srv.ServeStdio(ctx)
}
