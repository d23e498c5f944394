package main

import (
	"context"

	"github.com/msh-shiplu/GEM/internal/cli"
	"github.com/msh-shiplu/GEM/internal/client"
	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/storage/sqlite"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

type app struct {
	env    *cli.Env
	client *client.Client
	svc    *teacher.Service
	db     *sqlite.DB

	resolved bool
}

func newApp() (*app, error) {
	env, err := cli.Load(domain.RoleTeacher, "gemt")
	if err != nil {
		return nil, err
	}
	c := env.Client()
	return &app{
		env:    env,
		client: c,
		svc:    teacher.NewService(c, env.Logger),
	}, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	a.client.Close()
	a.env.Close()
}

// connected refreshes the server address from the name server once per
// process, replacing the saved address. A failed lookup keeps the saved one.
func (a *app) connected(ctx context.Context) error {
	cfg := a.env.Config
	if cfg.NameServer == "" || a.resolved {
		return nil
	}
	a.resolved = true

	server, err := a.svc.Connect(ctx)
	if err != nil {
		if cfg.Server == "" {
			return err
		}
		a.env.Logger.Warn("name server lookup failed, using saved server", "server", cfg.Server, "error", err)
		return nil
	}
	a.env.Logger.Debug("server resolved", "server", server)
	return nil
}

// seen returns the persistent seen-submission store, falling back to memory
// when the local database cannot be opened.
func (a *app) seen(ctx context.Context) teacher.SeenSubmissions {
	if a.db == nil {
		db, err := sqlite.OpenLocal(ctx, a.env.Logger)
		if err != nil {
			a.env.Logger.Warn("local state unavailable, edits will not be detected", "error", err)
			return teacher.NewMemorySeen()
		}
		a.db = db
	}
	return sqlite.NewSeenStore(a.db)
}
