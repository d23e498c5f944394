package main

import (
	"context"

	mcpserver "github.com/msh-shiplu/GEM/internal/mcp"
)

// cmdMCP serves the teacher tools on stdio for editor integration
func (a *app) cmdMCP(ctx context.Context) error {
	if err := a.connected(ctx); err != nil {
		return err
	}

	srv := mcpserver.NewServer(mcpserver.Config{
		Version: Version,
		Teacher: a.svc,
		Seen:    a.seen(ctx),
	})
	a.env.Logger.Info("mcp server starting", "role", "teacher")
	return srv.ServeStdio(ctx)
}
