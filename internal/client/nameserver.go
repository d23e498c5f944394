package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/msh-shiplu/GEM/internal/config"
)

// Resolve asks the course name server for the current GEM server address.
func Resolve(ctx context.Context, cfg *config.LocalConfig, opts ...Option) (string, error) {
	if cfg.NameServer == "" {
		return "", fmt.Errorf("no name server configured")
	}

	// The name server is addressed directly, not through cfg.Server.
	nsCfg := *cfg
	nsCfg.Server = cfg.NameServer
	c := New(&nsCfg, opts...)
	defer c.Close()

	u, err := resolve(nsCfg.Server, "ask")
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("who", cfg.CourseID)
	reply, err := c.resilience.do(ctx, "ask", func(ctx context.Context) (string, error) {
		return c.doRequest(ctx, u.String(), "ask", form)
	})
	if err != nil {
		return "", fmt.Errorf("cannot connect to name server: %w", err)
	}

	server := strings.TrimSpace(reply)
	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		// The name server explains failures in plain text.
		return "", fmt.Errorf("name server: %s", server)
	}
	return server, nil
}
