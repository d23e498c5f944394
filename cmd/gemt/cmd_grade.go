package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

var decisions = map[string]domain.Decision{
	"correct":   domain.DecisionCorrect,
	"incorrect": domain.DecisionIncorrect,
	"dismiss":   domain.DecisionDismissed,
}

func (a *app) cmdNext(ctx context.Context, args []string, priority domain.Priority) error {
	index := -1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("index must be a non-negative number, got %q", args[0])
		}
		index = n
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	fetched, err := a.svc.GetSubmission(ctx, index, priority, a.seen(ctx))
	if err != nil {
		return err
	}
	if fetched.Submission == nil {
		a.env.Notice("%s", fetched.Message)
		return nil
	}
	a.env.Success("Submission %d for problem %d saved to", fetched.Submission.Sid, fetched.Submission.Pid)
	a.env.Info("%s", fetched.Path)
	return nil
}

func (a *app) cmdGrade(ctx context.Context, cmd string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gemt %s <file>", cmd)
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	reply, err := a.svc.Grade(ctx, args[0], decisions[cmd], a.seen(ctx))
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}

func (a *app) cmdBulletin(ctx context.Context, args []string) error {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(a.env.In)
	}
	if err != nil {
		return fmt.Errorf("read bulletin text: %w", err)
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	reply, err := a.svc.AddBulletin(ctx, string(data))
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}

func (a *app) cmdView(ctx context.Context, view teacher.View) error {
	if err := a.connected(ctx); err != nil {
		return err
	}
	u, err := a.svc.ViewURL(ctx, view)
	if err != nil {
		return err
	}
	a.env.OpenBrowser(u)
	return nil
}
