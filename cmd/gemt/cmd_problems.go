package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/problem"
)

// broadcastModes maps command names to broadcast modes
var broadcastModes = map[string]domain.BroadcastMode{
	"unicast": domain.ModeUnicast,
	"or":      domain.ModeMulticastOr,
	"and":     domain.ModeMulticastAnd,
	"seq":     domain.ModeMulticastSeq,
}

func (a *app) cmdShare(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gemt share <file>")
	}
	if err := a.connected(ctx); err != nil {
		return err
	}
	reply, err := a.svc.Share(ctx, args[0])
	if err != nil {
		return err
	}
	a.env.Success("%s", reply)
	return nil
}

func (a *app) cmdBroadcast(ctx context.Context, cmd string, args []string, yes bool) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: gemt %s <files...>", cmd)
	}
	if !yes && !a.env.Confirm("Starting new problems will close up active problems. Do you want to proceed?") {
		return nil
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	res, err := a.svc.Broadcast(ctx, args, broadcastModes[cmd])
	if err != nil {
		return err
	}
	a.env.Success("%s", res.Reply)
	return nil
}

func (a *app) cmdCheck(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: gemt check <unicast|or|and|seq> <files...>")
	}
	mode, ok := broadcastModes[args[0]]
	if !ok {
		return fmt.Errorf("unknown mode %q (valid: unicast, or, and, seq)", args[0])
	}

	seq, err := problem.NewParser().LoadBatch(args[1:], mode)
	if err != nil {
		return err
	}

	for i, p := range seq.Problems {
		line := fmt.Sprintf("%d. %s  merit %d, effort %d, attempts %s",
			i, p.SourceName, p.Merit, p.Effort, attemptsLabel(p))
		if p.Tag != "" {
			line += "  [" + p.Tag + "]"
		}
		if mode.Sequential() {
			line += fmt.Sprintf("  correct->%d incorrect->%d", seq.NextIfCorrect[i], seq.NextIfIncorrect[i])
		}
		a.env.Info("%s", line)
		if p.Answer != "" {
			fmt.Fprintf(a.env.Out, "   answer: %s\n", p.Answer)
		}
	}
	a.env.Success("%d problem(s) ready to send as %s", seq.Len(), mode)
	return nil
}

func attemptsLabel(p *domain.ProblemDescriptor) string {
	if p.Unlimited() {
		return "unlimited"
	}
	return fmt.Sprint(p.MaxAttempts)
}

func (a *app) cmdDeactivate(ctx context.Context, yes bool) error {
	if !yes && !a.env.Confirm("Close active problems? No more submissions are possible until a new problem is started.") {
		return nil
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	d, err := a.svc.DeactivateProblems(ctx)
	if err != nil {
		return err
	}
	a.env.Success("%s", d.Message)
	for _, u := range d.AnswerURLs {
		a.env.OpenBrowser(u)
	}
	return nil
}

func (a *app) cmdClear(ctx context.Context, yes bool) error {
	if !yes && !a.env.Confirm("Clear all submissions and white boards?") {
		return nil
	}
	if err := a.connected(ctx); err != nil {
		return err
	}

	reply, err := a.svc.ClearSubmissions(ctx, a.seen(ctx))
	if err != nil {
		return err
	}
	a.env.Success("%s", strings.TrimSpace(reply))
	return nil
}
