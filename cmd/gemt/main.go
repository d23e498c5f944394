package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/msh-shiplu/GEM/internal/cli"
	"github.com/msh-shiplu/GEM/internal/domain"
	"github.com/msh-shiplu/GEM/internal/teacher"
)

// Version is set at build time via ldflags
var Version = "dev"

var errUnknownCommand = errors.New("unknown command")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "help", "-h", "--help":
		printUsage()
		return
	case "version", "-v", "--version":
		fmt.Printf("gemt %s\n", Version)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1], os.Args[2:])
	stop()

	if errors.Is(err, errUnknownCommand) {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		cli.PrintError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	args, yes := cli.SplitFlags(args)

	switch cmd {
	// Setup
	case "connect":
		return a.cmdConnect(ctx)
	case "server":
		return a.cmdServer(args)
	case "folder":
		return a.cmdFolder(args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "test":
		return a.cmdTest(ctx)

	// Problems
	case "share":
		return a.cmdShare(ctx, args)
	case "unicast", "or", "and", "seq":
		return a.cmdBroadcast(ctx, cmd, args, yes)
	case "check":
		return a.cmdCheck(args)
	case "deactivate":
		return a.cmdDeactivate(ctx, yes)
	case "clear":
		return a.cmdClear(ctx, yes)

	// Boards and views
	case "bulletin":
		return a.cmdBulletin(ctx, args)
	case "board":
		return a.cmdView(ctx, teacher.ViewBulletinBoard)
	case "report":
		return a.cmdView(ctx, teacher.ViewReport)
	case "activities":
		return a.cmdView(ctx, teacher.ViewActivities)

	// Grading
	case "next":
		return a.cmdNext(ctx, args, domain.PriorityAny)
	case "next-ok":
		return a.cmdNext(ctx, args, domain.PriorityGotIt)
	case "next-help":
		return a.cmdNext(ctx, args, domain.PriorityNeedHelp)
	case "correct", "incorrect", "dismiss":
		return a.cmdGrade(ctx, cmd, args)

	case "mcp":
		return a.cmdMCP(ctx)
	}
	return errUnknownCommand
}

func printUsage() {
	fmt.Println(`gemt - GEM teacher client

Usage:
  gemt <command> [arguments]

Setup Commands:
  connect                 Look up the server through the course name server
  server [address]        Set the server address
  folder [path]           Set the local folder for working files (default ~/GEMT)
  register [assigned-id]  Complete the teacher registration
  test                    Check the connection and credentials

Problem Commands:
  share <file>            Share a file on every student's whiteboard
  unicast <file>          Start one problem
  or <files...>           Send one of the problems to each student at random
  and <files...>          Send all problems to every student
  seq <files...>          Send problems in order of difficulty (name_<level>.ext)
  check <mode> <files...> Parse and order problems locally without sending
  deactivate              Close active problems and open their answer pages
  clear                   Clear all submissions and whiteboards

Board Commands:
  bulletin [file]         Add a page to the bulletin board (reads stdin without file)
  board                   Open the bulletin board
  report                  Open the class report
  activities              Open the activity view

Grading Commands:
  next [index]            Fetch the next submission
  next-ok                 Fetch the next "got it" submission
  next-help               Fetch the next "need help" submission
  correct <file>          Grade a fetched submission as correct
  incorrect <file>        Grade a fetched submission as incorrect
  dismiss <file>          Dismiss a fetched submission without feedback

Integration Commands:
  mcp                     Start MCP server on stdio for editor integration

Other:
  help                    Show this help message
  version                 Show version information

Commands that close or clear problems ask for confirmation; pass -y to skip.

Examples:
  gemt server 10.0.0.5:8080
  gemt seq loops_1.py loops_2.py loops_3.py
  gemt next-help
  gemt correct ~/GEMT/gemt12_3_45.py`)
}
