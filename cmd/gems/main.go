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
		fmt.Printf("gems %s\n", Version)
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
	case "server":
		return a.cmdServer(args)
	case "folder":
		return a.cmdFolder(args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "checkin":
		return a.cmdCheckin(ctx)

	case "got-it":
		return a.cmdShare(ctx, args, domain.PriorityGotIt, yes)
	case "need-help":
		return a.cmdShare(ctx, args, domain.PriorityNeedHelp, yes)
	case "boards":
		return a.cmdBoards(ctx)
	case "report":
		return a.cmdReport(ctx)
	case "messages":
		return a.cmdMessages()

	case "mcp":
		return a.cmdMCP(ctx)
	}
	return errUnknownCommand
}

func printUsage() {
	fmt.Println(`gems - GEM student client

Usage:
  gems <command> [arguments]

Setup Commands:
  server [address]        Set the server address
  folder [path]           Set the local folder for working files (default ~/GEM)
  register [name]         Register with the class server
  checkin                 Record attendance for today

Work Commands:
  got-it <file>           Submit a file you believe is correct
  need-help <file>        Submit a file and ask for help
  boards                  Copy everything on your whiteboard into the folder
  report                  Write your points by day to report.txt
  messages                Open the teacher's feedback page

Integration Commands:
  mcp                     Start MCP server on stdio for editor integration

Other:
  help                    Show this help message
  version                 Show version information

Submitting a file that is not a problem asks for confirmation; pass -y to skip.

Examples:
  gems server 10.0.0.5:8080
  gems register alice
  gems boards
  gems need-help ~/GEM/12.py`)
}
