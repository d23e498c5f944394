package cli

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/fatih/color"
	"github.com/msh-shiplu/GEM/internal/domain"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.FgCyan)
)

// Success prints a confirmation line
func (e *Env) Success(format string, args ...any) {
	okColor.Fprintf(e.Out, format+"\n", args...)
}

// Notice prints something the user should read but that is not a failure
func (e *Env) Notice(format string, args ...any) {
	warnColor.Fprintf(e.Out, format+"\n", args...)
}

// Info prints neutral output such as paths and links
func (e *Env) Info(format string, args ...any) {
	infoColor.Fprintf(e.Out, format+"\n", args...)
}

// PrintError reports a failed command with a hint for known setup problems.
func PrintError(err error) {
	errColor.Fprintf(color.Error, "Error: %v\n", err)
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		fmt.Fprintln(color.Error, "Set the server address and working folder first (see 'help').")
	case errors.Is(err, domain.ErrNotRegistered):
		fmt.Fprintln(color.Error, "Register first (see 'help').")
	}
}

// OpenBrowser opens url in the default browser, printing it as well so it
// can be copied when no browser is available.
func (e *Env) OpenBrowser(url string) {
	e.Info("%s", url)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		e.Logger.Debug("could not open browser", "error", err)
		return
	}
	go cmd.Wait()
}
