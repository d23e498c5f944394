package cli

import (
	"bufio"
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var file, terminal bytes.Buffer
	logger := NewLogger(&file, &terminal, slog.LevelDebug)

	logger.Debug("fetched", "pid", 3)
	logger.Warn("server slow")

	if !strings.Contains(file.String(), `"msg":"fetched"`) || !strings.Contains(file.String(), `"msg":"server slow"`) {
		t.Errorf("file log = %q", file.String())
	}
	if strings.Contains(terminal.String(), "fetched") {
		t.Errorf("debug record reached the terminal: %q", terminal.String())
	}
	if !strings.Contains(terminal.String(), "server slow") {
		t.Errorf("terminal log = %q", terminal.String())
	}

	file.Reset()
	logger.With("role", "teacher").Info("graded")
	if !strings.Contains(file.String(), `"role":"teacher"`) {
		t.Errorf("attrs lost: %q", file.String())
	}
}

func TestSplitFlags(t *testing.T) {
	rest, yes := SplitFlags([]string{"a_1.py", "-y", "b_2.py"})
	if !yes || len(rest) != 2 || rest[0] != "a_1.py" || rest[1] != "b_2.py" {
		t.Errorf("SplitFlags() = %v, %v", rest, yes)
	}
	if _, yes := SplitFlags([]string{"a.py"}); yes {
		t.Error("SplitFlags() should not report yes")
	}
}

func testEnv(input string) (*Env, *bytes.Buffer) {
	var out bytes.Buffer
	return &Env{In: bufio.NewReader(strings.NewReader(input)), Out: &out}, &out
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		env, out := testEnv(tt.input)
		if got := env.Confirm("Proceed?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Proceed? [y/N]") {
			t.Errorf("prompt = %q", out.String())
		}
	}
}

func TestPrompt(t *testing.T) {
	env, _ := testEnv("\n")
	if got := env.Prompt("Folder", "/home/t/GEMT"); got != "/home/t/GEMT" {
		t.Errorf("Prompt() default = %q", got)
	}

	env, _ = testEnv("  10.0.0.5:8080 \n")
	if got := env.Prompt("Server", ""); got != "10.0.0.5:8080" {
		t.Errorf("Prompt() = %q", got)
	}
}
