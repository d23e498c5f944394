package problem

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/msh-shiplu/GEM/internal/domain"
)

func TestParse_Header(t *testing.T) {
	tests := []struct {
		name         string
		contents     string
		wantMerit    int
		wantEffort   int
		wantAttempts int
		wantTag      string
		wantPrefix   string
	}{
		{"plain", "10 5 3\nprint(1)\n", 10, 5, 3, "", "//"},
		{"hash prefix", "# 10 5 3\nprint(1)\n", 10, 5, 3, "", "#"},
		{"double slash prefix", "// 4 2 0\nint x;\n", 4, 2, 0, "", "//"},
		{"with tag", "# 3 1 2 loops and lists\nbody", 3, 1, 2, "loops and lists", "#"},
		{"equal merit and effort", "5 5 1\nbody", 5, 5, 1, "", "//"},
		{"unlimited negative attempts", "# 2 1 -1\nbody", 2, 1, -1, "", "#"},
		{"crlf header", "# 2 1 4\r\nbody", 2, 1, 4, "", "#"},
		{"extra spacing", "#   7    3   2   tag\nbody", 7, 3, 2, "tag", "#"},
		{"unicode tag", "# 10 5 3 énoncé facile\nbody", 10, 5, 3, "énoncé facile", "#"},
		{"tag starting with digit", "10 5 3 2nd try\nbody", 10, 5, 3, "2nd try", "//"},
		{"parenthesized trailing text ignored", "# 10 5 3 (warmup)\nbody", 10, 5, 3, "", "#"},
		{"dash trailing text ignored", "10 5 3 -easy\nbody", 10, 5, 3, "", "//"},
		{"trailing hash", "# 10 5 3 #\nbody", 10, 5, 3, "", "#"},
		{"trailing slashes", "// 4 2 1 //\nint x;", 4, 2, 1, "", "//"},
		{"closing hash after tag", "# 3 1 2 loops #\nbody", 3, 1, 2, "loops", "#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.contents, "prob.py")
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got.Merit != tt.wantMerit {
				t.Errorf("Merit = %d, want %d", got.Merit, tt.wantMerit)
			}
			if got.Effort != tt.wantEffort {
				t.Errorf("Effort = %d, want %d", got.Effort, tt.wantEffort)
			}
			if got.MaxAttempts != tt.wantAttempts {
				t.Errorf("MaxAttempts = %d, want %d", got.MaxAttempts, tt.wantAttempts)
			}
			if got.Tag != tt.wantTag {
				t.Errorf("Tag = %q, want %q", got.Tag, tt.wantTag)
			}
			if !strings.HasPrefix(got.Body, tt.wantPrefix+" ") {
				t.Errorf("Body = %q, want prefix %q", got.Body, tt.wantPrefix)
			}
		})
	}
}

func TestParse_AllValidHeaders(t *testing.T) {
	for m := 0; m <= 6; m++ {
		for e := 0; e <= m; e++ {
			for _, a := range []int{-1, 0, 1, 5} {
				contents := fmt.Sprintf("%d %d %d\nbody", m, e, a)
				got, err := Parse(contents, "p.py")
				if err != nil {
					t.Fatalf("Parse(%q) error = %v", contents, err)
				}
				if got.Merit != m || got.Effort != e || got.MaxAttempts != a {
					t.Errorf("Parse(%q) = %d/%d/%d", contents, got.Merit, got.Effort, got.MaxAttempts)
				}
			}
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"no line break", "10 5 3"},
		{"empty", ""},
		{"two numbers", "10 5\nbody"},
		{"words", "# ten five three\nbody"},
		{"merit below effort", "# 3 5 1\nbody"},
		{"merit below effort with tag", "1 2 0 easy\nbody"},
		{"negative merit", "-1 0 0\nbody"},
		{"glued tag", "10 5 3abc\nbody"},
		{"two answers", "10 5 3\nq\nANSWER: 1\nANSWER: 2"},
		{"three answers", "10 5 3\nANSWER:ANSWER:ANSWER:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.contents, "prob.py")
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, domain.ErrMalformedDescriptor) {
				t.Errorf("error = %v, want ErrMalformedDescriptor", err)
			}
			var perr *domain.ParseError
			if !errors.As(err, &perr) || perr.File != "prob.py" {
				t.Errorf("error should be a ParseError for prob.py, got %v", err)
			}
		})
	}
}

func TestParse_Body(t *testing.T) {
	got, err := Parse("# 10 5 3\nWrite a loop.\n", "/tmp/work/loop_1.py")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := "# 10 points, 5 for effort. Maximum attempts: 3.\nWrite a loop.\n"
	if got.Body != want {
		t.Errorf("Body = %q, want %q", got.Body, want)
	}
	if got.Answer != "" {
		t.Errorf("Answer = %q, want empty", got.Answer)
	}
	if got.SourceName != "loop_1.py" {
		t.Errorf("SourceName = %q, want loop_1.py", got.SourceName)
	}
	if got.Extension != "py" {
		t.Errorf("Extension = %q, want py", got.Extension)
	}
}

func TestParse_Answer(t *testing.T) {
	got, err := Parse("// 4 1 0\nWhat is 2+2?\nANSWER:  4 \n", "q.java")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got.Answer != "4" {
		t.Errorf("Answer = %q, want 4", got.Answer)
	}
	want := "// 4 points, 1 for effort. Maximum attempts: 0.\nWhat is 2+2?\n\nANSWER: "
	if got.Body != want {
		t.Errorf("Body = %q, want %q", got.Body, want)
	}
	if strings.Count(got.Body, domain.AnswerTag) != 1 {
		t.Error("Body should keep exactly one answer marker")
	}
}

func TestParse_AnnotationLine(t *testing.T) {
	bodies := []string{"", "x", "line one\nline two\n", "ANSWER: 42"}
	for _, body := range bodies {
		got, err := Parse("6 2 4\n"+body, "a.py")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		annotation := "6 points, 2 for effort. Maximum attempts: 4."
		if n := strings.Count(got.Body, annotation); n != 1 {
			t.Errorf("annotation count = %d, want 1 in %q", n, got.Body)
		}
		first, rest, _ := strings.Cut(got.Body, "\n")
		if first != "// "+annotation {
			t.Errorf("first line = %q", first)
		}
		stripped, _, _ := strings.Cut(body, domain.AnswerTag)
		if !strings.HasPrefix(rest, stripped) {
			t.Errorf("rest %q should start with original body %q", rest, stripped)
		}
	}
}

func TestParse_DefaultExtension(t *testing.T) {
	p := &Parser{DefaultExt: "md"}
	got, err := p.Parse("1 0 0\nbody", "README")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Extension != "md" {
		t.Errorf("Extension = %q, want md", got.Extension)
	}

	got, err = Parse("1 0 0\nbody", "notes")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got.Extension != DefaultExtension {
		t.Errorf("Extension = %q, want %q", got.Extension, DefaultExtension)
	}
}
