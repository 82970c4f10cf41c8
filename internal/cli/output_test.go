package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/clack-cli/clack/internal/config"
)

func TestPrinterSuppressed(t *testing.T) {
	tests := []struct {
		verbosity string
		tty       bool
		want      bool
	}{
		{config.VerbosityAuto, true, false},
		{config.VerbosityAuto, false, true},
		{config.VerbosityQuiet, true, true},
		{config.VerbosityQuiet, false, true},
		{config.VerbosityVerbose, true, false},
		{config.VerbosityVerbose, false, false},
	}

	for _, tt := range tests {
		p := printer{verbosity: tt.verbosity, tty: tt.tty}
		if got := p.suppressed(); got != tt.want {
			t.Errorf("suppressed(%s, tty=%v) = %v, want %v", tt.verbosity, tt.tty, got, tt.want)
		}
	}
}

func TestPrinterEchoAndForce(t *testing.T) {
	var buf bytes.Buffer
	p := printer{verbosity: config.VerbosityQuiet, tty: true, out: &buf}

	p.echo("advisory %d", 1)
	if buf.Len() != 0 {
		t.Errorf("echo must be suppressed in quiet mode, got %q", buf.String())
	}

	p.force("result %d", 2)
	if buf.String() != "result 2\n" {
		t.Errorf("force output = %q", buf.String())
	}
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	printTable(&buf, [][2]string{{"env", "prod"}, {"api", "ms1"}}, [2]string{"NAME", "VALUE"})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus two rows, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "NAME") || !strings.Contains(lines[1], "prod") {
		t.Errorf("unexpected table output %q", out)
	}
}

func TestRenderBodyJSON(t *testing.T) {
	body := map[string]any{"status": "ok", "count": float64(2)}
	got := renderBody(config.OutputJSON, body, nil)

	if !strings.Contains(got, `"status": "ok"`) {
		t.Errorf("unexpected json rendering %q", got)
	}
}

func TestRenderBodyPy(t *testing.T) {
	body := map[string]any{
		"status": "ok",
		"limit":  float64(10),
		"flags":  []any{true, false, nil},
		"nested": map[string]any{"it's": "quoted"},
	}
	got := renderBody(config.OutputPy, body, nil)

	for _, want := range []string{"'status': 'ok'", "'limit': 10", "True", "False", "None", `'it\'s': 'quoted'`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in py rendering:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\"") {
		t.Errorf("py rendering must not use double quotes:\n%s", got)
	}
}

func TestRenderBodyFallsBackToRaw(t *testing.T) {
	got := renderBody(config.OutputJSON, nil, []byte("  plain text body \n"))
	if got != "plain text body" {
		t.Errorf("expected trimmed raw body, got %q", got)
	}
}

func TestWritePyReprSortsKeys(t *testing.T) {
	var b strings.Builder
	writePyRepr(&b, map[string]any{"zeta": float64(1), "alpha": float64(2)}, 0)

	out := b.String()
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("expected sorted keys:\n%s", out)
	}
}

func TestFormatParams(t *testing.T) {
	if got := formatParams(nil); got != "{}" {
		t.Errorf("formatParams(nil) = %q", got)
	}

	got := formatParams(map[string]any{"b": int64(2), "a": "x"})
	if got != `{"a": x, "b": 2}` {
		t.Errorf("formatParams() = %q", got)
	}
}
