package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/clack-cli/clack/internal/config"
)

// printer gates suppressible output on the resolved verbosity. It is built
// per invocation and threaded through explicitly; there is no process-wide
// quiet switch.
type printer struct {
	verbosity string
	tty       bool
	out       io.Writer
}

// suppressed reports whether advisory output should be dropped. On a
// terminal only an explicit quiet setting silences it; off a terminal
// everything but verbose mode is silent so results stay machine-parseable.
func (p printer) suppressed() bool {
	if p.tty {
		return p.verbosity == config.VerbosityQuiet
	}
	return p.verbosity != config.VerbosityVerbose
}

// echo prints advisory output, subject to the verbosity gate.
func (p printer) echo(format string, args ...any) {
	if p.suppressed() {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// force prints output that must always appear, such as call results.
func (p printer) force(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// maskSecret is the placeholder shown wherever a secret would appear.
const maskSecret = "********"

// printTable renders two-column rows through a tabwriter.
func printTable(w io.Writer, rows [][2]string, header [2]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if header[0] != "" || header[1] != "" {
		fmt.Fprintf(tw, "%s\t%s\n", header[0], header[1])
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	_ = tw.Flush()
}

// renderBody renders a decoded response payload in the requested format.
// Undecodable payloads fall back to the raw bytes.
func renderBody(format string, body any, raw []byte) string {
	if body == nil {
		return strings.TrimSpace(string(raw))
	}
	if format == config.OutputPy {
		var b strings.Builder
		writePyRepr(&b, body, 0)
		return b.String()
	}
	encoded, err := json.MarshalIndent(body, "", "    ")
	if err != nil {
		return strings.TrimSpace(string(raw))
	}
	return string(encoded)
}

// writePyRepr renders a decoded JSON value as a Python literal, the "py"
// output format: single-quoted strings, True/False/None, sorted map keys.
func writePyRepr(b *strings.Builder, v any, indent int) {
	pad := strings.Repeat(" ", indent*4)
	inner := strings.Repeat(" ", (indent+1)*4)

	switch t := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if t {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case string:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(t, "'", `\'`))
		b.WriteByte('\'')
	case float64:
		b.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
	case map[string]any:
		if len(t) == 0 {
			b.WriteString("{}")
			return
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("{\n")
		for i, k := range keys {
			b.WriteString(inner)
			b.WriteByte('\'')
			b.WriteString(strings.ReplaceAll(k, "'", `\'`))
			b.WriteString("': ")
			writePyRepr(b, t[k], indent+1)
			if i < len(keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteByte('}')
	case []any:
		if len(t) == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteString("[\n")
		for i, item := range t {
			b.WriteString(inner)
			writePyRepr(b, item, indent+1)
			if i < len(t)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", t)
	}
}
