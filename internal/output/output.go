// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"golang.org/x/term"
)

// SeparatorLine divides consecutive per-package report blocks.
const SeparatorLine = "----------------------------------------------------------"

// Writer handles CLI output formatting.
// It is safe for concurrent use; every call writes whole lines under a lock.
type Writer struct {
	mu      sync.Mutex
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	verbose bool
}

// New creates a new Writer with default settings.
func New() *Writer {
	return &Writer{
		out:   os.Stdout,
		err:   os.Stderr,
		color: colorEnabled(),
	}
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:   out,
		err:   err,
		color: color,
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetVerbose enables or disables debug lines.
func (w *Writer) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// SetColor forces colored output on or off.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// Quiet reports whether informational output is suppressed.
func (w *Writer) Quiet() bool {
	return w.quiet
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	w.Print(format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	w.Error(format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Debug prints a diagnostic line to stderr in verbose mode only.
func (w *Writer) Debug(format string, args ...interface{}) {
	if !w.verbose {
		return
	}
	if w.color {
		w.Errorln(dim+format+reset, args...)
	} else {
		w.Errorln(format, args...)
	}
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%swarning:%s %s", yellow, reset, msg)
	} else {
		w.Errorln("warning: %s", msg)
	}
}

// ErrorPrefix prints an error message with partest prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%spartest:%s %s", red, reset, msg)
	} else {
		w.Errorln("partest: %s", msg)
	}
}

// PackageBlock prints the report block for one finished package: a separator,
// the package's display path and its captured output.
// The block is written with a single call so concurrent writers never interleave it.
func (w *Writer) PackageBlock(relPath string, passed bool, captured string) {
	var b strings.Builder
	b.WriteString(SeparatorLine)
	b.WriteString("\n")
	header := fmt.Sprintf("Test results of package '%s'", relPath)
	switch {
	case !w.color:
		b.WriteString(header)
	case passed:
		b.WriteString(bold + green + header + reset)
	default:
		b.WriteString(bold + red + header + reset)
	}
	b.WriteString("\n\n")
	b.WriteString(w.Clean(captured))
	if captured != "" && !strings.HasSuffix(captured, "\n") {
		b.WriteString("\n")
	}
	w.Print("%s", b.String())
}

// Clean strips ANSI escape sequences from captured subprocess output
// when colors are disabled.
func (w *Writer) Clean(captured string) string {
	if w.color {
		return captured
	}
	return stripansi.Strip(captured)
}

// FailureList prints the sorted list of failed package paths.
func (w *Writer) FailureList(paths []string) {
	if len(paths) == 0 {
		return
	}
	if w.color {
		w.Println("%sTests failed in:%s", bold+red, reset)
	} else {
		w.Println("Tests failed in:")
	}
	for _, p := range paths {
		w.Println("  %s", p)
	}
}

// PackageInfo prints one discovered package line for --list.
func (w *Writer) PackageInfo(relPath, name, toolchain string) {
	label := relPath
	if name != "" {
		label = fmt.Sprintf("%s (%s)", relPath, name)
	}
	if w.color {
		w.Println("  %s%s%s %s[%s]%s", cyan+bold, label, reset, dim, toolchain, reset)
	} else {
		w.Println("  %s [%s]", label, toolchain)
	}
}

// SummarySectionLabel prints a label inside the summary, e.g. "Failed tests:".
func (w *Writer) SummarySectionLabel(label string) {
	if w.color {
		w.Println("  %s%s%s", bold, label, reset)
	} else {
		w.Println("  %s", label)
	}
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, red, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// FinalSuccess prints a final success message.
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", green, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// FinalFailure prints a final failure message.
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", red, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// colorEnabled returns true if stdout is a terminal and NO_COLOR is unset.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Semantic color roles for help output.
const (
	colorTitle       = bold + cyan   // Main title/brand
	colorSection     = bold + yellow // Section headers
	colorPlaceholder = green         // Placeholders like <dir>, <n>
	colorFlag        = yellow        // Flags like --jobs
	colorDescription = dim           // Help text descriptions
	colorExample     = cyan          // Example commands
	colorEnvVar      = yellow        // Environment variables
)

// HelpTitle formats the main help title line.
func (w *Writer) HelpTitle(title string) {
	if w.color {
		w.Println("%s%s%s", colorTitle, title, reset)
	} else {
		w.Println("%s", title)
	}
}

// HelpSection formats a section header (e.g., "Flags:").
func (w *Writer) HelpSection(title string) {
	w.Println("")
	if w.color {
		w.Println("%s%s%s", colorSection, title, reset)
	} else {
		w.Println("%s", title)
	}
}

// HelpFlag formats a flag with its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	if w.color {
		coloredName := w.colorPlaceholders(name)
		padding := width - len(name)
		if padding < 0 {
			padding = 0
		}
		w.Println("  %s%s%s%s  %s%s%s", colorFlag, coloredName, reset, strings.Repeat(" ", padding), colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}

// HelpExample formats an example command with description.
func (w *Writer) HelpExample(command, description string) {
	if w.color {
		w.Println("  %s%s%s", colorExample, command, reset)
		if description != "" {
			w.Println("      %s%s%s", colorDescription, description, reset)
		}
	} else {
		w.Println("  %s", command)
		if description != "" {
			w.Println("      %s", description)
		}
	}
}

// HelpUsage formats usage lines.
func (w *Writer) HelpUsage(usage string) {
	if w.color {
		w.Println("  %s", w.colorPlaceholders(usage))
	} else {
		w.Println("  %s", usage)
	}
}

// HelpEnvVar formats an environment variable.
func (w *Writer) HelpEnvVar(name, description string, width int) {
	if w.color {
		w.Println("  %s%-*s%s  %s%s%s", colorEnvVar, width, name, reset, colorDescription, description, reset)
	} else {
		w.Println("  %-*s  %s", width, name, description)
	}
}

// colorPlaceholders highlights <placeholder> patterns in text.
func (w *Writer) colorPlaceholders(text string) string {
	var result strings.Builder
	i := 0
	for i < len(text) {
		if text[i] == '<' {
			end := strings.Index(text[i:], ">")
			if end != -1 {
				placeholder := text[i : i+end+1]
				result.WriteString(reset)
				result.WriteString(colorPlaceholder)
				result.WriteString(placeholder)
				result.WriteString(reset)
				i += end + 1
				continue
			}
		}
		result.WriteByte(text[i])
		i++
	}
	return result.String()
}
