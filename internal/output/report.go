package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/patchtools/patchlint/internal/commit"
)

// FileReport is the outcome of checking a single patch file.
type FileReport struct {
	Filename string              `json:"filename"`
	Subject  string              `json:"subject"`
	OK       bool                `json:"ok"`
	Errors   []string            `json:"errors,omitempty"`
	Warnings []string            `json:"warnings,omitempty"`
	Changes  []commit.FileChange `json:"changes,omitempty"`
}

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ReporterOptions configures a Reporter.
type ReporterOptions struct {
	// Color enables ANSI styling (resolve with ColorEnabled).
	Color bool
	// Verbose also prints warnings for passing patches.
	Verbose bool
	// Quiet suppresses OK lines and the batch summary.
	Quiet bool
	// PrintChangelog prints the change list for passing patches.
	PrintChangelog bool
}

// Reporter renders check results as human-readable text.
type Reporter struct {
	w    io.Writer
	opts ReporterOptions
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts ReporterOptions) *Reporter {
	return &Reporter{w: w, opts: opts}
}

// ColorEnabled resolves a color setting ("auto"/"always"/"never") against
// the terminal.
func ColorEnabled(setting string) bool {
	switch setting {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

// Report prints the result for one file.
func (r *Reporter) Report(rep FileReport) {
	haveMessage := !rep.OK || (len(rep.Warnings) > 0 && r.opts.Verbose)
	if !r.opts.Quiet || haveMessage {
		fmt.Fprintf(r.w, "Checking %s: %s\n", rep.Filename, r.badge(rep.OK))
	}

	if r.opts.Verbose || !rep.OK {
		for _, w := range rep.Warnings {
			fmt.Fprintf(r.w, "%s %s\n", r.styled(warnStyle, "WARN:"), w)
		}
	}
	for _, e := range rep.Errors {
		fmt.Fprintf(r.w, "%s %s\n", r.styled(errStyle, "ERR:"), e)
	}

	if rep.OK && r.opts.PrintChangelog {
		for _, c := range rep.Changes {
			fmt.Fprintf(r.w, "\t%s\t%s\n", c.Kind, c.Path)
		}
	}
}

// Summary prints the batch total unless quiet.
func (r *Reporter) Summary(success, total int) {
	if r.opts.Quiet {
		return
	}
	fmt.Fprintf(r.w, "Successfully parsed: %d/%d\n", success, total)
}

func (r *Reporter) badge(ok bool) string {
	if ok {
		return r.styled(okStyle, "OK")
	}
	return r.styled(failedStyle, "FAILED")
}

func (r *Reporter) styled(style lipgloss.Style, s string) string {
	if !r.opts.Color {
		return s
	}
	return style.Render(s)
}
