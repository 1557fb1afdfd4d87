// Package output handles report formatting for both humans and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"text/tabwriter"
)

// Mode selects between human text and machine JSON output.
type Mode string

const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

var mode atomic.Value

func init() {
	mode.Store(ModeText)
}

// SetMode sets the global output mode.
func SetMode(m Mode) {
	if m != ModeJSON {
		m = ModeText
	}
	mode.Store(m)
}

// GetMode returns the current global output mode.
func GetMode() Mode {
	if v, ok := mode.Load().(Mode); ok {
		return v
	}
	return ModeText
}

// IsJSON returns true if the global output mode is JSON.
func IsJSON() bool {
	return GetMode() == ModeJSON
}

// WriteJSON writes pretty-printed JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// OutputJSON writes pretty-printed JSON to stdout.
func OutputJSON(v any) error {
	return WriteJSON(os.Stdout, v)
}

// ErrorPayload is the canonical JSON error shape.
type ErrorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputJSONError writes a structured error payload to stdout.
func OutputJSONError(err error, code int) error {
	return OutputJSON(ErrorPayload{
		Error:   "error",
		Message: err.Error(),
		Details: map[string]any{"code": code},
	})
}

// OutputTable prints a simple tab-aligned table to w (human mode).
func OutputTable(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
