// Package commit defines the structured-change model extracted from a patch
// and the validation seam that consumes it.
package commit

import (
	"strings"
	"time"
)

// ChangeKind classifies how a patch touches a file.
type ChangeKind string

const (
	// Added marks a file created by the patch.
	Added ChangeKind = "A"
	// Deleted marks a file removed by the patch.
	Deleted ChangeKind = "D"
	// Modified marks a file changed in place.
	Modified ChangeKind = "M"
)

// FileChange is a single (path, kind) entry. Paths carry no "a/"/"b/"
// version-control prefix. A rename is always represented as two entries,
// a Deleted on the old path followed by an Added on the new one.
type FileChange struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
}

// Info is the structured record extracted from one patch file. It is the
// sole artifact handed to a Validator. Author and Date are nil when the
// corresponding header line was missing.
type Info struct {
	// Filename is the input the record was extracted from ("-" for stdin).
	Filename string `json:"filename"`
	// Author is the normalized "Name <email>" author, if present.
	Author *string `json:"author,omitempty"`
	// Date is the parsed Date: header, if present.
	Date *time.Time `json:"date,omitempty"`
	// Message holds the commit message: the cleaned subject on line 0
	// followed by the verbatim body up to the diff-stat marker.
	// It always has at least one element.
	Message []string `json:"message"`
	// Changes lists touched files in diff order.
	Changes []FileChange `json:"changes"`
}

// Subject returns the cleaned subject line (message line 0).
func (i *Info) Subject() string {
	if len(i.Message) == 0 {
		return ""
	}
	return i.Message[0]
}

// Body returns the message lines after the subject.
func (i *Info) Body() []string {
	if len(i.Message) <= 1 {
		return nil
	}
	return i.Message[1:]
}

// Paths returns the change paths in diff order.
func (i *Info) Paths() []string {
	paths := make([]string, 0, len(i.Changes))
	for _, c := range i.Changes {
		paths = append(paths, c.Path)
	}
	return paths
}

// FormatAuthor canonicalizes a raw From: header value to "Name <email>".
// Values without an address part are returned trimmed and otherwise
// untouched; spacing before the address bracket is normalized.
func FormatAuthor(raw string) string {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexByte(raw, '<')
	if idx < 0 {
		return raw
	}
	name := strings.TrimSpace(raw[:idx])
	addr := strings.TrimSpace(raw[idx:])
	if name == "" {
		return addr
	}
	return name + " " + addr
}
