// Package patch turns an email-formatted patch (git format-patch layout)
// into the structured change record consumed by validation: a canonical
// commit message plus the ordered list of touched files.
package patch

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/patchtools/patchlint/internal/commit"
	"github.com/patchtools/patchlint/internal/utils"
)

const (
	datePrefix    = "Date: "
	fromPrefix    = "From: "
	subjectPrefix = "Subject: "

	// diffStatMarker separates the commit message from the diff body.
	diffStatMarker = "---"
)

// subjectPatchRE matches the series marker format-patch puts in front of
// the subject. Stripped at most once.
var subjectPatchRE = regexp.MustCompile(`^\[PATCH( \d+/\d+)?\] ?`)

// ErrNoParsedLines is returned when the diff body yields no file entries,
// either because it is empty or because it is structurally invalid.
var ErrNoParsedLines = errors.New("patch contains no parsed lines")

// Extractor builds commit.Info records from raw patch text.
//
// Rename detection is resolved once at construction by probing the diff
// parser; when unavailable, renames degrade to a single Modified entry on
// the target path instead of a delete/add pair.
type Extractor struct {
	renameDetection bool
}

// NewExtractor returns an Extractor with capabilities resolved.
func NewExtractor() *Extractor {
	return &Extractor{renameDetection: renameSupported}
}

// ExtractFile reads and extracts a single patch file.
func (e *Extractor) ExtractFile(path string) (*commit.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open patch: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read patch %s: %w", path, err)
	}
	return e.Extract(path, string(data))
}

// Extract parses raw patch text. name labels the input in the resulting
// record ("-" for stdin).
func (e *Extractor) Extract(name, data string) (*commit.Info, error) {
	files, _, err := gitdiff.Parse(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoParsedLines, err)
	}
	if len(files) == 0 {
		return nil, ErrNoParsedLines
	}

	lines := splitLines(data)
	lines = truncateAtMarker(lines)

	hdr, err := scanHeader(lines)
	if err != nil {
		return nil, err
	}

	subject := hdr.subject
	if subject != "" {
		subject = subjectPatchRE.ReplaceAllString(subject, "")
	}

	// The commit message is the email subject, an empty line, and the
	// email body up to the diff-stat marker.
	message := make([]string, 0, 1+len(lines)-hdr.lineCount)
	message = append(message, subject)
	message = append(message, lines[hdr.lineCount:]...)

	return &commit.Info{
		Filename: name,
		Author:   hdr.author,
		Date:     hdr.date,
		Message:  message,
		Changes:  e.classify(files),
	}, nil
}

// header holds the fields recovered from the email preamble.
type header struct {
	author  *string
	date    *time.Time
	subject string
	// lineCount is the number of lines before the terminating blank line;
	// the message body starts there.
	lineCount int
}

// scanHeader walks the (already truncated) line sequence and recovers the
// Date, From and Subject headers. Subject continuation follows RFC 822
// folding: a line starting with space or tab extends the subject, with no
// separator inserted; any other unrecognized line breaks continuation for
// good but does not stop the scan. A blank line ends the header.
func scanHeader(lines []string) (header, error) {
	var hdr header

	continuing := false
scan:
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, datePrefix):
			t, err := mail.ParseDate(line[len(datePrefix):])
			if err != nil {
				return hdr, fmt.Errorf("parse date %q: %w", line[len(datePrefix):], err)
			}
			hdr.date = &t
		case strings.HasPrefix(line, fromPrefix):
			author := commit.FormatAuthor(line[len(fromPrefix):])
			hdr.author = &author
		case strings.HasPrefix(line, subjectPrefix):
			hdr.subject = line[len(subjectPrefix):]
			continuing = true
		case continuing && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")):
			// RFC 822 folding: the folding whitespace is not part of the
			// subject, and nothing is inserted in its place.
			hdr.subject += strings.TrimLeft(line, " \t")
		case line == "":
			break scan
		default:
			continuing = false
		}
	}

	hdr.lineCount = len(lines)
	for i, line := range lines {
		if line == "" {
			hdr.lineCount = i
			break
		}
	}
	return hdr, nil
}

// splitLines splits patch text into lines without a trailing empty entry.
func splitLines(data string) []string {
	data = strings.TrimSuffix(data, "\n")
	if data == "" {
		return nil
	}
	return strings.Split(data, "\n")
}

// truncateAtMarker drops the diff-stat marker line and everything after it.
func truncateAtMarker(lines []string) []string {
	for i, line := range lines {
		if line == diffStatMarker {
			return lines[:i]
		}
	}
	return lines
}

// renameSupported is resolved once at startup by probing the diff parser
// with a minimal rename-only patch.
var renameSupported = func() bool {
	const probe = "diff --git a/old b/new\n" +
		"similarity index 100%\n" +
		"rename from old\n" +
		"rename to new\n"
	files, _, err := gitdiff.Parse(strings.NewReader(probe))
	return err == nil && len(files) == 1 && files[0].IsRename
}()

// warnRenameFallback logs the capability limitation once per process.
var warnedRenameFallback bool

func warnRenameFallback() {
	if warnedRenameFallback {
		return
	}
	warnedRenameFallback = true
	utils.Warn("diff parser lacks rename detection; renames classified as modifications")
}
