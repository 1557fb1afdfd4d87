package commit

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// maxSubjectLen mirrors the repository convention of keeping subject
// lines reviewable in one terminal row.
const maxSubjectLen = 100

// Error is a single validation finding tied to an extracted patch.
type Error struct {
	Message string `json:"message"`
	// Line is the 1-based message line the finding refers to, 0 when the
	// finding is not tied to a specific line.
	Line int `json:"line,omitempty"`
}

func (e Error) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Result is the outcome of validating one Info.
type Result struct {
	Errors   []Error  `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// OK reports whether validation produced no errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// InfoHook resolves a commit reference mentioned in a message (for example
// the target of a revert) to its Info. A nil hook disables resolution.
type InfoHook func(ctx context.Context, ref string) (*Info, error)

// Validator checks an extracted patch for structural problems.
// The full changelog grammar check is a separate tool; implementations
// here only decide whether the record is well formed enough to hand over.
type Validator interface {
	Validate(ctx context.Context, info *Info) *Result
}

// StructuralValidator is the default Validator. It verifies the shape of
// the extracted record: a non-empty subject, at least one file change,
// and no empty change paths.
type StructuralValidator struct {
	hook InfoHook
}

// NewStructuralValidator returns a validator with an optional hook.
func NewStructuralValidator(hook InfoHook) *StructuralValidator {
	return &StructuralValidator{hook: hook}
}

// Validate implements Validator.
func (v *StructuralValidator) Validate(ctx context.Context, info *Info) *Result {
	res := &Result{}

	if strings.TrimSpace(info.Subject()) == "" {
		res.Errors = append(res.Errors, Error{Message: "empty subject line", Line: 1})
	} else if len(info.Subject()) > maxSubjectLen {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("subject exceeds %d characters", maxSubjectLen))
	}

	if len(info.Changes) == 0 {
		res.Errors = append(res.Errors, Error{Message: "patch touches no files"})
	}
	for _, c := range info.Changes {
		if c.Path == "" {
			res.Errors = append(res.Errors,
				Error{Message: fmt.Sprintf("file change with empty path (kind %s)", c.Kind)})
		}
	}

	if info.Author == nil {
		res.Warnings = append(res.Warnings, "missing From: header")
	}
	if info.Date == nil {
		res.Warnings = append(res.Warnings, "missing Date: header")
	}

	if v.hook != nil {
		if ref, ok := revertTarget(info.Subject()); ok {
			if _, err := v.hook(ctx, ref); err != nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("cannot resolve reverted commit %s: %v", ref, err))
			}
		}
	}

	return res
}

// revertTarget extracts the commit reference from a "Revert <ref>" subject.
func revertTarget(subject string) (string, bool) {
	rest, ok := strings.CutPrefix(subject, "Revert ")
	if !ok {
		return "", false
	}
	rest = strings.Trim(rest, `"`)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// CommandHook builds an InfoHook backed by an external command line, as
// configured in hook.command. The reference is appended as the final
// argument and stdout is read as the raw commit message (subject, blank
// line, body).
func CommandHook(cmdline string) (InfoHook, error) {
	args, err := shellwords.Parse(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parse hook command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty hook command")
	}

	return func(ctx context.Context, ref string) (*Info, error) {
		cmd := exec.CommandContext(ctx, args[0], append(args[1:], ref)...)
		var out bytes.Buffer
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			return nil, fmt.Errorf("hook %s: %w", args[0], err)
		}
		lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
		if len(lines) == 0 || lines[0] == "" {
			return nil, fmt.Errorf("hook %s: empty output for %s", args[0], ref)
		}
		return &Info{
			Filename: ref,
			Message:  lines,
		}, nil
	}, nil
}
