// Package checker runs the extract-validate pipeline for patch files and
// records outcomes.
package checker

import (
	"context"

	"github.com/patchtools/patchlint/internal/commit"
	"github.com/patchtools/patchlint/internal/db"
	"github.com/patchtools/patchlint/internal/output"
	"github.com/patchtools/patchlint/internal/patch"
	"github.com/patchtools/patchlint/internal/utils"
)

// Checker checks patch files. The store is optional; when set, every
// result is recorded.
type Checker struct {
	extractor *patch.Extractor
	validator commit.Validator
	store     *db.DB
}

// New creates a Checker. A nil validator falls back to the structural
// default with no hook.
func New(validator commit.Validator, store *db.DB) *Checker {
	if validator == nil {
		validator = commit.NewStructuralValidator(nil)
	}
	return &Checker{
		extractor: patch.NewExtractor(),
		validator: validator,
		store:     store,
	}
}

// CheckFile extracts and validates one patch file.
func (c *Checker) CheckFile(ctx context.Context, path string) output.FileReport {
	info, err := c.extractor.ExtractFile(path)
	return c.finish(ctx, path, info, err)
}

// CheckData extracts and validates raw patch text (stdin mode).
func (c *Checker) CheckData(ctx context.Context, name, data string) output.FileReport {
	info, err := c.extractor.Extract(name, data)
	return c.finish(ctx, name, info, err)
}

func (c *Checker) finish(ctx context.Context, name string, info *commit.Info, err error) output.FileReport {
	rep := output.FileReport{Filename: name}
	if err != nil {
		rep.Errors = append(rep.Errors, err.Error())
		c.record(rep)
		return rep
	}

	rep.Subject = info.Subject()
	rep.Changes = info.Changes

	res := c.validator.Validate(ctx, info)
	for _, e := range res.Errors {
		rep.Errors = append(rep.Errors, e.String())
	}
	rep.Warnings = res.Warnings
	rep.OK = res.OK()

	c.record(rep)
	return rep
}

func (c *Checker) record(rep output.FileReport) {
	if c.store == nil {
		return
	}
	err := c.store.RecordRun(&db.Run{
		Filename:   rep.Filename,
		Subject:    rep.Subject,
		OK:         rep.OK,
		ErrorCount: len(rep.Errors),
	})
	if err != nil {
		utils.Warn("failed to record run", "file", rep.Filename, "err", err)
	}
}
