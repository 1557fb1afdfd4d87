package patch

import (
	"github.com/bluekeyes/go-gitdiff/gitdiff"

	"github.com/patchtools/patchlint/internal/commit"
)

// classify maps parsed diff file entries to FileChange records, preserving
// diff order. The parser has already stripped the "a/"/"b/" prefixes and
// decoded quoted paths.
func (e *Extractor) classify(files []*gitdiff.File) []commit.FileChange {
	changes := make([]commit.FileChange, 0, len(files))
	for _, f := range files {
		switch {
		case f.IsNew:
			changes = append(changes, commit.FileChange{Path: f.NewName, Kind: commit.Added})
		case f.IsDelete:
			changes = append(changes, commit.FileChange{Path: f.OldName, Kind: commit.Deleted})
		case f.IsRename && e.renameDetection:
			// A rename is two operations: the deletion of the original
			// name and the addition of the new one.
			changes = append(changes,
				commit.FileChange{Path: f.OldName, Kind: commit.Deleted},
				commit.FileChange{Path: f.NewName, Kind: commit.Added})
		default:
			if f.IsRename {
				warnRenameFallback()
			}
			changes = append(changes, commit.FileChange{Path: f.NewName, Kind: commit.Modified})
		}
	}
	return changes
}
