package cli

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/patchtools/patchlint/internal/checker"
	"github.com/patchtools/patchlint/internal/output"
	"github.com/patchtools/patchlint/internal/utils"
)

var (
	flagCheckQuiet          bool
	flagCheckVerbose        bool
	flagCheckPrintChangelog bool
)

func init() {
	checkCmd.Flags().BoolVarP(&flagCheckQuiet, "quiet", "q", false, "don't print OK and summary messages")
	checkCmd.Flags().BoolVarP(&flagCheckVerbose, "verbose", "v", false, "print warnings for passing patches")
	checkCmd.Flags().BoolVarP(&flagCheckPrintChangelog, "print-changelog", "p", false, "print the file-change list for passing patches")

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Check patch files",
	Long: `Check patch files in 'git format-patch' format.

Use "-" to read a single patch from stdin.
With no arguments, every file under the configured patches directory
is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("quiet") {
			cfg.General.Quiet = flagCheckQuiet
		}
		if cmd.Flags().Changed("verbose") {
			cfg.General.Verbose = flagCheckVerbose
		}
		if cmd.Flags().Changed("print-changelog") {
			cfg.General.PrintChangelog = flagCheckPrintChangelog
		}

		validator, err := buildValidator(cfg)
		if err != nil {
			return err
		}
		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("opening history database: %w", err)
		}
		if store != nil {
			defer store.Close()
			if n, err := store.PruneRuns(cfg.History.RetentionDays); err != nil {
				utils.Warn("failed to prune history", "err", err)
			} else if n > 0 {
				utils.Debug("pruned history", "runs", n)
			}
		}

		chk := checker.New(validator, store)

		var (
			stdinData string
			files     []string
			batch     bool
		)
		switch {
		case len(args) == 0:
			files, err = collectPatches(cfg.General.PatchesDir)
			if err != nil {
				return err
			}
			batch = true
		case args[0] == "-":
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			stdinData = string(data)
			files = []string{"-"}
		default:
			files = args
		}
		batch = batch || len(files) > 1

		if len(files) == 0 {
			return fmt.Errorf("no files to process")
		}

		reporter := output.NewReporter(os.Stdout, output.ReporterOptions{
			Color:          output.ColorEnabled(cfg.Output.Color),
			Verbose:        cfg.General.Verbose,
			Quiet:          cfg.General.Quiet,
			PrintChangelog: cfg.General.PrintChangelog,
		})

		var (
			reports []output.FileReport
			success int
		)
		for _, file := range files {
			var rep output.FileReport
			if file == "-" {
				rep = chk.CheckData(cmd.Context(), "-", stdinData)
			} else {
				rep = chk.CheckFile(cmd.Context(), file)
			}
			reports = append(reports, rep)
			if rep.OK {
				success++
			}

			if output.IsJSON() {
				continue
			}
			reporter.Report(rep)
			haveMessage := !rep.OK || (len(rep.Warnings) > 0 && cfg.General.Verbose)
			if haveMessage || batch {
				fmt.Println()
			}
		}

		if output.IsJSON() {
			if err := output.OutputJSON(map[string]any{
				"reports": reports,
				"success": success,
				"total":   len(files),
			}); err != nil {
				return err
			}
		} else if batch {
			reporter.Summary(success, len(files))
		}

		if success < len(files) {
			if store != nil {
				_ = store.Close()
			}
			os.Exit(1)
		}
		return nil
	},
}

// collectPatches walks dir and returns every regular file, sorted.
func collectPatches(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
