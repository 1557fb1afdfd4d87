package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/patchtools/patchlint/internal/checker"
	"github.com/patchtools/patchlint/internal/config"
	"github.com/patchtools/patchlint/internal/output"
	"github.com/patchtools/patchlint/internal/tui"
	"github.com/patchtools/patchlint/internal/utils"
)

var flagWatchTUI bool

func init() {
	watchCmd.Flags().BoolVar(&flagWatchTUI, "tui", false, "show results in an interactive dashboard")

	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-check patch files as they change",
	Long: `Watch a directory (default: the configured patches directory) and
re-check any patch file that is created or modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dir := cfg.General.PatchesDir
		if len(args) == 1 {
			dir = args[0]
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("not a directory: %s", dir)
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
		}
		chk := checker.New(validator, store)

		if logger, err := utils.InitWatchLogger(); err == nil {
			utils.SetDefaultLogger(logger)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if flagWatchTUI {
			prog := tea.NewProgram(tui.NewWatchModel(dir), tea.WithAltScreen())
			go func() {
				err := runWatcher(ctx, cfg, dir, chk, func(rep output.FileReport) {
					prog.Send(tui.ResultMsg{Report: rep})
				})
				if err != nil {
					utils.Error("watcher stopped", "err", err)
				}
				prog.Send(tui.WatcherDoneMsg{})
			}()
			_, err := prog.Run()
			return err
		}

		reporter := output.NewReporter(os.Stdout, output.ReporterOptions{
			Color:          output.ColorEnabled(cfg.Output.Color),
			Verbose:        cfg.General.Verbose,
			PrintChangelog: cfg.General.PrintChangelog,
		})
		fmt.Printf("Watching %s\n", dir)
		return runWatcher(ctx, cfg, dir, chk, func(rep output.FileReport) {
			if output.IsJSON() {
				_ = output.OutputJSON(rep)
				return
			}
			reporter.Report(rep)
		})
	},
}

// runWatcher drives the fsnotify loop until ctx is cancelled, invoking
// deliver for every (debounced) re-check result.
func runWatcher(ctx context.Context, cfg config.Config, dir string, chk *checker.Checker, deliver func(output.FileReport)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the tree as it exists now; directories created later are
	// added when their create event arrives.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	var (
		mu     sync.Mutex
		timers = map[string]*time.Timer{}
	)
	schedule := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		if t, ok := timers[path]; ok {
			t.Stop()
		}
		timers[path] = time.AfterFunc(debounce, func() {
			mu.Lock()
			delete(timers, path)
			mu.Unlock()
			deliver(chk.CheckFile(ctx, path))
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op.Has(fsnotify.Create) {
					_ = watcher.Add(event.Name)
				}
				continue
			}
			if matchesPatterns(cfg.Watch.Patterns, filepath.Base(event.Name)) {
				schedule(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			utils.Warn("watch error", "err", err)
		}
	}
}

// matchesPatterns reports whether name matches any of the globs. An empty
// pattern list matches everything.
func matchesPatterns(patterns []string, name string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
