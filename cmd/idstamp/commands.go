package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"idstamp/cmd/idstamp/config"
	"idstamp/cmd/idstamp/shell"
	"idstamp/cmd/idstamp/ui"
	"idstamp/internal/batch"
	"idstamp/internal/tagger"
	"idstamp/internal/watch"
)

// stampCmd processes one or more files
var stampCmd = &cobra.Command{
	Use:   "stamp [file]...",
	Short: "Stamp sequential IDs onto one or more JSON-array files",
	Long: `Stamps each file in argument order. Every object element receives
id = position + 1; non-object elements pass through unchanged. The output is
written to <dir>/Outputs/<name>-mod.json, overwriting any previous run.

A failure on one file does not stop the remaining files; the exit code is 1
when any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStamp,
}

// batchCmd processes every JSON file in a directory
var batchCmd = &cobra.Command{
	Use:   "batch [directory]",
	Short: "Stamp every .json file in a directory",
	Long: `Stamps every regular file in the directory whose name ends in .json
(case-insensitive), one at a time, non-recursive. Per-file failures are
reported and skipped; the command fails only when the directory itself
cannot be listed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// watchCmd stamps files as they appear in a directory
var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and stamp new or modified .json files",
	Long: `Watches a single directory (non-recursive) and stamps each .json file
once its events settle. Outputs land in the Outputs subdirectory, which the
watch does not observe. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// inspectCmd reports on files without writing anything
var inspectCmd = &cobra.Command{
	Use:   "inspect [file]...",
	Short: "Validate files and report what stamping would do, without writing",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInspect,
}

// themeCmd shows or persists the shell color theme
var themeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the color theme for the interactive session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTheme,
}

// runStamp stamps each argument in order.
func runStamp(cmd *cobra.Command, args []string) error {
	styles := sessionStyles()
	renderer := shell.Renderer{Styles: styles}

	failed := 0
	for _, path := range args {
		logger.Debug("stamping file", zap.String("path", path))
		output, err := tagger.Stamp(path)
		if err != nil {
			failed++
			logger.Warn("stamp failed", zap.String("path", path), zap.Error(err))
		}
		fmt.Println(renderer.StampLine(path, output, err))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
	}
	return nil
}

// runBatch stamps every candidate in one directory.
func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	styles := sessionStyles()
	renderer := shell.Renderer{Styles: styles}

	logger.Info("batch run starting", zap.String("dir", dir))
	summary, err := batch.Run(dir)
	if err != nil {
		return err
	}
	logger.Info("batch run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("stamped", summary.Stamped),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration))

	fmt.Println(renderer.BatchReport(summary))

	// Per-file failures keep exit code 0: the keep-going contract.
	return nil
}

// runWatch runs the directory watcher until SIGINT/SIGTERM.
func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	styles := sessionStyles()
	renderer := shell.Renderer{Styles: styles}

	if err := shell.ValidateDir(dir); err != nil {
		return err
	}

	w, err := watch.New(dir, tagger.Stamp, logger)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	w.Start(ctx)
	fmt.Printf("👀 watching %s (Ctrl+C to stop)\n", dir)

	for {
		select {
		case <-sigCh:
			w.Stop()
			stats := w.GetStats()
			fmt.Printf("\n🎉 done: %d stamped, %d failed\n", stats.Stamped, stats.Failed)
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			fmt.Println(renderer.StampLine(event.Path, event.Output, event.Err))
		}
	}
}

// runInspect reports a census per file, with no writes.
func runInspect(cmd *cobra.Command, args []string) error {
	styles := sessionStyles()

	failed := 0
	for _, path := range args {
		report, err := tagger.Inspect(path)
		if err != nil {
			failed++
			fmt.Println(styles.Error.Render("❌ ") + err.Error())
			continue
		}
		fmt.Println(styles.Success.Render("✅ ") + formatReport(report))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed inspection", failed, len(args))
	}
	return nil
}

// formatReport renders one inspect census line.
func formatReport(report tagger.Report) string {
	return fmt.Sprintf("%s: %d element(s), %d object(s), %d existing id member(s) → would write %s",
		report.Path, report.Elements, report.Objects, report.ExistingIDs, report.OutputPath)
}

// runTheme shows the active theme, or persists a new one to the
// preferences file. Presentation only; the data contract is unaffected.
func runTheme(cmd *cobra.Command, args []string) error {
	cfg, _ := config.Load()
	styles := ui.DefaultStyles()

	if len(args) == 0 {
		fmt.Println(styles.Badge.Render(cfg.Theme))
		fmt.Println(styles.Muted.Render("set with: idstamp theme light|dark"))
		return nil
	}

	theme := strings.ToLower(args[0])
	if theme != "light" && theme != "dark" {
		return fmt.Errorf("unknown theme %q (use light or dark)", args[0])
	}

	cfg.Theme = theme
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	fmt.Println(styles.Success.Render("✅ ") + "theme set to " + theme)
	return nil
}
