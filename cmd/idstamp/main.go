package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"idstamp/cmd/idstamp/config"
	"idstamp/cmd/idstamp/shell"
	"idstamp/cmd/idstamp/ui"
)

const version = "1.0.0"

var (
	// Global flags
	verbose bool
	plain   bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "idstamp",
	Short:   "idstamp - sequential ID stamping for JSON arrays",
	Version: version,
	Long: `idstamp reads a JSON array from a file, assigns each object a sequential
integer identifier under the field "id" (1-based, input order), and writes
the result to <dir>/Outputs/<name>-mod.json next to the input.

Run without arguments to start the interactive session.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip logger init for interactive mode (it has its own UI)
		if cmd.Use == "idstamp" && cmd.CalledAs() == "idstamp" {
			return nil
		}

		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch the interactive session
		return runShell()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "Disable the TUI and use the line-based shell")

	rootCmd.AddCommand(stampCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sessionStyles resolves styles from the preferences file.
func sessionStyles() ui.Styles {
	cfg, _ := config.Load()
	return ui.NewStyles(ui.ThemeByName(cfg.Theme))
}

// runShell picks the shell front-end: Bubble Tea on a terminal, the plain
// line reader otherwise or when --plain is set.
func runShell() error {
	styles := sessionStyles()
	if plain || !term.IsTerminal(int(os.Stdin.Fd())) {
		return shell.NewPlain(os.Stdin, os.Stdout, styles).Run()
	}
	return shell.RunTUI(styles)
}
