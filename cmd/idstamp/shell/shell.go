// Package shell implements the interactive idstamp session: a prompt loop
// that picks file or directory mode, takes a path, and dispatches to the
// tagger or the batch runner. Two front-ends share the same protocol: a
// Bubble Tea inline program for terminals and a plain line-reader loop for
// non-TTY sessions.
package shell

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"idstamp/cmd/idstamp/ui"
	"idstamp/internal/batch"
	"idstamp/internal/tagger"
)

// Mode is the result of parsing the operator's mode-prompt input.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeFile
	ModeDir
	ModeExit
	ModeHelp
)

// ParseMode maps mode-prompt input to a Mode. Tokens are case-insensitive;
// quit and q are exit synonyms, ? is a help synonym.
func ParseMode(input string) Mode {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "f", "file":
		return ModeFile
	case "d", "dir", "directory":
		return ModeDir
	case "exit", "quit", "q":
		return ModeExit
	case "help", "?":
		return ModeHelp
	default:
		return ModeUnknown
	}
}

// IsAffirmative reports whether continuation-prompt input keeps the session
// alive. Only y and yes count; anything else ends the session.
func IsAffirmative(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// CleanPath trims whitespace and strips one pair of surrounding quotes, as
// produced by drag-and-drop into a terminal.
func CleanPath(input string) string {
	path := strings.TrimSpace(input)
	if len(path) >= 2 {
		if (path[0] == '"' && path[len(path)-1] == '"') ||
			(path[0] == '\'' && path[len(path)-1] == '\'') {
			path = path[1 : len(path)-1]
		}
	}
	return strings.TrimSpace(path)
}

// NormalizePath resolves a cleaned path to an absolute canonical form.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// ValidateFile checks that path is an existing regular file with a .json
// extension.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("not an existing file: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return fmt.Errorf("not a .json file: %s", path)
	}
	return nil
}

// ValidateDir checks that path is an existing directory.
func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("not an existing directory: %s", path)
	}
	return nil
}

// Renderer turns tagger and batch outcomes into styled transcript lines.
// Both front-ends use it so their wording stays identical.
type Renderer struct {
	Styles ui.Styles
}

// StampLine renders one per-file outcome.
func (r Renderer) StampLine(input, output string, err error) string {
	if err == nil {
		return r.Styles.Success.Render("✅ ") + fmt.Sprintf("%s → %s", filepath.Base(input), output)
	}
	switch {
	case errors.Is(err, tagger.ErrNotFound):
		return r.Styles.Error.Render("❌ ") + fmt.Sprintf("file not found: %s", input)
	case errors.Is(err, tagger.ErrParse):
		return r.Styles.Error.Render("❌ ") + fmt.Sprintf("invalid JSON in %s", filepath.Base(input))
	case errors.Is(err, tagger.ErrNotArray):
		return r.Styles.Warning.Render("⚠️  ") + fmt.Sprintf("%s is not a JSON array, skipped", filepath.Base(input))
	default:
		return r.Styles.Error.Render("❌ ") + fmt.Sprintf("unexpected error on %s: %v", filepath.Base(input), err)
	}
}

// BatchReport renders a full directory summary.
func (r Renderer) BatchReport(summary batch.Summary) string {
	if summary.Empty() {
		return r.Styles.Info.Render("ℹ️  ") + fmt.Sprintf("no .json files found in %s", summary.Dir)
	}

	var b strings.Builder
	for _, result := range summary.Results {
		b.WriteString(r.StampLine(result.Input, result.Output, result.Err))
		b.WriteString("\n")
	}
	b.WriteString(r.Styles.Success.Render("🎉 "))
	b.WriteString(fmt.Sprintf("done: %d stamped, %d failed (%s)",
		summary.Stamped, summary.Failed, summary.Duration.Round(time.Millisecond)))
	return b.String()
}
