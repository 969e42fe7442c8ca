// Package ui provides the visual styling for the idstamp CLI, with light
// and dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors (default)
	lightForeground = lipgloss.Color("#101F38")
	lightAccent     = lipgloss.Color("#8BC34A")
	lightMuted      = lipgloss.Color("#d6dae0")
	lightBorder     = lipgloss.Color("#dce0e5")

	// Dark mode colors
	darkForeground = lipgloss.Color("#f2f2f2")
	darkAccent     = lipgloss.Color("#8BC34A")
	darkMuted      = lipgloss.Color("#2a3850")
	darkBorder     = lipgloss.Color("#2a3850")

	// Semantic colors (same in both modes)
	colorError   = lipgloss.Color("#e53935")
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: lightForeground,
		Accent:     lightAccent,
		Muted:      lightMuted,
		Border:     lightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: darkForeground,
		Accent:     darkAccent,
		Muted:      darkMuted,
		Border:     darkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from the terminal background or falls back to
// light mode. IDSTAMP_DARK_MODE=1 forces dark mode.
func DetectTheme() Theme {
	// COLORFGBG is usually "foreground;background"; ANSI backgrounds 0-6
	// and 8 indicate a dark terminal.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("IDSTAMP_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// ThemeByName resolves a preferences value to a theme; anything that is not
// "dark" falls back to auto-detection.
func ThemeByName(name string) Theme {
	if name == "dark" {
		return DarkTheme()
	}
	return DetectTheme()
}

// Styles holds the styled components used across the CLI and shell.
type Styles struct {
	Theme Theme

	Title  lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style
	Prompt lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colorInfo),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),
	}
}

// DefaultStyles returns styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}
