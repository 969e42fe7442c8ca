package shell

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"idstamp/cmd/idstamp/ui"
	"idstamp/internal/batch"
	"idstamp/internal/tagger"
)

// phase mirrors the prompt protocol: mode, path, work in flight, continue.
type phase int

const (
	phaseMode phase = iota
	phasePath
	phaseRunning
	phaseConfirm
)

// Placeholder hints per phase.
const (
	modePlaceholder    = "F, D, or exit"
	confirmPlaceholder = "y to continue, anything else exits"
)

// stampDoneMsg carries a single-file outcome back into Update.
type stampDoneMsg struct {
	input  string
	output string
	err    error
}

// batchDoneMsg carries a directory outcome back into Update.
type batchDoneMsg struct {
	summary batch.Summary
	err     error
}

// Model is the Bubble Tea front-end. It runs inline (no alt-screen) so the
// transcript stays in the terminal scrollback after the session ends.
type Model struct {
	styles   ui.Styles
	renderer Renderer

	textinput textinput.Model
	spinner   spinner.Model

	phase      phase
	mode       Mode
	transcript []string
	quitting   bool

	stamp    func(string) (string, error)
	runBatch func(string) (batch.Summary, error)
}

// NewModel builds the TUI shell model.
func NewModel(styles ui.Styles) Model {
	ti := textinput.New()
	ti.Placeholder = modePlaceholder
	ti.Focus()
	ti.Prompt = "│ "
	ti.CharLimit = 1024
	ti.Width = 72
	ti.PromptStyle = styles.Prompt
	ti.TextStyle = styles.Body

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return Model{
		styles:     styles,
		renderer:   Renderer{Styles: styles},
		textinput:  ti,
		spinner:    sp,
		phase:      phaseMode,
		transcript: []string{styles.Title.Render("idstamp — sequential ID stamping for JSON arrays")},
		stamp:      tagger.Stamp,
		runBatch:   batch.Run,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			if m.phase == phaseRunning {
				return m, nil
			}
			input := m.textinput.Value()
			m.textinput.Reset()
			return m.handleInput(input)
		}

	case stampDoneMsg:
		m.transcript = append(m.transcript, m.renderer.StampLine(msg.input, msg.output, msg.err))
		m.phase = phaseConfirm
		m.textinput.Placeholder = confirmPlaceholder
		return m, nil

	case batchDoneMsg:
		if msg.err != nil {
			m.transcript = append(m.transcript, m.styles.Error.Render("❌ ")+msg.err.Error())
		} else {
			m.transcript = append(m.transcript, m.renderer.BatchReport(msg.summary))
		}
		m.phase = phaseConfirm
		m.textinput.Placeholder = confirmPlaceholder
		return m, nil

	case spinner.TickMsg:
		if m.phase == phaseRunning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	return m, cmd
}

// handleInput advances the phase machine on a submitted line.
func (m Model) handleInput(input string) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseMode:
		return m.handleMode(input)
	case phasePath:
		return m.handlePath(input)
	case phaseConfirm:
		if IsAffirmative(input) {
			m.phase = phaseMode
			m.textinput.Placeholder = modePlaceholder
			return m, nil
		}
		m.transcript = append(m.transcript, "\n👋 Goodbye!")
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleMode(input string) (tea.Model, tea.Cmd) {
	switch ParseMode(input) {
	case ModeFile:
		m.mode = ModeFile
		m.phase = phasePath
		m.textinput.Placeholder = "path to the JSON file"
	case ModeDir:
		m.mode = ModeDir
		m.phase = phasePath
		m.textinput.Placeholder = "path to the directory"
	case ModeHelp:
		m.transcript = append(m.transcript, RenderHelp(m.styles.Theme.IsDark))
	case ModeExit:
		m.transcript = append(m.transcript, "\n👋 Goodbye!")
		m.quitting = true
		return m, tea.Quit
	default:
		m.transcript = append(m.transcript, m.styles.Warning.Render("⚠️  ")+"please enter F, D, or exit")
	}
	return m, nil
}

func (m Model) handlePath(input string) (tea.Model, tea.Cmd) {
	path := CleanPath(input)
	if path == "" {
		m.transcript = append(m.transcript, m.styles.Warning.Render("⚠️  ")+"path cannot be empty")
		return m, nil
	}

	path, err := NormalizePath(path)
	if err != nil {
		m.transcript = append(m.transcript, m.styles.Error.Render("❌ ")+err.Error())
		m.phase = phaseMode
		m.textinput.Placeholder = modePlaceholder
		return m, nil
	}

	validate := ValidateFile
	if m.mode == ModeDir {
		validate = ValidateDir
	}
	if err := validate(path); err != nil {
		m.transcript = append(m.transcript, m.styles.Warning.Render("⚠️  ")+err.Error())
		m.phase = phaseMode
		m.textinput.Placeholder = modePlaceholder
		return m, nil
	}

	m.phase = phaseRunning
	if m.mode == ModeDir {
		runBatch := m.runBatch
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			summary, err := runBatch(path)
			return batchDoneMsg{summary: summary, err: err}
		})
	}
	stamp := m.stamp
	return m, func() tea.Msg {
		output, err := stamp(path)
		return stampDoneMsg{input: path, output: output, err: err}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(strings.Join(m.transcript, "\n"))
	b.WriteString("\n")

	if m.quitting {
		return b.String()
	}

	b.WriteString(m.styles.RenderDivider(60))
	b.WriteString("\n")

	switch m.phase {
	case phaseMode:
		b.WriteString(m.styles.Prompt.Render("Process a [F]ile or a [D]irectory? (or 'exit')"))
	case phasePath:
		if m.mode == ModeDir {
			b.WriteString(m.styles.Prompt.Render("Path to the directory"))
		} else {
			b.WriteString(m.styles.Prompt.Render("Path to the JSON file"))
		}
	case phaseRunning:
		b.WriteString(fmt.Sprintf("%s working…", m.spinner.View()))
		return b.String()
	case phaseConfirm:
		b.WriteString(m.styles.Prompt.Render("Process another? [y/N]"))
	}

	b.WriteString("\n")
	b.WriteString(m.textinput.View())
	return b.String()
}

// RunTUI starts the Bubble Tea shell and blocks until the session ends.
func RunTUI(styles ui.Styles) error {
	_, err := tea.NewProgram(NewModel(styles)).Run()
	return err
}
