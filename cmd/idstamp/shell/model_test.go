package shell

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idstamp/cmd/idstamp/ui"
	"idstamp/internal/batch"
)

// submit types a line into the model and presses enter.
func submit(t *testing.T, m Model, input string) (Model, tea.Cmd) {
	t.Helper()
	m.textinput.SetValue(input)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func newTestModel() Model {
	return NewModel(ui.NewStyles(ui.LightTheme()))
}

func TestModel_ModePhaseTransitions(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, phaseMode, m.phase)

	m, _ = submit(t, m, "f")
	assert.Equal(t, phasePath, m.phase)
	assert.Equal(t, ModeFile, m.mode)

	m = newTestModel()
	m, _ = submit(t, m, "D")
	assert.Equal(t, phasePath, m.phase)
	assert.Equal(t, ModeDir, m.mode)
}

func TestModel_UnknownModeWarns(t *testing.T) {
	m := newTestModel()
	m, _ = submit(t, m, "bogus")

	assert.Equal(t, phaseMode, m.phase)
	assert.Contains(t, strings.Join(m.transcript, "\n"), "please enter F, D, or exit")
}

func TestModel_ExitQuits(t *testing.T) {
	m := newTestModel()
	m, cmd := submit(t, m, "exit")

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_FileFlow(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"a":1}]`), 0644))

	m := newTestModel()
	m, _ = submit(t, m, "f")
	m, cmd := submit(t, m, input)
	assert.Equal(t, phaseRunning, m.phase)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(stampDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	next, _ := m.Update(done)
	m = next.(Model)
	assert.Equal(t, phaseConfirm, m.phase)
	assert.Contains(t, strings.Join(m.transcript, "\n"), "data-mod.json")
}

func TestModel_InvalidPathReturnsToModePrompt(t *testing.T) {
	m := newTestModel()
	m, _ = submit(t, m, "f")
	m, _ = submit(t, m, filepath.Join(t.TempDir(), "absent.json"))

	assert.Equal(t, phaseMode, m.phase)
	assert.Contains(t, strings.Join(m.transcript, "\n"), "not an existing file")
}

func TestModel_EmptyPathStaysInPathPhase(t *testing.T) {
	m := newTestModel()
	m, _ = submit(t, m, "f")
	m, _ = submit(t, m, "  ")

	assert.Equal(t, phasePath, m.phase)
	assert.Contains(t, strings.Join(m.transcript, "\n"), "path cannot be empty")
}

func TestModel_BatchFlow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[{"x":1}]`), 0644))

	m := newTestModel()
	m, _ = submit(t, m, "d")
	m, cmd := submit(t, m, dir)
	assert.Equal(t, phaseRunning, m.phase)
	require.NotNil(t, cmd)

	// tea.Batch wraps the spinner tick and the worker; run the batch
	// directly instead of unpacking the command.
	summary, err := batch.Run(dir)
	require.NoError(t, err)
	next, _ := m.Update(batchDoneMsg{summary: summary})
	m = next.(Model)

	assert.Equal(t, phaseConfirm, m.phase)
	assert.Contains(t, strings.Join(m.transcript, "\n"), "1 stamped, 0 failed")
}

func TestModel_DoneMessagesResetPlaceholder(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"a":1}]`), 0644))

	m := newTestModel()
	m, _ = submit(t, m, "f")
	m, _ = submit(t, m, input)
	assert.Equal(t, "path to the JSON file", m.textinput.Placeholder)

	next, _ := m.Update(stampDoneMsg{input: input, output: "out"})
	m = next.(Model)
	assert.Equal(t, confirmPlaceholder, m.textinput.Placeholder)

	m = newTestModel()
	m, _ = submit(t, m, "d")
	m, _ = submit(t, m, dir)
	next, _ = m.Update(batchDoneMsg{summary: batch.Summary{Dir: dir}})
	m = next.(Model)
	assert.Equal(t, confirmPlaceholder, m.textinput.Placeholder)
}

func TestModel_ConfirmContinuesOrQuits(t *testing.T) {
	m := newTestModel()
	m.phase = phaseConfirm

	cont, _ := submit(t, m, "y")
	assert.Equal(t, phaseMode, cont.phase)
	assert.False(t, cont.quitting)

	m.phase = phaseConfirm
	stop, cmd := submit(t, m, "n")
	assert.True(t, stop.quitting)
	require.NotNil(t, cmd)
}

func TestModel_ViewShowsPrompt(t *testing.T) {
	m := newTestModel()
	view := m.View()
	assert.Contains(t, view, "[F]ile")

	m, _ = submit(t, m, "f")
	assert.Contains(t, m.View(), "JSON file")
}
