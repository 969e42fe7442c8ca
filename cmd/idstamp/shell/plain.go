package shell

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"idstamp/cmd/idstamp/ui"
	"idstamp/internal/batch"
	"idstamp/internal/tagger"
)

// Plain is the line-reader front-end for non-TTY sessions. It drives the
// same prompt protocol as the Bubble Tea program over any reader/writer
// pair, which also makes full sessions scriptable in tests.
type Plain struct {
	in       *bufio.Reader
	out      io.Writer
	styles   ui.Styles
	renderer Renderer

	// Injection points for tests; default to the real pipeline.
	stamp    func(string) (string, error)
	runBatch func(string) (batch.Summary, error)
}

// NewPlain builds a plain shell over the given streams.
func NewPlain(in io.Reader, out io.Writer, styles ui.Styles) *Plain {
	return &Plain{
		in:       bufio.NewReader(in),
		out:      out,
		styles:   styles,
		renderer: Renderer{Styles: styles},
		stamp:    tagger.Stamp,
		runBatch: batch.Run,
	}
}

// Run executes the prompt loop until the operator exits or input ends.
func (p *Plain) Run() error {
	p.println(p.styles.Title.Render("idstamp — sequential ID stamping for JSON arrays"))
	p.println(p.styles.RenderDivider(60))

	for {
		mode, ok := p.promptMode()
		if !ok {
			return nil
		}

		switch mode {
		case ModeHelp:
			p.println(RenderHelp(p.styles.Theme.IsDark))
			continue
		case ModeExit:
			p.farewell()
			return nil
		}

		path, ok := p.promptPath(mode)
		if !ok {
			return nil
		}
		if path == "" {
			continue
		}

		switch mode {
		case ModeFile:
			output, err := p.stamp(path)
			p.println(p.renderer.StampLine(path, output, err))
		case ModeDir:
			summary, err := p.runBatch(path)
			if err != nil {
				p.println(p.styles.Error.Render("❌ ") + err.Error())
			} else {
				p.println(p.renderer.BatchReport(summary))
			}
		}

		p.print("\nProcess another? [y/N]: ")
		answer, err := p.readLine()
		if err != nil || !IsAffirmative(answer) {
			p.farewell()
			return nil
		}
	}
}

// promptMode asks for the mode until it gets a recognized token. The second
// return value is false when input ended.
func (p *Plain) promptMode() (Mode, bool) {
	for {
		p.print("\nProcess a [F]ile or a [D]irectory? (or 'exit'): ")
		input, err := p.readLine()
		if err != nil {
			return ModeExit, false
		}

		mode := ParseMode(input)
		if mode == ModeUnknown {
			p.println(p.styles.Warning.Render("⚠️  ") + "please enter F, D, or exit")
			continue
		}
		return mode, true
	}
}

// promptPath asks for a path, normalizes it, and validates it for the mode.
// An empty string result means validation failed and the caller should
// return to the mode prompt; false means input ended.
func (p *Plain) promptPath(mode Mode) (string, bool) {
	label := "Path to the JSON file: "
	if mode == ModeDir {
		label = "Path to the directory: "
	}

	for {
		p.print(label)
		input, err := p.readLine()
		if err != nil {
			return "", false
		}

		path := CleanPath(input)
		if path == "" {
			p.println(p.styles.Warning.Render("⚠️  ") + "path cannot be empty")
			continue
		}

		path, err = NormalizePath(path)
		if err != nil {
			p.println(p.styles.Error.Render("❌ ") + err.Error())
			return "", true
		}

		var validate func(string) error
		if mode == ModeDir {
			validate = ValidateDir
		} else {
			validate = ValidateFile
		}
		if err := validate(path); err != nil {
			p.println(p.styles.Warning.Render("⚠️  ") + err.Error())
			return "", true
		}
		return path, true
	}
}

func (p *Plain) farewell() {
	p.println("\n👋 Goodbye!")
}

func (p *Plain) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Plain) print(s string) {
	fmt.Fprint(p.out, s)
}

func (p *Plain) println(s string) {
	fmt.Fprintln(p.out, s)
}
