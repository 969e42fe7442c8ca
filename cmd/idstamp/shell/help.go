package shell

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# idstamp session

Stamps every object in a JSON array with a sequential ` + "`id`" + ` (1, 2, 3…)
and writes the result next to the input as ` + "`Outputs/<name>-mod.json`" + `.

## Prompts

| Input | Meaning |
|-------|---------|
| ` + "`F`" + ` | process a single .json file |
| ` + "`D`" + ` | process every .json file in a directory |
| ` + "`exit`" + ` | end the session (also: quit, q) |
| ` + "`help`" + ` | show this text (also: ?) |

Paths may be quoted; surrounding quotes are stripped. After each run only
` + "`y`" + ` or ` + "`yes`" + ` continues the session.

Pre-existing ` + "`id`" + ` members are overwritten. Non-object elements pass
through unchanged but still count toward positions.
`

// RenderHelp renders the session help as terminal markdown, falling back to
// the raw text when the renderer cannot be built.
func RenderHelp(dark bool) string {
	var renderer *glamour.TermRenderer
	var err error
	if dark {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		)
	} else {
		renderer, err = glamour.NewTermRenderer(
			glamour.WithStylePath("light"),
			glamour.WithWordWrap(76),
		)
	}
	if err != nil {
		return helpMarkdown
	}

	out, err := renderer.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
