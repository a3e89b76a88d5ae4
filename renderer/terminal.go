package renderer

import (
	"github.com/charmbracelet/glamour"
)

// Terminal renders markdown for a terminal of the given width, in columns.
// A zero width disables wrapping.
func Terminal(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithEmoji(),
		glamour.WithWordWrap(max(width, 0)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
