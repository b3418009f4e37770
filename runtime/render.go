package runtime

import (
	"strings"

	"github.com/gookit/color"
)

// colorReplacer wraps each marker character in its own color/reset pair.
// The substitutions are independent of each other, so a single pass is
// enough and ordering does not matter.
var colorReplacer *strings.Replacer

func init() {
	// Color support is forced open before the pairs are rendered: output
	// goes to client sockets, not a local terminal, so gookit's TTY
	// detection would otherwise strip the escape codes.
	color.ForceOpenColor()
	colorReplacer = strings.NewReplacer(
		"<", color.Green.Sprint("<"),
		">", color.Green.Sprint(">"),
		"[", color.Yellow.Sprint("["),
		"]", color.Yellow.Sprint("]"),
		"→", color.Cyan.Sprint("→"),
		"←", color.Magenta.Sprint("←"),
	)
}

// Render applies the recipient's output formatting. With colors disabled
// the text passes through untouched.
func Render(s *Session, text string) string {
	if !s.ColorEnabled() {
		return text
	}
	return colorReplacer.Replace(text)
}
