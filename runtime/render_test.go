package runtime

import (
	"testing"

	"github.com/gookit/color"
	"github.com/stretchr/testify/require"
)

func TestRender_Disabled_Passes_Through(t *testing.T) {
	req := require.New(t)
	s := NewSession("Alice", &recordingSink{})

	// Colors are off by default
	line := "[12:30] <Bob> hello → you"
	req.Equal(line, Render(s, line))
}

func TestRender_Enabled_Wraps_Each_Marker(t *testing.T) {
	req := require.New(t)
	s := NewSession("Alice", &recordingSink{})
	s.SetColorEnabled(true)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "Nickname brackets",
			input: "<Bob>",
			expected: color.Green.Sprint("<") + "Bob" +
				color.Green.Sprint(">"),
		},
		{
			name:  "Timestamp brackets",
			input: "[12:30]",
			expected: color.Yellow.Sprint("[") + "12:30" +
				color.Yellow.Sprint("]"),
		},
		{
			name:     "Outgoing arrow",
			input:    "a → b",
			expected: "a " + color.Cyan.Sprint("→") + " b",
		},
		{
			name:     "Incoming arrow",
			input:    "a ← b",
			expected: "a " + color.Magenta.Sprint("←") + " b",
		},
		{
			name:     "No markers, no change",
			input:    "plain text",
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req.Equal(tt.expected, Render(s, tt.input))
		})
	}
}

func TestRender_Toggle_Is_Per_Session(t *testing.T) {
	req := require.New(t)
	colored := NewSession("Alice", &recordingSink{})
	colored.SetColorEnabled(true)
	plain := NewSession("Bob", &recordingSink{})

	line := "<x>"
	req.NotEqual(Render(plain, line), Render(colored, line))
	req.Equal(line, Render(plain, line))
}
