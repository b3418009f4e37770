package moderation

import (
	"bufio"
	"bytes"
	"embed"
	"strings"

	"github.com/samber/lo"

	"github.com/hmZa-Sfyn/custom-irc-server/errors"
)

//go:embed censored/*.txt
var censoredFolder embed.FS

// EmbeddedWords loads the word lists shipped with the binary. One word per
// line, '#' starts a comment.
func EmbeddedWords() ([]string, error) {
	entries, err := censoredFolder.ReadDir("censored")
	if err != nil {
		return nil, err
	}

	var words []string
	for _, entry := range entries {
		data, err := censoredFolder.ReadFile("censored/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" || strings.HasPrefix(word, "#") {
				continue
			}
			words = append(words, strings.ToLower(word))
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	words = lo.Uniq(words)
	if len(words) == 0 {
		return nil, errors.ErrEmptyWords
	}
	return words, nil
}
