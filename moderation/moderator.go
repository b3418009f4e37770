// Package moderation masks censored words in chat content before delivery.
// Matching is resilient to case, punctuation noise and common leet-speak
// spellings; masking preserves the original length and spacing.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher *goahocorasick.Machine
	mask    rune
	log     *slog.Logger
}

// NewModerator builds the Aho-Corasick automaton over the normalized forms
// of the given words.
func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, w := range words {
		if norm, _ := normalize(w); len(norm) > 0 {
			patterns = append(patterns, norm)
		}
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	log.Debug("Moderator ready", "patterns", len(patterns))
	return &Moderator{matcher: m, mask: mask, log: log}, nil
}

// Censor replaces every matched span of the original text with the mask
// rune and returns the matched normalized words. Characters skipped during
// normalization (punctuation, spacing) keep their place in the output.
func (m *Moderator) Censor(original string) (string, []string) {
	norm, origIdx := normalize(original)
	if len(norm) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return original, nil
	}

	runes := []rune(original)
	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		found = append(found, string(span.Word))
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			runes[i] = m.mask
		}
	}
	return string(runes), found
}

// normalize lowercases, undoes leet-speak substitutions and drops noise
// runes. The second return value maps each normalized rune back to its
// index in the input.
func normalize(input string) ([]rune, []int) {
	var norm []rune
	var origIdx []int
	for i, r := range []rune(input) {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return norm, origIdx
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
