package domain

import (
	"strings"
	"unicode"
)

// History query bounds. Callers below the default get what they asked for;
// anything malformed falls back to DefaultHistoryLimit silently.
const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 300
)

// Command is the closed set of inputs a session can produce from one line.
// Parsing happens exactly once, in ParseLine; handlers dispatch on the
// concrete variant and never re-inspect the raw text.
type Command interface {
	isCommand()
}

// HelpCommand lists command usage to the issuing session only.
type HelpCommand struct{}

// NickCommand requests a nickname change. Name is the first token of the
// argument string and may be empty when the verb came without arguments.
type NickCommand struct {
	Name string
}

// DirectCommand sends a private message. Target or Text may be empty when
// the line was malformed; the interpreter answers with usage in that case.
type DirectCommand struct {
	Target string
	Text   string
}

// HistoryCommand queries the history store. Direct selects messages
// involving the issuing session instead of the public room.
type HistoryCommand struct {
	Limit  int
	Direct bool
}

// ColorCommand toggles ANSI output. Arg is the lowercased argument string.
type ColorCommand struct {
	Arg string
}

// ChatCommand is a plain public message (no leading slash).
type ChatCommand struct {
	Text string
}

// UnknownCommand is any slash verb outside the closed set. It is a silent
// no-op on the server.
type UnknownCommand struct {
	Verb string
}

func (HelpCommand) isCommand()    {}
func (NickCommand) isCommand()    {}
func (DirectCommand) isCommand()  {}
func (HistoryCommand) isCommand() {}
func (ColorCommand) isCommand()   {}
func (ChatCommand) isCommand()    {}
func (UnknownCommand) isCommand() {}

// ParseLine turns one trimmed, non-empty input line into a Command.
// A line is a command iff it starts with '/'. The verb is the lowercased
// first whitespace-delimited token without the slash; everything after the
// first whitespace run is the argument string, unsplit.
func ParseLine(line string) Command {
	if !strings.HasPrefix(line, "/") {
		return ChatCommand{Text: line}
	}

	verb, args := splitVerb(line[1:])
	switch strings.ToLower(verb) {
	case "help":
		return HelpCommand{}
	case "nick":
		name, _ := splitVerb(args)
		return NickCommand{Name: name}
	case "msg", "dm":
		target, text := splitVerb(args)
		return DirectCommand{Target: target, Text: text}
	case "history":
		return parseHistory(args)
	case "color":
		return ColorCommand{Arg: strings.ToLower(strings.TrimSpace(args))}
	default:
		return UnknownCommand{Verb: strings.ToLower(verb)}
	}
}

// splitVerb cuts s at the first whitespace run: the leading token and the
// remainder with leading whitespace stripped.
func splitVerb(s string) (string, string) {
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func parseHistory(args string) HistoryCommand {
	fields := strings.Fields(args)
	cmd := HistoryCommand{Limit: DefaultHistoryLimit}
	if len(fields) > 0 {
		if n, ok := parseDigits(fields[0]); ok {
			cmd.Limit = min(n, MaxHistoryLimit)
		}
	}
	if len(fields) > 1 && strings.EqualFold(fields[1], "dm") {
		cmd.Direct = true
	}
	return cmd
}

// parseDigits accepts plain unsigned decimal only; anything else keeps the
// default limit without a reply to the sender.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
		if n > MaxHistoryLimit {
			return MaxHistoryLimit, true
		}
	}
	return n, true
}
