package runtime

import (
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/hmZa-Sfyn/custom-irc-server/contract"
	"github.com/hmZa-Sfyn/custom-irc-server/domain"
	"github.com/hmZa-Sfyn/custom-irc-server/errors"
	"github.com/hmZa-Sfyn/custom-irc-server/moderation"
	"github.com/hmZa-Sfyn/custom-irc-server/observability"
)

var helpLines = []string{
	"/nick <name>          → change nickname",
	"/msg <nick> <text>    → send private message",
	"/dm <nick> <text>     → same as /msg",
	"/history [n]          → show last n messages (default 10)",
	"/history [n] dm       → show last n private messages",
	"/color on / off       → toggle colored output",
	"/quit                 → disconnect",
}

// Interpreter turns one inbound line into registry mutations, history
// operations and outbound lines. It keeps no state of its own between
// lines; everything it mutates lives on the Session or in the Registry.
type Interpreter struct {
	registry  *Registry
	delivery  *Delivery
	history   contract.History
	moderator *moderation.Moderator
	tracker   *observability.Tracker
	log       *slog.Logger
	now       func() time.Time
}

// NewInterpreter wires the interpreter. moderator may be nil to disable
// word masking.
func NewInterpreter(registry *Registry, delivery *Delivery, history contract.History,
	moderator *moderation.Moderator, tracker *observability.Tracker, log *slog.Logger) *Interpreter {
	return &Interpreter{
		registry:  registry,
		delivery:  delivery,
		history:   history,
		moderator: moderator,
		tracker:   tracker,
		log:       log,
		now:       time.Now,
	}
}

// HandleLine parses and dispatches one trimmed, non-empty line from s.
// Validation failures are replies to s only and never surface as errors.
func (i *Interpreter) HandleLine(s *Session, line string) {
	switch cmd := domain.ParseLine(line).(type) {
	case domain.HelpCommand:
		i.handleHelp(s)
	case domain.NickCommand:
		i.handleNick(s, cmd)
	case domain.DirectCommand:
		i.handleDirect(s, cmd)
	case domain.HistoryCommand:
		i.handleHistory(s, cmd)
	case domain.ColorCommand:
		i.handleColor(s, cmd)
	case domain.ChatCommand:
		i.handleChat(s, cmd)
	case domain.UnknownCommand:
		// Unknown verbs stay a silent no-op, matching the wire protocol.
		i.log.Debug("Unknown command ignored", "verb", cmd.Verb, "from", s.Nickname())
	}
}

func (i *Interpreter) handleHelp(s *Session) {
	for _, line := range helpLines {
		i.reply(s, line)
	}
}

func (i *Interpreter) handleNick(s *Session, cmd domain.NickCommand) {
	if cmd.Name == "" {
		i.reply(s, "Usage: /nick NewName")
		return
	}
	if err := domain.ValidateNickname(cmd.Name); err != nil {
		i.reply(s, nicknameProblem(err))
		return
	}

	old := s.Nickname()
	if err := i.registry.Rename(s, cmd.Name); err != nil {
		i.reply(s, "Nickname already in use")
		return
	}

	i.delivery.Broadcast(fmt.Sprintf("* %s is now known as %s", old, cmd.Name), "")
	i.reply(s, "You are now "+cmd.Name)
}

func (i *Interpreter) handleDirect(s *Session, cmd domain.DirectCommand) {
	if cmd.Target == "" || cmd.Text == "" {
		i.reply(s, "Usage: /msg nickname message here")
		return
	}

	targetKey := domain.NicknameKey(cmd.Target)
	if targetKey == s.Key() {
		i.reply(s, "Can't message yourself")
		return
	}
	if _, ok := i.registry.Lookup(targetKey); !ok {
		i.reply(s, cmd.Target+" is not online")
		return
	}

	now := i.now()
	stamp := now.Format("15:04")
	i.reply(s, fmt.Sprintf("[%s] → %s %s", stamp, cmd.Target, cmd.Text))
	i.delivery.SendTo(targetKey, fmt.Sprintf("[%s] ← %s %s", stamp, s.Nickname(), cmd.Text))

	i.append(domain.Message{
		ID:      uuid.New(),
		From:    s.Nickname(),
		To:      lo.ToPtr(cmd.Target),
		Content: cmd.Text,
		At:      now,
	})
}

func (i *Interpreter) handleHistory(s *Session, cmd domain.HistoryCommand) {
	if cmd.Direct {
		rows := i.query(func() ([]domain.Message, error) {
			return i.history.RecentInvolving(s.Nickname(), cmd.Limit)
		})
		i.reply(s, fmt.Sprintf("Recent private messages (%d):", len(rows)))
		for _, m := range rows {
			arrow, who := "←", m.From
			if m.Direct() && domain.NicknameKey(m.From) == s.Key() {
				arrow, who = "→", *m.To
			}
			i.reply(s, fmt.Sprintf("[%s] %s %s %s", m.Stamp(), arrow, who, m.Content))
		}
		return
	}

	rows := i.query(func() ([]domain.Message, error) {
		return i.history.RecentPublic(cmd.Limit)
	})
	i.reply(s, fmt.Sprintf("Recent public messages (%d):", len(rows)))
	for _, m := range rows {
		i.reply(s, fmt.Sprintf("[%s] <%s> %s", m.Stamp(), m.From, m.Content))
	}
}

func (i *Interpreter) handleColor(s *Session, cmd domain.ColorCommand) {
	switch cmd.Arg {
	case "on":
		s.SetColorEnabled(true)
		i.reply(s, "Colored output → enabled")
	case "off":
		s.SetColorEnabled(false)
		i.reply(s, "Colored output → disabled")
	default:
		state := lo.Ternary(s.ColorEnabled(), "on", "off")
		i.reply(s, fmt.Sprintf("Current: %s   Usage: /color on|off", state))
	}
}

func (i *Interpreter) handleChat(s *Session, cmd domain.ChatCommand) {
	if utf8.RuneCountInString(cmd.Text) > domain.MaxChatLength {
		i.reply(s, "Message too long (max ~400 chars)")
		return
	}

	content := cmd.Text
	if i.moderator != nil {
		censored, hits := i.moderator.Censor(content)
		if len(hits) > 0 {
			i.tracker.IncrCensoredMessages()
			info := whatlanggo.Detect(content)
			i.log.Debug("Censored public message",
				"author", s.Nickname(), "words", len(hits), "lang", info.Lang.Iso6391())
			content = censored
		}
	}

	now := i.now()
	i.delivery.Broadcast(fmt.Sprintf("[%s] <%s> %s", now.Format("15:04"), s.Nickname(), content), s.Key())

	i.append(domain.Message{
		ID:      uuid.New(),
		From:    s.Nickname(),
		Content: content,
		At:      now,
	})
}

// append is fire-and-forget: the delivery already happened and is never
// rolled back on a store failure.
func (i *Interpreter) append(msg domain.Message) {
	if err := i.history.Append(msg); err != nil {
		i.log.Error("History append failed", "from", msg.From, "error", err)
	}
}

// query degrades a failing history store to empty results.
func (i *Interpreter) query(fn func() ([]domain.Message, error)) []domain.Message {
	rows, err := fn()
	if err != nil {
		i.log.Error("History query failed", "error", err)
		return nil
	}
	return rows
}

func (i *Interpreter) reply(s *Session, text string) {
	if err := s.Reply(text); err != nil {
		i.tracker.IncrDeliveryFailures()
		i.log.Debug("Reply failed", "recipient", s.Nickname(), "error", err)
	}
}

func nicknameProblem(err error) string {
	if err == errors.ErrNicknameLength {
		return "Nick must be 1-24 characters"
	}
	return "Nick can contain letters, numbers, _, -"
}
