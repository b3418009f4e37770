package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hmZa-Sfyn/custom-irc-server/contract"
	"github.com/hmZa-Sfyn/custom-irc-server/observability"
)

// maxInboundLine bounds the scanner buffer. Chat lines are capped at 400
// characters by the interpreter; this only protects against a peer that
// never sends a newline.
const maxInboundLine = 64 * 1024

var motd = []string{
	"==============================",
	"  Welcome to Simple Chat     ",
	"  /help    → commands        ",
	"  /color on/off → toggle ansi",
	"==============================",
}

// Lifecycle is the thin glue around registry, delivery and interpreter:
// it greets a new connection, runs its read loop and guarantees exactly
// one departure per session.
type Lifecycle struct {
	registry    *Registry
	delivery    *Delivery
	interpreter *Interpreter
	tracker     *observability.Tracker
	log         *slog.Logger
}

func NewLifecycle(registry *Registry, delivery *Delivery, interpreter *Interpreter,
	tracker *observability.Tracker, log *slog.Logger) *Lifecycle {
	return &Lifecycle{
		registry:    registry,
		delivery:    delivery,
		interpreter: interpreter,
		tracker:     tracker,
		log:         log,
	}
}

// Run serves one connection until its reader ends or ctx is cancelled.
// The caller owns the transport; Run only ever touches it through r and
// sink. Disconnect handling is idempotent, so the caller may also invoke
// Disconnect from its own shutdown path.
func (l *Lifecycle) Run(ctx context.Context, r io.Reader, sink contract.LineSink) *Session {
	session := l.register(sink)
	if session == nil {
		_ = sink.Close()
		return nil
	}
	defer l.Disconnect(session)

	l.tracker.IncrSessionsJoined()
	l.log.Info("Session connected", "nick", session.Nickname())

	l.greet(session)
	l.delivery.Broadcast(fmt.Sprintf("* %s has joined the chat", session.Nickname()), "")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxInboundLine)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return session
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		l.interpreter.HandleLine(session, line)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		l.log.Debug("Session read ended", "nick", session.Nickname(), "error", err)
	}
	return session
}

// register claims a unique placeholder nickname. The suffix makes a
// first-contact collision between simultaneous connects practically
// impossible; a few retries cover the rest.
func (l *Lifecycle) register(sink contract.LineSink) *Session {
	for attempt := 0; attempt < 5; attempt++ {
		session := NewSession(guestNickname(), sink)
		if err := l.registry.Register(session); err == nil {
			return session
		}
	}
	l.log.Error("Could not allocate a guest nickname")
	return nil
}

// Disconnect deregisters the session and announces the departure exactly
// once, however many code paths call it.
func (l *Lifecycle) Disconnect(s *Session) {
	s.closeOnce.Do(func() {
		l.registry.Unregister(s.Key())
		l.tracker.IncrSessionsParted()
		_ = s.Sink().Close()
		l.delivery.Broadcast(fmt.Sprintf("* %s has left", s.Nickname()), "")
		l.log.Info("Session disconnected", "nick", s.Nickname())
	})
}

func (l *Lifecycle) greet(s *Session) {
	lines := append([]string{fmt.Sprintf("server 001 %s :Welcome!", s.Nickname())}, motd...)
	for _, line := range lines {
		if err := s.Reply(line); err != nil {
			l.log.Debug("Greeting failed", "nick", s.Nickname(), "error", err)
			return
		}
	}
}

func guestNickname() string {
	return "Guest-" + uuid.NewString()[:4]
}
