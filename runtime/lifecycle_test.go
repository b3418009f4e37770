package runtime

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hmZa-Sfyn/custom-irc-server/mocks"
	"github.com/hmZa-Sfyn/custom-irc-server/observability"
)

type lifecycleFixture struct {
	lifecycle *Lifecycle
	registry  *Registry
	tracker   *observability.Tracker
}

func newLifecycleFixture(t *testing.T) lifecycleFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	history := mocks.NewMockHistory(ctrl)
	history.EXPECT().Append(gomock.Any()).Return(nil).AnyTimes()

	log := slog.New(slog.DiscardHandler)
	registry := NewRegistry()
	tracker := observability.NewTracker()
	delivery := NewDelivery(registry, tracker, log)
	interpreter := NewInterpreter(registry, delivery, history, nil, tracker, log)
	interpreter.now = func() time.Time { return fixedNow }
	lifecycle := NewLifecycle(registry, delivery, interpreter, tracker, log)
	return lifecycleFixture{lifecycle: lifecycle, registry: registry, tracker: tracker}
}

func TestLifecycle_Greets_Announces_And_Departs(t *testing.T) {
	req := require.New(t)
	f := newLifecycleFixture(t)

	// Given Bob is already in the room
	bobSink := &recordingSink{}
	req.NoError(f.registry.Register(NewSession("Bob", bobSink)))

	// When a connection joins, chats once and hangs up
	aliceSink := &recordingSink{}
	session := f.lifecycle.Run(context.Background(), strings.NewReader("hi all\n"), aliceSink)
	req.NotNil(session)

	// Then the guest got a greeting addressed to its placeholder name
	nick := session.Nickname()
	req.True(strings.HasPrefix(nick, "Guest-"), "nick=%q", nick)
	lines := aliceSink.Lines()
	req.NotEmpty(lines)
	req.Equal(":server 001 "+nick+" :Welcome!", lines[0])
	for _, line := range lines[:len(motd)+1] {
		req.True(strings.HasPrefix(line, ":"), "line=%q", line)
	}

	// And the room heard the whole visit in order
	req.Equal([]string{
		"* " + nick + " has joined the chat",
		"[12:30] <" + nick + "> hi all",
		"* " + nick + " has left",
	}, bobSink.Lines())

	// And the session was fully torn down
	req.True(aliceSink.Closed())
	_, ok := f.registry.Lookup(session.Key())
	req.False(ok)
	req.Equal(uint64(1), f.tracker.Snapshot().SessionsJoined)
	req.Equal(uint64(1), f.tracker.Snapshot().SessionsParted)
}

func TestLifecycle_Blank_Lines_Are_Ignored(t *testing.T) {
	req := require.New(t)
	f := newLifecycleFixture(t)

	bobSink := &recordingSink{}
	req.NoError(f.registry.Register(NewSession("Bob", bobSink)))

	// When the connection only ever sends whitespace
	session := f.lifecycle.Run(context.Background(), strings.NewReader("\n   \n\t\n"), &recordingSink{})
	req.NotNil(session)

	// Then the room saw a join and a leave and nothing in between
	nick := session.Nickname()
	req.Equal([]string{
		"* " + nick + " has joined the chat",
		"* " + nick + " has left",
	}, bobSink.Lines())
}

func TestLifecycle_Disconnect_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newLifecycleFixture(t)

	bobSink := &recordingSink{}
	req.NoError(f.registry.Register(NewSession("Bob", bobSink)))

	session := f.lifecycle.Run(context.Background(), strings.NewReader(""), &recordingSink{})
	req.NotNil(session)

	// When the caller disconnects again after Run already did
	f.lifecycle.Disconnect(session)
	f.lifecycle.Disconnect(session)

	// Then the departure was announced exactly once
	departures := 0
	for _, line := range bobSink.Lines() {
		if strings.Contains(line, "has left") {
			departures++
		}
	}
	req.Equal(1, departures)
	req.Equal(uint64(1), f.tracker.Snapshot().SessionsParted)
}

func TestLifecycle_Rename_Survives_Until_Departure(t *testing.T) {
	req := require.New(t)
	f := newLifecycleFixture(t)

	bobSink := &recordingSink{}
	req.NoError(f.registry.Register(NewSession("Bob", bobSink)))

	// When the guest renames before leaving
	session := f.lifecycle.Run(context.Background(), strings.NewReader("/nick Alice\n"), &recordingSink{})
	req.NotNil(session)

	// Then the departure uses the final name
	lines := bobSink.Lines()
	req.Contains(lines, "* Alice has left")
	_, ok := f.registry.Lookup("alice")
	req.False(ok)
}
