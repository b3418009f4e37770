// Package runtime hosts the connected-session state machine: the registry,
// the delivery engine, the command interpreter and the session lifecycle.
// It owns no sockets; transports hand it a reader and a LineSink.
package runtime

import (
	"sync"

	"github.com/hmZa-Sfyn/custom-irc-server/contract"
	"github.com/hmZa-Sfyn/custom-irc-server/domain"
)

// Session is one connected participant. The nickname is read by broadcasts
// running on other sessions' goroutines while the owner may rename, so all
// mutable fields sit behind the session lock.
type Session struct {
	mu           sync.RWMutex
	nickname     string
	key          string
	colorEnabled bool

	sink      contract.LineSink
	closeOnce sync.Once
}

func NewSession(nickname string, sink contract.LineSink) *Session {
	return &Session{
		nickname: nickname,
		key:      domain.NicknameKey(nickname),
		sink:     sink,
	}
}

func (s *Session) Nickname() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nickname
}

// Key returns the case-folded registry key of the current nickname.
func (s *Session) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// setNickname is called by the registry only, inside its rename lock, so
// the registry key and the session view never diverge.
func (s *Session) setNickname(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nickname = nickname
	s.key = domain.NicknameKey(nickname)
}

func (s *Session) ColorEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorEnabled
}

func (s *Session) SetColorEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colorEnabled = enabled
}

func (s *Session) Sink() contract.LineSink {
	return s.sink
}

// Reply sends a direct response to this session. Direct responses carry the
// ':' prefix and are never color-rendered.
func (s *Session) Reply(text string) error {
	return s.sink.WriteLine(":" + text)
}
