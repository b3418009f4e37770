// Package server exposes the chat relay over plain TCP. Each accepted
// connection becomes one session served by the runtime lifecycle.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/hmZa-Sfyn/custom-irc-server/runtime"
)

// ChatServer is the accept loop, run as a supervised worker. It does not
// own the listener: the caller binds it up front so a busy port fails the
// process instead of crash-looping under supervision.
type ChatServer struct {
	log          *slog.Logger
	listener     net.Listener
	lifecycle    *runtime.Lifecycle
	writeTimeout time.Duration

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewChatServer(log *slog.Logger, listener net.Listener,
	lifecycle *runtime.Lifecycle, writeTimeout time.Duration) *ChatServer {
	return &ChatServer{
		log:          log,
		listener:     listener,
		lifecycle:    lifecycle,
		writeTimeout: writeTimeout,
		conns:        make(map[net.Conn]struct{}),
	}
}

// Run accepts connections until ctx is cancelled, then closes every live
// connection and waits for their session goroutines to drain.
func (s *ChatServer) Run(ctx context.Context) error {
	s.log.Info("Accepting connections", "address", s.listener.Addr().String())

	go func() {
		<-ctx.Done()
		_ = s.listener.Close()
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.shutdown()
				return nil
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.serve(ctx, conn)
		}()
	}
}

// serve runs one session to completion. The lifecycle owns disconnect
// announcements and closes the sink, which closes conn.
func (s *ChatServer) serve(ctx context.Context, conn net.Conn) {
	s.log.Debug("Connection accepted", "remote", conn.RemoteAddr().String())
	sink := newLineSink(conn, s.writeTimeout)
	s.lifecycle.Run(ctx, conn, sink)
}

func (s *ChatServer) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *ChatServer) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// shutdown closes every tracked connection so blocked readers return,
// then waits for their sessions to announce departure.
func (s *ChatServer) shutdown() {
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("All sessions drained")
}
