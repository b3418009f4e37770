package server

import (
	"net"
	"sync"
	"time"
)

// lineSink adapts one TCP connection to the outbound line contract.
// Writes append CRLF and are serialized: several sessions broadcasting at
// once may target the same connection.
type lineSink struct {
	mu           sync.Mutex
	conn         net.Conn
	writeTimeout time.Duration
}

func newLineSink(conn net.Conn, writeTimeout time.Duration) *lineSink {
	return &lineSink{conn: conn, writeTimeout: writeTimeout}
}

// WriteLine sends one line framed with CRLF. A slow or dead peer trips the
// write deadline instead of blocking the sender forever.
func (s *lineSink) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	_, err := s.conn.Write([]byte(line + "\r\n"))
	return err
}

func (s *lineSink) Close() error {
	return s.conn.Close()
}
