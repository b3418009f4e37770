package e2e

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Participant is one scripted connection to a live relay.
type Participant struct {
	t      *testing.T
	cfg    Config
	conn   net.Conn
	reader *bufio.Reader
}

func Connect(t *testing.T, cfg Config) *Participant {
	t.Helper()
	conn, err := net.Dial("tcp", cfg.ServerAddr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &Participant{t: t, cfg: cfg, conn: conn, reader: bufio.NewReader(conn)}
}

func (p *Participant) Send(line string) {
	p.t.Helper()
	if p.cfg.DebugWire {
		fmt.Printf(">> %s\n", line)
	}
	_, err := p.conn.Write([]byte(line + "\n"))
	require.NoError(p.t, err)
}

// WaitFor reads lines until one contains substr, or fails after 5 seconds.
// Lines read on the way are discarded: broadcasts from other participants
// may interleave freely.
func (p *Participant) WaitFor(substr string) string {
	p.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(p.t, p.conn.SetReadDeadline(deadline))
		raw, err := p.reader.ReadString('\n')
		require.NoError(p.t, err, "waiting for %q", substr)
		line := strings.TrimRight(raw, "\r\n")
		if p.cfg.DebugWire {
			fmt.Printf("<< %s\n", line)
		}
		if strings.Contains(line, substr) {
			return line
		}
	}
}
