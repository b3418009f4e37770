package server

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLineSink_Frames_With_CRLF(t *testing.T) {
	req := require.New(t)
	client, srv := net.Pipe()
	defer client.Close()

	sink := newLineSink(srv, time.Second)
	go func() {
		_ = sink.WriteLine("hello there")
	}()

	reader := bufio.NewReader(client)
	line, err := reader.ReadString('\n')
	req.NoError(err)
	req.Equal("hello there\r\n", line)
}

func TestLineSink_Serializes_Concurrent_Writers(t *testing.T) {
	req := require.New(t)
	client, srv := net.Pipe()
	defer client.Close()

	sink := newLineSink(srv, time.Second)

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = sink.WriteLine(fmt.Sprintf("line-%02d", n))
		}(i)
	}

	// Every line must arrive whole, whatever the interleaving
	reader := bufio.NewReader(client)
	seen := make(map[string]bool)
	for i := 0; i < writers; i++ {
		raw, err := reader.ReadString('\n')
		req.NoError(err)
		line := strings.TrimRight(raw, "\r\n")
		req.Regexp(`^line-\d{2}$`, line)
		seen[line] = true
	}
	wg.Wait()
	req.Len(seen, writers)
}

func TestLineSink_Write_Times_Out_On_A_Stuck_Peer(t *testing.T) {
	req := require.New(t)
	client, srv := net.Pipe()
	defer client.Close()

	// Nobody ever reads from client, so the pipe write must hit the deadline
	sink := newLineSink(srv, 50*time.Millisecond)
	err := sink.WriteLine("anyone listening?")
	req.Error(err)
}

func TestLineSink_Close_Closes_The_Connection(t *testing.T) {
	req := require.New(t)
	client, srv := net.Pipe()
	defer client.Close()

	sink := newLineSink(srv, time.Second)
	req.NoError(sink.Close())
	req.Error(sink.WriteLine("after close"))
}
