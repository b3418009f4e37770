package e2e

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Test_Scenario_Chat_Relay drives a full conversation against a live relay.
// Point E2E_SERVER_ADDR at a running server to enable it.
func Test_Scenario_Chat_Relay(t *testing.T) {
	req := require.New(t)
	cfg, err := LoadConfig()
	req.NoError(err)
	if cfg.ServerAddr == "" {
		t.Skip("E2E_SERVER_ADDR not set")
	}

	// Names are suffixed so reruns against the same server never collide
	suffix := fmt.Sprintf("%d", time.Now().UnixNano()%100000)
	aliceNick := "e2e-alice-" + suffix
	bobNick := "e2e-bob-" + suffix

	// Given two participants with real names
	alice := Connect(t, cfg)
	alice.WaitFor(":server 001 Guest-")
	alice.Send("/nick " + aliceNick)
	alice.WaitFor(":You are now " + aliceNick)

	bob := Connect(t, cfg)
	bob.WaitFor(":server 001 Guest-")
	bob.Send("/nick " + bobNick)
	bob.WaitFor(":You are now " + bobNick)

	// When Alice chats publicly
	alice.Send("hello from the e2e suite " + suffix)
	line := bob.WaitFor("hello from the e2e suite " + suffix)
	req.Contains(line, "<"+aliceNick+">")

	// And messages Bob privately
	alice.Send("/msg " + bobNick + " private ping " + suffix)
	line = bob.WaitFor("private ping " + suffix)
	req.Contains(line, "← "+aliceNick)

	// Then Bob can replay the exchange from history
	bob.Send("/history 50 dm")
	bob.WaitFor(":Recent private messages")
	bob.WaitFor("← " + aliceNick + " private ping " + suffix)

	// And the built-in help is served
	alice.Send("/help")
	alice.WaitFor("/color on / off")
}
