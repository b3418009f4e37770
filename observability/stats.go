// Package observability aggregates server counters for periodic reporting.
// Counters are updated from hot paths and must stay lock-free.
package observability

import "sync/atomic"

// Stats is the set of cumulative counters the monitor worker reports.
type Stats struct {
	SessionsJoined    uint64
	SessionsParted    uint64
	MessagesBroadcast uint64
	DirectMessages    uint64
	DeliveryFailures  uint64
	CensoredMessages  uint64
}

// Tracker collects Stats from concurrent sessions.
type Tracker struct {
	sessionsJoined    atomic.Uint64
	sessionsParted    atomic.Uint64
	messagesBroadcast atomic.Uint64
	directMessages    atomic.Uint64
	deliveryFailures  atomic.Uint64
	censoredMessages  atomic.Uint64
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) IncrSessionsJoined()    { t.sessionsJoined.Add(1) }
func (t *Tracker) IncrSessionsParted()    { t.sessionsParted.Add(1) }
func (t *Tracker) IncrMessagesBroadcast() { t.messagesBroadcast.Add(1) }
func (t *Tracker) IncrDirectMessages()    { t.directMessages.Add(1) }
func (t *Tracker) IncrDeliveryFailures()  { t.deliveryFailures.Add(1) }
func (t *Tracker) IncrCensoredMessages()  { t.censoredMessages.Add(1) }

// Snapshot returns a point-in-time copy of all counters.
func (t *Tracker) Snapshot() Stats {
	return Stats{
		SessionsJoined:    t.sessionsJoined.Load(),
		SessionsParted:    t.sessionsParted.Load(),
		MessagesBroadcast: t.messagesBroadcast.Load(),
		DirectMessages:    t.directMessages.Load(),
		DeliveryFailures:  t.deliveryFailures.Load(),
		CensoredMessages:  t.censoredMessages.Load(),
	}
}
