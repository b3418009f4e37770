package runtime

import (
	"log/slog"

	"github.com/hmZa-Sfyn/custom-irc-server/observability"
)

// Delivery fans rendered lines out to registered sessions. It never holds
// the registry lock while writing: a snapshot is taken first, then each
// recipient is written to in turn, so one slow or broken connection cannot
// stall the registry or the other recipients.
type Delivery struct {
	registry *Registry
	tracker  *observability.Tracker
	log      *slog.Logger
}

func NewDelivery(registry *Registry, tracker *observability.Tracker, log *slog.Logger) *Delivery {
	return &Delivery{registry: registry, tracker: tracker, log: log}
}

// Broadcast writes text to every session except the one matching skipKey
// (already case-folded; empty means no skip). A write failure is isolated
// to its recipient: the session stays registered and its own read loop
// performs the cleanup. Broadcast as a whole never fails.
func (d *Delivery) Broadcast(text string, skipKey string) {
	for _, s := range d.registry.Snapshot() {
		if skipKey != "" && s.Key() == skipKey {
			continue
		}
		if err := s.Sink().WriteLine(Render(s, text)); err != nil {
			d.tracker.IncrDeliveryFailures()
			d.log.Warn("Delivery failed", "recipient", s.Nickname(), "error", err)
		}
	}
	d.tracker.IncrMessagesBroadcast()
}

// SendTo writes text to the single session holding key. The returned flag
// only reflects whether a recipient was found; write errors are logged and
// the delivery is still counted as best-effort.
func (d *Delivery) SendTo(key, text string) bool {
	s, ok := d.registry.Lookup(key)
	if !ok {
		return false
	}
	if err := s.Sink().WriteLine(Render(s, text)); err != nil {
		d.tracker.IncrDeliveryFailures()
		d.log.Warn("Delivery failed", "recipient", s.Nickname(), "error", err)
	}
	d.tracker.IncrDirectMessages()
	return true
}
