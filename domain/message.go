// Package domain contains core concepts of the chat relay.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxChatLength caps public chat lines, in runes. Command lines are not
// subject to it.
const MaxChatLength = 400

// Message represents one chat event, public or directed.
// To is nil for public room messages.
type Message struct {
	ID      uuid.UUID
	From    string
	To      *string
	Content string
	At      time.Time
}

// Direct reports whether the message was sent to a single recipient.
func (m Message) Direct() bool {
	return m.To != nil
}

// Stamp formats the message time the way every outbound line shows it.
func (m Message) Stamp() string {
	return m.At.Format("15:04")
}
