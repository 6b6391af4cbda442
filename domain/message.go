// Package domain contains the records handed out by the stores.
// This file defines Messages: broadcast posts and direct messages share one shape.
package domain

// MaxMessageLength is counted in runes, after trimming.
const MaxMessageLength = 140

// Message is a short text post. Flag is only ever raised by an explicit flag call.
type Message struct {
	ID      string
	Message string
	Flag    bool
	From    string
	To      string
}

// IsDirect reports whether the message was sent from one user to another.
func (m Message) IsDirect() bool {
	return m.From != "" && m.To != ""
}
