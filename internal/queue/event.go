// Package queue defines message payloads exchanged over the message broker.
package queue

// EmailEvent is published after a booking or tournament state change
// commits.  It carries the fully rendered message so the consumer can
// deliver it without touching the primary database.  Email dispatch is
// best-effort: a lost or undeliverable event never affects the state
// transition that produced it.
type EmailEvent struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body,omitempty"`
}
