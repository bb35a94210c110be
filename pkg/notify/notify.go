// Package notify posts human-readable system messages into the conversation
// between a project's parties after every externally-visible transition.
// Delivery is best-effort: the authoritative state change never rolls back or
// blocks on a notification failure.
package notify

import (
	"context"
	"sort"
	"strings"
	"time"
)

// Message is the payload queued for the notifier worker.
type Message struct {
	Id              string            `json:"id"`
	ConversationKey string            `json:"conversationKey"`
	Text            string            `json:"text"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	SentAt          time.Time         `json:"sentAt"`
}

// Sink delivers one system message to a conversation.
type Sink interface {
	PostSystemMessage(ctx context.Context, conversationKey, text string, metadata map[string]string) error
}

// ConversationKey derives the conversation identifier from the two
// participant ids. Sorting makes the key independent of who initiates.
func ConversationKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// NoopSink drops every message. Used in tests and tooling.
type NoopSink struct{}

// PostSystemMessage does nothing.
func (NoopSink) PostSystemMessage(ctx context.Context, conversationKey, text string, metadata map[string]string) error {
	return nil
}
