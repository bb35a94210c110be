package storage

import (
	"context"

	"github.com/hafiz/handyman-marketplace/pkg/models"
)

// MessageWriter persists system messages drained from the notification queue.
// Only the notifier worker writes here.
type MessageWriter interface {
	// AppendSystemMessage durably stores one conversation message. Writes are
	// idempotent on the message ID so queue redeliveries are harmless.
	AppendSystemMessage(ctx context.Context, msg *models.SystemMessage) error
}

// Storage defines the root interface for the entire data layer. Components
// should depend on the more granular interfaces instead of this one.
type Storage interface {
	ProjectStore
	OfferStore
	LedgerStore
	MessageWriter
}
