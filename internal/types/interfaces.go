package types

import "context"

// Store persists the whole registry document. Save must be atomic: a later
// Load observes either the previous document or the new one, never a mix.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}

type EventStore interface {
	Append(ctx context.Context, event *Event) error
	Tail(ctx context.Context, sessionID SessionID, limit int) ([]*Event, error)
	Count(ctx context.Context, sessionID SessionID) (int64, error)
	Remove(ctx context.Context, sessionID SessionID) error
}
