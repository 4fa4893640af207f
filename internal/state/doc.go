// Package state provides the storage implementations behind the board
// registry: whole-document stores and the per-session activity log.
package state

import "github.com/user/retroboard/internal/types"

// Compile-time interface compliance checks.
var _ types.Store = (*FileStore)(nil)
var _ types.Store = (*SQLiteStore)(nil)
var _ types.Store = (*MemoryStore)(nil)
var _ types.EventStore = (*EventStore)(nil)
