package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionID(t *testing.T) {
	id, err := NewSessionID()
	require.NoError(t, err)
	assert.Len(t, string(id), SessionIDLength)
	assert.True(t, ValidSessionID(string(id)), "generated id %q should validate", id)
}

func TestNewSessionIDVaries(t *testing.T) {
	seen := make(map[SessionID]bool)
	for i := 0; i < 50; i++ {
		id, err := NewSessionID()
		require.NoError(t, err)
		seen[id] = true
	}
	// 36^6 codes; fifty draws colliding down to a handful would mean a broken source.
	assert.Greater(t, len(seen), 45)
}

func TestValidSessionID(t *testing.T) {
	assert.True(t, ValidSessionID("abc123"))
	assert.False(t, ValidSessionID("ABC123"))
	assert.False(t, ValidSessionID("abc12"))
	assert.False(t, ValidSessionID("../etc"))
}

func TestNewEventID(t *testing.T) {
	id := NewEventID()
	assert.Len(t, string(id), 36)
}
