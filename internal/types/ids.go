// internal/types/ids.go
package types

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

type SessionID string
type ItemID int64
type EventID string

// SessionIDLength is the number of characters in a generated session code.
const SessionIDLength = 6

const sessionAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSessionID returns a short, shareable session code.
func NewSessionID() (SessionID, error) {
	buf := make([]byte, SessionIDLength)
	max := big.NewInt(int64(len(sessionAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = sessionAlphabet[n.Int64()]
	}
	return SessionID(buf), nil
}

// ValidSessionID reports whether s has the shape of a generated session code.
func ValidSessionID(s string) bool {
	if len(s) != SessionIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func NewEventID() EventID {
	return EventID(uuid.New().String())
}
