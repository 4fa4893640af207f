// internal/types/models.go
package types

import (
	"encoding/json"
	"time"
)

// Item is a single feedback note within a session.
type Item struct {
	ID        ItemID    `json:"id" yaml:"id"`
	Category  Category  `json:"category" yaml:"category"`
	Text      string    `json:"text" yaml:"text"`
	Votes     int       `json:"votes" yaml:"votes"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

type TimerState string

const (
	TimerStopped TimerState = "stopped"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
	TimerExpired TimerState = "expired"
)

// Timer is the per-session countdown. It holds timestamps only; remaining time
// is always derived from the clock at the moment of a transition or read.
type Timer struct {
	Duration         int        `json:"duration"`
	StartTime        *time.Time `json:"startTime,omitempty"`
	PausedAt         *time.Time `json:"pausedAt,omitempty"`
	RemainingSeconds *int       `json:"remainingSeconds,omitempty"`
	State            TimerState `json:"state"`
}

// StoppedTimer returns the zero-state timer every new session starts with.
func StoppedTimer() Timer {
	return Timer{State: TimerStopped}
}

// TimerView is a read-only snapshot of a timer as of a given instant.
type TimerView struct {
	State            TimerState `json:"state"`
	Duration         int        `json:"duration"`
	RemainingSeconds int        `json:"remainingSeconds"`
	StartTime        *time.Time `json:"startTime,omitempty"`
	PausedAt         *time.Time `json:"pausedAt,omitempty"`
	Now              time.Time  `json:"now"`
}

// Session is one retrospective board. It exclusively owns its items and timer.
type Session struct {
	ID         SessionID `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	Items      []*Item   `json:"items"`
	Timer      Timer     `json:"timer"`
	NextItemID ItemID    `json:"nextItemId"`
}

// SessionSummary is the administrative listing row for a session.
type SessionSummary struct {
	ID        SessionID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	ItemCount int       `json:"itemCount"`
}

// Document is the whole persisted registry: every session keyed by id.
type Document struct {
	Sessions map[SessionID]*Session `json:"sessions"`
}

// NewDocument returns an empty document ready for use.
func NewDocument() *Document {
	return &Document{Sessions: make(map[SessionID]*Session)}
}

// Event is one entry of a session's activity log.
type Event struct {
	ID        EventID         `json:"id"`
	SessionID SessionID       `json:"session_id"`
	Seq       int64           `json:"seq"`
	Type      string          `json:"type"`
	At        time.Time       `json:"at"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
