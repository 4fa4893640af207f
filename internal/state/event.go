package state

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/user/retroboard/internal/types"
)

const maxEventLine = 1 << 20

// EventStore is the JSONL activity log: one sessions/<id>/events.jsonl file
// per session under root. Sequence numbers are counted from the file once
// and then tracked in memory, so only one process should append to a root.
type EventStore struct {
	root string
	logs sync.Map // types.SessionID -> *eventLog
}

type eventLog struct {
	mu     sync.Mutex
	seq    int64
	primed bool
}

func NewEventStore(root string) *EventStore {
	return &EventStore{root: root}
}

func (e *EventStore) log(id types.SessionID) *eventLog {
	l, _ := e.logs.LoadOrStore(id, &eventLog{})
	return l.(*eventLog)
}

func (e *EventStore) dir(id types.SessionID) (string, error) {
	if !types.ValidSessionID(string(id)) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(e.root, "sessions", string(id)), nil
}

func (e *EventStore) path(id types.SessionID) (string, error) {
	dir, err := e.dir(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "events.jsonl"), nil
}

// scan calls fn with every line of the log at path. A missing file has no lines.
func scan(path string, fn func(line []byte) error) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for sc.Scan() {
		if err := fn(sc.Bytes()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan events file: %w", err)
	}
	return nil
}

// prime loads the current line count. Caller holds l.mu.
func (l *eventLog) prime(path string) error {
	if l.primed {
		return nil
	}
	var n int64
	if err := scan(path, func([]byte) error { n++; return nil }); err != nil {
		return err
	}
	l.seq, l.primed = n, true
	return nil
}

// Append writes event at the end of its session's log and assigns its Seq.
func (e *EventStore) Append(_ context.Context, event *types.Event) error {
	path, err := e.path(event.SessionID)
	if err != nil {
		return err
	}
	l := e.log(event.SessionID)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.prime(path); err != nil {
		return err
	}
	event.Seq = l.seq + 1
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	l.seq = event.Seq
	return nil
}

// Tail returns the last limit events in log order; limit <= 0 returns all.
func (e *EventStore) Tail(_ context.Context, id types.SessionID, limit int) ([]*types.Event, error) {
	path, err := e.path(id)
	if err != nil {
		return nil, err
	}
	l := e.log(id)
	l.mu.Lock()
	defer l.mu.Unlock()

	var events []*types.Event
	err = scan(path, func(line []byte) error {
		var ev types.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}
		events = append(events, &ev)
		if limit > 0 && len(events) > limit {
			events = events[1:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (e *EventStore) Count(_ context.Context, id types.SessionID) (int64, error) {
	path, err := e.path(id)
	if err != nil {
		return 0, err
	}
	l := e.log(id)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.prime(path); err != nil {
		return 0, err
	}
	return l.seq, nil
}

// Remove deletes the session's log directory.
func (e *EventStore) Remove(_ context.Context, id types.SessionID) error {
	dir, err := e.dir(id)
	if err != nil {
		return err
	}
	l := e.log(id)
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	l.seq, l.primed = 0, true
	return nil
}
