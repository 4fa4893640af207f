package board

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/retroboard/internal/types"
)

// maxIDAttempts bounds how many fresh codes Create draws before giving up.
const maxIDAttempts = 16

// Observer is told the outcome of every registry operation.
type Observer func(op string, err error)

// Registry owns the lifecycle of sessions and routes item and timer operations
// to them. Each mutation is one load, modify, save cycle against the Store.
// Cycles are serialized within the process by a single mutex; separate
// processes sharing one store still race and the last save wins.
type Registry struct {
	store     types.Store
	events    types.EventStore
	adminCode string
	logger    *zap.Logger
	now       func() time.Time
	observe   Observer

	mu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithEventStore enables the per-session activity log.
func WithEventStore(events types.EventStore) Option {
	return func(r *Registry) { r.events = events }
}

// WithAdminCode sets the capability that List and Delete compare against.
// An empty code disables both.
func WithAdminCode(code string) Option {
	return func(r *Registry) { r.adminCode = code }
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func WithObserver(fn Observer) Option {
	return func(r *Registry) { r.observe = fn }
}

// NewRegistry creates a Registry persisting through store.
func NewRegistry(store types.Store, opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) finish(op string, sessionID types.SessionID, err error) {
	if r.observe != nil {
		r.observe(op, err)
	}
	if err == nil {
		r.logger.Debug("board operation", zap.String("op", op), zap.String("session_id", string(sessionID)))
		return
	}
	if KindOf(err) == KindInternal {
		r.logger.Error("board operation failed", zap.String("op", op), zap.String("session_id", string(sessionID)), zap.Error(err))
	}
}

func (r *Registry) load(ctx context.Context, op string) (*types.Document, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, &Error{Kind: KindInternal, Op: op, Msg: "load store", Err: err}
	}
	if doc.Sessions == nil {
		doc.Sessions = make(map[types.SessionID]*types.Session)
	}
	return doc, nil
}

func (r *Registry) save(ctx context.Context, op string, doc *types.Document) error {
	if err := r.store.Save(ctx, doc); err != nil {
		return &Error{Kind: KindInternal, Op: op, Msg: "save store", Err: err}
	}
	return nil
}

func lookup(doc *types.Document, op string, id types.SessionID) (*types.Session, error) {
	s, ok := doc.Sessions[id]
	if !ok {
		return nil, newError(KindNotFound, op, "session %s not found", id)
	}
	return s, nil
}

// mutate runs fn against the session inside one critical section and saves
// the whole document only if fn succeeds. On failure the loaded copy is
// discarded, so the store never sees a partial update.
func (r *Registry) mutate(ctx context.Context, op string, id types.SessionID, fn func(s *types.Session, now time.Time) (any, error)) (err error) {
	defer func() { r.finish(op, id, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx, op)
	if err != nil {
		return err
	}
	s, err := lookup(doc, op, id)
	if err != nil {
		return err
	}
	now := r.now()
	payload, err := fn(s, now)
	if err != nil {
		return err
	}
	if err := r.save(ctx, op, doc); err != nil {
		return err
	}
	r.record(ctx, id, op, now, payload)
	return nil
}

// view runs fn against a freshly loaded session without saving.
func (r *Registry) view(ctx context.Context, op string, id types.SessionID, fn func(s *types.Session, now time.Time) error) (err error) {
	defer func() { r.finish(op, id, err) }()

	r.mu.Lock()
	doc, err := r.load(ctx, op)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	s, err := lookup(doc, op, id)
	if err != nil {
		return err
	}
	return fn(s, r.now())
}

// record appends to the activity log. Log failures never fail the operation.
func (r *Registry) record(ctx context.Context, id types.SessionID, op string, at time.Time, payload any) {
	if r.events == nil {
		return
	}
	event := &types.Event{
		ID:        types.NewEventID(),
		SessionID: id,
		Type:      op,
		At:        at,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			r.logger.Warn("marshal event payload", zap.String("op", op), zap.Error(err))
		} else {
			event.Payload = data
		}
	}
	if err := r.events.Append(ctx, event); err != nil {
		r.logger.Warn("append activity event", zap.String("session_id", string(id)), zap.String("op", op), zap.Error(err))
	}
}

func (r *Registry) authorize(op, code string) error {
	if r.adminCode == "" || subtle.ConstantTimeCompare([]byte(r.adminCode), []byte(code)) != 1 {
		return newError(KindUnauthorized, op, "invalid admin code")
	}
	return nil
}

// DefaultSessionName is the display name given to a session created without one.
func DefaultSessionName(id types.SessionID) string {
	return "Retrospective " + strings.ToUpper(string(id))
}

// Create starts a new session with no items and a stopped timer.
func (r *Registry) Create(ctx context.Context, name string) (_ *types.Session, err error) {
	const op = "session.create"
	var id types.SessionID
	defer func() { r.finish(op, id, err) }()

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx, op)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		if attempt == maxIDAttempts {
			return nil, &Error{Kind: KindInternal, Op: op, Msg: "could not allocate a unique session id"}
		}
		candidate, err := types.NewSessionID()
		if err != nil {
			return nil, &Error{Kind: KindInternal, Op: op, Msg: "generate session id", Err: err}
		}
		if _, taken := doc.Sessions[candidate]; !taken {
			id = candidate
			break
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSessionName(id)
	}
	now := r.now()
	s := &types.Session{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		Items:     []*types.Item{},
		Timer:     types.StoppedTimer(),
	}
	doc.Sessions[id] = s

	if err := r.save(ctx, op, doc); err != nil {
		return nil, err
	}
	r.record(ctx, id, op, now, map[string]string{"name": name})
	return s, nil
}

// Get returns the session with the given id.
func (r *Registry) Get(ctx context.Context, id types.SessionID) (*types.Session, error) {
	var out *types.Session
	err := r.view(ctx, "session.get", id, func(s *types.Session, _ time.Time) error {
		out = s
		return nil
	})
	return out, err
}

// GetWithTimer returns the session together with its countdown as seen from
// the same load.
func (r *Registry) GetWithTimer(ctx context.Context, id types.SessionID) (*types.Session, types.TimerView, error) {
	var (
		out  *types.Session
		view types.TimerView
	)
	err := r.view(ctx, "session.get", id, func(s *types.Session, now time.Time) error {
		out = s
		view = CountdownOf(&s.Timer).View(now)
		return nil
	})
	return out, view, err
}

// List summarizes every session, newest first.
func (r *Registry) List(ctx context.Context, adminCode string) (_ []types.SessionSummary, err error) {
	const op = "session.list"
	defer func() { r.finish(op, "", err) }()

	if err := r.authorize(op, adminCode); err != nil {
		return nil, err
	}

	r.mu.Lock()
	doc, err := r.load(ctx, op)
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]types.SessionSummary, 0, len(doc.Sessions))
	for _, s := range doc.Sessions {
		out = append(out, types.SessionSummary{
			ID:        s.ID,
			Name:      s.Name,
			CreatedAt: s.CreatedAt,
			ItemCount: len(s.Items),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a session together with its items, timer and activity log.
func (r *Registry) Delete(ctx context.Context, id types.SessionID, adminCode string) (err error) {
	const op = "session.delete"
	defer func() { r.finish(op, id, err) }()

	if err := r.authorize(op, adminCode); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx, op)
	if err != nil {
		return err
	}
	if _, err := lookup(doc, op, id); err != nil {
		return err
	}
	delete(doc.Sessions, id)
	if err := r.save(ctx, op, doc); err != nil {
		return err
	}

	if r.events != nil {
		if err := r.events.Remove(ctx, id); err != nil {
			r.logger.Warn("remove activity log", zap.String("session_id", string(id)), zap.Error(err))
		}
	}
	return nil
}

// Document returns the whole registry as currently stored.
func (r *Registry) Document(ctx context.Context) (*types.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx, "document")
}

// AppendItem adds a note to a session and returns it with its new id.
func (r *Registry) AppendItem(ctx context.Context, id types.SessionID, category, text string) (*types.Item, error) {
	var out *types.Item
	err := r.mutate(ctx, "item.create", id, func(s *types.Session, now time.Time) (any, error) {
		item, err := LedgerOf(s).Append(category, text, now)
		if err != nil {
			return nil, err
		}
		out = item
		return item, nil
	})
	return out, err
}

// Vote applies an up or down vote and returns the item's new count.
func (r *Registry) Vote(ctx context.Context, id types.SessionID, itemID types.ItemID, dir Direction) (int, error) {
	var votes int
	err := r.mutate(ctx, "item.vote", id, func(s *types.Session, _ time.Time) (any, error) {
		n, err := LedgerOf(s).Vote(itemID, dir)
		if err != nil {
			return nil, err
		}
		votes = n
		return map[string]any{"id": itemID, "action": dir, "votes": n}, nil
	})
	return votes, err
}

func (r *Registry) EditItem(ctx context.Context, id types.SessionID, itemID types.ItemID, text string) error {
	return r.mutate(ctx, "item.edit", id, func(s *types.Session, _ time.Time) (any, error) {
		if err := LedgerOf(s).Edit(itemID, text); err != nil {
			return nil, err
		}
		return map[string]any{"id": itemID}, nil
	})
}

func (r *Registry) DeleteItem(ctx context.Context, id types.SessionID, itemID types.ItemID) error {
	return r.mutate(ctx, "item.delete", id, func(s *types.Session, _ time.Time) (any, error) {
		if err := LedgerOf(s).Delete(itemID); err != nil {
			return nil, err
		}
		return map[string]any{"id": itemID}, nil
	})
}

func (r *Registry) MoveItem(ctx context.Context, id types.SessionID, itemID types.ItemID, category string) error {
	return r.mutate(ctx, "item.move", id, func(s *types.Session, _ time.Time) (any, error) {
		if err := LedgerOf(s).Move(itemID, category); err != nil {
			return nil, err
		}
		return map[string]any{"id": itemID, "category": category}, nil
	})
}

func (r *Registry) Reorder(ctx context.Context, id types.SessionID, category string, order []types.ItemID) error {
	return r.mutate(ctx, "item.reorder", id, func(s *types.Session, _ time.Time) (any, error) {
		if err := LedgerOf(s).Reorder(category, order); err != nil {
			return nil, err
		}
		return map[string]any{"category": category, "order": order}, nil
	})
}

// Items returns the session's items in stored order.
func (r *Registry) Items(ctx context.Context, id types.SessionID) ([]*types.Item, error) {
	var out []*types.Item
	err := r.view(ctx, "item.list", id, func(s *types.Session, _ time.Time) error {
		out = LedgerOf(s).List()
		return nil
	})
	return out, err
}

func (r *Registry) timerOp(ctx context.Context, op string, id types.SessionID, fn func(c Countdown, now time.Time) error) (types.TimerView, error) {
	var out types.TimerView
	err := r.mutate(ctx, op, id, func(s *types.Session, now time.Time) (any, error) {
		c := CountdownOf(&s.Timer)
		if err := fn(c, now); err != nil {
			return nil, err
		}
		out = c.View(now)
		return s.Timer, nil
	})
	return out, err
}

func (r *Registry) StartTimer(ctx context.Context, id types.SessionID, seconds int) (types.TimerView, error) {
	return r.timerOp(ctx, "timer.start", id, func(c Countdown, now time.Time) error {
		return c.Start(seconds, now)
	})
}

func (r *Registry) PauseTimer(ctx context.Context, id types.SessionID) (types.TimerView, error) {
	return r.timerOp(ctx, "timer.pause", id, func(c Countdown, now time.Time) error {
		return c.Pause(now)
	})
}

func (r *Registry) ResumeTimer(ctx context.Context, id types.SessionID) (types.TimerView, error) {
	return r.timerOp(ctx, "timer.resume", id, func(c Countdown, now time.Time) error {
		return c.Resume(now)
	})
}

func (r *Registry) ResetTimer(ctx context.Context, id types.SessionID) (types.TimerView, error) {
	return r.timerOp(ctx, "timer.reset", id, func(c Countdown, _ time.Time) error {
		c.Reset()
		return nil
	})
}

// Timer reports the session's timer as of now. It never persists anything.
func (r *Registry) Timer(ctx context.Context, id types.SessionID) (types.TimerView, error) {
	var out types.TimerView
	err := r.view(ctx, "timer.get", id, func(s *types.Session, now time.Time) error {
		out = CountdownOf(&s.Timer).View(now)
		return nil
	})
	return out, err
}

// Events tails the session's activity log.
func (r *Registry) Events(ctx context.Context, id types.SessionID, limit int) ([]*types.Event, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if r.events == nil {
		return []*types.Event{}, nil
	}
	events, err := r.events.Tail(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("tail activity log: %w", err)
	}
	if events == nil {
		events = []*types.Event{}
	}
	return events, nil
}
