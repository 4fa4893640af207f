package board

import (
	"strings"
	"time"

	"github.com/user/retroboard/internal/types"
)

// Direction is the sense of a vote.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	}
	return "", newError(KindInvalidInput, "vote", "unknown vote action %q", s)
}

// Ledger operates on the ordered item sequence of one session. Every method
// validates its inputs before touching the session, so a failed call leaves
// the session exactly as it was.
type Ledger struct {
	s *types.Session
}

// LedgerOf wraps s. The ledger mutates s in place.
func LedgerOf(s *types.Session) Ledger {
	return Ledger{s: s}
}

func parseCategory(op, raw string) (types.Category, error) {
	c, err := types.ParseCategory(raw)
	if err != nil {
		return "", &Error{Kind: KindInvalidCategory, Op: op, Msg: err.Error()}
	}
	return c, nil
}

func cleanText(op, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newError(KindInvalidInput, op, "text must not be empty")
	}
	return text, nil
}

func (l Ledger) index(op string, id types.ItemID) (int, error) {
	for i, item := range l.s.Items {
		if item.ID == id {
			return i, nil
		}
	}
	return -1, newError(KindNotFound, op, "item %d not found", id)
}

// Append adds a new zero-vote item at the end of the sequence.
func (l Ledger) Append(category, text string, now time.Time) (*types.Item, error) {
	c, err := parseCategory("append", category)
	if err != nil {
		return nil, err
	}
	text, err = cleanText("append", text)
	if err != nil {
		return nil, err
	}

	// Documents written before the counter existed fall back to the largest id in use.
	if l.s.NextItemID == 0 {
		for _, item := range l.s.Items {
			if item.ID > l.s.NextItemID {
				l.s.NextItemID = item.ID
			}
		}
	}
	l.s.NextItemID++

	item := &types.Item{
		ID:        l.s.NextItemID,
		Category:  c,
		Text:      text,
		Votes:     0,
		CreatedAt: now,
	}
	l.s.Items = append(l.s.Items, item)
	return item, nil
}

// Vote applies one vote and returns the new count. Down votes floor at zero.
func (l Ledger) Vote(id types.ItemID, dir Direction) (int, error) {
	if dir != Up && dir != Down {
		return 0, newError(KindInvalidInput, "vote", "unknown vote action %q", dir)
	}
	i, err := l.index("vote", id)
	if err != nil {
		return 0, err
	}
	item := l.s.Items[i]
	switch dir {
	case Up:
		item.Votes++
	case Down:
		if item.Votes > 0 {
			item.Votes--
		}
	}
	return item.Votes, nil
}

// Edit replaces the text of an item, keeping its id, votes and position.
func (l Ledger) Edit(id types.ItemID, text string) error {
	text, err := cleanText("edit", text)
	if err != nil {
		return err
	}
	i, err := l.index("edit", id)
	if err != nil {
		return err
	}
	l.s.Items[i].Text = text
	return nil
}

// Delete removes an item, preserving the order of the rest.
func (l Ledger) Delete(id types.ItemID) error {
	i, err := l.index("delete", id)
	if err != nil {
		return err
	}
	l.s.Items = append(l.s.Items[:i], l.s.Items[i+1:]...)
	return nil
}

// Move reassigns an item's category without changing its position.
func (l Ledger) Move(id types.ItemID, category string) error {
	i, err := l.index("move", id)
	if err != nil {
		return err
	}
	c, err := parseCategory("move", category)
	if err != nil {
		return err
	}
	l.s.Items[i].Category = c
	return nil
}

// Reorder rewrites the order of one category. Items of other categories keep
// their relative order and come first; the category's items follow in the
// order given by ids. Ids that are not current members of the category, and
// repeats, are ignored. Members missing from ids are kept, after the listed
// ones, in their previous relative order.
func (l Ledger) Reorder(category string, ids []types.ItemID) error {
	c, err := parseCategory("reorder", category)
	if err != nil {
		return err
	}

	var unchanged, members []*types.Item
	byID := make(map[types.ItemID]*types.Item)
	for _, item := range l.s.Items {
		if item.Category == c {
			members = append(members, item)
			byID[item.ID] = item
		} else {
			unchanged = append(unchanged, item)
		}
	}

	reordered := make([]*types.Item, 0, len(members))
	placed := make(map[types.ItemID]bool, len(members))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		reordered = append(reordered, item)
	}
	for _, item := range members {
		if !placed[item.ID] {
			reordered = append(reordered, item)
		}
	}

	l.s.Items = append(unchanged, reordered...)
	return nil
}

// List returns the items in stored order.
func (l Ledger) List() []*types.Item {
	if l.s.Items == nil {
		return []*types.Item{}
	}
	return l.s.Items
}

// Find returns the item with the given id.
func (l Ledger) Find(id types.ItemID) (*types.Item, error) {
	i, err := l.index("find", id)
	if err != nil {
		return nil, err
	}
	return l.s.Items[i], nil
}
