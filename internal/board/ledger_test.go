package board

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/retroboard/internal/types"
)

var t0 = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newSession() *types.Session {
	return &types.Session{ID: "abc123", Name: "test", CreatedAt: t0, Timer: types.StoppedTimer()}
}

func appendAll(t *testing.T, l Ledger, pairs ...string) []*types.Item {
	t.Helper()
	var out []*types.Item
	for i := 0; i < len(pairs); i += 2 {
		item, err := l.Append(pairs[i], pairs[i+1], t0)
		require.NoError(t, err)
		out = append(out, item)
	}
	return out
}

func ids(items []*types.Item) []types.ItemID {
	out := make([]types.ItemID, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestAppend(t *testing.T) {
	l := LedgerOf(newSession())

	item, err := l.Append("went-well", "  fast reviews  ", t0)
	require.NoError(t, err)
	assert.Equal(t, types.ItemID(1), item.ID)
	assert.Equal(t, types.WentWell, item.Category)
	assert.Equal(t, "fast reviews", item.Text)
	assert.Equal(t, 0, item.Votes)
	assert.Equal(t, t0, item.CreatedAt)

	second, err := l.Append("ideas", "mob on Fridays", t0)
	require.NoError(t, err)
	assert.Greater(t, second.ID, item.ID)

	list := l.List()
	require.Len(t, list, 2)
	assert.Equal(t, item.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestAppendRejectsBadInput(t *testing.T) {
	s := newSession()
	l := LedgerOf(s)

	_, err := l.Append("kudos", "text", t0)
	assert.True(t, errors.Is(err, ErrInvalidCategory))

	_, err = l.Append("ideas", "   \n\t", t0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	assert.Empty(t, s.Items)
	assert.Equal(t, types.ItemID(0), s.NextItemID, "failed appends must not consume ids")
}

func TestAppendIDsNeverReused(t *testing.T) {
	l := LedgerOf(newSession())
	items := appendAll(t, l, "ideas", "a", "ideas", "b")
	require.NoError(t, l.Delete(items[1].ID))

	next, err := l.Append("ideas", "c", t0)
	require.NoError(t, err)
	assert.Equal(t, types.ItemID(3), next.ID)
}

func TestAppendContinuesFromLegacyIDs(t *testing.T) {
	s := newSession()
	s.Items = []*types.Item{{ID: 1700000000000, Category: types.Ideas, Text: "old"}}
	item, err := LedgerOf(s).Append("ideas", "new", t0)
	require.NoError(t, err)
	assert.Equal(t, types.ItemID(1700000000001), item.ID)
}

func TestVoteNeverNegative(t *testing.T) {
	l := LedgerOf(newSession())
	item := appendAll(t, l, "went-well", "a")[0]

	n, err := l.Vote(item.ID, Down)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	for i := 1; i <= 3; i++ {
		n, err = l.Vote(item.ID, Up)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	for i := 0; i < 5; i++ {
		n, err = l.Vote(item.ID, Down)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
	}
	assert.Equal(t, 0, n)
}

func TestVoteUnknownItem(t *testing.T) {
	l := LedgerOf(newSession())
	_, err := l.Vote(42, Up)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = l.Vote(42, Direction("sideways"))
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("up")
	require.NoError(t, err)
	assert.Equal(t, Up, d)

	_, err = ParseDirection("UP")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEditKeepsIdentity(t *testing.T) {
	l := LedgerOf(newSession())
	item := appendAll(t, l, "ideas", "draft")[0]
	_, err := l.Vote(item.ID, Up)
	require.NoError(t, err)

	require.NoError(t, l.Edit(item.ID, "final"))
	got, err := l.Find(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, 1, got.Votes)

	assert.True(t, errors.Is(l.Edit(item.ID, " "), ErrInvalidInput))
	assert.True(t, errors.Is(l.Edit(99, "x"), ErrNotFound))
	got, _ = l.Find(item.ID)
	assert.Equal(t, "final", got.Text)
}

func TestDeletePreservesOrder(t *testing.T) {
	l := LedgerOf(newSession())
	items := appendAll(t, l, "ideas", "a", "went-well", "b", "ideas", "c")

	require.NoError(t, l.Delete(items[1].ID))
	assert.Equal(t, []types.ItemID{items[0].ID, items[2].ID}, ids(l.List()))

	assert.True(t, errors.Is(l.Delete(items[1].ID), ErrNotFound))
	_, err := l.Vote(items[1].ID, Up)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(l.Edit(items[1].ID, "x"), ErrNotFound))
	assert.True(t, errors.Is(l.Move(items[1].ID, "ideas"), ErrNotFound))
}

func TestMoveKeepsPosition(t *testing.T) {
	l := LedgerOf(newSession())
	items := appendAll(t, l, "went-well", "a", "ideas", "b", "went-well", "c")
	_, err := l.Vote(items[0].ID, Up)
	require.NoError(t, err)

	require.NoError(t, l.Move(items[0].ID, "action-items"))

	list := l.List()
	assert.Equal(t, ids(items), ids(list))
	assert.Equal(t, types.ActionItems, list[0].Category)
	assert.Equal(t, "a", list[0].Text)
	assert.Equal(t, 1, list[0].Votes)

	assert.True(t, errors.Is(l.Move(items[0].ID, "nowhere"), ErrInvalidCategory))
	assert.Equal(t, types.ActionItems, list[0].Category)
}

func TestReorderPermutation(t *testing.T) {
	l := LedgerOf(newSession())
	items := appendAll(t, l,
		"ideas", "i1",
		"went-well", "w1",
		"ideas", "i2",
		"didnt-go-well", "d1",
		"ideas", "i3",
	)
	i1, w1, i2, d1, i3 := items[0], items[1], items[2], items[3], items[4]

	order := []types.ItemID{i3.ID, i1.ID, i2.ID}
	require.NoError(t, l.Reorder("ideas", order))

	var gotIdeas, gotOthers []types.ItemID
	for _, item := range l.List() {
		if item.Category == types.Ideas {
			gotIdeas = append(gotIdeas, item.ID)
		} else {
			gotOthers = append(gotOthers, item.ID)
		}
	}
	assert.Equal(t, order, gotIdeas)
	assert.Equal(t, []types.ItemID{w1.ID, d1.ID}, gotOthers)
	assert.Len(t, l.List(), 5)
}

func TestReorderIgnoresUnknownAndForeignIDs(t *testing.T) {
	l := LedgerOf(newSession())
	items := appendAll(t, l, "ideas", "i1", "went-well", "w1", "ideas", "i2")
	i1, w1, i2 := items[0], items[1], items[2]

	require.NoError(t, l.Reorder("ideas", []types.ItemID{i2.ID, 999, w1.ID, i2.ID}))

	list := l.List()
	require.Len(t, list, 3, "no gaps, no duplicates")
	assert.Equal(t, []types.ItemID{w1.ID, i2.ID, i1.ID}, ids(list))
	assert.Equal(t, types.WentWell, list[0].Category)
}

func TestReorderInvalidCategory(t *testing.T) {
	s := newSession()
	l := LedgerOf(s)
	items := appendAll(t, l, "ideas", "a")
	assert.True(t, errors.Is(l.Reorder("misc", ids(items)), ErrInvalidCategory))
	assert.Len(t, s.Items, 1)
}

func TestListEmptyIsNotNil(t *testing.T) {
	assert.NotNil(t, LedgerOf(newSession()).List())
}
