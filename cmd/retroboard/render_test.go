package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/user/retroboard/internal/types"
)

func TestRenderBoardShowsEveryColumn(t *testing.T) {
	s := &types.Session{
		ID:        "abc123",
		Name:      "Sprint 9",
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 0, 0, time.UTC),
		Items: []*types.Item{
			{ID: 1, Category: types.WentWell, Text: "demo", Votes: 3},
			{ID: 2, Category: types.ActionItems, Text: "fix ci", Votes: 0},
		},
		Timer: types.StoppedTimer(),
	}

	out := renderBoard(s, types.TimerView{State: types.TimerStopped})

	for _, want := range []string{"Sprint 9", "abc123", "Went Well", "Didn't Go Well", "Ideas", "Action Items", "demo", "+3", "fix ci", "(empty)", "timer: stopped"} {
		assert.Contains(t, out, want)
	}
}

func TestDescribeTimer(t *testing.T) {
	assert.Equal(t, "stopped", describeTimer(types.TimerView{State: types.TimerStopped}))
	assert.Equal(t, "expired", describeTimer(types.TimerView{State: types.TimerExpired}))
	assert.Equal(t, "paused, 50s left of 1m0s",
		describeTimer(types.TimerView{State: types.TimerPaused, RemainingSeconds: 50, Duration: 60}))
}
