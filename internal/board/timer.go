package board

import (
	"time"

	"github.com/user/retroboard/internal/types"
)

// Bounds on a countdown length, in seconds.
const (
	MinTimerSeconds = 1
	MaxTimerSeconds = 7200
)

// Countdown drives a session timer through stopped, running, paused and
// expired. Nothing runs in the background: every transition derives the
// remaining time from the instant it is called with, so expiry is only
// noticed when a transition (chiefly Pause) happens after the deadline.
type Countdown struct {
	t *types.Timer
}

// CountdownOf wraps t. Transitions mutate t in place.
func CountdownOf(t *types.Timer) Countdown {
	return Countdown{t: t}
}

// Start (re)starts the countdown from any state.
func (c Countdown) Start(seconds int, now time.Time) error {
	if seconds < MinTimerSeconds || seconds > MaxTimerSeconds {
		return newError(KindInvalidDuration, "timer start",
			"duration must be between %d and %d seconds, got %d", MinTimerSeconds, MaxTimerSeconds, seconds)
	}
	start := now
	*c.t = types.Timer{
		Duration:  seconds,
		StartTime: &start,
		State:     types.TimerRunning,
	}
	return nil
}

// Pause freezes a running countdown. A countdown found past its deadline
// becomes expired instead of paused.
func (c Countdown) Pause(now time.Time) error {
	if c.t.State != types.TimerRunning || c.t.StartTime == nil {
		return newError(KindInvalidTransition, "timer pause", "cannot pause a %s timer", c.t.State)
	}
	remaining := c.remaining(now)
	if remaining <= 0 {
		zero := 0
		*c.t = types.Timer{
			Duration:         c.t.Duration,
			RemainingSeconds: &zero,
			State:            types.TimerExpired,
		}
		return nil
	}
	pausedAt := now
	*c.t = types.Timer{
		Duration:         c.t.Duration,
		PausedAt:         &pausedAt,
		RemainingSeconds: &remaining,
		State:            types.TimerPaused,
	}
	return nil
}

// Resume continues a paused countdown; the frozen remainder becomes the new duration.
func (c Countdown) Resume(now time.Time) error {
	if c.t.State != types.TimerPaused || c.t.RemainingSeconds == nil {
		return newError(KindInvalidTransition, "timer resume", "cannot resume a %s timer", c.t.State)
	}
	start := now
	*c.t = types.Timer{
		Duration:  *c.t.RemainingSeconds,
		StartTime: &start,
		State:     types.TimerRunning,
	}
	return nil
}

// Reset returns the countdown to stopped from any state.
func (c Countdown) Reset() {
	*c.t = types.StoppedTimer()
}

// View reports the timer as seen at now without changing it. A running
// timer past its deadline still reads as running, with zero remaining.
func (c Countdown) View(now time.Time) types.TimerView {
	v := types.TimerView{
		State:     c.t.State,
		Duration:  c.t.Duration,
		StartTime: c.t.StartTime,
		PausedAt:  c.t.PausedAt,
		Now:       now,
	}
	if v.State == "" {
		v.State = types.TimerStopped
	}
	switch c.t.State {
	case types.TimerRunning:
		if r := c.remaining(now); r > 0 {
			v.RemainingSeconds = r
		}
	case types.TimerPaused, types.TimerExpired:
		if c.t.RemainingSeconds != nil {
			v.RemainingSeconds = *c.t.RemainingSeconds
		}
	}
	return v
}

// remaining is duration minus whole elapsed seconds since StartTime.
func (c Countdown) remaining(now time.Time) int {
	if c.t.StartTime == nil {
		return 0
	}
	elapsed := int(now.Sub(*c.t.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	r := c.t.Duration - elapsed
	if r < 0 {
		return 0
	}
	return r
}
