package board

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/retroboard/internal/types"
)

func TestTimerStartBounds(t *testing.T) {
	for _, d := range []int{0, -5, 7201} {
		timer := types.StoppedTimer()
		err := CountdownOf(&timer).Start(d, t0)
		assert.True(t, errors.Is(err, ErrInvalidDuration), "duration %d", d)
		assert.Equal(t, types.TimerStopped, timer.State)
	}
	for _, d := range []int{1, 7200} {
		timer := types.StoppedTimer()
		require.NoError(t, CountdownOf(&timer).Start(d, t0), "duration %d", d)
		assert.Equal(t, types.TimerRunning, timer.State)
		assert.Equal(t, d, timer.Duration)
		require.NotNil(t, timer.StartTime)
		assert.Equal(t, t0, *timer.StartTime)
		assert.Nil(t, timer.PausedAt)
		assert.Nil(t, timer.RemainingSeconds)
	}
}

func TestTimerPauseResumeExpire(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)

	require.NoError(t, c.Start(60, t0))

	pauseAt := t0.Add(10*time.Second + 400*time.Millisecond)
	require.NoError(t, c.Pause(pauseAt))
	assert.Equal(t, types.TimerPaused, timer.State)
	require.NotNil(t, timer.RemainingSeconds)
	assert.Equal(t, 50, *timer.RemainingSeconds)
	require.NotNil(t, timer.PausedAt)
	assert.Equal(t, pauseAt, *timer.PausedAt)
	assert.Nil(t, timer.StartTime)

	resumeAt := pauseAt.Add(5 * time.Minute)
	require.NoError(t, c.Resume(resumeAt))
	assert.Equal(t, types.TimerRunning, timer.State)
	assert.Equal(t, 50, timer.Duration)
	assert.Nil(t, timer.RemainingSeconds)
	assert.Nil(t, timer.PausedAt)

	require.NoError(t, c.Pause(resumeAt.Add(50*time.Second)))
	assert.Equal(t, types.TimerExpired, timer.State)
	require.NotNil(t, timer.RemainingSeconds)
	assert.Equal(t, 0, *timer.RemainingSeconds)
	assert.Nil(t, timer.StartTime)
}

func TestTimerInvalidTransitions(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)

	assert.True(t, errors.Is(c.Pause(t0), ErrInvalidTransition))
	assert.True(t, errors.Is(c.Resume(t0), ErrInvalidTransition))

	require.NoError(t, c.Start(30, t0))
	assert.True(t, errors.Is(c.Resume(t0), ErrInvalidTransition))

	require.NoError(t, c.Pause(t0.Add(time.Hour)))
	assert.Equal(t, types.TimerExpired, timer.State)
	assert.True(t, errors.Is(c.Pause(t0), ErrInvalidTransition))
	assert.True(t, errors.Is(c.Resume(t0), ErrInvalidTransition))
}

func TestTimerRestartFromAnyState(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)

	require.NoError(t, c.Start(30, t0))
	require.NoError(t, c.Pause(t0.Add(10*time.Second)))
	require.NoError(t, c.Start(90, t0.Add(20*time.Second)))
	assert.Equal(t, types.TimerRunning, timer.State)
	assert.Equal(t, 90, timer.Duration)
	assert.Nil(t, timer.RemainingSeconds)
	assert.Nil(t, timer.PausedAt)
}

func TestTimerReset(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)
	require.NoError(t, c.Start(30, t0))
	require.NoError(t, c.Pause(t0.Add(time.Second)))

	c.Reset()
	assert.Equal(t, types.StoppedTimer(), timer)
	assert.Equal(t, 0, timer.Duration)

	c.Reset()
	assert.Equal(t, types.TimerStopped, timer.State)
}

func TestTimerViewIsLazy(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)

	v := c.View(t0)
	assert.Equal(t, types.TimerStopped, v.State)
	assert.Equal(t, 0, v.RemainingSeconds)

	require.NoError(t, c.Start(60, t0))
	assert.Equal(t, 45, c.View(t0.Add(15*time.Second)).RemainingSeconds)

	late := c.View(t0.Add(2 * time.Minute))
	assert.Equal(t, types.TimerRunning, late.State, "reading never expires the timer")
	assert.Equal(t, 0, late.RemainingSeconds)
	assert.Equal(t, types.TimerRunning, timer.State)

	require.NoError(t, c.Pause(t0.Add(20*time.Second)))
	assert.Equal(t, 40, c.View(t0.Add(time.Hour)).RemainingSeconds)
}

func TestTimerClockSkew(t *testing.T) {
	timer := types.StoppedTimer()
	c := CountdownOf(&timer)
	require.NoError(t, c.Start(60, t0))
	require.NoError(t, c.Pause(t0.Add(-5*time.Second)))
	assert.Equal(t, 60, *timer.RemainingSeconds)
}
