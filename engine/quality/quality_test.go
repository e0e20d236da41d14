package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	slowFrame = 1.0 / 15.0 // 15 fps, well below the downgrade threshold
	fastFrame = 1.0 / 120.0
	midFrame  = 1.0 / 40.0 // inside the default dead zone (28–55 fps)
)

// newTestGovernor uses a small window and hysteresis so tests can count frames.
func newTestGovernor(opts ...GovernorOption) Governor {
	base := []GovernorOption{
		WithWindowSize(10),
		WithHysteresis(5),
	}
	return NewGovernor(append(base, opts...)...)
}

// fill primes the window so subsequent samples evaluate transitions.
func fill(g Governor, dt float64, n int) {
	for i := 0; i < n; i++ {
		g.RecordFrameTime(dt)
	}
}

func TestStartsHigh(t *testing.T) {
	g := NewGovernor()
	assert.Equal(t, LevelHigh, g.Level())
}

func TestNoEvaluationUntilWindowFull(t *testing.T) {
	g := newTestGovernor()
	// 9 slow frames: window not yet full, no streak, no transition even with
	// hysteresis 5.
	fill(g, slowFrame, 9)
	assert.Equal(t, LevelHigh, g.Level())
}

func TestDowngradeAfterExactHysteresis(t *testing.T) {
	// Window of 1 makes every frame a full-window evaluation, so the streak
	// can be counted frame by frame.
	g := NewGovernor(WithWindowSize(1), WithHysteresis(5))

	fill(g, slowFrame, 4)
	assert.Equal(t, LevelHigh, g.Level(), "one short of hysteresis must not transition")

	g.RecordFrameTime(slowFrame)
	assert.Equal(t, LevelMedium, g.Level(), "hysteresis reached, one step down")
}

func TestDisqualifyingFrameResetsStreakCompletely(t *testing.T) {
	g := NewGovernor(WithWindowSize(1), WithHysteresis(5))

	fill(g, slowFrame, 4) // streak at 4 of 5
	g.RecordFrameTime(midFrame)
	require.Equal(t, LevelHigh, g.Level())

	// No partial credit: a fresh streak of 4 still does nothing, the 5th
	// qualifying frame after the reset commits the transition.
	fill(g, slowFrame, 4)
	assert.Equal(t, LevelHigh, g.Level())
	g.RecordFrameTime(slowFrame)
	assert.Equal(t, LevelMedium, g.Level())
}

func TestTransitionsNeverSkipALevel(t *testing.T) {
	g := newTestGovernor()
	// Sustained slow frames: High → Medium → Low, one step per committed
	// streak, never High → Low in one transition.
	levels := []Level{g.Level()}
	for i := 0; i < 200; i++ {
		g.RecordFrameTime(slowFrame)
		if l := g.Level(); l != levels[len(levels)-1] {
			levels = append(levels, l)
		}
	}
	assert.Equal(t, []Level{LevelHigh, LevelMedium, LevelLow}, levels)
}

func TestUpgradePath(t *testing.T) {
	g := newTestGovernor(WithInitialLevel(LevelLow))
	for i := 0; i < 200; i++ {
		g.RecordFrameTime(fastFrame)
	}
	assert.Equal(t, LevelHigh, g.Level())
}

func TestClampsAtEnds(t *testing.T) {
	g := newTestGovernor()
	fill(g, fastFrame, 100)
	assert.Equal(t, LevelHigh, g.Level(), "cannot upgrade past High")

	g = newTestGovernor(WithInitialLevel(LevelLow))
	fill(g, slowFrame, 100)
	assert.Equal(t, LevelLow, g.Level(), "cannot downgrade past Low")
}

func TestAnomalousSamplesDiscarded(t *testing.T) {
	g := newTestGovernor()
	fill(g, slowFrame, 9)
	// Pauses and glitches must not fill the window or build streaks.
	g.RecordFrameTime(0)
	g.RecordFrameTime(-0.5)
	g.RecordFrameTime(2.5)
	assert.Equal(t, LevelHigh, g.Level())

	// Window still one sample short, so evaluation starts on the next real
	// frame. If any anomaly had counted, the window would have filled three
	// frames earlier and the streak would commit before the fifth frame here.
	fill(g, slowFrame, 4)
	assert.Equal(t, LevelHigh, g.Level())
	g.RecordFrameTime(slowFrame)
	assert.Equal(t, LevelMedium, g.Level(), "exactly one step after a full fresh streak")
}

func TestForceLevelOverridesAndResets(t *testing.T) {
	g := newTestGovernor()
	fill(g, slowFrame, 13) // streak at 4 of 5

	g.ForceLevel(LevelMedium)
	require.Equal(t, LevelMedium, g.Level())

	// The pending downgrade streak was cleared: the window is still full of
	// slow frames, but a fresh streak of 5 is required before the next step.
	fill(g, slowFrame, 4)
	assert.Equal(t, LevelMedium, g.Level())
	g.RecordFrameTime(slowFrame)
	assert.Equal(t, LevelLow, g.Level())

	g.ForceLevel(LevelHigh)
	assert.Equal(t, LevelHigh, g.Level())

	// Out-of-range forces are ignored.
	g.ForceLevel(Level(99))
	assert.Equal(t, LevelHigh, g.Level())
}

func TestParametersPerLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  Parameters
	}{
		{LevelHigh, Parameters{CloudIterations: 48, FoamEnabled: true, AtmosphereQuality: 1.0, CityLightsEnabled: true}},
		{LevelMedium, Parameters{CloudIterations: 24, FoamEnabled: true, AtmosphereQuality: 0.6, CityLightsEnabled: true}},
		{LevelLow, Parameters{CloudIterations: 8, FoamEnabled: false, AtmosphereQuality: 0.25, CityLightsEnabled: false}},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			g := NewGovernor(WithInitialLevel(tt.level))
			assert.Equal(t, tt.want, g.Parameters())
		})
	}
}
