package quality

import (
	"sync"
)

// Level is a discrete rendering-quality tier. Levels are ordered: transitions
// only ever move one step at a time between adjacent tiers.
type Level int

const (
	LevelHigh Level = iota
	LevelMedium
	LevelLow
)

// String returns the level name for logs.
func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return "unknown"
	}
}

// Parameters is the bundle of shader quality knobs for one level. The bundle
// is a fixed preset per level, not an independently tunable set.
type Parameters struct {
	// CloudIterations is the per-pixel cloud layer iteration count.
	CloudIterations int
	// FoamEnabled toggles the shoreline foam effect.
	FoamEnabled bool
	// AtmosphereQuality scales the atmosphere scattering effort in [0, 1].
	AtmosphereQuality float64
	// CityLightsEnabled toggles the night-side city lights layer.
	CityLightsEnabled bool
}

// levelParameters is the strategy table mapping each level to its preset.
// The set of levels is fixed and small, so a lookup table replaces dispatch.
var levelParameters = [...]Parameters{
	LevelHigh:   {CloudIterations: 48, FoamEnabled: true, AtmosphereQuality: 1.0, CityLightsEnabled: true},
	LevelMedium: {CloudIterations: 24, FoamEnabled: true, AtmosphereQuality: 0.6, CityLightsEnabled: true},
	LevelLow:    {CloudIterations: 8, FoamEnabled: false, AtmosphereQuality: 0.25, CityLightsEnabled: false},
}

// governorImpl is the single implementation of Governor.
// It keeps a rolling window of frame times and moves the level one step at a
// time once a sustained streak of frames clears a threshold. A dead zone
// between the two thresholds resets both streaks so the level cannot
// oscillate at a boundary.
type governorImpl struct {
	mu *sync.Mutex

	frameTimes []float64
	windowSize int

	level           Level
	upgradeStreak   int
	downgradeStreak int

	downgradeBelowFps float64
	upgradeAboveFps   float64
	hysteresisFrames  int
}

// Governor monitors per-frame timing and exposes the discrete quality level
// the renderer should use. Single-writer: only the owning render loop calls
// RecordFrameTime.
type Governor interface {
	// RecordFrameTime feeds one frame's duration in seconds. Non-positive or
	// implausibly large samples (over one second) are treated as pauses and
	// discarded. Transitions are only evaluated once the window is full.
	//
	// Parameters:
	//   - dt: frame duration in seconds
	RecordFrameTime(dt float64)

	// Level returns the current quality level.
	Level() Level

	// ForceLevel overrides the automatic logic, e.g. from a settings menu.
	// Both streaks reset so automatic control resumes cleanly afterwards.
	//
	// Parameters:
	//   - level: the level to force
	ForceLevel(level Level)

	// Parameters returns the preset knob bundle for the current level.
	Parameters() Parameters
}

var _ Governor = &governorImpl{}

// NewGovernor creates a Governor starting at LevelHigh with default window,
// thresholds, and hysteresis, optionally overridden by builder options.
//
// Parameters:
//   - options: functional options to configure the governor
//
// Returns:
//   - Governor: the newly created governor
func NewGovernor(options ...GovernorOption) Governor {
	g := &governorImpl{
		mu:                &sync.Mutex{},
		windowSize:        60,
		level:             LevelHigh,
		downgradeBelowFps: 28,
		upgradeAboveFps:   55,
		hysteresisFrames:  45,
	}
	for _, option := range options {
		option(g)
	}
	g.frameTimes = make([]float64, 0, g.windowSize)
	return g
}

func (g *governorImpl) RecordFrameTime(dt float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Pauses and timer glitches are not real frames.
	if dt <= 0 || dt > 1 {
		return
	}

	g.frameTimes = append(g.frameTimes, dt)
	if len(g.frameTimes) > g.windowSize {
		g.frameTimes = g.frameTimes[1:]
	}
	if len(g.frameTimes) < g.windowSize {
		return
	}

	sum := 0.0
	for _, ft := range g.frameTimes {
		sum += ft
	}
	avgFps := float64(len(g.frameTimes)) / sum

	switch {
	case avgFps < g.downgradeBelowFps:
		g.upgradeStreak = 0
		g.downgradeStreak++
		if g.downgradeStreak >= g.hysteresisFrames && g.level < LevelLow {
			g.level++
			g.resetStreaks()
		}
	case avgFps > g.upgradeAboveFps:
		g.downgradeStreak = 0
		g.upgradeStreak++
		if g.upgradeStreak >= g.hysteresisFrames && g.level > LevelHigh {
			g.level--
			g.resetStreaks()
		}
	default:
		// Dead zone between the thresholds: no partial credit.
		g.resetStreaks()
	}
}

func (g *governorImpl) Level() Level {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.level
}

func (g *governorImpl) ForceLevel(level Level) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if level < LevelHigh || level > LevelLow {
		return
	}
	g.level = level
	g.resetStreaks()
}

func (g *governorImpl) Parameters() Parameters {
	g.mu.Lock()
	defer g.mu.Unlock()
	return levelParameters[g.level]
}

// resetStreaks clears both streak counters. Caller must hold the mutex.
func (g *governorImpl) resetStreaks() {
	g.upgradeStreak = 0
	g.downgradeStreak = 0
}
