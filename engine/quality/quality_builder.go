package quality

// GovernorOption configures a Governor during construction.
type GovernorOption func(*governorImpl)

// WithWindowSize sets the rolling frame-time window length. Transitions are
// only evaluated once the window has filled.
//
// Parameters:
//   - frames: window capacity in frames (values < 1 are ignored)
//
// Returns:
//   - GovernorOption: a function that sets the window size
func WithWindowSize(frames int) GovernorOption {
	return func(g *governorImpl) {
		if frames >= 1 {
			g.windowSize = frames
		}
	}
}

// WithThresholds sets the average-FPS boundaries of the dead zone. Average
// FPS below the downgrade threshold builds a downgrade streak; above the
// upgrade threshold builds an upgrade streak; values between reset both.
//
// Parameters:
//   - downgradeBelowFps: average FPS below which quality degrades
//   - upgradeAboveFps: average FPS above which quality recovers
//
// Returns:
//   - GovernorOption: a function that sets the thresholds
func WithThresholds(downgradeBelowFps, upgradeAboveFps float64) GovernorOption {
	return func(g *governorImpl) {
		g.downgradeBelowFps = downgradeBelowFps
		g.upgradeAboveFps = upgradeAboveFps
	}
}

// WithHysteresis sets how many consecutive qualifying frames are required
// before a level transition commits.
//
// Parameters:
//   - frames: streak length (values < 1 are ignored)
//
// Returns:
//   - GovernorOption: a function that sets the hysteresis length
func WithHysteresis(frames int) GovernorOption {
	return func(g *governorImpl) {
		if frames >= 1 {
			g.hysteresisFrames = frames
		}
	}
}

// WithInitialLevel sets the starting quality level.
//
// Parameters:
//   - level: the initial level
//
// Returns:
//   - GovernorOption: a function that sets the initial level
func WithInitialLevel(level Level) GovernorOption {
	return func(g *governorImpl) {
		if level >= LevelHigh && level <= LevelLow {
			g.level = level
		}
	}
}
