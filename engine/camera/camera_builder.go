package camera

// GlobeCameraOption configures a GlobeCamera during construction.
type GlobeCameraOption func(*globeCameraImpl)

// WithAltitudePresets sets the two camera distance presets in globe radii.
// Both must exceed the globe radius; the low-altitude flag on Update selects
// between them.
//
// Parameters:
//   - high: distance used in high-altitude mode
//   - low: distance used in low-altitude mode
//
// Returns:
//   - GlobeCameraOption: a function that sets the altitude presets
func WithAltitudePresets(high, low float64) GlobeCameraOption {
	return func(c *globeCameraImpl) {
		c.highAltitude = high
		c.lowAltitude = low
	}
}

// WithFovPresets sets the narrow and wide field-of-view bounds in radians.
// The speed fraction interpolates between them each Update.
//
// Parameters:
//   - narrow: field of view at speed fraction 0
//   - wide: field of view at speed fraction 1
//
// Returns:
//   - GlobeCameraOption: a function that sets the FOV presets
func WithFovPresets(narrow, wide float64) GlobeCameraOption {
	return func(c *globeCameraImpl) {
		c.narrowFov = narrow
		c.wideFov = wide
	}
}

// WithEaseRates sets the exponential ease rates in 1/seconds. Orbital
// tracking, altitude transitions, and FOV transitions are tuned independently
// so each can have its own feel.
//
// Parameters:
//   - track: rate for latitude/longitude/heading tracking
//   - altitude: rate for distance transitions
//   - fov: rate for field-of-view transitions
//
// Returns:
//   - GlobeCameraOption: a function that sets the ease rates
func WithEaseRates(track, altitude, fov float64) GlobeCameraOption {
	return func(c *globeCameraImpl) {
		c.trackRate = track
		c.altitudeRate = altitude
		c.fovRate = fov
	}
}
