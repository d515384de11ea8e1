package difficulty

import "fmt"

// Config holds the thresholds and bounds for the controller.
type Config struct {
	// Upper is the accuracy at or above which difficulty moves up one step.
	Upper float64

	// Lower is the accuracy at or below which difficulty moves down one step.
	Lower float64

	// MinAnswered is the number of graded answers required before the
	// first adjustment.
	MinAnswered int

	Min Level
	Max Level
}

// DefaultConfig returns the standard 80/40 configuration over the full enum.
func DefaultConfig() Config {
	return Config{
		Upper:       0.80,
		Lower:       0.40,
		MinAnswered: 2,
		Min:         MinLevel,
		Max:         MaxLevel,
	}
}

// Validate checks that thresholds and bounds are consistent.
func (c Config) Validate() error {
	if c.Upper <= 0 || c.Upper > 1 {
		return fmt.Errorf("upper threshold %.2f out of range (0,1]", c.Upper)
	}
	if c.Lower < 0 || c.Lower >= c.Upper {
		return fmt.Errorf("lower threshold %.2f must be in [0, upper)", c.Lower)
	}
	if c.MinAnswered < 1 {
		return fmt.Errorf("min answered must be at least 1, got %d", c.MinAnswered)
	}
	if !c.Min.Valid() || !c.Max.Valid() || c.Min > c.Max {
		return fmt.Errorf("invalid bounds [%s, %s]", c.Min, c.Max)
	}
	return nil
}

// Controller maps rolling accuracy to a one-step difficulty change.
// It holds no state and is safe for concurrent use.
type Controller struct {
	cfg Config
}

// NewController creates a Controller. Zero bounds default to the enum range.
func NewController(cfg Config) *Controller {
	if cfg.Min == 0 {
		cfg.Min = MinLevel
	}
	if cfg.Max == 0 {
		cfg.Max = MaxLevel
	}
	return &Controller{cfg: cfg}
}

// Config returns the controller configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Clamp bounds l to the configured range.
func (c *Controller) Clamp(l Level) Level {
	if l < c.cfg.Min {
		return c.cfg.Min
	}
	if l > c.cfg.Max {
		return c.cfg.Max
	}
	return l
}

// Adjust returns the next level and true when accuracy over the answered
// questions warrants a change from current. It never moves more than one
// step and never leaves the configured bounds.
func (c *Controller) Adjust(current Level, correct, answered int) (Level, bool) {
	if answered < c.cfg.MinAnswered || answered <= 0 {
		return current, false
	}

	accuracy := float64(correct) / float64(answered)
	current = c.Clamp(current)

	var next Level
	switch {
	case accuracy >= c.cfg.Upper:
		next = current + 1
	case accuracy <= c.cfg.Lower:
		next = current - 1
	default:
		return current, false
	}

	next = c.Clamp(next)
	if next == current {
		return current, false
	}
	return next, true
}
