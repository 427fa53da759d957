package scheduler

import "time"

// Config holds configuration for the sync scheduler.
type Config struct {
	// IntervalMinutes is the timer period. Zero disables the timer.
	IntervalMinutes int `mapstructure:"interval_minutes" default:"0"`
	// PullOnStart runs one pull right after Start.
	PullOnStart bool `mapstructure:"pull_on_start" default:"false"`
	// PullEachCycle includes a pull in every timer tick.
	PullEachCycle bool `mapstructure:"pull_each_cycle" default:"false"`
	// PublishOnStart runs one publish right after Start (after the pull when both are set).
	PublishOnStart bool `mapstructure:"publish_on_start" default:"false"`
	// PublishEachCycle includes a publish in every timer tick.
	PublishEachCycle bool `mapstructure:"publish_each_cycle" default:"true"`
	// GraceSeconds is how long Stop waits for a running cycle before cancelling it.
	GraceSeconds int `mapstructure:"grace_seconds" default:"30"`
	// WatchLocal publishes when local lore files change.
	WatchLocal bool `mapstructure:"watch_local" default:"false"`
	// DebounceMillis batches bursts of local file changes into one publish.
	DebounceMillis int `mapstructure:"debounce_ms" default:"2000"`
}

// Interval returns the timer period.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Grace returns the shutdown grace period.
func (c Config) Grace() time.Duration {
	return time.Duration(c.GraceSeconds) * time.Second
}

// Debounce returns the watcher debounce window.
func (c Config) Debounce() time.Duration {
	if c.DebounceMillis <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.DebounceMillis) * time.Millisecond
}
