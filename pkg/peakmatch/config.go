package peakmatch

import (
	"github.com/tanmaydutta/NMRPeakMatch/pkg/peakmatch/mixture"
)

// Config collects the service dependencies and tunables. Construct it
// through NewService and the With* options.
type Config struct {
	DBPath         string
	ToleranceH     float64
	ToleranceC     float64
	ScoreThreshold float64
	Strategy       mixture.Strategy
	Logger         Logger
	Storage        Storage
}

// Option mutates the service configuration.
type Option func(*Config)

// WithDBPath sets the SQLite database location used when no Storage is
// injected.
func WithDBPath(path string) Option {
	return func(c *Config) { c.DBPath = path }
}

// WithTolerances overrides the default matching tolerances (ppm).
func WithTolerances(tolH, tolC float64) Option {
	return func(c *Config) {
		c.ToleranceH = tolH
		c.ToleranceC = tolC
	}
}

// WithScoreThreshold overrides the acceptance threshold of the analyzer.
func WithScoreThreshold(threshold float64) Option {
	return func(c *Config) { c.ScoreThreshold = threshold }
}

// WithStrategy swaps the peak-correspondence strategy (default greedy).
func WithStrategy(s mixture.Strategy) Option {
	return func(c *Config) { c.Strategy = s }
}

// WithLogger injects a logger.
func WithLogger(log Logger) Option {
	return func(c *Config) { c.Logger = log }
}

// WithStorage injects a compound store, bypassing the default SQLite one.
func WithStorage(storage Storage) Option {
	return func(c *Config) { c.Storage = storage }
}

func defaultConfig() *Config {
	return &Config{
		DBPath:         "nmrpeaks.sqlite3",
		ToleranceH:     mixture.DefaultToleranceH,
		ToleranceC:     mixture.DefaultToleranceC,
		ScoreThreshold: mixture.DefaultScoreThreshold,
		Strategy:       mixture.Greedy{},
	}
}
