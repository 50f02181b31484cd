package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for New()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Cache          *Cache // injected aggregation cache (shared across engines if desired)
	MaxChartPoints int    // reduction cap for chart points
}

// WithCache injects a shared aggregation cache. Without it each engine
// owns a private cache.
func WithCache(c *Cache) Option {
	return func(cfg *config) {
		cfg.Cache = c
	}
}

// WithMaxChartPoints overrides the default chart point cap.
func WithMaxChartPoints(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.MaxChartPoints = n
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		MaxChartPoints: DefaultMaxChartPoints,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Cache == nil {
		cfg.Cache = NewCache()
	}
	return cfg
}
