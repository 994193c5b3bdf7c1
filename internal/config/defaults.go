package config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProjectionMode:   "dependencies",
		ConcurrencyLimit: 4,
		TaxRate:          0.10,
	}
}
