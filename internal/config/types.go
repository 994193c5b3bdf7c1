package config

import (
	"github.com/verdant/landplan/internal/catalog"
	"github.com/verdant/landplan/internal/estimate"
	"github.com/verdant/landplan/internal/schedule"
)

// Config is the top-level configuration.
type Config struct {
	DatabasePath     string  `json:"database_path,omitempty"`     // SQLite file; resolved to ~/.landplan/landplan.db when empty
	RemoteURL        string  `json:"remote_url,omitempty"`        // When set, schedules persist to the remote service instead of SQLite
	ProjectionMode   string  `json:"projection_mode,omitempty"`   // "dependencies" or "position"
	ConcurrencyLimit int     `json:"concurrency_limit,omitempty"` // Max concurrent batch generations
	TaxRate          float64 `json:"tax_rate,omitempty"`          // Fractional tax rate for estimates

	// Custom templates and price items, merged over the built-ins by ID.
	Templates  []*schedule.Template `json:"templates,omitempty"`
	PriceItems []estimate.PriceItem `json:"price_items,omitempty"`
}

// Mode returns the parsed projection mode, defaulting to dependency-aware on
// an unrecognized value.
func (c *Config) Mode() schedule.Mode {
	mode, err := schedule.ParseMode(c.ProjectionMode)
	if err != nil {
		return schedule.ModeDependencies
	}
	return mode
}

// Catalog builds the effective template catalog: built-ins with config
// templates merged over them.
func (c *Config) Catalog() *catalog.Catalog {
	return catalog.New(append(catalog.Default().List(), c.Templates...))
}

// PriceMaster builds the effective price master: built-ins with config items
// merged over them.
func (c *Config) PriceMaster() *estimate.PriceMaster {
	return estimate.NewPriceMaster(append(catalog.DefaultPriceMaster(), c.PriceItems...))
}
