package catalog

import (
	"fmt"

	"github.com/verdant/landplan/internal/schedule"
)

// Catalog holds the process templates available for schedule generation.
// It is loaded once at startup and read-only thereafter.
type Catalog struct {
	templates []*schedule.Template
	byID      map[string]*schedule.Template
}

// New builds a catalog from an ordered template list. Later templates with a
// duplicate ID replace earlier ones, which is how config-supplied templates
// override built-ins.
func New(templates []*schedule.Template) *Catalog {
	c := &Catalog{
		byID: make(map[string]*schedule.Template),
	}
	for _, tpl := range templates {
		if _, exists := c.byID[tpl.ID]; exists {
			for i, existing := range c.templates {
				if existing.ID == tpl.ID {
					c.templates[i] = tpl
					break
				}
			}
		} else {
			c.templates = append(c.templates, tpl)
		}
		c.byID[tpl.ID] = tpl
	}
	return c
}

// Get returns the template with the given ID.
func (c *Catalog) Get(id string) (*schedule.Template, error) {
	tpl, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("template %q not found", id)
	}
	return tpl, nil
}

// List returns all templates in catalog order.
func (c *Catalog) List() []*schedule.Template {
	return append([]*schedule.Template(nil), c.templates...)
}

// Validate runs dependency validation over every template and returns the
// warnings keyed by template ID. Bad references are reported, never fatal:
// generation from a flawed template must still work.
func (c *Catalog) Validate() map[string][]schedule.Warning {
	out := make(map[string][]schedule.Warning)
	for _, tpl := range c.templates {
		if _, warnings := tpl.Validate(); len(warnings) > 0 {
			out[tpl.ID] = warnings
		}
	}
	return out
}
