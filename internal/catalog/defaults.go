package catalog

import (
	"github.com/verdant/landplan/internal/estimate"
	"github.com/verdant/landplan/internal/schedule"
)

// Task categories used by the built-in templates. The TUI maps these to colors.
const (
	CategorySurvey    = "survey"
	CategoryEarthwork = "earthwork"
	CategoryPlanting  = "planting"
	CategoryPaving    = "paving"
	CategoryFacility  = "facility"
	CategoryFinishing = "finishing"
)

// Default returns the built-in process template catalog.
func Default() *Catalog {
	return New([]*schedule.Template{
		{
			ID:          "garden-installation",
			Name:        "Garden Installation",
			Description: "Full residential garden build from survey to handover",
			Tasks: []schedule.TemplateTask{
				{Name: "Site survey", DurationDays: 1, Category: CategorySurvey},
				{Name: "Grading and excavation", DurationDays: 3, Category: CategoryEarthwork, DependsOn: []int{0}},
				{Name: "Drainage installation", DurationDays: 2, Category: CategoryEarthwork, DependsOn: []int{1}},
				{Name: "Stone placement", DurationDays: 2, Category: CategoryFacility, DependsOn: []int{1}},
				{Name: "Tree planting", DurationDays: 2, Category: CategoryPlanting, DependsOn: []int{2, 3}},
				{Name: "Shrub and ground cover", DurationDays: 1.5, Category: CategoryPlanting, DependsOn: []int{4}},
				{Name: "Cleanup and handover", DurationDays: 0.5, Category: CategoryFinishing, DependsOn: []int{5}},
			},
		},
		{
			ID:          "exterior-paving",
			Name:        "Exterior Paving",
			Description: "Driveway and approach paving",
			Tasks: []schedule.TemplateTask{
				{Name: "Demolition", DurationDays: 1, Category: CategoryEarthwork},
				{Name: "Subgrade preparation", DurationDays: 2, Category: CategoryEarthwork, DependsOn: []int{0}},
				{Name: "Base course", DurationDays: 1, Category: CategoryEarthwork, DependsOn: []int{1}},
				{Name: "Paver laying", DurationDays: 3, Category: CategoryPaving, DependsOn: []int{2}},
				{Name: "Joint sanding and sealing", DurationDays: 1, Category: CategoryPaving, DependsOn: []int{3}},
				{Name: "Site cleanup", DurationDays: 0.5, Category: CategoryFinishing, DependsOn: []int{4}},
			},
		},
		{
			ID:          "planting-works",
			Name:        "Planting Works",
			Description: "Seasonal planting without ground modification",
			Tasks: []schedule.TemplateTask{
				{Name: "Soil improvement", DurationDays: 1, Category: CategoryEarthwork},
				{Name: "High tree planting", DurationDays: 2, Category: CategoryPlanting, DependsOn: []int{0}},
				{Name: "Low planting", DurationDays: 1, Category: CategoryPlanting, DependsOn: []int{0}},
				{Name: "Mulching", DurationDays: 0.5, Category: CategoryFinishing, DependsOn: []int{1, 2}},
			},
		},
		{
			ID:          "lawn-renovation",
			Name:        "Lawn Renovation",
			Description: "Strip and relay an existing lawn",
			Tasks: []schedule.TemplateTask{
				{Name: "Turf removal", DurationDays: 1, Category: CategoryEarthwork},
				{Name: "Soil conditioning", DurationDays: 1, Category: CategoryEarthwork, DependsOn: []int{0}},
				{Name: "Sod laying", DurationDays: 2, Category: CategoryPlanting, DependsOn: []int{1}},
				{Name: "Initial watering", DurationDays: 0.5, Category: CategoryFinishing, DependsOn: []int{2}},
			},
		},
	})
}

// DefaultPriceMaster returns the built-in price-master items used for estimates.
func DefaultPriceMaster() []estimate.PriceItem {
	return []estimate.PriceItem{
		{ID: "tree-high", Name: "High tree (H2.5m+)", Category: CategoryPlanting, Unit: "each", UnitCost: 18000, MarkupRate: 0.35},
		{ID: "tree-low", Name: "Low tree / shrub", Category: CategoryPlanting, Unit: "each", UnitCost: 3500, MarkupRate: 0.40},
		{ID: "sod", Name: "Sod", Category: CategoryPlanting, Unit: "m2", UnitCost: 1200, MarkupRate: 0.30},
		{ID: "paver", Name: "Concrete paver", Category: CategoryPaving, Unit: "m2", UnitCost: 8500, MarkupRate: 0.25},
		{ID: "gravel-base", Name: "Gravel base course", Category: CategoryEarthwork, Unit: "m2", UnitCost: 2200, MarkupRate: 0.20},
		{ID: "excavation", Name: "Excavation", Category: CategoryEarthwork, Unit: "m3", UnitCost: 4500, MarkupRate: 0.15},
		{ID: "labor-day", Name: "Crew labor", Category: CategoryFinishing, Unit: "person-day", UnitCost: 25000, MarkupRate: 0.20},
	}
}
