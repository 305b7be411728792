package models

import "github.com/shopspring/decimal"

// Resident represents one plot and the resident registered against it.
// Records come from the roster file, are loaded once at startup, and are
// never mutated at runtime.
type Resident struct {
	// LaneID groups plots for navigation (e.g. "Lane 3").
	LaneID string

	// PlotID is the billable unit identifier, unique within a lane
	// (e.g. "A5", "Plot 12").
	PlotID string

	// Name is the resident's display name.
	Name string

	// PastDues is the outstanding balance carried over from before this
	// system. It is informational only: the roster stores it as a
	// free-form currency string and unparsable values default to zero.
	PastDues decimal.Decimal
}

// HasDues reports whether the resident carries a positive past-dues balance.
func (r Resident) HasDues() bool {
	return r.PastDues.IsPositive()
}
