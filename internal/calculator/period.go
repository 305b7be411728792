// Package calculator holds the pure billing arithmetic: expanding a period
// selection into the months it covers, computing the due amount for a
// period, and splitting a paid amount across months.
package calculator

import (
	"fmt"

	"github.com/mnair/societypay/internal/models"
)

// quarterMonths maps each quarter to its three calendar months.
var quarterMonths = map[models.Quarter][]models.Month{
	models.Q1: {models.Jan, models.Feb, models.Mar},
	models.Q2: {models.Apr, models.May, models.Jun},
	models.Q3: {models.Jul, models.Aug, models.Sep},
	models.Q4: {models.Oct, models.Nov, models.Dec},
}

// ExpandPeriod maps a period selection to the ordered list of months it
// covers: all twelve for a year, three for a quarter, one for a month.
// Selections normally come from fixed enumerations, so an invalid value is
// rejected outright instead of producing a partial month list.
func ExpandPeriod(p models.Period) ([]models.Month, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("cannot expand period: %w", err)
	}

	switch p.Type {
	case models.PeriodYear:
		months := make([]models.Month, len(models.Months))
		copy(months, models.Months)
		return months, nil
	case models.PeriodQuarter:
		months := make([]models.Month, 3)
		copy(months, quarterMonths[p.Quarter])
		return months, nil
	default:
		return []models.Month{p.Month}, nil
	}
}

// PeriodLabels renders the ledger labels ("Apr 2024", ...) for every month
// the period covers.
func PeriodLabels(p models.Period) ([]string, error) {
	months, err := ExpandPeriod(p)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = models.Label(m, p.Year)
	}
	return labels, nil
}
