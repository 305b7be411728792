package models

import "fmt"

// PeriodType selects how many months a payment covers.
type PeriodType string

const (
	PeriodYear    PeriodType = "Year"
	PeriodQuarter PeriodType = "Quarter"
	PeriodMonth   PeriodType = "Month"
)

// Quarter identifies one calendar quarter.
type Quarter string

const (
	Q1 Quarter = "Q1"
	Q2 Quarter = "Q2"
	Q3 Quarter = "Q3"
	Q4 Quarter = "Q4"
)

// Month is a three-letter calendar month label as it appears on the ledger.
type Month string

const (
	Jan Month = "Jan"
	Feb Month = "Feb"
	Mar Month = "Mar"
	Apr Month = "Apr"
	May Month = "May"
	Jun Month = "Jun"
	Jul Month = "Jul"
	Aug Month = "Aug"
	Sep Month = "Sep"
	Oct Month = "Oct"
	Nov Month = "Nov"
	Dec Month = "Dec"
)

// Months lists all twelve months in calendar order.
var Months = []Month{Jan, Feb, Mar, Apr, May, Jun, Jul, Aug, Sep, Oct, Nov, Dec}

// Quarters lists the four quarters in calendar order.
var Quarters = []Quarter{Q1, Q2, Q3, Q4}

// Period is a tagged billing-span value. Exactly one of Quarter/Month is
// meaningful depending on Type; Year is always set.
type Period struct {
	Type    PeriodType
	Year    int
	Quarter Quarter
	Month   Month
}

// IsValid reports whether m is one of the twelve month labels.
func (m Month) IsValid() bool {
	for _, known := range Months {
		if m == known {
			return true
		}
	}
	return false
}

// IsValid reports whether q is one of Q1..Q4.
func (q Quarter) IsValid() bool {
	switch q {
	case Q1, Q2, Q3, Q4:
		return true
	}
	return false
}

// Validate checks the period for internal consistency. Selections come from
// fixed UI enumerations, so a failure here means a malformed request and the
// caller should reject it rather than guess.
func (p Period) Validate() error {
	if p.Year <= 0 {
		return fmt.Errorf("period year %d is not a valid year", p.Year)
	}
	switch p.Type {
	case PeriodYear:
		return nil
	case PeriodQuarter:
		if !p.Quarter.IsValid() {
			return fmt.Errorf("invalid quarter %q", p.Quarter)
		}
		return nil
	case PeriodMonth:
		if !p.Month.IsValid() {
			return fmt.Errorf("invalid month %q", p.Month)
		}
		return nil
	default:
		return fmt.Errorf("invalid period type %q", p.Type)
	}
}

// Suffix is the period fragment used in payment-link notes:
// "2024" for a year, "Q2_2024" for a quarter, "Apr_2024" for a month.
func (p Period) Suffix() string {
	switch p.Type {
	case PeriodQuarter:
		return fmt.Sprintf("%s_%d", p.Quarter, p.Year)
	case PeriodMonth:
		return fmt.Sprintf("%s_%d", p.Month, p.Year)
	default:
		return fmt.Sprintf("%d", p.Year)
	}
}

// Label renders a ledger period label such as "Apr 2024".
func Label(m Month, year int) string {
	return fmt.Sprintf("%s %d", m, year)
}
