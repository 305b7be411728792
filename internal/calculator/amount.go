package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/models"
)

// monthsCovered is the month count billed for each period type.
var monthsCovered = map[models.PeriodType]int64{
	models.PeriodYear:    12,
	models.PeriodQuarter: 3,
	models.PeriodMonth:   1,
}

// TotalDue computes the amount due for a period type at the given monthly
// fee: fee x 12 for a year, x 3 for a quarter, x 1 for a single month.
// An unknown period type yields zero; callers validate the period first.
func TotalDue(t models.PeriodType, monthlyFee decimal.Decimal) decimal.Decimal {
	n, ok := monthsCovered[t]
	if !ok {
		return decimal.Zero
	}
	return monthlyFee.Mul(decimal.NewFromInt(n))
}

// SplitAmount divides a paid amount evenly across n months, rounded to two
// decimal places. Any rounding remainder is allocated to the last share, so
// the shares always sum to exactly the paid amount. A non-positive n returns
// the whole amount as a single share rather than dividing by zero.
func SplitAmount(paid decimal.Decimal, n int) []decimal.Decimal {
	if n <= 1 {
		return []decimal.Decimal{paid}
	}

	base := paid.Div(decimal.NewFromInt(int64(n))).RoundBank(2)
	shares := make([]decimal.Decimal, n)
	allocated := decimal.Zero
	for i := 0; i < n-1; i++ {
		shares[i] = base
		allocated = allocated.Add(base)
	}
	shares[n-1] = paid.Sub(allocated)
	return shares
}
