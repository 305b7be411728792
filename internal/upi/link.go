// Package upi builds pre-filled UPI payment links. A link is a deep link
// only; nothing here talks to a payment network and no payment is verified
// programmatically.
package upi

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/models"
)

// LinkBuilder renders upi://pay links for the society's collection account.
type LinkBuilder struct {
	// PayeeID is the society's UPI VPA, e.g. "treasurer@upi".
	PayeeID string
	// PayeeName is the short display name shown in the payment app.
	PayeeName string
}

// Link builds the payment link for one plot and period. The transaction
// note carries "<plot>_<period suffix>" so the treasurer can match bank
// entries to ledger rows by eye.
func (b LinkBuilder) Link(plotID string, p models.Period, amount decimal.Decimal) string {
	params := url.Values{}
	params.Set("pa", b.PayeeID)
	params.Set("pn", b.PayeeName)
	params.Set("am", amount.String())
	params.Set("tn", fmt.Sprintf("%s_%s", plotID, p.Suffix()))
	return "upi://pay?" + params.Encode()
}
