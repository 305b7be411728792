package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProofStatus records whether the resident attached a payment screenshot.
type ProofStatus string

const (
	ProofUploaded ProofStatus = "Uploaded"
	ProofNone     ProofStatus = "None"
)

// VerificationPending is the initial verification status of every appended
// record. The treasurer flips it out of band; this system never does.
const VerificationPending = "Pending"

// TransactionRefScreenshot is the sentinel transaction reference used when
// the resident attaches a screenshot but no UTR.
const TransactionRefScreenshot = "Screenshot"

// PaymentRecord is one row of the payment ledger. A submission covering a
// quarter or a year is fanned out into one record per month; all records of
// one submission share SubmissionID and RecordedAt.
type PaymentRecord struct {
	// SubmissionID is a client-generated UUID identifying the submission
	// attempt. The ledger store collapses re-appends carrying the same
	// SubmissionID and period label, so a resubmit after a transient
	// failure cannot double-book a month.
	SubmissionID string

	// RecordedAt is when the submission was accepted.
	RecordedAt time.Time

	// PlotID joins the record to a roster plot. The ledger does not
	// enforce the reference; it accepts any plot string.
	PlotID string

	// ResidentName is the roster name at submission time.
	ResidentName string

	// PeriodLabel is the month this record covers, e.g. "Apr 2024".
	PeriodLabel string

	// Amount is this record's share of the paid amount, possibly
	// fractional after splitting across months.
	Amount decimal.Decimal

	// TransactionRef is the UTR / transaction ID supplied by the
	// resident, or TransactionRefScreenshot when only proof was attached.
	TransactionRef string

	// Proof records whether a screenshot accompanied the submission.
	Proof ProofStatus

	// Note describes the submission span, e.g. "Part of Quarter".
	Note string

	// Verified starts as VerificationPending and is only ever changed by
	// an out-of-band process.
	Verified string
}
