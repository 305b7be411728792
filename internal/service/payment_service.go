// Package service implements the payment-recording workflow: quoting dues
// for a plot and period, validating and recording submissions, and reading
// back a plot's history.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/calculator"
	"github.com/mnair/societypay/internal/metrics"
	"github.com/mnair/societypay/internal/models"
	"github.com/mnair/societypay/internal/roster"
	"github.com/mnair/societypay/internal/storage"
	"github.com/mnair/societypay/internal/upi"
)

// ErrPlotNotFound indicates the requested plot is not on the roster.
var ErrPlotNotFound = errors.New("plot not found in roster")

// ValidationError rejects a submission before anything reaches the ledger.
// It is recoverable: the caller re-presents the form with the reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// defaultLedgerTimeout bounds remote ledger calls so a stuck store cannot
// hang a submission indefinitely.
const defaultLedgerTimeout = 10 * time.Second

// PaymentService coordinates the roster, the billing arithmetic and the
// ledger. The roster is immutable and injected at construction; the service
// holds no other state.
type PaymentService struct {
	roster        *roster.Roster
	ledger        storage.Ledger
	links         upi.LinkBuilder
	monthlyFee    decimal.Decimal
	ledgerTimeout time.Duration

	now   func() time.Time
	newID func() string
}

// Options configures a PaymentService.
type Options struct {
	MonthlyFee    decimal.Decimal
	Links         upi.LinkBuilder
	LedgerTimeout time.Duration
}

// NewPaymentService creates a PaymentService over the given roster and ledger.
func NewPaymentService(r *roster.Roster, ledger storage.Ledger, opts Options) *PaymentService {
	timeout := opts.LedgerTimeout
	if timeout <= 0 {
		timeout = defaultLedgerTimeout
	}
	return &PaymentService{
		roster:        r,
		ledger:        ledger,
		links:         opts.Links,
		monthlyFee:    opts.MonthlyFee,
		ledgerTimeout: timeout,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// Quote is everything the form needs to show for a plot and period
// selection before the resident pays.
type Quote struct {
	PlotID       string
	ResidentName string
	PastDues     decimal.Decimal
	HasDues      bool
	MonthlyFee   decimal.Decimal
	TotalDue     decimal.Decimal
	Periods      []string
	PaymentLink  string
}

// Quote computes the due amount, covered months and payment link for a
// plot and period selection.
func (s *PaymentService) Quote(plotID string, p models.Period) (*Quote, error) {
	resident, ok := s.roster.Lookup(plotID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, plotID)
	}

	labels, err := calculator.PeriodLabels(p)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	total := calculator.TotalDue(p.Type, s.monthlyFee)
	return &Quote{
		PlotID:       resident.PlotID,
		ResidentName: resident.Name,
		PastDues:     resident.PastDues,
		HasDues:      resident.HasDues(),
		MonthlyFee:   s.monthlyFee,
		TotalDue:     total,
		Periods:      labels,
		PaymentLink:  s.links.Link(resident.PlotID, p, total),
	}, nil
}

// SubmitRequest carries one payment-proof submission.
type SubmitRequest struct {
	PlotID         string
	Period         models.Period
	AmountPaid     decimal.Decimal
	TransactionRef string
	ProofAttached  bool
	Confirmed      bool

	// SubmissionID lets a client resubmit after a transient failure
	// without double-booking; left empty, the service generates one.
	SubmissionID string
}

// Submit validates a submission and appends one ledger record per covered
// month. The paid amount is split evenly across the months. On a
// ValidationError nothing is appended; on a storage.TransientError the
// caller may resubmit with the same SubmissionID and the ledger collapses
// the duplicates.
func (s *PaymentService) Submit(ctx context.Context, req SubmitRequest) ([]*models.PaymentRecord, error) {
	resident, ok := s.roster.Lookup(req.PlotID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlotNotFound, req.PlotID)
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	months, err := calculator.ExpandPeriod(req.Period)
	if err != nil {
		metrics.SubmissionRejections.WithLabelValues("invalid_period").Inc()
		return nil, &ValidationError{Reason: err.Error()}
	}

	shares := calculator.SplitAmount(req.AmountPaid, len(months))

	submissionID := req.SubmissionID
	if submissionID == "" {
		submissionID = s.newID()
	}
	recordedAt := s.now()

	proof := models.ProofNone
	if req.ProofAttached {
		proof = models.ProofUploaded
	}
	transactionRef := strings.TrimSpace(req.TransactionRef)
	if transactionRef == "" {
		transactionRef = models.TransactionRefScreenshot
	}

	records := make([]*models.PaymentRecord, len(months))
	for i, month := range months {
		records[i] = &models.PaymentRecord{
			SubmissionID:   submissionID,
			RecordedAt:     recordedAt,
			PlotID:         resident.PlotID,
			ResidentName:   resident.Name,
			PeriodLabel:    models.Label(month, req.Period.Year),
			Amount:         shares[i],
			TransactionRef: transactionRef,
			Proof:          proof,
			Note:           fmt.Sprintf("Part of %s", req.Period.Type),
			Verified:       models.VerificationPending,
		}
	}

	appendCtx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()

	if err := s.ledger.AppendRecords(appendCtx, records); err != nil {
		metrics.LedgerFailures.WithLabelValues("append").Inc()
		slog.Error("Ledger append failed",
			"plot", resident.PlotID,
			"submission_id", submissionID,
			"error", err,
		)
		return nil, err
	}

	metrics.SubmissionsTotal.Inc()
	slog.Info("Payment recorded",
		"plot", resident.PlotID,
		"submission_id", submissionID,
		"period", req.Period.Suffix(),
		"months", len(records),
		"amount", req.AmountPaid,
	)

	return records, nil
}

// History returns a plot's ledger records in submission order. An unknown
// plot yields an empty history: the ledger keys rows by plot string only.
func (s *PaymentService) History(ctx context.Context, plotID string) ([]*models.PaymentRecord, error) {
	readCtx, cancel := context.WithTimeout(ctx, s.ledgerTimeout)
	defer cancel()

	records, err := s.ledger.ListByPlot(readCtx, plotID)
	if err != nil {
		metrics.LedgerFailures.WithLabelValues("read").Inc()
		return nil, err
	}
	return records, nil
}

func (s *PaymentService) validate(req SubmitRequest) error {
	if !req.Confirmed {
		metrics.SubmissionRejections.WithLabelValues("unconfirmed").Inc()
		return &ValidationError{Reason: "please confirm the transfer before submitting"}
	}
	if strings.TrimSpace(req.TransactionRef) == "" && !req.ProofAttached {
		metrics.SubmissionRejections.WithLabelValues("no_proof").Inc()
		return &ValidationError{Reason: "provide a transaction reference or a payment screenshot"}
	}
	if !req.AmountPaid.IsPositive() {
		metrics.SubmissionRejections.WithLabelValues("bad_amount").Inc()
		return &ValidationError{Reason: "paid amount must be greater than zero"}
	}
	return nil
}
