// Package storage provides abstractions for the payment ledger, the
// system of record for every submitted payment.
package storage

import (
	"context"
	"fmt"

	"github.com/mnair/societypay/internal/models"
)

// Ledger defines the interface for the append-only payment ledger.
// This abstraction allows swapping ledger backends (SQLite today, a hosted
// spreadsheet or PostgreSQL later) without changing the service layer.
type Ledger interface {
	// AppendRecords appends a batch of payment records atomically.
	// Records whose (submission ID, period label) pair is already present
	// are silently skipped, so retrying a failed submission cannot
	// double-book a month.
	AppendRecords(ctx context.Context, records []*models.PaymentRecord) error

	// ListByPlot returns all records for one plot in submission order.
	// No records is an empty slice, not an error.
	ListByPlot(ctx context.Context, plotID string) ([]*models.PaymentRecord, error)

	// ListAll returns every ledger record in submission order.
	ListAll(ctx context.Context) ([]*models.PaymentRecord, error)

	// Ping verifies the ledger is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the ledger.
	Close() error
}

// TransientError marks a ledger failure worth retrying: the store was
// unreachable or rejected the call. It is distinct from schema or data
// errors, which a retry will not fix.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("ledger %s failed: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
