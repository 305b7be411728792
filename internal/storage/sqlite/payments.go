package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/models"
	"github.com/mnair/societypay/internal/storage"
)

// timestampLayout is the ledger's Date column format.
const timestampLayout = "2006-01-02 15:04:05"

// AppendRecords appends a batch of payment records in one transaction.
// Records that collide on (submission_id, period) are skipped via
// INSERT OR IGNORE, which is what makes resubmission after a transient
// failure safe.
func (s *LedgerStore) AppendRecords(ctx context.Context, records []*models.PaymentRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.TransientError{Op: "append", Err: err}
	}
	defer tx.Rollback()

	for _, record := range records {
		if record.SubmissionID == "" {
			record.SubmissionID = uuid.New().String()
		}
		if record.RecordedAt.IsZero() {
			record.RecordedAt = time.Now()
		}
		if record.Verified == "" {
			record.Verified = models.VerificationPending
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO payments
			 (submission_id, recorded_at, plot_no, resident_name, period, amount, transaction_ref, receipt, note, verified)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.SubmissionID,
			record.RecordedAt.Format(timestampLayout),
			record.PlotID,
			record.ResidentName,
			record.PeriodLabel,
			record.Amount.String(),
			record.TransactionRef,
			string(record.Proof),
			record.Note,
			record.Verified,
		)
		if err != nil {
			return &storage.TransientError{Op: "append", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &storage.TransientError{Op: "append", Err: err}
	}

	return nil
}

// ListByPlot returns all records for one plot in submission order.
func (s *LedgerStore) ListByPlot(ctx context.Context, plotID string) ([]*models.PaymentRecord, error) {
	return s.list(ctx,
		`SELECT submission_id, recorded_at, plot_no, resident_name, period, amount, transaction_ref, receipt, note, verified
		 FROM payments WHERE plot_no = ? ORDER BY id`,
		plotID,
	)
}

// ListAll returns every ledger record in submission order.
func (s *LedgerStore) ListAll(ctx context.Context) ([]*models.PaymentRecord, error) {
	return s.list(ctx,
		`SELECT submission_id, recorded_at, plot_no, resident_name, period, amount, transaction_ref, receipt, note, verified
		 FROM payments ORDER BY id`,
	)
}

func (s *LedgerStore) list(ctx context.Context, query string, args ...any) ([]*models.PaymentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &storage.TransientError{Op: "read", Err: err}
	}
	defer rows.Close()

	records := make([]*models.PaymentRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			// Malformed row data is a schema problem, not a transient one.
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.TransientError{Op: "read", Err: err}
	}

	return records, nil
}

func scanRecord(rows *sql.Rows) (*models.PaymentRecord, error) {
	record := &models.PaymentRecord{}
	var recordedAt, amount string

	if err := rows.Scan(
		&record.SubmissionID,
		&recordedAt,
		&record.PlotID,
		&record.ResidentName,
		&record.PeriodLabel,
		&amount,
		&record.TransactionRef,
		(*string)(&record.Proof),
		&record.Note,
		&record.Verified,
	); err != nil {
		return nil, fmt.Errorf("failed to scan payment record: %w", err)
	}

	ts, err := time.ParseInLocation(timestampLayout, recordedAt, time.Local)
	if err != nil {
		return nil, fmt.Errorf("malformed recorded_at %q: %w", recordedAt, err)
	}
	record.RecordedAt = ts

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("malformed amount %q: %w", amount, err)
	}
	record.Amount = value

	return record, nil
}
