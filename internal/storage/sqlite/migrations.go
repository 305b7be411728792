package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// The column set mirrors the ledger sheet the treasurer audits: Date,
// Plot No, Name, Period, Amount, Transaction ID, Receipt, Note, Verified.
// Amounts are stored as decimal text, never as floating point.
//
// The unique (submission_id, period) index is the idempotency guard: a
// resubmitted batch re-inserts the same pairs and the duplicates are
// ignored.
const schema = `
CREATE TABLE IF NOT EXISTS payments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    submission_id TEXT NOT NULL,
    recorded_at TEXT NOT NULL,
    plot_no TEXT NOT NULL,
    resident_name TEXT NOT NULL,
    period TEXT NOT NULL,
    amount TEXT NOT NULL,
    transaction_ref TEXT NOT NULL,
    receipt TEXT NOT NULL,
    note TEXT NOT NULL,
    verified TEXT NOT NULL DEFAULT 'Pending'
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_submission_period
    ON payments(submission_id, period);

CREATE INDEX IF NOT EXISTS idx_payments_plot_no ON payments(plot_no);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
