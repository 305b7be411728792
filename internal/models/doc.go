// Package models defines the core domain models for the society payment portal.
//
// # Models
//
//   - Resident: one billable plot and the resident registered against it,
//     loaded from the roster file at startup and immutable afterwards
//   - Period: the billing span a payment covers (Year, Quarter or Month),
//     always anchored to a specific year
//   - PaymentRecord: one ledger row; a submission covering more than one
//     month produces one record per month, all sharing a submission ID
//
// # Design Principles
//
//  1. **Typed rows**: ledger rows are structs with named, typed fields;
//     they are flattened to the external column shape only at the storage
//     boundary
//  2. **Decimal money**: all amounts use shopspring/decimal so split
//     payments survive round-tripping without binary-float drift
//  3. **Immutable records**: a PaymentRecord is never updated by this
//     system once appended; verification happens out of band
package models
