// Package payout holds the domain model shared by the payout pipeline:
// per-recipient records, batch statuses, the mutable run context threaded
// through every stage, and the error taxonomy for fatal run conditions.
package payout
