// Package workflow assembles the payout pipeline: ingesting the input
// batch, reconciling wallet balances, moving funds, submitting the payout
// batch and polling it to a terminal state, and notifying recipients. Stages
// share one RunContext and run strictly in order; the only concurrency is
// the notification fan-out and the paired balance queries.
package workflow
