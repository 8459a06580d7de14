package payout

import "errors"

// Fatal run conditions. Each aborts the pipeline immediately; the top-level
// runner still flushes the audit log and writes the output artifact when one
// was produced.
var (
	ErrInputUnavailable     = errors.New("INPUT_UNAVAILABLE")
	ErrInsufficientFunds    = errors.New("NOT_ENOUGH_BALANCE")
	ErrTransferFailed       = errors.New("TRANSFER_SPOT_FUNDING_ERROR")
	ErrBatchSubmission      = errors.New("PAYOUT_REQUEST_ERROR")
	ErrBatchStillProcessing = errors.New("BATCH_STILL_PROCESSING")
	ErrRecipientMissing     = errors.New("INVESTOR_NOT_FOUND")
)
