package payout

import "github.com/shopspring/decimal"

// BatchRequest is one payout submission covering every record in a run.
type BatchRequest struct {
	RequestID   string
	BatchName   string
	Currency    string
	TotalAmount decimal.Decimal
	Details     []BatchDetail
}

// BatchDetail is the per-recipient portion of a batch request.
type BatchDetail struct {
	MerchantSendID string
	Email          string
	Amount         decimal.Decimal
}

// BatchResult is the provider's answer to a batch status query.
type BatchResult struct {
	Status  BatchStatus
	Details []TransferDetail
}

// TransferDetail is one recipient's outcome inside a BatchResult.
type TransferDetail struct {
	OrderID        string
	MerchantSendID string
	Status         SendStatus
}

// Detail looks up a recipient outcome by its merchant send id. The second
// return value is false when the provider response omitted the id.
func (r *BatchResult) Detail(merchantSendID string) (TransferDetail, bool) {
	for _, detail := range r.Details {
		if detail.MerchantSendID == merchantSendID {
			return detail, true
		}
	}
	return TransferDetail{}, false
}
