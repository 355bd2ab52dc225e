package payment

import "fitstudio/internal/domain/holder"

// ConfirmationRequest is posted by the gateway integration once a charge has
// fully captured. Tokenization, capture and tax live entirely outside this
// service; the confirmation is an opaque trigger to issue a card.
type ConfirmationRequest struct {
	holder.Params
	CardTypeID    int64   `json:"card_type_id" binding:"required"`
	AmountPaid    float64 `json:"amount_paid" binding:"min=0"`
	PaymentMethod string  `json:"payment_method" binding:"omitempty,oneof=online cash"`
	ExternalRef   string  `json:"external_ref"`
}
