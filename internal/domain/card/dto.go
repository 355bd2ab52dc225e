package card

import "fitstudio/internal/domain/holder"

// CreateCardRequest is the admin cash-sale / manual-issue body.
type CreateCardRequest struct {
	holder.Params
	CardTypeID    int64   `json:"card_type_id" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=online cash admin_created"`
	AmountPaid    float64 `json:"amount_paid" binding:"min=0"`
	ExternalRef   string  `json:"external_ref"`
	// Override intentionally stacks a new card on top of an active one.
	Override bool `json:"override"`
}

// AdminPassRequest issues a complimentary pass to a holder.
type AdminPassRequest struct {
	holder.Params
}

// View is a card joined with its type name for display.
type View struct {
	Card
	CardTypeName string `json:"card_type_name"`
}
