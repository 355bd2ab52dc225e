package notification

import (
	"database/sql"
	"encoding/json"
	"time"

	"fitstudio/internal/domain/holder"
)

// Kind classifies a notification trigger for the external deliverer.
type Kind string

const (
	KindPurchaseConfirmed Kind = "purchase_confirmed"
	KindLowBalance        Kind = "low_balance"
	KindExhausted         Kind = "exhausted"
	KindExpiringSoon      Kind = "expiring_soon"
	KindExpired           Kind = "expired"
	KindBirthday          Kind = "birthday"
)

// Trigger is one outbox row. The core appends triggers as part of its own
// work; an external consumer polls, delivers email/SMS, and acks. Delivery
// success or failure is invisible to the core.
type Trigger struct {
	ID          string          `gorm:"column:id;primaryKey" json:"id"`
	Kind        Kind            `gorm:"column:kind;index" json:"kind"`
	CustomerID  sql.NullInt64   `gorm:"column:customer_id" json:"customer_id,omitempty"`
	DependentID sql.NullInt64   `gorm:"column:dependent_id" json:"dependent_id,omitempty"`
	Payload     json.RawMessage `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	DeliveredAt sql.NullTime    `gorm:"column:delivered_at;index" json:"delivered_at,omitempty"`
}

func (Trigger) TableName() string { return "notification_triggers" }

// Holder rebuilds the trigger's holder ref.
func (t *Trigger) Holder() (holder.Ref, error) {
	return holder.RefFromIDs(t.CustomerID, t.DependentID)
}

// Payload shapes, one per kind. Kept as plain structs so templates on the
// delivery side get stable field names.

type PurchasePayload struct {
	CardID       int64   `json:"card_id"`
	CardTypeName string  `json:"card_type_name"`
	ClassCount   int     `json:"class_count"`
	ExpiresOn    string  `json:"expires_on"`
	AmountPaid   float64 `json:"amount_paid"`
}

type BalancePayload struct {
	CardID           int64  `json:"card_id"`
	CardTypeName     string `json:"card_type_name"`
	ClassesRemaining int    `json:"classes_remaining"`
}

type ExpiryPayload struct {
	CardID           int64  `json:"card_id"`
	CardTypeName     string `json:"card_type_name"`
	ExpiresOn        string `json:"expires_on"`
	DaysLeft         int    `json:"days_left,omitempty"`
	ClassesForfeited int    `json:"classes_forfeited,omitempty"`
}

type BirthdayPayload struct {
	HolderName string `json:"holder_name"`
}
