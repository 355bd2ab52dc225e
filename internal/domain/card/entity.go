package card

import (
	"database/sql"
	"time"

	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
)

// Status of a card.
type Status string

const (
	StatusActive    Status = "active"
	StatusExhausted Status = "exhausted"
	StatusExpired   Status = "expired"
)

// PaymentMethod records how the card was paid for.
type PaymentMethod string

const (
	PaymentOnline       PaymentMethod = "online"
	PaymentCash         PaymentMethod = "cash"
	PaymentAdminCreated PaymentMethod = "admin_created"
)

// Card is one purchased or issued punch card / subscription. Rows are never
// deleted; expired is terminal and the history feeds admin analytics.
type Card struct {
	ID          int64         `gorm:"column:id;primaryKey" json:"id"`
	CustomerID  sql.NullInt64 `gorm:"column:customer_id;index" json:"customer_id,omitempty"`
	DependentID sql.NullInt64 `gorm:"column:dependent_id;index" json:"dependent_id,omitempty"`

	CardTypeID int64 `gorm:"column:card_type_id" json:"card_type_id"`
	// Category is snapshotted from the type at creation, like the class
	// count, so later catalog edits cannot change the terms of a sold card.
	Category catalog.Category `gorm:"column:category" json:"category"`

	// TotalClasses and ClassesRemaining are 0 for subscriptions.
	TotalClasses     int `gorm:"column:total_classes" json:"total_classes"`
	ClassesRemaining int `gorm:"column:classes_remaining" json:"classes_remaining"`

	// Civil dates, stored at UTC midnight.
	PurchaseDate   time.Time `gorm:"column:purchase_date" json:"purchase_date"`
	ExpirationDate time.Time `gorm:"column:expiration_date;index" json:"expiration_date"`

	Status             Status         `gorm:"column:status;index" json:"status"`
	PaymentMethod      PaymentMethod  `gorm:"column:payment_method" json:"payment_method"`
	AmountPaid         float64        `gorm:"column:amount_paid" json:"amount_paid"`
	ExternalPaymentRef sql.NullString `gorm:"column:external_payment_ref" json:"external_payment_ref,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Card) TableName() string { return "cards" }

func (c *Card) Holder() (holder.Ref, error) {
	return holder.RefFromIDs(c.CustomerID, c.DependentID)
}

func (c *Card) IsSubscription() bool { return c.Category == catalog.CategorySubscription }

// UsableOn reports whether the card can serve a check-in on the given civil
// date: active, not past expiration and, for punch cards, credit left.
func (c *Card) UsableOn(today time.Time) bool {
	if c.Status != StatusActive || c.ExpirationDate.Before(today) {
		return false
	}
	if c.IsSubscription() {
		return true
	}
	return c.ClassesRemaining > 0
}
