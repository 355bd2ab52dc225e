package catalog

import "time"

// Category separates fixed-credit punch cards from unlimited subscriptions.
type Category string

const (
	CategoryPunchCard    Category = "punch_card"
	CategorySubscription Category = "subscription"
)

// CardType is an admin-managed card definition. The check-in engine treats
// the catalog as read-only.
type CardType struct {
	ID       int64    `gorm:"column:id;primaryKey" json:"id"`
	Name     string   `gorm:"column:name" json:"name"`
	Category Category `gorm:"column:category" json:"category"`

	// ClassCount is ignored for subscriptions.
	ClassCount     int     `gorm:"column:class_count" json:"class_count"`
	ValidityMonths int     `gorm:"column:validity_months" json:"validity_months"`
	Price          float64 `gorm:"column:price" json:"price"`

	IsActive  bool      `gorm:"column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CardType) TableName() string { return "card_types" }

func (t *CardType) IsSubscription() bool { return t.Category == CategorySubscription }
