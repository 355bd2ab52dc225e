package birthday

import (
	"database/sql"
	"time"

	"fitstudio/internal/domain/holder"
)

// Pass is a single-use, same-day free-class entitlement, independent of the
// card ledger.
type Pass struct {
	ID          string        `gorm:"column:id;primaryKey" json:"id"`
	CustomerID  sql.NullInt64 `gorm:"column:customer_id;index:idx_birthday_passes_customer_date,unique" json:"customer_id,omitempty"`
	DependentID sql.NullInt64 `gorm:"column:dependent_id;index:idx_birthday_passes_dependent_date,unique" json:"dependent_id,omitempty"`

	// ValidDate is the holder's birthday (civil date, UTC midnight) this
	// pass is good for; the unique indexes above pair it with the holder so
	// at most one pass exists per holder per date.
	ValidDate time.Time `gorm:"column:valid_date;index:idx_birthday_passes_customer_date,unique;index:idx_birthday_passes_dependent_date,unique" json:"valid_date"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`

	Used      bool          `gorm:"column:used" json:"used"`
	UsedAt    sql.NullTime  `gorm:"column:used_at" json:"used_at,omitempty"`
	CheckInID sql.NullInt64 `gorm:"column:check_in_id" json:"check_in_id,omitempty"`
	CreatedAt time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (Pass) TableName() string { return "birthday_passes" }

func (p *Pass) Holder() (holder.Ref, error) {
	return holder.RefFromIDs(p.CustomerID, p.DependentID)
}
