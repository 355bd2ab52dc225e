package checkin

import (
	"database/sql"
	"time"

	"fitstudio/internal/domain/holder"
)

// CheckIn is the append-only attendance record. Rows are never mutated after
// creation; the birthday pass link is attached at creation time.
type CheckIn struct {
	ID          int64         `gorm:"column:id;primaryKey" json:"id"`
	CustomerID  sql.NullInt64 `gorm:"column:customer_id;index" json:"customer_id,omitempty"`
	DependentID sql.NullInt64 `gorm:"column:dependent_id;index" json:"dependent_id,omitempty"`

	// CardID is null for birthday check-ins.
	CardID            sql.NullInt64  `gorm:"column:card_id" json:"card_id,omitempty"`
	IsBirthdayCheckIn bool           `gorm:"column:is_birthday_checkin" json:"is_birthday_checkin"`
	BirthdayPassID    sql.NullString `gorm:"column:birthday_pass_id" json:"birthday_pass_id,omitempty"`

	CheckedInAt time.Time      `gorm:"column:checked_in_at;index" json:"checked_in_at"`
	PerformedBy int64          `gorm:"column:performed_by" json:"performed_by"`
	Notes       sql.NullString `gorm:"column:notes" json:"notes,omitempty"`
}

func (CheckIn) TableName() string { return "check_ins" }

func (ci *CheckIn) Holder() (holder.Ref, error) {
	return holder.RefFromIDs(ci.CustomerID, ci.DependentID)
}

// Mode selects the check-in branch.
type Mode string

const (
	// ModeStandard resolves the holder's active card and deducts from punch
	// cards; subscriptions record attendance only.
	ModeStandard Mode = "standard"
	// ModeBirthdayPass is the legacy flow that validates and consumes a
	// stored pass.
	ModeBirthdayPass Mode = "birthday_pass"
	// ModeBirthdayDirect records a free birthday class with no pass lookup;
	// used when the morning birthday notification already went out.
	ModeBirthdayDirect Mode = "birthday_direct"
)

// BirthdayClassLabel is shown in place of a card type name.
const BirthdayClassLabel = "Birthday Class"
