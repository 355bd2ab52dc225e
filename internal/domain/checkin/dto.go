package checkin

import (
	"time"

	"fitstudio/internal/domain/holder"
)

// Request is one check-in attempt. The holder comes either from the id pair
// or from a scanned code; mode defaults to standard.
type Request struct {
	holder.Params
	Code  string `json:"code"`
	Mode  string `json:"mode" binding:"omitempty,oneof=standard birthday_pass birthday_direct"`
	Notes string `json:"notes"`
}

// DetailView is the front-desk confirmation joining holder, card and staff.
type DetailView struct {
	CheckInID         int64     `json:"check_in_id"`
	HolderName        string    `json:"holder_name"`
	CardID            *int64    `json:"card_id,omitempty"`
	CardTypeName      string    `json:"card_type_name"`
	ClassesRemaining  *int      `json:"classes_remaining,omitempty"`
	IsBirthdayCheckIn bool      `json:"is_birthday_checkin"`
	CheckedInAt       time.Time `json:"checked_in_at"`
	PerformedByName   string    `json:"performed_by_name"`
	Notes             string    `json:"notes,omitempty"`
}
