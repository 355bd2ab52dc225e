package database

import (
	"gorm.io/gorm"

	"fitstudio/internal/domain/auth"
	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/checkin"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.Staff{},
		&holder.Customer{},
		&holder.Dependent{},
		&catalog.CardType{},
		&card.Card{},
		&birthday.Pass{},
		&checkin.CheckIn{},
		&notification.Trigger{},
	)
}
