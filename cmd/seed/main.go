package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fitstudio/internal/database"
	"fitstudio/internal/domain/auth"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/pkg/logger"
)

// Seeds a fresh database with a staff admin, the card catalog (including the
// dedicated "Admin Pass" entry) and a couple of demo holders.
func main() {
	_ = godotenv.Load()
	logger.Init("dev")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	hash, err := auth.HashPassword(getenv("SEED_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		log.Fatal().Err(err).Msg("hash password")
	}
	admin := &auth.Staff{
		Name:         "Studio Admin",
		Email:        getenv("SEED_ADMIN_EMAIL", "admin@fitstudio.local"),
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := db.Where(auth.Staff{Email: admin.Email}).FirstOrCreate(admin).Error; err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}

	now := time.Now()
	types := []catalog.CardType{
		{Name: "Admin Pass", Category: catalog.CategoryPunchCard, ClassCount: 1, ValidityMonths: 1, Price: 0},
		{Name: "5 Class Card", Category: catalog.CategoryPunchCard, ClassCount: 5, ValidityMonths: 3, Price: 75},
		{Name: "10 Class Card", Category: catalog.CategoryPunchCard, ClassCount: 10, ValidityMonths: 6, Price: 140},
		{Name: "20 Class Card", Category: catalog.CategoryPunchCard, ClassCount: 20, ValidityMonths: 12, Price: 260},
		{Name: "Monthly Unlimited", Category: catalog.CategorySubscription, ValidityMonths: 1, Price: 120},
		{Name: "Annual Unlimited", Category: catalog.CategorySubscription, ValidityMonths: 12, Price: 1100},
	}
	for i := range types {
		t := &types[i]
		t.IsActive = true
		t.CreatedAt = now
		t.UpdatedAt = now
		if err := db.Where(catalog.CardType{Name: t.Name}).FirstOrCreate(t).Error; err != nil {
			log.Fatal().Err(err).Str("type", t.Name).Msg("seed card type")
		}
	}

	demo := &holder.Customer{
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     sql.NullString{String: "dana@example.com", Valid: true},
		BirthDate: sql.NullString{String: "1991-04-17", Valid: true},
		CreatedAt: now,
	}
	if err := db.Where(holder.Customer{FirstName: demo.FirstName, LastName: demo.LastName}).FirstOrCreate(demo).Error; err != nil {
		log.Fatal().Err(err).Msg("seed customer")
	}
	dep := &holder.Dependent{
		CustomerID: demo.ID,
		FirstName:  "Milo",
		LastName:   "Whitfield",
		Relation:   sql.NullString{String: "Son", Valid: true},
		BirthDate:  sql.NullString{String: "2015-09-01", Valid: true},
		CreatedAt:  now,
	}
	if err := db.Where(holder.Dependent{CustomerID: demo.ID, FirstName: dep.FirstName}).FirstOrCreate(dep).Error; err != nil {
		log.Fatal().Err(err).Msg("seed dependent")
	}

	code, _ := holder.EncodeCode(holder.CustomerRef(demo.ID))
	log.Info().
		Str("admin", admin.Email).
		Str("demo_customer_code", code).
		Msg("seed complete")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
