package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fitstudio/internal/config"
	"fitstudio/internal/database"
	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/pkg/clock"
	"fitstudio/internal/pkg/logger"
	"fitstudio/internal/scheduler"
)

// One-shot sweep for cron or operator use; the API process runs the same
// sweep on its own schedule.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(cfg.AppEnv)

	studio, err := clock.NewStudio(cfg.StudioTimezone)
	if err != nil {
		log.Fatal().Err(err).Msg("studio timezone")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	holderRepo := holder.NewRepository(db)
	notifier := notification.NewService(notification.NewRepository(db))
	cardService := card.NewService(card.NewRepository(db), catalog.NewRepository(db), holderRepo, notifier, studio)
	passService := birthday.NewService(birthday.NewRepository(db), holderRepo, studio)

	s := scheduler.New(cardService, passService, notifier, studio, cfg.ReminderDays, cfg.LowBalanceThreshold, cfg.BalanceSweepEvery)
	summary := s.RunDailySweep(context.Background())
	summary.Log()
	for _, e := range summary.Errors {
		log.Warn().Str("item", e).Msg("sweep item failed")
	}
}
