package main

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"fitstudio/internal/config"
	"fitstudio/internal/database"
	"fitstudio/internal/domain/auth"
	"fitstudio/internal/domain/birthday"
	"fitstudio/internal/domain/card"
	"fitstudio/internal/domain/catalog"
	"fitstudio/internal/domain/checkin"
	"fitstudio/internal/domain/feed"
	"fitstudio/internal/domain/holder"
	"fitstudio/internal/domain/notification"
	"fitstudio/internal/domain/payment"
	"fitstudio/internal/middleware"
	"fitstudio/internal/pkg/clock"
	jwtsvc "fitstudio/internal/pkg/jwt"
	"fitstudio/internal/pkg/logger"
	"fitstudio/internal/scheduler"
)

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
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	holderRepo := holder.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	cardRepo := card.NewRepository(db)
	passRepo := birthday.NewRepository(db)
	checkinRepo := checkin.NewRepository(db)
	triggerRepo := notification.NewRepository(db)
	staffRepo := auth.NewRepository(db)

	notifier := notification.NewService(triggerRepo)
	catalogService := catalog.NewService(catalogRepo)
	cardService := card.NewService(cardRepo, catalogRepo, holderRepo, notifier, studio)
	passService := birthday.NewService(passRepo, holderRepo, studio)
	authService := auth.NewService(staffRepo, j)

	hub := feed.NewHub()
	checkinService := checkin.NewService(
		checkinRepo,
		cardService,
		passService,
		holderRepo,
		notifier,
		staffRepo,
		hub,
		cfg.LowBalanceThreshold,
	)

	sweeper := scheduler.New(
		cardService,
		passService,
		notifier,
		studio,
		cfg.ReminderDays,
		cfg.LowBalanceThreshold,
		cfg.BalanceSweepEvery,
	)
	// main is the lifecycle owner: the sweep starts exactly once here, and
	// /admin/scheduler/run is the manual trigger for everything else.
	sweeper.Start(context.Background())

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinLogger())
	r.Use(cors.Default())

	authHandler := auth.NewHandler(authService)
	holderHandler := holder.NewHandler(holderRepo)
	catalogHandler := catalog.NewHandler(catalogService)
	cardHandler := card.NewHandler(cardService)
	checkinHandler := checkin.NewHandler(checkinService, studio)
	birthdayHandler := birthday.NewHandler(passService)
	notificationHandler := notification.NewHandler(notifier)
	paymentHandler := payment.NewHandler(cardService)
	schedulerHandler := scheduler.NewHandler(sweeper)

	v1 := r.Group("/api/v1")
	{
		auth.RegisterPublicRoutes(v1, authHandler)

		staff := v1.Group("/")
		staff.Use(middleware.Auth(j))
		{
			holder.RegisterStaffRoutes(staff, holderHandler)
			catalog.RegisterStaffRoutes(staff, catalogHandler)
			card.RegisterStaffRoutes(staff, cardHandler)
			checkin.RegisterStaffRoutes(staff, checkinHandler)
			birthday.RegisterStaffRoutes(staff, birthdayHandler)
			feed.RegisterStaffRoutes(staff, hub)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(j), middleware.RequireRole(auth.RoleAdmin))
		{
			catalog.RegisterAdminRoutes(admin, catalogHandler)
			card.RegisterAdminRoutes(admin, cardHandler)
			scheduler.RegisterAdminRoutes(admin, schedulerHandler)
		}

		internal := v1.Group("/internal")
		internal.Use(middleware.InternalToken(cfg.InternalToken))
		{
			payment.RegisterInternalRoutes(internal, paymentHandler)
			notification.RegisterInternalRoutes(internal, notificationHandler)
		}
	}

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server")
	}
}
