package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr              = ":8080"
	defaultJWTSecret         = "change-me-jwt-secret"
	defaultJWTTTL            = "24h"
	defaultInternalToken     = "change-me-internal-token"
	defaultStudioTimezone    = "America/New_York"
	defaultReminderDays      = "7,3,1"
	defaultLowBalance        = "2"
	defaultBalanceSweepEvery = "4h"
)

// Config carries the runtime settings for the API and the sweep jobs.
type Config struct {
	AppEnv      string
	Addr        string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	// InternalToken gates the /internal surface: payment confirmations and
	// the notification consumer.
	InternalToken string

	StudioTimezone string

	// ReminderDays are the exact days-until-expiry values that raise an
	// expiring-soon trigger.
	ReminderDays []int
	// LowBalanceThreshold is the classes_remaining ceiling (inclusive) for
	// low-balance triggers.
	LowBalanceThreshold int
	// BalanceSweepEvery is the cadence of the intraday low-balance pass; the
	// full sweep always runs daily.
	BalanceSweepEvery time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Addr = getEnv("ADDR", defaultAddr)
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.InternalToken = strings.TrimSpace(getEnv("INTERNAL_API_TOKEN", defaultInternalToken))
	cfg.StudioTimezone = strings.TrimSpace(getEnv("STUDIO_TIMEZONE", defaultStudioTimezone))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}
	cfg.BalanceSweepEvery, err = parseDurationEnv("BALANCE_SWEEP_EVERY", defaultBalanceSweepEvery)
	if err != nil {
		return nil, err
	}

	cfg.ReminderDays, err = parseIntListEnv("EXPIRY_REMINDER_DAYS", defaultReminderDays)
	if err != nil {
		return nil, err
	}

	threshold, err := strconv.Atoi(getEnv("LOW_BALANCE_THRESHOLD", defaultLowBalance))
	if err != nil || threshold < 1 {
		return nil, fmt.Errorf("invalid LOW_BALANCE_THRESHOLD")
	}
	cfg.LowBalanceThreshold = threshold

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key, fallback string) (time.Duration, error) {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseIntListEnv(key, fallback string) ([]int, error) {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid %s entry %q", key, p)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s is empty", key)
	}
	return out, nil
}
