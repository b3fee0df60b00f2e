package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Config is the full environment-driven configuration. Whop credentials are
// required: the process refuses to start partially configured.
type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/royale.db"`

	WhopAPIURL          string `env:"WHOP_API_URL" envDefault:"https://api.whop.com"`
	WhopAPIKey          string `env:"WHOP_API_KEY,required"`
	WhopAppID           string `env:"WHOP_APP_ID,required"`
	WhopJWTPublicKey    string `env:"WHOP_JWT_PUBLIC_KEY,required"`
	WhopWebhookSecret   string `env:"WHOP_WEBHOOK_SECRET,required"`
	WhopPlanID          string `env:"WHOP_PLAN_ID,required"`
	WhopHostCompanyID   string `env:"WHOP_HOST_COMPANY_ID,required"`
	WhopLedgerAccountID string `env:"WHOP_LEDGER_ACCOUNT_ID,required"`
	WhopExperienceID    string `env:"WHOP_EXPERIENCE_ID"`
	AppURL              string `env:"APP_URL" envDefault:"http://localhost:3000"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	EntryFee       float64 `env:"ENTRY_FEE" envDefault:"5"`
	MinPlayers     int     `env:"MIN_PLAYERS" envDefault:"2"`
	PickSeconds    int     `env:"PICK_SECONDS" envDefault:"10"`
	FlipSeconds    int     `env:"FLIP_SECONDS" envDefault:"4"`
	ResultsSeconds int     `env:"RESULTS_SECONDS" envDefault:"4"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
