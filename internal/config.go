package internal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries the session policy knobs for the shop core.
type Config struct {
	Env      string
	LogLevel string

	// CurrencyCode is the session currency (the sample shop sells in EUR).
	CurrencyCode string

	// OrdersEnabledWhenShopClosed substitutes ClosedShopQuantityOverride for
	// zero-availability products. Development convenience for testing orders
	// against a closed shop.
	OrdersEnabledWhenShopClosed bool
	ClosedShopQuantityOverride  int

	// ClampNegativeTotal forfeits discount excess beyond the subtotal.
	ClampNegativeTotal bool

	// EvaluationTimeout bounds each promotion evaluation task.
	EvaluationTimeout time.Duration

	// AutomaticDataRefresh keeps catalog/shop observers registered. Disabled
	// only when exercising the fetch methods in isolation.
	AutomaticDataRefresh bool
}

// NewConfig loads configuration from the environment, with .env support.
func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				break
			}
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHOP_CURRENCY", "EUR")
	v.SetDefault("ORDERS_ENABLED_WHEN_SHOP_CLOSED", false)
	v.SetDefault("CLOSED_SHOP_QUANTITY_OVERRIDE", 999)
	v.SetDefault("CLAMP_NEGATIVE_TOTAL", true)
	v.SetDefault("EVALUATION_TIMEOUT", "10s")
	v.SetDefault("AUTOMATIC_DATA_REFRESH", true)

	cfg := &Config{
		Env:                         v.GetString("APP_ENV"),
		LogLevel:                    v.GetString("LOG_LEVEL"),
		CurrencyCode:                v.GetString("SHOP_CURRENCY"),
		OrdersEnabledWhenShopClosed: v.GetBool("ORDERS_ENABLED_WHEN_SHOP_CLOSED"),
		ClosedShopQuantityOverride:  v.GetInt("CLOSED_SHOP_QUANTITY_OVERRIDE"),
		ClampNegativeTotal:          v.GetBool("CLAMP_NEGATIVE_TOTAL"),
		EvaluationTimeout:           v.GetDuration("EVALUATION_TIMEOUT"),
		AutomaticDataRefresh:        v.GetBool("AUTOMATIC_DATA_REFRESH"),
	}

	return cfg, nil
}
