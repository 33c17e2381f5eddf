package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds application configuration. The financial tables (VAT rates,
// filing offset, exchange rates) are configuration rather than code
// constants so historical periods can be recomputed against the values that
// applied at the time.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	RateLimit    string

	// Base currency all reports are expressed in.
	BaseCurrency string
	// FXRates maps a foreign currency code to its value in the base
	// currency (static lookup, no consolidation).
	FXRates map[string]float64

	// Nominal VAT rates as fractions.
	VATStandardRate float64
	VATReducedRate  float64
	VATLodgingRate  float64
	// Tolerance in percentage points when matching a normalized invoice
	// rate against a bucket's nominal rate.
	VATRateTolerancePP float64

	// Months between a quarter's end and its statutory filing deadline.
	FilingOffsetMonths int
	// Window before the deadline in which a declaration counts as due soon.
	DueSoonThreshold time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("BASE_CURRENCY", "CHF")
	viper.SetDefault("FX_RATES", "EUR=0.93,USD=0.88")
	viper.SetDefault("VAT_RATE_STANDARD", 0.081)
	viper.SetDefault("VAT_RATE_REDUCED", 0.026)
	viper.SetDefault("VAT_RATE_LODGING", 0.038)
	viper.SetDefault("VAT_RATE_TOLERANCE_PP", 0.5)
	viper.SetDefault("FILING_OFFSET_MONTHS", 2)
	viper.SetDefault("DUE_SOON_DAYS", 30)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.FXRates = parseFXRates(viper.GetString("FX_RATES"))

	cfg.VATStandardRate = viper.GetFloat64("VAT_RATE_STANDARD")
	cfg.VATReducedRate = viper.GetFloat64("VAT_RATE_REDUCED")
	cfg.VATLodgingRate = viper.GetFloat64("VAT_RATE_LODGING")
	cfg.VATRateTolerancePP = viper.GetFloat64("VAT_RATE_TOLERANCE_PP")

	cfg.FilingOffsetMonths = viper.GetInt("FILING_OFFSET_MONTHS")
	if cfg.FilingOffsetMonths <= 0 {
		cfg.FilingOffsetMonths = 2
		log.Printf("Warning: Invalid FILING_OFFSET_MONTHS. Defaulting to %d.\n", cfg.FilingOffsetMonths)
	}

	dueSoonDays := viper.GetInt("DUE_SOON_DAYS")
	if dueSoonDays <= 0 {
		dueSoonDays = 30
		log.Printf("Warning: Invalid DUE_SOON_DAYS. Defaulting to %d.\n", dueSoonDays)
	}
	cfg.DueSoonThreshold = time.Duration(dueSoonDays) * 24 * time.Hour

	return cfg, nil
}

// parseFXRates parses a "EUR=0.93,USD=0.88" style rate list. Malformed
// pairs are skipped with a warning rather than failing startup.
func parseFXRates(raw string) map[string]float64 {
	rates := make(map[string]float64)
	if raw == "" {
		return rates
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			log.Printf("Warning: Skipping malformed FX rate entry %q.\n", pair)
			continue
		}
		rate, err := cast.ToFloat64E(parts[1])
		if err != nil || rate <= 0 {
			log.Printf("Warning: Skipping FX rate with invalid value %q.\n", pair)
			continue
		}
		rates[strings.ToUpper(parts[0])] = rate
	}
	return rates
}
