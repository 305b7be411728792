// Package config reads application configuration from environment
// variables, applying defaults suitable for a single-society deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Portal  PortalConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
}

// PortalConfig holds the society-specific settings.
type PortalConfig struct {
	// RosterPath points at the resident/plot CSV.
	RosterPath string
	// DBPath is the SQLite ledger location.
	DBPath string
	// MonthlyFee is the maintenance fee per plot per month.
	MonthlyFee decimal.Decimal
	// UPIPayeeID is the society's collection VPA.
	UPIPayeeID string
	// SocietyName is the short name shown in payment apps.
	SocietyName string
	// SocietyNameFull is the full association name for page headers.
	SocietyNameFull string
	// FirstBillingYear..LastBillingYear bound the year selector.
	FirstBillingYear int
	LastBillingYear  int
	// LedgerTimeout bounds each remote ledger call.
	LedgerTimeout time.Duration
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	Colored       bool
	IncludeCaller bool
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 8080
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultLedgerTimeout   = 10 * time.Second
	defaultLoggingLevel    = "info"
	defaultLoggingFormat   = "text"
	defaultRosterPath      = "./data.csv"
	defaultDBPath          = "./data/ledger.db"
	defaultMonthlyFee      = "300"
	defaultSocietyName     = "RPE Association"
	defaultSocietyFull     = "RPE Owners/Residents Association"
	defaultFirstYear       = 2022
	defaultLastYear        = 2028
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Portal: PortalConfig{
			RosterPath:       valueOrDefault("ROSTER_PATH", defaultRosterPath),
			DBPath:           valueOrDefault("DB_PATH", defaultDBPath),
			UPIPayeeID:       valueOrDefault("UPI_PAYEE_ID", "treasurer@upi"),
			SocietyName:      valueOrDefault("SOCIETY_NAME", defaultSocietyName),
			SocietyNameFull:  valueOrDefault("SOCIETY_NAME_FULL", defaultSocietyFull),
			FirstBillingYear: parseIntWithDefault("FIRST_BILLING_YEAR", defaultFirstYear),
			LastBillingYear:  parseIntWithDefault("LAST_BILLING_YEAR", defaultLastYear),
			LedgerTimeout:    defaultLedgerTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			Colored:       parseBoolWithDefault("LOG_COLOR", true),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	fee, err := decimal.NewFromString(valueOrDefault("MONTHLY_FEE", defaultMonthlyFee))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MONTHLY_FEE: %w", err)
	}
	if !fee.IsPositive() {
		return Config{}, fmt.Errorf("MONTHLY_FEE must be positive, got %s", fee)
	}
	cfg.Portal.MonthlyFee = fee

	if cfg.Portal.FirstBillingYear > cfg.Portal.LastBillingYear {
		return Config{}, fmt.Errorf("FIRST_BILLING_YEAR %d is after LAST_BILLING_YEAR %d",
			cfg.Portal.FirstBillingYear, cfg.Portal.LastBillingYear)
	}

	for _, entry := range []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"LEDGER_TIMEOUT", &cfg.Portal.LedgerTimeout},
	} {
		if v := os.Getenv(entry.key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", entry.key, err)
			}
			*entry.target = d
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", true)
	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")

	return cfg, nil
}

// Years lists the selectable billing years in ascending order.
func (p PortalConfig) Years() []int {
	years := make([]int, 0, p.LastBillingYear-p.FirstBillingYear+1)
	for y := p.FirstBillingYear; y <= p.LastBillingYear; y++ {
		years = append(years, y)
	}
	return years
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
