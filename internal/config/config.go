package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Targets holds the base URL of every downstream service the gateway forwards to.
type Targets struct {
	Auth       string
	Users      string
	Invoices   string
	WorkOrders string
	Reports    string
}

// GatewayConfig contains runtime configuration required by the edge gateway.
type GatewayConfig struct {
	Port            string
	Targets         Targets
	RoutesFile      string
	JWTSecret       string
	RateLimitMax    int
	RateLimitWindow time.Duration
	RedisURL        string
	CORSOrigin      string
	LogMode         string
}

// ReportsConfig contains runtime configuration required by the reporting service.
type ReportsConfig struct {
	Port       string
	JWTSecret  string
	MongoURI   string
	BillingDB  string
	OrdersDB   string
	UsersDBURL string
	PageSize   int
	CORSOrigin string
	LogMode    string
}

// loadDotEnv reads a local .env if one exists. A missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// LoadGateway reads gateway settings from the environment.
// All five downstream base URLs are required and must be absolute http(s) URLs.
func LoadGateway() (GatewayConfig, error) {
	loadDotEnv()

	targets := Targets{
		Auth:       env("AUTH_SERVICE", ""),
		Users:      env("USERS_SERVICE", ""),
		Invoices:   env("INVOICES_SERVICE", ""),
		WorkOrders: env("WORKORDERS_SERVICE", ""),
		Reports:    env("REPORTS_SERVICE", ""),
	}
	for _, t := range []struct{ name, value string }{
		{"AUTH_SERVICE", targets.Auth},
		{"USERS_SERVICE", targets.Users},
		{"INVOICES_SERVICE", targets.Invoices},
		{"WORKORDERS_SERVICE", targets.WorkOrders},
		{"REPORTS_SERVICE", targets.Reports},
	} {
		if err := validateBaseURL(t.name, t.value); err != nil {
			return GatewayConfig{}, err
		}
	}

	limitMax, err := envInt("RATE_LIMIT_MAX", 100)
	if err != nil {
		return GatewayConfig{}, err
	}
	if limitMax <= 0 {
		return GatewayConfig{}, errors.New("RATE_LIMIT_MAX must be > 0")
	}
	window, err := envDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	if err != nil {
		return GatewayConfig{}, err
	}
	if window <= 0 {
		return GatewayConfig{}, errors.New("RATE_LIMIT_WINDOW must be > 0")
	}

	return GatewayConfig{
		Port:            env("PORT", "3000"),
		Targets:         targets,
		RoutesFile:      env("ROUTES_FILE", ""),
		JWTSecret:       env("JWT_SECRET", ""),
		RateLimitMax:    limitMax,
		RateLimitWindow: window,
		RedisURL:        env("REDIS_URL", ""),
		CORSOrigin:      env("CORS_ORIGIN", "*"),
		LogMode:         env("LOG_MODE", "development"),
	}, nil
}

// LoadReports reads reporting-service settings from the environment.
func LoadReports() (ReportsConfig, error) {
	loadDotEnv()

	secret := env("JWT_SECRET", "")
	if secret == "" {
		return ReportsConfig{}, errors.New("JWT_SECRET required")
	}
	usersDB := env("USERS_DB_URL", "")
	if usersDB == "" {
		return ReportsConfig{}, errors.New("USERS_DB_URL required")
	}
	pageSize, err := envInt("REPORT_PAGE_SIZE", 50)
	if err != nil {
		return ReportsConfig{}, err
	}
	if pageSize <= 0 {
		return ReportsConfig{}, errors.New("REPORT_PAGE_SIZE must be > 0")
	}

	return ReportsConfig{
		Port:       env("PORT", "8004"),
		JWTSecret:  secret,
		MongoURI:   env("MONGODB_URI", "mongodb://localhost:27017"),
		BillingDB:  env("MONGODB_BILLING_DB", "billing_db"),
		OrdersDB:   env("MONGODB_ORDERS_DB", "orders_db"),
		UsersDBURL: usersDB,
		PageSize:   pageSize,
		CORSOrigin: env("CORS_ORIGIN", "*"),
		LogMode:    env("LOG_MODE", "development"),
	}, nil
}

func env(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envInt(name string, def int) (int, error) {
	v := env(name, "")
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, err)
	}
	return i, nil
}

func envDuration(name string, def time.Duration) (time.Duration, error) {
	v := env(name, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", name, err)
	}
	return d, nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL", name)
	}
	return nil
}
