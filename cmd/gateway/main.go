package main

import (
	"fmt"
	"os"
	"time"

	"github.com/PratikDhanave/backoffice-gateway/internal/auth"
	"github.com/PratikDhanave/backoffice-gateway/internal/config"
	"github.com/PratikDhanave/backoffice-gateway/internal/httpserver"
	"github.com/PratikDhanave/backoffice-gateway/internal/logger"
	"github.com/PratikDhanave/backoffice-gateway/internal/metrics"
	"github.com/PratikDhanave/backoffice-gateway/internal/proxy"
	"github.com/PratikDhanave/backoffice-gateway/internal/ratelimit"
	"github.com/PratikDhanave/backoffice-gateway/internal/routing"
)

// main boots the gateway: config → route table → limiter → HTTP server.
func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	routes := routing.DefaultRoutes(cfg.Targets)
	if cfg.RoutesFile != "" {
		routes, err = routing.LoadRoutes(cfg.RoutesFile, cfg.Targets)
		if err != nil {
			log.Fatal("failed to load routes", "error", err, "file", cfg.RoutesFile)
		}
	}
	table, err := routing.NewTable(routes)
	if err != nil {
		log.Fatal("invalid route table", "error", err)
	}

	// A shared Redis counter keeps the budget global across replicas.
	var limiter ratelimit.Limiter = ratelimit.NewFixedWindow(cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.SystemClock)
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL", "error", err)
		}
		defer rdb.Close()
		limiter = ratelimit.NewRedisWindow(rdb, "gateway:ratelimit", cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.SystemClock)
	}

	var validator auth.Validator = auth.PassThrough{}
	if cfg.JWTSecret != "" {
		validator = auth.NewJWTValidator(cfg.JWTSecret)
	}

	router := httpserver.NewGatewayRouter(httpserver.GatewayDeps{
		Table:      table,
		Limiter:    limiter,
		Validator:  validator,
		Dispatcher: proxy.New(nil),
		Log:        log,
		Metrics:    metrics.New("gateway"),
		CORSOrigin: cfg.CORSOrigin,
	})

	for _, r := range table.Routes() {
		log.Info("route registered", "name", r.Name, "prefix", r.Prefix, "target", r.Target, "auth", r.AuthRequired, "class", r.Class.String())
	}

	if err := httpserver.Run(":"+cfg.Port, router, 35*time.Second, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
