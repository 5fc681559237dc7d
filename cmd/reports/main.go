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
	"github.com/PratikDhanave/backoffice-gateway/internal/render"
	"github.com/PratikDhanave/backoffice-gateway/internal/report"
	"github.com/PratikDhanave/backoffice-gateway/internal/store"
)

// main boots the reporting service: config → stores → engine → HTTP server.
func main() {
	cfg, err := config.LoadReports()
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

	docs, err := store.NewMongoStore(cfg.MongoURI, cfg.BillingDB, cfg.OrdersDB)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", "error", err)
	}
	defer docs.Close()

	users, err := store.NewPostgresStore(cfg.UsersDBURL)
	if err != nil {
		log.Fatal("failed to connect to users database", "error", err)
	}
	defer users.Close()

	engine := report.NewEngine(docs.Invoices(), docs.WorkOrders(), users, report.WithPageSize(cfg.PageSize))

	router := httpserver.NewReportsRouter(httpserver.ReportsDeps{
		Engine:     engine,
		Renderer:   render.NewRenderer(),
		Validator:  auth.NewJWTValidator(cfg.JWTSecret),
		Ready:      []httpserver.Pinger{docs, users},
		Log:        log,
		Metrics:    metrics.New("reports"),
		CORSOrigin: cfg.CORSOrigin,
	})

	if err := httpserver.Run(":"+cfg.Port, router, 40*time.Second, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}
