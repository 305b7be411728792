package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mnair/societypay/internal/config"
	"github.com/mnair/societypay/internal/roster"
	"github.com/mnair/societypay/internal/server"
	"github.com/mnair/societypay/internal/service"
	"github.com/mnair/societypay/internal/storage/sqlite"
	"github.com/mnair/societypay/internal/upi"
	"github.com/mnair/societypay/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.SetupWithOptions(logging.Options{
		Level:         cfg.Logging.Level,
		Format:        cfg.Logging.Format,
		Colored:       cfg.Logging.Colored,
		IncludeCaller: cfg.Logging.IncludeCaller,
	})

	// The roster is loaded once; a missing file or column is fatal since
	// the portal cannot identify plots without it.
	r, err := roster.Load(cfg.Portal.RosterPath)
	if err != nil {
		logger.Error("failed to load roster", "path", cfg.Portal.RosterPath, "error", err)
		os.Exit(1)
	}
	logger.Info("roster loaded", "path", cfg.Portal.RosterPath, "plots", r.Len(), "lanes", len(r.Lanes()))

	ledger, err := sqlite.New(cfg.Portal.DBPath)
	if err != nil {
		logger.Error("failed to initialize ledger", "path", cfg.Portal.DBPath, "error", err)
		os.Exit(1)
	}
	defer ledger.Close()
	logger.Info("ledger initialized", "database", cfg.Portal.DBPath)

	svc := service.NewPaymentService(r, ledger, service.Options{
		MonthlyFee: cfg.Portal.MonthlyFee,
		Links: upi.LinkBuilder{
			PayeeID:   cfg.Portal.UPIPayeeID,
			PayeeName: cfg.Portal.SocietyName,
		},
		LedgerTimeout: cfg.Portal.LedgerTimeout,
	})

	apiHandlers := server.NewAPIHandlers(logger, svc, r, cfg.Portal)
	router := server.NewRouter(logger, server.RouterDependencies{
		Ledger:         ledger,
		API:            apiHandlers,
		MetricsEnabled: cfg.HTTP.MetricsEnabled,
		AllowedOrigins: parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
