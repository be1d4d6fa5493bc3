package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sokho/sokho/internal/app"
	"github.com/sokho/sokho/internal/backup"
	"github.com/sokho/sokho/internal/ledger"
	"github.com/sokho/sokho/internal/masterdata"
	"github.com/sokho/sokho/internal/observability"
	"github.com/sokho/sokho/internal/platform/db"
	"github.com/sokho/sokho/internal/receiving"
	"github.com/sokho/sokho/internal/sales"
	"github.com/sokho/sokho/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	snapshots := store.NewPGRepository(dbpool)
	if err := snapshots.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}
	st, err := store.Open(ctx, snapshots)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("store loaded", slog.Uint64("version", st.Version()))

	metrics := observability.NewMetrics()

	masterdataHandler := masterdata.NewHandler(logger, masterdata.NewService(st))
	receivingHandler := receiving.NewHandler(logger, receiving.NewService(st))
	salesHandler := sales.NewHandler(logger, sales.NewService(st))
	inventoryHandler := ledger.NewHandler(logger, st, metrics)
	backupHandler := backup.NewHandler(logger, backup.NewService(st))

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		MasterDataHandler: masterdataHandler,
		ReceivingHandler:  receivingHandler,
		SalesHandler:      salesHandler,
		InventoryHandler:  inventoryHandler,
		BackupHandler:     backupHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
