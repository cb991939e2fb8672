package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cluborder/internal/barcode"
	"cluborder/internal/catalog"
	"cluborder/internal/config"
	"cluborder/internal/httpserver"
	"cluborder/internal/notify"
	"cluborder/internal/wizard"
)

func main() {
	cfg := config.FromEnv()
	logger := buildLogger(cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			logger.Fatal("load catalog", zap.Error(err))
		}
		cat = loaded
		logger.Info("catalog loaded from file", zap.String("path", cfg.CatalogPath))
	}

	emailClient := notify.NewEmailClient(cfg.EmailWebhookURL, http.DefaultClient, logger)
	sheetClient := notify.NewSheetClient(cfg.SheetWebhookURL, cfg.SheetSecret, http.DefaultClient, logger)
	notifier := notify.NewNotifier(emailClient, sheetClient,
		cfg.ClubName, cfg.Currency, cfg.IBAN, cfg.PaymentModel,
		cfg.NotificationEmails, logger)

	wizardService := wizard.New(cat, &cfg, notifier, logger)
	renderer := barcode.NewRenderer(logger)

	srv, err := httpserver.New(cfg.HTTPAddr, httpserver.Deps{
		Wizard:         wizardService,
		Catalog:        cat,
		Renderer:       renderer,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.Stringer("signal", sig))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func buildLogger(env string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
