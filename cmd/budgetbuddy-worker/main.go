package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/cache"
	"budgetbuddy/internal/cli"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/sheets"
	gsheet "budgetbuddy/internal/sheets/google"
	"budgetbuddy/internal/worker"
)

const alertCleanupInterval = 10 * time.Minute

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig("")
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg)
	logger.Info("Starting budgetbuddy-worker", log.FieldOperation, log.OpStartup)

	if !cfg.EventsEnabled() {
		cli.Fatal(logger, "Worker needs an event bus", errors.New("AMQP_URL is not set"))
	}

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	var exporter sheets.SummaryExporter
	if cfg.SheetsEnabled() {
		client, err := gsheet.New(ctx, gsheet.Settings{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsJSON: cfg.GoogleServiceAccountJSON,
			CredentialsFile: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			cli.Fatal(logger, "Failed to initialize Google Sheets client", err)
		}
		if err := client.EnsureHeader(ctx); err != nil {
			// Appends still work; the sheet just lacks titles.
			logger.Warn("Failed to write sheet header", log.FieldError, err)
		}
		exporter = client
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer amqpClient.Close()

	w := worker.NewAlertWorker(exporter, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := amqpClient.ConsumeLedgerEvents(gctx, w.HandleLedgerEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return cache.RunCleanup(gctx, alertCleanupInterval, func(n int) {
			logger.Debug("Expired alert state", "entries", n)
		}, w.AlertState())
	})

	if err := g.Wait(); err != nil {
		logger.Error("Message consumption failed", log.FieldError, err)
		return
	}
	logger.Info("Worker shutdown complete", log.FieldOperation, log.OpShutdown)
}
