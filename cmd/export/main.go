// Command export pulls the consultation book from the collaborator and
// writes it to an xlsx workbook under the configured exports path.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"servaura/internal/config"
	"servaura/internal/events"
	"servaura/internal/export"
	"servaura/internal/logging"
	"servaura/internal/remote"
	"servaura/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := baseLogger.With().Str("component", "export-main").Logger()

	client := remote.NewClient(cfg.Remote, &logger)
	book := store.NewConsultationStore(client, events.NewEventBus(), &logger)

	if cfg.Seed.Path != "" {
		consultations, availability, err := store.LoadSeedFile(cfg.Seed.Path)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Seed.Path).Msg("seed override not loaded")
		} else {
			book.SetSeed(consultations, availability)
		}
	}

	// Seed data fills in when the collaborator is unreachable.
	if err := book.Refresh(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("refresh degraded, exporting fallback data")
	}

	path, err := export.NewExporter(cfg.Exports.Path, &logger).
		ConsultationsToExcel(book.Consultations())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	logger.Info().Str("file", path).Msg("export complete")
	return nil
}
