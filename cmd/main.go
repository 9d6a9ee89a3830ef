package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"facecrop/config"
	telegram "facecrop/internal/api"
	app "facecrop/internal/application"
	"facecrop/internal/container"
	"facecrop/internal/domain/port"
	"facecrop/internal/infrastructure/imaging"
	"facecrop/internal/infrastructure/logging"
	"facecrop/internal/infrastructure/storage"
	"facecrop/internal/infrastructure/vision"
)

func main() {
	os.Exit(run())
}

// run возвращает код выхода: 0 после обработки всех файлов, 1 при ошибке конфигурации.
func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			config.Usage(os.Stdout)
			return 0
		}
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	logger, err := logging.Open(cfg.LogFile)
	if err != nil {
		log.Printf("Failed to open log: %v", err)
		return 1
	}
	defer logger.Close()

	logger.Log("FACECROP - Face extraction program")
	logger.Log("==================================================")
	if cfg.SettingsFile != "" {
		logger.Log("Settings file " + cfg.SettingsFile)
	}

	detector, err := vision.New(cfg.Detector, cfg.CascadeFile)
	if err != nil {
		logger.Logf("Failed to create %s detector: %v", cfg.Detector, err)
		return 1
	}
	defer detector.Close()

	// Уведомления в Telegram необязательны
	var notifier port.Notifier
	if cfg.NotifyEnabled() {
		n, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Logf("Telegram notifier disabled: %v", err)
		} else {
			notifier = n
		}
	}

	appContainer := container.New(
		detector,
		imaging.NewFileStore(),
		storage.NewMemoryOutputRepository(),
		notifier,
		logger,
		cfg.Detection,
		cfg.OutputSpec(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := appContainer.BatchService.Run(ctx, app.BatchOptions{
		SourceFolder:     cfg.SourceFolder,
		FilePattern:      cfg.FileMask,
		RemoveDuplicates: cfg.RemoveDuplicates,
	})
	if err != nil {
		logger.Logf("Batch aborted: %v", err)
		return 1
	}

	logger.Log(report.Summary())
	return 0
}
