package container

import (
	app "facecrop/internal/application"
	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

type Container struct {
	ExtractionService *app.ExtractionService
	DedupService      *app.DedupService
	BatchService      *app.BatchService
}

// New собирает сервисы приложения. notifier может быть nil.
func New(
	detector port.FaceDetector,
	store port.ImageStore,
	outputs port.OutputRepository,
	notifier port.Notifier,
	logger port.Logger,
	params entity.DetectionParams,
	spec entity.OutputSpec,
) *Container {
	extractionService := app.NewExtractionService(detector, store, outputs, logger, params, spec)
	dedupService := app.NewDedupService(store, outputs, logger)
	batchService := app.NewBatchService(extractionService, dedupService, outputs, notifier, logger)

	return &Container{
		ExtractionService: extractionService,
		DedupService:      dedupService,
		BatchService:      batchService,
	}
}
