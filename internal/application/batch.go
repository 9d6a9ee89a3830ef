package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// BatchOptions параметры пакетного прохода
type BatchOptions struct {
	SourceFolder     string // каталог исходников
	FilePattern      string // маска файлов, например *.*
	RemoveDuplicates bool   // удалить дубликаты после извлечения
}

// BatchService обходит каталог исходников и собирает итог
type BatchService struct {
	extractor *ExtractionService
	dedup     *DedupService
	outputs   port.OutputRepository
	notifier  port.Notifier
	logger    port.Logger
	now       func() time.Time
}

// NewBatchService создаёт сервис пакетной обработки. outputs и notifier могут быть nil.
func NewBatchService(
	extractor *ExtractionService,
	dedup *DedupService,
	outputs port.OutputRepository,
	notifier port.Notifier,
	logger port.Logger,
) *BatchService {
	return &BatchService{
		extractor: extractor,
		dedup:     dedup,
		outputs:   outputs,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
	}
}

// Run обрабатывает все подходящие файлы каталога по одному.
// Ошибки отдельных файлов только журналируются; наружу выходит
// лишь ошибка конфигурации (нет каталога исходников, плохая маска, не создать каталог результатов).
func (s *BatchService) Run(ctx context.Context, opts BatchOptions) (*entity.BatchReport, error) {
	start := s.now()
	spec := s.extractor.Spec()
	report := &entity.BatchReport{SourceFolder: opts.SourceFolder, DestFolder: spec.DestFolder}

	if err := os.MkdirAll(spec.DestFolder, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create destination folder: %v", entity.ErrConfig, err)
	}

	pattern := opts.FilePattern
	if pattern == "" {
		pattern = "*.*"
	}
	files, err := listMatching(opts.SourceFolder, pattern)
	if err != nil {
		if errors.Is(err, entity.ErrConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read source folder: %v", entity.ErrConfig, err)
	}

	seq := entity.NewSequence()
	for _, f := range files {
		if ctx.Err() != nil {
			report.Interrupted = true
			s.logger.Log("Interrupted, stopping before " + f)
			break
		}

		s.logger.Log("Processing file " + f)
		res, err := s.extractor.Extract(ctx, f, seq)
		if err != nil {
			report.FilesFailed++
			continue
		}
		report.FilesProcessed++
		report.FacesFound += res.Detected
		report.OutputsWritten += len(res.Written)
		report.WriteFailures += len(res.Errors)
	}

	if opts.RemoveDuplicates && !report.Interrupted {
		res, err := s.dedup.RemoveDuplicates(ctx, spec.DestFolder, spec.Pattern())
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			report.Interrupted = true
			s.logger.Log("Interrupted, stopping duplicate removal")
		case err != nil:
			s.logger.Logf("Error removing duplicates: %v", err)
		}
		if res != nil {
			report.DuplicatesRemoved = res.Removed
			report.DeleteFailures = res.Failures
		}
	}

	s.collectKept(ctx, report)

	report.Elapsed = s.now().Sub(start)
	s.logger.Logf("Done: %d files processed, %d failed, %d faces written, %d duplicates removed, %d kept",
		report.FilesProcessed, report.FilesFailed, report.OutputsWritten, report.DuplicatesRemoved, report.OutputsKept)

	if s.notifier != nil {
		// Итог отправляем и после прерывания.
		if err := s.notifier.Notify(context.WithoutCancel(ctx), report); err != nil {
			s.logger.Logf("Error sending notification: %v", err)
		}
	}

	return report, nil
}

// collectKept считает и журналирует выходные файлы, пережившие удаление дубликатов
func (s *BatchService) collectKept(ctx context.Context, report *entity.BatchReport) {
	if s.outputs == nil {
		report.OutputsKept = report.OutputsWritten - report.DuplicatesRemoved
		return
	}

	files, err := s.outputs.List(ctx)
	if err != nil {
		s.logger.Logf("Error listing outputs: %v", err)
		report.OutputsKept = report.OutputsWritten - report.DuplicatesRemoved
		return
	}

	for _, f := range files {
		if f.Removed {
			continue
		}
		report.OutputsKept++
		s.logger.Logf("Kept %s (from %s)", f.Path, f.Source)
	}
}
