package app

import (
	"context"
	"errors"
	"fmt"
	"image"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
	"facecrop/internal/infrastructure/imaging"
)

// ExtractionService вырезает лица из одного исходного изображения
type ExtractionService struct {
	detector port.FaceDetector
	store    port.ImageStore
	outputs  port.OutputRepository
	logger   port.Logger
	params   entity.DetectionParams
	spec     entity.OutputSpec
}

// ExtractResult итог обработки одного исходника
type ExtractResult struct {
	Source   string              // путь исходника
	Detected int                 // число найденных областей
	Written  []entity.OutputFile // записанные файлы
	Errors   []error             // ошибки отдельных областей
}

// NewExtractionService создаёт сервис извлечения лиц
func NewExtractionService(
	detector port.FaceDetector,
	store port.ImageStore,
	outputs port.OutputRepository,
	logger port.Logger,
	params entity.DetectionParams,
	spec entity.OutputSpec,
) *ExtractionService {
	return &ExtractionService{
		detector: detector,
		store:    store,
		outputs:  outputs,
		logger:   logger,
		params:   params,
		spec:     spec,
	}
}

// Spec возвращает параметры вывода
func (s *ExtractionService) Spec() entity.OutputSpec {
	return s.spec
}

// Extract декодирует изображение, ищет лица и пишет каждое в отдельный файл.
// Ошибка уровня файла (декодирование, детекция) возвращается вторым значением,
// ошибки отдельных областей копятся в ExtractResult.Errors.
// Счётчик seq увеличивается один раз на каждую вырезанную область,
// до записи файла.
func (s *ExtractionService) Extract(ctx context.Context, imagePath string, seq *entity.Sequence) (*ExtractResult, error) {
	res := &ExtractResult{Source: imagePath}

	if s.detector == nil {
		return res, s.fail(imagePath, fmt.Errorf("%w: detector is not configured", entity.ErrDetection))
	}

	img, err := s.store.Load(imagePath)
	if err != nil {
		return res, s.fail(imagePath, err)
	}

	regions, err := s.detect(ctx, img)
	if err != nil {
		return res, s.fail(imagePath, err)
	}

	res.Detected = len(regions)
	s.logger.Logf("Detected %d faces", len(regions))

	for _, region := range regions {
		out, err := s.writeRegion(ctx, img, imagePath, region, seq)
		if err != nil {
			res.Errors = append(res.Errors, err)
			s.logger.Logf("Error writing face from %s: %v", imagePath, err)
			continue
		}
		res.Written = append(res.Written, out)
	}

	return res, nil
}

// detect вызывает детектор, превращая его панику в ошибку
func (s *ExtractionService) detect(ctx context.Context, img image.Image) (regions []entity.Region, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: detector panic: %v", entity.ErrDetection, r)
		}
	}()

	regions, err = s.detector.Detect(ctx, img, s.params)
	if err != nil && !errors.Is(err, entity.ErrDetection) {
		err = fmt.Errorf("%w: %v", entity.ErrDetection, err)
	}
	return regions, err
}

func (s *ExtractionService) writeRegion(ctx context.Context, img image.Image, source string, region entity.Region, seq *entity.Sequence) (entity.OutputFile, error) {
	face, err := imaging.CropResize(img, region, s.spec.Size)
	if err != nil {
		return entity.OutputFile{}, fmt.Errorf("%w: region %+v: %v", entity.ErrEncode, region, err)
	}

	// Номер выдаётся до записи и не переиспользуется при ошибке записи.
	n := seq.Next()
	path := s.spec.Path(n)

	s.logger.Log("Output file " + path)
	if err := s.store.Save(face, path, s.spec.Format); err != nil {
		return entity.OutputFile{}, err
	}

	out := entity.OutputFile{Path: path, Source: source, Seq: n, Region: region}
	if s.outputs != nil {
		if err := s.outputs.Add(ctx, out); err != nil {
			s.logger.Logf("Error recording output %s: %v", path, err)
		}
	}
	return out, nil
}

func (s *ExtractionService) fail(imagePath string, err error) error {
	s.logger.Logf("Error processing file %s: %v", imagePath, err)
	return err
}
