//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// HaarDetector детектор лиц на каскаде Хаара OpenCV
type HaarDetector struct {
	classifier gocv.CascadeClassifier
	// CascadeClassifier не потокобезопасен
	mu sync.Mutex
	// Equalize выравнивает гистограмму перед поиском
	Equalize bool
}

// NewHaarDetector загружает XML-каскад OpenCV
func NewHaarDetector(cascadePath string) (*HaarDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("load cascade file %s", cascadePath)
	}
	return &HaarDetector{classifier: classifier, Equalize: true}, nil
}

// Detect ищет лица и возвращает их области
func (d *HaarDetector) Detect(ctx context.Context, img image.Image, params entity.DetectionParams) ([]entity.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, errors.New("empty image")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	if d.Equalize {
		gocv.EqualizeHist(gray, &gray)
	}

	maxSide := maxInt(mat.Cols(), mat.Rows())
	minSize := image.Pt(params.MinSize, params.MinSize)
	maxSize := image.Pt(maxSide, maxSide)

	// Сырые окна без группировки: слияние и подавление делаются в finalize,
	// одинаково для всех детекторов.
	d.mu.Lock()
	rects := d.classifier.DetectMultiScaleWithParams(gray, params.ScaleFactor, 0, 0, minSize, maxSize)
	d.mu.Unlock()

	raw := make([]candidate, 0, len(rects))
	offset := img.Bounds().Min
	for _, r := range rects {
		raw = append(raw, candidate{rect: r.Add(offset), score: 1})
	}

	return finalize(raw, params, img.Bounds()), nil
}

// Close освобождает каскад
func (d *HaarDetector) Close() error {
	return d.classifier.Close()
}

// Проверка реализации интерфейса
var _ port.FaceDetector = (*HaarDetector)(nil)
