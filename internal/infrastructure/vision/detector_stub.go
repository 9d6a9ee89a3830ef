//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"
	"image"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// HaarDetector заглушка детектора OpenCV (сборка без тега gocv)
type HaarDetector struct {
	Equalize bool
}

// NewHaarDetector возвращает ошибку, если сборка без тега gocv.
func NewHaarDetector(cascadePath string) (*HaarDetector, error) {
	_ = cascadePath
	return nil, errNoGoCV
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *HaarDetector) Detect(ctx context.Context, img image.Image, params entity.DetectionParams) ([]entity.Region, error) {
	_ = ctx
	_ = img
	_ = params
	return nil, errNoGoCV
}

func (d *HaarDetector) Close() error {
	return nil
}

// Проверка реализации интерфейса
var _ port.FaceDetector = (*HaarDetector)(nil)
