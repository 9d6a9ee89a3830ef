// Package vision содержит детекторы лиц: pigo на чистом Go
// и каскад Хаара OpenCV (тег сборки gocv).
package vision

import (
	"fmt"
	"io"
	"strings"

	"facecrop/internal/domain/port"
)

const (
	BackendPigo   = "pigo"
	BackendOpenCV = "opencv"
)

// Detector детектор с освобождаемыми ресурсами
type Detector interface {
	port.FaceDetector
	io.Closer
}

// New создаёт детектор выбранного типа из файла каскада
func New(backend, cascadePath string) (Detector, error) {
	if strings.TrimSpace(cascadePath) == "" {
		return nil, fmt.Errorf("cascade file is required for %s detector", backend)
	}
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendPigo:
		d, err := NewPigoDetector(cascadePath)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendOpenCV, "haar", "gocv":
		d, err := NewHaarDetector(cascadePath)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown detector %q", backend)
	}
}
