package port

import (
	"context"
	"image"

	"facecrop/internal/domain/entity"
)

// FaceDetector интерфейс детектора лиц
type FaceDetector interface {
	// Detect ищет лица и возвращает их области.
	// Изображение не изменяется; если лиц нет, возвращается пустой срез без ошибки.
	Detect(ctx context.Context, img image.Image, params entity.DetectionParams) ([]entity.Region, error)
}
