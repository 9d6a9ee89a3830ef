package port

import (
	"image"

	"facecrop/internal/domain/entity"
)

// ImageStore интерфейс чтения и записи изображений
type ImageStore interface {
	// Load декодирует изображение с диска
	Load(path string) (image.Image, error)

	// Size читает только заголовок файла и возвращает ширину и высоту
	Size(path string) (image.Point, error)

	// Save кодирует изображение в заданном формате и пишет его на диск
	Save(img image.Image, path string, format entity.Format) error
}
