package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	// Регистрируем декодеры для исходников.
	_ "image/gif"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// FileStore читает и пишет изображения на локальном диске
type FileStore struct {
	JPEGQuality int
}

// NewFileStore создаёт хранилище с качеством JPEG по умолчанию
func NewFileStore() *FileStore {
	return &FileStore{JPEGQuality: 90}
}

// Load декодирует файл любого зарегистрированного формата
func (s *FileStore) Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	return img, nil
}

// Size декодирует только заголовок файла
func (s *FileStore) Size(path string) (image.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %s: %v", entity.ErrDecode, path, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// Save кодирует изображение и пишет его по пути path
func (s *FileStore) Save(img image.Image, path string, format entity.Format) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrEncode, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %s: %v", entity.ErrEncode, path, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err := encode(w, img, format, s.JPEGQuality); err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrEncode, path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrEncode, path, err)
	}
	return nil
}

func encode(w *bufio.Writer, img image.Image, format entity.Format, quality int) error {
	switch format {
	case entity.FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case entity.FormatBMP:
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*FileStore)(nil)
