package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// DedupService удаляет побитово одинаковые выходные файлы
type DedupService struct {
	store   port.ImageStore
	outputs port.OutputRepository
	logger  port.Logger
	remove  func(path string) error
}

// DedupResult итог прохода по дубликатам
type DedupResult struct {
	Compared int // пар одного размера, сравнённых попиксельно
	Removed  int // удалённых файлов
	Failures int // неудачных удалений
}

// NewDedupService создаёт сервис удаления дубликатов
func NewDedupService(store port.ImageStore, outputs port.OutputRepository, logger port.Logger) *DedupService {
	return &DedupService{
		store:   store,
		outputs: outputs,
		logger:  logger,
		remove:  os.Remove,
	}
}

// RemoveDuplicates сравнивает каждый файл каталога, подходящий под маску, со всеми остальными
// и удаляет точные копии. Из каждой группы одинаковых остаётся файл,
// встретившийся первым в порядке перечисления.
// Список файлов перечитывается на каждой внешней итерации,
// уже удалённые файлы пропускаются.
func (s *DedupService) RemoveDuplicates(ctx context.Context, folder, pattern string) (*DedupResult, error) {
	res := &DedupResult{}

	files, err := listMatching(folder, pattern)
	if err != nil {
		return res, fmt.Errorf("list %s: %w", folder, err)
	}

	for _, a := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !exists(a) {
			continue
		}

		imgA, err := s.store.Load(a)
		if err != nil {
			s.logger.Logf("Error reading %s for duplicate check: %v", a, err)
			continue
		}

		inner, err := listMatching(folder, pattern)
		if err != nil {
			return res, fmt.Errorf("list %s: %w", folder, err)
		}

		for _, b := range inner {
			if b == a || !exists(b) {
				continue
			}

			// Файлы другого размера не декодируем целиком.
			size, err := s.store.Size(b)
			if err != nil {
				s.logger.Logf("Error reading %s for duplicate check: %v", b, err)
				continue
			}
			if size != imgA.Bounds().Size() {
				continue
			}

			imgB, err := s.store.Load(b)
			if err != nil {
				s.logger.Logf("Error reading %s for duplicate check: %v", b, err)
				continue
			}

			res.Compared++
			if !SamePixels(imgA, imgB) {
				continue
			}

			if err := s.remove(b); err != nil {
				res.Failures++
				s.logger.Logf("Error occurred in removing duplicate: %v", fmt.Errorf("%w: %s: %v", entity.ErrDelete, b, err))
				continue
			}
			res.Removed++
			s.logger.Logf("Duplicate found, deleting %s", b)
			if s.outputs != nil {
				if err := s.outputs.MarkRemoved(ctx, b); err != nil {
					s.logger.Logf("Error recording removal %s: %v", b, err)
				}
			}
		}
	}

	return res, nil
}

// SamePixels сообщает, совпадают ли размеры и все пиксели двух изображений.
// Сравнение останавливается на первом отличии.
func SamePixels(a, b image.Image) bool {
	ra, rb := a.Bounds(), b.Bounds()
	if ra.Dx() != rb.Dx() || ra.Dy() != rb.Dy() {
		return false
	}

	if pa, pb, ok := rawPixels(a, b); ok {
		return samePix(pa, pb, ra.Dx(), ra.Dy())
	}

	// По столбцам, внутри столбца по строкам.
	for x := 0; x < ra.Dx(); x++ {
		for y := 0; y < ra.Dy(); y++ {
			r1, g1, b1, a1 := a.At(ra.Min.X+x, ra.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(rb.Min.X+x, rb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}

// pixBuf буфер пикселей изображения стандартной библиотеки
type pixBuf struct {
	pix    []byte
	stride int
	bpp    int
	offset int
}

// rawPixels отдаёт буферы, если оба изображения одного типа с прямым доступом к пикселям
func rawPixels(a, b image.Image) (pixBuf, pixBuf, bool) {
	switch ia := a.(type) {
	case *image.NRGBA:
		if ib, ok := b.(*image.NRGBA); ok {
			return pixBuf{ia.Pix, ia.Stride, 4, ia.PixOffset(ia.Rect.Min.X, ia.Rect.Min.Y)},
				pixBuf{ib.Pix, ib.Stride, 4, ib.PixOffset(ib.Rect.Min.X, ib.Rect.Min.Y)}, true
		}
	case *image.RGBA:
		if ib, ok := b.(*image.RGBA); ok {
			return pixBuf{ia.Pix, ia.Stride, 4, ia.PixOffset(ia.Rect.Min.X, ia.Rect.Min.Y)},
				pixBuf{ib.Pix, ib.Stride, 4, ib.PixOffset(ib.Rect.Min.X, ib.Rect.Min.Y)}, true
		}
	case *image.Gray:
		if ib, ok := b.(*image.Gray); ok {
			return pixBuf{ia.Pix, ia.Stride, 1, ia.PixOffset(ia.Rect.Min.X, ia.Rect.Min.Y)},
				pixBuf{ib.Pix, ib.Stride, 1, ib.PixOffset(ib.Rect.Min.X, ib.Rect.Min.Y)}, true
		}
	}
	return pixBuf{}, pixBuf{}, false
}

func samePix(a, b pixBuf, w, h int) bool {
	rowLen := w * a.bpp
	for y := 0; y < h; y++ {
		ra := a.pix[a.offset+y*a.stride : a.offset+y*a.stride+rowLen]
		rb := b.pix[b.offset+y*b.stride : b.offset+y*b.stride+rowLen]
		if !bytes.Equal(ra, rb) {
			return false
		}
	}
	return true
}
