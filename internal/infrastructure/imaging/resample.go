package imaging

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"

	"facecrop/internal/domain/entity"
)

// subImager изображения стандартной библиотеки, умеющие отдавать подобласть без копирования
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop вырезает область из исходника, сохраняя его тип пикселей.
// Область предварительно обрезается по границам изображения.
func Crop(src image.Image, region entity.Region) (image.Image, error) {
	clamped, ok := region.Clamp(src.Bounds())
	if !ok {
		return nil, entity.ErrRegionEmpty
	}
	rect := clamped.Rect()

	if si, ok := src.(subImager); ok {
		return si.SubImage(rect), nil
	}

	// Тип без SubImage копируем в RGBA.
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// CropResize вырезает область и приводит её ровно к size×size бикубической интерполяцией.
// Масштаб по осям независимый, пропорции не сохраняются.
func CropResize(src image.Image, region entity.Region, size int) (image.Image, error) {
	cropped, err := Crop(src, region)
	if err != nil {
		return nil, err
	}
	b := cropped.Bounds()
	if b.Dx() == size && b.Dy() == size {
		// resize отдаёт вход без копии, если размер уже совпадает.
		return clone(cropped), nil
	}
	return resize.Resize(uint(size), uint(size), cropped, resize.Bicubic), nil
}

// clone копирует изображение в новый буфер с началом координат в (0,0).
// Тип пикселей сохраняется для RGBA, NRGBA и Gray, остальные копируются в RGBA.
func clone(src image.Image) image.Image {
	b := src.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())

	var dst draw.Image
	switch src.(type) {
	case *image.NRGBA:
		dst = image.NewNRGBA(r)
	case *image.Gray:
		dst = image.NewGray(r)
	default:
		dst = image.NewRGBA(r)
	}
	draw.Draw(dst, r, src, b.Min, draw.Src)
	return dst
}
