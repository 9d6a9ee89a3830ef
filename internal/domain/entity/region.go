package entity

import "image"

// Region представляет область изображения, в которой детектор нашёл лицо
type Region struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// RegionFromRect строит область из image.Rectangle
func RegionFromRect(r image.Rectangle) Region {
	return Region{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает область в виде image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Center возвращает координаты центра области
func (r Region) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Area возвращает площадь области
func (r Region) Area() int {
	return r.Width * r.Height
}

// Clamp обрезает область по границам изображения.
// Второе значение false, если пересечение пустое.
func (r Region) Clamp(bounds image.Rectangle) (Region, bool) {
	clipped := r.Rect().Intersect(bounds)
	if clipped.Empty() {
		return Region{}, false
	}
	return RegionFromRect(clipped), true
}
