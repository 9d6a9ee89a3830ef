package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"facecrop/internal/domain/entity"
)

func newDedup(f *fixture) *DedupService {
	return NewDedupService(f.store, f.outputs, f.logger)
}

func TestDedupService_IdenticalPairKeepsFirst(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(16, 16, red, blue))
	writePNG(t, filepath.Join(dir, "b.png"), solid(16, 16, red, blue))

	res, err := newDedup(f).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Equal(t, 1, res.Removed)
	require.Equal(t, []string{"a.png"}, listNames(t, dir))
}

func TestDedupService_OnePixelDifference(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	a := solid(16, 16, red, blue)
	b := solid(16, 16, red, blue)
	b.Set(15, 15, color.RGBA{B: 254, A: 255})
	writePNG(t, filepath.Join(dir, "a.png"), a)
	writePNG(t, filepath.Join(dir, "b.png"), b)

	res, err := newDedup(f).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Zero(t, res.Removed)
	require.Equal(t, 2, res.Compared)
	require.Equal(t, []string{"a.png", "b.png"}, listNames(t, dir))
}

func TestDedupService_DifferentDimensions(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(16, 16, red, red))
	writePNG(t, filepath.Join(dir, "b.png"), solid(16, 17, red, red))
	writePNG(t, filepath.Join(dir, "c.png"), solid(17, 16, red, red))

	store := newCountingStore()
	res, err := NewDedupService(store, f.outputs, f.logger).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Zero(t, res.Removed)
	require.Zero(t, res.Compared)
	require.Len(t, listNames(t, dir), 3)
	// Каждый файл декодирован целиком только как внешний; внутренние отсеяны по заголовку.
	require.Equal(t, map[string]int{"a.png": 1, "b.png": 1, "c.png": 1}, store.loads)
}

func TestDedupService_GroupOfCopies(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	for _, name := range []string{"p1.png", "p2.png", "p3.png", "p4.png"} {
		writePNG(t, filepath.Join(dir, name), solid(8, 8, green, red))
	}
	writePNG(t, filepath.Join(dir, "p5.png"), solid(8, 8, red, green))

	res, err := newDedup(f).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Equal(t, 3, res.Removed)
	require.Equal(t, []string{"p1.png", "p5.png"}, listNames(t, dir))
	require.Equal(t, 3, f.logger.count("Duplicate found, deleting"))
}

func TestDedupService_IgnoresOtherExtensions(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(8, 8, red, red))
	writePNG(t, filepath.Join(dir, "stale.bmp"), solid(8, 8, red, red))

	res, err := newDedup(f).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Zero(t, res.Removed)
	require.Equal(t, []string{"a.png", "stale.bmp"}, listNames(t, dir))
}

func TestDedupService_DeleteFailureContinues(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		writePNG(t, filepath.Join(dir, name), solid(8, 8, red, red))
	}

	svc := newDedup(f)
	svc.remove = func(path string) error {
		if filepath.Base(path) == "b.png" {
			return errors.New("permission denied")
		}
		return os.Remove(path)
	}

	res, err := svc.RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	// a не смог удалить b, но удалил c; затем выживший b удаляет a.
	require.Equal(t, 2, res.Removed)
	require.Equal(t, 1, res.Failures)
	require.Equal(t, []string{"b.png"}, listNames(t, dir))
	require.Equal(t, 1, f.logger.count("Error occurred in removing duplicate"))
	require.Equal(t, 1, f.logger.count(entity.ErrDelete.Error()))
}

func TestDedupService_UnreadableFileSkipped(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(8, 8, red, red))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"), []byte("junk"), 0o644))
	writePNG(t, filepath.Join(dir, "c.png"), solid(8, 8, red, red))

	res, err := newDedup(f).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Equal(t, 1, res.Removed)
	require.Equal(t, []string{"a.png", "b.png"}, listNames(t, dir))
}

func TestSamePixels(t *testing.T) {
	a := solid(10, 6, red, blue)
	b := solid(10, 6, red, blue)
	require.True(t, SamePixels(a, b))

	b.Set(0, 5, green)
	require.False(t, SamePixels(a, b))

	require.False(t, SamePixels(a, solid(6, 10, red, blue)))

	// Разные типы пикселей сравниваются по значению цвета.
	n := image.NewNRGBA(a.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			n.Set(x, y, a.At(x, y))
		}
	}
	require.True(t, SamePixels(a, n))

	// Смещённые границы не мешают сравнению.
	sub := solid(20, 12, red, blue).SubImage(image.Rect(5, 3, 15, 9))
	require.Equal(t, 10, sub.Bounds().Dx())
	require.True(t, SamePixels(a, sub))
	require.True(t, SamePixels(sub, solid(20, 12, red, blue).SubImage(image.Rect(5, 3, 15, 9))))
}

func TestDedupService_MissingFolder(t *testing.T) {
	f := newFixture(t)
	_, err := newDedup(f).RemoveDuplicates(context.Background(), filepath.Join(f.src, "missing"), "*.png")
	require.Error(t, err)
}

func TestDedupService_MarkRemovedFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(8, 8, red, red))
	writePNG(t, filepath.Join(dir, "b.png"), solid(8, 8, red, red))

	outputs := &failingOutputs{MemoryOutputRepository: f.outputs}
	res, err := NewDedupService(f.store, outputs, f.logger).RemoveDuplicates(context.Background(), dir, "*.png")
	require.NoError(t, err)
	require.Equal(t, 1, res.Removed)
	require.Equal(t, []string{"a.png"}, listNames(t, dir))
	require.Equal(t, 1, f.logger.count("Error recording removal "+filepath.Join(dir, "b.png")))
}

func TestDedupService_CancelledContext(t *testing.T) {
	f := newFixture(t)
	dir := f.src
	writePNG(t, filepath.Join(dir, "a.png"), solid(8, 8, red, red))
	writePNG(t, filepath.Join(dir, "b.png"), solid(8, 8, red, red))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newDedup(f).RemoveDuplicates(ctx, dir, "*.png")
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, res.Removed)
	require.Len(t, listNames(t, dir), 2)
}
