package app

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"facecrop/internal/domain/entity"
	"facecrop/internal/infrastructure/imaging"
	"facecrop/internal/infrastructure/storage"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 200, A: 255}
)

// stubDetector возвращает заранее заданные области по ширине изображения
type stubDetector struct {
	byWidth  map[int][]entity.Region
	err      error
	calls    int
	onDetect func()
}

func (d *stubDetector) Detect(ctx context.Context, img image.Image, params entity.DetectionParams) ([]entity.Region, error) {
	d.calls++
	if d.onDetect != nil {
		d.onDetect()
	}
	if d.err != nil {
		return nil, d.err
	}
	return d.byWidth[img.Bounds().Dx()], nil
}

// memLogger собирает строки журнала
type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) Log(message string) {
	l.mu.Lock()
	l.lines = append(l.lines, message)
	l.mu.Unlock()
}

func (l *memLogger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

func (l *memLogger) count(substr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// failingStore отказывает в записи по заданным путям
type failingStore struct {
	*imaging.FileStore
	failSave map[string]bool
}

func (s *failingStore) Save(img image.Image, path string, format entity.Format) error {
	if s.failSave[filepath.Base(path)] {
		return fmt.Errorf("%w: %s: disk full", entity.ErrEncode, path)
	}
	return s.FileStore.Save(img, path, format)
}

// countingStore считает полные декодирования по имени файла
type countingStore struct {
	*imaging.FileStore
	mu    sync.Mutex
	loads map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{FileStore: imaging.NewFileStore(), loads: map[string]int{}}
}

func (s *countingStore) Load(path string) (image.Image, error) {
	s.mu.Lock()
	s.loads[filepath.Base(path)]++
	s.mu.Unlock()
	return s.FileStore.Load(path)
}

// failingOutputs отказывает в пометке удаления
type failingOutputs struct {
	*storage.MemoryOutputRepository
}

func (r *failingOutputs) MarkRemoved(ctx context.Context, path string) error {
	return fmt.Errorf("mark %s: repository closed", path)
}

// solid создаёт изображение w×h, левая половина которого left, правая right
func solid(w, h int, left, right color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, left)
			} else {
				img.Set(x, y, right)
			}
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

type fixture struct {
	src      string
	dst      string
	spec     entity.OutputSpec
	detector *stubDetector
	logger   *memLogger
	outputs  *storage.MemoryOutputRepository
	store    *imaging.FileStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		src:      filepath.Join(root, "src"),
		dst:      filepath.Join(root, "out", "faces"),
		detector: &stubDetector{byWidth: map[int][]entity.Region{}},
		logger:   &memLogger{},
		outputs:  storage.NewMemoryOutputRepository(),
		store:    imaging.NewFileStore(),
	}
	require.NoError(t, os.MkdirAll(f.src, 0o755))
	f.spec = entity.NewOutputSpec(f.dst, "outp", "png", 256)
	return f
}

func (f *fixture) extractor() *ExtractionService {
	return NewExtractionService(f.detector, f.store, f.outputs, f.logger, entity.DefaultDetectionParams(), f.spec)
}

func (f *fixture) batch() *BatchService {
	dedup := NewDedupService(f.store, f.outputs, f.logger)
	return NewBatchService(f.extractor(), dedup, f.outputs, nil, f.logger)
}
