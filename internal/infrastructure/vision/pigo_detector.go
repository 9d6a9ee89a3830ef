package vision

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	pigo "github.com/esimov/pigo/core"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// PigoDetector детектор лиц на чистом Go (pigo, бинарный каскад facefinder)
type PigoDetector struct {
	classifier   *pigo.Pigo
	ShiftFactor  float64 // шаг окна относительно его размера
	MinQuality   float32 // порог уверенности сырого окна
	ParallelBand int     // число полос масштабов при параллельном поиске
}

// NewPigoDetector загружает каскад из файла
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade file: %w", err)
	}
	return NewPigoDetectorFromBytes(data)
}

// NewPigoDetectorFromBytes распаковывает каскад из памяти
func NewPigoDetectorFromBytes(cascade []byte) (*PigoDetector, error) {
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &PigoDetector{
		classifier:   classifier,
		ShiftFactor:  0.1,
		MinQuality:   5.0,
		ParallelBand: 4,
	}, nil
}

// Detect запускает каскад и возвращает найденные области
func (d *PigoDetector) Detect(ctx context.Context, img image.Image, params entity.DetectionParams) ([]entity.Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()
	maxSize := minInt(cols, rows)
	if maxSize < params.MinSize {
		return []entity.Region{}, nil
	}

	pixels := pigo.RgbToGrayscale(pigo.ImgToNRGBA(img))
	imgParams := pigo.ImageParams{Pixels: pixels, Rows: rows, Cols: cols, Dim: cols}

	bands := [][2]int{{params.MinSize, maxSize}}
	if params.UseParallel && d.ParallelBand > 1 {
		bands = scaleBands(params.MinSize, maxSize, d.ParallelBand, params.ScaleFactor)
	}

	results := make([][]pigo.Detection, len(bands))
	var wg sync.WaitGroup
	for i, band := range bands {
		cp := pigo.CascadeParams{
			MinSize:     band[0],
			MaxSize:     band[1],
			ShiftFactor: d.ShiftFactor,
			ScaleFactor: params.ScaleFactor,
			ImageParams: imgParams,
		}
		if len(bands) == 1 {
			results[i] = d.classifier.RunCascade(cp, 0)
			continue
		}
		wg.Add(1)
		go func(i int, cp pigo.CascadeParams) {
			defer wg.Done()
			results[i] = d.classifier.RunCascade(cp, 0)
		}(i, cp)
	}
	wg.Wait()

	raw := make([]candidate, 0)
	for _, dets := range results {
		for _, det := range dets {
			if det.Q < d.MinQuality {
				continue
			}
			half := det.Scale / 2
			raw = append(raw, candidate{
				rect: image.Rect(
					bounds.Min.X+det.Col-half, bounds.Min.Y+det.Row-half,
					bounds.Min.X+det.Col-half+det.Scale, bounds.Min.Y+det.Row-half+det.Scale,
				),
				score: float64(det.Q),
			})
		}
	}

	return finalize(raw, params, bounds), nil
}

// scaleLadder повторяет последовательность размеров окна, которую перебирает RunCascade:
// от minSize, шаг не меньше 2, пока размер не превысит maxSize.
func scaleLadder(minSize, maxSize int, factor float64) []int {
	var ladder []int
	for s := minSize; s <= maxSize; {
		ladder = append(ladder, s)
		s = int(float64(s) + math.Max(2, float64(s)*factor-float64(s)))
	}
	return ladder
}

// scaleBands режет лестницу масштабов на n полос подряд идущих ступеней.
// Полоса начинается на ступени лестницы, поэтому каскад в полосе
// проходит ровно те же размеры, что и последовательный прогон.
// Мелкие окна дороже (шаг окна растёт с размером), границы выравнивают
// суммарную стоимость ~1/s² по полосам.
func scaleBands(minSize, maxSize, n int, factor float64) [][2]int {
	ladder := scaleLadder(minSize, maxSize, factor)
	if n < 2 || len(ladder) < 2 {
		return [][2]int{{minSize, maxSize}}
	}
	if n > len(ladder) {
		n = len(ladder)
	}

	cost := func(s int) float64 { return 1 / float64(s*s) }
	total := 0.0
	for _, s := range ladder {
		total += cost(s)
	}

	bands := make([][2]int, 0, n)
	start, acc := 0, 0.0
	for i, s := range ladder {
		acc += cost(s)
		last := i == len(ladder)-1
		left := len(ladder) - 1 - i // ступеней после текущей
		need := n - len(bands) - 1  // полос, которые ещё нужно открыть
		if last || (need > 0 && (acc >= total*float64(len(bands)+1)/float64(n) || left == need)) {
			hi := s
			if last {
				hi = maxSize
			}
			bands = append(bands, [2]int{ladder[start], hi})
			start = i + 1
		}
	}
	return bands
}

// Проверка реализации интерфейса
var _ port.FaceDetector = (*PigoDetector)(nil)

// Close ничего не освобождает, каскад живёт в памяти Go
func (d *PigoDetector) Close() error {
	return nil
}
