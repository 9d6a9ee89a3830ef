package entity

import "fmt"

// SearchMode режим поиска детектора
type SearchMode int

const (
	SearchDefault   SearchMode = iota // все найденные окна без слияния
	SearchSingle                      // только одно лучшее лицо
	SearchNoOverlap                   // слияние и удаление пересечений
	SearchAverage                     // слияние пересекающихся окон в среднее
)

func (m SearchMode) String() string {
	switch m {
	case SearchDefault:
		return "default"
	case SearchSingle:
		return "single"
	case SearchNoOverlap:
		return "no_overlap"
	case SearchAverage:
		return "average"
	default:
		return fmt.Sprintf("search_mode(%d)", int(m))
	}
}

// Valid сообщает, входит ли режим в известный набор
func (m SearchMode) Valid() bool {
	return m >= SearchDefault && m <= SearchAverage
}

// ScalingMode порядок перебора масштабов
type ScalingMode int

const (
	ScaleSmallerToLarger ScalingMode = iota
	ScaleLargerToSmaller
)

func (m ScalingMode) String() string {
	switch m {
	case ScaleSmallerToLarger:
		return "smaller_to_larger"
	case ScaleLargerToSmaller:
		return "larger_to_smaller"
	default:
		return fmt.Sprintf("scaling_mode(%d)", int(m))
	}
}

func (m ScalingMode) Valid() bool {
	return m == ScaleSmallerToLarger || m == ScaleLargerToSmaller
}

// DetectionParams параметры детектора, неизменяемые на время запуска
type DetectionParams struct {
	MinSize     int         // минимальная сторона лица в пикселях
	SearchMode  SearchMode  // режим поиска
	ScaleFactor float64     // шаг масштаба, > 1.0
	ScalingMode ScalingMode // порядок масштабов
	UseParallel bool        // разрешить параллельный поиск внутри детектора
	Suppression int         // минимальное число соседних окон для слияния
}

// DefaultDetectionParams возвращает параметры по умолчанию
func DefaultDetectionParams() DetectionParams {
	return DetectionParams{
		MinSize:     30,
		SearchMode:  SearchAverage,
		ScaleFactor: 1.2,
		ScalingMode: ScaleSmallerToLarger,
		UseParallel: true,
		Suppression: 2,
	}
}

// Validate проверяет диапазоны параметров
func (p DetectionParams) Validate() error {
	if p.MinSize <= 0 {
		return fmt.Errorf("%w: min size must be positive, got %d", ErrConfig, p.MinSize)
	}
	if !p.SearchMode.Valid() {
		return fmt.Errorf("%w: unknown search mode %d", ErrConfig, int(p.SearchMode))
	}
	if p.ScaleFactor <= 1.0 {
		return fmt.Errorf("%w: scaling factor must be greater than 1.0, got %g", ErrConfig, p.ScaleFactor)
	}
	if !p.ScalingMode.Valid() {
		return fmt.Errorf("%w: unknown scaling mode %d", ErrConfig, int(p.ScalingMode))
	}
	if p.Suppression < 0 {
		return fmt.Errorf("%w: suppression must not be negative, got %d", ErrConfig, p.Suppression)
	}
	return nil
}
