package entity

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format формат выходного файла
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
)

var formatByName = map[string]Format{
	"png":  FormatPNG,
	"jpg":  FormatJPEG,
	"jpeg": FormatJPEG,
	"bmp":  FormatBMP,
}

// ParseFormat переводит строку в формат без учёта регистра.
// Неизвестные значения дают PNG.
func ParseFormat(s string) Format {
	if f, ok := formatByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f
	}
	return FormatPNG
}

// OutputSpec описывает, куда и как писать вырезанные лица
type OutputSpec struct {
	DestFolder string // каталог результатов
	Prefix     string // префикс имени файла
	Ext        string // расширение имени файла, как задано в настройках
	Format     Format // кодек, выбранный по расширению
	Size       int    // сторона выходного квадрата
}

// NewOutputSpec собирает OutputSpec, выводя формат из расширения
func NewOutputSpec(destFolder, prefix, ext string, size int) OutputSpec {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	return OutputSpec{
		DestFolder: destFolder,
		Prefix:     prefix,
		Ext:        ext,
		Format:     ParseFormat(ext),
		Size:       size,
	}
}

// FileName возвращает имя файла для номера n: {prefix}{n:05d}.{ext}
func (s OutputSpec) FileName(n int) string {
	return fmt.Sprintf("%s%05d.%s", s.Prefix, n, s.Ext)
}

// Path возвращает полный путь файла для номера n
func (s OutputSpec) Path(n int) string {
	return filepath.Join(s.DestFolder, s.FileName(n))
}

// Pattern возвращает маску файлов результата, по которой ищутся дубликаты
func (s OutputSpec) Pattern() string {
	return "*." + s.Ext
}

// Validate проверяет обязательные поля
func (s OutputSpec) Validate() error {
	if strings.TrimSpace(s.DestFolder) == "" {
		return fmt.Errorf("%w: destination folder is required", ErrConfig)
	}
	if s.Size <= 0 {
		return fmt.Errorf("%w: output size must be positive, got %d", ErrConfig, s.Size)
	}
	if s.Ext == "" {
		return fmt.Errorf("%w: output format is required", ErrConfig)
	}
	return nil
}

// OutputFile записанный на диск результат
type OutputFile struct {
	Path    string // путь к файлу
	Source  string // исходное изображение
	Seq     int    // номер в сквозной нумерации
	Region  Region // область лица в исходнике
	Removed bool   // удалён как дубликат
}
