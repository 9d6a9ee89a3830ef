package port

import (
	"context"

	"facecrop/internal/domain/entity"
)

// OutputRepository интерфейс учёта выходных файлов за запуск
type OutputRepository interface {
	// Add регистрирует записанный файл
	Add(ctx context.Context, file entity.OutputFile) error

	// MarkRemoved помечает файл удалённым как дубликат
	MarkRemoved(ctx context.Context, path string) error

	// List возвращает все файлы в порядке номера
	List(ctx context.Context) ([]entity.OutputFile, error)
}
