package port

import (
	"context"

	"facecrop/internal/domain/entity"
)

// Notifier отправляет итог пакетной обработки
type Notifier interface {
	Notify(ctx context.Context, report *entity.BatchReport) error
}
