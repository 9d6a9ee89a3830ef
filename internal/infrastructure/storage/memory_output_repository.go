package storage

import (
	"context"
	"sort"
	"sync"

	"facecrop/internal/domain/entity"
	"facecrop/internal/domain/port"
)

// MemoryOutputRepository in-memory учёт выходных файлов за запуск
type MemoryOutputRepository struct {
	mu    sync.RWMutex
	files map[string]*entity.OutputFile
}

// NewMemoryOutputRepository создаёт новое in-memory хранилище
func NewMemoryOutputRepository() *MemoryOutputRepository {
	return &MemoryOutputRepository{
		files: make(map[string]*entity.OutputFile),
	}
}

// Add регистрирует записанный файл; повторная запись по тому же пути заменяет старую
func (r *MemoryOutputRepository) Add(ctx context.Context, file entity.OutputFile) error {
	r.mu.Lock()
	r.files[file.Path] = &file
	r.mu.Unlock()

	return nil
}

// MarkRemoved помечает файл удалённым; неизвестные пути игнорируются
func (r *MemoryOutputRepository) MarkRemoved(ctx context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if file, exists := r.files[path]; exists {
		file.Removed = true
	}

	return nil
}

// List возвращает копии записей, упорядоченные по номеру
func (r *MemoryOutputRepository) List(ctx context.Context) ([]entity.OutputFile, error) {
	r.mu.RLock()
	out := make([]entity.OutputFile, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, *f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

// Проверка реализации интерфейса
var _ port.OutputRepository = (*MemoryOutputRepository)(nil)
