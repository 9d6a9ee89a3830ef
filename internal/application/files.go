package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"facecrop/internal/domain/entity"
)

// listMatching возвращает обычные файлы каталога, имя которых подходит под маску.
// Сравнение без учёта регистра, порядок как у os.ReadDir (по имени).
func listMatching(folder, pattern string) ([]string, error) {
	pattern = strings.ToLower(pattern)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: bad file mask %q: %v", entity.ErrConfig, pattern, err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		ok, _ := filepath.Match(pattern, strings.ToLower(e.Name()))
		if ok {
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	return files, nil
}

// exists сообщает, существует ли файл по пути
func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
