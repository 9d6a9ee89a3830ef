package entity

import (
	"fmt"
	"strings"
	"time"
)

// BatchReport итог пакетной обработки
type BatchReport struct {
	SourceFolder      string
	DestFolder        string
	FilesProcessed    int           // исходников обработано без ошибок
	FilesFailed       int           // исходников с ошибкой декодирования или детекции
	FacesFound        int           // всего найденных областей
	OutputsWritten    int           // записанных файлов
	WriteFailures     int           // областей, которые не удалось записать
	DuplicatesRemoved int           // удалённых дубликатов
	DeleteFailures    int           // неудачных удалений
	OutputsKept       int           // файлов, оставшихся после удаления дубликатов
	Interrupted       bool          // обработка остановлена сигналом
	Elapsed           time.Duration // общее время
}

// Summary возвращает многострочное описание итога
func (r *BatchReport) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s\n", r.SourceFolder)
	fmt.Fprintf(&b, "Destination: %s\n", r.DestFolder)
	fmt.Fprintf(&b, "Files processed: %d, failed: %d\n", r.FilesProcessed, r.FilesFailed)
	fmt.Fprintf(&b, "Faces found: %d, written: %d, write failures: %d\n", r.FacesFound, r.OutputsWritten, r.WriteFailures)
	fmt.Fprintf(&b, "Duplicates removed: %d, delete failures: %d\n", r.DuplicatesRemoved, r.DeleteFailures)
	fmt.Fprintf(&b, "Outputs kept: %d\n", r.OutputsKept)
	if r.Interrupted {
		b.WriteString("Interrupted before completion\n")
	}
	fmt.Fprintf(&b, "Elapsed: %s", r.Elapsed.Round(time.Millisecond))
	return b.String()
}
