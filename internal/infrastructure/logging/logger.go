package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"facecrop/internal/domain/port"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger пишет строки вида "[yyyy-MM-dd HH:mm:ss] message" в консоль и файл журнала
type Logger struct {
	out  *log.Logger
	file *os.File
	now  func() time.Time
	mu   sync.Mutex
}

// New создаёт журнал поверх произвольного writer
func New(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0), now: time.Now}
}

// Open создаёт журнал, дублирующий вывод в stdout и в файл path.
// Файл открывается заново на каждый запуск и закрывается в Close.
func Open(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(io.MultiWriter(os.Stdout, f))
	l.file = f
	return l, nil
}

// Log пишет одну строку журнала
func (l *Logger) Log(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Printf("[%s] %s", l.now().Format(timeLayout), message)
}

// Logf форматирует и пишет одну строку журнала
func (l *Logger) Logf(format string, args ...any) {
	l.Log(fmt.Sprintf(format, args...))
}

// Close закрывает файл журнала
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Проверка реализации интерфейса
var _ port.Logger = (*Logger)(nil)
