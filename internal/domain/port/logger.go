package port

// Logger приёмник строк журнала
type Logger interface {
	Log(message string)
	Logf(format string, args ...any)
}
