package common

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "info"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// Logger provides a centralized logging interface for graphcall
type Logger struct {
	*slog.Logger
	level  LogLevel
	masker *Masker
}

// NewLogger creates a new structured text logger with the specified level
func NewLogger(level LogLevel) *Logger {
	return NewTextLoggerTo(os.Stdout, level)
}

// NewTextLoggerTo creates a text logger writing to w.
func NewTextLoggerTo(w io.Writer, level LogLevel) *Logger {
	masker := NewMasker()
	handler := slog.NewTextHandler(w, handlerOptions(level, masker))
	return &Logger{Logger: slog.New(handler), level: level, masker: masker}
}

// NewJSONLogger creates a structured logger with JSON output
func NewJSONLogger(level LogLevel) *Logger {
	return NewJSONLoggerTo(os.Stdout, level)
}

// NewJSONLoggerTo creates a JSON logger writing to w.
func NewJSONLoggerTo(w io.Writer, level LogLevel) *Logger {
	masker := NewMasker()
	handler := slog.NewJSONHandler(w, handlerOptions(level, masker))
	return &Logger{Logger: slog.New(handler), level: level, masker: masker}
}

// NewColorLogger creates a logger using the colorized text handler
func NewColorLogger(level LogLevel) *Logger {
	return NewColorLoggerTo(os.Stdout, level)
}

// NewColorLoggerTo creates a colorized logger writing to w.
func NewColorLoggerTo(w io.Writer, level LogLevel) *Logger {
	masker := NewMasker()
	handler := NewColorHandler(w, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	handler.SetMasker(masker)
	return &Logger{Logger: slog.New(handler), level: level, masker: masker}
}

// handlerOptions wires the masker into the stock slog handlers.
func handlerOptions(level LogLevel, masker *Masker) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level.ToSlogLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey {
				return a
			}
			return masker.MaskAttr(a)
		},
	}
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// EnableMasking toggles masking of sensitive attributes for this logger
func (l *Logger) EnableMasking(enabled bool) {
	if l.masker != nil {
		l.masker.SetEnabled(enabled)
	}
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.Logger.With("component", component),
		level:  l.level,
		masker: l.masker,
	}
}

// WithPath returns a logger with Graph path context
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
		level:  l.level,
		masker: l.masker,
	}
}

// WithRequest returns a logger with HTTP request context
func (l *Logger) WithRequest(method, url string) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", method, "url", MaskSensitiveData(url)),
		level:  l.level,
		masker: l.masker,
	}
}

// WithRequestID returns a logger tagged with a request correlation id
func (l *Logger) WithRequestID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("request_id", id),
		level:  l.level,
		masker: l.masker,
	}
}

// Global default logger instance
var defaultLogger = NewLogger(LogLevelInfo)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	if logger == nil {
		return
	}
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}

// LogError logs an error with context
func LogError(msg string, err error, attrs ...any) {
	args := append([]any{"error", err}, attrs...)
	defaultLogger.Error(msg, args...)
}

// LogInfo logs informational message
func LogInfo(msg string, attrs ...any) {
	defaultLogger.Info(msg, attrs...)
}

// LogDebug logs debug message
func LogDebug(msg string, attrs ...any) {
	defaultLogger.Debug(msg, attrs...)
}

// LogWarn logs warning message
func LogWarn(msg string, attrs ...any) {
	defaultLogger.Warn(msg, attrs...)
}
