package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"sjsage522/carcrawler/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(source string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger appends errors to a file so failed listings survive the run
type Logger struct {
	mu        sync.Mutex
	errorFile string
}

// NewLogger creates a new logger instance
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
	}
}

// LogError logs an error to the file with its source and a timestamp
func (l *Logger) LogError(source string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.errorFile); dir != "" {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			logger.Error("failed to create failure log dir: %v", mkErr)
			return
		}
	}

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Error("failed to open failure log: %v", fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, source, err.Error())
}

// LogInfo logs an informational message
func (l *Logger) LogInfo(format string, args ...interface{}) {
	logger.Info(format, args...)
}
