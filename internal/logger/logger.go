package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	Logger *logrus.Logger // Main logger instance

	mu sync.Mutex
)

// ParseLevel maps LOG_LEVEL values to logrus levels, defaulting to info.
func ParseLevel(logLevel string) logrus.Level {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return logrus.DebugLevel
	case "INFO":
		return logrus.InfoLevel
	case "WARN":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Initialize sets up the main logger. When logFile is empty, logs go to stderr.
func Initialize(logLevel, logFile string) {
	l := newLogger(logLevel, logFile)

	mu.Lock()
	Logger = l
	mu.Unlock()

	l.WithFields(logrus.Fields{
		"log_level": l.GetLevel().String(),
		"log_file":  logFile,
	}).Info("Logging system initialized")
}

func newLogger(logLevel, logFile string) *logrus.Logger {
	l := logrus.New()
	level := ParseLevel(logLevel)
	l.SetLevel(level)

	var out io.Writer = os.Stderr
	colors := true
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			fmt.Printf("Failed to create logs directory: %v\n", err)
		} else if f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
			fmt.Printf("Failed to open log file: %v\n", err)
		} else {
			out = f
			colors = false
			l.SetReportCaller(true)
		}
	}

	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   !colors,
	})

	return l
}

// GetLogger returns the configured main logger instance
func GetLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		Logger = newLogger(os.Getenv("LOG_LEVEL"), "")
	}
	return Logger
}

// WithContext creates a logger with additional context fields
func WithContext(fields map[string]interface{}) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithJob creates a logger scoped to one history record.
func WithJob(historyID int64, processType string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"history_id":   historyID,
		"process_type": processType,
		"component":    "job_orchestrator",
	})
}

// WithUser creates a logger with user context
func WithUser(userID int64) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"user_id":   userID,
		"component": "controller",
	})
}

// WithError creates a logger with error context
func WithError(err error, component string) *logrus.Entry {
	l := GetLogger()
	fields := logrus.Fields{
		"error":     err.Error(),
		"component": component,
	}

	if l.GetLevel() >= logrus.DebugLevel {
		fields["stack_trace"] = getStackTrace()
	}

	return l.WithFields(fields)
}

// getStackTrace returns a formatted stack trace
func getStackTrace() string {
	var stack []string
	for i := 2; i < 10; i++ {
		if pc, file, line, ok := runtime.Caller(i); ok {
			fn := runtime.FuncForPC(pc)
			stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		}
	}
	return strings.Join(stack, "\n")
}

// Log levels convenience functions (with fields)
func Debug(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Debug(msg)
}

func Info(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Info(msg)
}

func Warn(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Warn(msg)
}

func Error(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Error(msg)
}

func Fatal(msg string, fields map[string]interface{}) {
	GetLogger().WithFields(fields).Fatal(msg)
}
