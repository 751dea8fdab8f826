package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logger settings, usually filled from config.Configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
	Output string // stdout, file, both
	// LogPath is relative to the working directory unless absolute.
	LogPath    string
	AppFile    string
	AuditFile  string
	ErrorFile  string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // days
	Compress   bool
	// FilterPaths drops request logs whose "path" field has one of these prefixes.
	FilterPaths []string
}

// DefaultConfig returns stdout text logging at info level.
func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:       "info",
		Format:      "text",
		Output:      "stdout",
		LogPath:     "logs",
		AppFile:     "app.log",
		AuditFile:   "audit.log",
		ErrorFile:   "error.log",
		MaxSize:     100,
		MaxBackups:  10,
		MaxAge:      30,
		Compress:    true,
		FilterPaths: []string{"/api/v1/system/health", "/metrics"},
	}
}

var (
	loggers   = make(map[string]*logrus.Logger)
	hooks     []*AsyncHook
	loggersMu sync.Mutex

	config *LogConfig
)

// Init sets the logging configuration. Loggers created before Init keep their old settings.
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	if config.Output == "file" || config.Output == "both" {
		if err := os.MkdirAll(getLogPath(), 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

func getLogPath() string {
	if filepath.IsAbs(config.LogPath) {
		return config.LogPath
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.LogPath
	}
	return filepath.Join(wd, config.LogPath)
}

// GetLogger returns the named logger (app, audit, error), creating it on first use.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		if err := Init(nil); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	if logger, ok := loggers[name]; ok {
		return logger
	}

	logger := createLogger(name)
	loggers[name] = logger
	return logger
}

func createLogger(name string) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	// File and stdout both go through the async hook; a slow disk must not stall requests.
	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   getLogFilePath(name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	// FilterHook must run before the async hook sees the entry.
	logger.AddHook(NewFilterHook(config))
	asyncHook := NewAsyncHookWithWriters(writers, 1000)
	logger.AddHook(asyncHook)
	hooks = append(hooks, asyncHook)
	logger.SetOutput(io.Discard)

	logger.SetReportCaller(true)

	logger.WithFields(logrus.Fields{
		"logger": name,
		"level":  logger.GetLevel().String(),
		"format": config.Format,
		"output": config.Output,
	}).Debug("Logger initialized")

	return logger
}

func getLogFilePath(name string) string {
	var filename string
	switch name {
	case "app":
		filename = config.AppFile
	case "audit":
		filename = config.AuditFile
	case "error":
		filename = config.ErrorFile
	default:
		filename = fmt.Sprintf("%s.log", name)
	}
	return filepath.Join(getLogPath(), filename)
}

// Close flushes every async hook. Call once on shutdown.
func Close() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, h := range hooks {
		_ = h.Close()
	}
	hooks = nil
	loggers = make(map[string]*logrus.Logger)
}

// GetAppLogger returns the application logger.
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger returns the audit logger.
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}

// GetErrorLogger returns the error logger.
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}
