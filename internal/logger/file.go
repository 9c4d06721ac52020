package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mgarrido/repograder/internal/engine"
)

// FileLogger logs grading runs to files in the configured log directory.
// It creates one timestamped log file per run, stamps it with the run ID,
// and maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runID    string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing into logDir, creating the
// directory if needed. Each run gets a fresh run ID and its own
// run-YYYYMMDD-HHMMSS.log file.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Timestamped filename: run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update the latest.log symlink. A symlink failure (e.g. on
	// filesystems without symlink support) is not fatal for the run.
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		os.Remove(symlinkPath)
	}
	os.Symlink(filepath.Base(runFile), symlinkPath)

	fl := &FileLogger{
		logDir:   logDir,
		runID:    uuid.NewString(),
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.write("INFO", "run "+fl.runID+" started")
	return fl, nil
}

// RunID returns this run's unique identifier.
func (fl *FileLogger) RunID() string {
	return fl.runID
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// Close finalizes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.write("INFO", "run "+fl.runID+" finished")

	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	if fl.shouldLog("trace") {
		fl.write("TRACE", message)
	}
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	if fl.shouldLog("debug") {
		fl.write("DEBUG", message)
	}
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	if fl.shouldLog("info") {
		fl.write("INFO", message)
	}
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	if fl.shouldLog("warn") {
		fl.write("WARN", message)
	}
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	if fl.shouldLog("error") {
		fl.write("ERROR", message)
	}
}

// LogRecord logs one finished record at INFO level.
func (fl *FileLogger) LogRecord(record engine.Record) {
	if !fl.shouldLog("info") {
		return
	}
	subject := record.Repo
	if subject == "" {
		subject = record.Login
	}
	fl.write("INFO", fmt.Sprintf("%s: %s (%s)", subject, record.Status, record.Reason))
}

// LogRunSummary logs the run summary at INFO level.
func (fl *FileLogger) LogRunSummary(summary engine.Summary) {
	if !fl.shouldLog("info") {
		return
	}
	fl.write("INFO", fmt.Sprintf("summary: total=%d approved=%d rejected=%d",
		summary.Total, summary.Approved, summary.Rejected))
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

func (fl *FileLogger) write(level, message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return
	}
	line := fmt.Sprintf("[%s] [%s] %s\n", timestamp(), strings.ToUpper(level), message)
	fl.runLog.WriteString(line)
}
