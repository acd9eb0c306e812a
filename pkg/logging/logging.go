// Package logging provides GlobalLogger, a charmbracelet/log logger that
// writes to a file. Init does not change log.Default() or the package-level
// loggers of pkg/client, pkg/service and pkg/transport: those keep writing
// to their own output, and only messages sent through GlobalLogger reach
// the file.
package logging

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

var (
	GlobalLogger *log.Logger
	logFile      *os.File
)

// Init opens logFilePath and points GlobalLogger at it, with timestamps and
// caller info enabled.
func Init(logFilePath string) error {
	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", logFilePath, err)
	}

	GlobalLogger = log.NewWithOptions(logFile, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
	})
	GlobalLogger.Info("logging initialized", "path", logFilePath)
	return nil
}

// Close flushes and closes the log file, if one was opened.
func Close() {
	if logFile != nil {
		GlobalLogger.Info("closing log file")
		logFile.Close()
	}
}
