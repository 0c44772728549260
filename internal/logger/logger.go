package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the different logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string log level, defaulting to INFO
func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// Logger writes leveled, timestamped lines to a single output
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	output io.Writer
}

var (
	globalMu     sync.Mutex
	globalLogger *Logger
)

// Init initializes the global logger with the specified level and output
func Init(level LogLevel, output io.Writer) {
	if output == nil {
		output = os.Stdout
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = &Logger{level: level, output: output}
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = &Logger{level: INFO, output: os.Stdout}
	}
	return globalLogger
}

// SetLevel changes the log level of the global logger
func SetLevel(level LogLevel) {
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput changes the output destination of the global logger
func SetOutput(output io.Writer) {
	l := GetLogger()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = output
}

func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")
	fmt.Fprintf(l.output, "[%s] %s %s\n", level, timestamp, fmt.Sprintf(format, v...))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(DEBUG, format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(INFO, format, v...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, v ...interface{}) {
	l.log(WARNING, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(ERROR, format, v...)
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(ERROR, format, v...)
	os.Exit(1)
}

// Global convenience functions
func Debug(format string, v ...interface{}) {
	GetLogger().Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	GetLogger().Info(format, v...)
}

func Warning(format string, v ...interface{}) {
	GetLogger().Warning(format, v...)
}

func Error(format string, v ...interface{}) {
	GetLogger().Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	GetLogger().Fatal(format, v...)
}
