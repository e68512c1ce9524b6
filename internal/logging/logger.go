package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Fields carries structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	// "json" for production log collection, text for local development.
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	l.SetOutput(os.Stdout)
	return l
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	log.WithFields(logrus.Fields(fields)).Info(msg)
}

// Warn logs a warning message with optional fields.
func Warn(msg string, fields Fields) {
	log.WithFields(logrus.Fields(fields)).Warn(msg)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.WithFields(logrus.Fields(fields)).Error(msg)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	if fields == nil {
		fields = Fields{}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	log.WithFields(logrus.Fields(fields)).Fatal(msg)
}
