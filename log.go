package genquiz

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetVerbose enables debug output
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	logger.SetLevel(logrus.InfoLevel)
}

// SetLogOutput redirects package logging, e.g. away from the terminal while playing
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// SetJSONLogs switches to the JSON formatter used by the web server
func SetJSONLogs() {
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// Log returns the package logger
func Log() logrus.FieldLogger {
	return logger
}

// VerboseLog logs only when verbose mode is enabled
func VerboseLog(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}
