package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger = logrus.New()

// EventFormatter renders one line per entry: date, time, source, level, a fresh event id,
// the message and the caller when available.
type EventFormatter struct {
	SystemName string
}

func (f *EventFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	b.WriteString(fmt.Sprintf("Date: %s, Time: %s, ", entry.Time.Format("2006-01-02"), entry.Time.Format("15:04:05")))
	b.WriteString(fmt.Sprintf("Event Source: %s, ", f.SystemName))
	b.WriteString(fmt.Sprintf("Event Type: %s, ", strings.ToUpper(entry.Level.String())))
	b.WriteString(fmt.Sprintf("Event ID: %s, ", uuid.New().String()))
	b.WriteString(fmt.Sprintf("Message: %s", entry.Message))

	for k, v := range entry.Data {
		b.WriteString(fmt.Sprintf(", %s=%v", k, v))
	}

	if entry.HasCaller() {
		b.WriteString(fmt.Sprintf(", Location: %s:%d in %s", filepath.Base(entry.Caller.File), entry.Caller.Line, entry.Caller.Function))
	}

	b.WriteByte('\n')

	return b.Bytes(), nil
}

// InitLogger configures the shared logger for one service. An empty logFile keeps output on stderr.
func InitLogger(systemName, logFile, level string) {
	Logger.SetFormatter(&EventFormatter{SystemName: systemName})
	Logger.SetReportCaller(true)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Logger.SetLevel(lvl)

	if logFile == "" {
		Logger.SetOutput(os.Stderr)
		return
	}

	if dir := filepath.Dir(logFile); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			Logger.Fatalf("Event ID: LOG_DIR_CREATE_FAILED, Description: Failed to create log directory %s: %v", dir, err)
		}
	}

	Logger.SetOutput(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})
}
