package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestEventFormatter(t *testing.T) {
	f := &EventFormatter{SystemName: "tasks-service"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "Event ID: TASK_NOT_FOUND, Description: missing",
		Data:    logrus.Fields{"task": "abc"},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	line := string(out)

	for _, want := range []string{
		"Date: 2024-05-01, Time: 13:04:05, ",
		"Event Source: tasks-service, ",
		"Event Type: WARNING, ",
		"Message: Event ID: TASK_NOT_FOUND, Description: missing",
		", task=abc",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("formatted line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Error("formatted line should end with newline")
	}
}
