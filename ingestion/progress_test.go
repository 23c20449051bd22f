package ingestion

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Basic(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 2)

	tracker.Start()
	assert.True(t, tracker.started, "should be started")

	tracker.Done(3, nil)
	assert.Empty(t, buf.String(), "no report before the interval")
	tracker.Done(2, nil)

	output := buf.String()
	assert.Contains(t, output, "2/4 documents")
	assert.Contains(t, output, "50.0%")
	assert.Contains(t, output, "5 pages")

	time.Sleep(time.Millisecond)
	assert.Greater(t, tracker.Elapsed(), time.Duration(0))
}

func TestProgressTracker_Failures(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 2, 1)

	tracker.Start()
	tracker.Done(0, errors.New("bad"))
	tracker.Done(1, nil)
	tracker.Finish()

	output := buf.String()
	assert.Contains(t, output, "2/2 documents")
	assert.Contains(t, output, "1 failed")
	assert.True(t, strings.HasSuffix(output, "\n"), "finish should print newline")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Done(1, nil)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Equal(t, time.Duration(0), tracker.Elapsed())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 1, 0)

	tracker.Start()
	tracker.Done(1, nil)
	tracker.Done(1, nil)

	assert.NotContains(t, buf.String(), "2/1")
}
