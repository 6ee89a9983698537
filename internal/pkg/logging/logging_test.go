package logging

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDailyFileSwitchesByDate(t *testing.T) {
	assert := require.New(t)
	w, err := NewDailyFile(t.TempDir())
	assert.NoError(err)

	day := time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return day }
	_, err = w.Write([]byte("first\n"))
	assert.NoError(err)
	first := w.Path()
	assert.True(strings.HasSuffix(first, "cms_2026-10-14.log"))

	day = day.Add(2 * time.Minute)
	_, err = w.Write([]byte("second\n"))
	assert.NoError(err)
	assert.NotEqual(first, w.Path())

	b, err := os.ReadFile(first)
	assert.NoError(err)
	assert.Equal("first\n", string(b))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("", "loud")
	require.Error(t, err)

	l, err := New(t.TempDir(), "debug")
	require.NoError(t, err)
	l.Debug("ready")
}

func TestConsoleWritesToGivenWriter(t *testing.T) {
	assert := require.New(t)
	var buf strings.Builder
	log, err := Console(&buf, "warn")
	assert.NoError(err)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(buf.String(), "hidden")
	assert.Contains(buf.String(), "shown")
}
