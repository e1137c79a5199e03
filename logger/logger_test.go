package logger

import (
	"fmt"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestLogger_NewLogger(t *testing.T) {
	tests := []struct {
		level    string
		enabled  logging.Level
		disabled logging.Level
	}{
		{"DEBUG", logging.DEBUG, -1},
		{"ERROR", logging.ERROR, logging.WARNING},
		{"warning", logging.WARNING, logging.INFO},
		// Unknown levels fall back to INFO instead of failing.
		{"INVALID", logging.INFO, logging.DEBUG},
		{"", logging.INFO, logging.DEBUG},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("level %q", test.level), func(t *testing.T) {
			var log Logger = NewLogger(test.level, "Harness")
			assert.NotNil(t, log)
			assert.True(t, log.IsEnabledFor(test.enabled))
			if test.disabled >= 0 {
				assert.False(t, log.IsEnabledFor(test.disabled))
			}
		})
	}
}

func TestLogger_LogLevelFlagDefault(t *testing.T) {
	// The flag's default must be a level NewLogger accepts, otherwise
	// every tool silently runs at the fallback level.
	_, err := logging.LogLevel(LogLevelFlag.Value)
	assert.NoError(t, err)
	assert.Equal(t, "log", LogLevelFlag.Name)
}

func TestLogger_ParseTime(t *testing.T) {
	tests := []struct {
		elapsed                 time.Duration
		hours, minutes, seconds uint32
	}{
		{0, 0, 0, 0},
		{59 * time.Second, 0, 0, 59},
		{61 * time.Second, 0, 1, 1},
		{3661 * time.Second, 1, 1, 1},
		{25*time.Hour + 30*time.Minute, 25, 30, 0},
		// Sub-second remainders are truncated, not rounded.
		{1500 * time.Millisecond, 0, 0, 1},
	}
	for _, test := range tests {
		t.Run(test.elapsed.String(), func(t *testing.T) {
			hours, minutes, seconds := ParseTime(test.elapsed)
			assert.Equal(t, test.hours, hours)
			assert.Equal(t, test.minutes, minutes)
			assert.Equal(t, test.seconds, seconds)
		})
	}
}
