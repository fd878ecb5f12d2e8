package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNeverReportedIsIdle(t *testing.T) {
	assert.Equal(t, StateIdle, Classify(nil, time.Hour, time.Now()))
}

func TestClassifyBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	interval := time.Hour

	tests := []struct {
		name    string
		elapsed time.Duration
		want    State
	}{
		{"just reported", time.Minute, StateActive},
		{"exactly twice the interval", 2 * time.Hour, StateActive},
		{"past twice the interval", 2*time.Hour + time.Second, StateDelayed},
		{"exactly a day", 24 * time.Hour, StateDelayed},
		{"past a day", 24*time.Hour + time.Second, StateOffline},
		{"long gone", 90 * 24 * time.Hour, StateOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			last := now.Add(-tt.elapsed)
			assert.Equal(t, tt.want, Classify(&last, interval, now))
		})
	}
}

func TestClassifyOfflineCutoffIgnoresCadence(t *testing.T) {
	now := time.Now()
	last := now.Add(-25 * time.Hour)
	// Even a very slow cadence cannot keep a silent agent out of offline.
	assert.Equal(t, StateOffline, Classify(&last, 100*time.Hour, now))
}
