package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	now := time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"earlier today", time.Date(2024, time.March, 15, 0, 5, 0, 0, time.UTC), "Today"},
		{"future", now.Add(time.Hour), "Today"},
		{"late yesterday", time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC), "Yesterday"},
		{"three days", time.Date(2024, time.March, 12, 12, 0, 0, 0, time.UTC), "3 days ago"},
		{"same year", time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC), "Jan 2"},
		{"older", time.Date(2023, time.December, 31, 12, 0, 0, 0, time.UTC), "Dec 31, 2023"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.t, now))
		})
	}
}
