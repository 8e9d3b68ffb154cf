package storage

import "testing"

func TestIntervalForRange(t *testing.T) {
	tests := []struct {
		timeRange string
		want      string
	}{
		{"month", "1 month"},
		{"week", "7 day"},
		{"day", "1 day"},
		{"4hours", "4 hour"},
		{"hour", "1 hour"},
		{"30minutes", "30 minute"},
		{"", "1 hour"},
		{"garbage", "1 hour"},
	}

	for _, tt := range tests {
		t.Run(tt.timeRange, func(t *testing.T) {
			if got := IntervalForRange(tt.timeRange); got != tt.want {
				t.Errorf("IntervalForRange(%q) = %q, want %q", tt.timeRange, got, tt.want)
			}
		})
	}
}
