package deadline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hirestack/gauntlet/internal/phase"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func startAgo(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func TestCompute_NoStartOrComplete(t *testing.T) {
	assert.Equal(t, Status{Label: "N/A"}, Compute(nil, now, phase.Technical))
	assert.Equal(t, Status{Label: "N/A"}, Compute(startAgo(48*time.Hour), now, phase.Complete))
}

func TestCompute_Boundaries(t *testing.T) {
	cases := []struct {
		name    string
		elapsed time.Duration
		want    Status
	}{
		{"fresh start", 0, Status{Label: "7 days left"}},
		{"two days in", 48 * time.Hour, Status{Label: "5 days left"}},
		{"four days in", 4 * 24 * time.Hour, Status{Label: "3 days left", IsUrgent: true}},
		{"five days in", 5 * 24 * time.Hour, Status{Label: "2 days left", IsUrgent: true}},
		{"exactly seven days", 7 * 24 * time.Hour, Status{Label: "0 days left", IsUrgent: true}},
		{"one second past", 7*24*time.Hour + time.Second, Status{Label: "Expired", IsExpired: true}},
		{"long expired", 30 * 24 * time.Hour, Status{Label: "Expired", IsExpired: true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(startAgo(tc.elapsed), now, phase.SystemDesign)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompute_PartialDayRoundsUp(t *testing.T) {
	got := Compute(startAgo(6*24*time.Hour+12*time.Hour), now, phase.FinalInterview)
	assert.Equal(t, "1 days left", got.Label)
	assert.True(t, got.IsUrgent)
	assert.False(t, got.IsExpired)
}
