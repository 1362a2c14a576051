// Package deadline computes the remaining-time status of an assessment window.
package deadline

import (
	"fmt"
	"math"
	"time"

	"github.com/hirestack/gauntlet/internal/phase"
)

// Window is the fixed time a candidate has to finish the gauntlet.
const Window = 7 * 24 * time.Hour

// urgentThresholdDays marks how close to the deadline the status flips urgent.
const urgentThresholdDays = 3

// Status describes where a candidate sits relative to the deadline. It is
// derived on every read and never stored.
type Status struct {
	Label     string `json:"label"`
	IsUrgent  bool   `json:"is_urgent"`
	IsExpired bool   `json:"is_expired"`
}

// Compute derives the deadline status from the gauntlet start time. A missing
// start or a completed run has no deadline. Exactly zero days remaining is
// urgent but not expired; expiry requires strictly negative remaining time.
func Compute(start *time.Time, now time.Time, p phase.Phase) Status {
	if p == phase.Complete || start == nil {
		return Status{Label: "N/A"}
	}

	remaining := start.Add(Window).Sub(now)
	if remaining < 0 {
		return Status{Label: "Expired", IsExpired: true}
	}

	remainingDays := int(math.Ceil(remaining.Hours() / 24))
	return Status{
		Label:    fmt.Sprintf("%d days left", remainingDays),
		IsUrgent: remainingDays <= urgentThresholdDays,
	}
}
