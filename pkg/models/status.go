package model

import "activity-tracker.com/activity-tracker/pkg/constants"

const (
	MinProgress = 0
	MaxProgress = 100
)

// DeriveStatus is the only place status is computed. Status is never taken
// from callers or storage as-is.
func DeriveStatus(progress int) constants.ActivityStatus {
	switch {
	case progress >= MaxProgress:
		return constants.StatusCompleted
	case progress > MinProgress:
		return constants.StatusInProgress
	default:
		return constants.StatusPending
	}
}

func ClampProgress(progress int) int {
	return min(max(progress, MinProgress), MaxProgress)
}
