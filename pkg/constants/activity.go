package constants

import (
	"encoding/json"
	"fmt"
)

type ActivityStatus string

const (
	StatusPending    ActivityStatus = "Pending"
	StatusInProgress ActivityStatus = "InProgress"
	StatusCompleted  ActivityStatus = "Completed"
)

type ActivityType string

const (
	TypeInternal ActivityType = "Internal"
	TypeExternal ActivityType = "External"
)

type ActivityPriority string

const (
	PriorityLow    ActivityPriority = "Low"
	PriorityMedium ActivityPriority = "Medium"
	PriorityHigh   ActivityPriority = "High"
)

const (
	PermissionManageActivities = "manage_activities"

	// SystemUserID authors comments carried over from legacy free-text notes.
	SystemUserID = "system"

	ActivitiesKey = "activities"
	UsersKey      = "users"
)

// Labels written by earlier versions of the application.
var (
	legacyStatuses = map[string]ActivityStatus{
		"Pendiente":   StatusPending,
		"En Progreso": StatusInProgress,
		"Completada":  StatusCompleted,
	}
	legacyTypes = map[string]ActivityType{
		"Interna": TypeInternal,
		"Externa": TypeExternal,
	}
	legacyPriorities = map[string]ActivityPriority{
		"Baja":  PriorityLow,
		"Media": PriorityMedium,
		"Alta":  PriorityHigh,
	}
)

func ParseActivityStatus(s string) (ActivityStatus, error) {
	switch v := ActivityStatus(s); v {
	case StatusPending, StatusInProgress, StatusCompleted:
		return v, nil
	}
	if v, ok := legacyStatuses[s]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown activity status %q", s)
}

func ParseActivityType(s string) (ActivityType, error) {
	switch v := ActivityType(s); v {
	case TypeInternal, TypeExternal:
		return v, nil
	}
	if v, ok := legacyTypes[s]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown activity type %q", s)
}

func ParseActivityPriority(s string) (ActivityPriority, error) {
	switch v := ActivityPriority(s); v {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return v, nil
	}
	if v, ok := legacyPriorities[s]; ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown activity priority %q", s)
}

// Empty strings decode to the zero value so that partially filled legacy
// records still load; callers apply defaults.

func (s *ActivityStatus) UnmarshalJSON(b []byte) error {
	return unmarshalLabel(b, func(raw string) error {
		v, err := ParseActivityStatus(raw)
		*s = v
		return err
	})
}

func (t *ActivityType) UnmarshalJSON(b []byte) error {
	return unmarshalLabel(b, func(raw string) error {
		v, err := ParseActivityType(raw)
		*t = v
		return err
	})
}

func (p *ActivityPriority) UnmarshalJSON(b []byte) error {
	return unmarshalLabel(b, func(raw string) error {
		v, err := ParseActivityPriority(raw)
		*p = v
		return err
	})
}

func unmarshalLabel(b []byte, parse func(string) error) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	return parse(raw)
}
