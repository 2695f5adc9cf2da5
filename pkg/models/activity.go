package model

import (
	"activity-tracker.com/activity-tracker/pkg/constants"
)

// Activity is a remediation or follow-up task tracked to completion.
// Dates are kept in the persisted form: YYYY-MM-DD for registration and
// commitment dates, ISO-8601 timestamps for comments.
type Activity struct {
	ID                string                     `json:"id"`
	RegistrationDate  string                     `json:"registrationDate"`
	CommitmentDate    string                     `json:"commitmentDate"`
	Description       string                     `json:"description"`
	Type              constants.ActivityType     `json:"type"`
	Provider          string                     `json:"provider,omitempty"`
	EstimatedCost     float64                    `json:"estimatedCost"`
	Priority          constants.ActivityPriority `json:"priority"`
	ResponsibleUserID string                     `json:"responsibleUserId"`
	SourceAuditID     string                     `json:"sourceAuditId,omitempty"`
	SourceFindingID   string                     `json:"sourceFindingId,omitempty"`
	Status            constants.ActivityStatus   `json:"status"`
	Progress          int                        `json:"progress"`
	Comments          []Comment                  `json:"comments"`
}

// Comment is an entry in an activity's follow-up log. Comments are only ever
// appended.
type Comment struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

// ActivityDraft carries the caller-editable fields of an activity. Nil fields
// are left untouched on edit and defaulted on create.
type ActivityDraft struct {
	RegistrationDate  *string
	CommitmentDate    *string
	Description       *string
	Type              *constants.ActivityType
	Provider          *string
	EstimatedCost     *float64
	Priority          *constants.ActivityPriority
	ResponsibleUserID *string
	SourceAuditID     *string
	SourceFindingID   *string
	Progress          *int
}

// Clone returns a copy that shares no comment storage with a.
func (a Activity) Clone() Activity {
	if a.Comments != nil {
		comments := make([]Comment, len(a.Comments))
		copy(comments, a.Comments)
		a.Comments = comments
	}
	return a
}
