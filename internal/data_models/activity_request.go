package dto

// ActivityRequest is the create/edit form. Omitted fields keep their stored
// value on edit.
type ActivityRequest struct {
	RegistrationDate  *string  `json:"registrationDate"`
	CommitmentDate    *string  `json:"commitmentDate"`
	Description       *string  `json:"description"`
	Type              *string  `json:"type"`
	Provider          *string  `json:"provider"`
	EstimatedCost     *float64 `json:"estimatedCost"`
	Priority          *string  `json:"priority"`
	ResponsibleUserID *string  `json:"responsibleUserId"`
	SourceAuditID     *string  `json:"sourceAuditId"`
	SourceFindingID   *string  `json:"sourceFindingId"`
}

type ProgressRequest struct {
	Progress *int `json:"progress"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type FollowUpRequest struct {
	Progress *int   `json:"progress"`
	Comment  string `json:"comment"`
}
