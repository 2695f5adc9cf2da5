package dto

import (
	"activity-tracker.com/activity-tracker/internal/navigation"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

const (
	UnknownResponsible = "N/A"
	UnknownAuthor      = "Unknown user"
)

type CommentResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	AuthorName string `json:"authorName"`
	Date       string `json:"date"`
	Text       string `json:"text"`
}

type ActivityResponse struct {
	ID                string                     `json:"id"`
	RegistrationDate  string                     `json:"registrationDate"`
	CommitmentDate    string                     `json:"commitmentDate"`
	Description       string                     `json:"description"`
	Type              constants.ActivityType     `json:"type"`
	Provider          string                     `json:"provider,omitempty"`
	EstimatedCost     float64                    `json:"estimatedCost"`
	Priority          constants.ActivityPriority `json:"priority"`
	ResponsibleUserID string                     `json:"responsibleUserId"`
	ResponsibleName   string                     `json:"responsibleName"`
	SourceAuditID     string                     `json:"sourceAuditId,omitempty"`
	SourceFindingID   string                     `json:"sourceFindingId,omitempty"`
	SourceLink        string                     `json:"sourceLink,omitempty"`
	Status            constants.ActivityStatus   `json:"status"`
	Progress          int                        `json:"progress"`
	Editable          bool                       `json:"editable"`
	Comments          []CommentResponse          `json:"comments"`
}

type ActivityListResponse struct {
	Count      int                `json:"count"`
	Activities []ActivityResponse `json:"activities"`
}

// NewActivityResponse projects an activity for display, resolving user names
// against users.
func NewActivityResponse(a model.Activity, users []model.User, auditsBaseURL string) ActivityResponse {
	resp := ActivityResponse{
		ID:                a.ID,
		RegistrationDate:  a.RegistrationDate,
		CommitmentDate:    a.CommitmentDate,
		Description:       a.Description,
		Type:              a.Type,
		EstimatedCost:     a.EstimatedCost,
		Priority:          a.Priority,
		ResponsibleUserID: a.ResponsibleUserID,
		ResponsibleName:   userName(users, a.ResponsibleUserID, UnknownResponsible),
		SourceAuditID:     a.SourceAuditID,
		SourceFindingID:   a.SourceFindingID,
		Status:            a.Status,
		Progress:          a.Progress,
		Editable:          a.Status != constants.StatusCompleted,
		Comments:          make([]CommentResponse, 0, len(a.Comments)),
	}
	if a.Type == constants.TypeExternal {
		resp.Provider = a.Provider
	}
	if link, ok := navigation.SourceLink(auditsBaseURL, a); ok {
		resp.SourceLink = link
	}
	for _, c := range a.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:         c.ID,
			UserID:     c.UserID,
			AuthorName: userName(users, c.UserID, UnknownAuthor),
			Date:       c.Date,
			Text:       c.Text,
		})
	}
	return resp
}

func NewActivityListResponse(activities []model.Activity, users []model.User, auditsBaseURL string) ActivityListResponse {
	list := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		list = append(list, NewActivityResponse(a, users, auditsBaseURL))
	}
	return ActivityListResponse{Count: len(list), Activities: list}
}

func userName(users []model.User, id, fallback string) string {
	if u, ok := model.FindUser(users, id); ok && u.FullName != "" {
		return u.FullName
	}
	return fallback
}
