package validators

import (
	"fmt"
	"strings"

	dto "activity-tracker.com/activity-tracker/internal/data_models"
	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// ValidateActivityRequest checks the form and turns it into a draft. On
// create the three required fields must be present; on edit only supplied
// fields are checked.
func ValidateActivityRequest(r *dto.ActivityRequest, users []model.User, creating bool) (model.ActivityDraft, error) {
	if creating {
		var missing []string
		if blank(r.Description) {
			missing = append(missing, "description")
		}
		if blank(r.CommitmentDate) {
			missing = append(missing, "commitmentDate")
		}
		if blank(r.ResponsibleUserID) {
			missing = append(missing, "responsibleUserId")
		}
		if len(missing) > 0 {
			return model.ActivityDraft{}, apperrors.MissingFields(missing...)
		}
	}

	draft := model.ActivityDraft{
		Provider:        r.Provider,
		SourceAuditID:   r.SourceAuditID,
		SourceFindingID: r.SourceFindingID,
	}

	if r.Description != nil {
		if blank(r.Description) {
			return model.ActivityDraft{}, apperrors.Invalid("description", "must not be empty")
		}
		d := strings.TrimSpace(*r.Description)
		draft.Description = &d
	}
	if err := checkDate("registrationDate", r.RegistrationDate, creating); err != nil {
		return model.ActivityDraft{}, err
	}
	draft.RegistrationDate = r.RegistrationDate
	if err := checkDate("commitmentDate", r.CommitmentDate, false); err != nil {
		return model.ActivityDraft{}, err
	}
	draft.CommitmentDate = r.CommitmentDate

	if r.Type != nil && *r.Type != "" {
		t, err := constants.ParseActivityType(*r.Type)
		if err != nil {
			return model.ActivityDraft{}, apperrors.Invalid("type", err.Error())
		}
		draft.Type = &t
	}
	if r.Priority != nil && *r.Priority != "" {
		p, err := constants.ParseActivityPriority(*r.Priority)
		if err != nil {
			return model.ActivityDraft{}, apperrors.Invalid("priority", err.Error())
		}
		draft.Priority = &p
	}
	if r.EstimatedCost != nil {
		if *r.EstimatedCost < 0 {
			return model.ActivityDraft{}, apperrors.Invalid("estimatedCost", "must not be negative")
		}
		draft.EstimatedCost = r.EstimatedCost
	}
	if r.ResponsibleUserID != nil {
		if _, ok := model.FindUser(users, *r.ResponsibleUserID); !ok {
			return model.ActivityDraft{}, apperrors.Invalid("responsibleUserId", fmt.Sprintf("unknown user %q", *r.ResponsibleUserID))
		}
		draft.ResponsibleUserID = r.ResponsibleUserID
	}

	return draft, nil
}

func ValidateProgressRequest(r *dto.ProgressRequest) error {
	if r.Progress == nil {
		return apperrors.MissingFields("progress")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// checkDate accepts nil and, when allowEmpty, an empty string.
func checkDate(field string, value *string, allowEmpty bool) error {
	if value == nil {
		return nil
	}
	if *value == "" {
		if allowEmpty {
			return nil
		}
		return apperrors.Invalid(field, "must not be empty")
	}
	if _, err := model.ParseDay(*value); err != nil {
		return apperrors.Invalid(field, err.Error())
	}
	return nil
}
