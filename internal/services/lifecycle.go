package services

import (
	"slices"
	"strings"
	"time"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// The functions in this file are pure: they never modify the slice they are
// given and return the next collection instead.

func CreateActivity(
	activities []model.Activity,
	draft model.ActivityDraft,
	id string,
	now time.Time,
) ([]model.Activity, model.Activity, error) {
	a := model.Activity{ID: id}
	draft.Progress = nil
	applyDraft(&a, draft)

	if a.RegistrationDate == "" {
		a.RegistrationDate = model.FormatDay(now)
	}
	if a.Type == "" {
		a.Type = constants.TypeInternal
	}
	if a.Priority == "" {
		a.Priority = constants.PriorityMedium
	}
	dropInternalProvider(&a)

	if err := validateRequired(a); err != nil {
		return activities, model.Activity{}, err
	}

	a.Progress = model.MinProgress
	a.Status = model.DeriveStatus(a.Progress)
	a.Comments = []model.Comment{}

	next := append(slices.Clone(activities), a)
	return next, a.Clone(), nil
}

// EditActivity merges the draft over the stored record. Status and comments
// are never taken from a draft; progress is, clamped, with status re-derived.
func EditActivity(
	activities []model.Activity,
	id string,
	draft model.ActivityDraft,
) ([]model.Activity, model.Activity, error) {
	return modify(activities, id, func(a *model.Activity) error {
		applyDraft(a, draft)
		dropInternalProvider(a)
		return validateRequired(*a)
	})
}

func UpdateProgress(
	activities []model.Activity,
	id string,
	progress int,
) ([]model.Activity, model.Activity, error) {
	return modify(activities, id, func(a *model.Activity) error {
		setProgress(a, progress)
		return nil
	})
}

// AddComment appends a comment authored by authorUserID. Whitespace-only
// text leaves the collection unchanged and reports added=false.
func AddComment(
	activities []model.Activity,
	id string,
	authorUserID string,
	text string,
	commentID string,
	now time.Time,
) (next []model.Activity, updated model.Activity, added bool, err error) {
	if authorUserID == "" {
		return activities, model.Activity{}, false, apperrors.ErrUnauthenticated
	}

	text = strings.TrimSpace(text)
	next, updated, err = modify(activities, id, func(a *model.Activity) error {
		if text == "" {
			return nil
		}
		a.Comments = append(a.Comments, model.Comment{
			ID:     commentID,
			UserID: authorUserID,
			Date:   now.UTC().Format(model.CommentTimeLayout),
			Text:   text,
		})
		added = true
		return nil
	})
	if err != nil || !added {
		return activities, updated, false, err
	}
	return next, updated, true, nil
}

// DeleteActivity removes the activity if present.
func DeleteActivity(activities []model.Activity, id string) ([]model.Activity, bool) {
	next := slices.DeleteFunc(slices.Clone(activities), func(a model.Activity) bool {
		return a.ID == id
	})
	return next, len(next) != len(activities)
}

func FindActivity(activities []model.Activity, id string) (model.Activity, error) {
	i := slices.IndexFunc(activities, func(a model.Activity) bool { return a.ID == id })
	if i < 0 {
		return model.Activity{}, apperrors.ErrActivityNotFound.Wrapf("%s", id)
	}
	return activities[i].Clone(), nil
}

// FilterByCommitmentRange keeps activities whose commitment date falls in
// [start, end], both inclusive days. An empty bound is open. The result is
// ordered by commitment date; equal dates keep collection order and records
// with unreadable dates sort last.
func FilterByCommitmentRange(activities []model.Activity, start, end string) ([]model.Activity, error) {
	var from, to *time.Time
	if start != "" {
		t, err := model.ParseDay(start)
		if err != nil {
			return nil, apperrors.Invalid("startDate", err.Error())
		}
		from = &t
	}
	if end != "" {
		t, err := model.ParseDay(end)
		if err != nil {
			return nil, apperrors.Invalid("endDate", err.Error())
		}
		to = &t
	}

	type dated struct {
		activity model.Activity
		day      time.Time
		ok       bool
	}

	rows := make([]dated, 0, len(activities))
	for _, a := range activities {
		day, err := model.ParseDay(a.CommitmentDate)
		ok := err == nil
		if from != nil || to != nil {
			if !ok {
				continue
			}
			if from != nil && day.Before(*from) {
				continue
			}
			if to != nil && day.After(*to) {
				continue
			}
		}
		rows = append(rows, dated{activity: a.Clone(), day: day, ok: ok})
	}

	slices.SortStableFunc(rows, func(x, y dated) int {
		switch {
		case x.ok && !y.ok:
			return -1
		case !x.ok && y.ok:
			return 1
		case !x.ok && !y.ok:
			return 0
		}
		return x.day.Compare(y.day)
	})

	result := make([]model.Activity, len(rows))
	for i, r := range rows {
		result[i] = r.activity
	}
	return result, nil
}

func modify(
	activities []model.Activity,
	id string,
	fn func(a *model.Activity) error,
) ([]model.Activity, model.Activity, error) {
	i := slices.IndexFunc(activities, func(a model.Activity) bool { return a.ID == id })
	if i < 0 {
		return activities, model.Activity{}, apperrors.ErrActivityNotFound.Wrapf("%s", id)
	}

	a := activities[i].Clone()
	if err := fn(&a); err != nil {
		return activities, model.Activity{}, err
	}

	next := slices.Clone(activities)
	next[i] = a
	return next, a.Clone(), nil
}

func setProgress(a *model.Activity, progress int) {
	a.Progress = model.ClampProgress(progress)
	a.Status = model.DeriveStatus(a.Progress)
}

func applyDraft(a *model.Activity, d model.ActivityDraft) {
	if d.RegistrationDate != nil {
		a.RegistrationDate = *d.RegistrationDate
	}
	if d.CommitmentDate != nil {
		a.CommitmentDate = *d.CommitmentDate
	}
	if d.Description != nil {
		a.Description = *d.Description
	}
	if d.Type != nil {
		a.Type = *d.Type
	}
	if d.Provider != nil {
		a.Provider = *d.Provider
	}
	if d.EstimatedCost != nil {
		a.EstimatedCost = *d.EstimatedCost
	}
	if d.Priority != nil {
		a.Priority = *d.Priority
	}
	if d.ResponsibleUserID != nil {
		a.ResponsibleUserID = *d.ResponsibleUserID
	}
	if d.SourceAuditID != nil {
		a.SourceAuditID = *d.SourceAuditID
	}
	if d.SourceFindingID != nil {
		a.SourceFindingID = *d.SourceFindingID
	}
	if d.Progress != nil {
		setProgress(a, *d.Progress)
	}
}

// dropInternalProvider clears the provider of anything but an external
// activity; only external work has one.
func dropInternalProvider(a *model.Activity) {
	if a.Type != constants.TypeExternal {
		a.Provider = ""
	}
}

func validateRequired(a model.Activity) error {
	var missing []string
	if strings.TrimSpace(a.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(a.CommitmentDate) == "" {
		missing = append(missing, "commitmentDate")
	}
	if strings.TrimSpace(a.ResponsibleUserID) == "" {
		missing = append(missing, "responsibleUserId")
	}
	if len(missing) > 0 {
		return apperrors.MissingFields(missing...)
	}
	return nil
}
