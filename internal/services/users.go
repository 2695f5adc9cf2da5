package services

import (
	"context"
	"errors"
	"log"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

type UserLister interface {
	List(ctx context.Context) ([]model.User, error)
}

// DirectoryUsers lists the user directory for display. An unreadable
// directory yields no users, so names fall back to their placeholders.
func DirectoryUsers(ctx context.Context, users UserLister) ([]model.User, error) {
	list, err := users.List(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedStorage) {
			log.Printf("users unreadable, showing none: %v", err)
			return []model.User{}, nil
		}
		return nil, err
	}
	return list, nil
}
