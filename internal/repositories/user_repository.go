package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/internal/store"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// UserRepository reads the user directory owned by the identity side of the
// application.
type UserRepository struct {
	store store.KeyValueStore
}

func NewUserRepository(s store.KeyValueStore) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	data, err := r.store.Get(ctx, constants.UsersKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return []model.User{}, nil
		}
		return nil, err
	}

	users, err := decodeUsers(data)
	if err != nil {
		return nil, apperrors.MalformedStorage(constants.UsersKey, err)
	}
	return users, nil
}

// Import replaces the user directory with a JSON array of user records.
// The document is stored verbatim so fields this module does not know about
// survive.
func (r *UserRepository) Import(ctx context.Context, data []byte) (int, error) {
	users, err := decodeUsers(data)
	if err != nil {
		return 0, apperrors.ErrInvalidJSON.Wrapf("%v", err)
	}
	for i, u := range users {
		if u.ID == "" {
			return 0, apperrors.Invalid(fmt.Sprintf("users[%d].id", i), "must not be empty")
		}
	}

	if err := r.store.Set(ctx, constants.UsersKey, data); err != nil {
		return 0, err
	}
	return len(users), nil
}

func decodeUsers(data []byte) ([]model.User, error) {
	var users []model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}
