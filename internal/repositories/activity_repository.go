package repository

import (
	"context"
	"errors"
	"log"
	"sync"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/internal/store"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// ActivityRepository stores the whole activity collection as one document.
// It remembers the records of the last load so that saving rewrites only
// the fields that changed.
type ActivityRepository struct {
	store store.KeyValueStore

	mu      sync.Mutex
	records map[string]record
}

func NewActivityRepository(s store.KeyValueStore) *ActivityRepository {
	return &ActivityRepository{store: s}
}

// Load returns the normalized collection. Legacy records are rewritten to
// the store in a single call before Load returns.
func (r *ActivityRepository) Load(ctx context.Context) ([]model.Activity, error) {
	data, err := r.store.Get(ctx, constants.ActivitiesKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			r.mu.Lock()
			r.records = nil
			r.mu.Unlock()
			return []model.Activity{}, nil
		}
		return nil, err
	}

	needsWrite, activities, records, err := decodeDocument(data)

	r.mu.Lock()
	if err != nil {
		r.records = nil
		r.mu.Unlock()
		return nil, apperrors.MalformedStorage(constants.ActivitiesKey, err)
	}
	r.records = make(map[string]record, len(records))
	for i, rec := range records {
		r.records[activities[i].ID] = rec
	}
	r.mu.Unlock()

	if needsWrite {
		if err := r.SaveAll(ctx, activities); err != nil {
			return nil, err
		}
		log.Printf("migrated %d legacy activity records", len(activities))
	}

	return activities, nil
}

// SaveAll overwrites the persisted collection.
func (r *ActivityRepository) SaveAll(ctx context.Context, activities []model.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, records, err := encodeActivities(activities, r.records)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, constants.ActivitiesKey, data); err != nil {
		return err
	}

	r.records = records
	return nil
}
