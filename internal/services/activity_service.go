package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

//go:generate mockgen -source=activity_service.go -destination=mocks/mock_activity_repository.go -package=mocks

// ActivityRepository loads and persists the full activity collection.
type ActivityRepository interface {
	Load(ctx context.Context) ([]model.Activity, error)

	SaveAll(ctx context.Context, activities []model.Activity) error
}

// ActivityService applies one lifecycle transition per call: load the
// collection, transform it, persist it whole.
type ActivityService struct {
	mu   sync.Mutex
	repo ActivityRepository

	Now          func() time.Time
	NewID        func() string
	NewCommentID func() string
}

func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{
		repo:         repo,
		Now:          time.Now,
		NewID:        newActivityID,
		NewCommentID: newCommentID,
	}
}

// newActivityID returns a time-ordered UUIDv7, so ids follow creation time.
func newActivityID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func newCommentID() string {
	return "comment-" + uuid.NewString()
}

// FollowUp is a combined progress and comment update from the detail view.
type FollowUp struct {
	Progress     *int
	CommentText  string
	AuthorUserID string

	// RejectCompleted refuses the update when the activity is already
	// Completed, as the detail view does.
	RejectCompleted bool
}

func (s *ActivityService) List(ctx context.Context, startDate, endDate string) ([]model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByCommitmentRange(activities, startDate, endDate)
}

func (s *ActivityService) Get(ctx context.Context, id string) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return model.Activity{}, err
	}
	return FindActivity(activities, id)
}

func (s *ActivityService) Create(ctx context.Context, draft model.ActivityDraft) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return model.Activity{}, err
	}

	next, created, err := CreateActivity(activities, draft, s.NewID(), s.now())
	if err != nil {
		return model.Activity{}, err
	}
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return model.Activity{}, err
	}

	log.Printf("activity %s created", created.ID)
	return created, nil
}

func (s *ActivityService) Edit(ctx context.Context, id string, draft model.ActivityDraft) (model.Activity, error) {
	return s.apply(ctx, func(activities []model.Activity) ([]model.Activity, model.Activity, error) {
		return EditActivity(activities, id, draft)
	})
}

func (s *ActivityService) UpdateProgress(ctx context.Context, id string, progress int) (model.Activity, error) {
	updated, err := s.apply(ctx, func(activities []model.Activity) ([]model.Activity, model.Activity, error) {
		return UpdateProgress(activities, id, progress)
	})
	if err != nil {
		return model.Activity{}, err
	}

	log.Printf("activity %s progress set to %d (%s)", id, updated.Progress, updated.Status)
	return updated, nil
}

func (s *ActivityService) AddComment(ctx context.Context, id, authorUserID, text string) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return model.Activity{}, err
	}

	next, updated, added, err := AddComment(activities, id, authorUserID, text, s.NewCommentID(), s.now())
	if err != nil {
		return model.Activity{}, err
	}
	if !added {
		return updated, nil
	}
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return model.Activity{}, err
	}
	return updated, nil
}

// ApplyFollowUp sets progress and appends a comment in one persisted step.
// Either part may be absent.
func (s *ActivityService) ApplyFollowUp(ctx context.Context, id string, f FollowUp) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return model.Activity{}, err
	}

	updated, err := FindActivity(activities, id)
	if err != nil {
		return model.Activity{}, err
	}
	if f.RejectCompleted && updated.Status == constants.StatusCompleted {
		return model.Activity{}, apperrors.ErrActivityCompleted.Wrapf("%s", id)
	}

	next := activities
	changed := false
	if f.Progress != nil {
		next, updated, err = UpdateProgress(next, id, *f.Progress)
		if err != nil {
			return model.Activity{}, err
		}
		changed = true
	}

	if f.CommentText != "" {
		var (
			withComment []model.Activity
			added       bool
		)
		withComment, updated, added, err = AddComment(next, id, f.AuthorUserID, f.CommentText, s.NewCommentID(), s.now())
		if err != nil {
			return model.Activity{}, err
		}
		next = withComment
		changed = changed || added
	}

	if !changed {
		return updated, nil
	}
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return model.Activity{}, err
	}
	return updated, nil
}

// Delete removes the activity. Deleting an unknown id succeeds.
func (s *ActivityService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return err
	}

	next, removed := DeleteActivity(activities, id)
	if !removed {
		return nil
	}
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return err
	}

	log.Printf("activity %s deleted", id)
	return nil
}

// Migrate forces a load so legacy records are normalized and written back.
// It reports the collection size.
func (s *ActivityService) Migrate(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.repo.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(activities), nil
}

func (s *ActivityService) apply(
	ctx context.Context,
	fn func([]model.Activity) ([]model.Activity, model.Activity, error),
) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.load(ctx)
	if err != nil {
		return model.Activity{}, err
	}

	next, updated, err := fn(activities)
	if err != nil {
		return model.Activity{}, err
	}
	if err := s.repo.SaveAll(ctx, next); err != nil {
		return model.Activity{}, err
	}
	return updated, nil
}

// load falls back to an empty collection when the stored document is
// malformed; it is user-local state and the next save replaces it.
func (s *ActivityService) load(ctx context.Context) ([]model.Activity, error) {
	activities, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrMalformedStorage) {
			log.Printf("activities unreadable, starting empty: %v", err)
			return []model.Activity{}, nil
		}
		return nil, err
	}
	return activities, nil
}

func (s *ActivityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
