package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	repository "activity-tracker.com/activity-tracker/internal/repositories"
	"activity-tracker.com/activity-tracker/internal/services/mocks"
	"activity-tracker.com/activity-tracker/internal/store"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&store.Document{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func newTestService(t *testing.T) (*ActivityService, store.KeyValueStore) {
	t.Helper()
	kv := store.NewSQLStore(setupTestDB(t))
	service := NewActivityService(repository.NewActivityRepository(kv))

	var (
		mu  sync.Mutex
		seq int
	)
	service.Now = func() time.Time { return testNow }
	service.NewID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("act-%d", seq)
	}
	service.NewCommentID = func() string {
		mu.Lock()
		defer mu.Unlock()
		seq++
		return fmt.Sprintf("comment-%d", seq)
	}
	return service, kv
}

func TestActivityService_CreateAndFollowUp(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("failed to create activity: %v", err)
	}
	if created.Status != constants.StatusPending || created.Progress != 0 || len(created.Comments) != 0 {
		t.Errorf("unexpected initial state: %#v", created)
	}

	updated, err := service.UpdateProgress(ctx, created.ID, 100)
	if err != nil {
		t.Fatalf("failed to update progress: %v", err)
	}
	if updated.Status != constants.StatusCompleted {
		t.Errorf("expected %s, got %s", constants.StatusCompleted, updated.Status)
	}

	updated, err = service.AddComment(ctx, created.ID, "u1", "closed with change CR-12")
	if err != nil {
		t.Fatalf("failed to add comment: %v", err)
	}

	fetched, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("failed to get activity: %v", err)
	}
	if fetched.Progress != 100 || len(fetched.Comments) != 1 {
		t.Errorf("expected persisted progress and comment, got %#v", fetched)
	}
	if fetched.Comments[0].Text != updated.Comments[0].Text {
		t.Errorf("expected comment text to match, got %q", fetched.Comments[0].Text)
	}
}

func TestActivityService_UpdateProgressUnknownID(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.UpdateProgress(context.Background(), "missing", 20)
	if !errors.Is(err, apperrors.ErrActivityNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestActivityService_WhitespaceCommentNotPersisted(t *testing.T) {
	service, kv := newTestService(t)
	ctx := context.Background()

	created, _ := service.Create(ctx, validDraft())
	before, _ := kv.Get(ctx, constants.ActivitiesKey)

	updated, err := service.AddComment(ctx, created.ID, "u1", "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	after, _ := kv.Get(ctx, constants.ActivitiesKey)

	if len(updated.Comments) != 0 {
		t.Errorf("expected no comments, got %d", len(updated.Comments))
	}
	if string(before) != string(after) {
		t.Error("expected stored document unchanged")
	}
}

func TestActivityService_ApplyFollowUp(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, _ := service.Create(ctx, validDraft())
	progress := 45

	updated, err := service.ApplyFollowUp(ctx, created.ID, FollowUp{
		Progress:     &progress,
		CommentText:  "vendor engaged",
		AuthorUserID: "u2",
	})
	if err != nil {
		t.Fatalf("follow up: %v", err)
	}
	if updated.Progress != 45 || updated.Status != constants.StatusInProgress {
		t.Errorf("unexpected progress %d/%s", updated.Progress, updated.Status)
	}
	if len(updated.Comments) != 1 || updated.Comments[0].UserID != "u2" {
		t.Errorf("unexpected comments %#v", updated.Comments)
	}

	_, err = service.ApplyFollowUp(ctx, created.ID, FollowUp{CommentText: "anonymous"})
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}

	fetched, _ := service.Get(ctx, created.ID)
	if len(fetched.Comments) != 1 {
		t.Errorf("failed follow-up must not persist, got %d comments", len(fetched.Comments))
	}
}

func TestActivityService_ApplyFollowUpRejectsCompleted(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, _ := service.Create(ctx, validDraft())
	if _, err := service.UpdateProgress(ctx, created.ID, 100); err != nil {
		t.Fatalf("complete: %v", err)
	}

	reopen := 50
	_, err := service.ApplyFollowUp(ctx, created.ID, FollowUp{Progress: &reopen, RejectCompleted: true})
	if !errors.Is(err, apperrors.ErrActivityCompleted) {
		t.Fatalf("expected activity completed error, got %v", err)
	}

	reopened, err := service.ApplyFollowUp(ctx, created.ID, FollowUp{Progress: &reopen})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Status != constants.StatusInProgress {
		t.Errorf("expected InProgress after reopening, got %s", reopened.Status)
	}
}

func TestActivityService_ListFiltersAndSorts(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2024-04-01", "2024-02-01", "2024-03-01"} {
		draft := validDraft()
		draft.CommitmentDate = ptr(date)
		if _, err := service.Create(ctx, draft); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := service.List(ctx, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].CommitmentDate != "2024-02-01" || all[2].CommitmentDate != "2024-04-01" {
		t.Errorf("unexpected order %#v", all)
	}

	window, _ := service.List(ctx, "2024-03-01", "2024-04-01")
	if len(window) != 2 {
		t.Errorf("expected 2 activities in window, got %d", len(window))
	}
}

func TestActivityService_DeleteIsIdempotent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, _ := service.Create(ctx, validDraft())

	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.Delete(ctx, created.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := service.Get(ctx, created.ID); !errors.Is(err, apperrors.ErrActivityNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}

func TestActivityService_UnknownStoredStatusKeepsCollection(t *testing.T) {
	service, kv := newTestService(t)
	ctx := context.Background()

	stored := `[
		{"id":"keep1","commitmentDate":"2024-03-01","description":"a","responsibleUserId":"u1","status":"Pending","progress":0,"comments":[]},
		{"id":"keep2","commitmentDate":"2024-03-02","description":"b","responsibleUserId":"u1","status":"Cancelada","progress":30,"comments":[]}
	]`
	if err := kv.Set(ctx, constants.ActivitiesKey, []byte(stored)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := service.Create(ctx, validDraft()); err != nil {
		t.Fatalf("create: %v", err)
	}

	activities, err := service.List(ctx, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(activities) != 3 {
		t.Fatalf("expected stored activities kept, got %d", len(activities))
	}
	for _, a := range activities {
		if a.ID == "keep2" && a.Status != constants.StatusInProgress {
			t.Errorf("expected keep2 status derived from progress, got %s", a.Status)
		}
	}
}

func TestActivityService_MalformedStorageStartsEmpty(t *testing.T) {
	service, kv := newTestService(t)
	ctx := context.Background()

	if err := kv.Set(ctx, constants.ActivitiesKey, []byte(`{"not":"a list"}`)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	all, err := service.List(ctx, "", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty collection, got %d", len(all))
	}

	if _, err := service.Create(ctx, validDraft()); err != nil {
		t.Fatalf("create after reset: %v", err)
	}
	if _, err := service.Migrate(ctx); err != nil {
		t.Errorf("expected store to be readable after reset, got %v", err)
	}
}

func TestActivityService_ConcurrentCreates(t *testing.T) {
	service, _ := newTestService(t)

	const concurrentCount = 20
	var wg sync.WaitGroup
	wg.Add(concurrentCount)

	errs := make(chan error, concurrentCount)
	for i := 0; i < concurrentCount; i++ {
		go func() {
			defer wg.Done()
			if _, err := service.Create(context.Background(), validDraft()); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent creation failed: %v", err)
	}

	all, _ := service.List(context.Background(), "", "")
	if len(all) != concurrentCount {
		t.Errorf("expected %d activities, got %d", concurrentCount, len(all))
	}
}

func TestActivityService_SaveFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	service := NewActivityService(repo)

	repo.EXPECT().Load(gomock.Any()).Return([]model.Activity{}, nil)
	repo.EXPECT().SaveAll(gomock.Any(), gomock.Len(1)).Return(errors.New("disk full"))

	_, err := service.Create(context.Background(), validDraft())
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestActivityService_LoadFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	service := NewActivityService(repo)

	repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))

	if _, err := service.UpdateProgress(context.Background(), "a", 10); err == nil {
		t.Fatal("expected load error")
	}
}

func TestActivityService_ValidationSkipsSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockActivityRepository(ctrl)
	service := NewActivityService(repo)

	repo.EXPECT().Load(gomock.Any()).Return([]model.Activity{}, nil)
	repo.EXPECT().SaveAll(gomock.Any(), gomock.Any()).Times(0)

	_, err := service.Create(context.Background(), model.ActivityDraft{Description: ptr("no date")})
	if !errors.Is(err, apperrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
