package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "activity-tracker.com/activity-tracker/internal/errors"
	"activity-tracker.com/activity-tracker/internal/store"
	"activity-tracker.com/activity-tracker/pkg/constants"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

// memoryStore is an in-memory key/value store that counts writes.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string][]byte{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	m.writes++
	return nil
}

const legacyActivities = `[
	{"id":"X","registrationDate":"2024-01-10","commitmentDate":"2024-02-01","description":"Review access","type":"Interna","priority":"Alta","responsibleUserId":"u1","status":"Completada","comments":"looks good"},
	{"id":"Y","registrationDate":"2024-01-11","commitmentDate":"2024-02-15","description":"Patch servers","type":"Externa","provider":"Acme","priority":"Media","responsibleUserId":"u2","status":"En Progreso","comments":""},
	{"id":"Z","registrationDate":"2024-01-12","commitmentDate":"2024-03-01","description":"Rotate keys","type":"Internal","priority":"Low","responsibleUserId":"u1","status":"InProgress","progress":40,"comments":[{"id":"c1","userId":"u1","date":"2024-01-13T10:00:00.000Z","text":"started"}]}
]`

func decodeRecords(t *testing.T, data string) []json.RawMessage {
	t.Helper()
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(data), &records))
	return records
}

func TestNormalize_LegacyStringComments(t *testing.T) {
	needsWrite, activities, err := Normalize(decodeRecords(t, legacyActivities))
	require.NoError(t, err)
	require.True(t, needsWrite)
	require.Len(t, activities, 3)

	x := activities[0]
	assert.Equal(t, 100, x.Progress)
	assert.Equal(t, constants.StatusCompleted, x.Status)
	assert.Equal(t, constants.TypeInternal, x.Type)
	assert.Equal(t, constants.PriorityHigh, x.Priority)
	assert.Equal(t, []model.Comment{{
		ID:     "migrated-X",
		UserID: constants.SystemUserID,
		Date:   "2024-01-10",
		Text:   "looks good",
	}}, x.Comments)

	y := activities[1]
	assert.Equal(t, 0, y.Progress)
	assert.Equal(t, constants.StatusPending, y.Status)
	assert.Empty(t, y.Comments)
	assert.NotNil(t, y.Comments)
	assert.Equal(t, "Acme", y.Provider)
}

func TestNormalize_CurrentShapeUntouched(t *testing.T) {
	records := decodeRecords(t, legacyActivities)[2:]

	needsWrite, activities, err := Normalize(records)
	require.NoError(t, err)
	assert.False(t, needsWrite)
	require.Len(t, activities, 1)
	assert.Equal(t, 40, activities[0].Progress)
	assert.Equal(t, constants.StatusInProgress, activities[0].Status)
	assert.Equal(t, "started", activities[0].Comments[0].Text)
}

func TestNormalize_ScansEveryRecord(t *testing.T) {
	// Only the last record is legacy; the write decision must still see it.
	data := `[
		{"id":"a","commitmentDate":"2024-01-01","progress":0,"comments":[]},
		{"id":"b","commitmentDate":"2024-01-02","progress":10,"comments":[]},
		{"id":"c","commitmentDate":"2024-01-03","comments":[]}
	]`

	needsWrite, activities, err := Normalize(decodeRecords(t, data))
	require.NoError(t, err)
	assert.True(t, needsWrite)
	assert.Len(t, activities, 3)
}

func TestNormalize_Idempotent(t *testing.T) {
	_, once, err := DecodeActivities([]byte(legacyActivities))
	require.NoError(t, err)
	first, err := json.Marshal(once)
	require.NoError(t, err)

	needsWrite, twice, err := DecodeActivities(first)
	require.NoError(t, err)
	assert.False(t, needsWrite)
	second, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestNormalize_StatusFollowsProgress(t *testing.T) {
	data := `[{"id":"a","commitmentDate":"2024-01-01","status":"Completed","progress":30,"comments":[]}]`

	needsWrite, activities, err := DecodeActivities([]byte(data))
	require.NoError(t, err)
	assert.False(t, needsWrite)
	assert.Equal(t, constants.StatusInProgress, activities[0].Status)
}

func TestDecodeActivities_Malformed(t *testing.T) {
	cases := map[string]string{
		"not an array":       `{"id":"a"}`,
		"comments is number": `[{"id":"a","comments":5,"progress":0}]`,
		"description number": `[{"id":"a","description":7,"comments":[],"progress":0}]`,
		"broken json":        `[{"id":`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeActivities([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDecodeActivities_UnknownStatusIsRederived(t *testing.T) {
	data := `[
		{"id":"keep1","commitmentDate":"2024-01-01","status":"Pending","progress":0,"comments":[]},
		{"id":"keep2","commitmentDate":"2024-01-02","status":"Cancelada","progress":55,"comments":[]},
		{"id":"keep3","commitmentDate":"2024-01-03","status":"Archived","comments":[]}
	]`

	needsWrite, activities, err := DecodeActivities([]byte(data))
	require.NoError(t, err)
	assert.True(t, needsWrite, "keep3 has no progress")
	require.Len(t, activities, 3)
	assert.Equal(t, constants.StatusInProgress, activities[1].Status)
	assert.Equal(t, 0, activities[2].Progress)
	assert.Equal(t, constants.StatusPending, activities[2].Status)
}

func storedRecords(t *testing.T, s *memoryStore) map[string]string {
	t.Helper()
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal(s.values[constants.ActivitiesKey], &records))

	byID := make(map[string]string, len(records))
	for _, raw := range records {
		var head struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &head))
		byID[head.ID] = string(raw)
	}
	return byID
}

func TestActivityRepository_MigrationKeepsInShapeRecords(t *testing.T) {
	inShape := `{"id":"a","commitmentDate":"2024-01-01","description":"Keep me","responsibleUserId":"u1","createdBy":"u9","progress":20,"comments":[]}`
	legacy := `{"id":"b","registrationDate":"2024-01-05","commitmentDate":"2024-02-01","description":"Old","responsibleUserId":"u1","status":"Completada","origin":"import","comments":"legacy"}`

	s := newMemoryStore()
	s.values[constants.ActivitiesKey] = []byte("[" + inShape + "," + legacy + "]")
	repo := NewActivityRepository(s)

	_, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, s.writes)

	records := storedRecords(t, s)
	assert.Equal(t, inShape, records["a"])

	var b map[string]any
	require.NoError(t, json.Unmarshal([]byte(records["b"]), &b))
	assert.Equal(t, "import", b["origin"])
	assert.Equal(t, float64(100), b["progress"])
	assert.Equal(t, "Completed", b["status"])
	assert.Equal(t, "Old", b["description"])
	comments, ok := b["comments"].([]any)
	require.True(t, ok)
	assert.Len(t, comments, 1)
}

func TestActivityRepository_SaveAllPatchesChangedFields(t *testing.T) {
	stored := `{"id":"a","commitmentDate":"2024-01-01","description":"Keep me","responsibleUserId":"u1","createdBy":"u9","progress":20,"comments":[]}`

	s := newMemoryStore()
	s.values[constants.ActivitiesKey] = []byte("[" + stored + "]")
	repo := NewActivityRepository(s)
	ctx := context.Background()

	activities, err := repo.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveAll(ctx, activities))
	assert.Equal(t, "["+stored+"]", string(s.values[constants.ActivitiesKey]))

	activities[0].Progress = 60
	activities[0].Status = constants.StatusInProgress
	activities = append(activities, model.Activity{ID: "new", Comments: []model.Comment{}})
	require.NoError(t, repo.SaveAll(ctx, activities))

	var a map[string]any
	require.NoError(t, json.Unmarshal([]byte(storedRecords(t, s)["a"]), &a))
	assert.Equal(t, "u9", a["createdBy"])
	assert.Equal(t, float64(60), a["progress"])
	assert.Equal(t, "InProgress", a["status"])
	_, hasRegistration := a["registrationDate"]
	assert.False(t, hasRegistration, "untouched absent fields stay absent")
	assert.Contains(t, storedRecords(t, s), "new")
}

func TestActivityRepository_LoadMissingKey(t *testing.T) {
	repo := NewActivityRepository(newMemoryStore())

	activities, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestActivityRepository_LoadMigratesOnce(t *testing.T) {
	s := newMemoryStore()
	s.values[constants.ActivitiesKey] = []byte(legacyActivities)
	repo := NewActivityRepository(s)
	ctx := context.Background()

	_, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.writes)
	migrated := string(s.values[constants.ActivitiesKey])

	_, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.writes, "second load must not rewrite an already migrated collection")
	assert.Equal(t, migrated, string(s.values[constants.ActivitiesKey]))
}

func TestActivityRepository_LoadMalformed(t *testing.T) {
	s := newMemoryStore()
	s.values[constants.ActivitiesKey] = []byte(`"oops"`)
	repo := NewActivityRepository(s)

	_, err := repo.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrMalformedStorage)
}

func TestActivityRepository_SaveAllOverwrites(t *testing.T) {
	s := newMemoryStore()
	repo := NewActivityRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.SaveAll(ctx, []model.Activity{{ID: "a", Comments: []model.Comment{}}}))
	require.NoError(t, repo.SaveAll(ctx, nil))

	assert.Equal(t, "[]", string(s.values[constants.ActivitiesKey]))
}

func TestUserRepository_ImportAndList(t *testing.T) {
	s := newMemoryStore()
	repo := NewUserRepository(s)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	data := []byte(`[{"id":"u1","fullName":"Ana Ruiz","role":"auditor","permissions":["manage_activities"]}]`)
	n, err := repo.Import(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.JSONEq(t, string(data), string(s.values[constants.UsersKey]))

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana Ruiz", users[0].FullName)
	assert.True(t, users[0].HasPermission(constants.PermissionManageActivities))
}

func TestUserRepository_ImportRejectsMissingID(t *testing.T) {
	repo := NewUserRepository(newMemoryStore())

	_, err := repo.Import(context.Background(), []byte(`[{"fullName":"Nobody"}]`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = repo.Import(context.Background(), []byte(`{}`))
	assert.ErrorIs(t, err, apperrors.ErrInvalidJSON)
}
