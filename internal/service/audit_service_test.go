package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-workspace/internal/models"
	"github.com/noah-isme/timetable-workspace/pkg/jobs"
)

type stubAuditStore struct {
	mu      sync.Mutex
	created []*models.AuditLog
	cutoff  time.Time
	err     error
}

func (s *stubAuditStore) Create(ctx context.Context, log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, log)
	return nil
}

func (s *stubAuditStore) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	out := make([]models.AuditLog, 0, len(s.created))
	for _, log := range s.created {
		if filter.Dataset == "" || log.Dataset == filter.Dataset {
			out = append(out, *log)
		}
	}
	return out, nil
}

func (s *stubAuditStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return 2, nil
}

type stubDispatcher struct {
	jobs []jobs.Job
	err  error
}

func (d *stubDispatcher) Enqueue(job jobs.Job) error {
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

func TestAuditServiceRecordSynchronously(t *testing.T) {
	store := &stubAuditStore{}
	svc := NewAuditService(store, nil, nil)

	svc.Record(context.Background(), AuditEntry{
		SessionID: "s1",
		Dataset:   string(models.DatasetRooms),
		Action:    models.AuditActionCreate,
		RecordID:  "7",
		Outcome:   models.AuditOutcomeSuccess,
		Details:   map[string]interface{}{"roomNumber": "101"},
	})

	require.Len(t, store.created, 1)
	log := store.created[0]
	assert.NotEmpty(t, log.ID)
	require.NotNil(t, log.RecordID)
	assert.Equal(t, "7", *log.RecordID)
	assert.JSONEq(t, `{"roomNumber":"101"}`, string(log.Details))

	svc.Record(context.Background(), AuditEntry{Action: models.AuditActionUpload, Outcome: models.AuditOutcomeFailure})
	require.Len(t, store.created, 2)
	assert.Nil(t, store.created[1].RecordID)
	assert.Nil(t, store.created[1].Details)
}

func TestAuditServiceQueuesAndHandles(t *testing.T) {
	store := &stubAuditStore{}
	queue := &stubDispatcher{}
	svc := NewAuditService(store, nil, nil)
	svc.AttachQueue(queue)

	svc.Record(context.Background(), AuditEntry{Action: models.AuditActionDelete, Outcome: models.AuditOutcomeSuccess})
	require.Len(t, queue.jobs, 1)
	assert.Empty(t, store.created)
	assert.Equal(t, AuditJobType, queue.jobs[0].Type)

	require.NoError(t, svc.Handle(context.Background(), queue.jobs[0]))
	require.Len(t, store.created, 1)

	require.Error(t, svc.Handle(context.Background(), jobs.Job{Type: "other"}))
	require.Error(t, svc.Handle(context.Background(), jobs.Job{Type: AuditJobType}))
}

func TestAuditServiceSwallowsFailures(t *testing.T) {
	store := &stubAuditStore{err: errors.New("db down")}
	NewAuditService(store, nil, nil).Record(context.Background(), AuditEntry{Action: models.AuditActionCreate})

	full := NewAuditService(&stubAuditStore{}, &stubDispatcher{err: jobs.ErrQueueFull}, nil)
	full.Record(context.Background(), AuditEntry{Action: models.AuditActionCreate})

	var nilSvc *AuditService
	nilSvc.Record(context.Background(), AuditEntry{})
	logs, err := nilSvc.List(context.Background(), models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditServiceListAndPrune(t *testing.T) {
	store := &stubAuditStore{}
	svc := NewAuditService(store, nil, nil)
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	ctx := context.Background()

	svc.Record(ctx, AuditEntry{Dataset: "rooms", Action: models.AuditActionCreate})
	svc.Record(ctx, AuditEntry{Dataset: "faculty", Action: models.AuditActionCreate})

	logs, err := svc.List(ctx, models.AuditFilter{Dataset: "rooms"})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, fixed, logs[0].CreatedAt)

	_, err = svc.List(ctx, models.AuditFilter{Dataset: "students"})
	require.Error(t, err)

	removed, err := svc.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Equal(t, fixed.Add(-24*time.Hour), store.cutoff)
}

func TestSessionIDContext(t *testing.T) {
	assert.Equal(t, "", SessionIDFromContext(context.Background()))
	ctx := ContextWithSessionID(context.Background(), "abc")
	assert.Equal(t, "abc", SessionIDFromContext(ctx))
}
