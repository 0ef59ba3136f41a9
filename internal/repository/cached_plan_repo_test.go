package repository

import (
	"alcyxob/studyplan-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	entries     map[string][]domain.Plan
	sets        int
	invalidates int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]domain.Plan{}}
}

func (c *fakeCache) Get(_ context.Context, userID string) ([]domain.Plan, bool) {
	plans, ok := c.entries[userID]
	return plans, ok
}

func (c *fakeCache) Set(_ context.Context, userID string, plans []domain.Plan) {
	c.sets++
	c.entries[userID] = plans
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) {
	c.invalidates++
	delete(c.entries, userID)
}

func (c *fakeCache) Close() error { return nil }

type recordingPlanRepo struct {
	plans      map[string][]domain.Plan
	getCalls   int
	updateErr  error
	lastUpdate string
}

func newRecordingPlanRepo() *recordingPlanRepo {
	return &recordingPlanRepo{plans: map[string][]domain.Plan{}}
}

func (r *recordingPlanRepo) Append(_ context.Context, userID string, plan *domain.Plan) error {
	r.plans[userID] = append(r.plans[userID], *plan)
	return nil
}

func (r *recordingPlanRepo) GetAll(_ context.Context, userID string) ([]domain.Plan, error) {
	r.getCalls++
	return r.plans[userID], nil
}

func (r *recordingPlanRepo) UpdateTaskCompletion(_ context.Context, userID, date, taskID string, _ bool) error {
	r.lastUpdate = userID + "/" + date + "/" + taskID
	return r.updateErr
}

func TestCachedGetAll_MissReadsThroughAndPopulates(t *testing.T) {
	inner := newRecordingPlanRepo()
	inner.plans["u1"] = []domain.Plan{{PlanName: "Go Study Plan"}}
	planCache := newFakeCache()
	repo := NewCachedPlanRepository(inner, planCache)

	plans, err := repo.GetAll(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 1, inner.getCalls)
	assert.Equal(t, 1, planCache.sets)

	// Second read is served from the cache.
	plans, err = repo.GetAll(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 1, inner.getCalls)
}

func TestCachedAppend_WritesThenInvalidates(t *testing.T) {
	inner := newRecordingPlanRepo()
	planCache := newFakeCache()
	planCache.entries["u1"] = []domain.Plan{{PlanName: "Stale"}}
	repo := NewCachedPlanRepository(inner, planCache)

	err := repo.Append(context.Background(), "u1", &domain.Plan{PlanName: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, 1, planCache.invalidates)

	plans, err := repo.GetAll(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Fresh", plans[0].PlanName)
}

func TestCachedUpdateTaskCompletion_Invalidates(t *testing.T) {
	inner := newRecordingPlanRepo()
	planCache := newFakeCache()
	planCache.entries["u1"] = []domain.Plan{{PlanName: "Stale"}}
	repo := NewCachedPlanRepository(inner, planCache)

	err := repo.UpdateTaskCompletion(context.Background(), "u1", "2024-01-09", "t1", true)
	require.NoError(t, err)
	assert.Equal(t, "u1/2024-01-09/t1", inner.lastUpdate)
	assert.Equal(t, 1, planCache.invalidates)
}

func TestCachedUpdateTaskCompletion_ErrorKeepsCache(t *testing.T) {
	inner := newRecordingPlanRepo()
	inner.updateErr = ErrNotFound
	planCache := newFakeCache()
	planCache.entries["u1"] = []domain.Plan{{PlanName: "Kept"}}
	repo := NewCachedPlanRepository(inner, planCache)

	err := repo.UpdateTaskCompletion(context.Background(), "u1", "2024-01-09", "missing", true)
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, planCache.invalidates)

	plans, err := repo.GetAll(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Kept", plans[0].PlanName)
}
