package repository

import (
	"alcyxob/studyplan-app/internal/cache"
	"alcyxob/studyplan-app/internal/domain"
	"context"
)

// cachedPlanRepository decorates a PlanRepository with a read-through cache.
// Writes go to the inner repository first, then drop the user's cache entry.
type cachedPlanRepository struct {
	inner PlanRepository
	cache cache.PlanCache
}

// NewCachedPlanRepository wraps repo with the given cache.
func NewCachedPlanRepository(repo PlanRepository, planCache cache.PlanCache) PlanRepository {
	return &cachedPlanRepository{inner: repo, cache: planCache}
}

func (r *cachedPlanRepository) Append(ctx context.Context, userID string, plan *domain.Plan) error {
	if err := r.inner.Append(ctx, userID, plan); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, userID)
	return nil
}

func (r *cachedPlanRepository) GetAll(ctx context.Context, userID string) ([]domain.Plan, error) {
	if plans, ok := r.cache.Get(ctx, userID); ok {
		return plans, nil
	}
	plans, err := r.inner.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, userID, plans)
	return plans, nil
}

func (r *cachedPlanRepository) UpdateTaskCompletion(ctx context.Context, userID, date, taskID string, completed bool) error {
	if err := r.inner.UpdateTaskCompletion(ctx, userID, date, taskID, completed); err != nil {
		return err
	}
	r.cache.Invalidate(ctx, userID)
	return nil
}
