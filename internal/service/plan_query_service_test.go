package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock pins "today" to 2024-01-10 (a Wednesday) for query tests.
var fixedNow = time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC)

func newTestQueryService(repo *memPlanRepo) *planQueryService {
	return &planQueryService{
		planRepo: repo,
		log:      logger.NewNop(),
		now:      func() time.Time { return fixedNow },
	}
}

func seedPlan(repo *memPlanRepo, userID string, plan domain.Plan) {
	repo.plans[userID] = append(repo.plans[userID], plan)
}

func TestListByScope_Daily(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		PlanName: "Go Study Plan",
		DailySchedule: []domain.Day{
			{Date: "2024-01-10", Tasks: []domain.Task{{Title: "X"}}},
			{Date: "2024-01-11", Tasks: []domain.Task{{Title: "Y"}}},
		},
	})
	svc := newTestQueryService(repo)

	titles, err := svc.ListByScope(context.Background(), "u1", ScopeDaily)
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, titles)
}

func TestListByScope_DailyNoMatch(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-02-01", Tasks: []domain.Task{{Title: "X"}}},
		},
	})
	svc := newTestQueryService(repo)

	titles, err := svc.ListByScope(context.Background(), "u1", ScopeDaily)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestListByScope_WeeklyStartsMonday(t *testing.T) {
	// Today is Wednesday 2024-01-10; the week runs Mon 01-08 .. Sun 01-14.
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-07", Tasks: []domain.Task{{Title: "Last Sunday"}}},
			{Date: "2024-01-08", Tasks: []domain.Task{{Title: "Monday"}}},
			{Date: "2024-01-14", Tasks: []domain.Task{{Title: "Sunday"}}},
			{Date: "2024-01-15", Tasks: []domain.Task{{Title: "Next Monday"}}},
		},
	})
	svc := newTestQueryService(repo)

	titles, err := svc.ListByScope(context.Background(), "u1", ScopeWeekly)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Sunday"}, titles)
}

func TestListByScope_Monthly(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2023-12-31", Tasks: []domain.Task{{Title: "December"}}},
			{Date: "2024-01-03", Tasks: []domain.Task{{Title: "January A"}}},
			{Date: "2024-01-31", Tasks: []domain.Task{{Title: "January B"}}},
			{Date: "2024-02-01", Tasks: []domain.Task{{Title: "February"}}},
		},
	})
	svc := newTestQueryService(repo)

	titles, err := svc.ListByScope(context.Background(), "u1", ScopeMonthly)
	require.NoError(t, err)
	assert.Equal(t, []string{"January A", "January B"}, titles)
}

func TestListByScope_NoPlans(t *testing.T) {
	svc := newTestQueryService(newMemPlanRepo())
	titles, err := svc.ListByScope(context.Background(), "u1", ScopeDaily)
	require.NoError(t, err)
	assert.Empty(t, titles)
}

func TestListByScope_ReadsLastPlanOnly(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{{Date: "2024-01-10", Tasks: []domain.Task{{Title: "Old"}}}},
	})
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{{Date: "2024-01-10", Tasks: []domain.Task{{Title: "Current"}}}},
	})
	svc := newTestQueryService(repo)

	titles, err := svc.ListByScope(context.Background(), "u1", ScopeDaily)
	require.NoError(t, err)
	assert.Equal(t, []string{"Current"}, titles)
}

func TestCompletedYesterday(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-09", Tasks: []domain.Task{
				{ID: "t1", Title: "Done", Completed: true},
				{ID: "t2", Title: "Skipped", Completed: false},
			}},
		},
	})
	svc := newTestQueryService(repo)

	tasks, err := svc.CompletedYesterday(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskSummary{Title: "Done", ID: "t1"}, tasks[0])
}

func TestYesterdayReview_PreStoredMaterials(t *testing.T) {
	stored := []domain.MaterialRef{
		{Title: "Video", Type: domain.MaterialVideo, URL: "https://www.youtube.com/watch?v=a"},
		{Title: "Post", Type: domain.MaterialBlog, URL: "https://dev.to/post"},
		{Title: "Extra", Type: domain.MaterialDoc, URL: "https://go.dev/doc"},
	}
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-09", Tasks: []domain.Task{
				{Title: "Goroutines", ReviewMaterials: stored},
			}},
		},
	})
	svc := newTestQueryService(repo)

	review, err := svc.YesterdayReview(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, review.HasReview)
	assert.Equal(t, "Goroutines", review.YesterdayTopic)
	// Capped at two entries.
	require.Len(t, review.Materials, 2)
	assert.Equal(t, stored[:2], review.Materials)
}

func TestYesterdayReview_SynthesizedFallback(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-09", Tasks: []domain.Task{{Title: "Go modules"}}},
		},
	})
	svc := newTestQueryService(repo)

	review, err := svc.YesterdayReview(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, review.HasReview)
	assert.Equal(t, "Go modules", review.YesterdayTopic)
	require.Len(t, review.Materials, 2)
	assert.Contains(t, review.Materials[0].URL, "youtube.com/results?search_query=Go+modules")
	assert.Contains(t, review.Materials[1].URL, "google.com/search?q=Go+modules")
}

func TestYesterdayReview_NothingScheduled(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-10", Tasks: []domain.Task{{Title: "Today only"}}},
		},
	})
	svc := newTestQueryService(repo)

	review, err := svc.YesterdayReview(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, review.HasReview)
	assert.Empty(t, review.Materials)
	assert.Equal(t, "", review.YesterdayTopic)
}

func TestByDate(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		PlanName: "Go Study Plan",
		DailySchedule: []domain.Day{
			{Date: "2024-01-12", Tasks: []domain.Task{{ID: "t1", Title: "X"}}},
		},
	})
	svc := newTestQueryService(repo)

	detail, err := svc.ByDate(context.Background(), "u1", "2024-01-12")
	require.NoError(t, err)
	assert.Equal(t, "Go Study Plan", detail.PlanName)
	assert.Len(t, detail.Tasks, 1)
	assert.Empty(t, detail.Message)

	detail, err = svc.ByDate(context.Background(), "u1", "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, detail.Tasks)
	assert.Equal(t, msgNoSchedule, detail.Message)
}

func TestByDate_NoPlan(t *testing.T) {
	svc := newTestQueryService(newMemPlanRepo())

	detail, err := svc.ByDate(context.Background(), "u1", "2024-01-12")
	require.NoError(t, err)
	assert.Empty(t, detail.Tasks)
	assert.Equal(t, msgNoPlan, detail.Message)
}

func TestToggleCompletion_Idempotent(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-09", Tasks: []domain.Task{{ID: "t1", Title: "X"}}},
		},
	})
	svc := newTestQueryService(repo)

	for i := 0; i < 2; i++ {
		ok, err := svc.ToggleCompletion(context.Background(), "u1", "2024-01-09", "t1", true)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.True(t, repo.plans["u1"][0].DailySchedule[0].Tasks[0].Completed)
}

func TestToggleCompletion_NotFound(t *testing.T) {
	repo := newMemPlanRepo()
	seedPlan(repo, "u1", domain.Plan{
		DailySchedule: []domain.Day{
			{Date: "2024-01-09", Tasks: []domain.Task{{ID: "t1", Title: "X"}}},
		},
	})
	svc := newTestQueryService(repo)

	for i := 0; i < 2; i++ {
		ok, err := svc.ToggleCompletion(context.Background(), "u1", "2024-01-09", "missing", true)
		require.NoError(t, err)
		assert.False(t, ok, "not-found is signalled, not raised")
	}
}
