package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFallbackBuilder(searcher *fakeSearcher) *FallbackScheduleBuilder {
	return NewFallbackScheduleBuilder(NewMaterialResolver(searcher, logger.NewNop()))
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse(domain.DateLayout, value)
	require.NoError(t, err)
	return date
}

func TestBuild_FullMonthWithoutRestDays(t *testing.T) {
	b := newTestFallbackBuilder(downSearcher())
	plan := b.Build(context.Background(), "Go", 2, mustDate(t, "2024-01-01"), nil)

	assert.Equal(t, "Go Study Plan", plan.PlanName)
	assert.Equal(t, "4 weeks", plan.TotalDuration)
	require.Len(t, plan.DailySchedule, 28)
	assert.Equal(t, "2024-01-01", plan.DailySchedule[0].Date)
	assert.Equal(t, "2024-01-28", plan.DailySchedule[27].Date)
}

func TestBuild_RestDaysSkipped(t *testing.T) {
	b := newTestFallbackBuilder(downSearcher())
	// 2024-01-01 is a Monday; 4 full weeks contain 4 Mondays and 4 Wednesdays.
	plan := b.Build(context.Background(), "Go", 2, mustDate(t, "2024-01-01"), []string{"Mon", "Wed"})

	require.Len(t, plan.DailySchedule, 20)
	for _, day := range plan.DailySchedule {
		label := domain.WeekdayLabel(mustDate(t, day.Date))
		assert.NotEqual(t, "Mon", label)
		assert.NotEqual(t, "Wed", label)
	}
}

func TestBuild_CounterRunsOverRetainedDays(t *testing.T) {
	b := newTestFallbackBuilder(downSearcher())
	plan := b.Build(context.Background(), "Go", 2, mustDate(t, "2024-01-01"), []string{"Mon"})

	// First retained day is Tuesday the 2nd, but the counter starts at 1.
	require.NotEmpty(t, plan.DailySchedule)
	assert.Equal(t, "2024-01-02", plan.DailySchedule[0].Date)
	assert.Equal(t, "Go Study Day 1", plan.DailySchedule[0].Tasks[0].Title)

	for i, day := range plan.DailySchedule {
		require.Len(t, day.Tasks, 1, "fallback path emits a single task per day")
		assert.Equal(t, fmt.Sprintf("Go Study Day %d", i+1), day.Tasks[0].Title)
	}
}

func TestBuild_DurationLabelCarriesHourCount(t *testing.T) {
	b := newTestFallbackBuilder(downSearcher())

	plan := b.Build(context.Background(), "Go", 3, mustDate(t, "2024-01-01"), nil)
	assert.Equal(t, "3 hours", plan.DailySchedule[0].Tasks[0].Duration)

	plan = b.Build(context.Background(), "Go", 1, mustDate(t, "2024-01-01"), nil)
	assert.Equal(t, "1 hour", plan.DailySchedule[0].Tasks[0].Duration)
}

func TestBuild_TasksFullyEnrichedAndUniqueIDs(t *testing.T) {
	b := newTestFallbackBuilder(downSearcher())
	plan := b.Build(context.Background(), "Go", 2, mustDate(t, "2024-01-01"), nil)

	seen := map[string]bool{}
	for _, day := range plan.DailySchedule {
		task := day.Tasks[0]
		require.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "ids never reused within a build")
		seen[task.ID] = true
		assert.NotEmpty(t, task.RelatedMaterials)
		assert.NotEmpty(t, task.ReviewMaterials)
		assert.False(t, task.Completed)
	}
}
