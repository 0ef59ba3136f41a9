// internal/service/fallback_builder.go
package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FallbackScheduleBuilder constructs a complete 28-day plan from nothing
// but the request parameters. It is the path taken when the generator's
// output is unusable, so it must always produce a structurally valid plan.
type FallbackScheduleBuilder struct {
	resolver *MaterialResolver
}

// NewFallbackScheduleBuilder creates a FallbackScheduleBuilder.
func NewFallbackScheduleBuilder(resolver *MaterialResolver) *FallbackScheduleBuilder {
	return &FallbackScheduleBuilder{resolver: resolver}
}

// Build walks exactly 28 calendar days from startDate, skipping rest days,
// and emits one task per retained day. The day counter in task titles runs
// over retained days only, not the calendar offset, and the duration label
// carries the literal requested hour count (unlike the generated path's
// fixed "30 minutes"/"1 hour" vocabulary).
func (b *FallbackScheduleBuilder) Build(ctx context.Context, skill string, hoursPerDay int, startDate time.Time, restDays []string) *domain.Plan {
	restSet := make(map[string]struct{}, len(restDays))
	for _, d := range restDays {
		restSet[d] = struct{}{}
	}

	schedule := make([]domain.Day, 0, 28)
	for i := 0; i < 28; i++ {
		current := startDate.AddDate(0, 0, i)
		if _, rest := restSet[domain.WeekdayLabel(current)]; rest {
			continue
		}

		title := fmt.Sprintf("%s Study Day %d", skill, len(schedule)+1)
		related, review := b.resolver.Resolve(ctx, title)
		schedule = append(schedule, domain.Day{
			Date: current.Format(domain.DateLayout),
			Tasks: []domain.Task{
				{
					ID:               uuid.NewString(),
					Title:            title,
					Description:      fmt.Sprintf("Continue working through %s.", skill),
					Duration:         hourLabel(hoursPerDay),
					Completed:        false,
					RelatedMaterials: related,
					ReviewMaterials:  review,
				},
			},
		})
	}

	return &domain.Plan{
		PlanName:      fmt.Sprintf("%s Study Plan", skill),
		TotalDuration: "4 weeks",
		DailySchedule: schedule,
	}
}

func hourLabel(hours int) string {
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
