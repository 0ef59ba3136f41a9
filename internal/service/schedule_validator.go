// internal/service/schedule_validator.go
package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduleValidator repairs a generated schedule against the user's rest
// days and fills per-task gaps. It never rejects: malformed input shrinks
// to whatever survives the filters.
type ScheduleValidator struct {
	resolver *MaterialResolver
}

// NewScheduleValidator creates a ScheduleValidator.
func NewScheduleValidator(resolver *MaterialResolver) *ScheduleValidator {
	return &ScheduleValidator{resolver: resolver}
}

// Validate filters rest days out of a raw schedule and normalizes every
// retained task. Days whose date fails to parse are kept unfiltered; a
// parse failure must not silently drop legitimate content. Tasks missing
// both material lists are enriched keyed on their title, falling back to
// the skill label for untitled tasks. Tasks with either list already
// populated are left untouched. Input order is preserved.
func (v *ScheduleValidator) Validate(ctx context.Context, days []domain.Day, restDays []string, skill string) []domain.Day {
	restSet := make(map[string]struct{}, len(restDays))
	for _, d := range restDays {
		restSet[d] = struct{}{}
	}

	cleaned := make([]domain.Day, 0, len(days))
	for _, day := range days {
		date, err := time.Parse(domain.DateLayout, day.Date)
		if err == nil {
			if _, rest := restSet[domain.WeekdayLabel(date)]; rest {
				continue
			}
		}

		for i := range day.Tasks {
			task := &day.Tasks[i]
			if task.ID == "" {
				task.ID = uuid.NewString()
			}
			if len(task.RelatedMaterials) == 0 && len(task.ReviewMaterials) == 0 {
				topic := task.Title
				if topic == "" {
					topic = skill
				}
				task.RelatedMaterials, task.ReviewMaterials = v.resolver.Resolve(ctx, topic)
			}
		}
		cleaned = append(cleaned, day)
	}
	return cleaned
}
