// internal/service/plan_query_service.go
package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/repository"
	"context"
	"errors"
	"net/url"
	"time"
)

// Scope selects the date window for task listing.
const (
	ScopeDaily   = "daily"
	ScopeWeekly  = "weekly"
	ScopeMonthly = "monthly"
)

const (
	msgNoPlan     = "You don't have a study plan yet."
	msgNoSchedule = "Nothing is scheduled for this date."
)

// TaskSummary is a completed task reference for review listings.
type TaskSummary struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// ReviewResult is the yesterday-review payload.
type ReviewResult struct {
	HasReview      bool                 `json:"hasReview"`
	Materials      []domain.MaterialRef `json:"materials"`
	YesterdayTopic string               `json:"yesterdayTopic"`
}

// DateDetail is one date's slice of the current plan.
type DateDetail struct {
	Date     string        `json:"date"`
	Tasks    []domain.Task `json:"tasks"`
	PlanName string        `json:"planName,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// PlanQueryService answers read-side queries against the persisted plan
// history. Every operation reads the user's most recently appended plan.
type PlanQueryService interface {
	GetAllPlans(ctx context.Context, userID string) ([]domain.Plan, error)
	ListByScope(ctx context.Context, userID, scope string) ([]string, error)
	CompletedYesterday(ctx context.Context, userID string) ([]TaskSummary, error)
	YesterdayReview(ctx context.Context, userID string) (ReviewResult, error)
	ByDate(ctx context.Context, userID, date string) (DateDetail, error)
	// ToggleCompletion returns false (with a nil error) when no task
	// matches date+taskID; that is the caller-visible not-found signal.
	ToggleCompletion(ctx context.Context, userID, date, taskID string, completed bool) (bool, error)
}

type planQueryService struct {
	planRepo repository.PlanRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewPlanQueryService creates a new instance of planQueryService.
func NewPlanQueryService(planRepo repository.PlanRepository, log *logger.Logger) PlanQueryService {
	return &planQueryService{
		planRepo: planRepo,
		log:      log.With("service", "PlanQueryService"),
		now:      time.Now,
	}
}

// currentPlan returns the last appended plan, or nil when the user has none.
func (s *planQueryService) currentPlan(ctx context.Context, userID string) (*domain.Plan, error) {
	plans, err := s.planRepo.GetAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[len(plans)-1], nil
}

func (s *planQueryService) GetAllPlans(ctx context.Context, userID string) ([]domain.Plan, error) {
	return s.planRepo.GetAll(ctx, userID)
}

// ListByScope returns task titles for today, the calendar week containing
// today (weeks start on Monday), or the calendar month containing today.
func (s *planQueryService) ListByScope(ctx context.Context, userID, scope string) ([]string, error) {
	plan, err := s.currentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	titles := []string{}
	if plan == nil {
		return titles, nil
	}

	// Normalize today to a UTC midnight so it compares cleanly against
	// parsed schedule dates regardless of the server's zone.
	today, _ := time.Parse(domain.DateLayout, s.now().Format(domain.DateLayout))
	weekStart := today.AddDate(0, 0, -int((today.Weekday()+6)%7))
	weekEnd := weekStart.AddDate(0, 0, 6)

	for _, day := range plan.DailySchedule {
		dayDate, err := time.Parse(domain.DateLayout, day.Date)
		if err != nil {
			continue
		}
		match := false
		switch scope {
		case ScopeDaily:
			match = dayDate.Equal(today)
		case ScopeWeekly:
			match = !dayDate.Before(weekStart) && !dayDate.After(weekEnd)
		case ScopeMonthly:
			match = dayDate.Year() == today.Year() && dayDate.Month() == today.Month()
		}
		if !match {
			continue
		}
		for _, task := range day.Tasks {
			titles = append(titles, task.Title)
		}
	}
	return titles, nil
}

// CompletedYesterday lists yesterday's tasks that were marked completed.
func (s *planQueryService) CompletedYesterday(ctx context.Context, userID string) ([]TaskSummary, error) {
	plan, err := s.currentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := []TaskSummary{}
	if plan == nil {
		return result, nil
	}

	yesterday := dateOnly(s.now()).AddDate(0, 0, -1).Format(domain.DateLayout)
	for _, day := range plan.DailySchedule {
		if day.Date != yesterday {
			continue
		}
		for _, task := range day.Tasks {
			if task.Completed {
				result = append(result, TaskSummary{Title: task.Title, ID: task.ID})
			}
		}
	}
	return result, nil
}

// YesterdayReview returns review materials for yesterday's first scheduled
// topic: pre-stored reviewMaterials when any task has them, otherwise two
// synthesized search links built inline.
func (s *planQueryService) YesterdayReview(ctx context.Context, userID string) (ReviewResult, error) {
	empty := ReviewResult{HasReview: false, Materials: []domain.MaterialRef{}, YesterdayTopic: ""}

	plan, err := s.currentPlan(ctx, userID)
	if err != nil {
		return empty, err
	}
	if plan == nil {
		return empty, nil
	}

	yesterday := dateOnly(s.now()).AddDate(0, 0, -1).Format(domain.DateLayout)

	topic := ""
	for _, day := range plan.DailySchedule {
		if day.Date != yesterday || len(day.Tasks) == 0 {
			continue
		}
		topic = day.Tasks[0].Title
		break
	}
	if topic == "" {
		return empty, nil
	}

	for _, day := range plan.DailySchedule {
		if day.Date != yesterday {
			continue
		}
		for _, task := range day.Tasks {
			if len(task.ReviewMaterials) == 0 {
				continue
			}
			materials := task.ReviewMaterials
			if len(materials) > 2 {
				materials = materials[:2]
			}
			return ReviewResult{HasReview: true, Materials: materials, YesterdayTopic: topic}, nil
		}
	}

	query := url.QueryEscape(topic)
	return ReviewResult{
		HasReview: true,
		Materials: []domain.MaterialRef{
			{
				Title: topic + " review video",
				Type:  domain.MaterialVideo,
				URL:   "https://www.youtube.com/results?search_query=" + query + "+lecture",
			},
			{
				Title: topic + " review article",
				Type:  domain.MaterialBlog,
				URL:   "https://www.google.com/search?q=" + query + "+blog",
			},
		},
		YesterdayTopic: topic,
	}, nil
}

// ByDate returns the tasks scheduled for an exact date in the current plan.
func (s *planQueryService) ByDate(ctx context.Context, userID, date string) (DateDetail, error) {
	plan, err := s.currentPlan(ctx, userID)
	if err != nil {
		return DateDetail{}, err
	}
	if plan == nil {
		return DateDetail{Date: date, Tasks: []domain.Task{}, Message: msgNoPlan}, nil
	}

	for _, day := range plan.DailySchedule {
		if day.Date == date {
			planName := plan.PlanName
			if planName == "" {
				planName = "Study Plan"
			}
			return DateDetail{Date: date, Tasks: day.Tasks, PlanName: planName}, nil
		}
	}
	return DateDetail{Date: date, Tasks: []domain.Task{}, Message: msgNoSchedule}, nil
}

// ToggleCompletion flips one task's completed flag via the plan store. The
// cached repository invalidates the user's cache entry on success, so the
// next read observes the change.
func (s *planQueryService) ToggleCompletion(ctx context.Context, userID, date, taskID string, completed bool) (bool, error) {
	err := s.planRepo.UpdateTaskCompletion(ctx, userID, date, taskID, completed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	s.log.Info("task completion updated", "userId", userID, "taskId", taskID, "completed", completed)
	return true, nil
}

// dateOnly truncates t to midnight in its own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
