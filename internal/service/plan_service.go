// internal/service/plan_service.go
package service

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/generator"
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// --- Error Definitions ---
var (
	ErrInvalidStartDate = errors.New("start date must be a YYYY-MM-DD date")
)

// GeneratePlanParams carries the user's study profile for plan generation.
type GeneratePlanParams struct {
	Skill       string
	HoursPerDay int
	StartDate   string // YYYY-MM-DD, an optional T suffix is tolerated
	RestDays    []string
	SelfLevel   string
}

// PlanService drives plan generation end to end: prompt the generator,
// repair its output, enrich tasks, and persist. Generation failures are
// absorbed into the deterministic fallback schedule; a caller always gets
// a structurally valid plan back.
type PlanService interface {
	GeneratePlan(ctx context.Context, userID string, params GeneratePlanParams) (*domain.Plan, error)
	RelatedMaterials(ctx context.Context, topic string) ([]domain.MaterialRef, error)
}

type planService struct {
	planRepo  repository.PlanRepository
	generator generator.Client
	validator *ScheduleValidator
	fallback  *FallbackScheduleBuilder
	log       *logger.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	planRepo repository.PlanRepository,
	gen generator.Client,
	validator *ScheduleValidator,
	fallback *FallbackScheduleBuilder,
	log *logger.Logger,
) PlanService {
	return &planService{
		planRepo:  planRepo,
		generator: gen,
		validator: validator,
		fallback:  fallback,
		log:       log.With("service", "PlanService"),
	}
}

// GeneratePlan runs the Request -> Parse -> Validate -> Enrich -> Persist
// pipeline, dropping to the fallback builder whenever the generated output
// is absent or structurally unusable. Exactly one plan is appended per call.
func (s *planService) GeneratePlan(ctx context.Context, userID string, params GeneratePlanParams) (*domain.Plan, error) {
	startDate, err := parseStartDate(params.StartDate)
	if err != nil {
		return nil, ErrInvalidStartDate
	}

	plan, usable := s.generateFromModel(ctx, params)
	if !usable {
		s.log.Info("generated schedule unusable, building fallback plan", "skill", params.Skill)
		plan = s.fallback.Build(ctx, params.Skill, params.HoursPerDay, startDate, params.RestDays)
	}

	if err := s.planRepo.Append(ctx, userID, plan); err != nil {
		return nil, err
	}
	s.log.Info("study plan created", "userId", userID, "planName", plan.PlanName, "days", len(plan.DailySchedule))
	return plan, nil
}

// generateFromModel covers the Request, Parse and Validate states. The
// second return value reports whether the generation was usable; an empty
// schedule AFTER rest-day filtering is still usable, since the user's rest
// days may legitimately remove every generated day.
func (s *planService) generateFromModel(ctx context.Context, params GeneratePlanParams) (*domain.Plan, bool) {
	prompt := buildPlanPrompt(params)

	raw, err := s.generator.Invoke(ctx, prompt, false)
	if err != nil {
		s.log.Warn("plan generation call failed", "error", err)
		return nil, false
	}

	var plan domain.Plan
	if !generator.ExtractJSON(raw, &plan) || len(plan.DailySchedule) == 0 {
		return nil, false
	}

	plan.DailySchedule = s.validator.Validate(ctx, plan.DailySchedule, params.RestDays, params.Skill)
	if plan.TotalDuration == "" {
		plan.TotalDuration = "4 weeks"
	}
	return &plan, true
}

// RelatedMaterials looks up supplementary materials for an ad-hoc topic via
// the generator with live search enabled. Materials with "example" URLs are
// dropped; an unusable response yields two synthesized search links.
func (s *planService) RelatedMaterials(ctx context.Context, topic string) ([]domain.MaterialRef, error) {
	raw, err := s.generator.Invoke(ctx, buildMaterialsPrompt(topic), true)
	if err == nil {
		var parsed struct {
			Materials []domain.MaterialRef `json:"materials"`
		}
		if generator.ExtractJSON(raw, &parsed) {
			valid := DropExampleURLs(parsed.Materials)
			if len(valid) > 0 {
				if len(valid) > 4 {
					valid = valid[:4]
				}
				return valid, nil
			}
		}
	} else {
		s.log.Info("material lookup failed, returning search links", "topic", topic, "error", err)
	}

	return searchLinkMaterials(topic), nil
}

// searchLinkMaterials is the related-materials endpoint's own fallback
// pair: a YouTube results page and a Google search, not the resolver's.
func searchLinkMaterials(topic string) []domain.MaterialRef {
	query := strings.ReplaceAll(topic, " ", "+")
	return []domain.MaterialRef{
		{
			Title:       topic + " - YouTube search",
			Type:        domain.MaterialVideo,
			URL:         "https://www.youtube.com/results?search_query=" + query,
			Description: "Search YouTube for related videos.",
		},
		{
			Title:       topic + " - Google search",
			Type:        domain.MaterialOther,
			URL:         "https://www.google.com/search?q=" + query + "+lecture",
			Description: "Search Google for related lectures.",
		},
	}
}

// parseStartDate accepts YYYY-MM-DD with an optional ISO time suffix.
func parseStartDate(raw string) (time.Time, error) {
	datePart := strings.SplitN(raw, "T", 2)[0]
	return time.Parse(domain.DateLayout, datePart)
}

func buildPlanPrompt(params GeneratePlanParams) string {
	restDays := "none"
	if len(params.RestDays) > 0 {
		restDays = strings.Join(params.RestDays, ", ")
	}

	return fmt.Sprintf(`[System instruction]
You are a personal study planner. Generate a 4-week (28-day) study schedule
as fast as possible. Output JSON only, with no commentary or creative prose.

[Input]
- Skill: %q
- Hours of study per day: %d
- Start date: %s
- Rest days: %s
- Learner level: %s

[Rest day rules - very important]
Rest days: %s
Dates falling on these weekdays must NEVER appear in dailySchedule.
Weekday labels: Mon, Tue, Wed, Thu, Fri, Sat, Sun.
Example: rest days "Mon, Wed, Fri" means tasks only on Tue, Thu, Sat, Sun.

[Speed rules]
1. Always exactly 2 tasks per day.
2. duration must be exactly one of: "30 minutes", "1 hour".
3. description is always a single plain sentence describing the study method.
4. Repeating similar task patterns across days is allowed.

[Date rules]
- Exactly 4 weeks (28 days) from the start date.
- Exclude rest days from dailySchedule.
- Dates sorted ascending, format YYYY-MM-DD, no duplicates.

[Difficulty flow]
- Week 1: fundamentals. Week 2: basic practice.
- Week 3: applied topics. Week 4: review and a mini project.

[Output JSON schema]
Top-level object: planName, totalDuration ("4 weeks"), dailySchedule.
dailySchedule element: date ("YYYY-MM-DD"), tasks (array of exactly 2).
task object: id (string), title (specific study topic), description
(one sentence), duration ("30 minutes" or "1 hour"), completed (false).

[Strict constraints]
- No markdown, no code fences, no explanation.
- Output a single JSON object and nothing else.
- Following the rules takes priority over completeness.

Output the JSON now.`,
		params.Skill, params.HoursPerDay, params.StartDate, restDays,
		params.SelfLevel, restDays)
}

func buildMaterialsPrompt(topic string) string {
	return fmt.Sprintf(`Find supplementary study materials for the topic %q.

Forbidden, without exception:
- Any URL containing "example" (example.com, example.org, ...).
- Invented materials or URLs guessed by combining a domain with a title.
- Search, list, tag, category, channel or playlist pages
  (no google.com/search, no youtube.com/results, no ?q= or ?search_query=).
- URLs, domains or markdown links inside the description field.

Wanted:
- Individual YouTube lecture videos (youtube.com/watch or youtu.be pages).
- Technical blog article pages (medium, dev.to, velog, tistory, ...).
- Official documentation pages for a specific feature or concept.
- Course detail pages (Udemy, Coursera, Inflearn, ...).

Required output format, JSON only:
{
  "materials": [
    {"title": "...", "type": "video", "url": "https://...", "description": "one or two sentences, no URLs"},
    {"title": "...", "type": "blog", "url": "https://...", "description": "one or two sentences, no URLs"}
  ]
}

Requirements:
- Recommend 3-4 materials of mixed types (video, blog, doc, course).
- Only real, reachable detail-page URLs.`, topic)
}
