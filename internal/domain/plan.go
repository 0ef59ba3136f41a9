// internal/domain/plan.go
package domain

import "time"

// MaterialType classifies a learning material reference.
type MaterialType string

const (
	MaterialVideo  MaterialType = "video"
	MaterialBlog   MaterialType = "blog"
	MaterialDoc    MaterialType = "doc"
	MaterialCourse MaterialType = "course"
	MaterialOther  MaterialType = "other"
)

// MaterialRef points at an external learning resource attached to a task.
type MaterialRef struct {
	Title       string       `bson:"title" json:"title"`
	Type        MaterialType `bson:"type" json:"type"`
	URL         string       `bson:"url" json:"url"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
}

// Task is a single study activity within a day.
type Task struct {
	ID          string `bson:"id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	Duration    string `bson:"duration" json:"duration"` // "30 minutes", "1 hour", or "N hours" on the fallback path
	Completed   bool   `bson:"completed" json:"completed"`

	RelatedMaterials []MaterialRef `bson:"relatedMaterials,omitempty" json:"relatedMaterials,omitempty"`
	ReviewMaterials  []MaterialRef `bson:"reviewMaterials,omitempty" json:"reviewMaterials,omitempty"`
}

// Day holds one calendar date's tasks. Date is a YYYY-MM-DD string,
// unique within a plan.
type Day struct {
	Date  string `bson:"date" json:"date"`
	Tasks []Task `bson:"tasks" json:"tasks"`
}

// Plan is a user's 4-week study schedule. Plans are append-only per user;
// the most recently appended plan is the current one.
type Plan struct {
	PlanName      string `bson:"planName" json:"planName"`
	TotalDuration string `bson:"totalDuration" json:"totalDuration"` // always "4 weeks"
	DailySchedule []Day  `bson:"dailySchedule" json:"dailySchedule"`
}

// DateLayout is the calendar date format used throughout plan documents.
const DateLayout = "2006-01-02"

// weekdayLabels is the fixed 7-symbol rest-day alphabet, indexed by
// time.Weekday (Sunday = 0).
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the rest-day label ("Mon".."Sun") for t, interpreted
// in t's own location.
func WeekdayLabel(t time.Time) string {
	return weekdayLabels[int(t.Weekday())]
}
