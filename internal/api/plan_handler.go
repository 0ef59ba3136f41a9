// internal/api/plan_handler.go
package api

import (
	"alcyxob/studyplan-app/internal/domain"
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan generation and query service dependencies.
type PlanHandler struct {
	planService  service.PlanService
	queryService service.PlanQueryService
	log          *logger.Logger
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, queryService service.PlanQueryService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		planService:  planService,
		queryService: queryService,
		log:          log.With("handler", "PlanHandler"),
	}
}

// --- DTOs ---

// GeneratePlanRequest defines the expected JSON for plan generation.
type GeneratePlanRequest struct {
	Skill       string   `json:"skill" binding:"required"`
	HoursPerDay int      `json:"hoursPerDay" binding:"required,min=1,max=12"`
	StartDate   string   `json:"startDate" binding:"required"`
	RestDays    []string `json:"restDays" binding:"omitempty,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	SelfLevel   string   `json:"selfLevel"`
}

// UpdateTaskRequest targets one task by date and id.
type UpdateTaskRequest struct {
	Date      string `json:"date" binding:"required"`
	TaskID    string `json:"taskId" binding:"required"`
	Completed *bool  `json:"completed" binding:"required"`
}

// --- Handler Methods ---

// GeneratePlan creates a new 4-week study plan for the authenticated user.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}
	h.log.Info("plan generation requested", "user", getUserNameFromContext(c), "skill", req.Skill)

	plan, err := h.planService.GeneratePlan(c.Request.Context(), userID, service.GeneratePlanParams{
		Skill:       req.Skill,
		HoursPerDay: req.HoursPerDay,
		StartDate:   req.StartDate,
		RestDays:    req.RestDays,
		SelfLevel:   req.SelfLevel,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidStartDate) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create study plan.")
		}
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListPlans returns the task titles in scope (daily, weekly or monthly).
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	scope := c.DefaultQuery("scope", service.ScopeDaily)
	titles, err := h.queryService.ListByScope(c.Request.Context(), userID, scope)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plan tasks.")
		return
	}
	c.JSON(http.StatusOK, titles)
}

// GetAllPlans returns the user's full plan history.
func (h *PlanHandler) GetAllPlans(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	plans, err := h.queryService.GetAllPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetReviewTasks lists yesterday's completed tasks.
func (h *PlanHandler) GetReviewTasks(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	tasks, err := h.queryService.CompletedYesterday(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve review tasks.")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetYesterdayReview returns review materials for yesterday's first topic.
func (h *PlanHandler) GetYesterdayReview(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	review, err := h.queryService.YesterdayReview(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build yesterday review.")
		return
	}
	c.JSON(http.StatusOK, review)
}

// GetRelatedMaterials looks up supplementary materials for a topic.
func (h *PlanHandler) GetRelatedMaterials(c *gin.Context) {
	topic := c.Query("topic")
	if topic == "" {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'topic' is required.")
		return
	}

	materials, err := h.planService.RelatedMaterials(c.Request.Context(), topic)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to find related materials.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"materials": materials})
}

// GetPlanByDate returns the schedule detail for one date.
func (h *PlanHandler) GetPlanByDate(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	detail, err := h.queryService.ByDate(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan for date.")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateTask toggles a task's completed flag.
func (h *PlanHandler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	ok, err := h.queryService.ToggleCompletion(c.Request.Context(), userID, req.Date, req.TaskID, *req.Completed)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to update task.")
		return
	}
	if !ok {
		abortWithError(c, http.StatusNotFound, "Task not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
