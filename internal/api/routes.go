package api

import (
	"alcyxob/studyplan-app/internal/logger"
	"alcyxob/studyplan-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	queryService service.PlanQueryService,
	log *logger.Logger,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService, queryService, log)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "name": getUserNameFromContext(c)})
		})

		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans/generate
			planGroup.POST("/generate", planHandler.GeneratePlan)
			// GET /api/v1/plans?scope=daily|weekly|monthly
			planGroup.GET("", planHandler.ListPlans)
			// GET /api/v1/plans/all
			planGroup.GET("/all", planHandler.GetAllPlans)
			// GET /api/v1/plans/review
			planGroup.GET("/review", planHandler.GetReviewTasks)
			// GET /api/v1/plans/yesterday_review
			planGroup.GET("/yesterday_review", planHandler.GetYesterdayReview)
			// GET /api/v1/plans/related_materials?topic=...
			planGroup.GET("/related_materials", planHandler.GetRelatedMaterials)
			// GET /api/v1/plans/date/{date}
			planGroup.GET("/date/:date", planHandler.GetPlanByDate)
			// POST /api/v1/plans/task/update
			planGroup.POST("/task/update", planHandler.UpdateTask)
		}
	}
}
