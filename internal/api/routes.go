package api

import (
	"alcyxob/liftlog/internal/metrics"
	"alcyxob/liftlog/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes dispatch to.
type Services struct {
	Auth         service.AuthService
	Exercises    service.ExerciseService
	Catalog      service.CatalogService
	Workouts     service.WorkoutService
	Plans        service.PlanService
	Measurements service.MeasurementService
}

// SetupRoutes registers every endpoint on router. m may be nil, in which case
// no request metrics or /metrics endpoint are installed. loc is the calendar
// timezone used to read ?date parameters.
func SetupRoutes(router *gin.Engine, jwtSecret string, svc Services, m *metrics.Manager, loc *time.Location) {
	authHandler := NewAuthHandler(svc.Auth)
	exerciseHandler := NewExerciseHandler(svc.Exercises)
	catalogHandler := NewCatalogHandler(svc.Catalog)
	sessionHandler := NewSessionHandler(svc.Workouts)
	historyHandler := NewHistoryHandler(svc.Workouts, loc)
	planHandler := NewPlanHandler(svc.Plans, loc)
	measurementHandler := NewMeasurementHandler(svc.Measurements)

	authMiddleware := AuthMiddleware(jwtSecret)

	if m != nil {
		router.Use(m.Middleware())
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

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
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Exercise Catalog ---
		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.POST("/restore", exerciseHandler.RestoreExercise)
			exerciseGroup.POST("/image-upload-url", exerciseHandler.RequestImageUploadURL)
			exerciseGroup.GET("/:id", exerciseHandler.GetExercise)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		protected.GET("/catalog/search", catalogHandler.Search)

		// --- Active Session ---
		sessionGroup := protected.Group("/session")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("", sessionHandler.GetSession)
			sessionGroup.DELETE("", sessionHandler.AbandonSession)
			sessionGroup.PUT("/unit", sessionHandler.SetUnit)
			sessionGroup.POST("/undo", sessionHandler.UndoRemove)
			sessionGroup.POST("/complete", sessionHandler.CompleteSession)

			sessionGroup.POST("/exercises", sessionHandler.AddExercise)
			sessionGroup.DELETE("/exercises/:key", sessionHandler.RemoveExercise)
			sessionGroup.POST("/exercises/:key/complete", sessionHandler.MarkComplete)
			sessionGroup.POST("/exercises/:key/toggle", sessionHandler.ToggleExpanded)
			sessionGroup.POST("/exercises/:key/sets", sessionHandler.AddSet)
			sessionGroup.PATCH("/exercises/:key/sets/:index", sessionHandler.UpdateSet)
			sessionGroup.DELETE("/exercises/:key/sets/:index", sessionHandler.RemoveSet)
		}

		// --- History ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("", historyHandler.ListWorkouts)
			workoutGroup.GET("/summary", historyHandler.Summary)
			workoutGroup.GET("/calendar", historyHandler.Calendar)
			workoutGroup.GET("/:id", historyHandler.GetWorkout)
			workoutGroup.DELETE("/:id", historyHandler.DeleteWorkout)
		}

		// --- Weekly Plan ---
		planGroup := protected.Group("/plan")
		{
			planGroup.GET("", planHandler.GetPlan)
			planGroup.GET("/completed", planHandler.GetCompleted)
			planGroup.POST("/undo", planHandler.UndoDelete)
			planGroup.POST("/days", planHandler.CreateDay)
			planGroup.PUT("/days/:id", planHandler.UpdateDay)
			planGroup.DELETE("/days/:id", planHandler.DeleteDay)
		}

		// --- Measurements & Goal ---
		measurementGroup := protected.Group("/measurements")
		{
			measurementGroup.GET("", measurementHandler.ListMeasurements)
			measurementGroup.POST("", measurementHandler.AddMeasurement)
			measurementGroup.PUT("/:id", measurementHandler.UpdateMeasurement)
			measurementGroup.DELETE("/:id", measurementHandler.DeleteMeasurement)
		}
		protected.GET("/goal", measurementHandler.GetGoal)
		protected.PUT("/goal", measurementHandler.SaveGoal)
	}
}
