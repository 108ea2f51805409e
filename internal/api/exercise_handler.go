package api

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the local exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest is the body for creating or replacing an exercise.
type ExerciseRequest struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description"`
	ImageURL          string   `json:"imageUrl" binding:"omitempty,url"`
	VideoURL          string   `json:"videoUrl" binding:"omitempty,url"`
	MajorMuscleGroups []string `json:"majorMuscleGroups"`
	TrainingDays      []string `json:"trainingDays"`
	IsActive          *bool    `json:"isActive"`
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:              r.Name,
		Description:       r.Description,
		ImageURL:          r.ImageURL,
		VideoURL:          r.VideoURL,
		MajorMuscleGroups: r.MajorMuscleGroups,
		TrainingDays:      r.TrainingDays,
		IsActive:          r.IsActive,
	}
}

// ImageUploadRequest asks for a presigned URL for an exercise image.
type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

// --- Handler Methods ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.CreateExercise(c.Request.Context(), req.input())
	if err != nil {
		respondWithError(c, err, "Failed to create exercise.")
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises godoc
// @Summary List active exercises, optionally for one training day
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param day query string false "Training day tag"
// @Success 200 {array} domain.Exercise
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.ListForDay(c.Request.Context(), c.Query("day"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve exercises.")
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to retrieve exercise.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		respondWithError(c, err, "Failed to update exercise.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise requires ?confirm=true. The deleted row can be brought back
// with RestoreExercise.
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, c.Param("id"), confirmed(c))
	if err != nil {
		respondWithError(c, err, "Failed to delete exercise.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ExerciseHandler) RestoreExercise(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	exercise, err := h.exerciseService.RestoreExercise(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to restore exercise.")
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// RequestImageUploadURL godoc
// @Summary Get a presigned URL to upload an exercise image
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ImageUploadRequest true "Image content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} gin.H "Not an image content type"
// @Failure 503 {object} gin.H "Object storage not configured"
// @Router /exercises/image-upload-url [post]
func (h *ExerciseHandler) RequestImageUploadURL(c *gin.Context) {
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	resp, err := h.exerciseService.RequestImageUpload(c.Request.Context(), req.ContentType)
	if err != nil {
		respondWithError(c, err, "Failed to prepare file upload.")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// confirmed reads the ?confirm=true flag destructive endpoints require.
func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
