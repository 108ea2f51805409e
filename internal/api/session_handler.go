package api

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/service"
	"alcyxob/liftlog/internal/session"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionHandler drives the caller's in-progress workout.
type SessionHandler struct {
	workoutService service.WorkoutService
}

func NewSessionHandler(workoutService service.WorkoutService) *SessionHandler {
	return &SessionHandler{workoutService: workoutService}
}

type StartSessionRequest struct {
	Unit  string `json:"unit" binding:"omitempty,oneof=kg lb lbs"`
	Day   string `json:"day"`
	Force bool   `json:"force"`
}

type AddSessionExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	Name       string `json:"name"`
}

type UpdateSetRequest struct {
	Field string `json:"field" binding:"required,oneof=reps weight unit"`
	Value string `json:"value"`
}

type SetUnitRequest struct {
	Unit string `json:"unit" binding:"required,oneof=kg lb lbs"`
}

// CompleteSessionRequest is optional. ElapsedSeconds is only used for a
// session without a recorded start time.
type CompleteSessionRequest struct {
	ElapsedSeconds int `json:"elapsedSeconds" binding:"omitempty,min=0"`
}

// UndoResponse reports whether an undo changed anything.
type UndoResponse struct {
	Restored bool             `json:"restored"`
	Session  *session.Session `json:"session"`
}

// StartSession godoc
// @Summary Start a new workout session
// @Description Fails with 409 while a session with exercises is open unless force is set.
// @Tags Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartSessionRequest false "Session options"
// @Success 201 {object} session.Session
// @Failure 409 {object} gin.H "A workout is already in progress"
// @Router /session [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req StartSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	sess, err := h.workoutService.StartSession(c.Request.Context(), userID, service.StartSessionInput{
		Unit:  domain.WeightUnit(req.Unit),
		Day:   req.Day,
		Force: req.Force,
	})
	if err != nil {
		respondWithError(c, err, "Failed to start workout.")
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.GetSession(userID)
	})
}

func (h *SessionHandler) AbandonSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.workoutService.AbandonSession(userID); err != nil {
		respondWithError(c, err, "Failed to discard workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) AddExercise(c *gin.Context) {
	var req AddSessionExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.AddExercise(c.Request.Context(), userID, req.ExerciseID, req.Name)
	})
}

func (h *SessionHandler) RemoveExercise(c *gin.Context) {
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.RemoveExercise(userID, c.Param("key"))
	})
}

func (h *SessionHandler) AddSet(c *gin.Context) {
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.AddSet(userID, c.Param("key"))
	})
}

func (h *SessionHandler) UpdateSet(c *gin.Context) {
	index, ok := setIndex(c)
	if !ok {
		return
	}
	var req UpdateSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.UpdateSet(userID, service.SetUpdate{
			Key:      c.Param("key"),
			SetIndex: index,
			Field:    session.SetField(req.Field),
			Value:    req.Value,
		})
	})
}

func (h *SessionHandler) RemoveSet(c *gin.Context) {
	index, ok := setIndex(c)
	if !ok {
		return
	}
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.RemoveSet(userID, c.Param("key"), index)
	})
}

func (h *SessionHandler) MarkComplete(c *gin.Context) {
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.MarkComplete(userID, c.Param("key"))
	})
}

func (h *SessionHandler) ToggleExpanded(c *gin.Context) {
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.ToggleExpanded(userID, c.Param("key"))
	})
}

func (h *SessionHandler) SetUnit(c *gin.Context) {
	var req SetUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	h.apply(c, func(userID string) (*session.Session, error) {
		return h.workoutService.SetUnit(userID, domain.WeightUnit(req.Unit))
	})
}

// UndoRemove restores the last removed exercise, if any.
func (h *SessionHandler) UndoRemove(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sess, restored, err := h.workoutService.UndoRemove(userID)
	if err != nil {
		respondWithError(c, err, "Failed to undo.")
		return
	}
	c.JSON(http.StatusOK, UndoResponse{Restored: restored, Session: sess})
}

// CompleteSession godoc
// @Summary Save the session as a workout
// @Description The session stays open when saving fails.
// @Tags Session
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "No exercises in the session"
// @Failure 404 {object} gin.H "No workout in progress"
// @Failure 503 {object} gin.H "No backend configured"
// @Router /session/complete [post]
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	elapsed := time.Duration(req.ElapsedSeconds) * time.Second
	workout, err := h.workoutService.CompleteSession(c.Request.Context(), userID, elapsed)
	if err != nil {
		respondWithError(c, err, "Failed to save workout.")
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// apply runs fn for the caller and writes the resulting session.
func (h *SessionHandler) apply(c *gin.Context, fn func(userID string) (*session.Session, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	sess, err := fn(userID)
	if err != nil {
		respondWithError(c, err, "Failed to update workout.")
		return
	}
	c.JSON(http.StatusOK, sess)
}

func setIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		abortWithError(c, http.StatusBadRequest, "Invalid set index.")
		return 0, false
	}
	return index, true
}

// bindOptionalJSON binds the body when there is one. An empty body leaves
// obj at its zero value.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}
