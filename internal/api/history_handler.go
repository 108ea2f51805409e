package api

import (
	"alcyxob/liftlog/internal/domain"
	"alcyxob/liftlog/internal/service"
	"alcyxob/liftlog/internal/stats"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HistoryHandler serves saved workouts and their aggregates.
type HistoryHandler struct {
	workoutService service.WorkoutService
	loc            *time.Location
}

// NewHistoryHandler creates the handler. loc interprets ?date parameters.
func NewHistoryHandler(workoutService service.WorkoutService, loc *time.Location) *HistoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &HistoryHandler{workoutService: workoutService, loc: loc}
}

// ListWorkouts godoc
// @Summary List recent workouts, newest first
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of workouts"
// @Success 200 {array} domain.Workout
// @Router /workouts [get]
func (h *HistoryHandler) ListWorkouts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	workouts, err := h.workoutService.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		respondWithError(c, err, "Failed to load workouts.")
		return
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}
	c.JSON(http.StatusOK, workouts)
}

func (h *HistoryHandler) GetWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	workout, err := h.workoutService.GetWorkout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err, "Failed to load workout.")
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout requires ?confirm=true.
func (h *HistoryHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, c.Param("id"), confirmed(c)); err != nil {
		respondWithError(c, err, "Failed to delete workout.")
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary Totals, weekly load, streak and per-workout cards
// @Tags History
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.HistorySummary
// @Router /workouts/summary [get]
func (h *HistoryHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	summary, err := h.workoutService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load history.")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Calendar godoc
// @Summary Workout calendar
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param view query string false "week, month (default) or year"
// @Param date query string false "Anchor date, YYYY-MM-DD"
// @Success 200 {object} stats.Calendar
// @Router /workouts/calendar [get]
func (h *HistoryHandler) Calendar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := stats.ParseView(c.Query("view"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	anchor, ok := dateQueryIn(c, "date", h.loc)
	if !ok {
		return
	}

	cal, err := h.workoutService.Calendar(c.Request.Context(), userID, view, anchor)
	if err != nil {
		respondWithError(c, err, "Failed to load calendar.")
		return
	}
	c.JSON(http.StatusOK, cal)
}

// dateQueryIn parses an optional YYYY-MM-DD query parameter at noon in loc so
// the day survives timezone conversion. A missing value yields the zero time.
func dateQueryIn(c *gin.Context, name string, loc *time.Location) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, name+" must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return day.Add(12 * time.Hour), true
}
