package api

import (
	"alcyxob/liftlog/internal/plan"
	"alcyxob/liftlog/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PlanHandler edits the weekly plan.
type PlanHandler struct {
	planService service.PlanService
	loc         *time.Location
}

// NewPlanHandler creates the handler. loc interprets ?date parameters.
func NewPlanHandler(planService service.PlanService, loc *time.Location) *PlanHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanHandler{planService: planService, loc: loc}
}

// PlanDayRequest is the day editor form. Exercises may hold multi-line text;
// every non-blank line becomes one entry.
type PlanDayRequest struct {
	DayLabel  string   `json:"dayLabel"`
	Value     string   `json:"value"`
	Focus     string   `json:"focus"`
	Exercises []string `json:"exercises"`
	Color     string   `json:"color"`
}

func (r PlanDayRequest) form(id string) plan.Form {
	return plan.Form{
		ID:        id,
		DayLabel:  r.DayLabel,
		Value:     r.Value,
		Focus:     r.Focus,
		Exercises: r.Exercises,
		Color:     r.Color,
	}
}

// GetPlan godoc
// @Summary Get the weekly plan with this week's completed days
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PlanView
// @Router /plan [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.planService.GetPlan(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load plan.")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PlanHandler) CreateDay(c *gin.Context) {
	h.upsert(c, "", http.StatusCreated)
}

func (h *PlanHandler) UpdateDay(c *gin.Context) {
	h.upsert(c, c.Param("id"), http.StatusOK)
}

func (h *PlanHandler) upsert(c *gin.Context, id string, status int) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req PlanDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	day, err := h.planService.UpsertDay(c.Request.Context(), userID, req.form(id))
	if err != nil {
		respondWithError(c, err, "Failed to save plan day.")
		return
	}
	c.JSON(status, day)
}

func (h *PlanHandler) DeleteDay(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.planService.DeleteDay(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondWithError(c, err, "Failed to delete plan day.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) UndoDelete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	restored, err := h.planService.UndoDelete(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to undo.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}

// GetCompleted returns the completed set for the week containing ?date
// (YYYY-MM-DD), defaulting to the current week.
func (h *PlanHandler) GetCompleted(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	at, ok := dateQueryIn(c, "date", h.loc)
	if !ok {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	week, err := h.planService.Completed(c.Request.Context(), userID, at)
	if err != nil {
		respondWithError(c, err, "Failed to load completed days.")
		return
	}
	c.JSON(http.StatusOK, week)
}
