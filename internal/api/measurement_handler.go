package api

import (
	"alcyxob/liftlog/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MeasurementHandler serves body measurements and the goal. Bodies are the
// raw form: a JSON object of field key to text, e.g. {"weightKg": "70,5"}.
type MeasurementHandler struct {
	measurementService service.MeasurementService
}

func NewMeasurementHandler(measurementService service.MeasurementService) *MeasurementHandler {
	return &MeasurementHandler{measurementService: measurementService}
}

// ListMeasurements godoc
// @Summary Measurement history, last form input and first-to-latest summary
// @Tags Measurements
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.MeasurementView
// @Router /measurements [get]
func (h *MeasurementHandler) ListMeasurements(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.measurementService.List(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load measurements.")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *MeasurementHandler) AddMeasurement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	form, ok := bindForm(c)
	if !ok {
		return
	}
	m, err := h.measurementService.Add(c.Request.Context(), userID, form)
	if err != nil {
		respondWithError(c, err, "Failed to save measurement.")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MeasurementHandler) UpdateMeasurement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	form, ok := bindForm(c)
	if !ok {
		return
	}
	m, err := h.measurementService.Update(c.Request.Context(), userID, c.Param("id"), form)
	if err != nil {
		respondWithError(c, err, "Failed to update measurement.")
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMeasurement requires ?confirm=true.
func (h *MeasurementHandler) DeleteMeasurement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.measurementService.Delete(c.Request.Context(), userID, c.Param("id"), confirmed(c)); err != nil {
		respondWithError(c, err, "Failed to delete measurement.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MeasurementHandler) GetGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	goal, err := h.measurementService.GetGoal(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err, "Failed to load goal.")
		return
	}
	c.JSON(http.StatusOK, goal)
}

func (h *MeasurementHandler) SaveGoal(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	form, ok := bindForm(c)
	if !ok {
		return
	}
	goal, err := h.measurementService.SaveGoal(c.Request.Context(), userID, form)
	if err != nil {
		respondWithError(c, err, "Failed to save goal.")
		return
	}
	c.JSON(http.StatusOK, goal)
}

func bindForm(c *gin.Context) (service.MetricsForm, bool) {
	form := service.MetricsForm{}
	if err := c.ShouldBindJSON(&form); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return nil, false
	}
	return form, true
}
