package api

import (
	"alcyxob/liftlog/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler searches the remote or local exercise catalog.
type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Search godoc
// @Summary Search the exercise catalog
// @Description A failed search still returns the previous result list with the error message in "error".
// @Tags Catalog
// @Produce json
// @Security BearerAuth
// @Param source query string false "api (default) or local"
// @Param q query string false "Search text"
// @Param muscle query string false "Major muscle group or API target"
// @Param day query string false "Training day tag"
// @Success 200 {object} service.SearchResult
// @Failure 502 {object} service.SearchResult "Upstream search failed"
// @Router /catalog/search [get]
func (h *CatalogHandler) Search(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	result, err := h.catalogService.Search(c.Request.Context(), userID, service.SearchQuery{
		Source: c.Query("source"),
		Text:   c.Query("q"),
		Muscle: c.Query("muscle"),
		Day:    c.Query("day"),
	})
	if err != nil {
		if result == nil {
			respondWithError(c, err, "Failed to load exercises")
			return
		}
		code := statusFor(err)
		if code == http.StatusInternalServerError {
			code = http.StatusBadGateway
		}
		c.JSON(code, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
