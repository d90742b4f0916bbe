package tour

import (
	"net/http"
	"strconv"

	"navm8/internal/pkg/response"
	"navm8/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes exposes read endpoints without authentication.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/tours", h.GetTours)
	rg.GET("/tours/:id", h.GetTour)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tours", h.CreateTour)
	rg.PUT("/tours/:id", h.UpdateTour)
	rg.DELETE("/tours/:id", h.DeleteTour)
	rg.GET("/users/me/tours", h.GetMyTours)
}

func (h *Handler) GetTours(c *gin.Context) {
	var f repository.TourFilters
	f.Country = c.Query("country")
	f.City = c.Query("city")

	f.Limit = 20
	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= 100 {
			f.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			f.Offset = (val - 1) * f.Limit
		}
	}

	tours, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Paginated(c, http.StatusOK, "tours", tours, total)
}

func (h *Handler) GetTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tour ID")
		return
	}

	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tour": t})
}

func (h *Handler) GetMyTours(c *gin.Context) {
	userID := c.GetInt64("user_id")

	tours, err := h.service.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tours": tours})
}

func (h *Handler) CreateTour(c *gin.Context) {
	var req CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")

	t, violations, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		if err == ErrValidation {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tour", violations)
			return
		}
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"tour": t})
}

func (h *Handler) UpdateTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tour ID")
		return
	}

	var req UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	userID := c.GetInt64("user_id")

	t, violations, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		if err == ErrValidation {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tour", violations)
			return
		}
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tour": t})
}

func (h *Handler) DeleteTour(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid tour ID")
		return
	}

	userID := c.GetInt64("user_id")

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func handleError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Tour not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only the tour author may do this")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
	}
}
