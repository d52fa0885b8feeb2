package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ajar-homes/service-booking/internal/application"
	"github.com/ajar-homes/service-booking/internal/auth"
	"github.com/ajar-homes/service-booking/internal/middleware"
	"github.com/ajar-homes/service-booking/internal/response"
)

// AdminHandler exposes the platform-wide booking views.
type AdminHandler struct {
	bookings *application.BookingService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.GetStats)
	}
}

// ListBookings handles GET /api/v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	dtos, total, err := h.bookings.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, dtos, total, page, limit)
}

// GetStats handles GET /api/v1/admin/stats/bookings
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.bookings.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
