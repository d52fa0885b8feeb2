package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/application"
	"github.com/ajar-homes/service-booking/internal/auth"
	"github.com/ajar-homes/service-booking/internal/middleware"
	"github.com/ajar-homes/service-booking/internal/response"
)

// PropertyHandler handles HTTP requests for properties and their calendars.
type PropertyHandler struct {
	properties   *application.PropertyService
	availability *application.AvailabilityService
	bookings     *application.BookingService
}

// NewPropertyHandler creates a PropertyHandler.
func NewPropertyHandler(properties *application.PropertyService, availability *application.AvailabilityService, bookings *application.BookingService) *PropertyHandler {
	return &PropertyHandler{properties: properties, availability: availability, bookings: bookings}
}

// RegisterRoutes registers property routes. The calendar view is public;
// everything else requires authentication.
func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	r.GET("/properties/:id/calendar", h.GetCalendar)

	props := r.Group("/properties")
	props.Use(middleware.AuthMiddleware(jwtManager))
	{
		props.POST("", middleware.RequireRole(auth.RoleOwner), h.CreateProperty)
		props.GET("", middleware.RequireRole(auth.RoleOwner), h.ListMyProperties)
		props.GET("/:id", h.GetProperty)
		props.PATCH("/:id", middleware.RequireRole(auth.RoleOwner), h.UpdateProperty)
		props.POST("/:id/retire", middleware.RequireRole(auth.RoleOwner), h.RetireProperty)
		props.GET("/:id/bookings", middleware.RequireRole(auth.RoleOwner), h.ListPropertyBookings)
		props.POST("/:id/blocks", middleware.RequireRole(auth.RoleOwner), h.BlockDates)
		props.DELETE("/:id/blocks", middleware.RequireRole(auth.RoleOwner), h.UnblockDates)
		props.PUT("/:id/price-override", middleware.RequireRole(auth.RoleOwner), h.SetPriceOverride)
	}
}

// ownerScope returns the caller's ID, widened to all properties for admins.
func ownerScope(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, false
	}
	if middleware.GetUserRole(c) == auth.RoleAdmin {
		return uuid.Nil, true
	}
	return userID, true
}

// CreateProperty handles POST /api/v1/properties
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.properties.CreateProperty(c.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// GetProperty handles GET /api/v1/properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	dto, err := h.properties.GetProperty(c.Request.Context(), propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// ListMyProperties handles GET /api/v1/properties
func (h *PropertyHandler) ListMyProperties(c *gin.Context) {
	ownerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	dtos, err := h.properties.ListMyProperties(c.Request.Context(), ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dtos)
}

// UpdateProperty handles PATCH /api/v1/properties/:id
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.properties.UpdateProperty(c.Request.Context(), ownerID, propertyID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// RetireProperty handles POST /api/v1/properties/:id/retire
func (h *PropertyHandler) RetireProperty(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.properties.RetireProperty(c.Request.Context(), ownerID, propertyID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"retired": true})
}

// ListPropertyBookings handles GET /api/v1/properties/:id/bookings
func (h *PropertyHandler) ListPropertyBookings(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	dtos, err := h.bookings.ListPropertyBookings(c.Request.Context(), ownerID, propertyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dtos)
}

// GetCalendar handles GET /api/v1/properties/:id/calendar?start=...&end=...
func (h *PropertyHandler) GetCalendar(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}

	days, err := h.availability.Calendar(c.Request.Context(), propertyID, c.Query("start"), c.Query("end"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, days)
}

// BlockDates handles POST /api/v1/properties/:id/blocks
func (h *PropertyHandler) BlockDates(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.availability.BlockDates(c.Request.Context(), ownerID, propertyID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"blocked": true})
}

// UnblockDates handles DELETE /api/v1/properties/:id/blocks
func (h *PropertyHandler) UnblockDates(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.availability.UnblockDates(c.Request.Context(), ownerID, propertyID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"unblocked": true})
}

// SetPriceOverride handles PUT /api/v1/properties/:id/price-override
func (h *PropertyHandler) SetPriceOverride(c *gin.Context) {
	propertyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid property ID")
		return
	}
	ownerID, ok := ownerScope(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.PriceOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.availability.SetPriceOverride(c.Request.Context(), ownerID, propertyID, req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}
