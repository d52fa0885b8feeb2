package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajar-homes/service-booking/internal/application"
	"github.com/ajar-homes/service-booking/internal/auth"
	"github.com/ajar-homes/service-booking/internal/middleware"
	"github.com/ajar-homes/service-booking/internal/response"
)

// OfferHandler handles HTTP requests for offers.
type OfferHandler struct {
	service *application.OfferService
}

// NewOfferHandler creates an OfferHandler.
func NewOfferHandler(service *application.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

// RegisterRoutes registers offer routes. Browsing and validating codes is
// public; creation and deactivation are restricted.
func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	offers := r.Group("/offers")
	{
		offers.GET("/active", h.ListActive)
		offers.POST("/validate", h.ValidateOffer)
	}

	protected := r.Group("/offers")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	{
		protected.POST("", middleware.RequireRole(auth.RoleOwner), h.CreateOffer)
		protected.POST("/:id/deactivate", middleware.RequireRole(auth.RoleOwner), h.DeactivateOffer)
	}
}

// CreateOffer handles POST /api/v1/offers
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreateOffer(c.Request.Context(), callerID, middleware.GetUserRole(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// ListActive handles GET /api/v1/offers/active
func (h *OfferHandler) ListActive(c *gin.Context) {
	dtos, err := h.service.ListActiveOffers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dtos)
}

// ValidateOffer handles POST /api/v1/offers/validate
func (h *OfferHandler) ValidateOffer(c *gin.Context) {
	var req application.ValidateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.ValidateOffer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// DeactivateOffer handles POST /api/v1/offers/:id/deactivate
func (h *OfferHandler) DeactivateOffer(c *gin.Context) {
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid offer ID")
		return
	}
	callerID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	if err := h.service.DeactivateOffer(c.Request.Context(), callerID, middleware.GetUserRole(c), offerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deactivated": true})
}
