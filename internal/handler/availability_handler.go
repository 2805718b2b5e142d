package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/service"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/response"
)

type availabilityService interface {
	Create(ctx context.Context, userID string, req service.UpsertAvailabilityRequest) (*models.AvailabilityRule, error)
	Update(ctx context.Context, id, userID string, req service.UpsertAvailabilityRequest) (*models.AvailabilityRule, error)
	Deactivate(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id, userID string) error
	ListMine(ctx context.Context, userID string) ([]models.AvailabilityRule, error)
}

// AvailabilityHandler exposes availability rule management endpoints.
type AvailabilityHandler struct {
	service availabilityService
}

// NewAvailabilityHandler builds a new handler.
func NewAvailabilityHandler(service availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// Create godoc
// @Summary Create an availability rule
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.UpsertAvailabilityRequest true "Availability payload"
// @Success 201 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	rule, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rule)
}

// ListMine godoc
// @Summary List the caller's availability rules
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/me [get]
func (h *AvailabilityHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rules, err := h.service.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rules, nil)
}

// Update godoc
// @Summary Replace an availability rule
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param payload body service.UpsertAvailabilityRequest true "Availability payload"
// @Success 200 {object} response.Envelope
// @Router /availability/{id} [put]
func (h *AvailabilityHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}

	rule, err := h.service.Update(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rule, nil)
}

// Delete godoc
// @Summary Delete or deactivate an availability rule
// @Tags Availability
// @Produce json
// @Param id path string true "Rule ID"
// @Param soft query bool false "Deactivate instead of deleting"
// @Success 204
// @Router /availability/{id} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var err error
	if c.Query("soft") == "true" {
		err = h.service.Deactivate(c.Request.Context(), c.Param("id"), claims.UserID)
	} else {
		err = h.service.Delete(c.Request.Context(), c.Param("id"), claims.UserID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
