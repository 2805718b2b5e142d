package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Venkatnagaram/mentor-apis-working/internal/middleware"
	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/service"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/response"
)

type meetingService interface {
	Book(ctx context.Context, req service.BookMeetingRequest) (*models.Meeting, error)
	Cancel(ctx context.Context, meetingID, requesterID string) (*models.Meeting, error)
	ListByUser(ctx context.Context, userID string, status models.MeetingStatus) ([]models.Meeting, error)
}

type exportService interface {
	MeetingAgenda(ctx context.Context, userID string, format service.ExportFormat, loc *time.Location) (*service.ExportResult, error)
}

// MeetingHandler exposes booking, listing, cancellation and export endpoints.
type MeetingHandler struct {
	service meetingService
	exports exportService
	metrics *service.MetricsService
}

// NewMeetingHandler builds a new handler.
func NewMeetingHandler(svc meetingService, exports exportService, metrics *service.MetricsService) *MeetingHandler {
	return &MeetingHandler{service: svc, exports: exports, metrics: metrics}
}

// Book godoc
// @Summary Book a meeting slot
// @Tags Meetings
// @Accept json
// @Produce json
// @Param payload body service.BookMeetingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Router /meetings [post]
func (h *MeetingHandler) Book(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BookMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	// A mentee booking for themselves may omit mentee_id.
	if req.MenteeID == "" && claims.Role == models.RoleMentee {
		req.MenteeID = claims.UserID
	}

	meeting, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		h.countBooking(err)
		response.Error(c, err)
		return
	}
	h.countBooking(nil)
	response.Created(c, meeting)
}

func (h *MeetingHandler) countBooking(err error) {
	if h.metrics == nil {
		return
	}
	switch {
	case err == nil:
		h.metrics.CountBooking("booked")
	case appErrors.FromError(err).Status == http.StatusConflict:
		h.metrics.CountBooking("conflict")
	default:
		h.metrics.CountBooking("rejected")
	}
}

// List godoc
// @Summary List the caller's meetings
// @Tags Meetings
// @Produce json
// @Param status query string false "scheduled, cancelled or completed (defaults to scheduled)"
// @Success 200 {object} response.Envelope
// @Router /meetings [get]
func (h *MeetingHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	meetings, err := h.service.ListByUser(c.Request.Context(), claims.UserID, models.MeetingStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}

	loc := middleware.Location(c)
	if loc != time.UTC {
		for i := range meetings {
			meetings[i].StartAt = meetings[i].StartAt.In(loc)
			meetings[i].EndAt = meetings[i].EndAt.In(loc)
		}
	}
	response.JSON(c, http.StatusOK, meetings, nil)
}

// Cancel godoc
// @Summary Cancel a scheduled meeting
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} response.Envelope
// @Router /meetings/{id}/cancel [post]
func (h *MeetingHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	meeting, err := h.service.Cancel(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, meeting, nil)
}

// Export godoc
// @Summary Export the caller's meeting agenda
// @Tags Meetings
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf (defaults to csv)"
// @Success 200 {file} file
// @Router /meetings/export [get]
func (h *MeetingHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if h.exports == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "exports are disabled"))
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.MeetingAgenda(c.Request.Context(), claims.UserID, format, middleware.Location(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
