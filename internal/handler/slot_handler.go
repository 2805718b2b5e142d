package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Venkatnagaram/mentor-apis-working/internal/middleware"
	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/service"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
	"github.com/Venkatnagaram/mentor-apis-working/pkg/response"
)

type slotService interface {
	Generate(ctx context.Context, query service.SlotQuery) (*service.SlotResult, error)
}

// SlotHandler exposes slot generation endpoints.
type SlotHandler struct {
	service           slotService
	metrics           *service.MetricsService
	defaultWindowDays int
	maxWindowDays     int
}

// NewSlotHandler builds a new handler.
func NewSlotHandler(svc slotService, metrics *service.MetricsService, defaultWindowDays, maxWindowDays int) *SlotHandler {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 7
	}
	return &SlotHandler{
		service:           svc,
		metrics:           metrics,
		defaultWindowDays: defaultWindowDays,
		maxWindowDays:     maxWindowDays,
	}
}

// List godoc
// @Summary Generate bookable slots for a user
// @Tags Slots
// @Produce json
// @Param id path string true "User ID"
// @Param start query string false "Window start date (YYYY-MM-DD, defaults to today)"
// @Param end query string false "Window end date (YYYY-MM-DD, defaults to start + default window)"
// @Param mode query string false "flat, grouped or grouped_with_status"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	loc := middleware.Location(c)

	windowStart, windowEnd, err := h.parseWindow(c.Query("start"), c.Query("end"))
	if err != nil {
		response.Error(c, err)
		return
	}

	query := service.SlotQuery{
		UserID:      c.Param("id"),
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
		Mode:        models.SlotMode(c.Query("mode")),
	}

	started := time.Now()
	result, err := h.service.Generate(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveSlotGeneration(time.Since(started))
	}

	localizeResult(result, loc)
	response.JSON(c, http.StatusOK, result, nil, map[string]interface{}{
		"window_start": windowStart.In(loc),
		"window_end":   windowEnd.In(loc),
		"timezone":     loc.String(),
	})
}

// parseWindow resolves the inclusive date window. Dates are calendar days;
// an omitted end defaults to the configured window length.
func (h *SlotHandler) parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	windowStart := time.Now().UTC().Truncate(24 * time.Hour)
	if startRaw != "" {
		parsed, err := parseDate(startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start must be a YYYY-MM-DD date")
		}
		windowStart = parsed
	}

	windowEnd := windowStart.AddDate(0, 0, h.defaultWindowDays-1)
	if endRaw != "" {
		parsed, err := parseDate(endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end must be a YYYY-MM-DD date")
		}
		windowEnd = parsed
	}

	if windowEnd.Before(windowStart) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrInvalidWindow, "")
	}
	if h.maxWindowDays > 0 {
		if int(windowEnd.Sub(windowStart).Hours()/24)+1 > h.maxWindowDays {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "requested window is too large")
		}
	}
	return windowStart, windowEnd.AddDate(0, 0, 1).Add(-time.Second), nil
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

// localizeResult shifts every instant into the display location. Slot
// arithmetic is UTC throughout; this is presentation only.
func localizeResult(result *service.SlotResult, loc *time.Location) {
	if loc == time.UTC {
		return
	}
	for i := range result.Slots {
		result.Slots[i].Start = result.Slots[i].Start.In(loc)
		result.Slots[i].End = result.Slots[i].End.In(loc)
	}
	for g := range result.Groups {
		for i := range result.Groups[g].Slots {
			result.Groups[g].Slots[i].Start = result.Groups[g].Slots[i].Start.In(loc)
			result.Groups[g].Slots[i].End = result.Groups[g].Slots[i].End.In(loc)
		}
	}
	for i := range result.StatusSlots {
		result.StatusSlots[i].Start = result.StatusSlots[i].Start.In(loc)
		result.StatusSlots[i].End = result.StatusSlots[i].End.In(loc)
	}
}
