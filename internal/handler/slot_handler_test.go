package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Venkatnagaram/mentor-apis-working/internal/models"
	"github.com/Venkatnagaram/mentor-apis-working/internal/service"
	appErrors "github.com/Venkatnagaram/mentor-apis-working/pkg/errors"
)

type slotServiceMock struct {
	resp      *service.SlotResult
	err       error
	lastQuery service.SlotQuery
}

func (m *slotServiceMock) Generate(ctx context.Context, query service.SlotQuery) (*service.SlotResult, error) {
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func TestSlotHandlerListExplicitWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &slotServiceMock{resp: &service.SlotResult{Mode: models.SlotModeFlat}}
	h := NewSlotHandler(mockSvc, nil, 7, 90)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/mentor-1/slots?start=2025-03-10&end=2025-03-12&mode=grouped", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "mentor-1"}}

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mentor-1", mockSvc.lastQuery.UserID)
	assert.Equal(t, models.SlotModeGrouped, mockSvc.lastQuery.Mode)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), mockSvc.lastQuery.WindowStart)
	// inclusive end covers the whole last day
	assert.Equal(t, time.Date(2025, 3, 12, 23, 59, 59, 0, time.UTC), mockSvc.lastQuery.WindowEnd)
}

func TestSlotHandlerListDefaultWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &slotServiceMock{resp: &service.SlotResult{Mode: models.SlotModeFlat}}
	h := NewSlotHandler(mockSvc, nil, 7, 90)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/mentor-1/slots?start=2025-03-10", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "mentor-1"}}

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2025, 3, 16, 23, 59, 59, 0, time.UTC), mockSvc.lastQuery.WindowEnd)
}

func TestSlotHandlerListBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSlotHandler(&slotServiceMock{}, nil, 7, 90)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/mentor-1/slots?start=10-03-2025", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "mentor-1"}}

	h.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlotHandlerListWindowTooLarge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSlotHandler(&slotServiceMock{}, nil, 7, 30)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/mentor-1/slots?start=2025-03-10&end=2025-06-10", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "mentor-1"}}

	h.List(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSlotHandlerListServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewSlotHandler(&slotServiceMock{err: appErrors.ErrUserNotFound}, nil, 7, 90)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/users/ghost/slots", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	h.List(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
