package booking

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymdesk/internal/apperr"
	"gymdesk/internal/auth"
)

type MockBookingService struct{ mock.Mock }

func (m *MockBookingService) Create(ctx context.Context, actor auth.Actor, req CreateBookingRequest) (*Booking, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, actor auth.Actor, bookingID int, req UpdateStatusRequest) (*Booking, error) {
	args := m.Called(ctx, actor, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) MemberModify(ctx context.Context, actor auth.Actor, bookingID int, req MemberModifyRequest) (*Booking, error) {
	args := m.Called(ctx, actor, bookingID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockBookingService) ListByMember(ctx context.Context, actor auth.Actor) ([]Booking, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockBookingService) ListByBranchDay(ctx context.Context, actor auth.Actor, day time.Time) ([]Booking, error) {
	args := m.Called(ctx, actor, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func setupHandlerRouter(svc Service, actor auth.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("actor", actor)
		c.Next()
	})

	h := NewHandler(svc)
	r.POST("/bookings", h.Create)
	r.PATCH("/bookings/:bookingID/status", h.UpdateStatus)
	r.POST("/my/bookings/:bookingID/modify", h.MemberModify)
	r.GET("/my/bookings", h.ListMy)

	return r
}

func TestHandler_Create(t *testing.T) {
	actor := auth.Actor{ID: 50, Role: auth.RoleFrontdesk, TenantID: 1, BranchID: 2}

	t.Run("created", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("Create", mock.Anything, actor, mock.Anything).
			Return(&Booking{ID: 1, MemberID: 9, Status: StatusBooked}, nil)

		r := setupHandlerRouter(svc, actor)
		body := bytes.NewBufferString(`{"member_id":9,"service_name":"open_gym","start_at":"2026-03-11T09:00:00Z","end_at":"2026-03-11T10:00:00Z"}`)
		req := httptest.NewRequest("POST", "/bookings", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"booked"`)
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("Create", mock.Anything, actor, mock.Anything).Return(nil, apperr.ErrConflict)

		r := setupHandlerRouter(svc, actor)
		body := bytes.NewBufferString(`{"member_id":9,"service_name":"open_gym","start_at":"2026-03-11T09:00:00Z","end_at":"2026-03-11T10:00:00Z"}`)
		req := httptest.NewRequest("POST", "/bookings", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := setupHandlerRouter(new(MockBookingService), actor)
		body := bytes.NewBufferString(`{"member_id": nine}`)
		req := httptest.NewRequest("POST", "/bookings", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_UpdateStatus(t *testing.T) {
	actor := auth.Actor{ID: 50, Role: auth.RoleFrontdesk, TenantID: 1, BranchID: 2}

	t.Run("invalid transition maps to 422", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("UpdateStatus", mock.Anything, actor, 12, mock.Anything).
			Return(nil, apperr.ErrInvalidTransition)

		r := setupHandlerRouter(svc, actor)
		body := bytes.NewBufferString(`{"status":"completed","reason":"done"}`)
		req := httptest.NewRequest("PATCH", "/bookings/12/status", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		r := setupHandlerRouter(new(MockBookingService), actor)
		body := bytes.NewBufferString(`{"status":"checked_in","reason":"arrived"}`)
		req := httptest.NewRequest("PATCH", "/bookings/abc/status", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_MemberModify(t *testing.T) {
	actor := auth.Actor{ID: 9, Role: auth.RoleMember, TenantID: 1, BranchID: 2}

	t.Run("locked maps to 423", func(t *testing.T) {
		svc := new(MockBookingService)
		svc.On("MemberModify", mock.Anything, actor, 12, mock.Anything).Return(nil, apperr.ErrLocked)

		r := setupHandlerRouter(svc, actor)
		body := bytes.NewBufferString(`{"action":"cancel","reason":"travel"}`)
		req := httptest.NewRequest("POST", "/my/bookings/12/modify", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusLocked, w.Code)
	})

	t.Run("binding rejects unknown action", func(t *testing.T) {
		r := setupHandlerRouter(new(MockBookingService), actor)
		body := bytes.NewBufferString(`{"action":"postpone","reason":"travel"}`)
		req := httptest.NewRequest("POST", "/my/bookings/12/modify", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ListMy(t *testing.T) {
	actor := auth.Actor{ID: 9, Role: auth.RoleMember, TenantID: 1, BranchID: 2}
	svc := new(MockBookingService)
	svc.On("ListByMember", mock.Anything, actor).Return([]Booking{{ID: 1}, {ID: 2}}, nil)

	r := setupHandlerRouter(svc, actor)
	req := httptest.NewRequest("GET", "/my/bookings", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
