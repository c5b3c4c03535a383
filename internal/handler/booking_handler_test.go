package handler_test

import (
	"net/http"
	"testing"

	"go-gin-seat-reservation/internal/handler"
	"go-gin-seat-reservation/internal/middleware"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/service/mocks"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCreateBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		count := 2
		body := model.CreateBookingRequest{EventID: 1, TicketCount: &count}
		svc.On("CreateBooking", mock.Anything, 5, body).Return(&model.Booking{
			ID: 10, UserID: 5, EventID: 1, TicketCount: 2, Status: model.BookingStatusPending,
		}, nil).Once()

		req := withToken(t, createJSONHTTPRequest(http.MethodPost, "/api/v1/bookings", body), 5, middleware.RoleUser)
		w := serve(r, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"PENDING"`)
		svc.AssertExpectations(t)
	})

	t.Run("Failed - Unauthenticated", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		w := serve(r, createJSONHTTPRequest(http.MethodPost, "/api/v1/bookings", model.CreateBookingRequest{EventID: 1}))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "CreateBooking")
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		req := withToken(t, createJSONHTTPRequest(http.MethodPost, "/api/v1/bookings", InvalidJSON), 5, middleware.RoleUser)
		w := serve(r, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "CreateBooking")
	})

	errCases := []struct {
		name string
		err  error
		code int
	}{
		{"SoldOut", apperrors.ErrSoldOut, http.StatusConflict},
		{"DuplicatePending", apperrors.ErrDuplicatePendingBooking, http.StatusConflict},
		{"UserBlocked", apperrors.ErrUserBlocked, http.StatusForbidden},
		{"EventNotFound", apperrors.ErrEventNotFound, http.StatusNotFound},
		{"TicketLimit", apperrors.ErrTicketLimitExceeded, http.StatusBadRequest},
		{"Internal", apperrors.ErrInternalServerError, http.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run("Failed - "+tc.name, func(t *testing.T) {
			svc := mocks.NewBookingServiceMock()
			r := setupRouter(handler.NewBookingHandler(svc))

			svc.On("CreateBooking", mock.Anything, 5, mock.Anything).Return(nil, tc.err).Once()

			req := withToken(t, createJSONHTTPRequest(http.MethodPost, "/api/v1/bookings", model.CreateBookingRequest{EventID: 1}), 5, middleware.RoleUser)
			w := serve(r, req)

			assert.Equal(t, tc.code, w.Code)
			svc.AssertExpectations(t)
		})
	}

	t.Run("Failed - SeatLockError lists failures", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("CreateBooking", mock.Anything, 5, mock.Anything).Return(nil, &apperrors.SeatLockError{
			Failures: []apperrors.SeatFailure{{Label: "A1", Reason: apperrors.SeatFailureTaken}},
		}).Once()

		req := withToken(t, createJSONHTTPRequest(http.MethodPost, "/api/v1/bookings", model.CreateBookingRequest{EventID: 1}), 5, middleware.RoleUser)
		w := serve(r, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"Seats unavailable","failures":[{"label":"A1","reason":"SEAT_TAKEN"}]}`, w.Body.String())
	})
}

func TestGetBooking(t *testing.T) {
	t.Run("Owner", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("GetBooking", mock.Anything, 3, model.UserActor(5)).Return(&model.Booking{ID: 3, UserID: 5}, nil).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodGet, "/api/v1/bookings/3", nil), 5, middleware.RoleUser))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Admin is privileged", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("GetBooking", mock.Anything, 3, model.Actor{UserID: 1, Privileged: true}).Return(&model.Booking{ID: 3, UserID: 5}, nil).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodGet, "/api/v1/bookings/3", nil), 1, middleware.RoleAdmin))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Not owner", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("GetBooking", mock.Anything, 3, model.UserActor(6)).Return(nil, apperrors.ErrUnauthorized).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodGet, "/api/v1/bookings/3", nil), 6, middleware.RoleUser))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Invalid id", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodGet, "/api/v1/bookings/abc", nil), 6, middleware.RoleUser))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "GetBooking")
	})
}

func TestListBookings(t *testing.T) {
	svc := mocks.NewBookingServiceMock()
	r := setupRouter(handler.NewBookingHandler(svc))

	svc.On("ListUserBookings", mock.Anything, 5).Return([]*model.Booking{{ID: 1, UserID: 5}, {ID: 2, UserID: 5}}, nil).Once()

	w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodGet, "/api/v1/bookings", nil), 5, middleware.RoleUser))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCancelBooking(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("CancelBooking", mock.Anything, 3, model.UserActor(5)).Return(&model.Booking{ID: 3, Status: model.BookingStatusCancelled}, nil).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodPut, "/api/v1/bookings/3/cancel", nil), 5, middleware.RoleUser))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"CANCELLED"`)
	})

	t.Run("Admin token still cancels as itself", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("CancelBooking", mock.Anything, 3, model.UserActor(1)).Return(nil, apperrors.ErrUnauthorized).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodPut, "/api/v1/bookings/3/cancel", nil), 1, middleware.RoleAdmin))

		assert.Equal(t, http.StatusForbidden, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Already cancelled", func(t *testing.T) {
		svc := mocks.NewBookingServiceMock()
		r := setupRouter(handler.NewBookingHandler(svc))

		svc.On("CancelBooking", mock.Anything, 3, model.UserActor(5)).Return(nil, apperrors.ErrAlreadyCancelled).Once()

		w := serve(r, withToken(t, createJSONHTTPRequest(http.MethodPut, "/api/v1/bookings/3/cancel", nil), 5, middleware.RoleUser))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Booking already cancelled")
	})
}
