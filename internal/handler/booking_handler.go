package handler

import (
	"net/http"

	"go-gin-seat-reservation/internal/middleware"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	router := api.Group("bookings", auth)
	{
		router.POST("", h.CreateBooking)
		router.GET("", h.ListBookings)
		router.GET(":id", h.GetBooking)
		router.PUT(":id/cancel", h.CancelBooking)
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	created, err := h.service.CreateBooking(c, userID, req)
	if err != nil {
		handleError(c, err, "CreateBooking")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	bookings, err := h.service.ListUserBookings(c, userID)
	if err != nil {
		handleError(c, err, "ListBookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	booking, err := h.service.GetBooking(c, id, middleware.CurrentActor(c))
	if err != nil {
		handleError(c, err, "GetBooking")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking 使用者只能取消自己的訂位
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(c)

	cancelled, err := h.service.CancelBooking(c, id, model.UserActor(userID))
	if err != nil {
		handleError(c, err, "CancelBooking")
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
