package handler

import (
	"net/http"
	"time"

	"go-gin-seat-reservation/internal/middleware"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler 庫存與使用者管理，需要 admin 角色
type AdminHandler struct {
	users    service.UserService
	events   service.EventService
	bookings service.BookingService
}

func NewAdminHandler(users service.UserService, events service.EventService, bookings service.BookingService) *AdminHandler {
	return &AdminHandler{users: users, events: events, bookings: bookings}
}

func (h *AdminHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	router := api.Group("admin", auth, middleware.RequireRole(middleware.RoleAdmin))
	{
		router.GET("users", h.ListUsers)
		router.POST("users", h.RegisterUser)
		router.PUT("users/:id/block", h.BlockUser)
		router.PUT("users/:id/unblock", h.UnblockUser)
		router.POST("events", h.CreateEvent)
		router.POST("events/:uuid/showtimes", h.CreateShowtime)
		router.PUT("bookings/:id/cancel", h.CancelBooking)
	}
}

type RegisterUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// CreateEventRequest 建立活動請求；一般入場活動需要 total_capacity
type CreateEventRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   *string `json:"description"`
	Price         float64 `json:"price" binding:"gte=0"`
	Seated        bool    `json:"seated"`
	TotalCapacity int     `json:"total_capacity" binding:"gte=0"`
}

type CreateShowtimeRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	SeatRows int       `json:"seat_rows" binding:"required"`
	SeatCols int       `json:"seat_cols" binding:"required"`
	Price    *float64  `json:"price"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c)
	if err != nil {
		handleError(c, err, "ListUsers")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	user, err := h.users.Register(c, req.Name, req.Email)
	if err != nil {
		handleError(c, err, "RegisterUser")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Block(c, id)
	if err != nil {
		handleError(c, err, "BlockUser")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UnblockUser(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	user, err := h.users.Unblock(c, id)
	if err != nil {
		handleError(c, err, "UnblockUser")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event, err := h.events.Create(c, model.CreateEventParams{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Seated:        req.Seated,
		TotalCapacity: req.TotalCapacity,
	})
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *AdminHandler) CreateShowtime(c *gin.Context) {
	eventID, ok := parseEventUUID(c)
	if !ok {
		return
	}
	var req CreateShowtimeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	showtime, err := h.events.CreateShowtime(c, eventID, model.CreateShowtimeParams{
		StartsAt: req.StartsAt,
		SeatRows: req.SeatRows,
		SeatCols: req.SeatCols,
		Price:    req.Price,
	})
	if err != nil {
		handleError(c, err, "CreateShowtime")
		return
	}
	c.JSON(http.StatusCreated, showtime)
}

// CancelBooking 管理員取消，不檢查擁有者
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	cancelled, err := h.bookings.CancelBooking(c, id, model.SystemActor)
	if err != nil {
		handleError(c, err, "AdminCancelBooking")
		return
	}
	c.JSON(http.StatusOK, cancelled)
}
