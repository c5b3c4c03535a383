package handler

import (
	"net/http"

	"go-gin-seat-reservation/internal/middleware"
	"go-gin-seat-reservation/internal/model"
	"go-gin-seat-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type SeatHandler struct {
	service service.SeatLockService
}

func NewSeatHandler(service service.SeatLockService) *SeatHandler {
	return &SeatHandler{service: service}
}

func (h *SeatHandler) RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc) {
	api.GET("showtimes/:id/seats", h.SeatMap)
	api.GET("showtimes/:id/occupied", h.Occupied)
	api.POST("showtimes/:id/locks", auth, h.LockSeats)
}

// LockSeatsRequest 鎖位請求，持有者取自 token
type LockSeatsRequest struct {
	SeatLabels []string `json:"seat_labels" binding:"required,min=1"`
}

func (h *SeatHandler) SeatMap(c *gin.Context) {
	showtimeID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	seats, err := h.service.SeatMap(c, showtimeID)
	if err != nil {
		handleError(c, err, "SeatMap")
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *SeatHandler) Occupied(c *gin.Context) {
	showtimeID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	labels, err := h.service.OccupiedSeatsByShowtime(c, showtimeID)
	if err != nil {
		handleError(c, err, "Occupied")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat_labels": labels})
}

func (h *SeatHandler) LockSeats(c *gin.Context) {
	showtimeID, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req LockSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	holderID, _ := middleware.CurrentUserID(c)

	result, err := h.service.LockSeats(c, model.LockSeatsRequest{
		ShowtimeID: showtimeID,
		HolderID:   holderID,
		SeatLabels: req.SeatLabels,
	})
	if err != nil {
		handleError(c, err, "LockSeats")
		return
	}
	c.JSON(http.StatusCreated, result)
}
