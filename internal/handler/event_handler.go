package handler

import (
	"net/http"

	"go-gin-seat-reservation/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventHandler struct {
	service service.EventService
	seats   service.SeatLockService
}

func NewEventHandler(service service.EventService, seats service.SeatLockService) *EventHandler {
	return &EventHandler{service: service, seats: seats}
}

func (h *EventHandler) RegisterRoutes(api *gin.RouterGroup, _ gin.HandlerFunc) {
	api.GET("events", h.List)
	api.GET("events/:uuid", h.GetByEventID)
	api.GET("events/:uuid/occupied", h.Occupied)
	api.GET("events/:uuid/showtimes", h.ListShowtimes)
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := parseEventUUID(c)
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Occupied 已被未取消訂位佔用的座位編號
func (h *EventHandler) Occupied(c *gin.Context) {
	eventID, ok := parseEventUUID(c)
	if !ok {
		return
	}
	labels, err := h.seats.OccupiedSeatsByEvent(c, eventID)
	if err != nil {
		handleError(c, err, "Occupied")
		return
	}
	c.JSON(http.StatusOK, gin.H{"seat_labels": labels})
}

func (h *EventHandler) ListShowtimes(c *gin.Context) {
	eventID, ok := parseEventUUID(c)
	if !ok {
		return
	}
	showtimes, err := h.service.ListShowtimes(c, eventID)
	if err != nil {
		handleError(c, err, "ListShowtimes")
		return
	}
	c.JSON(http.StatusOK, showtimes)
}

func parseEventUUID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event uuid"})
		return uuid.Nil, false
	}
	return eventID, true
}
