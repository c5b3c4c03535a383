package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go-gin-seat-reservation/internal/service"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	WebhookSecretHeader = "X-Webhook-Secret"
	PaymentSucceeded    = "succeeded"
)

// PaymentHandler 接收付款服務的回呼，成功時確認訂位
type PaymentHandler struct {
	service service.BookingService
	secret  string
	log     *zap.Logger
}

func NewPaymentHandler(service service.BookingService, secret string) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		secret:  secret,
		log:     logger.WithComponent("handler").With(zap.String("operation", "PaymentWebhook")),
	}
}

func (h *PaymentHandler) RegisterRoutes(api *gin.RouterGroup, _ gin.HandlerFunc) {
	api.POST("payments/webhook", h.Webhook)
}

type PaymentWebhookRequest struct {
	BookingID int    `json:"booking_id" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

func (h *PaymentHandler) Webhook(c *gin.Context) {
	if !h.authorized(c.GetHeader(WebhookSecretHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook secret"})
		return
	}

	var req PaymentWebhookRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	// 非成功狀態只記錄，訂位維持 PENDING 直到付款或逾時
	if !strings.EqualFold(req.Status, PaymentSucceeded) {
		h.log.Info("payment not succeeded", zap.Int("booking_id", req.BookingID), zap.String("status", req.Status))
		c.JSON(http.StatusAccepted, gin.H{"booking_id": req.BookingID, "status": "ignored"})
		return
	}

	booking, err := h.service.ConfirmBooking(c, req.BookingID)
	if err != nil {
		handleError(c, err, "PaymentWebhook")
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *PaymentHandler) authorized(got string) bool {
	if h.secret == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
