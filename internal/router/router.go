package router

import (
	"net/http"
	"time"

	"go-gin-seat-reservation/config"
	"go-gin-seat-reservation/internal/middleware"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar 各 handler 把路由掛到 /api/v1 底下
type RouteRegistrar interface {
	RegisterRoutes(api *gin.RouterGroup, auth gin.HandlerFunc)
}

func New(cfg *config.Config, handlers ...RouteRegistrar) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if allowAll(cfg.Server.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	}
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	api := engine.Group("/api/v1")
	auth := middleware.Auth(cfg.Auth.JWTSecret)
	for _, h := range handlers {
		h.RegisterRoutes(api, auth)
	}

	return engine
}

// 未設定或包含 "*" 時開放所有來源，此時不允許帶 credentials
func allowAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func requestLogger() gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
