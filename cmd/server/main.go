package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-gin-seat-reservation/config"
	"go-gin-seat-reservation/internal/cache"
	"go-gin-seat-reservation/internal/database"
	"go-gin-seat-reservation/internal/handler"
	"go-gin-seat-reservation/internal/notification"
	"go-gin-seat-reservation/internal/queue"
	"go-gin-seat-reservation/internal/repository"
	"go-gin-seat-reservation/internal/router"
	"go-gin-seat-reservation/internal/service"
	"go-gin-seat-reservation/internal/worker"
	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.LoadConfig()
	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		logger.L.Warn("invalid log level, keep default", zap.String("level", cfg.Server.LogLevel))
	}
	defer logger.L.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.L.Fatal("server exited with error", zap.Error(err))
	}
	logger.L.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	clk := clock.New()

	// repositories
	tx := repository.NewTransactor(pool)
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	showtimeRepo := repository.NewShowtimeRepository(pool)
	seatRepo := repository.NewSeatRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	// 座位圖快取存活時間與鎖位清理週期一致
	seatCache := cache.NewRedisSeatMapCache(rdb, cfg.Scheduler.SeatUnlockInterval)

	// notifications: service -> queue -> worker -> delivery sender
	notificationQueue, err := newNotificationQueue(cfg.Notification, rdb)
	if err != nil {
		return err
	}
	deliverySender, closeSender, err := notification.NewDeliverySender(cfg.Notification)
	if err != nil {
		return err
	}
	defer closeSender()

	// services
	userService := service.NewUserService(userRepo)
	eventService := service.NewEventService(tx, eventRepo, showtimeRepo, seatRepo, clk)
	seatLockService := service.NewSeatLockService(tx, seatRepo, showtimeRepo, eventRepo, bookingRepo, seatCache, clk,
		service.SeatLockServiceConfig{
			LockTTL:    cfg.Booking.SeatLockTTL,
			MaxTickets: cfg.Booking.MaxTicketsPerBooking,
		})
	bookingService := service.NewBookingService(tx, userRepo, eventRepo, showtimeRepo, seatRepo, bookingRepo, seatCache,
		notification.NewQueueSender(notificationQueue), clk,
		service.BookingServiceConfig{
			MaxTickets: cfg.Booking.MaxTicketsPerBooking,
		})

	// background jobs
	scheduler := worker.NewScheduler(clk,
		worker.NewSeatUnlockJob(seatRepo, seatCache, clk, cfg.Scheduler.SeatUnlockInterval, cfg.Scheduler.BatchSize),
		worker.NewBookingExpiryJob(bookingRepo, bookingService, clk,
			cfg.Scheduler.BookingExpiryInterval, cfg.Scheduler.BookingExpiryGrace, cfg.Scheduler.BatchSize),
	)
	notificationWorker := worker.NewNotificationWorker(deliverySender, notificationQueue)

	// http
	gin.SetMode(gin.ReleaseMode)
	engine := router.New(cfg,
		handler.NewEventHandler(eventService, seatLockService),
		handler.NewSeatHandler(seatLockService),
		handler.NewBookingHandler(bookingService),
		handler.NewPaymentHandler(bookingService, cfg.Auth.WebhookSecret),
		handler.NewAdminHandler(userService, eventService, bookingService),
	)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		if err := notificationWorker.Start(gctx); err != nil {
			return err
		}
		<-notificationWorker.Done()
		return nil
	})

	return g.Wait()
}

func newNotificationQueue(cfg config.NotificationConfig, rdb *redis.Client) (queue.NotificationQueue, error) {
	if cfg.Queue == "memory" {
		return queue.NewMemoryNotificationQueue(1024), nil
	}
	hostname, _ := os.Hostname()
	return queue.NewRedisStreamNotificationQueue(rdb, hostname, nil)
}
