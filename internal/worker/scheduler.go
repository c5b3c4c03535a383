package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-gin-seat-reservation/pkg/logger"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"
)

// Job 週期性執行的背景工作
type Job interface {
	Name() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// Scheduler 每個 Job 各自一個 ticker；時間來源可注入，測試時用 clock.NewMock() 推進
type Scheduler struct {
	clock clock.Clock
	jobs  []Job
	wg    sync.WaitGroup
	log   *zap.Logger
}

func NewScheduler(clk clock.Clock, jobs ...Job) *Scheduler {
	return &Scheduler{
		clock: clk,
		jobs:  jobs,
		log:   logger.WithComponent("scheduler"),
	}
}

// Start ticker 在回傳前就已建立，之後推進時鐘一定會觸發
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		ticker := s.clock.Ticker(job.Interval())
		s.wg.Add(1)
		go s.loop(ctx, job, ticker)
	}
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Wait 等待所有 job 迴圈結束
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Run 啟動並阻塞到 ctx 結束
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Wait()
	s.log.Info("scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, job Job, ticker *clock.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	log := s.log.With(zap.String("job", job.Name()))
	defer func() {
		if r := recover(); r != nil {
			log.Error("job panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()

	if err := job.Run(ctx); err != nil {
		log.Error("job failed", zap.Error(err))
	}
}
