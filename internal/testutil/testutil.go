package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-gin-seat-reservation/config"
	"go-gin-seat-reservation/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
)

// 每個測試前清空的資料表，保留 schema
const truncateQuery = "TRUNCATE bookings, seats, showtimes, events, users RESTART IDENTITY CASCADE"

var (
	once     sync.Once
	testDB   *pgxpool.Pool
	setupErr error
)

// Setup 連線測試資料庫並套用 schema，整個 package 只做一次
func Setup() (*pgxpool.Pool, error) {
	once.Do(func() {
		cfg := config.LoadTestConfig()

		pool, err := database.InitDatabase(&cfg.Database)
		if err != nil {
			setupErr = fmt.Errorf("failed to initialize test database: %w", err)
			return
		}
		if err := database.Migrate(context.Background(), pool); err != nil {
			pool.Close()
			setupErr = fmt.Errorf("failed to migrate test database: %w", err)
			return
		}
		testDB = pool
	})
	return testDB, setupErr
}

// RequireDB 連不到測試資料庫時略過整合測試；每次呼叫都會清空資料
func RequireDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	pool, err := Setup()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}

	if _, err := pool.Exec(context.Background(), truncateQuery); err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
	return pool
}

// Close 給 TestMain 使用
func Close() {
	if testDB != nil {
		testDB.Close()
	}
}
