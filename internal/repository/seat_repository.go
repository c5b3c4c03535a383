package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	ListByShowtime(ctx context.Context, showtimeID int) ([]*model.Seat, error)
	// ReleaseExpiredLocks 將已過期的 LOCKED 座位放回 AVAILABLE，回傳被釋放的座位
	ReleaseExpiredLocks(ctx context.Context, now time.Time, limit int) ([]*model.Seat, error)

	// Transaction methods
	CreateBulk(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error)
	FindByLabelsWithLock(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string) ([]*model.Seat, error)
	Lock(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, expiresAt time.Time, now time.Time) error
	MarkBooked(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, now time.Time) error
	ReleaseBooked(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error)
}

type SeatRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSeatRepository(pool *pgxpool.Pool) SeatRepository {
	return &SeatRepositoryImpl{
		pool: pool,
	}
}

const seatColumns = `id, showtime_id, label, state, locked_by, lock_expires_at, updated_at`

func (r *SeatRepositoryImpl) CreateBulk(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error) {
	rows := make([][]any, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []any{showtimeID, label, model.SeatStateAvailable, now})
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"seats"},
		[]string{"showtime_id", "label", "state", "updated_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create seats: %w", err)
	}
	return n, nil
}

func (r *SeatRepositoryImpl) ListByShowtime(ctx context.Context, showtimeID int) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	return collectSeats(rows)
}

// FindByLabelsWithLock 依座位編號排序上鎖，重疊的請求會以相同順序取得 row lock
func (r *SeatRepositoryImpl) FindByLabelsWithLock(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string) ([]*model.Seat, error) {
	query := `
		SELECT ` + seatColumns + `
		FROM seats
		WHERE showtime_id = $1 AND label = ANY($2)
		ORDER BY label
		FOR UPDATE
	`
	rows, err := tx.Query(ctx, query, showtimeID, labels)
	if err != nil {
		return nil, err
	}
	return collectSeats(rows)
}

func (r *SeatRepositoryImpl) Lock(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, expiresAt time.Time, now time.Time) error {
	query := `
		UPDATE seats
		SET state = $1, locked_by = $2, lock_expires_at = $3, updated_at = $4
		WHERE id = ANY($5) AND state = $6
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStateLocked, holderID, expiresAt, now, seatIDs, model.SeatStateAvailable,
	)
	if err != nil {
		return fmt.Errorf("failed to lock seats: %w", err)
	}

	if result.RowsAffected() != int64(len(seatIDs)) {
		return apperrors.ErrSeatTaken
	}

	return nil
}

func (r *SeatRepositoryImpl) MarkBooked(ctx context.Context, tx pgx.Tx, seatIDs []int, holderID int, now time.Time) error {
	query := `
		UPDATE seats
		SET state = $1, locked_by = NULL, lock_expires_at = NULL, updated_at = $2
		WHERE id = ANY($3)
		  AND (state = $4 OR (state = $5 AND locked_by = $6))
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStateBooked, now, seatIDs,
		model.SeatStateAvailable, model.SeatStateLocked, holderID,
	)
	if err != nil {
		return fmt.Errorf("failed to book seats: %w", err)
	}

	if result.RowsAffected() != int64(len(seatIDs)) {
		return apperrors.ErrSeatTaken
	}

	return nil
}

func (r *SeatRepositoryImpl) ReleaseBooked(ctx context.Context, tx pgx.Tx, showtimeID int, labels []string, now time.Time) (int64, error) {
	query := `
		UPDATE seats
		SET state = $1, updated_at = $2
		WHERE showtime_id = $3 AND label = ANY($4) AND state = $5
	`

	result, err := tx.Exec(ctx, query,
		model.SeatStateAvailable, now, showtimeID, labels, model.SeatStateBooked,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to release seats: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *SeatRepositoryImpl) ReleaseExpiredLocks(ctx context.Context, now time.Time, limit int) ([]*model.Seat, error) {
	// SKIP LOCKED：正在被訂位交易鎖住的座位留給下一輪
	query := `
		WITH expired AS (
			SELECT id
			FROM seats
			WHERE state = $1 AND lock_expires_at < $2
			ORDER BY lock_expires_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		UPDATE seats s
		SET state = $4, locked_by = NULL, lock_expires_at = NULL, updated_at = $2
		FROM expired
		WHERE s.id = expired.id AND s.state = $1
		RETURNING s.id, s.showtime_id, s.label, s.state, s.locked_by, s.lock_expires_at, s.updated_at
	`

	rows, err := r.pool.Query(ctx, query,
		model.SeatStateLocked, now, limit, model.SeatStateAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to release expired locks: %w", err)
	}
	return collectSeats(rows)
}

func collectSeats(rows pgx.Rows) ([]*model.Seat, error) {
	defer rows.Close()

	seats := make([]*model.Seat, 0)
	for rows.Next() {
		var seat model.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.ShowtimeID,
			&seat.Label,
			&seat.State,
			&seat.LockedBy,
			&seat.LockExpiresAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		seats = append(seats, &seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
