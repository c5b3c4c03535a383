package repository

import (
	"context"
	"fmt"
	"time"

	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByID(ctx context.Context, id int) (*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)

	// Transaction methods
	FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error)
	// ReserveGeneralAdmission 扣除一般入場容量，回傳這次保留的第一個流水號
	ReserveGeneralAdmission(ctx context.Context, tx pgx.Tx, id int, count int, now time.Time) (int, error)
	ReleaseGeneralAdmission(ctx context.Context, tx pgx.Tx, id int, count int, now time.Time) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `id, event_id, name, description, price, seated,
		total_capacity, available_count, created_at, updated_at`

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, name, description, price, seated, total_capacity, available_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.EventID, event.Name, event.Description, event.Price,
		event.Seated, event.TotalCapacity, event.AvailableCount,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

func (r *EventRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE event_id = $1`
	return scanEvent(r.pool.QueryRow(ctx, query, eventID))
}

func (r *EventRepositoryImpl) FindByIDTx(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`
	return scanEvent(tx.QueryRow(ctx, query, id))
}

func (r *EventRepositoryImpl) ReserveGeneralAdmission(ctx context.Context, tx pgx.Tx, id int, count int, now time.Time) (int, error) {
	query := `
		UPDATE events
		SET available_count = available_count - $1,
			ga_sequence = ga_sequence + $1,
			updated_at = $2
		WHERE id = $3 AND available_count >= $1
		RETURNING ga_sequence
	`

	var sequence int
	err := tx.QueryRow(ctx, query, count, now, id).Scan(&sequence)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, apperrors.ErrSoldOut
		}
		return 0, fmt.Errorf("failed to reserve capacity: %w", err)
	}

	return sequence - count + 1, nil
}

func (r *EventRepositoryImpl) ReleaseGeneralAdmission(ctx context.Context, tx pgx.Tx, id int, count int, now time.Time) error {
	query := `
		UPDATE events
		SET available_count = available_count + $1, updated_at = $2
		WHERE id = $3 AND available_count + $1 <= total_capacity
	`

	result, err := tx.Exec(ctx, query, count, now, id)
	if err != nil {
		return fmt.Errorf("failed to release capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("release %d tickets for event %d would exceed capacity", count, id)
	}

	return nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.EventID,
		&event.Name,
		&event.Description,
		&event.Price,
		&event.Seated,
		&event.TotalCapacity,
		&event.AvailableCount,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
