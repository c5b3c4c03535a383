package repository_test

import (
	"context"
	"testing"

	"go-gin-seat-reservation/internal/repository"
	"go-gin-seat-reservation/internal/testutil"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Find(t *testing.T) {
	pool := testutil.RequireDB(t)
	repo := repository.NewEventRepository(pool)
	ctx := context.Background()
	event := createTestEvent(t, pool, 10)

	found, err := repo.FindByEventID(ctx, event.EventID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, found.ID)
	assert.Equal(t, 10, found.AvailableCount)

	_, err = repo.FindByEventID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

	events, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestEventRepository_GeneralAdmission(t *testing.T) {
	pool := testutil.RequireDB(t)
	repo := repository.NewEventRepository(pool)
	ctx := context.Background()
	event := createTestEvent(t, pool, 5)

	t.Run("Reserve returns first placeholder number", func(t *testing.T) {
		var first, second int
		err := inTx(t, pool, func(tx pgx.Tx) error {
			var err error
			if first, err = repo.ReserveGeneralAdmission(ctx, tx, event.ID, 3, baseTime); err != nil {
				return err
			}
			second, err = repo.ReserveGeneralAdmission(ctx, tx, event.ID, 2, baseTime)
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, first)
		assert.Equal(t, 4, second)
	})

	t.Run("SoldOut leaves counter unchanged", func(t *testing.T) {
		err := inTx(t, pool, func(tx pgx.Tx) error {
			_, err := repo.ReserveGeneralAdmission(ctx, tx, event.ID, 1, baseTime)
			return err
		})
		assert.ErrorIs(t, err, apperrors.ErrSoldOut)

		found, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.AvailableCount)
	})

	t.Run("Release never exceeds capacity", func(t *testing.T) {
		err := inTx(t, pool, func(tx pgx.Tx) error {
			return repo.ReleaseGeneralAdmission(ctx, tx, event.ID, 5, baseTime)
		})
		require.NoError(t, err)

		err = inTx(t, pool, func(tx pgx.Tx) error {
			return repo.ReleaseGeneralAdmission(ctx, tx, event.ID, 1, baseTime)
		})
		assert.Error(t, err)

		found, err := repo.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, found.AvailableCount)
	})
}
