package service

import (
	"testing"

	"go-gin-seat-reservation/internal/model"
	apperrors "go-gin-seat-reservation/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLabels(t *testing.T) {
	labels, err := normalizeLabels([]string{" a1 ", "A2", "a1", "b10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2", "B10"}, labels)

	_, err = normalizeLabels([]string{"A1", ""})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	labels, err = normalizeLabels(nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestResolveTicketCount(t *testing.T) {
	three := 3
	zero := 0
	eleven := 11
	price := 250.0
	tiny := 10.0

	tests := []struct {
		name    string
		req     model.CreateBookingRequest
		labels  []string
		unit    float64
		want    int
		wantErr error
	}{
		{name: "explicit count", req: model.CreateBookingRequest{TicketCount: &three}, unit: 100, want: 3},
		{name: "from labels", labels: []string{"A1", "A2"}, unit: 100, want: 2},
		{name: "from total price", req: model.CreateBookingRequest{TotalPrice: &price}, unit: 100, want: 2},
		{name: "total price below unit price", req: model.CreateBookingRequest{TotalPrice: &tiny}, unit: 100, want: 1},
		{name: "free event ignores total price", req: model.CreateBookingRequest{TotalPrice: &price}, unit: 0, want: 1},
		{name: "default one", unit: 100, want: 1},
		{name: "non-positive count", req: model.CreateBookingRequest{TicketCount: &zero}, wantErr: apperrors.ErrInvalidInput},
		{name: "over limit", req: model.CreateBookingRequest{TicketCount: &eleven}, unit: 100, wantErr: apperrors.ErrTicketLimitExceeded},
		{name: "count mismatches labels", req: model.CreateBookingRequest{TicketCount: &three}, labels: []string{"A1"}, wantErr: apperrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTicketCount(tt.req, tt.labels, tt.unit, DefaultMaxTicketsPerBooking)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveTotalPrice(t *testing.T) {
	price := 180.0
	assert.Equal(t, 180.0, resolveTotalPrice(model.CreateBookingRequest{TotalPrice: &price}, 100, 2))
	assert.Equal(t, 200.0, resolveTotalPrice(model.CreateBookingRequest{}, 100, 2))
}

func TestPlaceholderLabels(t *testing.T) {
	assert.Equal(t, []string{"GEN-5", "GEN-6", "GEN-7"}, placeholderLabels(5, 3))
	assert.Empty(t, placeholderLabels(1, 0))
}
