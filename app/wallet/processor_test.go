package wallet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oddslip/oddslip/models"
)

func TestSimulatedProcessor(t *testing.T) {
	ctx := context.Background()

	t.Run("always approve", func(t *testing.T) {
		p := NewSimulatedProcessor(1)

		intent, err := p.CreatePaymentIntent(ctx, "cus_1", decimal.NewFromInt(50), "card")
		require.NoError(t, err)
		assert.Equal(t, IntentStatusPending, intent.Status)

		confirmed, err := p.ConfirmPaymentIntent(ctx, intent.ID)
		require.NoError(t, err)
		assert.Equal(t, IntentStatusSucceeded, confirmed.Status)
	})

	t.Run("always decline", func(t *testing.T) {
		p := NewSimulatedProcessor(0)

		intent, err := p.CreatePaymentIntent(ctx, "cus_1", decimal.NewFromInt(50), "card")
		require.NoError(t, err)

		confirmed, err := p.ConfirmPaymentIntent(ctx, intent.ID)
		require.NoError(t, err)
		assert.Equal(t, IntentStatusFailed, confirmed.Status)
	})

	t.Run("confirm is idempotent", func(t *testing.T) {
		p := NewSimulatedProcessor(1)

		intent, err := p.CreatePaymentIntent(ctx, "cus_1", decimal.NewFromInt(50), "card")
		require.NoError(t, err)

		first, err := p.ConfirmPaymentIntent(ctx, intent.ID)
		require.NoError(t, err)
		second, err := p.ConfirmPaymentIntent(ctx, intent.ID)
		require.NoError(t, err)
		assert.Equal(t, first.Status, second.Status)
	})

	t.Run("unknown intent", func(t *testing.T) {
		p := NewSimulatedProcessor(1)

		_, err := p.ConfirmPaymentIntent(ctx, "pi_missing")
		assert.ErrorIs(t, err, models.ErrRecordNotFound)
	})

	t.Run("customer reference derived from user", func(t *testing.T) {
		p := NewSimulatedProcessor(1)
		user := &models.User{ID: uuid.New()}

		ref, err := p.CreateCustomer(ctx, user)
		require.NoError(t, err)
		assert.Contains(t, ref, user.ID.String())
	})
}
