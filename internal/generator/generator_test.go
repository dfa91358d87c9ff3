package generator

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/avelinsk/txmon/internal/domain/query"
	dbrepositories "github.com/avelinsk/txmon/internal/infrastructure/database/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorStartStop(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	gen := New(repo, time.Hour)

	t.Run("start is idempotent", func(t *testing.T) {
		assert.True(t, gen.Start())
		assert.False(t, gen.Start())
		assert.True(t, gen.Running())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		assert.True(t, gen.Stop())
		assert.False(t, gen.Stop())
		assert.False(t, gen.Running())
	})

	t.Run("restart after stop", func(t *testing.T) {
		assert.True(t, gen.Start())
		assert.True(t, gen.Stop())
	})
}

func TestGeneratorPersists(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	gen := New(repo, 5*time.Millisecond)

	require.True(t, gen.Start())
	defer gen.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		count, err := repo.Count(context.Background(), query.Filter{})
		require.NoError(t, err)
		if count > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generator produced no transactions before the deadline")
}

func TestSynthesize(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	now := time.Now()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		tx := Synthesize(rnd, now)

		require.NoError(t, tx.Validate())
		assert.Equal(t, now.UnixMilli(), tx.Timestamp)
		assert.True(t, tx.OriginAmountDetails.Amount.GreaterThanOrEqual(decimal.NewFromInt(10)))
		assert.True(t, tx.OriginAmountDetails.Amount.LessThan(decimal.NewFromInt(5000)))
		assert.LessOrEqual(t, int32(-2), tx.OriginAmountDetails.Amount.Exponent())
		assert.Equal(t, currencyCountry[tx.OriginAmountDetails.Currency], tx.OriginAmountDetails.Country)
		require.Len(t, tx.Tags, 1)

		_, dup := seen[tx.TransactionID]
		assert.False(t, dup, "transaction ids must be unique")
		seen[tx.TransactionID] = struct{}{}
	}
}
