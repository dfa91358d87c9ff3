package rates

import (
	"context"
	"errors"
	"testing"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// countingSource records lookups and serves a fixed rate or error.
type countingSource struct {
	calls int
	rate  float64
	err   error
}

func (s *countingSource) USDRate(_ context.Context, _ models.Currency) (float64, error) {
	s.calls++
	return s.rate, s.err
}

func TestConverterToUSD(t *testing.T) {
	ctx := context.Background()

	t.Run("USD amounts bypass the source", func(t *testing.T) {
		source := &countingSource{rate: 99}
		converter := NewConverter(source)

		out := converter.ToUSD(ctx, decimal.NewFromInt(42), models.CurrencyUSD)

		assert.True(t, out.Equal(decimal.NewFromInt(42)))
		assert.Zero(t, source.calls)
	})

	t.Run("non-USD amounts are multiplied by the rate", func(t *testing.T) {
		source := &countingSource{rate: 0.012}
		converter := NewConverter(source)

		out := converter.ToUSD(ctx, decimal.NewFromInt(1000), models.CurrencyINR)

		assert.True(t, out.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, 1, source.calls)
	})

	t.Run("source failure falls back to 1:1 without error", func(t *testing.T) {
		source := &countingSource{err: errors.New("rate service down")}
		converter := NewConverter(source)

		out := converter.ToUSD(ctx, decimal.NewFromInt(77), models.CurrencyJPY)

		assert.True(t, out.Equal(decimal.NewFromInt(77)))
	})
}
