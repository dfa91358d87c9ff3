package rates

import (
	"context"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Converter normalises amounts into USD. Upstream failures degrade to a 1:1
// conversion instead of failing the caller, so reporting endpoints stay
// available when the rate service is down.
type Converter struct {
	source Source
	logger *zerolog.Logger
}

func NewConverter(source Source) *Converter {
	l := log.GetLogger()
	return &Converter{source: source, logger: &l}
}

// ToUSD converts an amount from the given currency. USD amounts are returned
// unchanged without touching the rate source.
func (c *Converter) ToUSD(ctx context.Context, amount decimal.Decimal, currency models.Currency) decimal.Decimal {
	if currency == models.CurrencyUSD {
		return amount
	}

	rate, err := c.source.USDRate(ctx, currency)
	if err != nil {
		c.logger.Warn().Err(err).Str("currency", string(currency)).Msg("rate lookup failed, falling back to 1:1")
		return amount
	}

	return amount.Mul(decimal.NewFromFloat(rate))
}
