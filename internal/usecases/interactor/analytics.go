package interactor

import (
	"context"
	"sync"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/rates"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// conversionWorkers bounds the fan-out of per-transaction USD conversions.
const conversionWorkers = 8

// Window is an aggregation window with a fixed bucket width, both in epoch
// milliseconds.
type Window struct {
	StartMs  int64
	EndMs    int64
	BucketMs int64
}

// GraphPoint is one time bucket with its USD total.
type GraphPoint struct {
	TimestampMs int64
	Amount      decimal.Decimal
}

// GraphResult is a dense, gap-filled bucket sequence for a window. Min and
// Max are computed over non-empty buckets and collapse to zero when the
// window holds no matching transactions.
type GraphResult struct {
	Points []GraphPoint
	Min    decimal.Decimal
	Max    decimal.Decimal
}

// AggregateResult carries the window's USD total and state counters.
type AggregateResult struct {
	TotalUSD        decimal.Decimal
	SuccessfulCount int64
	DeclinedCount   int64
}

// AnalyticsInteractor computes time-bucketed graph data and aggregate
// counters over a transaction window, normalising amounts to USD.
type AnalyticsInteractor struct {
	transactionRepository repositories.TransactionRepository
	converter             *rates.Converter
	logger                *zerolog.Logger
}

func NewAnalyticsInteractor(transactionRepository repositories.TransactionRepository, converter *rates.Converter) *AnalyticsInteractor {
	l := log.GetLogger()
	return &AnalyticsInteractor{
		transactionRepository: transactionRepository,
		converter:             converter,
		logger:                &l,
	}
}

// GraphData buckets the window's transactions and returns a dense sequence
// covering every bucket, zero-valued where nothing matched.
func (i *AnalyticsInteractor) GraphData(ctx context.Context, w Window) (*GraphResult, error) {
	txs, err := i.fetchWindow(ctx, w)
	if err != nil {
		return nil, err
	}

	buckets := i.accumulateBuckets(ctx, txs, w.BucketMs)

	result := &GraphResult{Points: make([]GraphPoint, 0)}
	first := true
	firstBucket := (w.StartMs / w.BucketMs) * w.BucketMs
	for ts := firstBucket; ts <= w.EndMs; ts += w.BucketMs {
		amount, ok := buckets[ts]
		if !ok {
			amount = decimal.Zero
		} else {
			// min/max track non-empty buckets only; an empty window
			// reports 0/0 rather than sentinel infinities.
			if first {
				result.Min = amount
				result.Max = amount
				first = false
			} else {
				if amount.LessThan(result.Min) {
					result.Min = amount
				}
				if amount.GreaterThan(result.Max) {
					result.Max = amount
				}
			}
		}
		result.Points = append(result.Points, GraphPoint{TimestampMs: ts, Amount: amount})
	}

	return result, nil
}

// Aggregate computes the window's USD total plus successful/declined counts.
func (i *AnalyticsInteractor) Aggregate(ctx context.Context, w Window) (*AggregateResult, error) {
	txs, err := i.fetchWindow(ctx, w)
	if err != nil {
		return nil, err
	}

	result := &AggregateResult{TotalUSD: decimal.Zero}
	for idx := range txs {
		switch txs[idx].State {
		case models.StateSuccessful:
			result.SuccessfulCount++
		case models.StateDeclined:
			result.DeclinedCount++
		}
	}

	totals := i.convertAll(ctx, txs)
	for _, usd := range totals {
		result.TotalUSD = result.TotalUSD.Add(usd)
	}

	return result, nil
}

func (i *AnalyticsInteractor) fetchWindow(ctx context.Context, w Window) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	txs, err := i.transactionRepository.FindInWindow(ctx, w.StartMs, w.EndMs)
	if err != nil {
		return nil, apperrors.NewStoreError("find transactions in window", err)
	}
	return txs, nil
}

// accumulateBuckets converts each transaction concurrently and merges the
// results into a map keyed by bucket start, so the outcome is independent of
// completion order.
func (i *AnalyticsInteractor) accumulateBuckets(ctx context.Context, txs []models.Transaction, bucketMs int64) map[int64]decimal.Decimal {
	buckets := make(map[int64]decimal.Decimal)
	usd := i.convertAll(ctx, txs)

	for idx := range txs {
		key := (txs[idx].Timestamp / bucketMs) * bucketMs
		buckets[key] = buckets[key].Add(usd[idx])
	}
	return buckets
}

// convertAll fans per-transaction USD conversion out across a bounded worker
// pool. Results land at the transaction's own index, keeping the merge
// deterministic.
func (i *AnalyticsInteractor) convertAll(ctx context.Context, txs []models.Transaction) []decimal.Decimal {
	out := make([]decimal.Decimal, len(txs))
	if len(txs) == 0 {
		return out
	}

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := conversionWorkers
	if len(txs) < workers {
		workers = len(txs)
	}
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				details := txs[idx].OriginAmountDetails
				out[idx] = i.converter.ToUSD(ctx, details.Amount, details.Currency)
			}
		}()
	}

	for idx := range txs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return out
}
