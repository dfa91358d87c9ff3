package repositories

import (
	"context"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/shopspring/decimal"
)

const (
	SerializationError   = "40001"
	UniqueViolationError = "23505"
)

// AmountRange is the global max/min of the origin transaction amount.
type AmountRange struct {
	Max decimal.Decimal
	Min decimal.Decimal
}

// TransactionRepository is the store boundary for the transaction collection.
// Implementations compile query.Filter into their native query form.
type TransactionRepository interface {
	// Insert persists a transaction. A transactionId collision yields a
	// ConflictError.
	Insert(ctx context.Context, tx *models.Transaction) error
	// GetByTransactionID returns (nil, nil) when the id is absent.
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	// Search returns the page window of transactions matching the filter.
	Search(ctx context.Context, filter query.Filter, page query.Page) ([]models.Transaction, error)
	// Count returns the full predicate match count, independent of paging.
	Count(ctx context.Context, filter query.Filter) (int64, error)
	// ListTagKeys returns deduplicated tag keys across all transactions.
	ListTagKeys(ctx context.Context) ([]string, error)
	// ListUserIDs returns the deduplicated union of origin and destination ids.
	ListUserIDs(ctx context.Context) ([]string, error)
	// AmountRange returns (nil, nil) when the store holds no transactions,
	// so "no data" is distinguishable from an all-zero range.
	AmountRange(ctx context.Context) (*AmountRange, error)
	// FindInWindow returns all transactions with startMs <= timestamp <= endMs.
	FindInWindow(ctx context.Context, startMs, endMs int64) ([]models.Transaction, error)
}
