package interactor

import (
	"context"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/rs/zerolog"
)

// storeTimeout bounds every store call so a stuck backend surfaces as an
// error instead of a hung request.
const storeTimeout = 5 * time.Second

// SearchResult is the paged outcome of a transaction search.
type SearchResult struct {
	TotalMatches int64
	TotalPages   int
	Page         int
	PageSize     int
	Items        []models.Transaction
}

// TransactionInteractor orchestrates the filter builder and the store to
// serve create, lookup, search and projection operations.
type TransactionInteractor struct {
	transactionRepository repositories.TransactionRepository
	logger                *zerolog.Logger
}

func NewTransactionInteractor(transactionRepository repositories.TransactionRepository) *TransactionInteractor {
	l := log.GetLogger()
	return &TransactionInteractor{
		transactionRepository: transactionRepository,
		logger:                &l,
	}
}

// Create validates the transaction shape and persists it. Duplicate ids are
// rejected by the store's unique constraint.
func (i *TransactionInteractor) Create(ctx context.Context, tx *models.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := i.transactionRepository.Insert(ctx, tx); err != nil {
		var conflict *apperrors.ConflictError
		if apperrors.As(err, &conflict) {
			return "", conflict
		}
		return "", apperrors.NewStoreError("insert transaction", err)
	}

	return tx.TransactionID, nil
}

// GetByID returns the transaction with the exact transactionId, or a
// NotFoundError when absent.
func (i *TransactionInteractor) GetByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	if transactionID == "" {
		return nil, apperrors.NewValidationError("transaction id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	tx, err := i.transactionRepository.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperrors.NewStoreError("get transaction", err)
	}
	if tx == nil {
		return nil, apperrors.NewNotFoundError(apperrors.ErrTransactionNotFound)
	}
	return tx, nil
}

// Search applies the filter and page window. TotalMatches counts the full
// predicate independently of the returned page.
func (i *TransactionInteractor) Search(ctx context.Context, filter query.Filter, page query.Page) (*SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	total, err := i.transactionRepository.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreError("count transactions", err)
	}

	items, err := i.transactionRepository.Search(ctx, filter, page)
	if err != nil {
		return nil, apperrors.NewStoreError("search transactions", err)
	}

	return &SearchResult{
		TotalMatches: total,
		TotalPages:   query.TotalPages(total, page.Size),
		Page:         page.Number,
		PageSize:     page.Size,
		Items:        items,
	}, nil
}

// SearchAll returns every transaction matching the filter, unpaged. Export
// endpoints use it to stream the full result set.
func (i *TransactionInteractor) SearchAll(ctx context.Context, filter query.Filter) ([]models.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	total, err := i.transactionRepository.Count(ctx, filter)
	if err != nil {
		return nil, apperrors.NewStoreError("count transactions", err)
	}
	if total == 0 {
		return []models.Transaction{}, nil
	}

	page := query.Page{Number: 1, Size: int(total), SortBy: query.SortByTimestamp, Order: query.SortAsc}
	items, err := i.transactionRepository.Search(ctx, filter, page)
	if err != nil {
		return nil, apperrors.NewStoreError("search transactions", err)
	}
	return items, nil
}

// ListTagKeys returns the deduplicated tag keys across all transactions.
func (i *TransactionInteractor) ListTagKeys(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	keys, err := i.transactionRepository.ListTagKeys(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list tag keys", err)
	}
	return keys, nil
}

// ListUserIDs returns the deduplicated union of origin and destination ids.
func (i *TransactionInteractor) ListUserIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	ids, err := i.transactionRepository.ListUserIDs(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("list user ids", err)
	}
	return ids, nil
}

// AmountRange returns the global max/min origin amount, or a NotFoundError
// when the store holds no transactions at all.
func (i *TransactionInteractor) AmountRange(ctx context.Context) (*repositories.AmountRange, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rng, err := i.transactionRepository.AmountRange(ctx)
	if err != nil {
		return nil, apperrors.NewStoreError("amount range", err)
	}
	if rng == nil {
		return nil, apperrors.NewNotFoundError("No transactions found")
	}
	return rng, nil
}
