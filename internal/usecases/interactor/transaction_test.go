package interactor

import (
	"context"
	"fmt"
	"testing"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	apperrors "github.com/avelinsk/txmon/internal/errors"
	dbrepositories "github.com/avelinsk/txmon/internal/infrastructure/database/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTransaction(id string, amount int64, state models.TransactionState) *models.Transaction {
	details := models.AmountDetails{
		Amount:   decimal.NewFromInt(amount),
		Currency: models.CurrencyUSD,
		Country:  models.CountryUS,
	}
	return &models.Transaction{
		TransactionID:            id,
		Type:                     models.TypeTransfer,
		Timestamp:                1700000000000,
		OriginUserID:             "user1",
		DestinationUserID:        "user2",
		State:                    state,
		OriginAmountDetails:      details,
		DestinationAmountDetails: details,
	}
}

func TestTransactionInteractorCreate(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	interactor := NewTransactionInteractor(repo)
	ctx := context.Background()

	t.Run("create and read back", func(t *testing.T) {
		id, err := interactor.Create(ctx, validTransaction("tx-1", 100, models.StateSuccessful))
		require.NoError(t, err)
		assert.Equal(t, "tx-1", id)

		tx, err := interactor.GetByID(ctx, "tx-1")
		require.NoError(t, err)
		assert.True(t, tx.OriginAmountDetails.Amount.Equal(decimal.NewFromInt(100)))
	})

	t.Run("duplicate id yields a conflict", func(t *testing.T) {
		_, err := interactor.Create(ctx, validTransaction("tx-1", 50, models.StateSuccessful))
		var conflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("invalid shape is rejected before the store", func(t *testing.T) {
		broken := validTransaction("tx-2", 100, models.StateSuccessful)
		broken.OriginUserID = ""
		_, err := interactor.Create(ctx, broken)
		var validationErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		tx, getErr := repo.GetByTransactionID(ctx, "tx-2")
		require.NoError(t, getErr)
		assert.Nil(t, tx)
	})

	t.Run("unknown id is a not-found", func(t *testing.T) {
		_, err := interactor.GetByID(ctx, "missing")
		var notFound *apperrors.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, apperrors.ErrTransactionNotFound, notFound.Message)
	})
}

func TestTransactionInteractorSearch(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	interactor := NewTransactionInteractor(repo)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		tx := validTransaction(fmt.Sprintf("tx-%02d", i), int64(100+i), models.StateSuccessful)
		tx.Timestamp = int64(1700000000000 + i)
		_, err := interactor.Create(ctx, tx)
		require.NoError(t, err)
	}

	page := query.Page{Number: 3, Size: 10, SortBy: query.SortByTimestamp, Order: query.SortAsc}
	result, err := interactor.Search(ctx, query.Filter{}, page)
	require.NoError(t, err)

	assert.Equal(t, int64(23), result.TotalMatches)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 3, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Len(t, result.Items, 3)

	t.Run("total counts the full predicate, not the page", func(t *testing.T) {
		gte := decimal.NewFromInt(110)
		filtered, err := interactor.Search(ctx, query.Filter{AmountGte: &gte}, query.Page{Number: 1, Size: 5, SortBy: query.SortByTimestamp, Order: query.SortAsc})
		require.NoError(t, err)
		assert.Equal(t, int64(13), filtered.TotalMatches)
		assert.Equal(t, 3, filtered.TotalPages)
		assert.Len(t, filtered.Items, 5)
	})

	t.Run("search all returns the unpaged set", func(t *testing.T) {
		all, err := interactor.SearchAll(ctx, query.Filter{})
		require.NoError(t, err)
		assert.Len(t, all, 23)
	})
}

func TestTransactionInteractorAmountRange(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	interactor := NewTransactionInteractor(repo)
	ctx := context.Background()

	t.Run("empty store is a not-found, not a zero range", func(t *testing.T) {
		_, err := interactor.AmountRange(ctx)
		var notFound *apperrors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("two-transaction scenario", func(t *testing.T) {
		a := validTransaction("tx-a", 100, models.StateSuccessful)
		a.Tags = []models.Tag{{Key: "test", Value: "true"}}
		b := validTransaction("tx-b", 200, models.StateDeclined)
		b.Tags = []models.Tag{{Key: "sample", Value: "true"}}

		_, err := interactor.Create(ctx, a)
		require.NoError(t, err)
		_, err = interactor.Create(ctx, b)
		require.NoError(t, err)

		rng, err := interactor.AmountRange(ctx)
		require.NoError(t, err)
		assert.True(t, rng.Max.Equal(decimal.NewFromInt(200)))
		assert.True(t, rng.Min.Equal(decimal.NewFromInt(100)))

		keys, err := interactor.ListTagKeys(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"test", "sample"}, keys)

		ids, err := interactor.ListUserIDs(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"user1", "user2"}, ids)
	})
}
