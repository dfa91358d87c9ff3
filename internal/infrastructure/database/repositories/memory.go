package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	apperrors "github.com/avelinsk/txmon/internal/errors"
)

// MemoryTransactionRepository is an in-memory implementation of the
// transaction store used for unit tests and local runs without Postgres. It
// evaluates query.Filter directly and mirrors the unique transactionId
// constraint of the SQL schema.
type MemoryTransactionRepository struct {
	mu  sync.RWMutex
	txs []models.Transaction
	ids map[string]struct{}
}

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{ids: make(map[string]struct{})}
}

func (r *MemoryTransactionRepository) Insert(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[tx.TransactionID]; exists {
		return apperrors.NewConflictError()
	}
	r.ids[tx.TransactionID] = struct{}{}
	r.txs = append(r.txs, *tx)
	return nil
}

func (r *MemoryTransactionRepository) GetByTransactionID(_ context.Context, transactionID string) (*models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.txs {
		if r.txs[i].TransactionID == transactionID {
			tx := r.txs[i]
			return &tx, nil
		}
	}
	return nil, nil
}

func (r *MemoryTransactionRepository) Search(_ context.Context, filter query.Filter, page query.Page) ([]models.Transaction, error) {
	r.mu.RLock()
	matched := r.match(filter)
	r.mu.RUnlock()

	sortTransactions(matched, page)

	offset := page.Offset()
	if offset >= len(matched) {
		return []models.Transaction{}, nil
	}
	end := offset + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *MemoryTransactionRepository) Count(_ context.Context, filter query.Filter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

func (r *MemoryTransactionRepository) ListTagKeys(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for i := range r.txs {
		for _, tag := range r.txs[i].Tags {
			if _, ok := seen[tag.Key]; ok {
				continue
			}
			seen[tag.Key] = struct{}{}
			keys = append(keys, tag.Key)
		}
	}
	return keys, nil
}

func (r *MemoryTransactionRepository) ListUserIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for i := range r.txs {
		add(r.txs[i].OriginUserID)
		add(r.txs[i].DestinationUserID)
	}
	return ids, nil
}

func (r *MemoryTransactionRepository) AmountRange(_ context.Context) (*repositories.AmountRange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.txs) == 0 {
		return nil, nil
	}

	rng := repositories.AmountRange{
		Max: r.txs[0].OriginAmountDetails.Amount,
		Min: r.txs[0].OriginAmountDetails.Amount,
	}
	for i := 1; i < len(r.txs); i++ {
		amount := r.txs[i].OriginAmountDetails.Amount
		if amount.GreaterThan(rng.Max) {
			rng.Max = amount
		}
		if amount.LessThan(rng.Min) {
			rng.Min = amount
		}
	}
	return &rng, nil
}

func (r *MemoryTransactionRepository) FindInWindow(_ context.Context, startMs, endMs int64) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Transaction, 0)
	for i := range r.txs {
		if r.txs[i].Timestamp >= startMs && r.txs[i].Timestamp <= endMs {
			out = append(out, r.txs[i])
		}
	}
	return out, nil
}

// Reset drops all stored transactions. Test teardown only.
func (r *MemoryTransactionRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = nil
	r.ids = make(map[string]struct{})
}

func (r *MemoryTransactionRepository) match(filter query.Filter) []models.Transaction {
	matched := make([]models.Transaction, 0, len(r.txs))
	for i := range r.txs {
		if filter.Matches(&r.txs[i]) {
			matched = append(matched, r.txs[i])
		}
	}
	return matched
}

// sortTransactions orders a result set by the resolved sort key, breaking
// ties on transactionId so identical searches return identical orderings.
func sortTransactions(txs []models.Transaction, page query.Page) {
	less := func(a, b *models.Transaction) bool {
		switch page.SortBy {
		case "type":
			if a.Type != b.Type {
				return a.Type < b.Type
			}
		case "transactionState":
			if a.State != b.State {
				return a.State < b.State
			}
		case "originUserId":
			if a.OriginUserID != b.OriginUserID {
				return a.OriginUserID < b.OriginUserID
			}
		case "destinationUserId":
			if a.DestinationUserID != b.DestinationUserID {
				return a.DestinationUserID < b.DestinationUserID
			}
		case "originAmountDetails.transactionAmount":
			if !a.OriginAmountDetails.Amount.Equal(b.OriginAmountDetails.Amount) {
				return a.OriginAmountDetails.Amount.LessThan(b.OriginAmountDetails.Amount)
			}
		default:
			if a.Timestamp != b.Timestamp {
				return a.Timestamp < b.Timestamp
			}
		}
		return a.TransactionID < b.TransactionID
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if page.Order == query.SortDesc {
			return less(&txs[j], &txs[i])
		}
		return less(&txs[i], &txs[j])
	})
}

// MemoryUserRepository is the in-memory counterpart of the user store.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) Put(user models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
