package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, type, timestamp_ms, origin_user_id, destination_user_id, state,
origin_amount, origin_currency, origin_country, destination_amount, destination_currency, destination_country,
origin_device, destination_device, tags, promotion_code_used, reference, description, created_at`

type TransactionRepositoryImpl struct {
	db     *pgxpool.Pool
	logger *zerolog.Logger
}

// NewTransactionRepositoryImpl creates the Postgres-backed transaction store.
func NewTransactionRepositoryImpl(db *pgxpool.Pool) repositories.TransactionRepository {
	l := log.GetLogger()
	return &TransactionRepositoryImpl{
		db:     db,
		logger: &l,
	}
}

const insertTransaction = `
INSERT INTO transactions (transaction_id, type, timestamp_ms, origin_user_id, destination_user_id, state,
  origin_amount, origin_currency, origin_country, destination_amount, destination_currency, destination_country,
  origin_device, destination_device, tags, promotion_code_used, reference, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

func (r *TransactionRepositoryImpl) Insert(ctx context.Context, tx *models.Transaction) error {
	originDevice, err := json.Marshal(deviceDoc(tx.OriginDeviceData))
	if err != nil {
		return fmt.Errorf("marshal origin device: %w", err)
	}
	destinationDevice, err := json.Marshal(deviceDoc(tx.DestinationDeviceData))
	if err != nil {
		return fmt.Errorf("marshal destination device: %w", err)
	}
	tags, err := json.Marshal(tagDocs(tx.Tags))
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = r.db.Exec(ctx, insertTransaction,
		tx.TransactionID,
		string(tx.Type),
		tx.Timestamp,
		tx.OriginUserID,
		tx.DestinationUserID,
		string(tx.State),
		tx.OriginAmountDetails.Amount,
		string(tx.OriginAmountDetails.Currency),
		string(tx.OriginAmountDetails.Country),
		tx.DestinationAmountDetails.Amount,
		string(tx.DestinationAmountDetails.Currency),
		string(tx.DestinationAmountDetails.Country),
		originDevice,
		destinationDevice,
		tags,
		tx.PromotionCodeUsed,
		tx.Reference,
		tx.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == repositories.UniqueViolationError {
			return apperrors.NewConflictError()
		}
		return fmt.Errorf("insert transaction %s: %w", tx.TransactionID, err)
	}
	return nil
}

func (r *TransactionRepositoryImpl) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	row := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM transactions WHERE transaction_id = $1", transactionColumns),
		transactionID,
	)

	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction %s: %w", transactionID, err)
	}
	return tx, nil
}

func (r *TransactionRepositoryImpl) Search(ctx context.Context, filter query.Filter, page query.Page) ([]models.Transaction, error) {
	where, args := buildWhere(filter)
	limitArg := len(args) + 1
	offsetArg := len(args) + 2
	args = append(args, page.Size, page.Offset())

	sql := fmt.Sprintf("SELECT %s FROM transactions %s %s LIMIT $%d OFFSET $%d",
		transactionColumns, where, buildOrder(page), limitArg, offsetArg)

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepositoryImpl) Count(ctx context.Context, filter query.Filter) (int64, error) {
	where, args := buildWhere(filter)

	var total int64
	err := r.db.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where), args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return total, nil
}

func (r *TransactionRepositoryImpl) ListTagKeys(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT t->>'key' FROM transactions CROSS JOIN LATERAL jsonb_array_elements(tags) AS t ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list tag keys: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

func (r *TransactionRepositoryImpl) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT origin_user_id FROM transactions UNION SELECT destination_user_id FROM transactions ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	return collectStrings(rows)
}

func (r *TransactionRepositoryImpl) AmountRange(ctx context.Context) (*repositories.AmountRange, error) {
	var count int64
	var max, min decimal.Decimal
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(MAX(origin_amount), 0), COALESCE(MIN(origin_amount), 0) FROM transactions`,
	).Scan(&count, &max, &min)
	if err != nil {
		return nil, fmt.Errorf("amount range: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	return &repositories.AmountRange{Max: max, Min: min}, nil
}

func (r *TransactionRepositoryImpl) FindInWindow(ctx context.Context, startMs, endMs int64) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT %s FROM transactions WHERE timestamp_ms BETWEEN $1 AND $2", transactionColumns),
		startMs, endMs,
	)
	if err != nil {
		return nil, fmt.Errorf("find transactions in window: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// --- row mapping ---

// deviceJSON is the JSONB shape of a device snapshot; field names match the
// API wire format so stored documents stay readable.
type deviceJSON struct {
	BatteryLevel     float64 `json:"batteryLevel"`
	DeviceLatitude   float64 `json:"deviceLatitude"`
	DeviceLongitude  float64 `json:"deviceLongitude"`
	IPAddress        string  `json:"ipAddress"`
	DeviceIdentifier string  `json:"deviceIdentifier"`
	VPNUsed          bool    `json:"vpnUsed"`
	OperatingSystem  string  `json:"operatingSystem"`
	DeviceMaker      string  `json:"deviceMaker"`
	DeviceModel      string  `json:"deviceModel"`
	DeviceYear       string  `json:"deviceYear"`
	AppVersion       string  `json:"appVersion"`
}

type tagJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func deviceDoc(d models.DeviceData) deviceJSON {
	return deviceJSON(d)
}

func tagDocs(tags []models.Tag) []tagJSON {
	out := make([]tagJSON, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagJSON(t))
	}
	return out
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	var txType, state, originCurrency, originCountry, destCurrency, destCountry string
	var originDevice, destinationDevice, tags []byte

	err := row.Scan(
		&tx.TransactionID,
		&txType,
		&tx.Timestamp,
		&tx.OriginUserID,
		&tx.DestinationUserID,
		&state,
		&tx.OriginAmountDetails.Amount,
		&originCurrency,
		&originCountry,
		&tx.DestinationAmountDetails.Amount,
		&destCurrency,
		&destCountry,
		&originDevice,
		&destinationDevice,
		&tags,
		&tx.PromotionCodeUsed,
		&tx.Reference,
		&tx.Description,
		&tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = models.TransactionType(txType)
	tx.State = models.TransactionState(state)
	tx.OriginAmountDetails.Currency = models.Currency(originCurrency)
	tx.OriginAmountDetails.Country = models.Country(originCountry)
	tx.DestinationAmountDetails.Currency = models.Currency(destCurrency)
	tx.DestinationAmountDetails.Country = models.Country(destCountry)

	var originDoc, destDoc deviceJSON
	if err := json.Unmarshal(originDevice, &originDoc); err != nil {
		return nil, fmt.Errorf("unmarshal origin device: %w", err)
	}
	if err := json.Unmarshal(destinationDevice, &destDoc); err != nil {
		return nil, fmt.Errorf("unmarshal destination device: %w", err)
	}
	tx.OriginDeviceData = models.DeviceData(originDoc)
	tx.DestinationDeviceData = models.DeviceData(destDoc)

	var tagDocs []tagJSON
	if err := json.Unmarshal(tags, &tagDocs); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	tx.Tags = make([]models.Tag, 0, len(tagDocs))
	for _, t := range tagDocs {
		tx.Tags = append(tx.Tags, models.Tag(t))
	}

	return &tx, nil
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	out := make([]models.Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func collectStrings(rows pgx.Rows) ([]string, error) {
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
