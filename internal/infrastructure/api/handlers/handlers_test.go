package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/generator"
	dbrepositories "github.com/avelinsk/txmon/internal/infrastructure/database/repositories"
	"github.com/avelinsk/txmon/internal/rates"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identitySource keeps conversions 1:1 so handler assertions stay simple.
type identitySource struct{}

func (identitySource) USDRate(_ context.Context, _ models.Currency) (float64, error) {
	return 1, nil
}

func newTestRouter(repo *dbrepositories.MemoryTransactionRepository) *chi.Mux {
	transactions := interactor.NewTransactionInteractor(repo)
	analytics := interactor.NewAnalyticsInteractor(repo, rates.NewConverter(identitySource{}))

	th := NewTransactionHandler(transactions)
	ah := NewAnalyticsHandler(analytics, 24*time.Hour, 15*time.Minute)
	eh := NewExportHandler(transactions, analytics, 24*time.Hour, 15*time.Minute)
	gh := NewGeneratorHandler(generator.New(repo, time.Hour))

	router := chi.NewRouter()
	router.Route("/transaction", func(r chi.Router) {
		r.Post("/", th.Create)
		r.Get("/", th.Search)
		r.Get("/tags", th.Tags)
		r.Get("/user-id-list", th.UserIDList)
		r.Get("/amount-range", th.AmountRange)
		r.Get("/graph-data", ah.GraphData)
		r.Get("/aggregate-data", ah.AggregateData)
		r.Get("/report", eh.Report)
		r.Get("/download-csv", eh.DownloadCSV)
		r.Post("/generator", gh.Control)
		r.Get(fmt.Sprintf("/{%s}", TransactionIDParam), th.GetByID)
	})
	return router
}

func transactionBody(id string, amount float64, state string) dtos.TransactionDTO {
	details := dtos.AmountDetailsDTO{TransactionAmount: amount, TransactionCurrency: "USD", Country: "US"}
	return dtos.TransactionDTO{
		TransactionID:            id,
		Type:                     "DEPOSIT",
		Timestamp:                1700000000000,
		OriginUserID:             "user1",
		DestinationUserID:        "user2",
		TransactionState:         state,
		OriginAmountDetails:      details,
		DestinationAmountDetails: details,
		Tags:                     []dtos.TagDTO{{Key: "test", Value: "true"}},
	}
}

func doJSON(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seedTwo(t *testing.T, router *chi.Mux) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/transaction", transactionBody("tx-a", 100, "SUCCESSFUL"))
	require.Equal(t, http.StatusCreated, rec.Code)
	body := transactionBody("tx-b", 200, "DECLINED")
	body.Tags = []dtos.TagDTO{{Key: "sample", Value: "true"}}
	rec = doJSON(t, router, http.MethodPost, "/transaction", body)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateTransactionEndpoint(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/transaction", transactionBody("tx-1", 99.5, "CREATED"))
		require.Equal(t, http.StatusCreated, rec.Code)

		var created dtos.CreatedDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "tx-1", created.TransactionID)
	})

	t.Run("duplicate id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/transaction", transactionBody("tx-1", 10, "CREATED"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid enum", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/transaction", transactionBody("tx-2", 10, "NOT_A_STATE"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/transaction", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetTransactionEndpoint(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())
	seedTwo(t, router)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/tx-a", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var tx dtos.TransactionDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tx))
		assert.Equal(t, "tx-a", tx.TransactionID)
		assert.Equal(t, float64(100), tx.OriginAmountDetails.TransactionAmount)
	})

	t.Run("missing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/nope", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Transaction not found", body["error"])
	})
}

func TestSearchTransactionEndpoint(t *testing.T) {
	repo := dbrepositories.NewMemoryTransactionRepository()
	router := newTestRouter(repo)
	seedTwo(t, router)

	t.Run("metadata reflects the page window", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction?limit=1&page=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.SearchResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(2), body.Metadata.TotalTransactions)
		assert.Equal(t, 2, body.Metadata.TotalPages)
		assert.Equal(t, 2, body.Metadata.CurrentPage)
		assert.Equal(t, 1, body.Metadata.PageSize)
		require.Len(t, body.Transactions, 1)
	})

	t.Run("filter narrows the result", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction?state=DECLINED", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.SearchResponseDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Transactions, 1)
		assert.Equal(t, "tx-b", body.Transactions[0].TransactionID)
	})

	t.Run("malformed filter is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction?amountGte=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProjectionEndpoints(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())

	t.Run("amount range on an empty store", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/amount-range", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	seedTwo(t, router)

	t.Run("amount range", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/amount-range", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.AmountRangeDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(200), body.MaxAmount)
		assert.Equal(t, float64(100), body.MinAmount)
	})

	t.Run("tags", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/tags", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var keys []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
		assert.ElementsMatch(t, []string{"test", "sample"}, keys)
	})

	t.Run("user id list", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/user-id-list", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var ids []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))
		assert.ElementsMatch(t, []string{"user1", "user2"}, ids)
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())
	seedTwo(t, router)

	// Seeded timestamps are 1700000000000 (2023-11-14T22:13:20Z).
	window := "startDate=2023-11-14&endDate=2023-11-15"

	t.Run("aggregate data", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/aggregate-data?"+window, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.AggregateDataDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, float64(300), body.TotalAmountInUSD)
		assert.Equal(t, int64(1), body.SuccessfulCount)
		assert.Equal(t, int64(1), body.DeclinedCount)
	})

	t.Run("graph data is dense over the window", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/graph-data?"+window+"&bucketMinutes=60", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.GraphDataDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body.GraphData, 25)
		assert.Equal(t, float64(300), body.MinAmount)
		assert.Equal(t, float64(300), body.MaxAmount)

		var total float64
		for _, p := range body.GraphData {
			total += p.Amount
		}
		assert.Equal(t, float64(300), total)
	})

	t.Run("reversed window is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/graph-data?startDate=2023-11-15&endDate=2023-11-14", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid bucketMinutes is a 400", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/graph-data?bucketMinutes=0", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExportEndpoints(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())
	seedTwo(t, router)

	t.Run("csv download", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/download-csv", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "transactions.csv")

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[0], "transactionId,type,timestamp"))
		assert.Contains(t, rec.Body.String(), "tx-a")
		assert.Contains(t, rec.Body.String(), "test=true")
	})

	t.Run("json report", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/report?startDate=2023-11-14&endDate=2023-11-15", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.ReportDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, int64(2), body.Metadata.TotalTransactions)
		assert.Equal(t, float64(300), body.Aggregate.TotalAmountInUSD)
		assert.NotEmpty(t, body.Graph.GraphData)
	})

	t.Run("pdf report", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/transaction/report?format=pdf", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	})
}

func TestGeneratorEndpoint(t *testing.T) {
	router := newTestRouter(dbrepositories.NewMemoryTransactionRepository())

	t.Run("start then stop", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/transaction/generator", generatorAction{Action: "start"})
		require.Equal(t, http.StatusOK, rec.Code)

		var body dtos.MessageDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Generator started", body.Message)

		rec = doJSON(t, router, http.MethodPost, "/transaction/generator", generatorAction{Action: "start"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Generator is already running", body.Message)

		rec = doJSON(t, router, http.MethodPost, "/transaction/generator", generatorAction{Action: "stop"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Generator stopped", body.Message)
	})

	t.Run("invalid action", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/transaction/generator", generatorAction{Action: "pause"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid action", body["error"])
	})
}
