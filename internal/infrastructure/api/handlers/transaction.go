package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TransactionIDParam is the route parameter carrying a transaction id.
const TransactionIDParam = "transactionId"

type TransactionHandler struct {
	interactor *interactor.TransactionInteractor
	logger     *zerolog.Logger
}

func NewTransactionHandler(interactor *interactor.TransactionInteractor) *TransactionHandler {
	logger := log.GetLogger()
	return &TransactionHandler{interactor: interactor, logger: &logger}
}

// Create handles POST /transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto dtos.TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}

	id, err := h.interactor.Create(r.Context(), dto.ToModel())
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToCreateTransaction)
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.CreatedDTO{TransactionID: id})
}

// GetByID handles GET /transaction/{transactionId}.
func (h *TransactionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, TransactionIDParam)

	tx, err := h.interactor.GetByID(r.Context(), id)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.FromTransaction(tx))
}

// Search handles GET /transaction.
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseFilter(r.URL.Query())
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	page, err := query.ParsePage(r.URL.Query())
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	result, err := h.interactor.Search(r.Context(), filter, page)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToSearchTransactions)
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dtos.SearchResponseDTO{
		Metadata: dtos.SearchMetadataDTO{
			TotalTransactions: result.TotalMatches,
			TotalPages:        result.TotalPages,
			CurrentPage:       result.Page,
			PageSize:          result.PageSize,
		},
		Transactions: dtos.FromTransactions(result.Items),
	})
}

// Tags handles GET /transaction/tags.
func (h *TransactionHandler) Tags(w http.ResponseWriter, r *http.Request) {
	keys, err := h.interactor.ListTagKeys(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list tag keys")
		errors.HandleHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

// UserIDList handles GET /transaction/user-id-list.
func (h *TransactionHandler) UserIDList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.interactor.ListUserIDs(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list user ids")
		errors.HandleHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ids)
}

// AmountRange handles GET /transaction/amount-range.
func (h *TransactionHandler) AmountRange(w http.ResponseWriter, r *http.Request) {
	rng, err := h.interactor.AmountRange(r.Context())
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.AmountRangeDTO{
		MaxAmount: rng.Max.InexactFloat64(),
		MinAmount: rng.Min.InexactFloat64(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
