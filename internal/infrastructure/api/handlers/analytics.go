package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/rs/zerolog"
)

type AnalyticsHandler struct {
	interactor    *interactor.AnalyticsInteractor
	defaultWindow time.Duration
	defaultBucket time.Duration
	logger        *zerolog.Logger
}

func NewAnalyticsHandler(interactor *interactor.AnalyticsInteractor, defaultWindow, defaultBucket time.Duration) *AnalyticsHandler {
	logger := log.GetLogger()
	return &AnalyticsHandler{
		interactor:    interactor,
		defaultWindow: defaultWindow,
		defaultBucket: defaultBucket,
		logger:        &logger,
	}
}

// GraphData handles GET /transaction/graph-data.
func (h *AnalyticsHandler) GraphData(w http.ResponseWriter, r *http.Request) {
	window, err := resolveWindow(r.URL.Query(), time.Now(), h.defaultWindow, h.defaultBucket)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	result, err := h.interactor.GraphData(r.Context(), window)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToBuildGraphData)
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toGraphDTO(result))
}

// AggregateData handles GET /transaction/aggregate-data.
func (h *AnalyticsHandler) AggregateData(w http.ResponseWriter, r *http.Request) {
	window, err := resolveWindow(r.URL.Query(), time.Now(), h.defaultWindow, h.defaultBucket)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	result, err := h.interactor.Aggregate(r.Context(), window)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToAggregateTransactions)
		errors.HandleHTTPError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAggregateDTO(result))
}

// resolveWindow builds the aggregation window from startDate/endDate/
// bucketMinutes parameters, defaulting to the configured window ending now.
func resolveWindow(values url.Values, now time.Time, defaultWindow, defaultBucket time.Duration) (interactor.Window, error) {
	filter, err := query.ParseFilter(values)
	if err != nil {
		return interactor.Window{}, err
	}

	endMs := now.UnixMilli()
	if filter.EndMs != nil {
		endMs = *filter.EndMs
	}
	startMs := endMs - defaultWindow.Milliseconds()
	if filter.StartMs != nil {
		startMs = *filter.StartMs
	}
	if startMs > endMs {
		return interactor.Window{}, errors.NewValidationError("startDate must not be after endDate")
	}

	bucketMs := defaultBucket.Milliseconds()
	if v := values.Get("bucketMinutes"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 1 {
			return interactor.Window{}, errors.NewValidationErrorf("invalid bucketMinutes %q", v)
		}
		bucketMs = int64(minutes) * time.Minute.Milliseconds()
	}

	return interactor.Window{StartMs: startMs, EndMs: endMs, BucketMs: bucketMs}, nil
}

func toGraphDTO(result *interactor.GraphResult) dtos.GraphDataDTO {
	points := make([]dtos.GraphPointDTO, 0, len(result.Points))
	for _, p := range result.Points {
		points = append(points, dtos.GraphPointDTO{
			Timestamp: p.TimestampMs,
			Amount:    p.Amount.InexactFloat64(),
		})
	}
	return dtos.GraphDataDTO{
		GraphData: points,
		MinAmount: result.Min.InexactFloat64(),
		MaxAmount: result.Max.InexactFloat64(),
	}
}

func toAggregateDTO(result *interactor.AggregateResult) dtos.AggregateDataDTO {
	return dtos.AggregateDataDTO{
		TotalAmountInUSD: result.TotalUSD.InexactFloat64(),
		SuccessfulCount:  result.SuccessfulCount,
		DeclinedCount:    result.DeclinedCount,
	}
}
