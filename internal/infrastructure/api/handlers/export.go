package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/query"
	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
)

var csvHeader = []string{
	"transactionId", "type", "timestamp", "originUserId", "destinationUserId",
	"transactionState", "originAmount", "originCurrency", "destinationAmount",
	"destinationCurrency", "promotionCodeUsed", "reference", "description", "tags",
}

// ExportHandler serves the CSV download and the combined report, both over
// the same filter parameters as search.
type ExportHandler struct {
	transactions  *interactor.TransactionInteractor
	analytics     *interactor.AnalyticsInteractor
	defaultWindow time.Duration
	defaultBucket time.Duration
	logger        *zerolog.Logger
}

func NewExportHandler(transactions *interactor.TransactionInteractor, analytics *interactor.AnalyticsInteractor, defaultWindow, defaultBucket time.Duration) *ExportHandler {
	logger := log.GetLogger()
	return &ExportHandler{
		transactions:  transactions,
		analytics:     analytics,
		defaultWindow: defaultWindow,
		defaultBucket: defaultBucket,
		logger:        &logger,
	}
}

// DownloadCSV handles GET /transaction/download-csv. The full filtered result
// set is streamed, unpaged.
func (h *ExportHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	filter, err := query.ParseFilter(r.URL.Query())
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	txs, err := h.transactions.SearchAll(r.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToSearchTransactions)
		errors.HandleHTTPError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)

	writer := csv.NewWriter(w)
	writer.Write(csvHeader)
	for i := range txs {
		writer.Write(csvRecord(&txs[i]))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream csv")
	}
}

// Report handles GET /transaction/report: a combined search + graph +
// aggregate view of one query. format=pdf streams a rendered document,
// anything else returns JSON.
func (h *ExportHandler) Report(w http.ResponseWriter, r *http.Request) {
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
	window, err := resolveWindow(r.URL.Query(), time.Now(), h.defaultWindow, h.defaultBucket)
	if err != nil {
		errors.HandleHTTPError(w, err)
		return
	}

	search, err := h.transactions.Search(r.Context(), filter, page)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToRenderReport)
		errors.HandleHTTPError(w, err)
		return
	}
	graph, err := h.analytics.GraphData(r.Context(), window)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToRenderReport)
		errors.HandleHTTPError(w, err)
		return
	}
	aggregate, err := h.analytics.Aggregate(r.Context(), window)
	if err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedToRenderReport)
		errors.HandleHTTPError(w, err)
		return
	}

	report := dtos.ReportDTO{
		Metadata: dtos.SearchMetadataDTO{
			TotalTransactions: search.TotalMatches,
			TotalPages:        search.TotalPages,
			CurrentPage:       search.Page,
			PageSize:          search.PageSize,
		},
		Transactions: dtos.FromTransactions(search.Items),
		Graph:        toGraphDTO(graph),
		Aggregate:    toAggregateDTO(aggregate),
	}

	if r.URL.Query().Get("format") == "pdf" {
		h.renderPDF(w, &report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ExportHandler) renderPDF(w http.ResponseWriter, report *dtos.ReportDTO) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Transaction Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total transactions: %d", report.Metadata.TotalTransactions))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Total amount (USD): %.2f", report.Aggregate.TotalAmountInUSD))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Successful: %d, Declined: %d", report.Aggregate.SuccessfulCount, report.Aggregate.DeclinedCount))
	pdf.Ln(10)

	header := []string{"Transaction ID", "Type", "State", "Amount", "Currency", "Timestamp"}
	widths := []float64{80, 30, 30, 30, 25, 50}

	pdf.SetFont("Helvetica", "B", 9)
	for i, col := range header {
		pdf.CellFormat(widths[i], 7, col, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, tx := range report.Transactions {
		cells := []string{
			tx.TransactionID,
			tx.Type,
			tx.TransactionState,
			strconv.FormatFloat(tx.OriginAmountDetails.TransactionAmount, 'f', 2, 64),
			tx.OriginAmountDetails.TransactionCurrency,
			time.UnixMilli(tx.Timestamp).UTC().Format(time.RFC3339),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="report.pdf"`)
	if err := pdf.Output(w); err != nil {
		h.logger.Error().Err(err).Msg("failed to stream pdf")
	}
}

func csvRecord(tx *models.Transaction) []string {
	tags := make([]string, 0, len(tx.Tags))
	for _, tag := range tx.Tags {
		tags = append(tags, fmt.Sprintf("%s=%s", tag.Key, tag.Value))
	}
	return []string{
		tx.TransactionID,
		string(tx.Type),
		strconv.FormatInt(tx.Timestamp, 10),
		tx.OriginUserID,
		tx.DestinationUserID,
		string(tx.State),
		tx.OriginAmountDetails.Amount.StringFixed(2),
		string(tx.OriginAmountDetails.Currency),
		tx.DestinationAmountDetails.Amount.StringFixed(2),
		string(tx.DestinationAmountDetails.Currency),
		strconv.FormatBool(tx.PromotionCodeUsed),
		tx.Reference,
		tx.Description,
		strings.Join(tags, ";"),
	}
}
