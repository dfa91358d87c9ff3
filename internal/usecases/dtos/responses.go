package dtos

// SearchMetadataDTO describes the page window of a search response.
type SearchMetadataDTO struct {
	TotalTransactions int64 `json:"totalTransactions"`
	TotalPages        int   `json:"totalPages"`
	CurrentPage       int   `json:"currentPage"`
	PageSize          int   `json:"pageSize"`
}

// SearchResponseDTO is the body of GET /transaction.
type SearchResponseDTO struct {
	Metadata     SearchMetadataDTO `json:"metadata"`
	Transactions []TransactionDTO  `json:"transactions"`
}

// AmountRangeDTO is the body of GET /transaction/amount-range.
type AmountRangeDTO struct {
	MaxAmount float64 `json:"maxAmount"`
	MinAmount float64 `json:"minAmount"`
}

// GraphPointDTO is one dense bucket of GET /transaction/graph-data.
type GraphPointDTO struct {
	Timestamp int64   `json:"timestamp"`
	Amount    float64 `json:"amount"`
}

// GraphDataDTO is the body of GET /transaction/graph-data.
type GraphDataDTO struct {
	GraphData []GraphPointDTO `json:"graphData"`
	MinAmount float64         `json:"minAmount"`
	MaxAmount float64         `json:"maxAmount"`
}

// AggregateDataDTO is the body of GET /transaction/aggregate-data.
type AggregateDataDTO struct {
	TotalAmountInUSD float64 `json:"totalAmountInUSD"`
	SuccessfulCount  int64   `json:"successfulCount"`
	DeclinedCount    int64   `json:"declinedCount"`
}

// ReportDTO combines search, graph and aggregate outputs of one query.
type ReportDTO struct {
	Metadata     SearchMetadataDTO `json:"metadata"`
	Transactions []TransactionDTO  `json:"transactions"`
	Graph        GraphDataDTO      `json:"graph"`
	Aggregate    AggregateDataDTO  `json:"aggregate"`
}

// CreatedDTO is the body of a successful POST /transaction.
type CreatedDTO struct {
	TransactionID string `json:"transactionId"`
}

// MessageDTO carries a human-readable status message.
type MessageDTO struct {
	Message string `json:"message"`
}
