package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
)

// Source provides the USD exchange rate for a currency. It is injected so
// the converter can be tested deterministically.
type Source interface {
	USDRate(ctx context.Context, currency models.Currency) (float64, error)
}

// HTTPSource fetches rates from an exchangerate-api compatible endpoint:
// GET {baseURL}/{currency} returns {"rates": {"USD": <rate>, ...}}.
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource builds a rate source with a per-call timeout.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

func (s *HTTPSource) USDRate(ctx context.Context, currency models.Currency) (float64, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rate for %s: %w", currency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service returned %d for %s", resp.StatusCode, currency)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rate response for %s: %w", currency, err)
	}

	rate, ok := body.Rates["USD"]
	if !ok {
		return 0, fmt.Errorf("no USD rate for %s", currency)
	}
	return rate, nil
}
