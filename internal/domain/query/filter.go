package query

import (
	"net/url"
	"strings"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/shopspring/decimal"
)

// Filter is the store-agnostic predicate specification built from search
// query parameters. Every clause is optional; absent clauses impose no
// constraint. Clauses combine with logical AND, except the search term whose
// internal disjunction is AND'ed with the rest as one clause. Store adapters
// compile a Filter into their native query form.
type Filter struct {
	AmountGte          *decimal.Decimal
	AmountLte          *decimal.Decimal
	StartMs            *int64
	EndMs              *int64
	Description        string
	Types              []string
	States             []string
	TagKeys            []string
	Currencies         []string
	OriginUserIDs      []string
	DestinationUserIDs []string
	SearchTerm         string
}

// IsOpen reports whether the filter imposes no constraint at all.
func (f Filter) IsOpen() bool {
	return f.AmountGte == nil && f.AmountLte == nil &&
		f.StartMs == nil && f.EndMs == nil &&
		f.Description == "" && f.SearchTerm == "" &&
		len(f.Types) == 0 && len(f.States) == 0 && len(f.TagKeys) == 0 &&
		len(f.Currencies) == 0 && len(f.OriginUserIDs) == 0 && len(f.DestinationUserIDs) == 0
}

// ParseFilter builds a Filter from raw query parameters. Malformed numeric or
// date values are rejected instead of being coerced into NaN or zero times.
func ParseFilter(values url.Values) (Filter, error) {
	var f Filter

	if v := values.Get("amountGte"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Filter{}, apperrors.NewValidationErrorf("invalid amountGte %q", v)
		}
		f.AmountGte = &d
	}
	if v := values.Get("amountLte"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Filter{}, apperrors.NewValidationErrorf("invalid amountLte %q", v)
		}
		f.AmountLte = &d
	}

	if v := values.Get("startDate"); v != "" {
		ms, err := parseDateMs(v)
		if err != nil {
			return Filter{}, apperrors.NewValidationErrorf("invalid startDate %q", v)
		}
		f.StartMs = &ms
	}
	if v := values.Get("endDate"); v != "" {
		ms, err := parseDateMs(v)
		if err != nil {
			return Filter{}, apperrors.NewValidationErrorf("invalid endDate %q", v)
		}
		f.EndMs = &ms
	}

	f.Description = values.Get("description")
	f.SearchTerm = values.Get("searchTerm")
	f.Types = splitList(values.Get("type"))
	f.States = splitList(values.Get("state"))
	f.TagKeys = splitList(values.Get("tags"))
	f.Currencies = splitList(values.Get("currency"))
	f.OriginUserIDs = splitList(values.Get("originUserId"))
	f.DestinationUserIDs = splitList(values.Get("destinationUserId"))

	return f, nil
}

// Matches evaluates the filter against a transaction. This is the reference
// semantics the SQL compiler mirrors; the in-memory store uses it directly.
func (f Filter) Matches(tx *models.Transaction) bool {
	amount := tx.OriginAmountDetails.Amount
	if f.AmountGte != nil && amount.LessThan(*f.AmountGte) {
		return false
	}
	if f.AmountLte != nil && amount.GreaterThan(*f.AmountLte) {
		return false
	}
	if f.StartMs != nil && tx.Timestamp < *f.StartMs {
		return false
	}
	if f.EndMs != nil && tx.Timestamp > *f.EndMs {
		return false
	}
	if f.Description != "" && !containsFold(tx.Description, f.Description) {
		return false
	}
	if len(f.Types) > 0 && !inList(string(tx.Type), f.Types) {
		return false
	}
	if len(f.States) > 0 && !inList(string(tx.State), f.States) {
		return false
	}
	if len(f.Currencies) > 0 && !inList(string(tx.OriginAmountDetails.Currency), f.Currencies) {
		return false
	}
	if len(f.OriginUserIDs) > 0 && !inList(tx.OriginUserID, f.OriginUserIDs) {
		return false
	}
	if len(f.DestinationUserIDs) > 0 && !inList(tx.DestinationUserID, f.DestinationUserIDs) {
		return false
	}
	if len(f.TagKeys) > 0 && !anyTagKey(tx, f.TagKeys) {
		return false
	}
	if f.SearchTerm != "" && !matchesSearchTerm(tx, f.SearchTerm) {
		return false
	}
	return true
}

func matchesSearchTerm(tx *models.Transaction, term string) bool {
	if containsFold(string(tx.Type), term) ||
		containsFold(tx.TransactionID, term) ||
		containsFold(tx.OriginUserID, term) ||
		containsFold(tx.DestinationUserID, term) ||
		containsFold(string(tx.State), term) {
		return true
	}
	for _, tag := range tx.Tags {
		if containsFold(tag.Key, term) {
			return true
		}
	}
	return false
}

func anyTagKey(tx *models.Transaction, keys []string) bool {
	for _, tag := range tx.Tags {
		if inList(tag.Key, keys) {
			return true
		}
	}
	return false
}

func inList(v string, list []string) bool {
	for _, item := range list {
		if v == item {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDateMs(value string) (int64, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC().UnixMilli(), nil
		}
		lastErr = err
	}
	return 0, lastErr
}
