package query

import (
	"net/url"
	"strconv"

	apperrors "github.com/avelinsk/txmon/internal/errors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	SortByTimestamp = "timestamp"
)

// SortOrder is the ordering direction for a search.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sortable is the allow-list of fields a caller may order by. Anything else
// is rejected so arbitrary store paths can never reach a query.
var sortable = map[string]struct{}{
	SortByTimestamp:                         {},
	"type":                                  {},
	"transactionState":                      {},
	"originUserId":                          {},
	"destinationUserId":                     {},
	"originAmountDetails.transactionAmount": {},
}

// Page resolves page/limit/sortBy/sortOrder parameters into a deterministic
// window and ordering.
type Page struct {
	Number int
	Size   int
	SortBy string
	Order  SortOrder
}

// Offset returns the zero-based skip offset for the page window.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// ParsePage validates pagination parameters, applying defaults for absent
// ones. page and limit must be integers >= 1.
func ParsePage(values url.Values) (Page, error) {
	p := Page{
		Number: DefaultPage,
		Size:   DefaultLimit,
		SortBy: SortByTimestamp,
		Order:  SortAsc,
	}

	if v := values.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, apperrors.NewValidationErrorf("invalid page %q", v)
		}
		p.Number = n
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Page{}, apperrors.NewValidationErrorf("invalid limit %q", v)
		}
		p.Size = n
	}
	if v := values.Get("sortBy"); v != "" {
		if _, ok := sortable[v]; !ok {
			return Page{}, apperrors.NewValidationErrorf("unsortable field %q", v)
		}
		p.SortBy = v
	}
	if v := values.Get("sortOrder"); v != "" {
		switch SortOrder(v) {
		case SortAsc, SortDesc:
			p.Order = SortOrder(v)
		default:
			return Page{}, apperrors.NewValidationErrorf("invalid sortOrder %q", v)
		}
	}

	return p, nil
}

// TotalPages computes ceil(total/size). Size is guaranteed >= 1 by ParsePage.
func TotalPages(total int64, size int) int {
	if total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}
