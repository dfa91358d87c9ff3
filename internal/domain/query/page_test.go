package query

import (
	"net/url"
	"testing"

	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p, err := ParsePage(url.Values{})
		require.NoError(t, err)
		assert.Equal(t, DefaultPage, p.Number)
		assert.Equal(t, DefaultLimit, p.Size)
		assert.Equal(t, SortByTimestamp, p.SortBy)
		assert.Equal(t, SortAsc, p.Order)
	})

	t.Run("explicit values", func(t *testing.T) {
		p, err := ParsePage(url.Values{
			"page":      {"3"},
			"limit":     {"25"},
			"sortBy":    {"originAmountDetails.transactionAmount"},
			"sortOrder": {"desc"},
		})
		require.NoError(t, err)
		assert.Equal(t, 3, p.Number)
		assert.Equal(t, 25, p.Size)
		assert.Equal(t, SortDesc, p.Order)
		assert.Equal(t, 50, p.Offset())
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		for name, values := range map[string]url.Values{
			"non-numeric page":  {"page": {"one"}},
			"zero page":         {"page": {"0"}},
			"negative limit":    {"limit": {"-5"}},
			"unsortable field":  {"sortBy": {"description"}},
			"unknown direction": {"sortOrder": {"up"}},
		} {
			_, err := ParsePage(values)
			var validationErr *apperrors.ValidationError
			require.ErrorAs(t, err, &validationErr, name)
		}
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 4, TotalPages(100, 30))
}
