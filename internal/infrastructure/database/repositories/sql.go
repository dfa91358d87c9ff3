package repositories

import (
	"fmt"
	"strings"

	"github.com/avelinsk/txmon/internal/domain/query"
)

// tagKeyMatch matches transactions having at least one tag whose key is in
// the bound list.
const tagKeyMatch = `EXISTS (SELECT 1 FROM jsonb_array_elements(tags) AS t WHERE t->>'key' = ANY(%s))`

// tagKeyLike is the tag-key leg of the searchTerm disjunction.
const tagKeyLike = `EXISTS (SELECT 1 FROM jsonb_array_elements(tags) AS t WHERE t->>'key' ILIKE %s)`

// buildWhere compiles a query.Filter into a SQL WHERE clause with positional
// arguments. An open filter compiles to the empty string.
func buildWhere(f query.Filter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func(arg interface{}) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AmountGte != nil {
		clauses = append(clauses, "origin_amount >= "+next(*f.AmountGte))
	}
	if f.AmountLte != nil {
		clauses = append(clauses, "origin_amount <= "+next(*f.AmountLte))
	}
	if f.StartMs != nil {
		clauses = append(clauses, "timestamp_ms >= "+next(*f.StartMs))
	}
	if f.EndMs != nil {
		clauses = append(clauses, "timestamp_ms <= "+next(*f.EndMs))
	}
	if f.Description != "" {
		clauses = append(clauses, "description ILIKE "+next(likePattern(f.Description)))
	}
	if len(f.Types) > 0 {
		clauses = append(clauses, "type = ANY("+next(f.Types)+")")
	}
	if len(f.States) > 0 {
		clauses = append(clauses, "state = ANY("+next(f.States)+")")
	}
	if len(f.Currencies) > 0 {
		clauses = append(clauses, "origin_currency = ANY("+next(f.Currencies)+")")
	}
	if len(f.OriginUserIDs) > 0 {
		clauses = append(clauses, "origin_user_id = ANY("+next(f.OriginUserIDs)+")")
	}
	if len(f.DestinationUserIDs) > 0 {
		clauses = append(clauses, "destination_user_id = ANY("+next(f.DestinationUserIDs)+")")
	}
	if len(f.TagKeys) > 0 {
		clauses = append(clauses, fmt.Sprintf(tagKeyMatch, next(f.TagKeys)))
	}
	if f.SearchTerm != "" {
		placeholder := next(likePattern(f.SearchTerm))
		legs := []string{
			"type ILIKE " + placeholder,
			"transaction_id ILIKE " + placeholder,
			"origin_user_id ILIKE " + placeholder,
			"destination_user_id ILIKE " + placeholder,
			"state ILIKE " + placeholder,
			fmt.Sprintf(tagKeyLike, placeholder),
		}
		clauses = append(clauses, "("+strings.Join(legs, " OR ")+")")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// sortColumns maps allow-listed sort fields onto table columns. ParsePage
// rejects anything else before it reaches the store.
var sortColumns = map[string]string{
	query.SortByTimestamp:                   "timestamp_ms",
	"type":                                  "type",
	"transactionState":                      "state",
	"originUserId":                          "origin_user_id",
	"destinationUserId":                     "destination_user_id",
	"originAmountDetails.transactionAmount": "origin_amount",
}

// buildOrder compiles the resolved sort into an ORDER BY clause with a
// transaction_id tie-break so paging is deterministic.
func buildOrder(p query.Page) string {
	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "timestamp_ms"
	}
	dir := "ASC"
	if p.Order == query.SortDesc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s, transaction_id %s", column, dir, dir)
}

// likePattern wraps a raw term into a substring ILIKE pattern, escaping the
// LIKE metacharacters so caller input never acts as a wildcard.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}
