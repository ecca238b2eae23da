// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package query builds SQL list queries from raw request parameters.

It is the generic feature pipeline applied uniformly across resource
collections: filter, free-text search, sort, field projection, and pagination.

Pipeline order:

  - Filter: equality/comparison predicates from non-reserved query keys.
  - Search: case-insensitive OR match over resource-specific text columns.
  - Sort: comma-delimited column list, '-' prefix for descending.
  - Fields: comma-delimited include (or '-'exclude) projection list.
  - Pagination: page/limit translated to LIMIT/OFFSET.

Every column reference is checked against an allow-list before it reaches the
SQL text, so arbitrary request keys can never inject identifiers. Values are
always bound as placeholders.
*/
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/souqly/backend/pkg/pagination"
)

// Reserved query keys consumed by the pipeline itself. Everything else is a
// candidate filter predicate.
var reservedKeys = map[string]bool{
	"page":    true,
	"limit":   true,
	"sort":    true,
	"fields":  true,
	"keyword": true,
}

// operatorKey matches the 'field[operator]=value' comparison convention.
var operatorKey = regexp.MustCompile(`^([a-z0-9_]+)\[(gte|gt|lte|lt)\]$`)

// operatorSQL maps the request-level operator keywords to SQL comparison operators.
var operatorSQL = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
}

// Options describes the queryable shape of one resource collection.
type Options struct {
	// Table is the fully qualified table name (e.g. "shop.product").
	Table string

	// Columns is the allow-list of filterable/sortable/projectable columns.
	Columns []string

	// SearchColumns is the resource-specific set of free-text search columns.
	SearchColumns []string

	// NumericColumns and BoolColumns declare which allow-listed columns
	// hold numbers or booleans. Filter values against them are converted
	// before binding; everything else binds as text.
	NumericColumns []string
	BoolColumns    []string

	// DefaultSort orders results when the request does not specify one.
	// Empty means storage (creation) order.
	DefaultSort string

	// DefaultLimit overrides [pagination.DefaultLimit] when positive.
	DefaultLimit int
}

// condition is a single bound predicate (column OP value).
type condition struct {
	column   string
	operator string
	value    any
}

// Spec is the composed query specification derived from a single request.
//
// It is constructed fresh per request by [Parse] and discarded after the
// response; it is not safe for reuse across requests.
type Spec struct {
	opts       Options
	conditions []condition
	keyword    string
	orderBy    string
	projection []string
	params     pagination.Params
}

// Parse derives a [Spec] from raw query parameters.
//
// Unknown or disallowed column names are silently dropped rather than
// rejected: a stray parameter must never turn into a 500 or reach SQL.
func Parse(values url.Values, opts Options) *Spec {
	spec := &Spec{opts: opts}

	spec.parseFilter(values)
	spec.keyword = strings.TrimSpace(values.Get("keyword"))
	spec.parseSort(values.Get("sort"))
	spec.parseFields(values.Get("fields"))

	spec.params = pagination.FromValues(values)
	if values.Get("limit") == "" && opts.DefaultLimit > 0 {
		spec.params.Limit = opts.DefaultLimit
	}

	return spec
}

// PreFilter adds a caller-imposed equality predicate (e.g. restricting a
// non-privileged caller to their own records). It bypasses the request
// parameters entirely but shares the same predicate builder, so count and
// fetch always agree on it.
func (s *Spec) PreFilter(column string, value any) *Spec {
	s.conditions = append(s.conditions, condition{column: column, operator: "=", value: value})
	return s
}

// Page returns the 1-indexed requested page.
func (s *Spec) Page() int { return s.params.Page }

// Limit returns the effective page size.
func (s *Spec) Limit() int { return s.params.Limit }

// CountSQL renders the total-count query over the filter+search predicate.
//
// It deliberately excludes sort, projection, and pagination: the contract is
// that the count reflects exactly the rows the fetch query would return
// without a LIMIT.
func (s *Spec) CountSQL() (string, []any) {
	var args []any
	where := s.whereClause(&args)
	return fmt.Sprintf(`SELECT COUNT(*) FROM %s%s`, s.opts.Table, where), args
}

// SelectSQL renders the page-fetch query: filter+search predicate plus
// ORDER BY, projection, LIMIT, and OFFSET.
//
// The WHERE clause is built by the same code path as [Spec.CountSQL]; the two
// executions are not transactionally atomic against concurrent writes, which
// makes pagination metadata advisory rather than exact.
func (s *Spec) SelectSQL() (string, []any) {
	var args []any
	where := s.whereClause(&args)

	columns := strings.Join(s.selectColumns(), ", ")

	var builder strings.Builder
	fmt.Fprintf(&builder, `SELECT %s FROM %s%s`, columns, s.opts.Table, where)

	if s.orderBy != "" {
		fmt.Fprintf(&builder, ` ORDER BY %s`, s.orderBy)
	}

	fmt.Fprintf(&builder, ` LIMIT %d OFFSET %d`, s.params.Limit, s.params.Offset())

	return builder.String(), args
}

// # Pipeline stages

// parseFilter extracts equality and comparison predicates from the raw
// parameters, stripping reserved keys and any column outside the allow-list.
func (s *Spec) parseFilter(values url.Values) {
	// url.Values is a map; sort the keys so the generated SQL (and its
	// placeholder numbering) is deterministic for a given request.
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reservedKeys[key] {
			continue
		}

		raw := values.Get(key)
		if raw == "" {
			continue
		}

		column, operator := key, "="
		if match := operatorKey.FindStringSubmatch(key); match != nil {
			column = match[1]
			operator = operatorSQL[match[2]]
		}

		if !s.allowed(column) {
			continue
		}

		s.conditions = append(s.conditions, condition{
			column:   column,
			operator: operator,
			value:    s.coerce(column, raw),
		})
	}
}

// parseSort translates "-price,name" into "price DESC, name ASC".
func (s *Spec) parseSort(raw string) {
	var parts []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		direction := "ASC"

		if strings.HasPrefix(field, "-") {
			field = field[1:]
			direction = "DESC"
		}

		if field == "" || !s.allowed(field) {
			continue
		}

		parts = append(parts, field+" "+direction)
	}

	if len(parts) > 0 {
		s.orderBy = strings.Join(parts, ", ")
		return
	}

	s.orderBy = s.opts.DefaultSort
}

// parseFields translates the include/exclude projection list.
//
// "name,price" keeps only those columns; "-description" keeps every allowed
// column except the excluded ones. The two forms do not mix: a single leading
// '-' switches the whole list to exclusion mode.
func (s *Spec) parseFields(raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}

	var include, exclude []string
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if strings.HasPrefix(field, "-") {
			exclude = append(exclude, field[1:])
			continue
		}
		if field != "" {
			include = append(include, field)
		}
	}

	if len(exclude) > 0 {
		excluded := make(map[string]bool, len(exclude))
		for _, field := range exclude {
			excluded[field] = true
		}
		for _, column := range s.opts.Columns {
			if !excluded[column] {
				s.projection = append(s.projection, column)
			}
		}
		return
	}

	for _, field := range include {
		if s.allowed(field) {
			s.projection = append(s.projection, field)
		}
	}
}

// selectColumns resolves the effective projection, falling back to the full
// allow-list when the request did not narrow it (or narrowed it to nothing).
func (s *Spec) selectColumns() []string {
	if len(s.projection) > 0 {
		return s.projection
	}
	return s.opts.Columns
}

// whereClause renders the shared filter+search predicate, appending bound
// values to args. Both CountSQL and SelectSQL call it, which is what
// guarantees the two executions agree.
func (s *Spec) whereClause(args *[]any) string {
	var parts []string

	for _, cond := range s.conditions {
		*args = append(*args, cond.value)
		parts = append(parts, fmt.Sprintf("%s %s $%d", cond.column, cond.operator, len(*args)))
	}

	if s.keyword != "" && len(s.opts.SearchColumns) > 0 {
		*args = append(*args, "%"+s.keyword+"%")
		placeholder := len(*args)

		var matches []string
		for _, column := range s.opts.SearchColumns {
			matches = append(matches, fmt.Sprintf("%s ILIKE $%d", column, placeholder))
		}
		parts = append(parts, "("+strings.Join(matches, " OR ")+")")
	}

	if len(parts) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(parts, " AND ")
}

// allowed reports whether column is in the collection's allow-list.
func (s *Spec) allowed(column string) bool {
	return contains(s.opts.Columns, column)
}

// coerce maps a raw filter value to the Go type Postgres should bind it as,
// driven by the column's declared type rather than by what the value looks
// like: "123" against a text column must stay text.
//
// A value that does not parse as the declared type binds as NULL, and a
// NULL comparison matches no rows, so a mistyped filter degrades to an
// empty result instead of a query error.
func (s *Spec) coerce(column, raw string) any {
	switch {
	case contains(s.opts.NumericColumns, column):
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
		return nil
	case contains(s.opts.BoolColumns, column):
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
		return nil
	default:
		return raw
	}
}

func contains(columns []string, column string) bool {
	for _, c := range columns {
		if c == column {
			return true
		}
	}
	return false
}
