// Copyright (c) 2026 Souqly. All rights reserved.

package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/pkg/query"
)

func productOptions() query.Options {
	return query.Options{
		Table:          "shop.product",
		Columns:        []string{"id", "name", "slug", "description", "price", "quantity", "sold", "createdat"},
		SearchColumns:  []string{"name", "description"},
		NumericColumns: []string{"price", "quantity", "sold"},
		DefaultSort:    "createdat ASC",
	}
}

func parse(t *testing.T, rawQuery string, opts query.Options) *query.Spec {
	t.Helper()
	values, err := url.ParseQuery(rawQuery)
	require.NoError(t, err)
	return query.Parse(values, opts)
}

func TestSpec_Filter(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "equality",
			rawQuery: "name=keyboard",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE name = $1`,
			wantArgs: []any{"keyboard"},
		},
		{
			name:     "comparison_suffixes",
			rawQuery: "price[gte]=10&price[lt]=100",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE price >= $1 AND price < $2`,
			wantArgs: []any{10, 100},
		},
		{
			name:     "reserved_keys_stripped",
			rawQuery: "page=2&limit=10&sort=name&fields=name&keyword=",
			wantSQL:  `SELECT COUNT(*) FROM shop.product`,
			wantArgs: nil,
		},
		{
			name:     "unknown_column_dropped",
			rawQuery: "droptable=1&name=mouse",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE name = $1`,
			wantArgs: []any{"mouse"},
		},
		{
			name:     "numeric_coercion",
			rawQuery: "quantity=5",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE quantity = $1`,
			wantArgs: []any{5},
		},
		{
			// A numeric-looking value against a text column must stay text,
			// or Postgres rejects the comparison outright.
			name:     "numeric_looking_value_on_text_column",
			rawQuery: "name=123",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE name = $1`,
			wantArgs: []any{"123"},
		},
		{
			// A non-numeric value against a numeric column binds NULL, which
			// matches no rows instead of erroring the whole query.
			name:     "mistyped_numeric_filter_matches_nothing",
			rawQuery: "price=cheap",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE price = $1`,
			wantArgs: []any{nil},
		},
		{
			name:     "float_coercion",
			rawQuery: "price[lte]=19.99",
			wantSQL:  `SELECT COUNT(*) FROM shop.product WHERE price <= $1`,
			wantArgs: []any{19.99},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := parse(t, tt.rawQuery, productOptions())

			sql, args := spec.CountSQL()
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSpec_Search(t *testing.T) {
	spec := parse(t, "keyword=wireless", productOptions())

	sql, args := spec.CountSQL()
	assert.Equal(t, `SELECT COUNT(*) FROM shop.product WHERE (name ILIKE $1 OR description ILIKE $1)`, sql)
	assert.Equal(t, []any{"%wireless%"}, args)
}

func TestSpec_SearchColumnsAreResourceSpecific(t *testing.T) {
	opts := productOptions()
	opts.SearchColumns = []string{"name"}

	spec := parse(t, "keyword=desk", opts)
	sql, _ := spec.CountSQL()
	assert.Equal(t, `SELECT COUNT(*) FROM shop.product WHERE (name ILIKE $1)`, sql)
}

func TestSpec_Sort(t *testing.T) {
	tests := []struct {
		name      string
		rawQuery  string
		wantOrder string
	}{
		{"ascending", "sort=name", "ORDER BY name ASC"},
		{"descending", "sort=-price", "ORDER BY price DESC"},
		{"multi_column", "sort=-price,name", "ORDER BY price DESC, name ASC"},
		{"unknown_falls_back", "sort=nosuchcolumn", "ORDER BY createdat ASC"},
		{"default", "", "ORDER BY createdat ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := parse(t, tt.rawQuery, productOptions())
			sql, _ := spec.SelectSQL()
			assert.Contains(t, sql, tt.wantOrder)
		})
	}
}

func TestSpec_FieldProjection(t *testing.T) {
	t.Run("include_list", func(t *testing.T) {
		spec := parse(t, "fields=name,price", productOptions())
		sql, _ := spec.SelectSQL()
		assert.Contains(t, sql, "SELECT name, price FROM shop.product")
	})

	t.Run("exclude_list", func(t *testing.T) {
		spec := parse(t, "fields=-description,-sold", productOptions())
		sql, _ := spec.SelectSQL()
		assert.Contains(t, sql, "SELECT id, name, slug, price, quantity, createdat FROM shop.product")
	})

	t.Run("unknown_fields_fall_back_to_all", func(t *testing.T) {
		spec := parse(t, "fields=bogus", productOptions())
		sql, _ := spec.SelectSQL()
		assert.Contains(t, sql, "SELECT id, name, slug, description, price, quantity, sold, createdat FROM")
	})
}

func TestSpec_Pagination(t *testing.T) {
	spec := parse(t, "page=3&limit=20", productOptions())

	sql, _ := spec.SelectSQL()
	assert.Contains(t, sql, "LIMIT 20 OFFSET 40")
	assert.Equal(t, 3, spec.Page())
	assert.Equal(t, 20, spec.Limit())
}

func TestSpec_DefaultLimitOverride(t *testing.T) {
	opts := productOptions()
	opts.DefaultLimit = 25

	spec := parse(t, "", opts)
	assert.Equal(t, 25, spec.Limit())

	// An explicit limit still wins over the collection default.
	spec = parse(t, "limit=10", opts)
	assert.Equal(t, 10, spec.Limit())
}

// TestSpec_CountAndSelectShareThePredicate pins the core contract: the count
// query and the page-fetch query are built from the identical filter+search
// predicate, while sort/projection/pagination appear only in the fetch.
func TestSpec_CountAndSelectShareThePredicate(t *testing.T) {
	spec := parse(t, "price[gte]=10&keyword=desk&sort=-price&fields=name&page=2&limit=5", productOptions())

	countSQL, countArgs := spec.CountSQL()
	selectSQL, selectArgs := spec.SelectSQL()

	wantWhere := `WHERE price >= $1 AND (name ILIKE $2 OR description ILIKE $2)`
	assert.Contains(t, countSQL, wantWhere)
	assert.Contains(t, selectSQL, wantWhere)
	assert.Equal(t, countArgs, selectArgs)

	assert.NotContains(t, countSQL, "ORDER BY")
	assert.NotContains(t, countSQL, "LIMIT")
	assert.Contains(t, selectSQL, "ORDER BY price DESC")
	assert.Contains(t, selectSQL, "LIMIT 5 OFFSET 5")
}

func TestSpec_PreFilter(t *testing.T) {
	spec := parse(t, "keyword=cairo", query.Options{
		Table:         "shop.order",
		Columns:       []string{"id", "userid", "address", "totalprice", "createdat"},
		SearchColumns: []string{"address"},
	})
	spec.PreFilter("userid", "user-1")

	countSQL, countArgs := spec.CountSQL()
	selectSQL, selectArgs := spec.SelectSQL()

	assert.Contains(t, countSQL, `userid = $1`)
	assert.Contains(t, countSQL, `address ILIKE $2`)
	assert.Contains(t, selectSQL, `userid = $1`)
	assert.Equal(t, countArgs, selectArgs)
	assert.Equal(t, "user-1", countArgs[0])
}

func TestSpec_BoolCoercion(t *testing.T) {
	opts := query.Options{
		Table:       "shop.order",
		Columns:     []string{"id", "ispaid"},
		BoolColumns: []string{"ispaid"},
	}

	spec := parse(t, "ispaid=true", opts)
	sql, args := spec.CountSQL()
	assert.Equal(t, `SELECT COUNT(*) FROM shop.order WHERE ispaid = $1`, sql)
	assert.Equal(t, []any{true}, args)

	spec = parse(t, "ispaid=maybe", opts)
	_, args = spec.CountSQL()
	assert.Equal(t, []any{nil}, args)
}
