// Copyright (c) 2026 Souqly. All rights reserved.

package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/pkg/pagination"
)

/*
TestNewMeta verifies the page arithmetic and the conditional presence of the
next/prev markers.
*/
func TestNewMeta(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		limit         int
		total         int
		numberOfPages int
		next          *int
		prev          *int
	}{
		{"middle_page", 3, 20, 95, 5, intPtr(4), intPtr(2)},
		{"first_page", 1, 20, 95, 5, intPtr(2), nil},
		{"last_page", 5, 20, 95, 5, nil, intPtr(4)},
		{"single_page", 1, 50, 10, 1, nil, nil},
		{"exact_boundary", 2, 10, 20, 2, nil, intPtr(1)},
		{"empty_result", 1, 20, 0, 0, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.page, tt.limit, tt.total)

			assert.Equal(t, tt.page, meta.CurrentPage)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.numberOfPages, meta.NumberOfPages)

			if tt.next == nil {
				assert.Nil(t, meta.Next)
			} else {
				require.NotNil(t, meta.Next)
				assert.Equal(t, *tt.next, *meta.Next)
			}

			if tt.prev == nil {
				assert.Nil(t, meta.Prev)
			} else {
				require.NotNil(t, meta.Prev)
				assert.Equal(t, *tt.prev, *meta.Prev)
			}
		})
	}
}

/*
TestFromValues checks clamping of invalid page/limit parameters.
*/
func TestFromValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		page  int
		limit int
	}{
		{"defaults", "", 1, 50},
		{"explicit", "page=3&limit=20", 3, 20},
		{"negative_page", "page=-1", 1, 50},
		{"zero_limit", "limit=0", 1, 50},
		{"excessive_limit", "limit=5000", 1, 50},
		{"garbage", "page=abc&limit=xyz", 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			params := pagination.FromValues(values)
			assert.Equal(t, tt.page, params.Page)
			assert.Equal(t, tt.limit, params.Limit)
		})
	}
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 20}.Offset())
	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 20}.Offset())
}

func intPtr(v int) *int { return &v }
