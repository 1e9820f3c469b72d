package api

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "/api/movies", 1, defaultPageSize},
		{"explicit values", "/api/movies?page=3&page_size=5", 3, 5},
		{"page_size capped", "/api/movies?page_size=100", 1, maxPageSize},
		{"negative page", "/api/movies?page=-2", 1, defaultPageSize},
		{"zero page_size", "/api/movies?page_size=0", 1, defaultPageSize},
		{"garbage values", "/api/movies?page=abc&page_size=xyz", 1, defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			page, pageSize := parsePagination(req)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPageSize, pageSize)
		})
	}
}

func TestNewPagedResponse(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		resp := newPagedResponse(nil, 3, 1, 10)
		assert.Equal(t, 3, resp.Count)
		assert.Nil(t, resp.Previous)
		assert.Nil(t, resp.Next)
	})

	t.Run("first of many", func(t *testing.T) {
		resp := newPagedResponse(nil, 25, 1, 10)
		assert.Nil(t, resp.Previous)
		if assert.NotNil(t, resp.Next) {
			assert.Equal(t, 2, *resp.Next)
		}
	})

	t.Run("middle page", func(t *testing.T) {
		resp := newPagedResponse(nil, 25, 2, 10)
		if assert.NotNil(t, resp.Previous) {
			assert.Equal(t, 1, *resp.Previous)
		}
		if assert.NotNil(t, resp.Next) {
			assert.Equal(t, 3, *resp.Next)
		}
	})

	t.Run("last page", func(t *testing.T) {
		resp := newPagedResponse(nil, 25, 3, 10)
		if assert.NotNil(t, resp.Previous) {
			assert.Equal(t, 2, *resp.Previous)
		}
		assert.Nil(t, resp.Next)
	})
}
