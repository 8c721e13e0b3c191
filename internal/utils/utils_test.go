package utils

import (
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/devtrack/internal/constants"
)

func TestGenerateStorageKey(t *testing.T) {
	key, err := GenerateStorageKey(42)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^entries/42/[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}$`), key)

	other, err := GenerateStorageKey(42)
	require.NoError(t, err)
	require.NotEqual(t, key, other)
}

func TestGetPaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query string
		want  PaginationParams
	}{
		{"", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"?page=3&limit=10", PaginationParams{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=1000", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
		{"?page=abc", PaginationParams{Page: 1, Limit: constants.DefaultPageSize, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/entries"+tt.query, nil)
			require.Equal(t, tt.want, GetPaginationParams(c))
		})
	}
}
