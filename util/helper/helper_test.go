package helper_util

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/roles?"+query, nil)
	return c
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
		err    error
	}{
		{"defaults", "", DefaultPageSize, 0, nil},
		{"explicit", "limit=10&offset=20", 10, 20, nil},
		{"clamped", "limit=10000", MaxPageSize, 0, nil},
		{"negative offset", "offset=-1", 0, 0, ta_errors.ErrInvalidPagination},
		{"not a number", "limit=ten", 0, 0, ta_errors.ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := GetPaginationParams(contextWithQuery(tt.query))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.limit, limit)
			assert.Equal(t, tt.offset, offset)
		})
	}
}

func TestParseNullableTime(t *testing.T) {
	got, err := ParseNullableTime(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseNullableTime("2024-03-01T10:00:00.123456789Z")
	require.NoError(t, err)
	assert.Equal(t, 123456789, got.Nanosecond())

	now := time.Now()
	got, err = ParseNullableTime(now)
	require.NoError(t, err)
	assert.True(t, now.Equal(*got))

	_, err = ParseNullableTime(42)
	assert.Error(t, err)
}
