package handler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
)

func TestExtractPagination(t *testing.T) {
	t.Run("parses both values", func(t *testing.T) {
		page, err := ExtractPagination(url.Values{"limit": {"10"}, "offset": {"5"}})
		require.NoError(t, err)
		require.NotNil(t, page.Limit)
		assert.Equal(t, 10, *page.Limit)
		assert.Equal(t, 5, page.Offset)
	})

	tests := []struct {
		name  string
		query url.Values
		code  apperrors.ErrorCode
	}{
		{name: "missing offset", query: url.Values{"limit": {"10"}}, code: apperrors.ErrCodeMissingParameters},
		{name: "missing limit", query: url.Values{"offset": {"0"}}, code: apperrors.ErrCodeMissingParameters},
		{name: "non-numeric limit", query: url.Values{"limit": {"ten"}, "offset": {"0"}}, code: apperrors.ErrCodeParse},
		{name: "negative offset", query: url.Values{"limit": {"1"}, "offset": {"-1"}}, code: apperrors.ErrCodeParse},
		{name: "empty value", query: url.Values{"limit": {""}, "offset": {"0"}}, code: apperrors.ErrCodeParse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractPagination(tc.query)
			assert.Equal(t, tc.code, apperrors.GetCode(err))
		})
	}

	t.Run("parse error names the parameter", func(t *testing.T) {
		_, err := ExtractPagination(url.Values{"limit": {"1"}, "offset": {"x"}})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, map[string]string{"parameter": "offset"}, appErr.Details)
	})
}

func TestPaginationFromQuery(t *testing.T) {
	page, err := paginationFromQuery(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, page.Limit)
	assert.Equal(t, 0, page.Offset)

	_, err = paginationFromQuery(url.Values{"limit": {"3"}})
	assert.Equal(t, apperrors.ErrCodeMissingParameters, apperrors.GetCode(err))
}
