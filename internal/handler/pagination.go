package handler

import (
	"net/url"
	"strconv"

	apperrors "github.com/questionhub/qa-server-go/internal/errors"
	"github.com/questionhub/qa-server-go/internal/model"
)

// ExtractPagination reads limit and offset from the query. Both must be
// present and be non-negative integers.
func ExtractPagination(query url.Values) (model.Pagination, error) {
	if !query.Has("limit") || !query.Has("offset") {
		return model.Pagination{}, apperrors.MissingParameters()
	}

	limit, err := parseNonNegative(query.Get("limit"), "limit")
	if err != nil {
		return model.Pagination{}, err
	}
	offset, err := parseNonNegative(query.Get("offset"), "offset")
	if err != nil {
		return model.Pagination{}, err
	}

	return model.Pagination{Limit: &limit, Offset: offset}, nil
}

// paginationFromQuery returns an unbounded page when neither key is set and
// defers to ExtractPagination otherwise.
func paginationFromQuery(query url.Values) (model.Pagination, error) {
	if !query.Has("limit") && !query.Has("offset") {
		return model.Pagination{Limit: nil, Offset: 0}, nil
	}
	return ExtractPagination(query)
}

func parseNonNegative(raw, param string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.ParseError(param, err)
	}
	if n < 0 {
		return 0, apperrors.ParseError(param, strconv.ErrRange)
	}
	return n, nil
}
