package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeIllegalTransition, http.StatusUnprocessableEntity},
		{ErrCodeSequenceExhausted, http.StatusUnprocessableEntity},
		{ErrCodeInvalidCurrency, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{"ERR_SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GetHTTPStatus(tt.code), tt.code)
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domainCode string
		want       string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ILLEGAL_TRANSITION", ErrCodeIllegalTransition},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"INVALID_CURRENCY", ErrCodeInvalidCurrency},
		{"SEQUENCE_EXHAUSTED", ErrCodeSequenceExhausted},
		{ErrCodeBadRequest, ErrCodeBadRequest},
		{"CUSTOM_CODE", "CUSTOM_CODE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeErrorCode(tt.domainCode), tt.domainCode)
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 45, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "currency", Message: "Unsupported currency code"},
	})

	assert.False(t, resp.Success)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 1)
}
