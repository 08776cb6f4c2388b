package utils

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("invoice %d not found", 7)))
	assert.Equal(t, KindConflict, KindOf(NewConflictError("already billed")))
	assert.Equal(t, KindAllocation, KindOf(NewAllocationError("exhausted", nil)))
	assert.Equal(t, KindPersistence, KindOf(fmt.Errorf("plain error")))

	// The kind survives wrapping.
	wrapped := errors.Wrap(NewConflictError("already billed"), "creating invoice")
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindConflict))
}

func TestMessageOfHidesInternalDetail(t *testing.T) {
	assert.Equal(t, "invoice 7 not found", MessageOf(NewNotFoundError("invoice %d not found", 7)))

	// Persistence errors never leak their cause to the client.
	err := NewPersistenceError("failed to create invoice", fmt.Errorf("pq: connection reset"))
	assert.Equal(t, "failed to create invoice", MessageOf(err))
	assert.Contains(t, err.Error(), "connection reset")

	assert.Equal(t, "internal error", MessageOf(fmt.Errorf("raw sql error")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewValidationError("bad")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NewNotFoundError("missing")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(NewConflictError("dup")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(NewAllocationError("busy", nil)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("boom")))
}

func TestMoneyHelpers(t *testing.T) {
	assert.Equal(t, 10.35, RoundMoney(10.346))
	assert.Equal(t, 10.34, RoundMoney(10.344))
	assert.True(t, MoneyEquals(0.1+0.2, 0.3))
	assert.False(t, MoneyEquals(10.00, 10.02))
	assert.True(t, MoneyGreater(10.02, 10.00))
	assert.False(t, MoneyGreater(10.005, 10.00))
}
