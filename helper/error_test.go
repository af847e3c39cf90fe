package helper

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	t.Run("Wraps original error with trace", func(t *testing.T) {
		err := NewError("scan", sql.ErrNoRows)

		assert.Contains(t, err.Error(), sql.ErrNoRows.Error())
		assert.Contains(t, err.Error(), "Trace: scan")
		assert.ErrorIs(t, err, sql.ErrNoRows, "Expected errors.Is to see the original error")
	})

	t.Run("Appends trace instead of nesting", func(t *testing.T) {
		err := NewError("scan", fmt.Errorf("boom"))
		err = NewError("record occurrence", err)

		var traced Error
		assert.True(t, errors.As(err, &traced))
		assert.Equal(t, []string{"scan", "record occurrence"}, traced.Trace)
		assert.Equal(t, "boom | Trace: scan, record occurrence", err.Error())
	})
}
