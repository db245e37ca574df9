package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestProductStateMachine verifies all valid and invalid state transitions.
func TestProductStateMachine(t *testing.T) {
	now := time.Now().UTC()
	price := MustMoney(10000, 100)

	// State transition matrix:
	// From\To    | Inactive | Active | Archived
	// -----------|----------|--------|----------
	// Inactive   | N/A      | ✓      | ✓
	// Active     | ✓        | N/A    | ✓
	// Archived   | ✗        | ✗      | N/A

	newProduct := func(t *testing.T) *Product {
		p, err := NewProduct("id-1", "Product", "Desc", "electronics", price, now)
		require.NoError(t, err)
		return p
	}

	t.Run("Inactive → Active: allowed", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Activate())
		assert.Equal(t, StatusActive, p.Status())
	})

	t.Run("Inactive → Inactive: rejected", func(t *testing.T) {
		p := newProduct(t)
		assert.ErrorIs(t, p.Deactivate(), ErrAlreadyInactive)
	})

	t.Run("Inactive → Archived: allowed", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Archive(now))
		assert.Equal(t, StatusArchived, p.Status())
		require.NotNil(t, p.ArchivedAt())
		assert.Equal(t, now, *p.ArchivedAt())
	})

	t.Run("Active → Inactive: allowed", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Activate())
		require.NoError(t, p.Deactivate())
		assert.Equal(t, StatusInactive, p.Status())
	})

	t.Run("Active → Active: rejected", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Activate())
		assert.ErrorIs(t, p.Activate(), ErrAlreadyActive)
	})

	t.Run("Active → Archived: allowed", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Activate())
		require.NoError(t, p.Archive(now))
		assert.True(t, p.IsArchived())
	})

	t.Run("Archived → anything: rejected", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Archive(now))

		assert.ErrorIs(t, p.Activate(), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.Deactivate(), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.Archive(now), ErrAlreadyArchived)
	})

	t.Run("Archived product rejects edits", func(t *testing.T) {
		p := newProduct(t)
		require.NoError(t, p.Archive(now))

		assert.ErrorIs(t, p.SetName("New"), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.SetDescription("New"), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.SetCategory("books"), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.SetBasePrice(MustMoney(1, 1)), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.AddTags("x"), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.RemoveTag("x"), ErrCannotModifyArchived)
		assert.ErrorIs(t, p.SetImages(nil), ErrCannotModifyArchived)
	})
}
