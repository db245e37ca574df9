package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/changetrack/internal/pkg/changetrack"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("id-1", "Test Product", "Description", "electronics", MustMoney(100, 1), time.Now())
	require.NoError(t, err)
	return p
}

func newTestTracker(t *testing.T, p *Product) *changetrack.Tracker[*Product] {
	t.Helper()
	tr := changetrack.New(Schema())
	require.NoError(t, tr.Add(p))
	return tr
}

func TestNewProduct(t *testing.T) {
	price := MustMoney(100, 1)
	now := time.Now()

	t.Run("valid product creation", func(t *testing.T) {
		p, err := NewProduct("id-1", "Test Product", "Description", "electronics", price, now)
		require.NoError(t, err)
		assert.Equal(t, "id-1", p.ID())
		assert.Equal(t, "Test Product", p.Name())
		assert.Equal(t, StatusInactive, p.Status())
		assert.Empty(t, p.Tags())
		assert.Empty(t, p.Images())
		assert.Equal(t, now, p.CreatedAt())
	})

	t.Run("empty name returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "", "Description", "electronics", price, now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("empty category returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "Test", "Description", "", price, now)
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("negative price returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "Test", "Description", "electronics", MustMoney(-100, 1), now)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("zero price returns error", func(t *testing.T) {
		_, err := NewProduct("id-1", "Test", "Description", "electronics", MustMoney(0, 1), now)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestProduct_Setters(t *testing.T) {
	p := newTestProduct(t)

	assert.ErrorIs(t, p.SetName(""), ErrEmptyName)
	assert.ErrorIs(t, p.SetCategory(""), ErrInvalidCategory)
	assert.ErrorIs(t, p.SetBasePrice(nil), ErrInvalidPrice)
	assert.ErrorIs(t, p.AddTags(" "), ErrEmptyTag)

	require.NoError(t, p.SetName("Renamed"))
	require.NoError(t, p.AddTags("Sale", "sale", "New "))
	assert.ElementsMatch(t, []string{"sale", "new"}, p.Tags())

	require.NoError(t, p.RemoveTag("SALE"))
	assert.Equal(t, []string{"new"}, p.Tags())
}

func TestProduct_ImagesAreCopied(t *testing.T) {
	p := newTestProduct(t)
	images := []string{"a.png", "b.png"}
	require.NoError(t, p.SetImages(images))

	images[0] = "changed.png"
	assert.Equal(t, []string{"a.png", "b.png"}, p.Images())

	got := p.Images()
	got[1] = "changed.png"
	assert.Equal(t, []string{"a.png", "b.png"}, p.Images())
}

func TestProduct_TrackedChanges(t *testing.T) {
	t.Run("fresh product is clean", func(t *testing.T) {
		p := newTestProduct(t)
		tr := newTestTracker(t, p)
		assert.False(t, tr.IsDirty(p))
	})

	t.Run("setters mark fields dirty", func(t *testing.T) {
		p := newTestProduct(t)
		tr := newTestTracker(t, p)

		require.NoError(t, p.SetName("Renamed"))
		require.NoError(t, p.Activate())
		require.NoError(t, p.AddTags("sale"))

		assert.Equal(t, []string{FieldName, FieldStatus, FieldTags}, changetrack.Names(tr.DirtyProperties(p)))
	})

	t.Run("equal price in another representation is not a change", func(t *testing.T) {
		p := newTestProduct(t)
		tr := newTestTracker(t, p)

		require.NoError(t, p.SetBasePrice(MustMoney(10000, 100)))
		assert.False(t, tr.IsDirty(p))

		require.NoError(t, p.SetBasePrice(MustMoney(101, 1)))
		assert.True(t, tr.IsDirty(p))
	})

	t.Run("tag order does not matter", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddTags("a", "b"))
		tr := newTestTracker(t, p)

		require.NoError(t, p.RemoveTag("a"))
		require.NoError(t, p.AddTags("a"))
		assert.False(t, tr.IsDirty(p))
	})

	t.Run("image order matters", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.SetImages([]string{"a.png", "b.png"}))
		tr := newTestTracker(t, p)

		require.NoError(t, p.SetImages([]string{"b.png", "a.png"}))
		assert.Equal(t, []string{FieldImages}, changetrack.Names(tr.DirtyProperties(p)))
	})

	t.Run("reject restores every field", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.AddTags("a"))
		require.NoError(t, p.SetImages([]string{"a.png"}))
		tr := newTestTracker(t, p)

		require.NoError(t, p.SetName("Renamed"))
		require.NoError(t, p.AddTags("b"))
		require.NoError(t, p.SetImages([]string{"x.png", "y.png"}))
		require.NoError(t, p.Archive(time.Now()))

		require.NoError(t, tr.RejectChanges(p))
		assert.False(t, tr.IsDirty(p))
		assert.Equal(t, "Test Product", p.Name())
		assert.Equal(t, []string{"a"}, p.Tags())
		assert.Equal(t, []string{"a.png"}, p.Images())
		assert.Equal(t, StatusInactive, p.Status())
		assert.Nil(t, p.ArchivedAt())
	})
}

func TestProduct_MarkPersisted(t *testing.T) {
	p := newTestProduct(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	p.MarkPersisted(4, at)
	assert.Equal(t, int64(4), p.Version())
	assert.Equal(t, at, p.UpdatedAt())
}

func TestReconstructProduct(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p := ReconstructProduct("id-9", "Lamp", "Desk lamp", "home", MustMoney(2999, 100),
		StatusActive, []string{"light"}, nil, 3, created, created, nil)

	assert.Equal(t, "id-9", p.ID())
	assert.Equal(t, int64(3), p.Version())
	assert.Equal(t, []string{"light"}, p.Tags())
	assert.NotNil(t, p.Images())
	assert.NoError(t, p.Validate())
}
