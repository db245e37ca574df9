package changetrack

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_UnorderedComparison(t *testing.T) {
	tests := []struct {
		name  string
		mut   []int
		dirty bool
	}{
		{name: "same order", mut: []int{1, 2, 3}, dirty: false},
		{name: "reordered", mut: []int{3, 1, 2}, dirty: false},
		{name: "duplicate replaces value", mut: []int{1, 2, 2}, dirty: true},
		{name: "shorter", mut: []int{1, 2}, dirty: true},
		{name: "longer", mut: []int{1, 2, 3, 3}, dirty: true},
		{name: "different value", mut: []int{1, 2, 4}, dirty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(NewSchema(labelsProp))
			a := newAccount("A")
			require.NoError(t, tr.Add(a))

			a.Labels.Clear()
			a.Labels.Add(tt.mut...)
			assert.Equal(t, tt.dirty, tr.IsDirty(a))
		})
	}
}

func TestCollection_UnorderedDuplicateCounts(t *testing.T) {
	tr := New(NewSchema(labelsProp))
	a := newAccount("A")
	a.Labels = NewBag(1, 1, 2)
	require.NoError(t, tr.Add(a))

	a.Labels.Clear()
	a.Labels.Add(2, 1, 1)
	assert.False(t, tr.IsDirty(a))

	a.Labels.Clear()
	a.Labels.Add(1, 2, 2)
	assert.True(t, tr.IsDirty(a), "same distinct values with different counts")
}

func TestCollection_OrderedComparison(t *testing.T) {
	tr := New(NewSchema(scoresProp))
	a := newAccount("A")
	require.NoError(t, tr.Add(a))

	a.Scores[0], a.Scores[2] = 3, 1
	assert.True(t, tr.IsDirty(a), "reordering an ordered collection is a change")

	a.Scores[0], a.Scores[2] = 1, 3
	assert.False(t, tr.IsDirty(a))
}

func TestCollection_SnapshotIsACopy(t *testing.T) {
	tr := New(NewSchema(scoresProp))
	a := newAccount("A")
	require.NoError(t, tr.Add(a))

	a.Scores[1] = 20
	require.NoError(t, tr.RejectChanges(a))
	assert.Equal(t, []int{1, 2, 3}, a.Scores)
}

func TestCollection_ContainerInstance(t *testing.T) {
	t.Run("new container with equal contents is a change", func(t *testing.T) {
		tr := New(NewSchema(labelsProp))
		a := newAccount("A")
		original := a.Labels
		require.NoError(t, tr.Add(a))

		a.Labels = NewBag(1, 2, 3)
		assert.True(t, tr.IsDirty(a))

		require.NoError(t, tr.RejectChanges(a))
		assert.Same(t, original, a.Labels)
		assert.False(t, tr.IsDirty(a))
	})

	t.Run("without instance only contents count", func(t *testing.T) {
		labels := CollectionField("Labels",
			func(a *account) *Bag[int] { return a.Labels },
			func(a *account, v *Bag[int]) { a.Labels = v },
			WithoutInstance())
		tr := New(NewSchema(labels))
		a := newAccount("A")
		require.NoError(t, tr.Add(a))

		replacement := NewBag(3, 2, 1)
		a.Labels = replacement
		assert.False(t, tr.IsDirty(a))

		replacement.Add(4)
		require.NoError(t, tr.RejectChanges(a))
		assert.Same(t, replacement, a.Labels, "contents are restored into the live container")
		assert.ElementsMatch(t, []int{1, 2, 3}, a.Labels.Values())
	})
}

func TestCollection_RestoreFailures(t *testing.T) {
	slots := CollectionField("Slots",
		func(a *account) *Array[int] { return a.Slots },
		func(a *account, v *Array[int]) { a.Slots = v },
		WithoutInstance())
	labels := CollectionField("Labels",
		func(a *account) *Bag[int] { return a.Labels },
		func(a *account, v *Bag[int]) { a.Labels = v },
		WithoutInstance())
	scores := CollectionField("Scores",
		func(a *account) []int { return a.Scores },
		func(a *account, v []int) { a.Scores = v },
		WithoutInstance())

	t.Run("fixed size mismatch", func(t *testing.T) {
		tr := New(NewSchema(slots))
		a := newAccount("A")
		a.Slots = NewArray(1, 2, 3)
		require.NoError(t, tr.Add(a))

		a.Slots = NewArray(7, 8)
		err := tr.RejectChanges(a)
		assert.ErrorIs(t, err, ErrFixedSizeMismatch)
		assert.Equal(t, []int{7, 8}, a.Slots.Values())
	})

	t.Run("fixed size with matching length is overwritten in place", func(t *testing.T) {
		tr := New(NewSchema(slots))
		a := newAccount("A")
		a.Slots = NewArray(1, 2, 3)
		require.NoError(t, tr.Add(a))

		live := NewArray(3, 2, 1)
		a.Slots = live
		assert.True(t, tr.IsDirty(a))

		require.NoError(t, tr.RejectChanges(a))
		assert.Same(t, live, a.Slots)
		assert.Equal(t, []int{1, 2, 3}, live.Values())
	})

	t.Run("read only container", func(t *testing.T) {
		tr := New(NewSchema(labels))
		a := newAccount("A")
		require.NoError(t, tr.Add(a))

		a.Labels.Add(4)
		a.Labels.Freeze()
		err := tr.RejectChanges(a)
		assert.ErrorIs(t, err, ErrReadOnlyContainer)
		assert.Equal(t, []int{1, 2, 3, 4}, a.Labels.Values())
	})

	t.Run("no container instance", func(t *testing.T) {
		tr := New(NewSchema(scores))
		a := newAccount("A")
		require.NoError(t, tr.Add(a))

		a.Scores = nil
		assert.True(t, tr.IsDirty(a))

		err := tr.RejectChanges(a)
		assert.ErrorIs(t, err, ErrNoContainerInstance)
		assert.Contains(t, err.Error(), "Scores")
		assert.Nil(t, a.Scores)
	})

	t.Run("stored instance is validated before it is written back", func(t *testing.T) {
		tr := New(NewSchema(labelsProp))
		a := newAccount("A")
		original := a.Labels
		require.NoError(t, tr.Add(a))

		original.Add(9)
		original.Freeze()
		replacement := NewBag(5)
		a.Labels = replacement

		err := tr.RejectChanges(a)
		assert.ErrorIs(t, err, ErrReadOnlyContainer)
		assert.Same(t, replacement, a.Labels)
	})
}

func TestCollection_ElementComparers(t *testing.T) {
	type tag struct {
		Name string
	}
	type post struct {
		Tags *Bag[tag]
	}

	byName := KeyFunc(func(tg tag) string { return strings.ToLower(tg.Name) })
	tags := CollectionField("Tags",
		func(p *post) *Bag[tag] { return p.Tags },
		func(p *post, v *Bag[tag]) { p.Tags = v },
		WithComparer(byName))

	tr := New(NewSchema(tags))
	p := &post{Tags: NewBag(tag{"Go"}, tag{"DB"})}
	require.NoError(t, tr.Add(p))

	p.Tags.Clear()
	p.Tags.Add(tag{"db"}, tag{"GO"})
	assert.False(t, tr.IsDirty(p))

	p.Tags.Add(tag{"go"})
	assert.True(t, tr.IsDirty(p))
}

func TestCollection_UnhashableElements(t *testing.T) {
	type post struct {
		Matrix *Bag[[]int]
	}
	matrix := CollectionField("Matrix",
		func(p *post) *Bag[[]int] { return p.Matrix },
		func(p *post, v *Bag[[]int]) { p.Matrix = v })

	tr := New(NewSchema(matrix))
	p := &post{Matrix: NewBag([]int{1}, []int{2, 2}, []int{1})}
	require.NoError(t, tr.Add(p))

	p.Matrix.Clear()
	p.Matrix.Add([]int{2, 2}, []int{1}, []int{1})
	assert.False(t, tr.IsDirty(p))

	p.Matrix.Clear()
	p.Matrix.Add([]int{2, 2}, []int{2, 2}, []int{1})
	assert.True(t, tr.IsDirty(p))
}

func TestContainerKindOf(t *testing.T) {
	tests := []struct {
		name    string
		typ     any
		ordered bool
		ok      bool
	}{
		{name: "bag", typ: (*Bag[int])(nil), ordered: false, ok: true},
		{name: "array type", typ: (*Array[int])(nil), ordered: true, ok: true},
		{name: "slice", typ: []string(nil), ordered: true, ok: true},
		{name: "native array", typ: [2]int{}, ordered: true, ok: true},
		{name: "map", typ: map[string]int(nil), ok: false},
		{name: "scalar", typ: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := containerKindOf(reflect.TypeOf(tt.typ))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.ordered, kind.ordered())
			}
		})
	}
}
