package changetrack

import (
	"iter"
	"slices"
)

// Collection is the append/clear/iterate container contract. Properties whose
// declared type implements only Collection are compared as multisets.
type Collection interface {
	Len() int
	All() iter.Seq[any]
	Clear()
	Append(v any)
}

// List is a Collection with positional access. Properties whose declared type
// implements List are compared in order.
type List interface {
	Collection
	At(i int) any
	SetAt(i int, v any)
}

// ReadOnly is implemented by containers that may refuse mutation.
type ReadOnly interface {
	ReadOnly() bool
}

// FixedSize is implemented by lists whose length cannot change.
type FixedSize interface {
	FixedSize() bool
}

// Bag is an unordered Collection of E backed by a slice.
type Bag[E any] struct {
	items  []E
	frozen bool
}

// NewBag creates a Bag holding a copy of items.
func NewBag[E any](items ...E) *Bag[E] {
	return &Bag[E]{items: slices.Clone(items)}
}

func (b *Bag[E]) Len() int { return len(b.items) }

func (b *Bag[E]) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range b.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Values returns a copy of the elements.
func (b *Bag[E]) Values() []E { return slices.Clone(b.items) }

// Add appends items. It panics if the bag is frozen.
func (b *Bag[E]) Add(items ...E) {
	b.mustWritable()
	b.items = append(b.items, items...)
}

// DeleteFunc removes every element for which del returns true.
func (b *Bag[E]) DeleteFunc(del func(E) bool) {
	b.mustWritable()
	b.items = slices.DeleteFunc(b.items, del)
}

func (b *Bag[E]) Append(v any) {
	b.Add(valueAs[E](v))
}

func (b *Bag[E]) Clear() {
	b.mustWritable()
	clear(b.items)
	b.items = b.items[:0]
}

// Freeze makes the bag read only.
func (b *Bag[E]) Freeze() { b.frozen = true }

func (b *Bag[E]) ReadOnly() bool { return b.frozen }

func (b *Bag[E]) mustWritable() {
	if b.frozen {
		panic("changetrack: bag is read only")
	}
}

// Array is a fixed-size List of E.
type Array[E any] struct {
	items []E
}

// NewArray creates an Array holding a copy of items.
func NewArray[E any](items ...E) *Array[E] {
	return &Array[E]{items: slices.Clone(items)}
}

func (a *Array[E]) Len() int { return len(a.items) }

func (a *Array[E]) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range a.items {
			if !yield(v) {
				return
			}
		}
	}
}

// Values returns a copy of the elements.
func (a *Array[E]) Values() []E { return slices.Clone(a.items) }

// Get returns the element at i.
func (a *Array[E]) Get(i int) E { return a.items[i] }

// Set replaces the element at i.
func (a *Array[E]) Set(i int, v E) { a.items[i] = v }

func (a *Array[E]) At(i int) any { return a.items[i] }

func (a *Array[E]) SetAt(i int, v any) { a.items[i] = valueAs[E](v) }

// Clear resets every element to its zero value; the length is unchanged.
func (a *Array[E]) Clear() { clear(a.items) }

// Append panics: an Array cannot grow.
func (a *Array[E]) Append(any) {
	panic("changetrack: array has fixed size")
}

func (a *Array[E]) FixedSize() bool { return true }
