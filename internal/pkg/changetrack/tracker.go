package changetrack

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

// Tracker records property snapshots for a set of items and drives the
// accept/reject protocol over them. Items are keyed by identity.
type Tracker[T comparable] struct {
	items  map[T][]snapshot[T]
	order  []T
	schema *Schema[T]
	logger *slog.Logger

	beforeAccept observers[T]
	beforeReject observers[T]
}

// Option configures a Tracker.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for debug output. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates a Tracker. Add uses the properties and comparers of schema; with
// a nil schema they are derived from T with PropertiesOf on first use.
func New[T comparable](schema *Schema[T], opts ...Option) *Tracker[T] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Tracker[T]{
		items:  make(map[T][]snapshot[T]),
		schema: schema,
		logger: o.logger,
	}
}

// Add starts tracking item with the tracker's schema.
func (t *Tracker[T]) Add(item T) error {
	if t.schema == nil {
		props, err := PropertiesOf[T]()
		if err != nil {
			return err
		}
		t.schema = NewSchema(props...)
	}
	return t.AddWith(item, t.schema.props, t.schema.comparers)
}

// AddRange adds every item, stopping at the first error. Items added before
// the error stay tracked.
func (t *Tracker[T]) AddRange(items ...T) error {
	for _, item := range items {
		if err := t.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// AddWith starts tracking item with an explicit property list. A comparer in
// comparers takes precedence over the one attached to the descriptor. Every
// snapshot is created and accepted before the item becomes visible, so a
// failing call leaves the tracker unchanged.
func (t *Tracker[T]) AddWith(item T, props []*Property[T], comparers map[*Property[T]]Comparer) error {
	var zero T
	if item == zero {
		return ErrNilItem
	}
	if _, ok := t.items[item]; ok {
		return ErrDuplicateItem
	}

	snaps := make([]snapshot[T], 0, len(props))
	for _, p := range props {
		c := p.comparer
		if override, ok := comparers[p]; ok {
			c = override
		}
		s, err := newSnapshot(item, p, c)
		if err != nil {
			return err
		}
		snaps = append(snaps, s)
	}

	for _, s := range snaps {
		s.accept()
	}

	t.items[item] = snaps
	t.order = append(t.order, item)
	return nil
}

// Remove stops tracking item and reports whether it was tracked. The item itself is not touched.
func (t *Tracker[T]) Remove(item T) bool {
	if _, ok := t.items[item]; !ok {
		return false
	}
	delete(t.items, item)
	if i := slices.Index(t.order, item); i >= 0 {
		t.order = slices.Delete(t.order, i, i+1)
	}
	return true
}

// Clear stops tracking every item.
func (t *Tracker[T]) Clear() {
	clear(t.items)
	t.order = nil
}

// Contains reports whether item is tracked.
func (t *Tracker[T]) Contains(item T) bool {
	_, ok := t.items[item]
	return ok
}

// Len returns the number of tracked items.
func (t *Tracker[T]) Len() int {
	return len(t.items)
}

// All iterates over tracked items in insertion order.
func (t *Tracker[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range slices.Clone(t.order) {
			if !yield(item) {
				return
			}
		}
	}
}

// Properties returns the properties tracked for item, or nil if it is not tracked.
func (t *Tracker[T]) Properties(item T) []*Property[T] {
	snaps, ok := t.items[item]
	if !ok {
		return nil
	}
	props := make([]*Property[T], len(snaps))
	for i, s := range snaps {
		props[i] = s.property()
	}
	return props
}

// IsDirty reports whether any tracked property of item differs from its
// snapshot. Untracked items are never dirty.
func (t *Tracker[T]) IsDirty(item T) bool {
	for _, s := range t.items[item] {
		if s.dirty() {
			return true
		}
	}
	return false
}

// DirtyProperties returns the dirty properties of item in tracking order.
func (t *Tracker[T]) DirtyProperties(item T) []*Property[T] {
	return propertiesOf(dirtySnapshots(t.items[item]))
}

// DirtyItems iterates over every item with at least one dirty property. Each
// traversal evaluates dirtiness afresh.
func (t *Tracker[T]) DirtyItems() iter.Seq2[T, []*Property[T]] {
	return func(yield func(T, []*Property[T]) bool) {
		for _, item := range slices.Clone(t.order) {
			snaps, ok := t.items[item]
			if !ok {
				continue
			}
			dirty := dirtySnapshots(snaps)
			if len(dirty) == 0 {
				continue
			}
			if !yield(item, propertiesOf(dirty)) {
				return
			}
		}
	}
}

// OnBeforeAccept registers fn to run before each dirty item is accepted. The
// returned function removes the registration.
func (t *Tracker[T]) OnBeforeAccept(fn Observer[T]) (unsubscribe func()) {
	return t.beforeAccept.subscribe(fn)
}

// OnBeforeReject registers fn to run before each dirty item is restored. The
// returned function removes the registration.
func (t *Tracker[T]) OnBeforeReject(fn Observer[T]) (unsubscribe func()) {
	return t.beforeReject.subscribe(fn)
}

// AcceptChanges makes the live values of items their new baseline.
func (t *Tracker[T]) AcceptChanges(items ...T) error {
	return t.process("accept", items, &t.beforeAccept, func(s snapshot[T]) error {
		s.accept()
		return nil
	})
}

// AcceptAll accepts the changes of every tracked item.
func (t *Tracker[T]) AcceptAll() error {
	return t.AcceptChanges(slices.Clone(t.order)...)
}

// RejectChanges writes the baseline of items back onto them. It stops at the
// first failing property; items and properties processed before it keep their
// restored values.
func (t *Tracker[T]) RejectChanges(items ...T) error {
	return t.process("reject", items, &t.beforeReject, func(s snapshot[T]) error {
		return s.restore()
	})
}

// RejectAll rejects the changes of every tracked item.
func (t *Tracker[T]) RejectAll() error {
	return t.RejectChanges(slices.Clone(t.order)...)
}

func (t *Tracker[T]) process(action string, items []T, obs *observers[T], apply func(snapshot[T]) error) error {
	for _, item := range items {
		if !t.Contains(item) {
			return fmt.Errorf("%s changes: %w", action, ErrNotTracked)
		}
	}

	for _, item := range items {
		snaps, ok := t.items[item]
		if !ok {
			// removed by an observer earlier in this pass
			continue
		}

		dirty := dirtySnapshots(snaps)
		if len(dirty) == 0 {
			continue
		}

		if !obs.empty() {
			tr := newTransition(item, propertiesOf(dirty))
			obs.notify(tr)
			if tr.Cancel {
				t.logger.Debug("change transition cancelled", "action", action, "properties", Names(tr.Source))
				continue
			}
			dirty = slices.DeleteFunc(dirty, func(s snapshot[T]) bool {
				return !slices.Contains(tr.Properties, s.property())
			})
		}

		for _, s := range dirty {
			if err := apply(s); err != nil {
				t.logger.Debug("change transition failed", "action", action, "property", s.property().name, "error", err)
				return fmt.Errorf("%s changes: %w", action, err)
			}
		}
	}
	return nil
}

func dirtySnapshots[T any](snaps []snapshot[T]) []snapshot[T] {
	var dirty []snapshot[T]
	for _, s := range snaps {
		if s.dirty() {
			dirty = append(dirty, s)
		}
	}
	return dirty
}

func propertiesOf[T any](snaps []snapshot[T]) []*Property[T] {
	if len(snaps) == 0 {
		return nil
	}
	props := make([]*Property[T], len(snaps))
	for i, s := range snaps {
		props[i] = s.property()
	}
	return props
}
