package changetrack

import "slices"

// Transition is passed to accept/reject observers once per dirty item, before
// any of its snapshots change.
type Transition[T any] struct {
	// Item is the tracked item about to be accepted or restored.
	Item T
	// Source lists every dirty property detected for Item, in tracking order.
	// Observers must not modify it.
	Source []*Property[T]
	// Properties starts as a copy of Source. Observers may remove entries to
	// narrow the operation; entries not present in Source are ignored.
	Properties []*Property[T]
	// Cancel skips Item entirely. Once any observer sets it, it stays set.
	Cancel bool
}

func newTransition[T any](item T, dirty []*Property[T]) *Transition[T] {
	return &Transition[T]{
		Item:       item,
		Source:     dirty,
		Properties: slices.Clone(dirty),
	}
}

// Exclude removes the named properties from Properties.
func (t *Transition[T]) Exclude(names ...string) {
	t.Properties = slices.DeleteFunc(t.Properties, func(p *Property[T]) bool {
		return slices.Contains(names, p.name)
	})
}

// Only keeps just the named properties in Properties.
func (t *Transition[T]) Only(names ...string) {
	t.Properties = slices.DeleteFunc(t.Properties, func(p *Property[T]) bool {
		return !slices.Contains(names, p.name)
	})
}

// Observer is notified before an item's changes are accepted or rejected.
type Observer[T any] func(t *Transition[T])

type subscription[T any] struct {
	id int
	fn Observer[T]
}

// observers is a callback registry notified synchronously in registration order.
type observers[T any] struct {
	nextID int
	subs   []subscription[T]
}

func (o *observers[T]) subscribe(fn Observer[T]) (unsubscribe func()) {
	id := o.nextID
	o.nextID++
	o.subs = append(o.subs, subscription[T]{id: id, fn: fn})

	return func() {
		o.subs = slices.DeleteFunc(o.subs, func(s subscription[T]) bool {
			return s.id == id
		})
	}
}

func (o *observers[T]) empty() bool {
	return len(o.subs) == 0
}

// notify calls every observer. A cancel from any of them is kept even if a
// later observer clears the flag.
func (o *observers[T]) notify(t *Transition[T]) {
	cancelled := false
	for _, s := range slices.Clone(o.subs) {
		s.fn(t)
		cancelled = cancelled || t.Cancel
		t.Cancel = cancelled
	}
}
