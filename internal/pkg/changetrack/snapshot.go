package changetrack

import "fmt"

// snapshot holds the last accepted state of one property of one item.
type snapshot[T any] interface {
	property() *Property[T]
	// accept adopts the live value as the new baseline.
	accept()
	// restore writes the baseline back onto the item.
	restore() error
	// dirty reports whether the live value differs from the baseline.
	dirty() bool
}

func newSnapshot[T any](item T, p *Property[T], c Comparer) (snapshot[T], error) {
	if p.kind != KindCollection {
		return &scalarSnapshot[T]{item: item, prop: p, comparer: c}, nil
	}

	kind, ok := containerKindOf(p.typ)
	if !ok {
		return nil, fmt.Errorf("property %s of type %v: %w", p.name, p.typ, ErrUnsupportedCollectionType)
	}
	return &collectionSnapshot[T]{
		instance:      scalarSnapshot[T]{item: item, prop: p, comparer: ComparerFunc(sameInstance)},
		storeInstance: p.storeInstance,
		kind:          kind,
		elements:      c,
	}, nil
}

type scalarSnapshot[T any] struct {
	item     T
	prop     *Property[T]
	comparer Comparer
	value    any
}

func (s *scalarSnapshot[T]) property() *Property[T] { return s.prop }

func (s *scalarSnapshot[T]) accept() {
	s.value = s.prop.get(s.item)
}

func (s *scalarSnapshot[T]) restore() error {
	s.prop.set(s.item, s.value)
	return nil
}

func (s *scalarSnapshot[T]) dirty() bool {
	return !equalValues(s.comparer, s.value, s.prop.get(s.item))
}
