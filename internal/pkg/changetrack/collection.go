package changetrack

import (
	"fmt"
	"reflect"
)

type containerKind int

const (
	containerCollection containerKind = iota
	containerList
	containerSlice
	containerArray
)

var (
	collectionType = reflect.TypeFor[Collection]()
	listType       = reflect.TypeFor[List]()
)

// containerKindOf decides the contract of a declared collection type.
func containerKindOf(t reflect.Type) (containerKind, bool) {
	if t == nil {
		return 0, false
	}
	switch {
	case t.Implements(listType):
		return containerList, true
	case t.Implements(collectionType):
		return containerCollection, true
	case t.Kind() == reflect.Slice:
		return containerSlice, true
	case t.Kind() == reflect.Array:
		return containerArray, true
	}
	return 0, false
}

func (k containerKind) ordered() bool {
	return k != containerCollection
}

// collectionSnapshot stores the elements of a collection-valued property and,
// when storeInstance is set, the container reference as well.
type collectionSnapshot[T any] struct {
	instance      scalarSnapshot[T]
	storeInstance bool
	kind          containerKind
	elements      Comparer

	values  []any
	present bool
}

func (s *collectionSnapshot[T]) property() *Property[T] { return s.instance.prop }

func (s *collectionSnapshot[T]) accept() {
	if s.storeInstance {
		s.instance.accept()
	}

	live := s.instance.prop.get(s.instance.item)
	if isNil(live) {
		s.values, s.present = nil, false
		return
	}
	s.values, s.present = elementsOf(live), true
}

func (s *collectionSnapshot[T]) dirty() bool {
	if s.storeInstance && s.instance.dirty() {
		return true
	}

	live := s.instance.prop.get(s.instance.item)
	if isNil(live) {
		return s.present
	}
	if !s.present {
		return true
	}

	current := elementsOf(live)
	if s.kind.ordered() {
		return !sequenceEqual(s.values, current, s.elements)
	}
	return !multisetEqual(s.values, current, s.elements)
}

// restore validates the target container before writing anything, so a
// failed restore leaves the item untouched.
func (s *collectionSnapshot[T]) restore() error {
	p, item := s.instance.prop, s.instance.item

	if !s.present {
		p.set(item, nil)
		return nil
	}

	target := p.get(item)
	if s.storeInstance {
		target = s.instance.value
	}
	if isNil(target) {
		return fmt.Errorf("can't restore values of property %s: %w", p.name, ErrNoContainerInstance)
	}

	restored, err := refill(target, s.values)
	if err != nil {
		return fmt.Errorf("can't restore values of property %s: %w", p.name, err)
	}

	// Written back even when it is the same container: slices and arrays are
	// values and only reach the item through the setter.
	p.set(item, restored)
	return nil
}

func elementsOf(container any) []any {
	if c, ok := container.(Collection); ok {
		out := make([]any, 0, c.Len())
		for v := range c.All() {
			out = append(out, v)
		}
		return out
	}

	rv := reflect.ValueOf(container)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// refill overwrites the contents of target with values and returns the
// container to store back on the item.
func refill(target any, values []any) (any, error) {
	if c, ok := target.(Collection); ok {
		if l, ok := c.(List); ok && isFixedSize(c) {
			if l.Len() != len(values) {
				return nil, ErrFixedSizeMismatch
			}
			if isReadOnly(c) {
				return nil, ErrReadOnlyContainer
			}
			for i, v := range values {
				l.SetAt(i, v)
			}
			return target, nil
		}
		if isReadOnly(c) {
			return nil, ErrReadOnlyContainer
		}
		c.Clear()
		for _, v := range values {
			c.Append(v)
		}
		return target, nil
	}

	rv := reflect.ValueOf(target)
	elem := rv.Type().Elem()
	switch rv.Kind() {
	case reflect.Slice:
		out := rv.Slice(0, 0)
		for _, v := range values {
			out = reflect.Append(out, elementValue(v, elem))
		}
		return out.Interface(), nil
	case reflect.Array:
		if rv.Len() != len(values) {
			return nil, ErrFixedSizeMismatch
		}
		out := reflect.New(rv.Type()).Elem()
		for i, v := range values {
			out.Index(i).Set(elementValue(v, elem))
		}
		return out.Interface(), nil
	}
	return nil, fmt.Errorf("%v: %w", rv.Type(), ErrUnsupportedCollectionType)
}

func elementValue(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(v)
}

func isFixedSize(c Collection) bool {
	f, ok := c.(FixedSize)
	return ok && f.FixedSize()
}

func isReadOnly(c Collection) bool {
	r, ok := c.(ReadOnly)
	return ok && r.ReadOnly()
}

func sequenceEqual(a, b []any, c Comparer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalValues(c, a[i], b[i]) {
			return false
		}
	}
	return true
}

// multisetEqual compares a and b as bags: same length, same number of
// distinct values, and the same count for every distinct value.
func multisetEqual(a, b []any, c Comparer) bool {
	if len(a) != len(b) {
		return false
	}

	stored, current := newMultiset(a, c), newMultiset(b, c)
	if len(stored.buckets) != len(current.buckets) {
		return false
	}
	for _, bk := range stored.buckets {
		if current.count(bk.value) != bk.count {
			return false
		}
	}
	return true
}

type bucket struct {
	value any
	count int
}

// multiset counts occurrences of values under a Comparer. Values with a map key
// are found through index; the rest are matched pairwise.
type multiset struct {
	cmp     Comparer
	index   map[any]int
	buckets []bucket
}

func newMultiset(values []any, c Comparer) *multiset {
	m := &multiset{cmp: c, index: make(map[any]int)}
	for _, v := range values {
		m.add(v)
	}
	return m
}

func (m *multiset) key(v any) (any, bool) {
	if k, ok := m.cmp.(KeyedComparer); ok {
		return k.Key(v), true
	}
	if m.cmp == nil {
		return naturalKey(v)
	}
	return nil, false
}

func (m *multiset) find(v any) int {
	if k, ok := m.key(v); ok {
		if i, found := m.index[k]; found {
			return i
		}
		return -1
	}
	for i, bk := range m.buckets {
		if equalValues(m.cmp, bk.value, v) {
			return i
		}
	}
	return -1
}

func (m *multiset) add(v any) {
	if i := m.find(v); i >= 0 {
		m.buckets[i].count++
		return
	}
	if k, ok := m.key(v); ok {
		m.index[k] = len(m.buckets)
	}
	m.buckets = append(m.buckets, bucket{value: v, count: 1})
}

func (m *multiset) count(v any) int {
	if i := m.find(v); i >= 0 {
		return m.buckets[i].count
	}
	return 0
}
