package changetrack

import (
	"maps"
	"reflect"
	"slices"
)

// Kind selects the snapshot strategy used for a property.
type Kind int

const (
	// KindScalar snapshots the property value itself.
	KindScalar Kind = iota
	// KindCollection snapshots the elements of a collection-valued property.
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindCollection:
		return "collection"
	default:
		return "unknown"
	}
}

// Property describes one trackable property of items of type T: its name, its
// declared type and how to read and write it. Descriptors are compared by
// pointer, so the same *Property must be used when narrowing transitions or
// supplying comparers.
type Property[T any] struct {
	name          string
	typ           reflect.Type
	kind          Kind
	get           func(T) any
	set           func(T, any)
	storeInstance bool
	comparer      Comparer
}

// PropertyOption configures a Property.
type PropertyOption func(*propertyOptions)

type propertyOptions struct {
	comparer      Comparer
	storeInstance bool
}

// WithComparer sets the Comparer for a property. For collection properties it
// compares elements.
func WithComparer(c Comparer) PropertyOption {
	return func(o *propertyOptions) {
		o.comparer = c
	}
}

// WithoutInstance stops a collection property from tracking its container
// instance. Only the elements are compared and restored, and rejecting changes
// requires the item to hold a container at that point.
func WithoutInstance() PropertyOption {
	return func(o *propertyOptions) {
		o.storeInstance = false
	}
}

// NewProperty creates a descriptor from untyped accessors. typ is the declared
// type of the property; for collections it decides which contract is used.
func NewProperty[T any](name string, typ reflect.Type, kind Kind, get func(T) any, set func(T, any), opts ...PropertyOption) *Property[T] {
	o := propertyOptions{storeInstance: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Property[T]{
		name:          name,
		typ:           typ,
		kind:          kind,
		get:           get,
		set:           set,
		storeInstance: o.storeInstance,
		comparer:      o.comparer,
	}
}

// Field declares a scalar property of type V.
func Field[T, V any](name string, get func(T) V, set func(T, V), opts ...PropertyOption) *Property[T] {
	return NewProperty(name, reflect.TypeFor[V](), KindScalar,
		func(item T) any { return get(item) },
		func(item T, v any) { set(item, valueAs[V](v)) },
		opts...)
}

// CollectionField declares a collection-valued property of container type C.
func CollectionField[T, C any](name string, get func(T) C, set func(T, C), opts ...PropertyOption) *Property[T] {
	return NewProperty(name, reflect.TypeFor[C](), KindCollection,
		func(item T) any { return get(item) },
		func(item T, v any) { set(item, valueAs[C](v)) },
		opts...)
}

func valueAs[V any](v any) V {
	if v == nil {
		var zero V
		return zero
	}
	return v.(V)
}

// Name returns the property name.
func (p *Property[T]) Name() string { return p.name }

// Type returns the declared type of the property.
func (p *Property[T]) Type() reflect.Type { return p.typ }

// Kind returns the snapshot strategy of the property.
func (p *Property[T]) Kind() Kind { return p.kind }

// StoresInstance reports whether a collection property tracks its container instance.
func (p *Property[T]) StoresInstance() bool { return p.kind == KindCollection && p.storeInstance }

// Comparer returns the comparer attached to the descriptor, if any.
func (p *Property[T]) Comparer() Comparer { return p.comparer }

// Get reads the property from item.
func (p *Property[T]) Get(item T) any { return p.get(item) }

func (p *Property[T]) String() string { return p.name }

// Names returns the names of props in order.
func Names[T any](props []*Property[T]) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.name
	}
	return names
}

// Schema is an ordered set of property descriptors for a tracked type, plus
// optional comparers overriding the ones attached to the descriptors.
type Schema[T any] struct {
	props     []*Property[T]
	comparers map[*Property[T]]Comparer
}

// NewSchema creates a Schema tracking props in the given order.
func NewSchema[T any](props ...*Property[T]) *Schema[T] {
	return &Schema[T]{
		props:     slices.Clone(props),
		comparers: make(map[*Property[T]]Comparer),
	}
}

// WithComparer overrides the comparer of p. Properties outside the schema are ignored.
func (s *Schema[T]) WithComparer(p *Property[T], c Comparer) *Schema[T] {
	if slices.Contains(s.props, p) {
		s.comparers[p] = c
	}
	return s
}

// Properties returns the tracked properties in order.
func (s *Schema[T]) Properties() []*Property[T] {
	return slices.Clone(s.props)
}

// Lookup finds a property by name.
func (s *Schema[T]) Lookup(name string) (*Property[T], bool) {
	for _, p := range s.props {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// Comparers returns a copy of the comparer overrides.
func (s *Schema[T]) Comparers() map[*Property[T]]Comparer {
	return maps.Clone(s.comparers)
}
