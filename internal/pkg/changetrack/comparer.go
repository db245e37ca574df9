package changetrack

import (
	"math"
	"reflect"
)

// Comparer decides whether two property or element values are equal for
// dirtiness purposes.
type Comparer interface {
	Equal(a, b any) bool
}

// KeyedComparer is a Comparer that can also reduce a value to a comparable key.
// Two values must be Equal exactly when their keys are ==. Unordered collection
// comparison uses the key to count elements with a map instead of pairwise scans.
type KeyedComparer interface {
	Comparer
	Key(v any) any
}

// ComparerFunc adapts an ordinary function to the Comparer interface.
type ComparerFunc func(a, b any) bool

// Equal calls f(a, b).
func (f ComparerFunc) Equal(a, b any) bool {
	return f(a, b)
}

// EqualFunc returns a Comparer for values of type E. Values that are not of
// type E (for example an untyped nil) fall back to natural equality.
func EqualFunc[E any](eq func(a, b E) bool) Comparer {
	return ComparerFunc(func(a, b any) bool {
		ae, aok := a.(E)
		be, bok := b.(E)
		if !aok || !bok {
			return Equal(a, b)
		}
		return eq(ae, be)
	})
}

// KeyFunc returns a KeyedComparer treating two values of type E as equal when
// key maps them to the same K.
func KeyFunc[E any, K comparable](key func(E) K) KeyedComparer {
	return keyComparer[E, K]{key: key}
}

type keyComparer[E any, K comparable] struct {
	key func(E) K
}

func (c keyComparer[E, K]) Key(v any) any {
	e, ok := v.(E)
	if !ok {
		return v
	}
	return c.key(e)
}

func (c keyComparer[E, K]) Equal(a, b any) bool {
	return c.Key(a) == c.Key(b)
}

// Equal reports natural equality of a and b:
//
//   - two absent values (nil, or a nil pointer, map, slice, func, chan or
//     interface) are equal;
//   - an absent value never equals a present one;
//   - an Equal method on either side is used when it accepts the other value.
//     Non-nil pointers whose pointees have such a method are compared through it;
//   - otherwise values are compared deeply, like reflect.DeepEqual, except that
//     NaN equals NaN and func values are equal when they share a code pointer.
//
// Pointers compare by the contents they point at, so replacing a pointer with
// a different one holding equal contents is not a change.
func Equal(a, b any) bool {
	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	if eq, ok := equalEither(a, b); ok {
		return eq
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	if av.Kind() == reflect.Pointer {
		ae, be := av.Elem().Interface(), bv.Elem().Interface()
		if !isNil(ae) && !isNil(be) {
			if eq, ok := equalEither(ae, be); ok {
				return eq
			}
		}
	}
	return deepEqual(av, bv, make(map[visit]bool))
}

func equalEither(a, b any) (equal, ok bool) {
	if eq, ok := equalMethod(a, b); ok {
		return eq, true
	}
	return equalMethod(b, a)
}

func equalValues(c Comparer, a, b any) bool {
	if c != nil {
		return c.Equal(a, b)
	}
	return Equal(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// equalMethod calls a.Equal(b) when a has a method of the form Equal(X) bool
// and b is assignable to X.
func equalMethod(a, b any) (equal, ok bool) {
	m := reflect.ValueOf(a).MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool {
		return false, false
	}
	bv := reflect.ValueOf(b)
	if !bv.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{bv})[0].Bool(), true
}

type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// deepEqual follows reflect.DeepEqual, with floats and funcs compared so that
// every value equals itself.
func deepEqual(a, b reflect.Value, visited map[visit]bool) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
	}
	switch a.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		v := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
		if visited[v] {
			return true
		}
		visited[v] = true
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return floatEqual(a.Float(), b.Float())
	case reflect.Complex64, reflect.Complex128:
		ac, bc := a.Complex(), b.Complex()
		return floatEqual(real(ac), real(bc)) && floatEqual(imag(ac), imag(bc))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Interface:
		return deepEqual(a.Elem(), b.Elem(), visited)
	case reflect.Pointer:
		return a.Pointer() == b.Pointer() || deepEqual(a.Elem(), b.Elem(), visited)
	case reflect.Array:
		for i := range a.Len() {
			if !deepEqual(a.Index(i), b.Index(i), visited) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		for i := range a.Len() {
			if !deepEqual(a.Index(i), b.Index(i), visited) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := range a.NumField() {
			if !deepEqual(a.Field(i), b.Field(i), visited) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bval := b.MapIndex(iter.Key())
			if !bval.IsValid() || !deepEqual(iter.Value(), bval, visited) {
				return false
			}
		}
		return true
	}
	return false
}

func floatEqual(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// sameInstance compares container references: reference kinds by identity,
// everything else by natural equality.
func sameInstance(a, b any) bool {
	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		return aNil && bNil
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Slice:
		return av.Pointer() == bv.Pointer() && av.Len() == bv.Len()
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	}
	return Equal(a, b)
}

type nilKey struct{}

// nanKey stands in for NaN, which never matches itself as a map key.
type nanKey struct{ typ reflect.Type }

// naturalKey returns a map key consistent with Equal for absent values and
// plain basic-kind values. Anything else has to be compared pairwise.
func naturalKey(v any) (any, bool) {
	if isNil(v) {
		return nilKey{}, true
	}
	t := reflect.TypeOf(v)
	if _, ok := t.MethodByName("Equal"); ok {
		return nil, false
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v, true
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(reflect.ValueOf(v).Float()) {
			return nanKey{typ: t}, true
		}
		return v, true
	case reflect.Complex64, reflect.Complex128:
		c := reflect.ValueOf(v).Complex()
		if math.IsNaN(real(c)) || math.IsNaN(imag(c)) {
			return nil, false
		}
		return v, true
	}
	return nil, false
}
