package changetrack

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read by PropertiesOf.
//
//	Name  string                      // tracked as a scalar
//	Notes string   `track:"-"`        // ignored
//	Tags  []string `track:"collection"`
//	Refs  *Bag[ID] `track:"collection,noinstance"`
const TagName = "track"

// PropertiesOf derives descriptors from the exported fields declared directly
// on the struct T points to, in declaration order. Embedded fields are skipped.
func PropertiesOf[T any]() ([]*Property[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%v: %w", t, ErrUnsupportedItemType)
	}

	st := t.Elem()
	props := make([]*Property[T], 0, st.NumField())
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}

		tag := f.Tag.Get(TagName)
		if tag == "-" {
			continue
		}

		kind, opts := parseTrackTag(tag)
		props = append(props, NewProperty(f.Name, f.Type, kind, fieldGetter[T](i), fieldSetter[T](i), opts...))
	}
	return props, nil
}

func parseTrackTag(tag string) (Kind, []PropertyOption) {
	parts := strings.Split(tag, ",")
	if parts[0] != "collection" {
		return KindScalar, nil
	}

	var opts []PropertyOption
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "noinstance" {
			opts = append(opts, WithoutInstance())
		}
	}
	return KindCollection, opts
}

func fieldGetter[T any](index int) func(T) any {
	return func(item T) any {
		return reflect.ValueOf(item).Elem().Field(index).Interface()
	}
}

func fieldSetter[T any](index int) func(T, any) {
	return func(item T, v any) {
		field := reflect.ValueOf(item).Elem().Field(index)
		if v == nil {
			field.SetZero()
			return
		}
		field.Set(reflect.ValueOf(v))
	}
}
