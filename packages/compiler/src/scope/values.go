package scope

import (
	"fmt"
	"reflect"
	"sort"
)

// Truthy reports whether v counts as true for a conditional. Missing, nil,
// false, zero numbers and empty strings, slices and maps are false.
func Truthy(v interface{}) (truth bool) {
	switch c := v.(type) {
	case missingValue:
		return false
	case *Map:
		return c.Len() > 0
	case *Overlay:
		return c != nil
	}
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return false
	}
	switch val.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		truth = val.Len() > 0
	case reflect.Bool:
		truth = val.Bool()
	case reflect.Complex64, reflect.Complex128:
		truth = val.Complex() != 0
	case reflect.Chan, reflect.Func, reflect.Ptr, reflect.Interface:
		truth = !val.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		truth = val.Int() != 0
	case reflect.Float32, reflect.Float64:
		truth = val.Float() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		truth = val.Uint() != 0
	case reflect.Struct:
		truth = true
	}
	return
}

// IsMapping reports whether v is a keyed collection: a *Map or a Go map with
// string keys.
func IsMapping(v interface{}) bool {
	if _, ok := v.(*Map); ok {
		return v.(*Map) != nil
	}
	rv := indirect(reflect.ValueOf(v))
	return rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String
}

// Each calls fn for every entry of the collection v in its own order: *Map
// entries in insertion order, slice and array elements by index, Go map
// entries by sorted key. Any other value, Missing included, has no entries.
func Each(v interface{}, fn func(key, val interface{})) {
	if m, ok := v.(*Map); ok {
		m.Range(func(key string, val interface{}) bool {
			fn(key, val)
			return true
		})
		return
	}
	if IsMissing(v) {
		return
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		eachMap(rv, fn)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			fn(i, rv.Index(i).Interface())
		}
	}
}

func eachMap(rv reflect.Value, fn func(key, val interface{})) {
	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = fmt.Sprint(k.Interface())
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return names[order[a]] < names[order[b]]
	})
	for _, i := range order {
		fn(keys[i].Interface(), rv.MapIndex(keys[i]).Interface())
	}
}

// FormatText renders a resolved value as text content. Missing and nil
// render as the empty string.
func FormatText(v interface{}) string {
	switch c := v.(type) {
	case nil, missingValue:
		return ""
	case string:
		return c
	case fmt.Stringer:
		return c.String()
	}
	return fmt.Sprint(v)
}
