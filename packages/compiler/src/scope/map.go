package scope

import (
	"bytes"
	"fmt"
)

// Map is a string keyed mapping that remembers insertion order. Iterating a
// Map in a template visits entries in the order they were first set.
type Map struct {
	keys   []string
	values map[string]interface{}
}

// NewMap creates an empty Map
func NewMap() *Map {
	return &Map{values: map[string]interface{}{}}
}

// MapOf builds a Map from alternating key/value arguments. It panics if a
// key is not a string or the argument count is odd.
func MapOf(kv ...interface{}) *Map {
	if len(kv)%2 != 0 {
		panic("scope.MapOf: odd number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("scope.MapOf: key %v is a %T, not a string", kv[i], kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Set stores val under key. Overwriting keeps the original position.
func (m *Map) Set(key string, val interface{}) {
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	if _, ex := m.values[key]; !ex {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value stored under key
func (m *Map) Get(key string) (val interface{}, ok bool) {
	if m == nil {
		return nil, false
	}
	val, ok = m.values[key]
	return
}

// Len returns the number of entries
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, val interface{}) bool) {
	if m == nil {
		return
	}
	for _, key := range m.keys {
		if !fn(key, m.values[key]) {
			return
		}
	}
}

func (m *Map) String() string {
	var buf bytes.Buffer
	fmt.Fprint(&buf, "{")
	m.Range(func(key string, val interface{}) bool {
		if buf.Len() > 1 {
			fmt.Fprint(&buf, ", ")
		}
		fmt.Fprintf(&buf, "%s: %v", key, val)
		return true
	})
	fmt.Fprint(&buf, "}")
	return buf.String()
}

// Overlay is a derived context: lookups of a first path segment consult
// Bindings before falling through to Parent. Neither is modified.
type Overlay struct {
	Parent   interface{}
	Bindings *Map
}

// NewOverlay layers bindings over parent
func NewOverlay(parent interface{}, bindings *Map) *Overlay {
	return &Overlay{
		Parent:   parent,
		Bindings: bindings,
	}
}
