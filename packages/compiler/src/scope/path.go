package scope

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"idomc-go/packages/compiler/src/core"
)

// Path is a dotted context path split into its segments. The empty path
// addresses the context itself.
type Path []string

// ParsePath splits a dotted path such as "user.profile.name". Surrounding
// whitespace is ignored; "" and "." both denote the root path.
func ParsePath(src string) (Path, error) {
	src = strings.TrimSpace(src)
	if src == "" || src == "." {
		return Path{}, nil
	}
	segments := strings.Split(src, ".")
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment at position %d", src, i)
		}
		for _, r := range seg {
			if r > 127 {
				continue
			}
			if !core.IsIdentifierChar(int(r)) {
				return nil, fmt.Errorf("invalid path %q: unexpected character %q", src, r)
			}
		}
	}
	return Path(segments), nil
}

// MustParsePath is like ParsePath but panics on malformed input.
func MustParsePath(src string) Path {
	p, err := ParsePath(src)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the dotted form of the path
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	return strings.Join(p, ".")
}

type missingValue struct{}

func (missingValue) String() string {
	return "<missing>"
}

// Missing is returned by Resolve when a path does not lead to a value.
var Missing interface{} = missingValue{}

// IsMissing reports whether v is the Missing sentinel
func IsMissing(v interface{}) bool {
	_, ok := v.(missingValue)
	return ok
}

// Resolve walks p through ctx one segment at a time. It never fails: an
// absent segment, or a value that cannot be indexed, yields Missing.
func Resolve(p Path, ctx interface{}) interface{} {
	v := ctx
	for _, key := range p {
		v = access(v, key)
		if IsMissing(v) {
			return Missing
		}
	}
	return v
}

// ResolveOr resolves p and substitutes def for a Missing result.
func ResolveOr(p Path, ctx interface{}, def interface{}) interface{} {
	if v := Resolve(p, ctx); !IsMissing(v) {
		return v
	}
	return def
}

func access(v interface{}, key string) interface{} {
	switch c := v.(type) {
	case nil, missingValue:
		return Missing
	case *Map:
		if c == nil {
			return Missing
		}
		if val, ok := c.Get(key); ok {
			return val
		}
		return Missing
	case *Overlay:
		if c == nil {
			return Missing
		}
		if val, ok := c.Bindings.Get(key); ok {
			return val
		}
		return access(c.Parent, key)
	case map[string]interface{}:
		if val, ok := c[key]; ok {
			return val
		}
		return Missing
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Missing
		}
		val := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return Missing
		}
		return val.Interface()
	case reflect.Struct:
		field, ok := rv.Type().FieldByName(key)
		if !ok || !field.IsExported() {
			return Missing
		}
		val, err := rv.FieldByIndexErr(field.Index)
		if err != nil || !val.CanInterface() {
			return Missing
		}
		return val.Interface()
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= rv.Len() {
			return Missing
		}
		return rv.Index(idx).Interface()
	}
	return Missing
}

// indirect strips pointers and interfaces until it reaches a concrete value
// or a nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
