// Package attrs splits the attributes written on an element into the static
// and dynamic lists handed to a sink.
//
// Names starting with "on" (any case) are event handlers: their value is
// always a context path and they go to the dynamic list. Every "class"
// attribute, and any "class" key of a spread, is merged into one
// space-separated class attribute. An attribute named "...path" spreads the
// entries of the mapping found at path. Everything else is static. Each
// static name appears once, at the position it was first declared, with
// the value of its last declaration.
package attrs

import (
	"fmt"
	"strings"

	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
)

const (
	// EventPrefix starts an event handler attribute name, in any case
	EventPrefix = "on"
	// SpreadPrefix starts an attribute that expands a context mapping
	SpreadPrefix = "..."
	// ClassName is the attribute whose fragments are merged
	ClassName = "class"
)

// IsEvent reports whether name is an event handler attribute
func IsEvent(name string) bool {
	return len(name) >= len(EventPrefix) && strings.EqualFold(name[:len(EventPrefix)], EventPrefix)
}

// IsSpread reports whether name is a spread attribute
func IsSpread(name string) bool {
	return strings.HasPrefix(name, SpreadPrefix)
}

// IsClass reports whether name is the class attribute
func IsClass(name string) bool {
	return strings.EqualFold(name, ClassName)
}

// Options configures attribute classification
type Options struct {
	// KeyAttribute names an attribute whose value becomes the element key
	// instead of an attribute. Empty disables keys.
	KeyAttribute string
}

// Kind is the role an attribute plays
type Kind int

const (
	KindStatic Kind = iota
	KindClass
	KindEvent
	KindSpread
	KindKey
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindClass:
		return "class"
	case KindEvent:
		return "event"
	case KindSpread:
		return "spread"
	case KindKey:
		return "key"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type entry struct {
	kind  Kind
	name  string
	value interface{}
	path  scope.Path
	bound bool
}

func (e *entry) resolve(ctx interface{}) interface{} {
	if !e.bound {
		return e.value
	}
	v := scope.Resolve(e.path, ctx)
	if scope.IsMissing(v) {
		return nil
	}
	return v
}

func (e *entry) String() string {
	switch {
	case e.kind == KindSpread:
		return SpreadPrefix + e.path.String()
	case e.bound:
		return fmt.Sprintf("%s={%s}", e.name, e.path)
	case e.value == true:
		return e.name
	}
	return fmt.Sprintf("%s=%q", e.name, e.value)
}

// Plan is the compiled form of an element's attributes. It is immutable and
// safe for concurrent use.
type Plan struct {
	entries []*entry
	key     *entry
}

// Result is a Plan evaluated against one context
type Result struct {
	Static  []sink.Attr
	Dynamic []sink.Attr
	Key     string
}

// Compile classifies attributes once so each evaluation only resolves
// paths. It fails on malformed paths.
func Compile(attributes []*render3.Attribute, opts *Options) (*Plan, error) {
	if opts == nil {
		opts = &Options{}
	}
	plan := &Plan{}
	for _, a := range attributes {
		e, err := compileAttribute(a, opts)
		if err != nil {
			return nil, err
		}
		if e.kind == KindKey {
			plan.key = e
			continue
		}
		plan.entries = append(plan.entries, e)
	}
	return plan, nil
}

func compileAttribute(a *render3.Attribute, opts *Options) (*entry, error) {
	switch {
	case IsSpread(a.Name):
		if a.ValueKind != render3.AttributeValueBoolean {
			return nil, fmt.Errorf("spread attribute %q cannot have a value", a.Name)
		}
		if strings.TrimSpace(a.Name[len(SpreadPrefix):]) == "" {
			return nil, fmt.Errorf("spread attribute %q needs a path", a.Name)
		}
		p, err := scope.ParsePath(a.Name[len(SpreadPrefix):])
		if err != nil {
			return nil, err
		}
		return &entry{kind: KindSpread, name: a.Name, path: p, bound: true}, nil

	case IsEvent(a.Name):
		e := &entry{kind: KindEvent, name: a.Name}
		if a.ValueKind == render3.AttributeValueBoolean || strings.TrimSpace(a.Value) == "" {
			return e, nil
		}
		p, err := scope.ParsePath(a.Value)
		if err != nil {
			return nil, fmt.Errorf("event attribute %q: %w", a.Name, err)
		}
		e.path, e.bound = p, true
		return e, nil
	}

	kind := KindStatic
	if opts.KeyAttribute != "" && a.Name == opts.KeyAttribute {
		kind = KindKey
	} else if IsClass(a.Name) {
		kind = KindClass
	}

	e := &entry{kind: kind, name: a.Name}
	switch a.ValueKind {
	case render3.AttributeValueBoolean:
		e.value = true
	case render3.AttributeValueLiteral:
		e.value = a.Value
	case render3.AttributeValuePath:
		p, err := scope.ParsePath(a.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		e.path, e.bound = p, true
	default:
		return nil, fmt.Errorf("attribute %q: unknown value kind %d", a.Name, a.ValueKind)
	}
	return e, nil
}

// Len returns the number of attributes in the plan, key included
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	n := len(p.entries)
	if p.key != nil {
		n++
	}
	return n
}

// Evaluate resolves the plan against ctx. Paths that lead nowhere yield
// nil values; class fragments that render empty are skipped.
func (p *Plan) Evaluate(ctx interface{}) Result {
	var res Result
	if p == nil {
		return res
	}
	if p.key != nil {
		res.Key = scope.FormatText(p.key.resolve(ctx))
	}

	index := map[string]int{}
	classIdx := -1
	var classes []string

	put := func(name string, v interface{}) {
		if i, ok := index[name]; ok {
			res.Static[i].Value = v
			return
		}
		index[name] = len(res.Static)
		res.Static = append(res.Static, sink.Attr{Name: name, Value: v})
	}
	addClass := func(v interface{}) {
		if classIdx < 0 {
			classIdx = len(res.Static)
			res.Static = append(res.Static, sink.Attr{Name: ClassName})
		}
		if s := classFragment(v); s != "" {
			classes = append(classes, s)
		}
	}

	for _, e := range p.entries {
		switch e.kind {
		case KindEvent:
			res.Dynamic = append(res.Dynamic, sink.Attr{Name: e.name, Value: e.resolve(ctx)})
		case KindClass:
			addClass(e.resolve(ctx))
		case KindSpread:
			src := e.resolve(ctx)
			if !scope.IsMapping(src) {
				continue
			}
			scope.Each(src, func(key, val interface{}) {
				name := scope.FormatText(key)
				if IsClass(name) {
					addClass(val)
					return
				}
				put(name, val)
			})
		default:
			put(e.name, e.resolve(ctx))
		}
	}

	if classIdx >= 0 {
		res.Static[classIdx].Value = strings.Join(classes, " ")
	}
	return res
}

func classFragment(v interface{}) string {
	if _, ok := v.(bool); ok {
		return ""
	}
	return strings.TrimSpace(scope.FormatText(v))
}

// String lists the plan entries in declaration order
func (p *Plan) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, p.Len())
	if p.key != nil {
		parts = append(parts, "key:"+p.key.String())
	}
	for _, e := range p.entries {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}

// Classify compiles attributes and evaluates them against ctx in one step
func Classify(attributes []*render3.Attribute, ctx interface{}, opts *Options) (Result, error) {
	plan, err := Compile(attributes, opts)
	if err != nil {
		return Result{}, err
	}
	return plan.Evaluate(ctx), nil
}
