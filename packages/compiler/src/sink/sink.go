// Package sink defines the consumer of the instruction stream a compiled
// template emits, plus a recording and a fan-out implementation.
package sink

import (
	"fmt"
	"reflect"
	"strings"
)

// Attr is a single attribute. A Value of true marks a boolean attribute; a
// nil Value means the attribute resolved to nothing.
type Attr struct {
	Name  string
	Value interface{}
}

// Sink receives incremental DOM mutation instructions. Calls arrive in
// document order and every OpenElement is matched by a CloseElement with
// the same tag before its parent closes.
type Sink interface {
	OpenElement(tag, key string, static, dynamic []Attr)
	VoidElement(tag, key string, static, dynamic []Attr)
	CloseElement(tag string)
	Text(value string)
}

// InstructionKind names a Sink method
type InstructionKind int

const (
	// An OpenElement call
	InstructionOpen InstructionKind = iota

	// A VoidElement call
	InstructionVoid

	// A CloseElement call
	InstructionClose

	// A Text call
	InstructionText
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionOpen:
		return "open"
	case InstructionVoid:
		return "void"
	case InstructionClose:
		return "close"
	case InstructionText:
		return "text"
	}
	return fmt.Sprintf("InstructionKind(%d)", int(k))
}

// Instruction is one recorded Sink call
type Instruction struct {
	Kind    InstructionKind
	Tag     string
	Key     string
	Static  []Attr
	Dynamic []Attr
	Text    string
}

func (i Instruction) String() string {
	switch i.Kind {
	case InstructionOpen, InstructionVoid:
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s", i.Kind, i.Tag)
		if i.Key != "" {
			fmt.Fprintf(&b, " key=%q", i.Key)
		}
		writeAttrs(&b, "static", i.Static)
		writeAttrs(&b, "dynamic", i.Dynamic)
		return b.String()
	case InstructionClose:
		return fmt.Sprintf("close %s", i.Tag)
	case InstructionText:
		return fmt.Sprintf("text %q", i.Text)
	}
	return i.Kind.String()
}

func writeAttrs(b *strings.Builder, label string, attrs []Attr) {
	if len(attrs) == 0 {
		return
	}
	fmt.Fprintf(b, " %s[", label)
	for n, a := range attrs {
		if n > 0 {
			b.WriteString(" ")
		}
		switch v := a.Value.(type) {
		case nil:
			fmt.Fprintf(b, "%s=<nil>", a.Name)
		case string:
			fmt.Fprintf(b, "%s=%q", a.Name, v)
		default:
			if isFunc(v) {
				fmt.Fprintf(b, "%s=<func>", a.Name)
			} else {
				fmt.Fprintf(b, "%s=%v", a.Name, v)
			}
		}
	}
	b.WriteString("]")
}

func isFunc(v interface{}) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}
