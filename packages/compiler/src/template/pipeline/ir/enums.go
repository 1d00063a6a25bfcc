package ir

import "fmt"

// OpKind distinguishes different kinds of IR operations
type OpKind int

const (
	// OpKindOpenElement - An operation to begin rendering of an element
	OpKindOpenElement OpKind = iota
	// OpKindVoidElement - An operation to render an element that takes no children
	OpKindVoidElement
	// OpKindCloseElement - An operation to end rendering of an element previously started with `OpenElement`
	OpKindCloseElement
	// OpKindEmitText - An operation to render a text node, literal or resolved from the context
	OpKindEmitText
	// OpKindRunConditional - An operation to run a nested program when a test passes
	OpKindRunConditional
	// OpKindRunIteration - An operation to run a nested program once per collection entry
	OpKindRunIteration
)

// String returns the name of the operation kind
func (k OpKind) String() string {
	switch k {
	case OpKindOpenElement:
		return "OpenElement"
	case OpKindVoidElement:
		return "VoidElement"
	case OpKindCloseElement:
		return "CloseElement"
	case OpKindEmitText:
		return "EmitText"
	case OpKindRunConditional:
		return "RunConditional"
	case OpKindRunIteration:
		return "RunIteration"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}
