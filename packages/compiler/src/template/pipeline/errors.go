package pipeline

import (
	"fmt"

	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/util"
)

// StructuralError reports a template node in a position the compiler does
// not support. It aborts compilation of the whole template.
type StructuralError struct {
	Kind   render3.NodeKind
	Parent render3.NodeKind
	Span   *util.ParseSourceSpan
	Msg    string
	Err    error
}

func (e *StructuralError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Span != nil && e.Span.Start != nil {
		return fmt.Sprintf("%s (%s)", msg, e.Span.Start)
	}
	return msg
}

// Unwrap returns the underlying error, if any
func (e *StructuralError) Unwrap() error {
	return e.Err
}

func newStructuralError(node render3.Node, parent render3.NodeKind, msg string) *StructuralError {
	err := &StructuralError{Parent: parent, Msg: msg}
	if node != nil {
		err.Kind = node.Kind()
		err.Span = node.SourceSpan()
	}
	return err
}
