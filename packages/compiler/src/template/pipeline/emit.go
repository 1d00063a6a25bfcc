package pipeline

import (
	"fmt"

	"idomc-go/packages/compiler/src/template/pipeline/ir"
)

// Phase represents a compilation phase run over every unit after ingestion
type Phase struct {
	Name string
	Fn   func(unit *viewUnit) error
}

var phasesList = []Phase{
	{"RemoveEmptyControlFlow", removeEmptyControlFlow},
	{"VerifyElementBalance", verifyElementBalance},
}

// transform runs all phases in order against a unit. After this processing
// the unit can be emitted.
func transform(unit *viewUnit) error {
	for _, phase := range phasesList {
		if err := phase.Fn(unit); err != nil {
			return err
		}
	}
	return nil
}

// emitProgram finalizes a unit into an immutable Program
func emitProgram(unit *viewUnit) (*ir.Program, error) {
	if err := transform(unit); err != nil {
		return nil, err
	}
	return ir.NewProgram(unit.ops), nil
}

// removeEmptyControlFlow drops conditionals and iterations that can never
// emit anything, and empty @else programs.
func removeEmptyControlFlow(unit *viewUnit) error {
	ops := unit.ops[:0]
	for _, op := range unit.ops {
		switch o := op.(type) {
		case *ir.ConditionalOp:
			alternate := o.Alternate
			if alternate.Len() == 0 {
				alternate = nil
			}
			if o.Consequent.Len() == 0 && alternate == nil {
				continue
			}
			if alternate != o.Alternate {
				op = ir.NewConditionalOp(o.Test, o.Consequent, nil, o.SourceSpan())
			}
		case *ir.IterationOp:
			if o.Body.Len() == 0 {
				continue
			}
		}
		ops = append(ops, op)
	}
	unit.ops = ops
	return nil
}

// verifyElementBalance checks that every OpenElement in the unit is closed
// by a CloseElement with the same tag.
func verifyElementBalance(unit *viewUnit) error {
	var stack []*ir.ElementOp
	for _, op := range unit.ops {
		switch o := op.(type) {
		case *ir.ElementOp:
			if o.GetKind() == ir.OpKindOpenElement {
				stack = append(stack, o)
			}
		case *ir.CloseElementOp:
			if len(stack) == 0 || stack[len(stack)-1].Tag != o.Tag {
				return &StructuralError{Span: o.SourceSpan(), Msg: fmt.Sprintf("Unbalanced close of <%s>", o.Tag)}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return &StructuralError{Span: open.SourceSpan(), Msg: fmt.Sprintf("Element <%s> is never closed", open.Tag)}
	}
	return nil
}
