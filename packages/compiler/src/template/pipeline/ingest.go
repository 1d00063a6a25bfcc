// Package pipeline lowers a template AST into an executable ir.Program.
package pipeline

import (
	"fmt"

	"idomc-go/packages/compiler/src/attrs"
	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/template/pipeline/ir"
)

// Options configures ingestion
type Options struct {
	// KeyAttribute names the attribute used as element key, see attrs.Options
	KeyAttribute string
}

// viewUnit collects the ops of one program: the template root or the body
// of a conditional or iteration.
type viewUnit struct {
	ops []ir.Op
}

func (u *viewUnit) push(op ir.Op) {
	u.ops = append(u.ops, op)
}

type ingestJob struct {
	attrOptions *attrs.Options
}

// Ingest compiles node into a Program. It runs once per template; the
// returned Program is then invoked once per render. No Program is returned
// when an error occurs.
func Ingest(node render3.Node, opts *Options) (*ir.Program, error) {
	if opts == nil {
		opts = &Options{}
	}
	job := &ingestJob{attrOptions: &attrs.Options{KeyAttribute: opts.KeyAttribute}}
	root := &viewUnit{}
	if err := job.ingestNode(root, node, render3.NodeKindNone); err != nil {
		return nil, err
	}
	return emitProgram(root)
}

// ingestNodes ingests the nodes of a template AST into the given unit
func (j *ingestJob) ingestNodes(unit *viewUnit, nodes []render3.Node, parent render3.NodeKind) error {
	for _, node := range nodes {
		if err := j.ingestNode(unit, node, parent); err != nil {
			return err
		}
	}
	return nil
}

func (j *ingestJob) ingestNode(unit *viewUnit, node render3.Node, parent render3.NodeKind) error {
	switch n := node.(type) {
	case *render3.Block:
		if n == nil {
			return nil
		}
		return j.ingestNodes(unit, n.Children, render3.NodeKindBlock)
	case *render3.Element:
		return j.ingestElement(unit, n)
	case *render3.Text:
		unit.push(ir.NewLiteralTextOp(n.Value, n.SourceSpan()))
		return nil
	case *render3.Expression:
		return j.ingestExpression(unit, n, parent)
	case *render3.Conditional:
		return j.ingestConditional(unit, n)
	case *render3.Iteration:
		return j.ingestIteration(unit, n)
	case nil:
		return newStructuralError(nil, parent, "Unexpected nil template node")
	default:
		return newStructuralError(node, parent, fmt.Sprintf("Unsupported template node: %T", node))
	}
}

// ingestElement ingests an element AST from the template into the given unit
func (j *ingestJob) ingestElement(unit *viewUnit, element *render3.Element) error {
	plan, err := attrs.Compile(element.Attributes, j.attrOptions)
	if err != nil {
		e := newStructuralError(element, render3.NodeKindElement, fmt.Sprintf("Invalid attributes on <%s>", element.Name))
		e.Err = err
		return e
	}

	if element.SelfClosing || ml_parser.IsVoidElement(element.Name) {
		if element.Children != nil && len(element.Children.Children) > 0 {
			return newStructuralError(element, render3.NodeKindElement, fmt.Sprintf("Void element <%s> cannot have children", element.Name))
		}
		unit.push(ir.NewVoidElementOp(element.Name, plan, element.SourceSpan()))
		return nil
	}

	unit.push(ir.NewOpenElementOp(element.Name, plan, element.StartSourceSpan))
	if element.Children != nil {
		if err := j.ingestNodes(unit, element.Children.Children, render3.NodeKindElement); err != nil {
			return err
		}
	}

	// The end span is the closing tag, or the start tag when there is none
	endSourceSpan := element.EndSourceSpan
	if endSourceSpan == nil {
		endSourceSpan = element.StartSourceSpan
	}
	unit.push(ir.NewCloseElementOp(element.Name, endSourceSpan))
	return nil
}

// ingestExpression ingests interpolated text. It is only valid as inline
// content of an element or block.
func (j *ingestJob) ingestExpression(unit *viewUnit, expression *render3.Expression, parent render3.NodeKind) error {
	if parent != render3.NodeKindElement && parent != render3.NodeKindBlock {
		return newStructuralError(expression, parent, fmt.Sprintf("Expression {{%s}} must be inline content, found under %s", expression.Path, parent))
	}
	unit.push(ir.NewBoundTextOp(expression.Path, expression.SourceSpan()))
	return nil
}

// ingestConditional compiles both branches into nested programs
func (j *ingestJob) ingestConditional(unit *viewUnit, conditional *render3.Conditional) error {
	consequent := &viewUnit{}
	if err := j.ingestNode(consequent, conditional.Consequent, render3.NodeKindConditional); err != nil {
		return err
	}

	consequentProgram, err := emitProgram(consequent)
	if err != nil {
		return err
	}

	var alternateProgram *ir.Program
	if conditional.Alternate != nil {
		alternate := &viewUnit{}
		if err := j.ingestNode(alternate, conditional.Alternate, render3.NodeKindConditional); err != nil {
			return err
		}
		if alternateProgram, err = emitProgram(alternate); err != nil {
			return err
		}
	}

	unit.push(ir.NewConditionalOp(conditional.Test, consequentProgram, alternateProgram, conditional.SourceSpan()))
	return nil
}

// ingestIteration compiles the loop body into a nested program
func (j *ingestJob) ingestIteration(unit *viewUnit, iteration *render3.Iteration) error {
	keyName, valueName := iteration.KeyName, iteration.ValueName
	if keyName == "" {
		keyName = render3.DefaultKeyName
	}
	if valueName == "" {
		valueName = render3.DefaultValueName
	}

	body := &viewUnit{}
	if err := j.ingestNode(body, iteration.Body, render3.NodeKindIteration); err != nil {
		return err
	}
	bodyProgram, err := emitProgram(body)
	if err != nil {
		return err
	}
	unit.push(ir.NewIterationOp(iteration.Collection, keyName, valueName, bodyProgram, iteration.SourceSpan()))
	return nil
}
