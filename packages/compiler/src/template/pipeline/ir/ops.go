package ir

import (
	"fmt"
	"strconv"

	"idomc-go/packages/compiler/src/attrs"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
	"idomc-go/packages/compiler/src/util"
)

// Op is one compiled instruction unit of a Program. Ops are immutable once
// built, so a Program may be executed from several goroutines at once.
type Op interface {
	GetKind() OpKind
	SourceSpan() *util.ParseSourceSpan
	// Execute emits the op's instructions for ctx into s
	Execute(ctx interface{}, s sink.Sink)
	String() string
}

type opBase struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the template span the op was compiled from
func (o *opBase) SourceSpan() *util.ParseSourceSpan {
	return o.sourceSpan
}

// ElementOp opens an element, or renders a void element, with attributes
// evaluated from its plan.
type ElementOp struct {
	opBase
	kind  OpKind
	Tag   string
	Attrs *attrs.Plan
}

// NewOpenElementOp creates an op that opens tag
func NewOpenElementOp(tag string, plan *attrs.Plan, sourceSpan *util.ParseSourceSpan) *ElementOp {
	return &ElementOp{opBase: opBase{sourceSpan}, kind: OpKindOpenElement, Tag: tag, Attrs: plan}
}

// NewVoidElementOp creates an op that renders tag with no children
func NewVoidElementOp(tag string, plan *attrs.Plan, sourceSpan *util.ParseSourceSpan) *ElementOp {
	return &ElementOp{opBase: opBase{sourceSpan}, kind: OpKindVoidElement, Tag: tag, Attrs: plan}
}

// GetKind returns the operation kind
func (o *ElementOp) GetKind() OpKind { return o.kind }

// Execute implements Op
func (o *ElementOp) Execute(ctx interface{}, s sink.Sink) {
	res := o.Attrs.Evaluate(ctx)
	if o.kind == OpKindVoidElement {
		s.VoidElement(o.Tag, res.Key, res.Static, res.Dynamic)
		return
	}
	s.OpenElement(o.Tag, res.Key, res.Static, res.Dynamic)
}

func (o *ElementOp) String() string {
	if o.Attrs.Len() == 0 {
		return fmt.Sprintf("%s %s", o.kind, o.Tag)
	}
	return fmt.Sprintf("%s %s [%s]", o.kind, o.Tag, o.Attrs)
}

// CloseElementOp closes the element opened by the matching ElementOp
type CloseElementOp struct {
	opBase
	Tag string
}

// NewCloseElementOp creates an op that closes tag
func NewCloseElementOp(tag string, sourceSpan *util.ParseSourceSpan) *CloseElementOp {
	return &CloseElementOp{opBase: opBase{sourceSpan}, Tag: tag}
}

// GetKind returns the operation kind
func (o *CloseElementOp) GetKind() OpKind { return OpKindCloseElement }

// Execute implements Op
func (o *CloseElementOp) Execute(ctx interface{}, s sink.Sink) {
	s.CloseElement(o.Tag)
}

func (o *CloseElementOp) String() string {
	return fmt.Sprintf("%s %s", OpKindCloseElement, o.Tag)
}

// EmitTextOp renders a text node. When Bound is set the text is Path
// resolved against the context, otherwise it is Literal.
type EmitTextOp struct {
	opBase
	Literal string
	Path    scope.Path
	Bound   bool
}

// NewLiteralTextOp creates an op that always renders value
func NewLiteralTextOp(value string, sourceSpan *util.ParseSourceSpan) *EmitTextOp {
	return &EmitTextOp{opBase: opBase{sourceSpan}, Literal: value}
}

// NewBoundTextOp creates an op that renders the value found at path
func NewBoundTextOp(path scope.Path, sourceSpan *util.ParseSourceSpan) *EmitTextOp {
	return &EmitTextOp{opBase: opBase{sourceSpan}, Path: path, Bound: true}
}

// GetKind returns the operation kind
func (o *EmitTextOp) GetKind() OpKind { return OpKindEmitText }

// Execute implements Op. A missing path renders as empty text.
func (o *EmitTextOp) Execute(ctx interface{}, s sink.Sink) {
	if !o.Bound {
		s.Text(o.Literal)
		return
	}
	s.Text(scope.FormatText(scope.Resolve(o.Path, ctx)))
}

func (o *EmitTextOp) String() string {
	if o.Bound {
		return fmt.Sprintf("%s {%s}", OpKindEmitText, o.Path)
	}
	return fmt.Sprintf("%s %s", OpKindEmitText, strconv.Quote(o.Literal))
}

// ConditionalOp runs Consequent with the same context when Test resolves
// to a truthy value, and Alternate, if any, otherwise.
type ConditionalOp struct {
	opBase
	Test       scope.Path
	Consequent *Program
	Alternate  *Program
}

// NewConditionalOp creates a conditional op. alternate may be nil.
func NewConditionalOp(test scope.Path, consequent, alternate *Program, sourceSpan *util.ParseSourceSpan) *ConditionalOp {
	return &ConditionalOp{opBase: opBase{sourceSpan}, Test: test, Consequent: consequent, Alternate: alternate}
}

// GetKind returns the operation kind
func (o *ConditionalOp) GetKind() OpKind { return OpKindRunConditional }

// Execute implements Op. A missing test counts as false.
func (o *ConditionalOp) Execute(ctx interface{}, s sink.Sink) {
	if scope.Truthy(scope.Resolve(o.Test, ctx)) {
		o.Consequent.Invoke(ctx, s)
	} else if o.Alternate != nil {
		o.Alternate.Invoke(ctx, s)
	}
}

func (o *ConditionalOp) String() string {
	return fmt.Sprintf("%s {%s}", OpKindRunConditional, o.Test)
}

// IterationOp runs Body once per entry of the collection at Collection.
// Each run sees the outer context overlaid with the entry key bound to
// KeyName and the entry value bound to ValueName.
type IterationOp struct {
	opBase
	Collection scope.Path
	KeyName    string
	ValueName  string
	Body       *Program
}

// NewIterationOp creates an iteration op
func NewIterationOp(collection scope.Path, keyName, valueName string, body *Program, sourceSpan *util.ParseSourceSpan) *IterationOp {
	return &IterationOp{
		opBase:     opBase{sourceSpan},
		Collection: collection,
		KeyName:    keyName,
		ValueName:  valueName,
		Body:       body,
	}
}

// GetKind returns the operation kind
func (o *IterationOp) GetKind() OpKind { return OpKindRunIteration }

// Execute implements Op. A missing or non iterable collection runs the
// body zero times.
func (o *IterationOp) Execute(ctx interface{}, s sink.Sink) {
	scope.Each(scope.Resolve(o.Collection, ctx), func(key, val interface{}) {
		bindings := scope.MapOf(o.KeyName, key, o.ValueName, val)
		o.Body.Invoke(scope.NewOverlay(ctx, bindings), s)
	})
}

func (o *IterationOp) String() string {
	return fmt.Sprintf("%s {%s} %s, %s", OpKindRunIteration, o.Collection, o.ValueName, o.KeyName)
}
