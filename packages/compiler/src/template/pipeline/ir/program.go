package ir

import (
	"strings"

	"idomc-go/packages/compiler/src/sink"
)

// Program is a compiled template: an ordered list of ops replayed against
// a context on every invocation. A Program never changes after it is built
// and can be invoked concurrently as long as each call has its own sink.
type Program struct {
	ops []Op
}

// NewProgram creates a Program from ops
func NewProgram(ops []Op) *Program {
	return &Program{ops: ops}
}

// Invoke runs every op in order against ctx, sending instructions to s.
// Missing context values degrade to empty text or false tests; Invoke
// never fails.
func (p *Program) Invoke(ctx interface{}, s sink.Sink) {
	if p == nil {
		return
	}
	for _, op := range p.ops {
		op.Execute(ctx, s)
	}
}

// Ops returns a copy of the op list
func (p *Program) Ops() []Op {
	if p == nil {
		return nil
	}
	ops := make([]Op, len(p.ops))
	copy(ops, p.ops)
	return ops
}

// Len returns the number of top level ops
func (p *Program) Len() int {
	if p == nil {
		return 0
	}
	return len(p.ops)
}

// String lists the ops one per line, nested programs indented under the op
// that owns them.
func (p *Program) String() string {
	var b strings.Builder
	p.write(&b, 0)
	return b.String()
}

func (p *Program) write(b *strings.Builder, depth int) {
	if p == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	for _, op := range p.ops {
		b.WriteString(indent)
		b.WriteString(op.String())
		b.WriteByte('\n')
		switch o := op.(type) {
		case *ConditionalOp:
			o.Consequent.write(b, depth+1)
			if o.Alternate != nil {
				b.WriteString(indent)
				b.WriteString("else\n")
				o.Alternate.write(b, depth+1)
			}
		case *IterationOp:
			o.Body.write(b, depth+1)
		}
	}
}
