// Package render turns an instruction stream into gomponents nodes so it
// can be written out as HTML.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	g "maragu.dev/gomponents"

	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
)

// ErrUnbalanced is wrapped by every nesting error a Builder reports.
var ErrUnbalanced = errors.New("render: unbalanced element stream")

type frame struct {
	tag      string
	children []g.Node
}

// Builder is a sink.Sink collecting gomponents nodes. Dynamic attributes
// are not serializable and are dropped; a key is written as KeyAttribute
// when that is set.
type Builder struct {
	// KeyAttribute names the HTML attribute element keys are rendered
	// into. Keys are dropped when empty.
	KeyAttribute string

	frames []*frame
	err    error
}

var _ sink.Sink = (*Builder)(nil)

func (b *Builder) top() *frame {
	if len(b.frames) == 0 {
		b.frames = []*frame{{}}
	}
	return b.frames[len(b.frames)-1]
}

func (b *Builder) attributes(key string, static []sink.Attr) []g.Node {
	var nodes []g.Node
	if key != "" && b.KeyAttribute != "" {
		nodes = append(nodes, g.Attr(b.KeyAttribute, key))
	}
	for _, a := range static {
		switch v := a.Value.(type) {
		case nil:
		case bool:
			if v {
				nodes = append(nodes, g.Attr(a.Name))
			}
		default:
			nodes = append(nodes, g.Attr(a.Name, scope.FormatText(v)))
		}
	}
	return nodes
}

// OpenElement implements sink.Sink
func (b *Builder) OpenElement(tag, key string, static, _ []sink.Attr) {
	b.top()
	b.frames = append(b.frames, &frame{tag: tag, children: b.attributes(key, static)})
}

// VoidElement implements sink.Sink
func (b *Builder) VoidElement(tag, key string, static, _ []sink.Attr) {
	parent := b.top()
	parent.children = append(parent.children, g.El(tag, b.attributes(key, static)...))
}

// CloseElement implements sink.Sink
func (b *Builder) CloseElement(tag string) {
	if len(b.frames) < 2 {
		b.fail("close of <%s> with no open element", tag)
		return
	}
	closed := b.top()
	if closed.tag != tag {
		b.fail("close of <%s> while <%s> is open", tag, closed.tag)
	}
	b.frames = b.frames[:len(b.frames)-1]
	parent := b.top()
	parent.children = append(parent.children, g.El(closed.tag, closed.children...))
}

// Text implements sink.Sink
func (b *Builder) Text(value string) {
	parent := b.top()
	parent.children = append(parent.children, g.Text(value))
}

func (b *Builder) fail(format string, args ...interface{}) {
	if b.err == nil {
		b.err = fmt.Errorf("%w: %s", ErrUnbalanced, fmt.Sprintf(format, args...))
	}
}

// Reset discards everything collected so far
func (b *Builder) Reset() {
	b.frames = nil
	b.err = nil
}

// Err reports the first nesting error, or an element left open
func (b *Builder) Err() error {
	if b.err != nil {
		return b.err
	}
	if len(b.frames) > 1 {
		return fmt.Errorf("%w: <%s> is never closed", ErrUnbalanced, b.top().tag)
	}
	return nil
}

// Node returns the top level nodes collected so far as one group
func (b *Builder) Node() g.Node {
	return g.Group(b.top().children)
}

// Render writes the collected nodes as HTML
func (b *Builder) Render(w io.Writer) error {
	if err := b.Err(); err != nil {
		return err
	}
	return b.Node().Render(w)
}

// String renders the collected nodes, or returns the empty string when the
// stream is unbalanced.
func (b *Builder) String() string {
	var out strings.Builder
	if err := b.Render(&out); err != nil {
		return ""
	}
	return out.String()
}
