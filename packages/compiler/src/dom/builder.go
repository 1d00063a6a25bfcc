// Package dom applies an instruction stream to a golang.org/x/net/html
// tree.
package dom

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
)

// Builder is a sink.Sink that builds an *html.Node fragment. HTML
// attributes only hold strings, so dynamic attributes such as event
// handlers and element keys are kept in side tables keyed by node.
type Builder struct {
	root     *html.Node
	stack    []*html.Node
	handlers map[*html.Node][]sink.Attr
	keys     map[*html.Node]string
	err      error
}

var _ sink.Sink = (*Builder)(nil)

// NewBuilder creates a Builder with an empty fragment
func NewBuilder() *Builder {
	b := &Builder{}
	b.Reset()
	return b
}

// Reset discards the tree built so far
func (b *Builder) Reset() {
	b.root = &html.Node{Type: html.DocumentNode}
	b.stack = []*html.Node{b.root}
	b.handlers = map[*html.Node][]sink.Attr{}
	b.keys = map[*html.Node]string{}
	b.err = nil
}

func (b *Builder) current() *html.Node {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) element(tag, key string, static, dynamic []sink.Attr) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range static {
		switch v := a.Value.(type) {
		case nil:
			continue
		case bool:
			if !v {
				continue
			}
			n.Attr = append(n.Attr, html.Attribute{Key: a.Name})
		default:
			n.Attr = append(n.Attr, html.Attribute{Key: a.Name, Val: scope.FormatText(v)})
		}
	}
	if len(dynamic) > 0 {
		b.handlers[n] = dynamic
	}
	if key != "" {
		b.keys[n] = key
	}
	b.current().AppendChild(n)
	return n
}

// OpenElement implements sink.Sink
func (b *Builder) OpenElement(tag, key string, static, dynamic []sink.Attr) {
	b.stack = append(b.stack, b.element(tag, key, static, dynamic))
}

// VoidElement implements sink.Sink
func (b *Builder) VoidElement(tag, key string, static, dynamic []sink.Attr) {
	b.element(tag, key, static, dynamic)
}

// CloseElement implements sink.Sink
func (b *Builder) CloseElement(tag string) {
	if len(b.stack) == 1 {
		b.setErr(fmt.Errorf("dom: close of <%s> with no open element", tag))
		return
	}
	if open := b.current(); open.Data != tag {
		b.setErr(fmt.Errorf("dom: close of <%s> while <%s> is open", tag, open.Data))
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// Text implements sink.Sink
func (b *Builder) Text(value string) {
	b.current().AppendChild(&html.Node{Type: html.TextNode, Data: value})
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first nesting error seen, or an error if an element is
// still open
func (b *Builder) Err() error {
	if b.err != nil {
		return b.err
	}
	if len(b.stack) > 1 {
		return fmt.Errorf("dom: <%s> is never closed", b.current().Data)
	}
	return nil
}

// Root returns the fragment root. Its children are the top level nodes.
func (b *Builder) Root() *html.Node {
	return b.root
}

// Handlers returns the dynamic attributes bound to n
func (b *Builder) Handlers(n *html.Node) []sink.Attr {
	return b.handlers[n]
}

// Key returns the key n was opened with
func (b *Builder) Key(n *html.Node) string {
	return b.keys[n]
}

// FindByKey returns the first element, in document order, opened with key
func (b *Builder) FindByKey(key string) *html.Node {
	if key == "" {
		return nil
	}
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if b.keys[c] == key {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(b.root)
	return found
}

// Render writes the fragment as HTML
func (b *Builder) Render(w io.Writer) error {
	if err := b.Err(); err != nil {
		return err
	}
	for c := b.root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return err
		}
	}
	return nil
}
