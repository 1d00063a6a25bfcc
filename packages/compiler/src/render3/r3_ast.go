package render3

import (
	"fmt"

	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/util"
)

// NodeKind identifies the variant of a template node
type NodeKind int

const (
	// No node: the parent kind seen by top level nodes
	NodeKindNone NodeKind = iota

	// An ordered list of children
	NodeKindBlock

	// A tag with attributes and children
	NodeKindElement

	// Literal text
	NodeKindText

	// Text resolved from a context path
	NodeKindExpression

	// An @if block with an optional @else
	NodeKindConditional

	// An @for block
	NodeKindIteration
)

func (k NodeKind) String() string {
	switch k {
	case NodeKindNone:
		return "None"
	case NodeKindBlock:
		return "Block"
	case NodeKindElement:
		return "Element"
	case NodeKindText:
		return "Text"
	case NodeKindExpression:
		return "Expression"
	case NodeKindConditional:
		return "Conditional"
	case NodeKindIteration:
		return "Iteration"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node represents a node in the template AST
type Node interface {
	Kind() NodeKind
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor) interface{}
}

// Block is an ordered sequence of child nodes
type Block struct {
	Children   []Node
	sourceSpan *util.ParseSourceSpan
}

// NewBlock creates a new Block node
func NewBlock(children []Node, sourceSpan *util.ParseSourceSpan) *Block {
	return &Block{
		Children:   children,
		sourceSpan: sourceSpan,
	}
}

// Kind returns NodeKindBlock
func (b *Block) Kind() NodeKind { return NodeKindBlock }

// SourceSpan returns the source span
func (b *Block) SourceSpan() *util.ParseSourceSpan {
	return b.sourceSpan
}

// Visit visits the node with a visitor
func (b *Block) Visit(visitor Visitor) interface{} {
	return visitor.VisitBlock(b)
}

// AttributeValueKind says how an attribute value is interpreted
type AttributeValueKind int

const (
	// No value was written: a boolean attribute
	AttributeValueBoolean AttributeValueKind = iota

	// A quoted value, used verbatim
	AttributeValueLiteral

	// An unquoted value, resolved as a context path
	AttributeValuePath
)

// Attribute is a single attribute as written on an element
type Attribute struct {
	Name       string
	ValueKind  AttributeValueKind
	Value      string
	sourceSpan *util.ParseSourceSpan
	KeySpan    *util.ParseSourceSpan
	ValueSpan  *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute
func NewAttribute(name string, valueKind AttributeValueKind, value string, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		Name:       name,
		ValueKind:  valueKind,
		Value:      value,
		sourceSpan: sourceSpan,
		KeySpan:    keySpan,
		ValueSpan:  valueSpan,
	}
}

// SourceSpan returns the source span
func (a *Attribute) SourceSpan() *util.ParseSourceSpan {
	return a.sourceSpan
}

// Element represents an element node
type Element struct {
	Name            string
	Attributes      []*Attribute
	Children        *Block
	SelfClosing     bool
	sourceSpan      *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewElement creates a new Element node. A nil children block is replaced
// by an empty one.
func NewElement(name string, attributes []*Attribute, children *Block, selfClosing bool, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *Element {
	if children == nil {
		children = NewBlock(nil, nil)
	}
	return &Element{
		Name:            name,
		Attributes:      attributes,
		Children:        children,
		SelfClosing:     selfClosing,
		sourceSpan:      sourceSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Kind returns NodeKindElement
func (e *Element) Kind() NodeKind { return NodeKindElement }

// SourceSpan returns the source span
func (e *Element) SourceSpan() *util.ParseSourceSpan {
	return e.sourceSpan
}

// Visit visits the node with a visitor
func (e *Element) Visit(visitor Visitor) interface{} {
	return visitor.VisitElement(e)
}

// Text represents a text node
type Text struct {
	Value      string
	sourceSpan *util.ParseSourceSpan
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan) *Text {
	return &Text{
		Value:      value,
		sourceSpan: sourceSpan,
	}
}

// Kind returns NodeKindText
func (t *Text) Kind() NodeKind { return NodeKindText }

// SourceSpan returns the source span
func (t *Text) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// Visit visits the node with a visitor
func (t *Text) Visit(visitor Visitor) interface{} {
	return visitor.VisitText(t)
}

// Expression is text looked up from the render context
type Expression struct {
	Path       scope.Path
	sourceSpan *util.ParseSourceSpan
}

// NewExpression creates a new Expression node
func NewExpression(path scope.Path, sourceSpan *util.ParseSourceSpan) *Expression {
	return &Expression{
		Path:       path,
		sourceSpan: sourceSpan,
	}
}

// Kind returns NodeKindExpression
func (e *Expression) Kind() NodeKind { return NodeKindExpression }

// SourceSpan returns the source span
func (e *Expression) SourceSpan() *util.ParseSourceSpan {
	return e.sourceSpan
}

// Visit visits the node with a visitor
func (e *Expression) Visit(visitor Visitor) interface{} {
	return visitor.VisitExpression(e)
}

// Conditional renders Consequent when Test resolves to a truthy value and
// Alternate, which may be nil, otherwise.
type Conditional struct {
	Test       scope.Path
	Consequent *Block
	Alternate  *Block
	sourceSpan *util.ParseSourceSpan
}

// NewConditional creates a new Conditional node
func NewConditional(test scope.Path, consequent, alternate *Block, sourceSpan *util.ParseSourceSpan) *Conditional {
	if consequent == nil {
		consequent = NewBlock(nil, nil)
	}
	return &Conditional{
		Test:       test,
		Consequent: consequent,
		Alternate:  alternate,
		sourceSpan: sourceSpan,
	}
}

// Kind returns NodeKindConditional
func (c *Conditional) Kind() NodeKind { return NodeKindConditional }

// SourceSpan returns the source span
func (c *Conditional) SourceSpan() *util.ParseSourceSpan {
	return c.sourceSpan
}

// Visit visits the node with a visitor
func (c *Conditional) Visit(visitor Visitor) interface{} {
	return visitor.VisitConditional(c)
}

// Default binding names used when an @for block does not name them
const (
	DefaultKeyName   = "__key__"
	DefaultValueName = "__val__"
)

// Iteration renders Body once per entry of the collection at Collection,
// with the entry bound under KeyName and ValueName.
type Iteration struct {
	Collection scope.Path
	KeyName    string
	ValueName  string
	Body       *Block
	sourceSpan *util.ParseSourceSpan
}

// NewIteration creates a new Iteration node. Empty names fall back to
// DefaultKeyName and DefaultValueName.
func NewIteration(collection scope.Path, keyName, valueName string, body *Block, sourceSpan *util.ParseSourceSpan) *Iteration {
	if keyName == "" {
		keyName = DefaultKeyName
	}
	if valueName == "" {
		valueName = DefaultValueName
	}
	if body == nil {
		body = NewBlock(nil, nil)
	}
	return &Iteration{
		Collection: collection,
		KeyName:    keyName,
		ValueName:  valueName,
		Body:       body,
		sourceSpan: sourceSpan,
	}
}

// Kind returns NodeKindIteration
func (i *Iteration) Kind() NodeKind { return NodeKindIteration }

// SourceSpan returns the source span
func (i *Iteration) SourceSpan() *util.ParseSourceSpan {
	return i.sourceSpan
}

// Visit visits the node with a visitor
func (i *Iteration) Visit(visitor Visitor) interface{} {
	return visitor.VisitIteration(i)
}

// Visitor visits template nodes
type Visitor interface {
	VisitBlock(block *Block) interface{}
	VisitElement(element *Element) interface{}
	VisitText(text *Text) interface{}
	VisitExpression(expression *Expression) interface{}
	VisitConditional(conditional *Conditional) interface{}
	VisitIteration(iteration *Iteration) interface{}
}

// VisitAll visits all nodes with a visitor
func VisitAll(visitor Visitor, nodes []Node) []interface{} {
	result := []interface{}{}
	for _, node := range nodes {
		if r := node.Visit(visitor); r != nil {
			result = append(result, r)
		}
	}
	return result
}
