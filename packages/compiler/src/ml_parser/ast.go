package ml_parser

import "idomc-go/packages/compiler/src/util"

// Node represents a node in the markup AST
type Node interface {
	SourceSpan() *util.ParseSourceSpan
	Visit(visitor Visitor, context interface{}) interface{}
}

// NodeBase carries the source span shared by all markup nodes
type NodeBase struct {
	sourceSpan *util.ParseSourceSpan
}

// SourceSpan returns the source span
func (n *NodeBase) SourceSpan() *util.ParseSourceSpan {
	return n.sourceSpan
}

// Text represents a run of text. Tokens keeps the TEXT and INTERPOLATION
// pieces in source order; Value is their concatenated source form.
type Text struct {
	*NodeBase
	Value  string
	Tokens []Token
}

// NewText creates a new Text node
func NewText(value string, sourceSpan *util.ParseSourceSpan, tokens []Token) *Text {
	return &Text{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Value:    value,
		Tokens:   tokens,
	}
}

// Visit implements the Node interface
func (t *Text) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Attribute represents an attribute node
type Attribute struct {
	*NodeBase
	Name string
	// Value is the decoded value text, empty when HasValue is false
	Value     string
	HasValue  bool
	Quoted    bool
	KeySpan   *util.ParseSourceSpan
	ValueSpan *util.ParseSourceSpan
}

// NewAttribute creates a new Attribute node
func NewAttribute(name, value string, hasValue, quoted bool, sourceSpan, keySpan, valueSpan *util.ParseSourceSpan) *Attribute {
	return &Attribute{
		NodeBase:  &NodeBase{sourceSpan: sourceSpan},
		Name:      name,
		Value:     value,
		HasValue:  hasValue,
		Quoted:    quoted,
		KeySpan:   keySpan,
		ValueSpan: valueSpan,
	}
}

// Visit implements the Node interface
func (a *Attribute) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttribute(a, context)
}

// Element represents an element node
type Element struct {
	*NodeBase
	Name            string
	Attrs           []*Attribute
	Children        []Node
	IsSelfClosing   bool
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
	IsVoid          bool
}

// NewElement creates a new Element node
func NewElement(name string, attrs []*Attribute, children []Node, isSelfClosing bool, sourceSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan, isVoid bool) *Element {
	return &Element{
		NodeBase:        &NodeBase{sourceSpan: sourceSpan},
		Name:            name,
		Attrs:           attrs,
		Children:        children,
		IsSelfClosing:   isSelfClosing,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
		IsVoid:          isVoid,
	}
}

// Visit implements the Node interface
func (e *Element) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// Comment represents a comment node
type Comment struct {
	*NodeBase
	Value string
}

// NewComment creates a new Comment node
func NewComment(value string, sourceSpan *util.ParseSourceSpan) *Comment {
	return &Comment{
		NodeBase: &NodeBase{sourceSpan: sourceSpan},
		Value:    value,
	}
}

// Visit implements the Node interface
func (c *Comment) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// Block represents a control flow block such as "@if (x) { ... }"
type Block struct {
	*NodeBase
	Name            string
	Parameters      []*BlockParameter
	Children        []Node
	NameSpan        *util.ParseSourceSpan
	StartSourceSpan *util.ParseSourceSpan
	EndSourceSpan   *util.ParseSourceSpan
}

// NewBlock creates a new Block node
func NewBlock(name string, parameters []*BlockParameter, children []Node, sourceSpan, nameSpan, startSourceSpan, endSourceSpan *util.ParseSourceSpan) *Block {
	return &Block{
		NodeBase:        &NodeBase{sourceSpan: sourceSpan},
		Name:            name,
		Parameters:      parameters,
		Children:        children,
		NameSpan:        nameSpan,
		StartSourceSpan: startSourceSpan,
		EndSourceSpan:   endSourceSpan,
	}
}

// Visit implements the Node interface
func (b *Block) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlock(b, context)
}

// BlockParameter represents a block parameter
type BlockParameter struct {
	*NodeBase
	Expression string
}

// NewBlockParameter creates a new BlockParameter node
func NewBlockParameter(expression string, sourceSpan *util.ParseSourceSpan) *BlockParameter {
	return &BlockParameter{
		NodeBase:   &NodeBase{sourceSpan: sourceSpan},
		Expression: expression,
	}
}

// Visit implements the Node interface
func (bp *BlockParameter) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlockParameter(bp, context)
}

// Visitor interface for visiting AST nodes
type Visitor interface {
	VisitElement(element *Element, context interface{}) interface{}
	VisitAttribute(attribute *Attribute, context interface{}) interface{}
	VisitText(text *Text, context interface{}) interface{}
	VisitComment(comment *Comment, context interface{}) interface{}
	VisitBlock(block *Block, context interface{}) interface{}
	VisitBlockParameter(parameter *BlockParameter, context interface{}) interface{}
}

// VisitAll visits all nodes with a visitor, dropping nil results
func VisitAll(visitor Visitor, nodes []Node, context interface{}) []interface{} {
	var result []interface{}
	for _, ast := range nodes {
		if astResult := ast.Visit(visitor, context); astResult != nil {
			result = append(result, astResult)
		}
	}
	return result
}
