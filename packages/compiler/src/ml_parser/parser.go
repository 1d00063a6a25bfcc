package ml_parser

import (
	"fmt"
	"strings"

	"idomc-go/packages/compiler/src/util"
)

// TreeError represents a tree parsing error
type TreeError struct {
	*util.ParseError
	ElementName string
}

// NewTreeError creates a new TreeError
func NewTreeError(elementName string, span *util.ParseSourceSpan, msg string) *TreeError {
	return &TreeError{
		ParseError:  util.NewParseError(span, msg),
		ElementName: elementName,
	}
}

// ParseTreeResult represents the result of parsing a tree
type ParseTreeResult struct {
	RootNodes []Node
	Errors    []*util.ParseError
}

// NewParseTreeResult creates a new ParseTreeResult
func NewParseTreeResult(rootNodes []Node, errors []*util.ParseError) *ParseTreeResult {
	return &ParseTreeResult{
		RootNodes: rootNodes,
		Errors:    errors,
	}
}

// Parser turns template source into a markup tree
type Parser struct {
	GetTagDefinition func(tagName string) TagDefinition
}

// NewParser creates a new Parser
func NewParser(getTagDefinition func(tagName string) TagDefinition) *Parser {
	return &Parser{
		GetTagDefinition: getTagDefinition,
	}
}

// NewHtmlParser creates a Parser using the HTML tag table
func NewHtmlParser() *Parser {
	return NewParser(GetHtmlTagDefinition)
}

// Parse parses source code into a ParseTreeResult
func (p *Parser) Parse(source, url string, options *TokenizeOptions) *ParseTreeResult {
	tokenizeResult := Tokenize(source, url, p.GetTagDefinition, options)
	treeBuilder := NewTreeBuilder(tokenizeResult.Tokens, p.GetTagDefinition)
	treeBuilder.Build()

	allErrors := tokenizeResult.Errors
	for _, err := range treeBuilder.Errors() {
		allErrors = append(allErrors, err.ParseError)
	}
	return NewParseTreeResult(treeBuilder.RootNodes(), allErrors)
}

// TreeBuilder builds a tree from tokens
type TreeBuilder struct {
	index                 int
	peek                  Token
	containerStack        []Node
	rootNodes             []Node
	errors                []*TreeError
	tokens                []Token
	tagDefinitionResolver func(tagName string) TagDefinition
}

// NewTreeBuilder creates a new TreeBuilder. tokens must end with an EOF
// token.
func NewTreeBuilder(tokens []Token, tagDefinitionResolver func(tagName string) TagDefinition) *TreeBuilder {
	if tagDefinitionResolver == nil {
		tagDefinitionResolver = GetHtmlTagDefinition
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Type() != TokenTypeEOF {
		tokens = append(tokens, NewToken(TokenTypeEOF, []string{}, nil))
	}
	tb := &TreeBuilder{
		index:                 -1,
		containerStack:        []Node{},
		rootNodes:             []Node{},
		errors:                []*TreeError{},
		tokens:                tokens,
		tagDefinitionResolver: tagDefinitionResolver,
	}
	tb.advance()
	return tb
}

// Build builds the tree from tokens
func (tb *TreeBuilder) Build() {
	for tb.peek.Type() != TokenTypeEOF {
		switch tb.peek.Type() {
		case TokenTypeTAG_OPEN_START:
			tb._consumeStartTag(tb.advance())
		case TokenTypeTAG_CLOSE:
			tb._consumeEndTag(tb.advance())
		case TokenTypeTEXT, TokenTypeRAW_TEXT, TokenTypeINTERPOLATION:
			tb._consumeText(tb.advance())
		case TokenTypeCOMMENT:
			tb._consumeComment(tb.advance())
		case TokenTypeBLOCK_OPEN_START:
			tb._consumeBlockOpen(tb.advance())
		case TokenTypeBLOCK_CLOSE:
			tb._consumeBlockClose(tb.advance())
		default:
			// Skip all other tokens
			tb.advance()
		}
	}

	for _, leftoverContainer := range tb.containerStack {
		switch n := leftoverContainer.(type) {
		case *Block:
			tb.errors = append(tb.errors, NewTreeError(n.Name, n.SourceSpan(), fmt.Sprintf("Unclosed block \"%s\"", n.Name)))
		case *Element:
			tb.errors = append(tb.errors, NewTreeError(n.Name, n.SourceSpan(), fmt.Sprintf("Unclosed element \"%s\"", n.Name)))
		}
	}
}

func (tb *TreeBuilder) _consumeStartTag(startTag Token) {
	name := startTag.Parts()[0]
	attrs := []*Attribute{}
	for tb.peek.Type() == TokenTypeATTR_NAME {
		attrs = append(attrs, tb._consumeAttr(tb.advance()))
	}

	tagDef := tb._getTagDefinition(name)
	selfClosing := false
	incomplete := false
	end := startTag.SourceSpan().End
	switch tb.peek.Type() {
	case TokenTypeTAG_OPEN_END_VOID:
		selfClosing = true
		end = tb.advance().SourceSpan().End
	case TokenTypeTAG_OPEN_END:
		end = tb.advance().SourceSpan().End
	default:
		// The tokenizer has already reported the malformed tag
		incomplete = true
	}

	span := util.NewParseSourceSpan(startTag.SourceSpan().Start, end)
	el := NewElement(name, attrs, []Node{}, selfClosing, span, span, nil, tagDef.IsVoid())
	if selfClosing || incomplete || tagDef.IsVoid() {
		el.EndSourceSpan = span
		tb._addToParent(el)
		return
	}
	tb._pushContainer(el)
}

func (tb *TreeBuilder) _consumeAttr(attrName Token) *Attribute {
	name := attrName.Parts()[0]
	keySpan := attrName.SourceSpan()
	end := keySpan.End

	quoted := false
	hasValue := false
	value := ""
	var valueSpan *util.ParseSourceSpan

	if tb.peek.Type() == TokenTypeATTR_QUOTE {
		tb.advance()
		quoted = true
		hasValue = true
	}
	if tb.peek.Type() == TokenTypeATTR_VALUE {
		valueToken := tb.advance()
		value = valueToken.Parts()[0]
		valueSpan = valueToken.SourceSpan()
		end = valueSpan.End
		hasValue = true
	}
	if quoted && tb.peek.Type() == TokenTypeATTR_QUOTE {
		end = tb.advance().SourceSpan().End
	}

	span := util.NewParseSourceSpan(keySpan.Start, end)
	return NewAttribute(name, value, hasValue, quoted, span, keySpan, valueSpan)
}

func (tb *TreeBuilder) _consumeEndTag(endTag Token) {
	name := endTag.Parts()[0]
	if tb._getTagDefinition(name).IsVoid() {
		tb.errors = append(tb.errors, NewTreeError(name, endTag.SourceSpan(),
			fmt.Sprintf("Void elements do not have end tags \"%s\"", name)))
		return
	}
	if !tb._popContainer(name, false, endTag.SourceSpan()) {
		tb.errors = append(tb.errors, NewTreeError(name, endTag.SourceSpan(),
			fmt.Sprintf("Unexpected closing tag \"%s\". It may happen when the tag has already been closed by another tag. For more info see https://www.w3.org/TR/html5/syntax.html#closing-elements-that-have-implied-end-tags", name)))
	}
}

func (tb *TreeBuilder) _consumeComment(token Token) {
	tb._addToParent(NewComment(token.Parts()[0], token.SourceSpan()))
}

func (tb *TreeBuilder) _consumeText(token Token) {
	if token.Type() == TokenTypeTEXT {
		token = tb._stripFirstLf(token)
	}
	tokens := []Token{token}
	startSpan := token.SourceSpan()

	for tb.peek.Type() == TokenTypeTEXT ||
		tb.peek.Type() == TokenTypeRAW_TEXT ||
		tb.peek.Type() == TokenTypeINTERPOLATION {
		tokens = append(tokens, tb.advance())
	}

	var text strings.Builder
	for _, t := range tokens {
		text.WriteString(strings.Join(t.Parts(), ""))
	}
	if text.Len() > 0 {
		endSpan := tokens[len(tokens)-1].SourceSpan()
		fullSpan := util.NewParseSourceSpan(startSpan.Start, endSpan.End)
		tb._addToParent(NewText(text.String(), fullSpan, tokens))
	}
}

// _stripFirstLf drops a leading newline directly after the start tag of
// elements such as pre and textarea.
func (tb *TreeBuilder) _stripFirstLf(token Token) Token {
	text := token.Parts()[0]
	if !strings.HasPrefix(text, "\n") {
		return token
	}
	parent, ok := tb._getContainer().(*Element)
	if !ok || len(parent.Children) > 0 || !tb._getTagDefinition(parent.Name).IgnoreFirstLf() {
		return token
	}
	return NewToken(token.Type(), []string{text[1:]}, token.SourceSpan())
}

func (tb *TreeBuilder) _consumeBlockOpen(token Token) {
	blockName := token.Parts()[0]

	parameters := []*BlockParameter{}
	for tb.peek.Type() == TokenTypeBLOCK_PARAMETER {
		paramToken := tb.advance()
		parameters = append(parameters, NewBlockParameter(paramToken.Parts()[0], paramToken.SourceSpan()))
	}

	end := token.SourceSpan().End
	if tb.peek.Type() == TokenTypeBLOCK_OPEN_END {
		end = tb.advance().SourceSpan().End
	}

	span := util.NewParseSourceSpan(token.SourceSpan().Start, end)
	block := NewBlock(blockName, parameters, []Node{}, span, token.SourceSpan(), span, nil)
	tb._pushContainer(block)
}

// _consumeBlockClose consumes a block close token
func (tb *TreeBuilder) _consumeBlockClose(token Token) {
	if !tb._popContainer("", true, token.SourceSpan()) {
		tb.errors = append(tb.errors, NewTreeError(
			"",
			token.SourceSpan(),
			"Unexpected closing block. The block may have been closed earlier. If you meant to write the } character, you should use the \"&#125;\" HTML entity instead.",
		))
	}
}

func (tb *TreeBuilder) _getContainer() Node {
	if len(tb.containerStack) > 0 {
		return tb.containerStack[len(tb.containerStack)-1]
	}
	return nil
}

func (tb *TreeBuilder) _getTagDefinition(tagName string) TagDefinition {
	return tb.tagDefinitionResolver(tagName)
}

func (tb *TreeBuilder) _addToParent(node Node) {
	switch p := tb._getContainer().(type) {
	case nil:
		tb.rootNodes = append(tb.rootNodes, node)
	case *Element:
		p.Children = append(p.Children, node)
	case *Block:
		p.Children = append(p.Children, node)
	}
}

func (tb *TreeBuilder) _pushContainer(node Node) {
	tb._addToParent(node)
	tb.containerStack = append(tb.containerStack, node)
}

// _popContainer closes the nearest open element named expectedName, or the
// nearest block when isBlock is set. Anything still open above it is closed
// implicitly, which counts as an unexpected close.
func (tb *TreeBuilder) _popContainer(expectedName string, isBlock bool, endSourceSpan *util.ParseSourceSpan) bool {
	unexpectedCloseTagDetected := false
	for stackIndex := len(tb.containerStack) - 1; stackIndex >= 0; stackIndex-- {
		switch n := tb.containerStack[stackIndex].(type) {
		case *Element:
			if !isBlock && n.Name == expectedName {
				n.EndSourceSpan = endSourceSpan
				n.sourceSpan = util.NewParseSourceSpan(n.sourceSpan.Start, endSourceSpan.End)
				tb.containerStack = tb.containerStack[:stackIndex]
				return !unexpectedCloseTagDetected
			}
		case *Block:
			if isBlock {
				n.EndSourceSpan = endSourceSpan
				n.sourceSpan = util.NewParseSourceSpan(n.sourceSpan.Start, endSourceSpan.End)
				tb.containerStack = tb.containerStack[:stackIndex]
				return !unexpectedCloseTagDetected
			}
		}
		unexpectedCloseTagDetected = true
	}
	return false
}

func (tb *TreeBuilder) advance() Token {
	current := tb.peek
	if tb.index < len(tb.tokens)-1 {
		tb.index++
	}
	tb.peek = tb.tokens[tb.index]
	return current
}

// RootNodes returns the top level nodes
func (tb *TreeBuilder) RootNodes() []Node {
	return tb.rootNodes
}

// Errors returns the errors found while building the tree
func (tb *TreeBuilder) Errors() []*TreeError {
	return tb.errors
}
