package view

import (
	"fmt"
	"strings"

	"idomc-go/packages/compiler/src/attrs"
	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/util"
)

// Render3ParseResult is the template AST built from a markup tree
type Render3ParseResult struct {
	Root   *render3.Block
	Errors []*util.ParseError
}

// HtmlAstToRender3Ast converts markup nodes to template AST nodes. The
// root block is returned even when errors were reported.
func HtmlAstToRender3Ast(htmlNodes []ml_parser.Node) *Render3ParseResult {
	transformer := NewHtmlAstToIvyAst()
	nodes := render3.ConvertToNodes(ml_parser.VisitAll(transformer, htmlNodes, htmlNodes))

	var span *util.ParseSourceSpan
	if len(htmlNodes) > 0 {
		first, last := htmlNodes[0].SourceSpan(), htmlNodes[len(htmlNodes)-1].SourceSpan()
		if first != nil && last != nil {
			span = util.NewParseSourceSpan(first.Start, last.End)
		}
	}

	return &Render3ParseResult{
		Root:   render3.NewBlock(nodes, span),
		Errors: transformer.Errors,
	}
}

// HtmlAstToIvyAst transforms markup nodes into template nodes. Every visit
// method expects the list of siblings of the visited node as context.
type HtmlAstToIvyAst struct {
	Errors         []*util.ParseError
	processedNodes map[ml_parser.Node]bool // Nodes consumed as part of a connected block
}

// NewHtmlAstToIvyAst creates a new HtmlAstToIvyAst transformer
func NewHtmlAstToIvyAst() *HtmlAstToIvyAst {
	return &HtmlAstToIvyAst{
		Errors:         []*util.ParseError{},
		processedNodes: make(map[ml_parser.Node]bool),
	}
}

func (t *HtmlAstToIvyAst) reportError(span *util.ParseSourceSpan, msg string) {
	t.Errors = append(t.Errors, util.NewParseError(span, msg))
}

// VisitElement visits an element node
func (t *HtmlAstToIvyAst) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	attributes := make([]*render3.Attribute, 0, len(element.Attrs))
	for _, attr := range element.Attrs {
		if a, ok := attr.Visit(t, nil).(*render3.Attribute); ok {
			attributes = append(attributes, a)
		}
	}

	children := render3.ConvertToNodes(ml_parser.VisitAll(t, element.Children, element.Children))
	var childSpan *util.ParseSourceSpan
	if element.StartSourceSpan != nil && element.EndSourceSpan != nil {
		childSpan = util.NewParseSourceSpan(element.StartSourceSpan.End, element.EndSourceSpan.Start)
	}

	return render3.NewElement(
		element.Name,
		attributes,
		render3.NewBlock(children, childSpan),
		element.IsSelfClosing || element.IsVoid,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
	)
}

// VisitAttribute visits an attribute node. Context paths are checked here
// so malformed ones are reported with their position.
func (t *HtmlAstToIvyAst) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	name := attribute.Name
	valueSpan := attribute.ValueSpan
	if valueSpan == nil {
		valueSpan = attribute.SourceSpan()
	}

	if attrs.IsSpread(name) {
		if attribute.HasValue {
			t.reportError(valueSpan, fmt.Sprintf(`Spread attribute "%s" cannot have a value`, name))
			return nil
		}
		src := strings.TrimPrefix(name, attrs.SpreadPrefix)
		if _, err := scope.ParsePath(src); err != nil || strings.TrimSpace(src) == "" {
			t.reportError(attribute.SourceSpan(), fmt.Sprintf(`Spread attribute "%s" must name a context path`, name))
			return nil
		}
		return render3.NewAttribute(name, render3.AttributeValueBoolean, "", attribute.SourceSpan(), attribute.KeySpan, nil)
	}

	var kind render3.AttributeValueKind
	switch {
	case !attribute.HasValue:
		kind = render3.AttributeValueBoolean
	case attribute.Quoted:
		kind = render3.AttributeValueLiteral
	default:
		kind = render3.AttributeValuePath
	}

	if kind == render3.AttributeValuePath || (kind == render3.AttributeValueLiteral && attrs.IsEvent(name) && strings.TrimSpace(attribute.Value) != "") {
		if _, err := scope.ParsePath(attribute.Value); err != nil {
			t.reportError(valueSpan, fmt.Sprintf(`Invalid value for attribute "%s": %v`, name, err))
			return nil
		}
	}

	return render3.NewAttribute(name, kind, attribute.Value, attribute.SourceSpan(), attribute.KeySpan, attribute.ValueSpan)
}

// VisitText visits a text node, splitting out its interpolations
func (t *HtmlAstToIvyAst) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	if t.processedNodes[text] {
		return nil
	}
	if len(text.Tokens) == 0 {
		if text.Value == "" {
			return nil
		}
		return render3.NewText(text.Value, text.SourceSpan())
	}

	nodes := []render3.Node{}
	for _, token := range text.Tokens {
		switch token.Type() {
		case ml_parser.TokenTypeINTERPOLATION:
			expr := token.Parts()[1]
			if strings.TrimSpace(expr) == "" {
				t.reportError(token.SourceSpan(), "Blank expressions are not allowed in interpolated strings")
				continue
			}
			path, err := scope.ParsePath(expr)
			if err != nil {
				t.reportError(token.SourceSpan(), fmt.Sprintf("Invalid interpolation: %v", err))
				continue
			}
			nodes = append(nodes, render3.NewExpression(path, token.SourceSpan()))
		default:
			if value := strings.Join(token.Parts(), ""); value != "" {
				nodes = append(nodes, render3.NewText(value, token.SourceSpan()))
			}
		}
	}
	return nodes
}

// VisitComment drops comments; they never reach the rendered tree
func (t *HtmlAstToIvyAst) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	return nil
}

// VisitBlock visits a block node
func (t *HtmlAstToIvyAst) VisitBlock(block *ml_parser.Block, context interface{}) interface{} {
	// Check if this block has already been processed (as part of a connected block)
	if t.processedNodes[block] {
		return nil
	}

	siblings, _ := context.([]ml_parser.Node)
	index := -1
	for i, node := range siblings {
		if node == block {
			index = i
			break
		}
	}

	var result render3.Node
	var errors []*util.ParseError

	switch block.Name {
	case "if":
		connectedBlocks := t.findConnectedBlocks(index, siblings, render3.IsConnectedIfBlock)
		createResult := render3.CreateConditional(block, connectedBlocks, t)
		if createResult.Node != nil {
			result = createResult.Node
		}
		errors = createResult.Errors
		// Mark connected blocks as processed
		for _, connectedBlock := range connectedBlocks {
			t.processedNodes[connectedBlock] = true
		}

	case "for":
		createResult := render3.CreateIteration(block, t)
		if createResult.Node != nil {
			result = createResult.Node
		}
		errors = createResult.Errors

	default:
		var errorMessage string
		if render3.IsConnectedIfBlock(block.Name) {
			errorMessage = fmt.Sprintf("@%s block can only be used after an @if block.", block.Name)
		} else {
			errorMessage = fmt.Sprintf("Unrecognized block @%s.", block.Name)
		}
		errors = []*util.ParseError{util.NewParseError(block.SourceSpan(), errorMessage)}
	}

	t.Errors = append(t.Errors, errors...)
	if result == nil {
		return nil
	}
	return result
}

// findConnectedBlocks finds connected blocks following a primary block
func (t *HtmlAstToIvyAst) findConnectedBlocks(
	primaryBlockIndex int,
	siblings []ml_parser.Node,
	predicate func(string) bool,
) []*ml_parser.Block {
	relatedBlocks := []*ml_parser.Block{}
	if primaryBlockIndex < 0 {
		return relatedBlocks
	}

	skipped := []ml_parser.Node{}
	for i := primaryBlockIndex + 1; i < len(siblings); i++ {
		node := siblings[i]

		// Skip over comments
		if _, ok := node.(*ml_parser.Comment); ok {
			continue
		}

		// Ignore empty text nodes between blocks
		if textNode, ok := node.(*ml_parser.Text); ok && strings.TrimSpace(textNode.Value) == "" {
			skipped = append(skipped, node)
			continue
		}

		block, ok := node.(*ml_parser.Block)
		if !ok || !predicate(block.Name) {
			break
		}
		relatedBlocks = append(relatedBlocks, block)
		// Whitespace between connected blocks is not rendered
		for _, n := range skipped {
			t.processedNodes[n] = true
		}
		skipped = skipped[:0]
	}

	return relatedBlocks
}

// VisitBlockParameter visits a block parameter
func (t *HtmlAstToIvyAst) VisitBlockParameter(parameter *ml_parser.BlockParameter, context interface{}) interface{} {
	return nil
}
