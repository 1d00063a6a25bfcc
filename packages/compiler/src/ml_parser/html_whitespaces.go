package ml_parser

import (
	"regexp"
	"strings"
)

var skipWsTrimTags = map[string]bool{
	"pre":      true,
	"textarea": true,
	"script":   true,
	"style":    true,
}

// Equivalent to \s with \u00a0 (non-breaking space) excluded
const wsChars = " \f\n\r\t\v\u1680\u180e\u2000-\u200a\u2028\u2029\u202f\u205f\u3000\ufeff"

var (
	noWsRegexp      = regexp.MustCompile(`[^` + wsChars + `]`)
	wsReplaceRegexp = regexp.MustCompile(`[` + wsChars + `]{2,}`)
)

// WhitespaceVisitor drops whitespace-only text nodes and collapses runs of
// whitespace in the remaining ones. Content of pre, textarea, script and
// style is left untouched.
type WhitespaceVisitor struct{}

// NewWhitespaceVisitor creates a new WhitespaceVisitor
func NewWhitespaceVisitor() *WhitespaceVisitor {
	return &WhitespaceVisitor{}
}

// VisitElement visits an element node
func (w *WhitespaceVisitor) VisitElement(element *Element, context interface{}) interface{} {
	children := element.Children
	if !skipWsTrimTags[strings.ToLower(element.Name)] {
		children = toNodes(VisitAll(w, element.Children, context))
	}
	return NewElement(
		element.Name,
		element.Attrs,
		children,
		element.IsSelfClosing,
		element.SourceSpan(),
		element.StartSourceSpan,
		element.EndSourceSpan,
		element.IsVoid,
	)
}

// VisitAttribute visits an attribute node
func (w *WhitespaceVisitor) VisitAttribute(attribute *Attribute, context interface{}) interface{} {
	return attribute
}

// VisitText visits a text node
func (w *WhitespaceVisitor) VisitText(text *Text, context interface{}) interface{} {
	if !isBlankText(text) {
		tokens := make([]Token, len(text.Tokens))
		for i, token := range text.Tokens {
			if token.Type() == TokenTypeTEXT {
				tokens[i] = NewToken(TokenTypeTEXT, []string{processWhitespace(token.Parts()[0])}, token.SourceSpan())
			} else {
				tokens[i] = token
			}
		}
		return NewText(processWhitespace(text.Value), text.SourceSpan(), tokens)
	}
	return nil
}

// VisitComment visits a comment node
func (w *WhitespaceVisitor) VisitComment(comment *Comment, context interface{}) interface{} {
	return comment
}

// VisitBlock visits a block node
func (w *WhitespaceVisitor) VisitBlock(block *Block, context interface{}) interface{} {
	return NewBlock(
		block.Name,
		block.Parameters,
		toNodes(VisitAll(w, block.Children, context)),
		block.SourceSpan(),
		block.NameSpan,
		block.StartSourceSpan,
		block.EndSourceSpan,
	)
}

// VisitBlockParameter visits a block parameter
func (w *WhitespaceVisitor) VisitBlockParameter(parameter *BlockParameter, context interface{}) interface{} {
	return parameter
}

// RemoveWhitespaces returns a copy of nodes without insignificant
// whitespace. The input tree is not modified.
func RemoveWhitespaces(nodes []Node) []Node {
	return toNodes(VisitAll(NewWhitespaceVisitor(), nodes, nil))
}

// isBlankText reports whether text holds nothing but whitespace. Text with
// an interpolation is never blank.
func isBlankText(text *Text) bool {
	for _, token := range text.Tokens {
		if token.Type() != TokenTypeTEXT {
			return false
		}
		if noWsRegexp.MatchString(token.Parts()[0]) {
			return false
		}
	}
	return true
}

func processWhitespace(text string) string {
	return wsReplaceRegexp.ReplaceAllString(text, " ")
}

func toNodes(results []interface{}) []Node {
	nodes := make([]Node, 0, len(results))
	for _, r := range results {
		if node, ok := r.(Node); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}
