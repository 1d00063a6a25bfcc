package render3

import (
	"fmt"
	"regexp"
	"strings"

	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/util"
)

// Pattern for the expression in a for loop block: "<value> of <path>" or
// "<value>, <key> of <path>"
var forLoopExpressionPattern = regexp.MustCompile(`^\s*([A-Za-z_$][0-9A-Za-z_$]*)(?:\s*,\s*([A-Za-z_$][0-9A-Za-z_$]*))?\s+of\s+([\S\s]*?)\s*$`)

// Pattern used to spot an "of" keyword in an expression the loop pattern rejected
var ofKeywordPattern = regexp.MustCompile(`(^|\s)of(\s|$)`)

// IsConnectedIfBlock determines if a block with a specific name can be connected to an `if` block
func IsConnectedIfBlock(name string) bool {
	return name == "else"
}

// CreateConditionalResult represents the result of creating a conditional
type CreateConditionalResult struct {
	Node   *Conditional
	Errors []*util.ParseError
}

// CreateConditional creates a Conditional from an `if` block and the `else`
// blocks that follow it. The visitor receives each child list as context
// so nested blocks can find their connected siblings.
func CreateConditional(
	ast *ml_parser.Block,
	connectedBlocks []*ml_parser.Block,
	visitor ml_parser.Visitor,
) CreateConditionalResult {
	errors := []*util.ParseError{}
	test := parseConditionalBlockParameters(ast, &errors)

	var alternate *Block
	endSpan := ast.SourceSpan()
	for _, block := range connectedBlocks {
		if alternate != nil {
			errors = append(errors, util.NewParseError(block.SourceSpan(), "Conditional can only have one @else block"))
			continue
		}
		if len(block.Parameters) > 0 {
			errors = append(errors, util.NewParseError(block.SourceSpan(), "@else block cannot have parameters"))
		}
		alternate = NewBlock(convertChildren(visitor, block.Children), block.SourceSpan())
		endSpan = block.SourceSpan()
	}

	if test == nil {
		return CreateConditionalResult{Errors: errors}
	}

	consequent := NewBlock(convertChildren(visitor, ast.Children), ast.SourceSpan())
	sourceSpan := ast.SourceSpan()
	if endSpan != nil && sourceSpan != nil {
		sourceSpan = util.NewParseSourceSpan(sourceSpan.Start, endSpan.End)
	}
	return CreateConditionalResult{
		Node:   NewConditional(test, consequent, alternate, sourceSpan),
		Errors: errors,
	}
}

// CreateIterationResult represents the result of creating an iteration
type CreateIterationResult struct {
	Node   *Iteration
	Errors []*util.ParseError
}

// CreateIteration creates an Iteration from a `for` block
func CreateIteration(ast *ml_parser.Block, visitor ml_parser.Visitor) CreateIterationResult {
	errors := []*util.ParseError{}
	params := parseForLoopParameters(ast, &errors)
	if params == nil {
		return CreateIterationResult{Errors: errors}
	}
	body := NewBlock(convertChildren(visitor, ast.Children), ast.SourceSpan())
	return CreateIterationResult{
		Node:   NewIteration(params.collection, params.keyName, params.valueName, body, ast.SourceSpan()),
		Errors: errors,
	}
}

type forLoopParameters struct {
	collection scope.Path
	keyName    string
	valueName  string
}

// parseForLoopParameters parses the parameters of a `for` loop block
func parseForLoopParameters(block *ml_parser.Block, errors *[]*util.ParseError) *forLoopParameters {
	if len(block.Parameters) == 0 {
		*errors = append(*errors, util.NewParseError(block.StartSourceSpan, "@for loop does not have an expression"))
		return nil
	}
	for _, param := range block.Parameters[1:] {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), fmt.Sprintf(`Unrecognized @for loop parameter "%s"`, param.Expression)))
	}

	param := block.Parameters[0]
	result := &forLoopParameters{}
	rawPath := param.Expression

	if match := forLoopExpressionPattern.FindStringSubmatch(param.Expression); match != nil {
		result.valueName, result.keyName, rawPath = match[1], match[2], match[3]
		if result.keyName == result.valueName {
			*errors = append(*errors, util.NewParseError(
				param.SourceSpan(),
				fmt.Sprintf(`@for loop key and value cannot both be called "%s"`, result.valueName),
			))
			return nil
		}
	} else if ofKeywordPattern.MatchString(param.Expression) {
		*errors = append(*errors, util.NewParseError(
			param.SourceSpan(),
			`Cannot parse expression. @for loop expression must match the pattern "<identifier> of <path>"`,
		))
		return nil
	}

	if strings.TrimSpace(rawPath) == "" {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), "@for loop does not have an expression"))
		return nil
	}
	collection, err := scope.ParsePath(rawPath)
	if err != nil {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), fmt.Sprintf("@for loop collection: %v", err)))
		return nil
	}
	result.collection = collection
	return result
}

// parseConditionalBlockParameters parses the test path of an `if` block
func parseConditionalBlockParameters(block *ml_parser.Block, errors *[]*util.ParseError) scope.Path {
	if len(block.Parameters) == 0 {
		*errors = append(*errors, util.NewParseError(block.StartSourceSpan, "Conditional block does not have an expression"))
		return nil
	}
	for _, param := range block.Parameters[1:] {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), "@if block can only have one expression"))
	}
	param := block.Parameters[0]
	test, err := scope.ParsePath(param.Expression)
	if err != nil {
		*errors = append(*errors, util.NewParseError(param.SourceSpan(), fmt.Sprintf("@if block condition: %v", err)))
		return nil
	}
	return test
}

// convertChildren visits a child list, handing the list itself over as the
// sibling context, and flattens the results into template nodes.
func convertChildren(visitor ml_parser.Visitor, children []ml_parser.Node) []Node {
	return ConvertToNodes(ml_parser.VisitAll(visitor, children, children))
}

// ConvertToNodes flattens visitor results into template nodes. A result may
// be a single Node or a []Node. Adjacent Text nodes are merged.
func ConvertToNodes(results []interface{}) []Node {
	nodes := []Node{}
	add := func(n Node) {
		if text, ok := n.(*Text); ok && len(nodes) > 0 {
			if prev, ok := nodes[len(nodes)-1].(*Text); ok {
				nodes[len(nodes)-1] = NewText(prev.Value+text.Value, joinSpans(prev.SourceSpan(), text.SourceSpan()))
				return
			}
		}
		nodes = append(nodes, n)
	}
	for _, r := range results {
		switch v := r.(type) {
		case Node:
			add(v)
		case []Node:
			for _, n := range v {
				add(n)
			}
		}
	}
	return nodes
}

func joinSpans(start, end *util.ParseSourceSpan) *util.ParseSourceSpan {
	if start == nil || end == nil {
		return start
	}
	return util.NewParseSourceSpan(start.Start, end.End)
}
