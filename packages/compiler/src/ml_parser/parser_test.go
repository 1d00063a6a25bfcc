package ml_parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/util"
)

type humanizer struct {
	result []interface{}
	depth  int
}

func (h *humanizer) VisitElement(element *ml_parser.Element, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Element", element.Name, h.depth})
	for _, attr := range element.Attrs {
		attr.Visit(h, context)
	}
	h.visitChildren(element.Children, context)
	return nil
}

func (h *humanizer) VisitAttribute(attribute *ml_parser.Attribute, context interface{}) interface{} {
	if !attribute.HasValue {
		h.result = append(h.result, []interface{}{"Attribute", attribute.Name})
		return nil
	}
	h.result = append(h.result, []interface{}{"Attribute", attribute.Name, attribute.Value, attribute.Quoted})
	return nil
}

func (h *humanizer) VisitText(text *ml_parser.Text, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Text", text.Value, h.depth})
	return nil
}

func (h *humanizer) VisitComment(comment *ml_parser.Comment, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Comment", comment.Value, h.depth})
	return nil
}

func (h *humanizer) VisitBlock(block *ml_parser.Block, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"Block", block.Name, h.depth})
	for _, param := range block.Parameters {
		param.Visit(h, context)
	}
	h.visitChildren(block.Children, context)
	return nil
}

func (h *humanizer) VisitBlockParameter(parameter *ml_parser.BlockParameter, context interface{}) interface{} {
	h.result = append(h.result, []interface{}{"BlockParameter", parameter.Expression})
	return nil
}

func (h *humanizer) visitChildren(children []ml_parser.Node, context interface{}) {
	h.depth++
	ml_parser.VisitAll(h, children, context)
	h.depth--
}

func humanizeNodes(nodes []ml_parser.Node) []interface{} {
	h := &humanizer{result: []interface{}{}}
	ml_parser.VisitAll(h, nodes, nil)
	return h.result
}

func parse(input string) *ml_parser.ParseTreeResult {
	return ml_parser.NewHtmlParser().Parse(input, "TestComp", nil)
}

func humanizeDom(t *testing.T, result *ml_parser.ParseTreeResult) []interface{} {
	t.Helper()
	if len(result.Errors) > 0 {
		t.Fatalf("Unexpected parse errors:\n%v", result.Errors)
	}
	return humanizeNodes(result.RootNodes)
}

func humanizeErrors(errors []*util.ParseError) []interface{} {
	result := []interface{}{}
	for _, e := range errors {
		result = append(result, []interface{}{e.Msg, humanizeLineColumn(e.Span.Start)})
	}
	return result
}

func TestHtmlParser_Elements(t *testing.T) {
	t.Run("should parse nested elements and merge text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Element", "span", 1},
			[]interface{}{"Text", "Hello {{name}}", 2},
			[]interface{}{"Element", "br", 1},
			[]interface{}{"Text", "<3", 1},
		}
		result := humanizeDom(t, parse("<div><span>Hello {{name}}</span><br><3</div>"))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep attribute quoting and order", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "input", 0},
			[]interface{}{"Attribute", "type", "text", true},
			[]interface{}{"Attribute", "value", "user.name", false},
			[]interface{}{"Attribute", "disabled"},
			[]interface{}{"Attribute", "title", "", true},
			[]interface{}{"Attribute", "onClick", "handlers.click", true},
		}
		result := humanizeDom(t, parse(`<input type="text" value=user.name disabled title="" onClick="handlers.click"/>`))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should mark void and self closing elements", func(t *testing.T) {
		result := parse("<br><div/><img/>")
		if len(result.Errors) > 0 {
			t.Fatalf("Unexpected parse errors:\n%v", result.Errors)
		}
		var got [][]interface{}
		for _, node := range result.RootNodes {
			el := node.(*ml_parser.Element)
			got = append(got, []interface{}{el.Name, el.IsVoid, el.IsSelfClosing})
		}
		expected := [][]interface{}{
			{"br", true, false},
			{"div", false, true},
			{"img", true, true},
		}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("void flags mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should drop the first newline in pre", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "pre", 0},
			[]interface{}{"Text", "foo\n", 1},
		}
		result := humanizeDom(t, parse("<pre>\nfoo\n</pre>"))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep comments", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Comment", " note ", 0},
			[]interface{}{"Element", "p", 0},
		}
		result := humanizeDom(t, parse("<!-- note --><p></p>"))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlParser_Blocks(t *testing.T) {
	t.Run("should parse blocks with children", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Block", "if", 0},
			[]interface{}{"BlockParameter", "a"},
			[]interface{}{"Element", "b", 1},
			[]interface{}{"Text", "x", 2},
			[]interface{}{"Text", " ", 0},
			[]interface{}{"Block", "else", 0},
			[]interface{}{"Text", "y", 1},
		}
		result := humanizeDom(t, parse("@if (a) {<b>x</b>} @else {y}"))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should nest blocks inside elements", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "ul", 0},
			[]interface{}{"Block", "for", 1},
			[]interface{}{"BlockParameter", "item of items"},
			[]interface{}{"Element", "li", 2},
			[]interface{}{"Text", "{{item}}", 3},
		}
		result := humanizeDom(t, parse("<ul>@for (item of items) {<li>{{item}}</li>}</ul>"))
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("humanizeDom() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlParser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []interface{}
	}{
		{
			name:  "mismatched closing tag",
			input: "<div></span>",
			expected: []interface{}{
				[]interface{}{`Unexpected closing tag "span". It may happen when the tag has already been closed by another tag. For more info see https://www.w3.org/TR/html5/syntax.html#closing-elements-that-have-implied-end-tags`, "0:5"},
				[]interface{}{`Unclosed element "div"`, "0:0"},
			},
		},
		{
			name:  "end tag on a void element",
			input: "<br></br>",
			expected: []interface{}{
				[]interface{}{`Void elements do not have end tags "br"`, "0:4"},
			},
		},
		{
			name:  "stray closing brace",
			input: "a}",
			expected: []interface{}{
				[]interface{}{`Unexpected closing block. The block may have been closed earlier. If you meant to write the } character, you should use the "&#125;" HTML entity instead.`, "0:1"},
			},
		},
		{
			name:  "unclosed block",
			input: "@if (a) {<p></p>",
			expected: []interface{}{
				[]interface{}{`Unclosed block "if"`, "0:0"},
			},
		},
		{
			name:  "element closed across a block",
			input: "<div>@if (a) {</div>}",
			expected: []interface{}{
				[]interface{}{`Unexpected closing tag "div". It may happen when the tag has already been closed by another tag. For more info see https://www.w3.org/TR/html5/syntax.html#closing-elements-that-have-implied-end-tags`, "0:14"},
				[]interface{}{`Unexpected closing block. The block may have been closed earlier. If you meant to write the } character, you should use the "&#125;" HTML entity instead.`, "0:20"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parse(tt.input)
			if diff := cmp.Diff(tt.expected, humanizeErrors(result.Errors)); diff != "" {
				t.Errorf("humanizeErrors() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveWhitespaces(t *testing.T) {
	t.Run("should drop blank text and collapse runs", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "div", 0},
			[]interface{}{"Element", "span", 1},
			[]interface{}{"Text", " a b {{ c }} ", 2},
		}
		result := parse("<div>\n  <span> a   b {{ c }}\n  </span>\n</div>")
		if len(result.Errors) > 0 {
			t.Fatalf("Unexpected parse errors:\n%v", result.Errors)
		}
		got := humanizeNodes(ml_parser.RemoveWhitespaces(result.RootNodes))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("RemoveWhitespaces() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep pre content and text with bindings", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{"Element", "pre", 0},
			[]interface{}{"Text", "  x  ", 1},
			[]interface{}{"Block", "if", 0},
			[]interface{}{"BlockParameter", "a"},
			[]interface{}{"Text", " {{b}}\n", 1},
		}
		result := parse("<pre>  x  </pre>\n@if (a) {\n  {{b}}\n}")
		if len(result.Errors) > 0 {
			t.Fatalf("Unexpected parse errors:\n%v", result.Errors)
		}
		got := humanizeNodes(ml_parser.RemoveWhitespaces(result.RootNodes))
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("RemoveWhitespaces() mismatch (-want +got):\n%s", diff)
		}
	})
}
