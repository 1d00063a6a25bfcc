package ml_parser_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/util"
)

func tokenizeWithoutErrors(input string) []ml_parser.Token {
	result := ml_parser.Tokenize(input, "someUrl", ml_parser.GetHtmlTagDefinition, nil)
	if len(result.Errors) > 0 {
		panic(fmt.Sprintf("Unexpected parse errors:\n%v", result.Errors))
	}
	return result.Tokens
}

func tokenizeAndHumanizeParts(input string) []interface{} {
	return humanizeParts(tokenizeWithoutErrors(input))
}

func humanizeParts(tokens []ml_parser.Token) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokens {
		parts := []interface{}{token.Type()}
		for _, part := range token.Parts() {
			parts = append(parts, part)
		}
		humanized = append(humanized, parts)
	}
	return humanized
}

func tokenizeAndHumanizeErrors(input string) []interface{} {
	result := ml_parser.Tokenize(input, "someUrl", ml_parser.GetHtmlTagDefinition, nil)
	humanized := []interface{}{}
	for _, e := range result.Errors {
		humanized = append(humanized, []interface{}{e.Msg, humanizeLineColumn(e.Span.Start)})
	}
	return humanized
}

func humanizeLineColumn(location *util.ParseLocation) string {
	return fmt.Sprintf("%d:%d", location.Line, location.Col)
}

func TestHtmlLexer_Tags(t *testing.T) {
	t.Run("should parse attributes by quoting style", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "div"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "class"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "\""},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "a"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "\""},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "id"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "user.id"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "disabled"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "...rest"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts(`<div class="a" id=user.id disabled ...rest>`)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse self closing tags with single quotes", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "img"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "src"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "x"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "'"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END_VOID},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts(`<img src='x'/>`)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should decode entities in quoted values", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "p"},
			[]interface{}{ml_parser.TokenTypeATTR_NAME, "title"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "\""},
			[]interface{}{ml_parser.TokenTypeATTR_VALUE, "<x>"},
			[]interface{}{ml_parser.TokenTypeATTR_QUOTE, "\""},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "p"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts(`<p title="&lt;x&gt;"></p >`)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep script content as raw text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_START, "script"},
			[]interface{}{ml_parser.TokenTypeTAG_OPEN_END},
			[]interface{}{ml_parser.TokenTypeRAW_TEXT, "if (a < b) { go() }"},
			[]interface{}{ml_parser.TokenTypeTAG_CLOSE, "script"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts(`<script>if (a < b) { go() }</script>`)
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unterminated tags", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{`Unexpected character "EOF"`, "0:4"},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeErrors("<div")); diff != "" {
			t.Errorf("tokenizeAndHumanizeErrors() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlLexer_Text(t *testing.T) {
	t.Run("should split interpolations out of text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "Hello "},
			[]interface{}{ml_parser.TokenTypeINTERPOLATION, "{{", " name ", "}}"},
			[]interface{}{ml_parser.TokenTypeTEXT, "!"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("Hello {{ name }}!")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should decode entities and normalize line endings", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "a & b\nc"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("a &amp; b\r\nc")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should treat a lone less-than as text", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "<"},
			[]interface{}{ml_parser.TokenTypeTEXT, "3 and a < b"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("<3 and a < b")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep at signs that do not start a block", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "mail a@b.c or &#64;if"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("mail a@b.c or &amp;#64;if")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should parse comments", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeCOMMENT, " hi "},
			[]interface{}{ml_parser.TokenTypeTEXT, "x"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("<!-- hi -->x")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report unterminated interpolations", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{`Unterminated interpolation, expected "}}"`, "0:3"},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeErrors("hi {{ name")); diff != "" {
			t.Errorf("tokenizeAndHumanizeErrors() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlLexer_Blocks(t *testing.T) {
	t.Run("should parse if and else blocks", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_START, "if"},
			[]interface{}{ml_parser.TokenTypeBLOCK_PARAMETER, "user.active"},
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_END},
			[]interface{}{ml_parser.TokenTypeTEXT, "yes"},
			[]interface{}{ml_parser.TokenTypeBLOCK_CLOSE},
			[]interface{}{ml_parser.TokenTypeTEXT, " "},
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_START, "else"},
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_END},
			[]interface{}{ml_parser.TokenTypeTEXT, "no"},
			[]interface{}{ml_parser.TokenTypeBLOCK_CLOSE},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("@if ( user.active ) {yes} @else {no}")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep for parameters whole", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_START, "for"},
			[]interface{}{ml_parser.TokenTypeBLOCK_PARAMETER, "item, i of items"},
			[]interface{}{ml_parser.TokenTypeBLOCK_OPEN_END},
			[]interface{}{ml_parser.TokenTypeBLOCK_CLOSE},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		result := tokenizeAndHumanizeParts("@for (item, i of items){}")
		if diff := cmp.Diff(expected, result); diff != "" {
			t.Errorf("tokenizeAndHumanizeParts() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report blocks without a body", func(t *testing.T) {
		expected := []interface{}{
			[]interface{}{`Incomplete block "if". If you meant to write the @ character, you should use the "&#64;" HTML entity instead.`, "0:0"},
		}
		if diff := cmp.Diff(expected, tokenizeAndHumanizeErrors("@if (x) no brace")); diff != "" {
			t.Errorf("tokenizeAndHumanizeErrors() mismatch (-want +got):\n%s", diff)
		}

		result := ml_parser.Tokenize("@if (x) no brace", "someUrl", nil, nil)
		want := []interface{}{
			[]interface{}{ml_parser.TokenTypeTEXT, "no brace"},
			[]interface{}{ml_parser.TokenTypeEOF},
		}
		if diff := cmp.Diff(want, humanizeParts(result.Tokens)); diff != "" {
			t.Errorf("tokens after error mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestHtmlLexer_SourceSpans(t *testing.T) {
	tokens := tokenizeWithoutErrors("<p>\n  {{ x }}</p>")
	var got []string
	for _, token := range tokens {
		got = append(got, fmt.Sprintf("%s %s", token.Type(), humanizeLineColumn(token.SourceSpan().Start)))
	}
	expected := []string{
		"TAG_OPEN_START 0:0",
		"TAG_OPEN_END 0:2",
		"TEXT 0:3",
		"INTERPOLATION 1:2",
		"TAG_CLOSE 1:9",
		"EOF 1:13",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("source spans mismatch (-want +got):\n%s", diff)
	}
}
