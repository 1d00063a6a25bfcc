package ml_parser

import (
	"fmt"

	"idomc-go/packages/compiler/src/util"
)

// TokenType represents the type of a token
type TokenType int

const (
	// parts: [name]
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	// parts: [name]
	TokenTypeTAG_CLOSE
	// parts: [decoded text]
	TokenTypeTEXT
	// parts: [raw text], content of script and style elements
	TokenTypeRAW_TEXT
	// parts: [start marker, expression, end marker]
	TokenTypeINTERPOLATION
	// parts: [comment body]
	TokenTypeCOMMENT
	// parts: [name]
	TokenTypeATTR_NAME
	// parts: [quote char]
	TokenTypeATTR_QUOTE
	// parts: [value]
	TokenTypeATTR_VALUE
	// parts: [name]
	TokenTypeBLOCK_OPEN_START
	// parts: [expression]
	TokenTypeBLOCK_PARAMETER
	TokenTypeBLOCK_OPEN_END
	TokenTypeBLOCK_CLOSE
	TokenTypeEOF
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeTAG_OPEN_START:    "TAG_OPEN_START",
	TokenTypeTAG_OPEN_END:      "TAG_OPEN_END",
	TokenTypeTAG_OPEN_END_VOID: "TAG_OPEN_END_VOID",
	TokenTypeTAG_CLOSE:         "TAG_CLOSE",
	TokenTypeTEXT:              "TEXT",
	TokenTypeRAW_TEXT:          "RAW_TEXT",
	TokenTypeINTERPOLATION:     "INTERPOLATION",
	TokenTypeCOMMENT:           "COMMENT",
	TokenTypeATTR_NAME:         "ATTR_NAME",
	TokenTypeATTR_QUOTE:        "ATTR_QUOTE",
	TokenTypeATTR_VALUE:        "ATTR_VALUE",
	TokenTypeBLOCK_OPEN_START:  "BLOCK_OPEN_START",
	TokenTypeBLOCK_PARAMETER:   "BLOCK_PARAMETER",
	TokenTypeBLOCK_OPEN_END:    "BLOCK_OPEN_END",
	TokenTypeBLOCK_CLOSE:       "BLOCK_CLOSE",
	TokenTypeEOF:               "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a token in the template source
type Token interface {
	Type() TokenType
	Parts() []string
	SourceSpan() *util.ParseSourceSpan
}

// TokenBase is the base implementation of Token
type TokenBase struct {
	tokenType  TokenType
	parts      []string
	sourceSpan *util.ParseSourceSpan
}

// NewToken creates a token of the given type
func NewToken(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *TokenBase {
	return &TokenBase{
		tokenType:  tokenType,
		parts:      parts,
		sourceSpan: sourceSpan,
	}
}

// Type returns the token type
func (t *TokenBase) Type() TokenType {
	return t.tokenType
}

// Parts returns the token parts
func (t *TokenBase) Parts() []string {
	return t.parts
}

// SourceSpan returns the source span
func (t *TokenBase) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

// TokenizeResult holds the result of tokenization
type TokenizeResult struct {
	Tokens []Token
	Errors []*util.ParseError
}

// TokenizeOptions configures the tokenizer
type TokenizeOptions struct {
	// PreserveLineEndings keeps "\r\n" sequences in text instead of
	// normalizing them to "\n".
	PreserveLineEndings bool
}
