package ml_parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	xhtml "golang.org/x/net/html"

	"idomc-go/packages/compiler/src/core"
	"idomc-go/packages/compiler/src/util"
)

// SUPPORTED_BLOCKS lists the control flow block names recognized after "@".
// Any other "@" is plain text.
var SUPPORTED_BLOCKS = []string{
	"if",
	"else",
	"for",
}

var INTERPOLATION = struct {
	start string
	end   string
}{
	start: "{{",
	end:   "}}",
}

var crlfReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Tokenize splits source into tokens. Errors are collected rather than
// returned one at a time so a single pass reports every problem.
func Tokenize(source, url string, getTagDefinition func(tagName string) TagDefinition, options *TokenizeOptions) *TokenizeResult {
	file := util.NewParseSourceFile(source, url)
	t := NewTokenizer(file, getTagDefinition, options)
	t.Tokenize()
	return &TokenizeResult{
		Tokens: t.tokens,
		Errors: t.errors,
	}
}

// CursorState represents the state of a character cursor
type CursorState struct {
	Peek   int
	Offset int
	Line   int
	Column int
}

// CharacterCursor walks the source one code point at a time, tracking
// line and column for source spans.
type CharacterCursor struct {
	state CursorState
	file  *util.ParseSourceFile
	input string
}

// NewCharacterCursor creates a cursor positioned at the start of file
func NewCharacterCursor(file *util.ParseSourceFile) *CharacterCursor {
	c := &CharacterCursor{
		file:  file,
		input: file.Content,
	}
	c.updatePeek()
	return c
}

// Clone creates a copy of the cursor
func (c *CharacterCursor) Clone() *CharacterCursor {
	clone := *c
	return &clone
}

// Peek returns the current character
func (c *CharacterCursor) Peek() int {
	return c.state.Peek
}

// Advance advances the cursor by one character
func (c *CharacterCursor) Advance() {
	if c.state.Offset >= len(c.input) {
		panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(core.CharEOF), Cursor: c.Clone()})
	}
	r, size := utf8.DecodeRuneInString(c.input[c.state.Offset:])
	if int(r) == core.CharLF {
		c.state.Line++
		c.state.Column = 0
	} else if !core.IsNewLine(int(r)) {
		c.state.Column++
	}
	c.state.Offset += size
	c.updatePeek()
}

// Location returns the current position as a ParseLocation
func (c *CharacterCursor) Location() *util.ParseLocation {
	return util.NewParseLocation(c.file, c.state.Offset, c.state.Line, c.state.Column)
}

// GetSpan returns a span from start to current position
func (c *CharacterCursor) GetSpan(start *CharacterCursor) *util.ParseSourceSpan {
	if start == nil {
		start = c
	}
	return util.NewParseSourceSpan(start.Location(), c.Location())
}

// GetChars returns the source text between start and the current position
func (c *CharacterCursor) GetChars(start *CharacterCursor) string {
	return c.input[start.state.Offset:c.state.Offset]
}

// CharsLeft returns the number of bytes left in the input
func (c *CharacterCursor) CharsLeft() int {
	return len(c.input) - c.state.Offset
}

// Diff returns the distance in bytes between two cursors
func (c *CharacterCursor) Diff(other *CharacterCursor) int {
	return c.state.Offset - other.state.Offset
}

func (c *CharacterCursor) updatePeek() {
	if c.state.Offset >= len(c.input) {
		c.state.Peek = core.CharEOF
		return
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.state.Offset:])
	c.state.Peek = int(r)
}

// CursorError represents a cursor error
type CursorError struct {
	Msg    string
	Cursor *CharacterCursor
}

// Error implements the error interface
func (c *CursorError) Error() string {
	return c.Msg
}

// Tokenizer tokenizes template source
type Tokenizer struct {
	cursor              *CharacterCursor
	currentTokenStart   *CharacterCursor
	currentTokenType    TokenType
	preserveLineEndings bool
	tokens              []Token
	errors              []*util.ParseError
	getTagDefinition    func(tagName string) TagDefinition
}

// NewTokenizer creates a new Tokenizer
func NewTokenizer(file *util.ParseSourceFile, getTagDefinition func(tagName string) TagDefinition, options *TokenizeOptions) *Tokenizer {
	if getTagDefinition == nil {
		getTagDefinition = GetHtmlTagDefinition
	}
	preserveLineEndings := false
	if options != nil {
		preserveLineEndings = options.PreserveLineEndings
	}
	return &Tokenizer{
		cursor:              NewCharacterCursor(file),
		currentTokenType:    -1,
		preserveLineEndings: preserveLineEndings,
		tokens:              []Token{},
		errors:              []*util.ParseError{},
		getTagDefinition:    getTagDefinition,
	}
}

// Tokenize tokenizes the source
func (t *Tokenizer) Tokenize() {
	for t.cursor.Peek() != core.CharEOF {
		start := t.cursor.Clone()
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.handleError(r)
				}
			}()
			t._consumeNext(start)
		}()
		// a failed construct must still make progress
		if t.cursor.Diff(start) == 0 && t.cursor.Peek() != core.CharEOF {
			t.cursor.Advance()
		}
	}
	t._beginToken(TokenTypeEOF, nil)
	t._endToken([]string{}, nil)
}

func (t *Tokenizer) _consumeNext(start *CharacterCursor) {
	if t._attemptCharCode(core.CharLT) {
		if t._attemptStr("!--") {
			t._consumeComment(start)
		} else if t._attemptCharCode(core.CharSLASH) {
			t._consumeTagClose(start)
		} else {
			t._consumeTagOpen(start)
		}
	} else if t._isBlockStart() {
		t._consumeBlockStart(start)
	} else if t._attemptCharCode(core.CharRBRACE) {
		t._consumeBlockEnd(start)
	} else {
		t._consumeWithInterpolation()
	}
}

func (t *Tokenizer) _consumeComment(start *CharacterCursor) {
	t._beginToken(TokenTypeCOMMENT, start)
	contentStart := t.cursor.Clone()
	for !t._peekStr("-->") {
		if t.cursor.Peek() == core.CharEOF {
			panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(core.CharEOF), Cursor: t.cursor.Clone()})
		}
		t.cursor.Advance()
	}
	content := t.cursor.GetChars(contentStart)
	t._requireStr("-->")
	t._endToken([]string{t._processCarriageReturns(content)}, nil)
}

func (t *Tokenizer) _consumeTagOpen(start *CharacterCursor) {
	if !core.IsAsciiLetter(t.cursor.Peek()) {
		// a "<" that cannot start a tag is text
		t._beginToken(TokenTypeTEXT, start)
		t._endToken([]string{"<"}, nil)
		return
	}

	t._beginToken(TokenTypeTAG_OPEN_START, start)
	name := t._consumeName()
	t._endToken([]string{name}, nil)

	t._attemptCharCodeUntilFn(isNotWhitespace)
	for !isAttributesEnd(t.cursor.Peek()) {
		t._consumeAttr()
		t._attemptCharCodeUntilFn(isNotWhitespace)
	}
	selfClosing := t._consumeTagOpenEnd()

	if !selfClosing && t.getTagDefinition(name).GetContentType() == TagContentTypeRAW_TEXT {
		t._consumeRawText(name)
	}
}

func (t *Tokenizer) _consumeTagOpenEnd() bool {
	start := t.cursor.Clone()
	if t._attemptCharCode(core.CharSLASH) {
		t._beginToken(TokenTypeTAG_OPEN_END_VOID, start)
		t._requireCharCode(core.CharGT)
		t._endToken([]string{}, nil)
		return true
	}
	t._beginToken(TokenTypeTAG_OPEN_END, start)
	t._requireCharCode(core.CharGT)
	t._endToken([]string{}, nil)
	return false
}

func (t *Tokenizer) _consumeTagClose(start *CharacterCursor) {
	t._beginToken(TokenTypeTAG_CLOSE, start)
	t._attemptCharCodeUntilFn(isNotWhitespace)
	name := t._consumeName()
	t._attemptCharCodeUntilFn(isNotWhitespace)
	t._requireCharCode(core.CharGT)
	t._endToken([]string{name}, nil)
}

func (t *Tokenizer) _consumeAttr() {
	if core.IsQuote(t.cursor.Peek()) {
		panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(t.cursor.Peek()), Cursor: t.cursor.Clone()})
	}
	t._beginToken(TokenTypeATTR_NAME, nil)
	name := t._consumeName()
	t._endToken([]string{name}, nil)

	t._attemptCharCodeUntilFn(isNotWhitespace)
	if t._attemptCharCode(core.CharEQ) {
		t._attemptCharCodeUntilFn(isNotWhitespace)
		t._consumeAttributeValue()
	}
}

func (t *Tokenizer) _consumeAttributeValue() {
	if core.IsQuote(t.cursor.Peek()) {
		quoteChar := t.cursor.Peek()
		t._consumeQuote(quoteChar)
		valueStart := t.cursor.Clone()
		for t.cursor.Peek() != quoteChar {
			if t.cursor.Peek() == core.CharEOF {
				panic(&CursorError{Msg: _unexpectedCharacterErrorMsg(core.CharEOF), Cursor: t.cursor.Clone()})
			}
			t.cursor.Advance()
		}
		value := t.cursor.GetChars(valueStart)
		t._beginToken(TokenTypeATTR_VALUE, valueStart)
		t._endToken([]string{decodeEntities(t._processCarriageReturns(value))}, nil)
		t._consumeQuote(quoteChar)
		return
	}

	valueStart := t.cursor.Clone()
	t._requireCharCodeUntilFn(isNameEnd, 1)
	t._beginToken(TokenTypeATTR_VALUE, valueStart)
	t._endToken([]string{t.cursor.GetChars(valueStart)}, nil)
}

func (t *Tokenizer) _consumeQuote(quoteChar int) {
	t._beginToken(TokenTypeATTR_QUOTE, nil)
	t._requireCharCode(quoteChar)
	t._endToken([]string{string(rune(quoteChar))}, nil)
}

func (t *Tokenizer) _consumeName() string {
	nameStart := t.cursor.Clone()
	t._requireCharCodeUntilFn(isNameEnd, 1)
	return t.cursor.GetChars(nameStart)
}

// _consumeRawText reads everything up to the closing tag of tagName
func (t *Tokenizer) _consumeRawText(tagName string) {
	contentStart := t.cursor.Clone()
	t._beginToken(TokenTypeRAW_TEXT, contentStart)
	for t.cursor.Peek() != core.CharEOF && !t._isClosingTag(tagName) {
		t.cursor.Advance()
	}
	content := t.cursor.GetChars(contentStart)
	if content == "" {
		t.currentTokenStart = nil
		t.currentTokenType = -1
		return
	}
	t._endToken([]string{t._processCarriageReturns(content)}, nil)
}

func (t *Tokenizer) _isClosingTag(tagName string) bool {
	c := t.cursor.Clone()
	if c.Peek() != core.CharLT {
		return false
	}
	c.Advance()
	if c.Peek() != core.CharSLASH {
		return false
	}
	c.Advance()
	if c.CharsLeft() < len(tagName) {
		return false
	}
	for i := 0; i < len(tagName); i++ {
		if !compareCharCodeCaseInsensitive(c.Peek(), int(tagName[i])) {
			return false
		}
		c.Advance()
	}
	return isNameEnd(c.Peek())
}

func (t *Tokenizer) _isBlockStart() bool {
	if t.cursor.Peek() != core.CharAT {
		return false
	}
	name := t._peekBlockName()
	for _, supported := range SUPPORTED_BLOCKS {
		if name == supported {
			return true
		}
	}
	return false
}

func (t *Tokenizer) _peekBlockName() string {
	c := t.cursor.Clone()
	c.Advance()
	nameStart := c.Clone()
	for isBlockNameChar(c.Peek()) {
		c.Advance()
	}
	return c.GetChars(nameStart)
}

func (t *Tokenizer) _consumeBlockStart(start *CharacterCursor) {
	mark := len(t.tokens)

	t._beginToken(TokenTypeBLOCK_OPEN_START, start)
	t.cursor.Advance()
	name := t._getBlockName()
	t._endToken([]string{name}, nil)

	t._attemptCharCodeUntilFn(isNotWhitespace)
	if t._attemptCharCode(core.CharLPAREN) {
		t._attemptCharCodeUntilFn(isNotWhitespace)
		t._consumeBlockParameters()
		t._attemptCharCodeUntilFn(isNotWhitespace)
		if !t._attemptCharCode(core.CharRPAREN) {
			t.tokens = t.tokens[:mark]
			panic(&CursorError{Msg: incompleteBlockMsg(name), Cursor: start})
		}
		t._attemptCharCodeUntilFn(isNotWhitespace)
	}

	t._beginToken(TokenTypeBLOCK_OPEN_END, nil)
	if !t._attemptCharCode(core.CharLBRACE) {
		t.tokens = t.tokens[:mark]
		panic(&CursorError{Msg: incompleteBlockMsg(name), Cursor: start})
	}
	t._endToken([]string{}, nil)
}

func incompleteBlockMsg(name string) string {
	return fmt.Sprintf(`Incomplete block "%s". If you meant to write the @ character, you should use the "&#64;" HTML entity instead.`, name)
}

func (t *Tokenizer) _getBlockName() string {
	nameStart := t.cursor.Clone()
	t._attemptCharCodeUntilFn(func(code int) bool {
		return !isBlockNameChar(code)
	})
	return t.cursor.GetChars(nameStart)
}

func (t *Tokenizer) _consumeBlockParameters() {
	for t.cursor.Peek() != core.CharRPAREN && t.cursor.Peek() != core.CharEOF {
		start := t.cursor.Clone()
		t._beginToken(TokenTypeBLOCK_PARAMETER, start)
		depth := 0
	param:
		for {
			switch t.cursor.Peek() {
			case core.CharEOF:
				break param
			case core.CharSEMICOLON:
				if depth == 0 {
					break param
				}
			case core.CharLPAREN:
				depth++
			case core.CharRPAREN:
				if depth == 0 {
					break param
				}
				depth--
			}
			t.cursor.Advance()
		}
		t._endToken([]string{strings.TrimSpace(t.cursor.GetChars(start))}, nil)
		t._attemptCharCode(core.CharSEMICOLON)
		t._attemptCharCodeUntilFn(isNotWhitespace)
	}
}

func (t *Tokenizer) _consumeBlockEnd(start *CharacterCursor) {
	t._beginToken(TokenTypeBLOCK_CLOSE, start)
	t._endToken([]string{}, nil)
}

// _consumeWithInterpolation consumes text up to the next tag, block
// boundary or end of input, splitting out "{{ }}" interpolations.
func (t *Tokenizer) _consumeWithInterpolation() {
	t._beginToken(TokenTypeTEXT, nil)
	segmentStart := t.cursor.Clone()

	for !t._isTextEnd() {
		current := t.cursor.Clone()
		if t._attemptStr(INTERPOLATION.start) {
			t._endText(segmentStart, current)
			t._consumeInterpolation(current)
			segmentStart = t.cursor.Clone()
			t._beginToken(TokenTypeTEXT, nil)
		} else {
			t.cursor.Advance()
		}
	}
	t._endText(segmentStart, t.cursor)
}

func (t *Tokenizer) _endText(segmentStart, end *CharacterCursor) {
	text := end.GetChars(segmentStart)
	if text == "" {
		t.currentTokenStart = nil
		t.currentTokenType = -1
		return
	}
	t._endToken([]string{decodeEntities(t._processCarriageReturns(text))}, end)
}

func (t *Tokenizer) _consumeInterpolation(interpolationStart *CharacterCursor) {
	t._beginToken(TokenTypeINTERPOLATION, interpolationStart)
	exprStart := t.cursor.Clone()
	for !t._peekStr(INTERPOLATION.end) {
		if t.cursor.Peek() == core.CharEOF {
			panic(&CursorError{
				Msg:    fmt.Sprintf(`Unterminated interpolation, expected "%s"`, INTERPOLATION.end),
				Cursor: interpolationStart,
			})
		}
		t.cursor.Advance()
	}
	expr := t.cursor.GetChars(exprStart)
	t._requireStr(INTERPOLATION.end)
	t._endToken([]string{INTERPOLATION.start, expr, INTERPOLATION.end}, nil)
}

func (t *Tokenizer) _isTextEnd() bool {
	switch t.cursor.Peek() {
	case core.CharEOF, core.CharRBRACE:
		return true
	}
	return t._isTagStart() || t._isBlockStart()
}

func (t *Tokenizer) _isTagStart() bool {
	if t.cursor.Peek() != core.CharLT {
		return false
	}
	c := t.cursor.Clone()
	c.Advance()
	code := c.Peek()
	return core.IsAsciiLetter(code) || code == core.CharSLASH || code == core.CharBANG
}

// _beginToken begins a new token
func (t *Tokenizer) _beginToken(tokenType TokenType, start *CharacterCursor) {
	if start == nil {
		start = t.cursor.Clone()
	}
	t.currentTokenStart = start
	t.currentTokenType = tokenType
}

// _endToken ends the current token
func (t *Tokenizer) _endToken(parts []string, end *CharacterCursor) Token {
	if t.currentTokenStart == nil {
		panic("Programming error - attempted to end a token when there was no start to the token")
	}
	if t.currentTokenType == -1 {
		panic("Programming error - attempted to end a token which has no token type")
	}
	if end == nil {
		end = t.cursor
	}
	token := NewToken(t.currentTokenType, parts, end.GetSpan(t.currentTokenStart))
	t.tokens = append(t.tokens, token)
	t.currentTokenStart = nil
	t.currentTokenType = -1
	return token
}

func (t *Tokenizer) _processCarriageReturns(content string) string {
	if t.preserveLineEndings {
		return content
	}
	return crlfReplacer.Replace(content)
}

func (t *Tokenizer) _createError(msg string, span *util.ParseSourceSpan) *util.ParseError {
	t.currentTokenStart = nil
	t.currentTokenType = -1
	return util.NewParseError(span, msg)
}

func (t *Tokenizer) handleError(e interface{}) {
	if cursorErr, ok := e.(*CursorError); ok {
		t.errors = append(t.errors, t._createError(cursorErr.Msg, t.cursor.GetSpan(cursorErr.Cursor)))
	} else if parseErr, ok := e.(*util.ParseError); ok {
		t.errors = append(t.errors, parseErr)
	} else {
		panic(e)
	}
}

func (t *Tokenizer) _attemptCharCode(charCode int) bool {
	if t.cursor.Peek() == charCode {
		t.cursor.Advance()
		return true
	}
	return false
}

func (t *Tokenizer) _requireCharCode(charCode int) {
	location := t.cursor.Clone()
	if !t._attemptCharCode(charCode) {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: location,
		})
	}
}

func (t *Tokenizer) _attemptStr(charsStr string) bool {
	if !t._peekStr(charsStr) {
		return false
	}
	for i := 0; i < len(charsStr); i++ {
		t.cursor.Advance()
	}
	return true
}

func (t *Tokenizer) _requireStr(charsStr string) {
	location := t.cursor.Clone()
	if !t._attemptStr(charsStr) {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: location,
		})
	}
}

func (t *Tokenizer) _attemptCharCodeUntilFn(predicate func(code int) bool) {
	for !predicate(t.cursor.Peek()) {
		t.cursor.Advance()
	}
}

func (t *Tokenizer) _requireCharCodeUntilFn(predicate func(code int) bool, len int) {
	start := t.cursor.Clone()
	t._attemptCharCodeUntilFn(predicate)
	if t.cursor.Diff(start) < len {
		panic(&CursorError{
			Msg:    _unexpectedCharacterErrorMsg(t.cursor.Peek()),
			Cursor: start,
		})
	}
}

// _peekStr reports whether the input continues with charsStr (ASCII only)
func (t *Tokenizer) _peekStr(charsStr string) bool {
	if t.cursor.CharsLeft() < len(charsStr) {
		return false
	}
	cursor := t.cursor.Clone()
	for i := 0; i < len(charsStr); i++ {
		if cursor.Peek() != int(charsStr[i]) {
			return false
		}
		cursor.Advance()
	}
	return true
}

func decodeEntities(text string) string {
	if !strings.ContainsRune(text, '&') {
		return text
	}
	return xhtml.UnescapeString(text)
}

func isNotWhitespace(code int) bool {
	return !core.IsWhitespace(code) || code == core.CharEOF
}

func isNameEnd(code int) bool {
	return core.IsWhitespace(code) || code == core.CharGT || code == core.CharLT ||
		code == core.CharSLASH || code == core.CharSQ || code == core.CharDQ ||
		code == core.CharEQ || code == core.CharEOF
}

func isAttributesEnd(code int) bool {
	return code == core.CharGT || code == core.CharSLASH || code == core.CharLT || code == core.CharEOF
}

func isBlockNameChar(code int) bool {
	return core.IsAsciiLetter(code) || core.IsDigit(code) || code == core.CharUnderscore
}

func compareCharCodeCaseInsensitive(code1, code2 int) bool {
	return toUpperCaseCharCode(code1) == toUpperCaseCharCode(code2)
}

func toUpperCaseCharCode(code int) int {
	if code >= 'a' && code <= 'z' {
		return code - 32
	}
	return code
}

func _unexpectedCharacterErrorMsg(charCode int) string {
	char := string(rune(charCode))
	if charCode == core.CharEOF {
		char = "EOF"
	}
	return fmt.Sprintf("Unexpected character \"%s\"", char)
}
