package util

import (
	"fmt"
	"strings"
)

// ParseSourceFile represents a template source
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// ParseLocation represents a location in the source file. Line and Col are
// zero based, String renders them one based.
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	url := ""
	if p.File != nil {
		url = p.File.URL
	}
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", url, p.Line+1, p.Col+1)
	}
	return url
}

// GetContext returns the source around the location, bounded by maxChars
// characters and maxLines lines in each direction.
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	if p.File == nil || p.Offset < 0 {
		return nil
	}
	content := p.File.Content
	if len(content) == 0 {
		return &Context{}
	}

	offset := p.Offset
	if offset > len(content) {
		offset = len(content)
	}

	startOffset := offset
	for chars, lines := 0, 0; chars < maxChars && startOffset > 0; chars++ {
		startOffset--
		if content[startOffset] == '\n' {
			lines++
			if lines == maxLines {
				startOffset++
				break
			}
		}
	}

	endOffset := offset
	for chars, lines := 0, 0; chars < maxChars && endOffset < len(content); chars++ {
		if content[endOffset] == '\n' {
			lines++
			if lines == maxLines {
				break
			}
		}
		endOffset++
	}

	return &Context{
		Before: content[startOffset:offset],
		After:  content[offset:endOffset],
	}
}

// Context represents source context around a location
type Context struct {
	Before string
	After  string
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start *ParseLocation
	End   *ParseLocation
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation) *ParseSourceSpan {
	return &ParseSourceSpan{
		Start: start,
		End:   end,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	if p == nil || p.Start == nil || p.End == nil || p.Start.File == nil {
		return ""
	}
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// ParseError is a positioned error in template source. The compiler
// surfaces these as syntax errors.
type ParseError struct {
	Span *ParseSourceSpan
	Msg  string
}

// NewParseError creates a new ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span: span,
		Msg:  msg,
	}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	return fmt.Sprintf("%s: %s", p.ContextualMessage(), p.Span.Start)
}

// ContextualMessage returns the error message with the surrounding source,
// marking the error position with "[ERROR ->]".
func (p *ParseError) ContextualMessage() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	ctx := p.Span.Start.GetContext(100, 3)
	if ctx == nil {
		return p.Msg
	}
	before := strings.ReplaceAll(ctx.Before, "\n", `\n`)
	after := strings.ReplaceAll(ctx.After, "\n", `\n`)
	return fmt.Sprintf(`%s ("%s[ERROR ->]%s")`, p.Msg, before, after)
}
