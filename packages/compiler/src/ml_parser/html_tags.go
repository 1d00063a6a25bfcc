package ml_parser

import (
	"strings"
	"sync"
)

// TagContentType represents the content type of a tag
type TagContentType int

const (
	// Content is kept verbatim: no markup, entities or interpolation
	TagContentTypeRAW_TEXT TagContentType = iota
	TagContentTypePARSABLE_DATA
)

// TagDefinition defines the behavior of an HTML tag
type TagDefinition interface {
	IsVoid() bool
	IgnoreFirstLf() bool
	PreserveWhitespaces() bool
	GetContentType() TagContentType
}

// HtmlTagDefinition implements TagDefinition for HTML tags
type HtmlTagDefinition struct {
	contentType         TagContentType
	isVoid              bool
	ignoreFirstLf       bool
	preserveWhitespaces bool
}

// HtmlTagDefinitionOptions are options for creating an HtmlTagDefinition
type HtmlTagDefinitionOptions struct {
	ContentType         TagContentType
	IsVoid              bool
	IgnoreFirstLf       bool
	PreserveWhitespaces bool
}

// NewHtmlTagDefinition creates a new HtmlTagDefinition
func NewHtmlTagDefinition(opts HtmlTagDefinitionOptions) *HtmlTagDefinition {
	return &HtmlTagDefinition{
		contentType:         opts.ContentType,
		isVoid:              opts.IsVoid,
		ignoreFirstLf:       opts.IgnoreFirstLf,
		preserveWhitespaces: opts.PreserveWhitespaces,
	}
}

// IsVoid returns whether this tag is void
func (h *HtmlTagDefinition) IsVoid() bool {
	return h.isVoid
}

// IgnoreFirstLf returns whether to ignore first line feed
func (h *HtmlTagDefinition) IgnoreFirstLf() bool {
	return h.ignoreFirstLf
}

// PreserveWhitespaces returns whether whitespace-only text is significant
// inside this tag
func (h *HtmlTagDefinition) PreserveWhitespaces() bool {
	return h.preserveWhitespaces
}

// GetContentType returns the content type
func (h *HtmlTagDefinition) GetContentType() TagContentType {
	return h.contentType
}

var (
	tagDefinitionsOnce   sync.Once
	defaultTagDefinition *HtmlTagDefinition
	tagDefinitions       map[string]*HtmlTagDefinition
)

// GetHtmlTagDefinition returns the HTML tag definition for a tag name. The
// lookup is case-insensitive.
func GetHtmlTagDefinition(tagName string) TagDefinition {
	tagDefinitionsOnce.Do(initHtmlTagDefinitions)

	if def, exists := tagDefinitions[tagName]; exists {
		return def
	}
	if def, exists := tagDefinitions[strings.ToLower(tagName)]; exists {
		return def
	}
	return defaultTagDefinition
}

// IsVoidElement reports whether tagName is in the HTML void element table
func IsVoidElement(tagName string) bool {
	return GetHtmlTagDefinition(tagName).IsVoid()
}

func initHtmlTagDefinitions() {
	defaultTagDefinition = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType: TagContentTypePARSABLE_DATA,
	})

	tagDefinitions = make(map[string]*HtmlTagDefinition)

	voidTags := []string{"area", "base", "br", "col", "embed", "hr", "img", "input", "link", "meta", "param", "source", "track", "wbr"}
	for _, tag := range voidTags {
		tagDefinitions[tag] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
			ContentType: TagContentTypePARSABLE_DATA,
			IsVoid:      true,
		})
	}

	tagDefinitions["pre"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType:         TagContentTypePARSABLE_DATA,
		IgnoreFirstLf:       true,
		PreserveWhitespaces: true,
	})
	tagDefinitions["listing"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType:   TagContentTypePARSABLE_DATA,
		IgnoreFirstLf: true,
	})
	tagDefinitions["textarea"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType:         TagContentTypePARSABLE_DATA,
		IgnoreFirstLf:       true,
		PreserveWhitespaces: true,
	})
	tagDefinitions["style"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType: TagContentTypeRAW_TEXT,
	})
	tagDefinitions["script"] = NewHtmlTagDefinition(HtmlTagDefinitionOptions{
		ContentType: TagContentTypeRAW_TEXT,
	})
}
