package compiler

import (
	"fmt"
	"strings"

	"idomc-go/packages/compiler/src/ml_parser"
	"idomc-go/packages/compiler/src/render3"
	"idomc-go/packages/compiler/src/render3/view"
	"idomc-go/packages/compiler/src/template/pipeline"
	"idomc-go/packages/compiler/src/template/pipeline/ir"
	"idomc-go/packages/compiler/src/util"
)

// Options configures compilation
type Options struct {
	// TemplateURL names the template in error locations
	TemplateURL string

	// PreserveWhitespaces keeps whitespace-only text and runs of blanks that
	// are otherwise dropped or collapsed
	PreserveWhitespaces bool

	// KeyAttribute names an attribute whose value becomes the element key
	// handed to the sink. Empty disables keys.
	KeyAttribute string
}

func (o *Options) templateURL() string {
	if o.TemplateURL == "" {
		return "template.html"
	}
	return o.TemplateURL
}

// SyntaxError reports malformed template source. It carries every error
// found, each with its location.
type SyntaxError struct {
	Errors []*util.ParseError
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d template errors:\n%s", len(e.Errors), strings.Join(msgs, "\n"))
}

// Unwrap exposes each ParseError to errors.As
func (e *SyntaxError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Parse parses source into a template AST without compiling it
func Parse(source string, opts *Options) (*render3.Block, error) {
	if opts == nil {
		opts = &Options{}
	}

	parsed := ml_parser.NewHtmlParser().Parse(source, opts.templateURL(), nil)
	if len(parsed.Errors) > 0 {
		return nil, &SyntaxError{Errors: parsed.Errors}
	}

	nodes := parsed.RootNodes
	if !opts.PreserveWhitespaces {
		nodes = ml_parser.RemoveWhitespaces(nodes)
	}

	result := view.HtmlAstToRender3Ast(nodes)
	if len(result.Errors) > 0 {
		return nil, &SyntaxError{Errors: result.Errors}
	}
	return result.Root, nil
}

// Compile parses and compiles source. On error no Program is returned: a
// *SyntaxError for malformed source or a *pipeline.StructuralError for a
// node the compiler cannot place.
func Compile(source string, opts *Options) (*ir.Program, error) {
	root, err := Parse(source, opts)
	if err != nil {
		return nil, err
	}
	return CompileAST(root, opts)
}

// CompileAST compiles a template AST built by another parser
func CompileAST(root render3.Node, opts *Options) (*ir.Program, error) {
	if opts == nil {
		opts = &Options{}
	}
	return pipeline.Ingest(root, &pipeline.Options{KeyAttribute: opts.KeyAttribute})
}

// MustCompile is like Compile but panics on error. It simplifies
// initialization of package level templates.
func MustCompile(source string, opts *Options) *ir.Program {
	program, err := Compile(source, opts)
	if err != nil {
		panic(err)
	}
	return program
}
