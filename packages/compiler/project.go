package compiler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"idomc-go/packages/compiler/src/template/pipeline/ir"
)

// TemplateExt is the file extension of template sources
const TemplateExt = ".html"

// Project compiles every template below a root directory
type Project struct {
	root    string
	options Options
	exclude []string
}

// NewProject creates a project rooted at root. opts may be nil.
func NewProject(root string, opts *Options) (*Project, error) {
	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	p := &Project{root: absPath}
	if opts != nil {
		p.options = *opts
	}
	return p, nil
}

// Root returns the absolute project directory
func (p *Project) Root() string {
	return p.root
}

// Exclude adds slash separated path.Match patterns. A file is skipped when
// its path relative to the root matches, a directory when its relative
// path does.
func (p *Project) Exclude(patterns ...string) {
	p.exclude = append(p.exclude, patterns...)
}

func (p *Project) excluded(file string) (bool, error) {
	rel, err := filepath.Rel(p.root, file)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range p.exclude {
		matched, err := path.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// DiscoverFiles finds all template files, in lexical order. Hidden
// directories and excluded paths are skipped.
func (p *Project) DiscoverFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if file == p.root {
			return nil
		}
		skip, err := p.excluded(file)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skip || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !skip && strings.HasSuffix(file, TemplateExt) {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// CompileFile compiles a single template file
func (p *Project) CompileFile(path string) (*ir.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	opts := p.options
	if rel, err := filepath.Rel(p.root, path); err == nil {
		opts.TemplateURL = filepath.ToSlash(rel)
	} else {
		opts.TemplateURL = path
	}
	return Compile(string(content), &opts)
}

// CompileAll compiles every discovered template. Programs are keyed by path
// relative to the root. Failures do not stop the run; they are joined into
// the returned error.
func (p *Project) CompileAll() (map[string]*ir.Program, error) {
	files, err := p.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	programs := make(map[string]*ir.Program, len(files))
	var errs []error
	for _, file := range files {
		rel, _ := filepath.Rel(p.root, file)
		rel = filepath.ToSlash(rel)
		program, err := p.CompileFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rel, err))
			continue
		}
		programs[rel] = program
	}
	return programs, errors.Join(errs...)
}
