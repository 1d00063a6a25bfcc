package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"idomc-go/packages/compiler"
	"idomc-go/packages/compiler/src/config"
	"idomc-go/packages/compiler/src/dom"
	"idomc-go/packages/compiler/src/render"
	"idomc-go/packages/compiler/src/scope"
	"idomc-go/packages/compiler/src/sink"
	"idomc-go/packages/compiler/src/template/pipeline/ir"
)

// commonFlags are shared by every command
type commonFlags struct {
	preserveWhitespaces bool
	keyAttribute        string
	contextFile         string
}

func newFlagSet(name string, withContext bool) (*flag.FlagSet, *commonFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	c := &commonFlags{}
	fs.BoolVar(&c.preserveWhitespaces, "preserve-whitespaces", false, "Keep whitespace-only text and whitespace runs")
	fs.StringVar(&c.keyAttribute, "key-attr", "", "Attribute whose value becomes the element key")
	if withContext {
		fs.StringVar(&c.contextFile, "context", "", "YAML or JSON file holding the render context")
	}
	return fs, c
}

func (c *commonFlags) options(url string) *compiler.Options {
	return &compiler.Options{
		TemplateURL:         url,
		PreserveWhitespaces: c.preserveWhitespaces,
		KeyAttribute:        c.keyAttribute,
	}
}

func (c *commonFlags) context() (interface{}, error) {
	if c.contextFile == "" {
		return scope.NewMap(), nil
	}
	return scope.LoadFile(c.contextFile)
}

// singleArg parses fs and returns its only positional argument
func singleArg(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one path, got %d", fs.NArg())
	}
	return fs.Arg(0), nil
}

func compileFile(path string, c *commonFlags) (*ir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(string(data), c.options(filepath.ToSlash(path)))
}

func programCommand(args []string, stdout io.Writer) error {
	fs, c := newFlagSet("program", false)
	path, err := singleArg(fs, args)
	if err != nil {
		return err
	}
	program, err := compileFile(path, c)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, program.String())
	return err
}

func opsCommand(args []string, stdout io.Writer) error {
	fs, c := newFlagSet("ops", true)
	path, err := singleArg(fs, args)
	if err != nil {
		return err
	}
	program, err := compileFile(path, c)
	if err != nil {
		return err
	}
	ctx, err := c.context()
	if err != nil {
		return err
	}
	rec := &sink.Recorder{}
	program.Invoke(ctx, rec)
	_, err = io.WriteString(stdout, rec.String())
	return err
}

func htmlCommand(args []string, stdout io.Writer) error {
	fs, c := newFlagSet("html", true)
	engine := fs.String("engine", "gomponents", "Renderer to use: gomponents or dom")
	path, err := singleArg(fs, args)
	if err != nil {
		return err
	}
	program, err := compileFile(path, c)
	if err != nil {
		return err
	}
	ctx, err := c.context()
	if err != nil {
		return err
	}
	switch *engine {
	case "gomponents":
		b := &render.Builder{KeyAttribute: c.keyAttribute}
		program.Invoke(ctx, b)
		err = b.Render(stdout)
	case "dom":
		b := dom.NewBuilder()
		program.Invoke(ctx, b)
		err = b.Render(stdout)
	default:
		return fmt.Errorf("unknown engine %q", *engine)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout)
	return err
}

// openProject loads the project settings file under root and applies the
// flags that were set explicitly on top of it.
func openProject(fs *flag.FlagSet, c *commonFlags, root string) (*compiler.Project, *config.ProjectConfig, error) {
	cfg, err := config.Find(root)
	if err != nil {
		return nil, nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "preserve-whitespaces":
			cfg.PreserveWhitespaces = c.preserveWhitespaces
		case "key-attr":
			cfg.KeyAttribute = c.keyAttribute
		case "o":
			cfg.OutDir = f.Value.String()
		}
	})
	project, err := compiler.NewProject(root, &compiler.Options{
		PreserveWhitespaces: cfg.PreserveWhitespaces,
		KeyAttribute:        cfg.KeyAttribute,
	})
	if err != nil {
		return nil, nil, err
	}
	project.Exclude(cfg.Exclude...)
	return project, cfg, nil
}

func checkCommand(args []string, stdout io.Writer) error {
	fs, c := newFlagSet("check", false)
	root, err := singleArg(fs, args)
	if err != nil {
		return err
	}
	project, _, err := openProject(fs, c, root)
	if err != nil {
		return err
	}
	programs, err := project.CompileAll()
	fmt.Fprintf(stdout, "%d template(s) compiled\n", len(programs))
	return err
}

func buildCommand(args []string, stdout io.Writer) error {
	fs, c := newFlagSet("build", false)
	fs.String("o", "", "Output directory, relative to dir (default from "+config.FileName+" or "+config.DefaultOutDir+")")
	root, err := singleArg(fs, args)
	if err != nil {
		return err
	}
	project, cfg, err := openProject(fs, c, root)
	if err != nil {
		return err
	}
	outputDir := cfg.ResolveOutDir(project.Root())

	programs, compileErr := project.CompileAll()
	names := make([]string, 0, len(programs))
	for name := range programs {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		target := filepath.Join(outputDir, filepath.FromSlash(strings.TrimSuffix(name, compiler.TemplateExt)+".program"))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.WriteFile(target, []byte(programs[name].String()), 0o644); err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(stdout, "%s -> %s\n", name, target)
	}
	return errors.Join(compileErr, errors.Join(errs...))
}
