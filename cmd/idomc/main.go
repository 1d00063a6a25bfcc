package main

import (
	"fmt"
	"io"
	"os"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, `idomc - incremental DOM template compiler
Usage: idomc <command> [flags] <path>

Commands:
  program <file>   Print the compiled program
  ops <file>       Print the instruction stream for a context
  html <file>      Render a template to HTML for a context
  build <dir>      Compile every template under dir into program listings
  check <dir>      Compile every template under dir and report errors
  help             Show help

Run "idomc <command> -h" for the flags of a command.`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	case "program":
		err = programCommand(rest, stdout)
	case "ops":
		err = opsCommand(rest, stdout)
	case "html":
		err = htmlCommand(rest, stdout)
	case "build":
		err = buildCommand(rest, stdout)
	case "check":
		err = checkCommand(rest, stdout)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		usage(stderr)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s error: %v\n", args[0], err)
		return 1
	}
	return 0
}
