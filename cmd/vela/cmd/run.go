package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vela-lang/vela/internal/ast"
	"github.com/vela-lang/vela/internal/diag"
	"github.com/vela-lang/vela/internal/include"
	"github.com/vela-lang/vela/internal/interp"
	"github.com/vela-lang/vela/internal/lexer"
	"github.com/vela-lang/vela/internal/parser"
	"github.com/vela-lang/vela/internal/printer"
	"github.com/vela-lang/vela/internal/reader"
	"github.com/vela-lang/vela/internal/semantic"
	"github.com/vela-lang/vela/pkg/position"
)

// defaultMaxRecursion is the call-stack depth spec section 5 describes
// as "on the order of 10^3 frames" absent an explicit --max-recursion.
const defaultMaxRecursion = 1000

// runScript implements the CLI contract from spec section 6: it parses
// os.Args itself (rootCmd disables cobra's flag parsing so that tokens
// after a literal --args are never mistaken for vela's own flags),
// then drives the five-stage pipeline through to execution or, under
// --dump-dt, through to the document-tree printer instead.
func runScript(_ *cobra.Command, rawArgs []string) error {
	files, dumpDT, maxRecursion, programArgs, err := parseArgs(rawArgs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return diag.NewCLI("No source files were given")
	}
	seen := map[string]bool{}
	for _, f := range files {
		if seen[f] {
			return diag.NewCLI("File name given to interpreter more than once")
		}
		seen[f] = true
	}

	if verbose {
		log.Infof("loading %d source file(s)", len(files))
	}

	prog, err := include.LoadAll(files, loadFile)
	if err != nil {
		return err
	}

	root := files[0]
	if verbose {
		log.Info("running semantic analysis")
	}
	if err := semantic.Analyze(prog, root); err != nil {
		return err
	}

	if dumpDT {
		printer.Dump(prog, os.Stdout)
		return nil
	}

	if verbose {
		log.Infof("executing %s", root)
	}
	ip := interp.New(prog, root, os.Stdout, os.Stdin, programArgs, maxRecursion)
	return ip.Run()
}

// loadFile implements include.Loader: it opens path and runs it
// through the reader, lexer, and parser.
func loadFile(path string) (*ast.Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diag.New(diag.FileOpen, position.Start, path, "Cannot open file %s: %s", path, err)
	}
	defer f.Close()

	r := reader.New(f, path)
	lx := lexer.New(r, path)
	p, err := parser.New(lx, path)
	if err != nil {
		return nil, err
	}
	return p.ParseProgram()
}

// parseArgs splits the raw command line into source-file paths,
// --dump-dt / --max-recursion / --verbose flags, and the program
// argument vector that starts at a literal --args token and swallows
// every token after it verbatim (spec section 6).
func parseArgs(rawArgs []string) (files []string, dumpDT bool, maxRecursion int, programArgs []string, err error) {
	maxRecursion = defaultMaxRecursion
	i := 0
	for ; i < len(rawArgs); i++ {
		tok := rawArgs[i]
		switch {
		case tok == "--args":
			i++
			programArgs = append(programArgs, rawArgs[i:]...)
			return files, dumpDT, maxRecursion, programArgs, nil
		case tok == "--dump-dt":
			dumpDT = true
		case tok == "--verbose" || tok == "-v":
			verbose = true
		case tok == "--max-recursion":
			i++
			if i >= len(rawArgs) {
				return nil, false, 0, nil, diag.NewCLI("--max-recursion requires a value")
			}
			n, convErr := strconv.Atoi(rawArgs[i])
			if convErr != nil || n <= 0 {
				return nil, false, 0, nil, diag.NewCLI("--max-recursion requires a positive integer, got %s", rawArgs[i])
			}
			maxRecursion = n
		case len(tok) > 0 && tok[0] == '-' && tok != "-":
			return nil, false, 0, nil, diag.NewCLI("Unknown option %s", tok)
		default:
			files = append(files, tok)
		}
	}
	return files, dumpDT, maxRecursion, programArgs, nil
}
