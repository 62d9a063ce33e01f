package cmd

import (
	"fmt"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/vela-lang/vela/internal/builtin"
	"github.com/vela-lang/vela/internal/include"
	"github.com/vela-lang/vela/internal/semantic"
)

var funcsCmd = &cobra.Command{
	Use:   "funcs [files...]",
	Short: "List every function signature a program can resolve",
	Long: `funcs loads and analyzes the given source files, then prints the
FunctionID (name plus parameter-type sequence) of every builtin and
user-declared function, in natural sort order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: listFuncs,
}

func init() {
	rootCmd.AddCommand(funcsCmd)
}

func listFuncs(_ *cobra.Command, files []string) error {
	prog, err := include.LoadAll(files, loadFile)
	if err != nil {
		return err
	}
	if err := semantic.Analyze(prog, files[0]); err != nil {
		return err
	}

	names := make([]string, 0, len(prog.Functions)+len(builtin.Signatures))
	for _, f := range prog.Functions {
		names = append(names, f.ID().String())
	}
	for _, s := range builtin.Signatures {
		names = append(names, s.ID().String())
	}

	natural.Sort(names)
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}
