package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// verbose is set by parseArgs when --verbose/-v appears on the command
// line; it gates the logrus progress lines run.go emits.
var verbose bool

// log reports pipeline-stage progress under --verbose. It never carries
// the CLI/parse/runtime error messages themselves: those use the three
// fixed stderr formats from diag, printed separately by main.
var log = logrus.New()

// rootCmd disables cobra's own flag parsing: the CLI contract's `--args`
// switch must swallow every token after it verbatim, including ones
// that look like flags, which cobra's flag package cannot express.
// runScript parses os.Args itself instead.
var rootCmd = &cobra.Command{
	Use:   "vela [files...] [--dump-dt] [--max-recursion N] [--verbose] [--args ...]",
	Short: "Run Vela programs",
	Long: `vela runs programs written in Vela, a small statically typed
imperative scripting language.

A program is one or more source files: structs and variants describe
its data, a closed set of functions (one of them named main) describes
its behavior. Vela has no classes and no generics; function overloading
is resolved by the shortest BOOL < INT < FLOAT < STR promotion chain.`,
	Version:            Version,
	SilenceUsage:       true,
	SilenceErrors:      true,
	DisableFlagParsing: true,
	Args:               cobra.ArbitraryArgs,
	RunE:               runScript,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}
