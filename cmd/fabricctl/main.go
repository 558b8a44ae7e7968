// Command fabricctl is the fabric's command-line surface: format and
// query captured documents, fire a one-off SOAP call, and
// generate/validate a WSDL contract from a small JSON operation
// description. It replaces the teacher's hand-rolled flag.FlagSet CLI
// (xml/cli.go) with a cobra command tree.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wsforge/fabric/obslog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fabricctl:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "fabricctl",
		Short: "Inspect, convert, and exchange SOAP/XML/JSON messages",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			obslog.SetLevel(logLevel)
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newFormatCmd(),
		newQueryCmd(),
		newSoapCallCmd(),
		newWSDLCmd(),
	)
	return root
}

// readInput returns the named file's contents, or stdin's if path is
// "-" or empty.
func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
