package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"basalt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "basalt",
	Short: "Basalt semantic analyzer",
	Long:  `Basalt builds the program model for parsed AST bundles and reports semantic diagnostics`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("manifest", "", "path to basalt.toml (defaults to ./basalt.toml if present, else built-in settings)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag against the output terminal.
func useColor(mode string, out *os.File) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(out)
	}
}
