package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"jot/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "Inspect and convert JSON documents through the compact value store",
	Long:  `jot parses JSON documents into the compact interned value representation and reports what they cost to keep resident.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the color mode from the flag, the config file and
// the output stream, in that order of precedence.
func useColor(cmd *cobra.Command, cfg *cliConfig, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	if mode == "" && cfg != nil {
		mode = cfg.Color
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
