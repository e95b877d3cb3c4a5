package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jot"
	"jot/codec"
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] file",
	Short: "Convert a document between JSON and MessagePack",
	Long:  `Convert parses the input into the compact value representation and re-emits it in the requested format, preserving key order and float fidelity.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().String("from", "", "input format (json|msgpack); default from file extension")
	convertCmd.Flags().String("to", "json", "output format (json|msgpack)")
	convertCmd.Flags().Int("indent", 0, "indent width for JSON output (0 = compact)")
	convertCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
}

func formatFromExt(path string) string {
	switch {
	case strings.HasSuffix(path, ".msgpack"), strings.HasSuffix(path, ".mp"):
		return "msgpack"
	default:
		return "json"
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	indent, _ := cmd.Flags().GetInt("indent")
	outPath, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if indent == 0 && cfg != nil {
		indent = cfg.Indent
	}
	if from == "" {
		from = formatFromExt(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var v jot.Value
	switch from {
	case "json":
		v, err = codec.Parse(data)
	case "msgpack":
		v, err = codec.DecodeMsgpack(bytes.NewReader(data))
	default:
		return fmt.Errorf("unknown input format: %s", from)
	}
	if err != nil {
		return err
	}
	defer v.Drop()

	var out []byte
	switch to {
	case "json":
		if indent > 0 {
			out, err = codec.AppendIndent(nil, v, strings.Repeat(" ", indent))
		} else {
			out, err = codec.MarshalJSON(v)
		}
		if err == nil {
			out = append(out, '\n')
		}
	case "msgpack":
		var buf bytes.Buffer
		err = codec.EncodeMsgpack(&buf, v)
		out = buf.Bytes()
	default:
		return fmt.Errorf("unknown output format: %s", to)
	}
	if err != nil {
		return err
	}

	if outPath == "" || outPath == "-" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}
