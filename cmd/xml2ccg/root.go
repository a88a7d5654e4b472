package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/xml2ccg/grammar"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	output *string
}{}

var rootCmd = &cobra.Command{
	Use:   "xml2ccg [grammar directory path]",
	Short: "Convert an OpenCCG grammar written in XML into .ccg text",
	Long: `xml2ccg reads the XML files of an OpenCCG grammar (*grammar.xml, *types.xml,
*morph.xml, *lexicon.xml, *rules.xml and *testbed.xml) from a directory and
writes the grammar as a single .ccg file. The directory defaults to the current
directory.`,
	Example:       `  xml2ccg grammars/tiny -o tiny.ccg`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runConvert,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.output = rootCmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// The output file is left untouched when the conversion fails.
	var buf bytes.Buffer
	err := grammar.Convert(&buf, dir)
	if err != nil {
		return err
	}

	if *rootFlags.output == "" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	return writeFile(*rootFlags.output, &buf)
}

// writeFile writes src to path. A failure to close the file is reported like a failed write.
func writeFile(path string, src io.WriterTo) (retErr error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("Cannot open the output file %s: %w", path, err)
	}
	defer func() {
		err := f.Close()
		if err != nil && retErr == nil {
			retErr = fmt.Errorf("Cannot write the output file %s: %w", path, err)
		}
	}()
	_, err = src.WriteTo(f)
	if err != nil {
		return fmt.Errorf("Cannot write the output file %s: %w", path, err)
	}
	return nil
}
