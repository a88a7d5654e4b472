package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/nihei9/xml2ccg/store"
	"github.com/nihei9/xml2ccg/tester"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	verbose *bool
	lenient *bool
	envFile *string
}{}

var rootCmd = &cobra.Command{
	Use:   "ccgcheck",
	Short: "Check that xml2ccg preserves OpenCCG grammars",
	Long: `ccgcheck provides two checks of the .ccg text xml2ccg generates:
- roundtrip compiles the text back to XML with ccg2xml and compares the documents.
- self reads the text back and compares its declarations with the XML documents.
  This check needs no external tool.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootFlags.verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log absent and ignored documents to stderr")
	rootFlags.lenient = rootCmd.PersistentFlags().Bool("lenient", false, "treat malformed XML documents as absent")
	rootFlags.envFile = rootCmd.PersistentFlags().String("env-file", "", "environment file path (default .env)")
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if !*rootFlags.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "ccgcheck: ", 0)
}

func storeOptions() []store.Option {
	if *rootFlags.lenient {
		return []store.Option{store.Lenient()}
	}
	return nil
}

// printResults prints every result and fails when any of them failed.
func printResults(cmd *cobra.Command, rs []*tester.TestResult) error {
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(cmd.OutOrStdout(), r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
