package main

import (
	"github.com/nihei9/xml2ccg/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "self <grammar directory path>...",
		Short:   "Read the converted grammars back and compare their declarations with the XML documents",
		Example: `  ccgcheck self grammars/tiny`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runSelf,
	}
	rootCmd.AddCommand(cmd)
}

func runSelf(cmd *cobra.Command, args []string) error {
	t := &tester.Tester{
		StoreOptions: storeOptions(),
		Logger:       newLogger(cmd),
	}
	var rs []*tester.TestResult
	for _, dir := range args {
		rs = append(rs, t.SelfCheck(dir))
	}
	return printResults(cmd, rs)
}
