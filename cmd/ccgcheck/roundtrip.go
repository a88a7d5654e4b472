package main

import (
	"fmt"

	"github.com/nihei9/xml2ccg/config"
	"github.com/nihei9/xml2ccg/tester"
	"github.com/spf13/cobra"
)

var roundTripFlags = struct {
	compiler *string
	timeout  *string
	keep     *bool
	workDir  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "roundtrip <grammar directory path>...",
		Short: "Compile the converted grammars with ccg2xml and compare the XML documents",
		Example: `  ccgcheck roundtrip grammars/tiny grammars/arabic
  CCG2XML='python3 ccg2xml.py' ccgcheck roundtrip grammars/tiny`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRoundTrip,
	}
	roundTripFlags.compiler = cmd.Flags().String("compiler", "", fmt.Sprintf("ccg2xml command line (default $%v or ccg2xml)", config.EnvCompiler))
	roundTripFlags.timeout = cmd.Flags().String("timeout", "", fmt.Sprintf("time limit of one compilation (default $%v or 2m)", config.EnvTimeout))
	roundTripFlags.keep = cmd.Flags().Bool("keep", false, fmt.Sprintf("keep the regenerated XML files (default $%v)", config.EnvKeep))
	roundTripFlags.workDir = cmd.Flags().String("work-dir", "", "directory the regenerated grammars are written in (default the system temporary directory)")
	rootCmd.AddCommand(cmd)
}

func runRoundTrip(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("compiler") {
		c.Compiler = *roundTripFlags.compiler
	}
	if cmd.Flags().Changed("timeout") {
		d, err := parseTimeout(*roundTripFlags.timeout)
		if err != nil {
			return err
		}
		c.Timeout = d
	}
	if cmd.Flags().Changed("keep") {
		c.Keep = *roundTripFlags.keep
	}

	t := &tester.Tester{
		Compiler: &tester.Compiler{
			Command: c.Compiler,
			Timeout: c.Timeout,
		},
		WorkDir:      *roundTripFlags.workDir,
		Keep:         c.Keep,
		StoreOptions: storeOptions(),
		Logger:       newLogger(cmd),
	}
	var rs []*tester.TestResult
	for _, dir := range args {
		rs = append(rs, t.RoundTrip(cmd.Context(), dir))
	}
	return printResults(cmd, rs)
}
