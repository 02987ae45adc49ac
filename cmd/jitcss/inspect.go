package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yacobolo/jitcss"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the sort layout and generated rules of a build",
	Long: `Build each input once and print the layer and variant sort bits the
config compiled to, followed by the rules in each output bucket.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringSliceP("input", "i", nil, "Stylesheets to inspect (default src/main.css)")
}

func runInspect(cmd *cobra.Command, _ []string) error {
	config := buildBuildConfig()

	env, err := jitcss.LoadEnv()
	if err != nil {
		return err
	}
	env.Mode = "build"

	p, err := jitcss.New(jitcss.Options{
		ConfigPath: config.TailwindConfig,
		Env:        &env,
		Log:        io.Discard,
	})
	if err != nil {
		return err
	}
	defer p.Close()

	out := cmd.OutOrStdout()
	for _, input := range config.Inputs {
		res, err := p.ProcessFile(input)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\n%s", input, res.Inspect().Tree())
	}
	return nil
}
