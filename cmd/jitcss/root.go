package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jitcss",
	Short: "On-demand utility CSS generator",
	Long: `Scan content files for class names and generate only the utility
CSS they use. Stylesheets mark where generated CSS goes with
@tailwind base, components, utilities and variants directives.`,
	// Default behavior: run build when no subcommand is given.
	// PreRunE of buildCmd is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runBuild(buildCmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print timings and cache sizes for every build")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress reports and warnings")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".jitcss.yaml", "CLI config file path")
	rootCmd.PersistentFlags().StringP("tailwind-config", "c", "", "Utility config file (default: tailwind.config.{yaml,yml,json})")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
