package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate default config files",
	Long: `Create .jitcss.yaml (CLI settings) and tailwind.config.yaml (utility
config) in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		files := []struct {
			name    string
			content string
		}{
			{".jitcss.yaml", defaultCLIConfig},
			{"tailwind.config.yaml", defaultUtilityConfig},
		}
		for _, f := range files {
			if _, err := os.Stat(f.name); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", f.name)
			}
		}
		for _, f := range files {
			if err := os.WriteFile(f.name, []byte(f.content), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", f.name, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", f.name)
		}
		return nil
	},
}

const defaultCLIConfig = `# jitcss CLI configuration
# Docs: https://github.com/yacobolo/jitcss

verbose: false
quiet: false
tailwind-config: tailwind.config.yaml

build:
  input:
    - src/main.css
  output: dist/main.css
  watch: false
  report: text             # text | json
`

const defaultUtilityConfig = `# Utility config
mode: jit
prefix: ""
separator: ":"

content:
  - "src/**/*.html"
  - "src/**/*.templ"

theme:
  extend: {}

# Classes generated even when no content file uses them.
# safelist entries may be class names or {pattern: regexp} objects.
purge:
  safelist: []
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config files")
}
