package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shellemu/internal/config"
)

const exampleScript = `# Startup script
echo "Hello from the startup script!"
wtf
pwd
# exit
`

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create an example config and start script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := opts.configPath
			if cfgPath == "" {
				cfgPath = config.DefaultPath
			}
			written, err := config.WriteExample(cfgPath)
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "created example config: %s\n", cfgPath)
			}

			scriptPath := opts.overrides.Script
			if scriptPath == "" {
				scriptPath = config.Default().Script
			}
			if _, err := os.Stat(scriptPath); err == nil {
				return nil
			}
			if err := os.WriteFile(scriptPath, []byte(exampleScript), 0o644); err != nil {
				return fmt.Errorf("write example script: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created example script: %s\n", scriptPath)
			return nil
		},
	}
}
