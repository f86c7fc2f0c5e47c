package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shellemu/internal/app"
	"shellemu/internal/config"
	"shellemu/pkg/logger"
)

type options struct {
	configPath string
	overrides  config.Overrides
}

// New создает корневую CLI-команду. Без подкоманды запускается интерактивный режим.
func New(version string) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "shellemu",
		Short:        "Command interpreter emulator with an audit log",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return newFrontend(a, cmd.OutOrStdout()).Run(cmd.Context(), cmd.InOrStdin())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a YAML or TOML config (default ./config.yaml)")
	flags.StringVar(&opts.overrides.VFS, "vfs", "", "path to the VFS")
	flags.StringVar(&opts.overrides.Log, "log", "", "path to the command log")
	flags.StringVar(&opts.overrides.Script, "script", "", "path to the startup script")

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newScriptCmd(opts))
	root.AddCommand(newErrorsCmd(opts))
	root.AddCommand(newInitCmd(opts))

	return root
}

func (o *options) build(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Resolve(o.configPath, o.overrides)
	if err != nil {
		return nil, err
	}
	lg := logger.New(cmd.ErrOrStderr(), cfg.LogLevel)
	return app.NewApp(cmd.Context(), cfg, lg)
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
		},
	}
}

func newScriptCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "script [path]",
		Short: "Run a script without the interactive shell",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			path := a.Config.Script
			if len(args) == 1 {
				path = args[0]
			}
			_, err = a.Runner.Run(cmd.Context(), path, cmd.OutOrStdout())
			return err
		},
	}
}

func newErrorsCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "List recent error records",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.build(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.Store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			type recordDTO struct {
				Timestamp string `json:"timestamp"`
				User      string `json:"user"`
				Command   string `json:"command"`
				Error     string `json:"error"`
				SessionID string `json:"session_id,omitempty"`
			}
			items := make([]recordDTO, 0, len(recs))
			for _, rec := range recs {
				items = append(items, recordDTO{
					Timestamp: rec.Time.Format(time.RFC3339),
					User:      rec.User,
					Command:   rec.Command,
					Error:     rec.Error,
					SessionID: rec.SessionID,
				})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of records to show (at most 200)")
	return cmd
}
