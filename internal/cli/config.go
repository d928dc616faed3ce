package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/config"
	"github.com/castkit-project/castkit/pkg/logging"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config <command>",
		Short: "Manage castkit configuration",
		Long: `Manage castkit configuration stored in config.yaml.

Keys:
  server.url               - recording server used by auth
  convert.idle_time_limit  - default --idle-time-limit for convert (seconds, 0 = off)
  convert.speed            - default --speed for convert
  logging.level            - debug, info, warn or error`,
		DisableFlagsInUseLine: true,
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if jsonOutput {
				values := make(map[string]string, len(config.Keys))
				for _, key := range config.Keys {
					values[key], _ = cfg.Get(key)
				}
				return outputJSON(out, values)
			}

			fmt.Fprintf(out, "# Location: %s\n", filepath.Join(cfgDir, "config.yaml"))
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				fmt.Fprintf(out, "%s: %s\n", key, value)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Get a configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in config.yaml.

Examples:
  castkit config set convert.idle_time_limit 2
  castkit config set server.url https://asciinema.example.com`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], strings.TrimSpace(args[1])

			// edit the file contents, not the env-overridden view
			fileCfg, err := config.LoadFile(cfgDir)
			if err != nil {
				return err
			}
			if err := fileCfg.Set(key, value); err != nil {
				return err
			}
			if err := config.Save(cfgDir, fileCfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			logging.Debug("configuration saved", logging.Fields{"dir": cfgDir, "key": key})
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
			return nil
		},
	}
}
