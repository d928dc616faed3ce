package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/color"
	"github.com/castkit-project/castkit/pkg/config"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Link this machine with a recording server account",
		Long: `Print the URL that links this machine's install ID with your account on
the recording server. Nothing is sent over the network; open the URL in a
browser to complete the link.

The server is taken from server.url in config.yaml or CASTKIT_SERVER_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := cfg.ServerURL()
			if err != nil {
				return err
			}
			id, err := config.InstallID(cfgDir)
			if err != nil {
				return err
			}
			authURL := server.JoinPath("connect", id).String()

			out := cmd.OutOrStdout()
			if jsonOutput {
				return outputJSON(out, map[string]string{
					"url":        authURL,
					"install_id": id,
				})
			}

			host := server.Hostname()
			fmt.Fprintf(out, "Open the following URL in a web browser to link this machine with your %s account:\n\n", host)
			fmt.Fprintf(out, "%s\n\n", color.Highlight(authURL))
			fmt.Fprintf(out, "Recordings uploaded from this machine, past and future, will then be managed from your account at %s.\n", host)
			return nil
		},
	}
}
