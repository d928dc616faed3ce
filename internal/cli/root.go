package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/color"
	"github.com/castkit-project/castkit/pkg/config"
	"github.com/castkit-project/castkit/pkg/logging"
)

var (
	jsonOutput bool
	logLevel   string
	noColor    bool

	// populated by the root PersistentPreRunE
	cfg    *config.Config
	cfgDir string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "castkit",
		Short: "castkit - asciicast recording toolkit",
		Long: `castkit reads, rewrites and concatenates asciicast terminal recordings.
Both the legacy v1 JSON document format and the line-delimited v2 format
are understood; output is always written as v2.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newCatCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVerifyCmd())
	cmd.AddCommand(newCompletionCmd())
	return cmd
}

func setup(cmd *cobra.Command, args []string) error {
	color.Init(noColor)
	if jsonOutput {
		color.Disable()
	}

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	loaded, err := config.Load(dir)
	if err != nil {
		return err
	}

	level := loaded.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	parsed, err := logging.ParseLevel(level)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(parsed)
	logger.SetOutput(cmd.ErrOrStderr())
	logging.SetGlobal(logger.With(logging.Fields{"command": cmd.CommandPath()}))

	cfg, cfgDir = loaded, dir
	logging.Debug("configuration loaded", logging.Fields{"dir": dir})
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmtErr("%v", err)
		os.Exit(1)
	}
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtErr(format string, args ...any) {
	prefix := color.Error("castkit:") + " "
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
