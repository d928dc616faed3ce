package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/asciicast"
	"github.com/castkit-project/castkit/pkg/logging"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat <file>...",
		Short: "Concatenate recordings to stdout",
		Long: `Concatenate one or more recordings into a single v2 recording on stdout.

The header of the first file is used. Every following file is shifted so it
starts where the previous one ended.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeRecordings,
		RunE: func(cmd *cobra.Command, args []string) error {
			return catRecordings(cmd.OutOrStdout(), args)
		},
	}
}

func catRecordings(out io.Writer, paths []string) error {
	var offset uint64
	for i, path := range paths {
		end, err := appendRecording(out, path, offset, i == 0)
		if err != nil {
			return err
		}
		offset += end
		logging.Debug("appended recording", logging.Fields{"path": path, "offset": offset})
	}
	return nil
}

// appendRecording copies the events of path to out shifted by offset and
// returns the time of its last event.
func appendRecording(out io.Writer, path string, offset uint64, withHeader bool) (uint64, error) {
	r, err := openRecording(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	w := asciicast.NewWriter(out, offset)
	if withHeader {
		if err := w.WriteHeader(&r.Header); err != nil {
			return 0, err
		}
	}

	var last uint64
	for e, err := range r.Events {
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		if err := w.WriteEvent(e); err != nil {
			return 0, err
		}
		last = e.Time
	}
	return last, nil
}
