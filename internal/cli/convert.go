package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/internal/compression"
	"github.com/castkit-project/castkit/pkg/asciicast"
	"github.com/castkit-project/castkit/pkg/fsutil"
	"github.com/castkit-project/castkit/pkg/logging"
	"github.com/castkit-project/castkit/pkg/progress"
)

type convertOptions struct {
	idleTimeLimit float64
	speed         float64
	compression   string
	overwrite     bool
	progress      bool
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Re-encode a recording as asciicast v2",
		Long: `Re-encode a v1 or v2 recording as v2, optionally capping idle time and
changing playback speed. Use "-" for stdin or stdout. Gzip input is detected
automatically. Output is gzip-compressed when the path ends in .gz, unless
--compression picks a level explicitly (none, fast, default or max).

Defaults for --idle-time-limit, --speed and --compression come from the
convert section of config.yaml.

Examples:
  castkit convert old.json new.cast
  castkit convert --idle-time-limit 2 --speed 1.5 demo.cast short.cast.gz
  castkit convert --compression max demo.cast - > demo.cast.gz`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeRecordings,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("idle-time-limit") {
				opts.idleTimeLimit = cfg.Convert.IdleTimeLimit
			}
			if !cmd.Flags().Changed("speed") {
				opts.speed = cfg.Convert.Speed
			}
			if !cmd.Flags().Changed("compression") {
				opts.compression = cfg.Convert.Compression
			}
			if opts.idleTimeLimit < 0 {
				return fmt.Errorf("--idle-time-limit must not be negative")
			}
			if opts.speed <= 0 {
				return fmt.Errorf("--speed must be positive")
			}
			counter := progress.NewCounter(cmd.ErrOrStderr(), "converting", opts.progress && !jsonOutput)
			return convertRecording(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], args[1], opts, counter)
		},
	}

	cmd.Flags().Float64Var(&opts.idleTimeLimit, "idle-time-limit", 0, "cap pauses to this many seconds (0 disables)")
	cmd.Flags().Float64Var(&opts.speed, "speed", 1, "playback speed factor")
	cmd.Flags().StringVar(&opts.compression, "compression", "", "gzip level: none, fast, default or max (default: by output extension)")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace an existing output file")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show a running event count on stderr")
	return cmd
}

func convertRecording(stdin io.Reader, stdout io.Writer, in, out string, opts *convertOptions, counter *progress.Counter) error {
	comp, err := outputCompressor(out, opts.compression)
	if err != nil {
		return err
	}

	r, err := openInput(stdin, in)
	if err != nil {
		return err
	}
	defer r.Close()

	if out == "-" {
		n, err := writeCompressed(stdout, comp, r, opts, counter)
		if err != nil {
			return err
		}
		counter.Done(fmt.Sprintf("converted %d events", n))
		return nil
	}

	if !opts.overwrite {
		if _, err := os.Stat(out); err == nil {
			return fmt.Errorf("output file %s already exists (use --overwrite)", out)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	af, err := fsutil.CreateAtomic(out, 0644)
	if err != nil {
		return err
	}
	n, err := writeCompressed(af, comp, r, opts, counter)
	if err != nil {
		af.Abort()
		logging.ErrorErr("conversion aborted, output discarded", err, logging.Fields{"output": out, "events_written": n})
		return err
	}
	if err := af.Commit(); err != nil {
		return err
	}
	counter.Done(fmt.Sprintf("converted %d events to %s", n, out))

	logging.Info("recording converted", logging.Fields{
		"input":           in,
		"output":          out,
		"events":          n,
		"idle_time_limit": opts.idleTimeLimit,
		"speed":           opts.speed,
		"compression":     comp.String(),
	})
	return nil
}

// outputCompressor resolves the compression for out: an explicit level
// wins, otherwise the output extension decides.
func outputCompressor(out, level string) (*compression.Compressor, error) {
	if level == "" {
		return compression.ForPath(out), nil
	}
	return compression.NewCompressorFromString(level)
}

// writeCompressed runs writeRecording through comp and closes the
// compressed stream. w itself is not closed.
func writeCompressed(w io.Writer, comp *compression.Compressor, r *asciicast.Reader, opts *convertOptions, counter *progress.Counter) (int, error) {
	zw, err := comp.NewWriter(w)
	if err != nil {
		return 0, err
	}
	n, err := writeRecording(zw, r, opts, counter)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func openInput(stdin io.Reader, path string) (*asciicast.Reader, error) {
	if path != "-" {
		return openRecording(path)
	}
	rc, err := compression.NewReader(stdin)
	if err != nil {
		return nil, err
	}
	return asciicast.Open(rc)
}

// writeRecording writes the header and transformed events of r to w and
// returns the number of events written.
func writeRecording(w io.Writer, r *asciicast.Reader, opts *convertOptions, counter *progress.Counter) (int, error) {
	events := r.Events
	if opts.idleTimeLimit > 0 {
		events = asciicast.LimitIdleTime(events, opts.idleTimeLimit)
	}
	if opts.speed != 1 {
		events = asciicast.Accelerate(events, opts.speed)
	}

	cw := asciicast.NewWriter(w, 0)
	if err := cw.WriteHeader(&r.Header); err != nil {
		return 0, err
	}

	n := 0
	for e, err := range events {
		if err != nil {
			return n, err
		}
		if err := cw.WriteEvent(e); err != nil {
			return n, err
		}
		counter.Increment(e.Time)
		n++
	}
	return n, nil
}
