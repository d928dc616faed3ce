package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/asciicast"
	"github.com/castkit-project/castkit/pkg/color"
	"github.com/castkit-project/castkit/pkg/logging"
)

type verifyResult struct {
	Path     string   `json:"path"`
	Version  int      `json:"version,omitempty"`
	Events   int      `json:"events"`
	Problems []string `json:"problems"`
	OK       bool     `json:"ok"`
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>...",
		Short: "Check recordings for malformed events",
		Long: `Read every event of each recording and report malformed lines, events
that go back in time and resize events without a <cols>x<rows> size.

Unlike the other commands, verify keeps reading after a malformed line so
that all problems are listed.

Examples:
  castkit verify demo.cast
  castkit verify --json *.cast`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeRecordings,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]*verifyResult, 0, len(args))
			failed := 0
			for _, path := range args {
				res := verifyRecording(path)
				if !res.OK {
					failed++
				}
				results = append(results, res)
			}

			if jsonOutput {
				if err := outputJSON(cmd.OutOrStdout(), results); err != nil {
					return err
				}
			} else {
				printVerifyResults(cmd.OutOrStdout(), results)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d recordings failed verification", failed, len(results))
			}
			return nil
		},
	}
}

func verifyRecording(path string) *verifyResult {
	res := &verifyResult{Path: path, Problems: []string{}}

	r, err := openRecording(path)
	if err != nil {
		res.Problems = append(res.Problems, err.Error())
		logging.With(logging.Fields{"path": path}).Warn("recording failed verification", logging.Fields{"problems": 1})
		return res
	}
	defer r.Close()
	res.Version = r.Header.Version

	var prev uint64
	for e, err := range r.Events {
		if err != nil {
			res.Problems = append(res.Problems, err.Error())
			continue
		}
		res.Events++

		if e.Time < prev {
			res.Problems = append(res.Problems, fmt.Sprintf("event %d at %ss goes back in time (previous %ss)",
				res.Events, asciicast.EncodeTime(e.Time), asciicast.EncodeTime(prev)))
		}
		prev = e.Time

		if e.Code == asciicast.Resize && !validSize(e.Data) {
			res.Problems = append(res.Problems, fmt.Sprintf("event %d: malformed resize %q", res.Events, e.Data))
		}
	}

	res.OK = len(res.Problems) == 0
	log := logging.With(logging.Fields{"path": path, "events": res.Events})
	if res.OK {
		log.Debug("recording verified")
	} else {
		log.Warn("recording failed verification", logging.Fields{"problems": len(res.Problems)})
	}
	return res
}

func validSize(s string) bool {
	cols, rows, ok := strings.Cut(s, "x")
	if !ok {
		return false
	}
	if _, err := strconv.ParseUint(cols, 10, 16); err != nil {
		return false
	}
	_, err := strconv.ParseUint(rows, 10, 16)
	return err == nil
}

func printVerifyResults(w io.Writer, results []*verifyResult) {
	for _, res := range results {
		if res.OK {
			fmt.Fprintf(w, "%s  %s (%d events)\n", res.Path, color.Success("OK"), res.Events)
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", res.Path, color.Error("FAILED"))
		for _, p := range res.Problems {
			fmt.Fprintf(w, "  - %s\n", p)
		}
	}
}
