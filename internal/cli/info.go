package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/castkit-project/castkit/pkg/color"
)

type recordingInfo struct {
	Path          string            `json:"path"`
	Version       int               `json:"version"`
	Width         uint16            `json:"width"`
	Height        uint16            `json:"height"`
	Timestamp     *uint64           `json:"timestamp,omitempty"`
	IdleTimeLimit *float64          `json:"idle_time_limit,omitempty"`
	Command       *string           `json:"command,omitempty"`
	Title         *string           `json:"title,omitempty"`
	Env           map[string]string `json:"env,omitempty"`
	Duration      float64           `json:"duration"`
	EventCount    int               `json:"event_count"`
	EventsByCode  map[string]int    `json:"events_by_code"`
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "info <file>",
		Short:             "Show recording metadata and event statistics",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRecordings,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := inspectRecording(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(cmd.OutOrStdout(), info)
			}
			printInfo(cmd.OutOrStdout(), info)
			return nil
		},
	}
}

func inspectRecording(path string) (*recordingInfo, error) {
	r, err := openRecording(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	h := r.Header
	info := &recordingInfo{
		Path:          path,
		Version:       h.Version,
		Width:         h.Cols,
		Height:        h.Rows,
		Timestamp:     h.Timestamp,
		IdleTimeLimit: h.IdleTimeLimit,
		Command:       h.Command,
		Title:         h.Title,
		Env:           h.Env,
		EventsByCode:  make(map[string]int),
	}

	var last uint64
	for e, err := range r.Events {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		info.EventCount++
		info.EventsByCode[e.Code.String()]++
		last = e.Time
	}
	info.Duration = float64(last) / 1e6
	return info, nil
}

func printInfo(w io.Writer, info *recordingInfo) {
	fmt.Fprintf(w, "%s\n", color.Header(info.Path))
	fmt.Fprintf(w, "  Version: %d\n", info.Version)
	fmt.Fprintf(w, "  Size: %dx%d\n", info.Width, info.Height)
	if info.Timestamp != nil {
		fmt.Fprintf(w, "  Recorded: %s\n", time.Unix(int64(*info.Timestamp), 0).UTC().Format(time.RFC3339))
	}
	if info.IdleTimeLimit != nil {
		fmt.Fprintf(w, "  Idle time limit: %ss\n", strconv.FormatFloat(*info.IdleTimeLimit, 'f', -1, 64))
	}
	if info.Command != nil {
		fmt.Fprintf(w, "  Command: %s\n", *info.Command)
	}
	if info.Title != nil {
		fmt.Fprintf(w, "  Title: %s\n", *info.Title)
	}
	for _, k := range slices.Sorted(maps.Keys(info.Env)) {
		fmt.Fprintf(w, "  Env: %s=%s\n", k, info.Env[k])
	}
	fmt.Fprintf(w, "  Duration: %ss\n", strconv.FormatFloat(info.Duration, 'f', -1, 64))

	counts := make([]string, 0, len(info.EventsByCode))
	for _, code := range slices.Sorted(maps.Keys(info.EventsByCode)) {
		counts = append(counts, fmt.Sprintf("%s=%d", color.Code(code), info.EventsByCode[code]))
	}
	if len(counts) == 0 {
		fmt.Fprintf(w, "  Events: 0\n")
		return
	}
	fmt.Fprintf(w, "  Events: %d %s\n", info.EventCount, color.Dim("("+strings.Join(counts, ", ")+")"))
}
