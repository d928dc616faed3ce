package asciicast

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/castkit-project/castkit/pkg/errclass"
)

const microsPerSecond = 1_000_000

// DecodeTime converts a JSON seconds value into microseconds.
//
// The number is rendered in its shortest decimal form and split on the
// decimal point. The fractional part is truncated to six digits, never
// rounded. A value that renders without a decimal point (any whole number of
// seconds) is rejected with errclass.ErrInvalidTimeFormat.
func DecodeTime(raw json.RawMessage) (uint64, error) {
	var s string
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		s = strconv.FormatFloat(v, 'f', -1, 64)
	}

	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return 0, errclass.ErrInvalidTimeFormat.WithMessagef("invalid time format: %s", raw)
	}

	secs, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, errclass.ErrDecode.Wrap(err)
	}
	if secs >= math.MaxUint64/microsPerSecond {
		return 0, errclass.ErrDecode.WithMessagef("time out of range: %s", raw)
	}

	frac := strings.TrimSpace(parts[1])
	if len(frac) > 6 {
		frac = frac[:6]
	}
	micros, err := strconv.ParseUint(frac+strings.Repeat("0", 6-len(frac)), 10, 64)
	if err != nil {
		return 0, errclass.ErrDecode.Wrap(err)
	}

	return secs*microsPerSecond + micros, nil
}

// EncodeTime renders microseconds as decimal seconds with trailing zeros of
// the fraction trimmed. The decimal point itself is kept, so 2000000 renders
// as "2.".
func EncodeTime(micros uint64) string {
	return strings.TrimRight(formatTime(micros), "0")
}

func formatTime(micros uint64) string {
	return fmt.Sprintf("%d.%06d", micros/microsPerSecond, micros%microsPerSecond)
}
