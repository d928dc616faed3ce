package asciicast_test

import (
	"errors"
	"iter"
	"testing"

	"github.com/castkit-project/castkit/pkg/asciicast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outputs(times ...uint64) iter.Seq2[asciicast.Event, error] {
	return func(yield func(asciicast.Event, error) bool) {
		for _, t := range times {
			if !yield(asciicast.NewOutput(t, []byte("x")), nil) {
				return
			}
		}
	}
}

func times(t *testing.T, events iter.Seq2[asciicast.Event, error]) []uint64 {
	t.Helper()
	collected, err := asciicast.Collect(events)
	require.NoError(t, err)
	out := make([]uint64, 0, len(collected))
	for _, e := range collected {
		out = append(out, e.Time)
	}
	return out
}

func TestAccelerate(t *testing.T) {
	got := times(t, asciicast.Accelerate(outputs(0, 20, 50), 2.0))
	assert.Equal(t, []uint64{0, 10, 25}, got)
}

func TestAccelerate_FloorsAndSlowsDown(t *testing.T) {
	assert.Equal(t, []uint64{0, 6, 16}, times(t, asciicast.Accelerate(outputs(0, 20, 50), 3.0)))
	assert.Equal(t, []uint64{0, 40, 100}, times(t, asciicast.Accelerate(outputs(0, 20, 50), 0.5)))
}

func TestLimitIdleTime(t *testing.T) {
	got := times(t, asciicast.LimitIdleTime(outputs(0, 1_000_000, 3_500_000, 4_000_000, 7_500_000), 2.0))
	assert.Equal(t, []uint64{0, 1_000_000, 3_000_000, 3_500_000, 5_500_000}, got)
}

func TestLimitIdleTime_GapEqualToLimitKept(t *testing.T) {
	got := times(t, asciicast.LimitIdleTime(outputs(2_000_000, 4_000_000), 2.0))
	assert.Equal(t, []uint64{2_000_000, 4_000_000}, got)
}

func TestLimitIdleTime_FractionalLimit(t *testing.T) {
	got := times(t, asciicast.LimitIdleTime(outputs(0, 10_000_000), 0.25))
	assert.Equal(t, []uint64{0, 250_000}, got)
}

func TestTransforms_PassErrorsThrough(t *testing.T) {
	boom := errors.New("bad line")
	src := func(yield func(asciicast.Event, error) bool) {
		_ = yield(asciicast.NewOutput(0, nil), nil) &&
			yield(asciicast.Event{}, boom) &&
			yield(asciicast.NewOutput(5_000_000, nil), nil)
	}

	var got []uint64
	var errs []error
	for e, err := range asciicast.Accelerate(asciicast.LimitIdleTime(src, 1.0), 2.0) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		got = append(got, e.Time)
	}

	assert.Equal(t, []error{boom}, errs)
	assert.Equal(t, []uint64{0, 500_000}, got)
}

func TestTransforms_StopEarly(t *testing.T) {
	n := 0
	for range asciicast.LimitIdleTime(asciicast.Accelerate(outputs(1, 2, 3, 4), 1.0), 1.0) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestTransforms_Compose(t *testing.T) {
	r := openFixture(t, "demo.cast")
	got := times(t, asciicast.Accelerate(asciicast.LimitIdleTime(r.Events, 0.5), 2.0))

	require.Len(t, got, 12)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
	}
	assert.LessOrEqual(t, got[len(got)-1], uint64(3_000_500/2))
}
