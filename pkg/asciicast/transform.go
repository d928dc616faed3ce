package asciicast

import "iter"

// LimitIdleTime caps every gap between consecutive events at limit seconds.
// Gaps are measured on the original times, so the removed time accumulates
// across several long pauses. Events must be in non-decreasing time order;
// out-of-order input is not detected. Errors are passed through untouched.
func LimitIdleTime(events iter.Seq2[Event, error], limit float64) iter.Seq2[Event, error] {
	limitMicros := uint64(limit * microsPerSecond)

	return func(yield func(Event, error) bool) {
		var prevTime, offset uint64

		for e, err := range events {
			if err != nil {
				if !yield(e, err) {
					return
				}
				continue
			}

			if gap := e.Time - prevTime; gap > limitMicros {
				offset += gap - limitMicros
			}
			prevTime = e.Time
			e.Time -= offset

			if !yield(e, nil) {
				return
			}
		}
	}
}

// Accelerate divides every event time by speed, rounding down. Speed must be
// positive.
func Accelerate(events iter.Seq2[Event, error], speed float64) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for e, err := range events {
			if err == nil {
				e.Time = uint64(float64(e.Time) / speed)
			}
			if !yield(e, err) {
				return
			}
		}
	}
}
