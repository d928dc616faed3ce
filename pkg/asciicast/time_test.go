package asciicast

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/castkit-project/castkit/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTime(t *testing.T) {
	tests := []struct {
		raw  string
		want uint64
	}{
		{"1.23", 1_230_000},
		{"0.100989", 100_989},
		{"0.000001", 1},
		{"10.5", 10_500_000},
		{"1.1234567", 1_123_456},
		{"1.9999999", 1_999_999},
		{"1509091818.5", 1_509_091_818_500_000},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := DecodeTime(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTime_WholeSecondsRejected(t *testing.T) {
	// Whole numbers render without a decimal point and cannot be split.
	for _, raw := range []string{"1", "1.0", "0", "42.000"} {
		_, err := DecodeTime(json.RawMessage(raw))
		assert.True(t, errors.Is(err, errclass.ErrInvalidTimeFormat), raw)
	}
}

func TestDecodeTime_NonNumeric(t *testing.T) {
	for _, raw := range []string{`"1.5"`, "null", "[1.5]", "true"} {
		_, err := DecodeTime(json.RawMessage(raw))
		assert.True(t, errors.Is(err, errclass.ErrInvalidTimeFormat), raw)
	}
}

func TestDecodeTime_Negative(t *testing.T) {
	_, err := DecodeTime(json.RawMessage("-1.5"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrDecode))
}

func TestDecodeTime_OutOfRange(t *testing.T) {
	_, err := DecodeTime(json.RawMessage("18446744073709.5"))
	assert.True(t, errors.Is(err, errclass.ErrDecode))

	got, err := DecodeTime(json.RawMessage("18446744073708.5"))
	require.NoError(t, err)
	assert.Equal(t, uint64(18_446_744_073_708_500_000), got)
}

func TestEncodeTime(t *testing.T) {
	tests := []struct {
		micros uint64
		want   string
	}{
		{1_230_000, "1.23"},
		{100_989, "0.100989"},
		{1, "0.000001"},
		{10_500_000, "10.5"},
		{1_000_001, "1.000001"},
		// the decimal point survives when the whole fraction is trimmed
		{2_000_000, "2."},
		{0, "0."},
		{100_000_000, "100."},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeTime(tt.micros))
		})
	}
}

func TestEncodeDecodeTime(t *testing.T) {
	for _, micros := range []uint64{1, 999_999, 1_000_001, 3_000_500, 1_511_937} {
		got, err := DecodeTime(json.RawMessage(EncodeTime(micros)))
		require.NoError(t, err)
		assert.Equal(t, micros, got)
	}
}
