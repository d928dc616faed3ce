package errclass_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/castkit-project/castkit/pkg/errclass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastError_Error(t *testing.T) {
	err := errclass.ErrUnsupportedVersion.WithMessage("version 3")
	assert.Equal(t, "E_UNSUPPORTED_VERSION: version 3", err.Error())
}

func TestCastError_ErrorWithoutMessage(t *testing.T) {
	assert.Equal(t, "E_EMPTY_INPUT", errclass.ErrEmptyInput.Error())
}

func TestCastError_Is(t *testing.T) {
	err := errclass.ErrDecode.WithMessagef("line %d", 3)
	require.True(t, errors.Is(err, errclass.ErrDecode))
	require.False(t, errors.Is(err, errclass.ErrEmptyInput))
}

func TestCastError_IsThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("line 7: %w", errclass.ErrMissingEventCode.WithMessage("empty"))
	assert.True(t, errors.Is(err, errclass.ErrMissingEventCode))
}

func TestCastError_WrapKeepsCause(t *testing.T) {
	var target any
	cause := json.Unmarshal([]byte("{"), &target)
	require.Error(t, cause)

	err := errclass.ErrDecode.Wrap(cause)
	assert.True(t, errors.Is(err, errclass.ErrDecode))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Contains(t, err.Error(), "E_DECODE: ")
}

func TestCastError_DistinctCodes(t *testing.T) {
	all := []*errclass.CastError{
		errclass.ErrEmptyInput,
		errclass.ErrUnsupportedVersion,
		errclass.ErrInvalidTimeFormat,
		errclass.ErrMissingEventCode,
		errclass.ErrDecode,
		errclass.ErrConfigInvalid,
	}
	seen := make(map[string]bool)
	for _, e := range all {
		assert.False(t, seen[e.Code], "duplicate code %s", e.Code)
		seen[e.Code] = true
	}
}
