// Test Type: Unit Test
// Description: Tests for the structured error type - codes, wrapping
// and detail attachment

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simstack/modtidy/pkg/errors"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrMove, "move failed")
	assert.Equal(t, errors.ErrMove, err.Code)
	assert.Contains(t, err.Error(), "MOVE")
	assert.Contains(t, err.Error(), "move failed")
}

func TestWrap(t *testing.T) {
	t.Run("preserves_cause", func(t *testing.T) {
		cause := fmt.Errorf("disk full")
		err := errors.Wrapf(cause, errors.ErrFileIO, "failed to write %s", "x.package")

		assert.True(t, errors.IsErrorCode(err, errors.ErrFileIO))
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "x.package")
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("nil_in_nil_out", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrFileIO, "ignored"))
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.New(errors.ErrModsRootMissing, "mods folder not found")

	assert.True(t, errors.IsErrorCode(err, errors.ErrModsRootMissing))
	assert.False(t, errors.IsErrorCode(err, errors.ErrFileIO))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrModsRootMissing))

	t.Run("sees_through_wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", err)
		assert.True(t, errors.IsErrorCode(wrapped, errors.ErrModsRootMissing))
	})
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrHash, errors.GetErrorCode(errors.New(errors.ErrHash, "x")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrExtract, "bad archive").
		WithDetail("archive", "pack.zip").
		WithDetail("entry", 3)

	require.NotNil(t, err.Details)
	assert.Equal(t, "pack.zip", err.Details["archive"])
	assert.Equal(t, 3, err.Details["entry"])
}
