package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDataset, "load failed", cause)
	require.EqualError(t, err, "load failed: boom")
	require.True(t, IsCode(err, CodeDataset))
	require.False(t, IsCode(err, CodeInvalidInput))
	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("outer: %w", Wrap(CodeNotFound, "missing", nil))
	require.True(t, IsCode(wrapped, CodeNotFound))
	require.EqualError(t, Wrap(CodeNotFound, "missing", nil), "missing")
}
