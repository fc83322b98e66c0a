package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-04")
	require.NoError(t, err)
	require.Equal(t, "2024-03-04T00:00:00Z", d.Format("2006-01-02T15:04:05Z07:00"))

	_, err = ParseDate("03/04/2024")
	require.Error(t, err)
}
