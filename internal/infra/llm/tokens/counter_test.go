package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimateWithoutEncoding(t *testing.T) {
	c := NewCounter("", nil)
	require.Equal(t, 0, c.Count("   "))
	require.Equal(t, 2, c.Count("hello"))
	require.Equal(t, 4, c.Count("08:00 32.7800, -97.3800"))
}

func TestNilCounter(t *testing.T) {
	var c *Counter
	require.Equal(t, 4, c.Count("one two three"))
}
