package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" Info ")
	require.NoError(t, err)
	require.Equal(t, InfoLevel, level)

	level, err = ParseLevel("disabled")
	require.NoError(t, err)
	require.Equal(t, Disabled, level)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}
