package game

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriverStartStop(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	d := NewDriver(m, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Start())
	require.NoError(t, d.Start(), "second start is a no-op")

	require.NoError(t, d.Stop())
	require.NoError(t, d.Stop(), "second stop is a no-op")

	require.NoError(t, d.Start(), "driver can be restarted")
	require.NoError(t, d.Stop())
}

func TestStopWithoutStart(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	d := NewDriver(m, slog.New(slog.DiscardHandler))
	require.NoError(t, d.Stop())
}
