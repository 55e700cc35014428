package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(t.Context(), Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(t.Context()))

	// the global provider is a no-op, spans are not recording
	_, span := Tracer().Start(t.Context(), "noop")
	require.False(t, span.IsRecording())
	span.End()
}
