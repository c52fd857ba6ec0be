package telemetry

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "tenderbot-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})

	tel, err := SetupFromEnv(context.Background(), "tenderbot-test")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	NewLogger(&out, false).Debug("hidden")
	require.Empty(t, out.String())

	NewLogger(&out, true).Debug("shown", "n", 1)
	require.Contains(t, out.String(), "msg=shown")
	require.Contains(t, out.String(), "n=1")
}

func TestSamplePerfStats(t *testing.T) {
	stats, err := SamplePerfStats(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Skipf("cpu usage unavailable: %s", err)
	}
	require.Greater(t, stats.Goroutines, int64(0))
	require.GreaterOrEqual(t, stats.CPUPercent, 0.0)
}
