package quadvk

import (
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRendererLifecycle opens a real window and draws a few frames. It needs
// a Vulkan capable GPU, a display and the shader and texture assets, so it
// only runs with QUADVK_GPU_TESTS=1.
func TestRendererLifecycle(t *testing.T) {
	if os.Getenv("QUADVK_GPU_TESTS") != "1" {
		t.Skip("set QUADVK_GPU_TESTS=1 to run against a real device")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	cfg := DefaultConfig()
	cfg.Device.RequireDiscrete = false
	cfg.Depth = true
	for _, path := range []string{cfg.Shaders.Vertex, cfg.Shaders.Fragment, cfg.Texture} {
		if _, err := os.Stat(path); err != nil {
			t.Skipf("missing asset %s", path)
		}
	}

	app, err := NewApp(cfg, DiscardLogs())
	require.NoError(t, err)
	defer app.Destroy()

	for i := 0; i < 3; i++ {
		require.NoError(t, app.renderer.Frame(float64(i)/60))
	}
	require.NoError(t, app.renderer.Recreate())
	require.NoError(t, app.renderer.Frame(0.1))
	require.NoError(t, app.renderer.WaitIdle())
}
