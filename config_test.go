package quadvk

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 800, cfg.Window.Width)
	require.Equal(t, 600, cfg.Window.Height)
	require.Equal(t, "Vulkan", cfg.Window.Title)
	require.True(t, cfg.Window.Resizable)
	require.False(t, cfg.Validation.Enabled)
	require.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.Validation.Layers)
	require.True(t, cfg.Device.RequireDiscrete)
	require.Equal(t, []string{"VK_KHR_swapchain"}, cfg.Device.Extensions)
	require.Equal(t, "shaders/vert.spv", cfg.Shaders.Vertex)
	require.Equal(t, "shaders/frag.spv", cfg.Shaders.Fragment)
	require.Equal(t, "textures/texture.jpg", cfg.Texture)
	require.False(t, cfg.Depth)
	require.Equal(t, [4]float32{0, 0, 0, 1}, cfg.ClearColor)
	require.Equal(t, time.Second, cfg.FPSInterval)
}

func TestParseConfigOverlaysDefaults(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseConfig([]byte(`
window:
  width: 1280
  title: quad
validation:
  enabled: true
depth: true
clear_color: [0.1, 0.2, 0.3, 1]
fps_interval: 500ms
`), &cfg)
	require.NoError(t, err)
	require.Equal(t, 1280, cfg.Window.Width)
	require.Equal(t, 600, cfg.Window.Height)
	require.Equal(t, "quad", cfg.Window.Title)
	require.True(t, cfg.Validation.Enabled)
	require.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, cfg.Validation.Layers)
	require.True(t, cfg.Depth)
	require.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.ClearColor)
	require.Equal(t, 500*time.Millisecond, cfg.FPSInterval)
	require.Equal(t, "shaders/vert.spv", cfg.Shaders.Vertex)
}

func TestParseConfigRejects(t *testing.T) {
	for name, doc := range map[string]string{
		"zero width":      "window: {width: 0}",
		"negative height": "window: {height: -1}",
		"no vertex":       "shaders: {vertex: \"\"}",
		"no texture":      "texture: \"\"",
		"bad yaml":        "window: [",
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.Error(t, ParseConfig([]byte(doc), &cfg))
		})
	}
}

func TestValidateResetsFPSInterval(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FPSInterval = 0
	require.NoError(t, cfg.Validate())
	require.Equal(t, time.Second, cfg.FPSInterval)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadvk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("texture: textures/brick.png\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "textures/brick.png", cfg.Texture)
	require.Equal(t, 800, cfg.Window.Width)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
