package quadvk

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the renderer. Fields map one-to-one onto
// the YAML keys of a config file; anything omitted keeps its default.
type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Validation  ValidationConfig `yaml:"validation"`
	Device      DeviceConfig     `yaml:"device"`
	Shaders     ShaderConfig     `yaml:"shaders"`
	Texture     string           `yaml:"texture"`
	Depth       bool             `yaml:"depth"`
	ClearColor  [4]float32       `yaml:"clear_color"`
	LogDir      string           `yaml:"log_dir"`
	FPSInterval time.Duration    `yaml:"fps_interval"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

type ValidationConfig struct {
	Enabled bool `yaml:"enabled"`
	// Layers must all be present when validation is enabled.
	Layers []string `yaml:"layers"`
}

type DeviceConfig struct {
	RequireDiscrete bool     `yaml:"require_discrete"`
	Extensions      []string `yaml:"extensions"`
}

type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:     800,
			Height:    600,
			Title:     "Vulkan",
			Resizable: true,
		},
		Validation: ValidationConfig{
			Layers: []string{"VK_LAYER_KHRONOS_validation"},
		},
		Device: DeviceConfig{
			RequireDiscrete: true,
			Extensions:      []string{"VK_KHR_swapchain"},
		},
		Shaders: ShaderConfig{
			Vertex:   "shaders/vert.spv",
			Fragment: "shaders/frag.spv",
		},
		Texture:     "textures/texture.jpg",
		ClearColor:  [4]float32{0, 0, 0, 1},
		FPSInterval: time.Second,
	}
}

// LoadConfig reads a YAML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := ParseConfig(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ParseConfig decodes YAML into cfg, leaving absent keys untouched, and
// validates the result.
func ParseConfig(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config")
	}
	return cfg.Validate()
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return errors.New("both vertex and fragment shader paths are required")
	}
	if c.Texture == "" {
		return errors.New("texture path is required")
	}
	if c.FPSInterval <= 0 {
		c.FPSInterval = time.Second
	}
	return nil
}
