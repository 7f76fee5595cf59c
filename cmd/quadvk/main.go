package main

import (
	"flag"
	"runtime"

	"github.com/andewx/quadvk"
)

func init() {
	// glfw and the Vulkan WSI calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	validation := flag.Bool("validation", false, "enable validation layers and the debug report callback")
	flag.Parse()

	cfg := quadvk.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = quadvk.LoadConfig(*configPath); err != nil {
			quadvk.Fatal(nil, err)
		}
	}
	if *validation {
		cfg.Validation.Enabled = true
	}

	logs, err := quadvk.NewLogs(cfg.LogDir)
	if err != nil {
		quadvk.Fatal(nil, err)
	}
	defer logs.Close()

	app, err := quadvk.NewApp(cfg, logs)
	if err != nil {
		quadvk.Fatal(logs, err)
	}
	if err := app.Run(); err != nil {
		quadvk.Fatal(logs, err, app.Destroy)
	}
	app.Destroy()
}
