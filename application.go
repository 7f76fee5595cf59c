package quadvk

import (
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/loov/hrtime"
	vk "github.com/vulkan-go/vulkan"
)

// App owns the window and the renderer drawing into it. All methods must be
// called from the main OS thread.
type App struct {
	cfg      Config
	logs     *Logs
	window   *glfw.Window
	renderer *Renderer
}

func NewApp(cfg Config, logs *Logs) (app *App, err error) {
	if err := glfw.Init(); err != nil {
		return nil, newKindError(ErrInitialization, err, "init glfw")
	}
	app = &App{cfg: cfg, logs: logs}
	defer func() {
		if err != nil {
			app.Destroy()
			app = nil
		}
	}()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Visible, glfw.True)
	resizable := glfw.False
	if cfg.Window.Resizable {
		resizable = glfw.True
	}
	glfw.WindowHint(glfw.Resizable, resizable)

	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return app, newKindError(ErrInitialization, err, "init vulkan loader")
	}

	app.window, err = glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return app, newKindError(ErrInitialization, err, "create window")
	}

	if app.renderer, err = NewRenderer(cfg, app.window, logs); err != nil {
		return app, err
	}
	app.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		app.renderer.RequestResize(width, height)
	})
	return app, nil
}

// Run draws frames until the window is asked to close, then waits for the
// device to go idle.
func (app *App) Run() error {
	fps := newFPSCounter(app.cfg.FPSInterval, hrtime.Now())
	for !app.window.ShouldClose() {
		glfw.PollEvents()

		now := hrtime.Now()
		if err := app.renderer.Frame(now.Seconds()); err != nil {
			return err
		}
		if rate, ok := fps.Tick(now); ok {
			app.logs.Info.Printf("Current FPS: %d", rate)
		}
	}
	return app.renderer.WaitIdle()
}

// Destroy releases the renderer, the window and glfw in that order.
func (app *App) Destroy() {
	if app.renderer != nil {
		app.renderer.Destroy()
		app.renderer = nil
	}
	if app.window != nil {
		app.window.Destroy()
		app.window = nil
	}
	glfw.Terminate()
}

// fpsCounter reports frames per interval.
type fpsCounter struct {
	interval time.Duration
	start    time.Duration
	frames   int
}

func newFPSCounter(interval, now time.Duration) *fpsCounter {
	if interval <= 0 {
		interval = time.Second
	}
	return &fpsCounter{interval: interval, start: now}
}

// Tick counts one frame at now. Once an interval has elapsed it returns the
// rate in frames per second and starts a new interval.
func (f *fpsCounter) Tick(now time.Duration) (int, bool) {
	f.frames++
	elapsed := now - f.start
	if elapsed < f.interval {
		return 0, false
	}
	rate := int(float64(f.frames) / elapsed.Seconds())
	f.frames = 0
	f.start = now
	return rate, true
}
