package quadvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

//CoreDisplay binds a glfw window to the Vulkan surface presented on
type CoreDisplay struct {
	window   *glfw.Window
	instance vk.Instance
	surface  vk.Surface
}

//Creates new core display from window and a vulkan instance
func NewCoreDisplay(window *glfw.Window, instance vk.Instance) (*CoreDisplay, error) {
	ret, err := window.CreateWindowSurface(instance, nil)
	if err != nil {
		return nil, newKindError(ErrInitialization, err, "create window surface")
	}
	return &CoreDisplay{
		window:   window,
		instance: instance,
		surface:  vk.SurfaceFromPointer(ret),
	}, nil
}

func (core *CoreDisplay) Surface() vk.Surface {
	return core.surface
}

//FramebufferSize is the drawable size in pixels, which can differ from the window size
func (core *CoreDisplay) FramebufferSize() (int, int) {
	return core.window.GetFramebufferSize()
}

func (core *CoreDisplay) Destroy() {
	if core.surface != vk.NullSurface {
		vk.DestroySurface(core.instance, core.surface, nil)
		core.surface = vk.NullSurface
	}
}

//WaitDrawable blocks on window events while the drawable has no area, as when minimized.
//It returns early once the window is asked to close
func (core *CoreDisplay) WaitDrawable() {
	width, height := core.FramebufferSize()
	for (width == 0 || height == 0) && !core.window.ShouldClose() {
		glfw.WaitEvents()
		width, height = core.FramebufferSize()
	}
}
