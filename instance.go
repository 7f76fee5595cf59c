package quadvk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Renderer draws a textured, spinning quad into a window. Every object is
// owned by one field and released through teardownPlan.
type Renderer struct {
	cfg  Config
	logs *Logs

	platform *Platform
	display  *CoreDisplay
	device   *CoreDevice
	pool     *CorePool
	alloc    *Allocator
	program  *ShaderProgram

	depthFormat vk.Format
	descriptors *CoreDescriptors
	texture     *Texture
	vertices    *Buffer
	indices     *Buffer
	uniform     *UniformBuffer
	sync        *syncPair

	//Swapchain dependent, rebuilt by Recreate
	swapchain  *CoreSwapchain
	renderPass *CoreRenderPass
	pipeline   *CorePipeline
	commands   *CommandBufferManager

	resizePending bool
	frames        frameLoop
}

// NewRenderer builds the full renderer for window. On failure everything
// created so far is released before returning.
func NewRenderer(cfg Config, window *glfw.Window, logs *Logs) (r *Renderer, err error) {
	r = &Renderer{cfg: cfg, logs: logs, depthFormat: vk.FormatUndefined}
	r.frames.driver = r
	defer func() {
		if err != nil {
			r.teardownPlan().run()
			r = nil
		}
	}()

	if r.program, err = LoadShaderProgram(cfg.Shaders.Vertex, cfg.Shaders.Fragment); err != nil {
		return
	}
	if r.platform, err = NewPlatform(cfg, window.GetRequiredInstanceExtensions(), logs); err != nil {
		return
	}
	if r.display, err = NewCoreDisplay(window, r.platform.Instance()); err != nil {
		return
	}
	if r.device, err = NewCoreDevice(r.platform.Instance(), r.display.Surface(), cfg.Device, r.platform.Layers(), logs); err != nil {
		return
	}
	device := r.device.handle

	if r.pool, err = NewCorePool(device, r.device.families.Graphics, r.device.graphics); err != nil {
		return
	}
	r.alloc = NewAllocator(device, r.device.memProps, r.pool, logs)

	if cfg.Depth {
		if r.depthFormat, err = FindDepthFormat(r.device.gpu); err != nil {
			return
		}
	}
	if r.descriptors, err = NewCoreDescriptors(device); err != nil {
		return
	}
	if r.texture, err = r.alloc.CreateTexture(cfg.Texture, r.device.MaxAnisotropy()); err != nil {
		return
	}
	if r.vertices, err = r.alloc.CreateStagedBuffer(VertexBytes(QuadVertices), vk.BufferUsageVertexBufferBit); err != nil {
		return
	}
	if r.indices, err = r.alloc.CreateStagedBuffer(IndexBytes(QuadIndices), vk.BufferUsageIndexBufferBit); err != nil {
		return
	}
	if r.uniform, err = r.alloc.CreateUniformBuffer(); err != nil {
		return
	}
	r.descriptors.Write(r.uniform, r.texture)

	if r.sync, err = newSyncPair(device); err != nil {
		return
	}
	err = r.buildSwapchainResources()
	return
}

// buildSwapchainResources creates the swapchain for the current drawable
// size and everything sized by it, then records the draw commands.
func (r *Renderer) buildSwapchainResources() error {
	device := r.device.handle
	width, height := r.display.FramebufferSize()

	support, err := QuerySurfaceSupport(r.device.gpu, r.display.Surface())
	if err != nil {
		return err
	}
	plan, err := PlanSwapchain(support, width, height, r.device.families)
	if err != nil {
		return err
	}
	if r.swapchain, err = NewCoreSwapchain(device, r.display.Surface(), plan); err != nil {
		return err
	}
	if r.depthFormat != vk.FormatUndefined {
		depth, err := r.alloc.CreateDepthAttachment(r.depthFormat, plan.Extent)
		if err != nil {
			return err
		}
		r.swapchain.AttachDepth(depth)
	}
	if r.renderPass, err = NewCoreRenderPass(device, r.swapchain.Format(), r.depthFormat); err != nil {
		return err
	}
	if r.pipeline, err = NewCorePipeline(device, r.program, r.renderPass, r.swapchain.Extent(), r.descriptors.layout); err != nil {
		return err
	}
	if err = r.swapchain.CreateFramebuffers(r.renderPass.renderPass); err != nil {
		return err
	}
	if r.commands, err = NewCommandBufferManager(r.pool, r.swapchain.ImageCount()); err != nil {
		return err
	}

	recorder := FrameRecorder{
		RenderPass:   r.renderPass,
		Pipeline:     r.pipeline,
		Framebuffers: r.swapchain.framebuffers,
		Extent:       r.swapchain.Extent(),
		Vertices:     r.vertices,
		Indices:      r.indices,
		IndexCount:   uint32(len(QuadIndices)),
		Set:          r.descriptors.set,
		ClearColor:   r.cfg.ClearColor,
	}
	if err := recorder.Record(r.commands.Buffers()); err != nil {
		return err
	}
	r.logs.Info.Printf("vulkan: swapchain %dx%d with %d images", plan.Extent.Width, plan.Extent.Height, r.swapchain.ImageCount())
	return nil
}

// Recreate rebuilds the swapchain and its dependents after the device goes
// idle. Running it twice in a row leaves the same set of objects.
func (r *Renderer) Recreate() error {
	r.display.WaitDrawable()
	if err := r.device.WaitIdle(); err != nil {
		return err
	}
	r.swapchainReleasePlan().run()
	r.swapchain, r.renderPass, r.pipeline, r.commands = nil, nil, nil, nil

	if r.display.window.ShouldClose() {
		return nil
	}
	return r.buildSwapchainResources()
}

// RequestResize schedules recreation before the next frame. A zero sized
// framebuffer is ignored.
func (r *Renderer) RequestResize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	r.resizePending = true
	r.frames.resized()
}

// Frame animates the uniform buffer to seconds and draws one frame.
func (r *Renderer) Frame(seconds float64) error {
	if r.resizePending {
		r.resizePending = false
		if err := r.Recreate(); err != nil {
			return err
		}
	}
	if r.swapchain == nil {
		return nil
	}
	if err := r.uniform.Update(Spin(seconds, r.swapchain.Extent())); err != nil {
		return err
	}
	return r.frames.draw()
}

// WaitIdle blocks until the device has finished all submitted work.
func (r *Renderer) WaitIdle() error {
	return r.device.WaitIdle()
}

// Destroy waits for the device and releases everything in dependency order.
func (r *Renderer) Destroy() {
	if r.device != nil {
		if err := r.device.WaitIdle(); err != nil {
			r.logs.Warn.Printf("vulkan warning: %v", err)
		}
	}
	plan := r.teardownPlan()
	r.logs.Info.Printf("vulkan: releasing %d object groups", len(plan))
	plan.run()
}
