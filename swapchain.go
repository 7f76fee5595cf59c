package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// SurfaceSupport is the capability triple a device reports for a surface.
type SurfaceSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

// Adequate reports whether the surface offers at least one format and one
// present mode.
func (s SurfaceSupport) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

func QuerySurfaceSupport(gpu vk.PhysicalDevice, surface vk.Surface) (SurfaceSupport, error) {
	var support SurfaceSupport

	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &support.Capabilities)
	if isError(ret) {
		return support, newKindError(ErrUnsupportedSurface, NewError(ret), "query surface capabilities")
	}
	support.Capabilities.Deref()
	support.Capabilities.CurrentExtent.Deref()
	support.Capabilities.MinImageExtent.Deref()
	support.Capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, nil)
	if formatCount > 0 {
		support.Formats = make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, support.Formats)
		for i := range support.Formats {
			support.Formats[i].Deref()
		}
	}

	var modeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, nil)
	if modeCount > 0 {
		support.PresentModes = make([]vk.PresentMode, modeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, support.PresentModes)
	}
	return support, nil
}

var preferredSurfaceFormat = vk.SurfaceFormat{
	Format:     vk.FormatB8g8r8a8Unorm,
	ColorSpace: vk.ColorSpaceSrgbNonlinear,
}

// ChooseSurfaceFormat prefers 32-bit BGRA with a non-linear SRGB color space.
// A lone undefined entry means the surface has no preference.
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	if len(formats) == 0 {
		return preferredSurfaceFormat
	}
	if len(formats) == 1 && formats[0].Format == vk.FormatUndefined {
		return preferredSurfaceFormat
	}
	for _, format := range formats {
		if format.Format == preferredSurfaceFormat.Format && format.ColorSpace == preferredSurfaceFormat.ColorSpace {
			return format
		}
	}
	return formats[0]
}

// ChoosePresentMode takes mailbox, then immediate, then the always available FIFO.
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	best := vk.PresentModeFifo
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
		if mode == vk.PresentModeImmediate {
			best = mode
		}
	}
	return best
}

// ChooseExtent uses the current extent unless the surface leaves it to the
// swapchain, in which case the drawable size is clamped into range.
func ChooseExtent(caps vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(uint32(maxInt(width, 0)), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(uint32(maxInt(height, 0)), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image above the minimum, bounded by a
// nonzero maximum.
func ChooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// SwapchainPlan holds every decision needed to create a swapchain.
type SwapchainPlan struct {
	Format        vk.SurfaceFormat
	PresentMode   vk.PresentMode
	Extent        vk.Extent2D
	ImageCount    uint32
	SharingMode   vk.SharingMode
	QueueFamilies []uint32
	PreTransform  vk.SurfaceTransformFlagBits
}

// PlanSwapchain derives a plan from a surface report, the drawable size and
// the queue families that will touch the images.
func PlanSwapchain(support SurfaceSupport, width, height int, families QueueFamilyIndices) (SwapchainPlan, error) {
	if !support.Adequate() {
		return SwapchainPlan{}, newKindError(ErrUnsupportedSurface, nil,
			"surface reports %d formats and %d present modes", len(support.Formats), len(support.PresentModes))
	}
	format := ChooseSurfaceFormat(support.Formats)
	plan := SwapchainPlan{
		Format:       vk.SurfaceFormat{Format: format.Format, ColorSpace: format.ColorSpace},
		PresentMode:  ChoosePresentMode(support.PresentModes),
		Extent:       ChooseExtent(support.Capabilities, width, height),
		ImageCount:   ChooseImageCount(support.Capabilities),
		SharingMode:  vk.SharingModeExclusive,
		PreTransform: support.Capabilities.CurrentTransform,
	}
	// Plain copies so plans compare by value.
	plan.Extent = vk.Extent2D{Width: plan.Extent.Width, Height: plan.Extent.Height}
	if families.Separate() {
		plan.SharingMode = vk.SharingModeConcurrent
		plan.QueueFamilies = families.Unique()
	}
	return plan, nil
}

type CoreSwapchain struct {
	device       vk.Device
	handle       vk.Swapchain
	plan         SwapchainPlan
	images       []vk.Image
	views        []vk.ImageView
	framebuffers []vk.Framebuffer
	depth        *DepthAttachment
}

// NewCoreSwapchain creates the swapchain described by plan and one color view
// per image.
func NewCoreSwapchain(device vk.Device, surface vk.Surface, plan SwapchainPlan) (*CoreSwapchain, error) {
	core := &CoreSwapchain{device: device, plan: plan}

	info := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    plan.ImageCount,
		ImageFormat:      plan.Format.Format,
		ImageColorSpace:  plan.Format.ColorSpace,
		ImageExtent:      plan.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: plan.SharingMode,
		PreTransform:     plan.PreTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      plan.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     vk.NullSwapchain,
	}
	if plan.SharingMode == vk.SharingModeConcurrent {
		info.QueueFamilyIndexCount = uint32(len(plan.QueueFamilies))
		info.PQueueFamilyIndices = plan.QueueFamilies
	}

	var swapchain vk.Swapchain
	ret := vk.CreateSwapchain(device, &info, nil, &swapchain)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "create swapchain")
	}
	core.handle = swapchain

	var imageCount uint32
	vk.GetSwapchainImages(device, swapchain, &imageCount, nil)
	core.images = make([]vk.Image, imageCount)
	vk.GetSwapchainImages(device, swapchain, &imageCount, core.images)

	core.views = make([]vk.ImageView, 0, imageCount)
	for index := range core.images {
		view, err := createImageView(device, core.images[index], plan.Format.Format, vk.ImageAspectColorBit)
		if err != nil {
			core.Destroy()
			return nil, err
		}
		core.views = append(core.views, view)
	}
	return core, nil
}

func (core *CoreSwapchain) Extent() vk.Extent2D { return core.plan.Extent }

func (core *CoreSwapchain) Format() vk.Format { return core.plan.Format.Format }

func (core *CoreSwapchain) ImageCount() int { return len(core.images) }

// AttachDepth shares depth across every framebuffer created afterwards.
func (core *CoreSwapchain) AttachDepth(depth *DepthAttachment) { core.depth = depth }

// CreateFramebuffers binds one framebuffer per image view to renderPass, with
// the shared depth view appended when depth is enabled.
func (core *CoreSwapchain) CreateFramebuffers(renderPass vk.RenderPass) error {
	core.framebuffers = make([]vk.Framebuffer, 0, len(core.views))
	for index := range core.views {
		attachments := []vk.ImageView{core.views[index]}
		if core.depth != nil {
			attachments = append(attachments, core.depth.View)
		}
		var framebuffer vk.Framebuffer
		ret := vk.CreateFramebuffer(core.device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           core.plan.Extent.Width,
			Height:          core.plan.Extent.Height,
			Layers:          1,
		}, nil, &framebuffer)
		if isError(ret) {
			return newKindError(ErrResource, NewError(ret), "create framebuffer %d", index)
		}
		core.framebuffers = append(core.framebuffers, framebuffer)
	}
	return nil
}

// Destroy releases views and the swapchain directly. The renderer normally
// releases them through its teardown plan instead.
func (core *CoreSwapchain) Destroy() {
	for _, view := range core.views {
		vk.DestroyImageView(core.device, view, nil)
	}
	core.views = nil
	if core.handle != vk.NullSwapchain {
		vk.DestroySwapchain(core.device, core.handle, nil)
		core.handle = vk.NullSwapchain
	}
}

func createImageView(device vk.Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(aspect),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return view, newKindError(ErrResource, NewError(ret), "create image view")
	}
	return view, nil
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
