package quadvk

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmittmann/ppm"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Image is a device image together with the memory bound to it.
type Image struct {
	device vk.Device
	Image  vk.Image
	Memory vk.DeviceMemory
	Format vk.Format
	Width  uint32
	Height uint32
}

// Destroy releases the image before its memory.
func (i *Image) Destroy() {
	vk.DestroyImage(i.device, i.Image, nil)
	vk.FreeMemory(i.device, i.Memory, nil)
	i.Image = vk.NullImage
	i.Memory = vk.NullDeviceMemory
}

// CreateImage makes a single-level 2D image and binds memory satisfying props.
func (a *Allocator) CreateImage(width, height uint32, format vk.Format, tiling vk.ImageTiling,
	usage vk.ImageUsageFlagBits, props vk.MemoryPropertyFlagBits) (*Image, error) {

	var img vk.Image
	ret := vk.CreateImage(a.device, &vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        tiling,
		Usage:         vk.ImageUsageFlags(usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img)
	if isError(ret) {
		return nil, newKindError(ErrResource, NewError(ret), "create image %dx%d", width, height)
	}

	var memReqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(a.device, img, &memReqs)
	memReqs.Deref()

	memory, err := a.allocate(memReqs, props, "image")
	if err != nil {
		vk.DestroyImage(a.device, img, nil)
		return nil, err
	}
	if ret := vk.BindImageMemory(a.device, img, memory, 0); isError(ret) {
		vk.DestroyImage(a.device, img, nil)
		vk.FreeMemory(a.device, memory, nil)
		return nil, newKindError(ErrResource, NewError(ret), "bind image memory")
	}
	return &Image{device: a.device, Image: img, Memory: memory, Format: format, Width: width, Height: height}, nil
}

//----------------Layout Transitions--------------------//

// Barrier holds the access masks and pipeline stages of one layout transition.
type Barrier struct {
	SrcAccess vk.AccessFlags
	DstAccess vk.AccessFlags
	SrcStage  vk.PipelineStageFlags
	DstStage  vk.PipelineStageFlags
}

type layoutPair struct {
	from vk.ImageLayout
	to   vk.ImageLayout
}

var transitions = map[layoutPair]Barrier{
	{vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal}: {
		SrcAccess: 0,
		DstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal}: {
		SrcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
		DstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
		SrcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		DstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
	},
}

// PlanTransition looks up the barrier for a layout change. Only the two
// upload transitions are supported.
func PlanTransition(from, to vk.ImageLayout) (Barrier, error) {
	barrier, ok := transitions[layoutPair{from, to}]
	if !ok {
		return Barrier{}, newKindError(ErrUnsupportedTransition, nil, "%d -> %d", from, to)
	}
	return barrier, nil
}

// recordTransition records the barrier for from -> to into cmd. Nothing is
// recorded when the pair is unsupported.
func recordTransition(cmd vk.CommandBuffer, img vk.Image, from, to vk.ImageLayout) error {
	barrier, err := PlanTransition(from, to)
	if err != nil {
		return err
	}
	vk.CmdPipelineBarrier(cmd, barrier.SrcStage, barrier.DstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       barrier.SrcAccess,
		DstAccessMask:       barrier.DstAccess,
		OldLayout:           from,
		NewLayout:           to,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}})
	return nil
}

// TransitionImageLayout runs a single layout transition as one-shot commands.
func (a *Allocator) TransitionImageLayout(img *Image, from, to vk.ImageLayout) error {
	if _, err := PlanTransition(from, to); err != nil {
		return err
	}
	return a.pool.OneTime(func(cmd vk.CommandBuffer) error {
		return recordTransition(cmd, img.Image, from, to)
	})
}

func (a *Allocator) CopyBufferToImage(src *Buffer, dst *Image) error {
	return a.pool.OneTime(func(cmd vk.CommandBuffer) error {
		vk.CmdCopyBufferToImage(cmd, src.Buffer, dst.Image, vk.ImageLayoutTransferDstOptimal, 1, []vk.BufferImageCopy{{
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LayerCount: 1,
			},
			ImageExtent: vk.Extent3D{Width: dst.Width, Height: dst.Height, Depth: 1},
		}})
		return nil
	})
}

// CreateStagedImage uploads RGBA8 pixels into a device-local sampled image
// left in the shader read-only layout.
func (a *Allocator) CreateStagedImage(pixels []byte, width, height uint32, format vk.Format) (*Image, error) {
	if uint64(len(pixels)) != uint64(width)*uint64(height)*4 {
		return nil, newKindError(ErrResource, nil, "%d bytes for a %dx%d RGBA image", len(pixels), width, height)
	}
	staging, err := a.createStaging(pixels)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	img, err := a.CreateImage(width, height, format, vk.ImageTilingOptimal,
		vk.ImageUsageTransferDstBit|vk.ImageUsageSampledBit, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, err
	}
	steps := []func() error{
		func() error {
			return a.TransitionImageLayout(img, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
		},
		func() error { return a.CopyBufferToImage(staging, img) },
		func() error {
			return a.TransitionImageLayout(img, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			img.Destroy()
			return nil, err
		}
	}
	return img, nil
}

//----------------Textures--------------------//

// Pixels is a tightly packed row-major RGBA8 bitmap.
type Pixels struct {
	Data   []byte
	Width  int
	Height int
}

// LoadTexture decodes PNG, JPEG or PPM files into RGBA8 pixels.
func LoadTexture(path string) (*Pixels, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, newKindError(ErrResource, err, "open texture")
	}
	defer file.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		img, err = ppm.Decode(file)
	} else {
		img, _, err = image.Decode(file)
	}
	if err != nil {
		return nil, newKindError(ErrResource, err, "decode texture %s", path)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *Pixels {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Pixels{Data: rgba.Pix, Width: bounds.Dx(), Height: bounds.Dy()}
}

// Texture is a sampled image with its view and sampler.
type Texture struct {
	Image   *Image
	View    vk.ImageView
	Sampler vk.Sampler
}

const textureFormat = vk.FormatR8g8b8a8Unorm

// CreateTexture decodes path and uploads it with a linear, repeating,
// anisotropic sampler. maxAnisotropy is the device limit.
func (a *Allocator) CreateTexture(path string, maxAnisotropy float32) (*Texture, error) {
	pixels, err := LoadTexture(path)
	if err != nil {
		return nil, err
	}
	a.logs.Info.Printf("vulkan: loaded texture %s with dimensions %dx%d", path, pixels.Width, pixels.Height)

	img, err := a.CreateStagedImage(pixels.Data, uint32(pixels.Width), uint32(pixels.Height), textureFormat)
	if err != nil {
		return nil, err
	}
	view, err := createImageView(a.device, img.Image, textureFormat, vk.ImageAspectColorBit)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	sampler, err := a.createSampler(maxAnisotropy)
	if err != nil {
		vk.DestroyImageView(a.device, view, nil)
		img.Destroy()
		return nil, err
	}
	return &Texture{Image: img, View: view, Sampler: sampler}, nil
}

func samplerAnisotropy(limit float32) float32 {
	const wanted = 16
	if limit > 0 && limit < wanted {
		return limit
	}
	return wanted
}

func (a *Allocator) createSampler(maxAnisotropy float32) (vk.Sampler, error) {
	var sampler vk.Sampler
	ret := vk.CreateSampler(a.device, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		MipmapMode:              vk.SamplerMipmapModeLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.True,
		MaxAnisotropy:           samplerAnisotropy(maxAnisotropy),
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
	}, nil, &sampler)
	if isError(ret) {
		return sampler, newKindError(ErrResource, NewError(ret), "create sampler")
	}
	return sampler, nil
}

//----------------Depth--------------------//

var depthCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// SelectSupportedFormat returns the first candidate whose properties, as
// reported by query, include features for the given tiling. It fails only
// after every candidate has been checked.
func SelectSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlags,
	query func(vk.Format) vk.FormatProperties) (vk.Format, error) {

	for _, format := range candidates {
		props := query(format)
		switch {
		case tiling == vk.ImageTilingLinear && props.LinearTilingFeatures&features == features:
			return format, nil
		case tiling == vk.ImageTilingOptimal && props.OptimalTilingFeatures&features == features:
			return format, nil
		}
	}
	return vk.FormatUndefined, newKindError(ErrResource, nil, "none of %d candidate formats is supported", len(candidates))
}

// FindDepthFormat picks a depth attachment format supported by gpu.
func FindDepthFormat(gpu vk.PhysicalDevice) (vk.Format, error) {
	return SelectSupportedFormat(depthCandidates, vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
		func(format vk.Format) vk.FormatProperties {
			var props vk.FormatProperties
			vk.GetPhysicalDeviceFormatProperties(gpu, format, &props)
			props.Deref()
			return props
		})
}

// DepthAttachment is the depth image shared by every framebuffer of a swapchain.
type DepthAttachment struct {
	Image *Image
	View  vk.ImageView
}

func (a *Allocator) CreateDepthAttachment(format vk.Format, extent vk.Extent2D) (*DepthAttachment, error) {
	img, err := a.CreateImage(extent.Width, extent.Height, format, vk.ImageTilingOptimal,
		vk.ImageUsageDepthStencilAttachmentBit, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, errors.Wrap(err, "depth attachment")
	}
	view, err := createImageView(a.device, img.Image, format, vk.ImageAspectDepthBit)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	return &DepthAttachment{Image: img, View: view}, nil
}
