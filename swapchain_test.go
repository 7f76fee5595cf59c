package quadvk

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func surfaceFormat(format vk.Format, space vk.ColorSpace) vk.SurfaceFormat {
	return vk.SurfaceFormat{Format: format, ColorSpace: space}
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := surfaceFormat(vk.FormatB8g8r8a8Unorm, vk.ColorSpaceSrgbNonlinear)
	rgba := surfaceFormat(vk.FormatR8g8b8a8Unorm, vk.ColorSpaceSrgbNonlinear)
	linear := surfaceFormat(vk.FormatB8g8r8a8Unorm, vk.ColorSpace(1000104002))

	for idx, tc := range []struct {
		formats []vk.SurfaceFormat
		want    vk.SurfaceFormat
	}{
		{[]vk.SurfaceFormat{surfaceFormat(vk.FormatUndefined, vk.ColorSpaceSrgbNonlinear)}, preferred},
		{[]vk.SurfaceFormat{preferred}, preferred},
		{[]vk.SurfaceFormat{rgba, preferred}, preferred},
		{[]vk.SurfaceFormat{preferred, rgba}, preferred},
		{[]vk.SurfaceFormat{rgba, linear}, rgba},
		{[]vk.SurfaceFormat{linear, rgba}, linear},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			got := ChooseSurfaceFormat(tc.formats)
			require.Equal(t, tc.want.Format, got.Format)
			require.Equal(t, tc.want.ColorSpace, got.ColorSpace)
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	for idx, tc := range []struct {
		modes []vk.PresentMode
		want  vk.PresentMode
	}{
		{[]vk.PresentMode{vk.PresentModeFifo}, vk.PresentModeFifo},
		{[]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}, vk.PresentModeImmediate},
		{[]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeMailbox, vk.PresentModeFifo}, vk.PresentModeMailbox},
		{[]vk.PresentMode{vk.PresentModeFifoRelaxed}, vk.PresentModeFifo},
		{nil, vk.PresentModeFifo},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			require.Equal(t, tc.want, ChoosePresentMode(tc.modes))
		})
	}
}

func capabilities(current, min, max vk.Extent2D, minImages, maxImages uint32) vk.SurfaceCapabilities {
	return vk.SurfaceCapabilities{
		CurrentExtent:  current,
		MinImageExtent: min,
		MaxImageExtent: max,
		MinImageCount:  minImages,
		MaxImageCount:  maxImages,
	}
}

func TestChooseExtent(t *testing.T) {
	undefined := vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32}
	min := vk.Extent2D{Width: 100, Height: 100}
	max := vk.Extent2D{Width: 1000, Height: 800}

	for idx, tc := range []struct {
		current       vk.Extent2D
		width, height int
		want          vk.Extent2D
	}{
		{vk.Extent2D{Width: 640, Height: 480}, 1, 1, vk.Extent2D{Width: 640, Height: 480}},
		{undefined, 500, 400, vk.Extent2D{Width: 500, Height: 400}},
		{undefined, 50, 4000, vk.Extent2D{Width: 100, Height: 800}},
		{undefined, 2000, 20, vk.Extent2D{Width: 1000, Height: 100}},
		{undefined, -5, 0, vk.Extent2D{Width: 100, Height: 100}},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			got := ChooseExtent(capabilities(tc.current, min, max, 2, 0), tc.width, tc.height)
			require.Equal(t, tc.want.Width, got.Width)
			require.Equal(t, tc.want.Height, got.Height)
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	for idx, tc := range []struct {
		min, max uint32
		want     uint32
	}{
		{2, 0, 3},
		{2, 8, 3},
		{3, 3, 3},
		{1, 2, 2},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			caps := capabilities(vk.Extent2D{}, vk.Extent2D{}, vk.Extent2D{}, tc.min, tc.max)
			require.Equal(t, tc.want, ChooseImageCount(caps))
		})
	}
}

func testSupport() SurfaceSupport {
	return SurfaceSupport{
		Capabilities: capabilities(
			vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
			vk.Extent2D{Width: 1, Height: 1},
			vk.Extent2D{Width: 4096, Height: 4096},
			2, 8),
		Formats: []vk.SurfaceFormat{
			surfaceFormat(vk.FormatR8g8b8a8Unorm, vk.ColorSpaceSrgbNonlinear),
			surfaceFormat(vk.FormatB8g8r8a8Unorm, vk.ColorSpaceSrgbNonlinear),
		},
		PresentModes: []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox},
	}
}

func TestPlanSwapchain(t *testing.T) {
	families := QueueFamilyIndices{Graphics: 0, Present: 0, HasGraphics: true, HasPresent: true}
	plan, err := PlanSwapchain(testSupport(), 800, 600, families)
	require.NoError(t, err)
	require.Equal(t, vk.FormatB8g8r8a8Unorm, plan.Format.Format)
	require.Equal(t, vk.PresentModeMailbox, plan.PresentMode)
	require.Equal(t, uint32(800), plan.Extent.Width)
	require.Equal(t, uint32(600), plan.Extent.Height)
	require.Equal(t, uint32(3), plan.ImageCount)
	require.Equal(t, vk.SharingModeExclusive, plan.SharingMode)
	require.Empty(t, plan.QueueFamilies)
}

func TestPlanSwapchainSeparateFamilies(t *testing.T) {
	families := QueueFamilyIndices{Graphics: 0, Present: 2, HasGraphics: true, HasPresent: true}
	plan, err := PlanSwapchain(testSupport(), 800, 600, families)
	require.NoError(t, err)
	require.Equal(t, vk.SharingModeConcurrent, plan.SharingMode)
	require.Equal(t, []uint32{0, 2}, plan.QueueFamilies)
}

func TestPlanSwapchainIsRepeatable(t *testing.T) {
	families := QueueFamilyIndices{Graphics: 1, Present: 1, HasGraphics: true, HasPresent: true}
	first, err := PlanSwapchain(testSupport(), 1024, 768, families)
	require.NoError(t, err)
	second, err := PlanSwapchain(testSupport(), 1024, 768, families)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestPlanSwapchainUnsupportedSurface(t *testing.T) {
	families := QueueFamilyIndices{HasGraphics: true, HasPresent: true}
	for idx, support := range []SurfaceSupport{
		{PresentModes: []vk.PresentMode{vk.PresentModeFifo}},
		{Formats: testSupport().Formats},
		{},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			_, err := PlanSwapchain(support, 800, 600, families)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnsupportedSurface))
			require.True(t, errors.Is(err, ErrInitialization))
		})
	}
}
