package quadvk

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestPlanTransitionSupported(t *testing.T) {
	barrier, err := PlanTransition(vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	require.Equal(t, vk.AccessFlags(0), barrier.SrcAccess)
	require.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), barrier.DstAccess)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), barrier.SrcStage)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), barrier.DstStage)

	barrier, err = PlanTransition(vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	require.NoError(t, err)
	require.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), barrier.SrcAccess)
	require.Equal(t, vk.AccessFlags(vk.AccessShaderReadBit), barrier.DstAccess)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), barrier.SrcStage)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit), barrier.DstStage)
}

func TestPlanTransitionUnsupported(t *testing.T) {
	for idx, tc := range []struct {
		from, to vk.ImageLayout
	}{
		{vk.ImageLayoutUndefined, vk.ImageLayoutShaderReadOnlyOptimal},
		{vk.ImageLayoutShaderReadOnlyOptimal, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutUndefined},
		{vk.ImageLayoutUndefined, vk.ImageLayoutPresentSrc},
		{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferDstOptimal},
	} {
		t.Run(fmt.Sprintf("%d", idx), func(t *testing.T) {
			barrier, err := PlanTransition(tc.from, tc.to)
			require.True(t, errors.Is(err, ErrUnsupportedTransition))
			require.Equal(t, Barrier{}, barrier)
		})
	}
}

func TestSelectSupportedFormat(t *testing.T) {
	depthBit := vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit)
	supported := map[vk.Format]vk.FormatProperties{
		vk.FormatD32SfloatS8Uint: {OptimalTilingFeatures: depthBit},
		vk.FormatD24UnormS8Uint:  {LinearTilingFeatures: depthBit, OptimalTilingFeatures: depthBit},
	}
	var queried []vk.Format
	query := func(format vk.Format) vk.FormatProperties {
		queried = append(queried, format)
		return supported[format]
	}

	format, err := SelectSupportedFormat(depthCandidates, vk.ImageTilingOptimal, depthBit, query)
	require.NoError(t, err)
	require.Equal(t, vk.FormatD32SfloatS8Uint, format)
	require.Equal(t, []vk.Format{vk.FormatD32Sfloat, vk.FormatD32SfloatS8Uint}, queried)

	queried = nil
	format, err = SelectSupportedFormat(depthCandidates, vk.ImageTilingLinear, depthBit, query)
	require.NoError(t, err)
	require.Equal(t, vk.FormatD24UnormS8Uint, format)
	require.Len(t, queried, 3)
}

func TestSelectSupportedFormatExhausted(t *testing.T) {
	var calls int
	_, err := SelectSupportedFormat(depthCandidates, vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
		func(vk.Format) vk.FormatProperties {
			calls++
			return vk.FormatProperties{}
		})
	require.True(t, errors.Is(err, ErrResource))
	require.Equal(t, len(depthCandidates), calls)
}

func TestSamplerAnisotropy(t *testing.T) {
	require.Equal(t, float32(16), samplerAnisotropy(16))
	require.Equal(t, float32(16), samplerAnisotropy(64))
	require.Equal(t, float32(8), samplerAnisotropy(8))
	require.Equal(t, float32(16), samplerAnisotropy(0))
}

func TestLoadTexturePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	src.Set(0, 0, color.NRGBA{R: 255, A: 255})
	src.Set(2, 1, color.NRGBA{B: 255, G: 10, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	path := filepath.Join(t.TempDir(), "texture.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	pixels, err := LoadTexture(path)
	require.NoError(t, err)
	require.Equal(t, 3, pixels.Width)
	require.Equal(t, 2, pixels.Height)
	require.Len(t, pixels.Data, 3*2*4)
	require.Equal(t, []byte{255, 0, 0, 255}, pixels.Data[0:4])
	last := (1*3 + 2) * 4
	require.Equal(t, []byte{0, 10, 255, 255}, pixels.Data[last:last+4])
}

func TestLoadTexturePPM(t *testing.T) {
	data := append([]byte("P6\n2 1\n255\n"), 10, 20, 30, 40, 50, 60)
	path := filepath.Join(t.TempDir(), "texture.ppm")
	require.NoError(t, os.WriteFile(path, data, 0644))

	pixels, err := LoadTexture(path)
	require.NoError(t, err)
	require.Equal(t, 2, pixels.Width)
	require.Equal(t, 1, pixels.Height)
	require.Equal(t, []byte{10, 20, 30, 255, 40, 50, 60, 255}, pixels.Data)
}

func TestLoadTextureErrors(t *testing.T) {
	_, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	require.True(t, errors.Is(err, ErrResource))

	path := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err = LoadTexture(path)
	require.True(t, errors.Is(err, ErrResource))
}
