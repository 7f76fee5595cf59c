package quadvk

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestPipelineBuilderFixedState(t *testing.T) {
	extent := vk.Extent2D{Width: 640, Height: 480}
	pb := NewPipelineBuilder(vk.NullShaderModule, vk.NullShaderModule, extent, false)

	require.Len(t, pb._shaderStages, 2)
	require.Equal(t, vk.ShaderStageVertexBit, pb._shaderStages[0].Stage)
	require.Equal(t, vk.ShaderStageFragmentBit, pb._shaderStages[1].Stage)
	require.Equal(t, "main\x00", pb._shaderStages[0].PName)

	require.Equal(t, uint32(1), pb._vertexInputInfo.VertexBindingDescriptionCount)
	require.Equal(t, uint32(3), pb._vertexInputInfo.VertexAttributeDescriptionCount)
	require.Equal(t, vk.PrimitiveTopologyTriangleList, pb._inputAssembly.Topology)

	require.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), pb._rasterizer.CullMode)
	require.Equal(t, vk.FrontFaceCounterClockwise, pb._rasterizer.FrontFace)
	require.Equal(t, vk.PolygonModeFill, pb._rasterizer.PolygonMode)
	require.Equal(t, float32(1), pb._rasterizer.LineWidth)
	require.Equal(t, vk.SampleCount1Bit, pb._multisampling.RasterizationSamples)

	require.Equal(t, vk.Bool32(vk.False), pb._colorBlendAttachment.BlendEnable)
	require.Equal(t, vk.ColorComponentFlags(vk.ColorComponentRBit|vk.ColorComponentGBit|vk.ColorComponentBBit|vk.ColorComponentABit),
		pb._colorBlendAttachment.ColorWriteMask)

	require.Equal(t, float32(640), pb._viewport.Width)
	require.Equal(t, float32(480), pb._viewport.Height)
	require.Equal(t, float32(1), pb._viewport.MaxDepth)
	require.Equal(t, uint32(640), pb._scissor.Extent.Width)
	require.Equal(t, uint32(480), pb._scissor.Extent.Height)

	require.Equal(t, vk.Bool32(vk.False), pb._depthStencil.DepthTestEnable)
}

func TestPipelineBuilderDepth(t *testing.T) {
	pb := NewPipelineBuilder(vk.NullShaderModule, vk.NullShaderModule, vk.Extent2D{Width: 1, Height: 1}, true)
	require.Equal(t, vk.Bool32(vk.True), pb._depthStencil.DepthTestEnable)
	require.Equal(t, vk.Bool32(vk.True), pb._depthStencil.DepthWriteEnable)
	require.Equal(t, vk.CompareOpLess, pb._depthStencil.DepthCompareOp)
}

func TestRenderPassColorOnly(t *testing.T) {
	info := renderPassCreateInfo(vk.FormatB8g8r8a8Unorm, vk.FormatUndefined)
	require.Equal(t, uint32(1), info.AttachmentCount)

	color := info.PAttachments[0]
	require.Equal(t, vk.FormatB8g8r8a8Unorm, color.Format)
	require.Equal(t, vk.AttachmentLoadOpClear, color.LoadOp)
	require.Equal(t, vk.AttachmentStoreOpStore, color.StoreOp)
	require.Equal(t, vk.ImageLayoutUndefined, color.InitialLayout)
	require.Equal(t, vk.ImageLayoutPresentSrc, color.FinalLayout)

	require.Len(t, info.PSubpasses, 1)
	require.Nil(t, info.PSubpasses[0].PDepthStencilAttachment)

	dep := info.PDependencies[0]
	require.Equal(t, uint32(vk.SubpassExternal), dep.SrcSubpass)
	require.Equal(t, uint32(0), dep.DstSubpass)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), dep.SrcStageMask)
	require.Equal(t, vk.AccessFlags(0), dep.SrcAccessMask)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit), dep.DstStageMask)
	require.Equal(t, vk.AccessFlags(vk.AccessColorAttachmentReadBit|vk.AccessColorAttachmentWriteBit), dep.DstAccessMask)
}

func TestRenderPassWithDepth(t *testing.T) {
	info := renderPassCreateInfo(vk.FormatB8g8r8a8Unorm, vk.FormatD32Sfloat)
	require.Equal(t, uint32(2), info.AttachmentCount)
	require.Equal(t, vk.FormatD32Sfloat, info.PAttachments[1].Format)
	require.Equal(t, vk.ImageLayoutDepthStencilAttachmentOptimal, info.PAttachments[1].FinalLayout)
	require.NotNil(t, info.PSubpasses[0].PDepthStencilAttachment)
	require.Equal(t, uint32(1), info.PSubpasses[0].PDepthStencilAttachment.Attachment)
}

func TestDescriptorLayout(t *testing.T) {
	bindings := descriptorSetLayoutBindings()
	require.Len(t, bindings, 2)
	require.Equal(t, vk.DescriptorTypeUniformBuffer, bindings[0].DescriptorType)
	require.Equal(t, vk.ShaderStageFlags(vk.ShaderStageVertexBit), bindings[0].StageFlags)
	require.Equal(t, uint32(1), bindings[1].Binding)
	require.Equal(t, vk.DescriptorTypeCombinedImageSampler, bindings[1].DescriptorType)
	require.Equal(t, vk.ShaderStageFlags(vk.ShaderStageFragmentBit), bindings[1].StageFlags)

	for _, size := range descriptorPoolSizes() {
		require.Equal(t, uint32(1), size.DescriptorCount)
	}
}
