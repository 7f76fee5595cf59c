package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//FrameRecorder records the static draw of the quad into one command buffer per framebuffer
type FrameRecorder struct {
	RenderPass   *CoreRenderPass
	Pipeline     *CorePipeline
	Framebuffers []vk.Framebuffer
	Extent       vk.Extent2D
	Vertices     *Buffer
	Indices      *Buffer
	IndexCount   uint32
	Set          vk.DescriptorSet
	ClearColor   [4]float32
}

func (r *FrameRecorder) clearValues() []vk.ClearValue {
	values := []vk.ClearValue{
		vk.NewClearValue(r.ClearColor[:]),
	}
	if r.RenderPass.HasDepth() {
		values = append(values, vk.NewClearDepthStencil(1.0, 0))
	}
	return values
}

//Record fills cmds[i] with the draw targeting Framebuffers[i]. The buffers are submitted
//every frame without re-recording, hence SimultaneousUse
func (r *FrameRecorder) Record(cmds []vk.CommandBuffer) error {
	if len(cmds) != len(r.Framebuffers) {
		return newKindError(ErrResource, nil, "%d command buffers for %d framebuffers", len(cmds), len(r.Framebuffers))
	}
	clearValues := r.clearValues()
	renderArea := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: r.Extent,
	}

	for index, cmd := range cmds {
		ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
			SType: vk.StructureTypeCommandBufferBeginInfo,
			Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageSimultaneousUseBit),
		})
		if isError(ret) {
			return newKindError(ErrResource, NewError(ret), "begin command buffer %d", index)
		}

		vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
			SType:           vk.StructureTypeRenderPassBeginInfo,
			RenderPass:      r.RenderPass.renderPass,
			Framebuffer:     r.Framebuffers[index],
			RenderArea:      renderArea,
			ClearValueCount: uint32(len(clearValues)),
			PClearValues:    clearValues,
		}, vk.SubpassContentsInline)

		vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, r.Pipeline.pipeline)
		vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{r.Vertices.Buffer}, []vk.DeviceSize{0})
		vk.CmdBindIndexBuffer(cmd, r.Indices.Buffer, 0, vk.IndexTypeUint16)
		vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, r.Pipeline.layout, 0, 1,
			[]vk.DescriptorSet{r.Set}, 0, nil)
		vk.CmdDrawIndexed(cmd, r.IndexCount, 1, 0, 0, 0)

		vk.CmdEndRenderPass(cmd)
		if ret := vk.EndCommandBuffer(cmd); isError(ret) {
			return newKindError(ErrResource, NewError(ret), "end command buffer %d", index)
		}
	}
	return nil
}
