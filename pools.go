package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

type CorePool struct {
	device vk.Device
	pool   vk.CommandPool
	queue  vk.Queue
}

//NewCorePool creates a command pool on family whose one-shot work is submitted to queue
func NewCorePool(device vk.Device, family uint32, queue vk.Queue) (*CorePool, error) {
	var cmdPool vk.CommandPool
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: family,
	}, nil, &cmdPool)
	if isError(ret) {
		return nil, newKindError(ErrResource, NewError(ret), "create command pool")
	}
	return &CorePool{device: device, pool: cmdPool, queue: queue}, nil
}

//Allocate primary command buffers from the pool
func (c *CorePool) Allocate(count int) ([]vk.CommandBuffer, error) {
	buffers := make([]vk.CommandBuffer, count)
	if count == 0 {
		return buffers, nil
	}
	ret := vk.AllocateCommandBuffers(c.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, buffers)
	if isError(ret) {
		return nil, newKindError(ErrResource, NewError(ret), "allocate %d command buffers", count)
	}
	return buffers, nil
}

func (c *CorePool) Free(buffers []vk.CommandBuffer) {
	if len(buffers) == 0 {
		return
	}
	vk.FreeCommandBuffers(c.device, c.pool, uint32(len(buffers)), buffers)
}

//OneTime records fn into a transient command buffer, submits it and blocks until the queue is idle
func (c *CorePool) OneTime(fn func(cmd vk.CommandBuffer) error) error {
	buffers, err := c.Allocate(1)
	if err != nil {
		return err
	}
	defer c.Free(buffers)
	cmd := buffers[0]

	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if isError(ret) {
		return newKindError(ErrResource, NewError(ret), "begin one-time commands")
	}
	if err := fn(cmd); err != nil {
		vk.EndCommandBuffer(cmd)
		return err
	}
	if ret := vk.EndCommandBuffer(cmd); isError(ret) {
		return newKindError(ErrResource, NewError(ret), "end one-time commands")
	}

	ret = vk.QueueSubmit(c.queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, vk.NullFence)
	if isError(ret) {
		return newKindError(ErrSubmit, NewError(ret), "submit one-time commands")
	}
	if ret := vk.QueueWaitIdle(c.queue); isError(ret) {
		return newKindError(ErrSubmit, NewError(ret), "wait for one-time commands")
	}
	return nil
}

func (c *CorePool) Destroy() {
	vk.DestroyCommandPool(c.device, c.pool, nil)
}
