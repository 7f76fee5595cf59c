package quadvk

import vk "github.com/vulkan-go/vulkan"

// syncPair is the only synchronization between acquire, submit and present.
// With one frame in flight the semaphores are reused every frame and never
// reset from the host.
type syncPair struct {
	device         vk.Device
	imageAvailable vk.Semaphore
	renderFinished vk.Semaphore
}

func newSyncPair(device vk.Device) (*syncPair, error) {
	s := &syncPair{device: device}
	var err error
	if s.imageAvailable, err = newSemaphore(device); err != nil {
		return nil, err
	}
	if s.renderFinished, err = newSemaphore(device); err != nil {
		vk.DestroySemaphore(device, s.imageAvailable, nil)
		return nil, err
	}
	return s, nil
}

func newSemaphore(device vk.Device) (vk.Semaphore, error) {
	var semaphore vk.Semaphore
	ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &semaphore)
	if isError(ret) {
		return vk.NullSemaphore, newKindError(ErrResource, NewError(ret), "create semaphore")
	}
	return semaphore, nil
}

func (s *syncPair) Destroy() {
	vk.DestroySemaphore(s.device, s.imageAvailable, nil)
	vk.DestroySemaphore(s.device, s.renderFinished, nil)
}

// CommandBufferManager holds one primary command buffer per swapchain image.
// The set is freed and reallocated whenever the swapchain is recreated.
type CommandBufferManager struct {
	pool    *CorePool
	buffers []vk.CommandBuffer
}

func NewCommandBufferManager(pool *CorePool, count int) (*CommandBufferManager, error) {
	buffers, err := pool.Allocate(count)
	if err != nil {
		return nil, err
	}
	return &CommandBufferManager{pool: pool, buffers: buffers}, nil
}

// Buffer returns the command buffer recorded for swapchain image index.
func (c *CommandBufferManager) Buffer(index uint32) vk.CommandBuffer {
	return c.buffers[index]
}

func (c *CommandBufferManager) Buffers() []vk.CommandBuffer {
	return c.buffers
}

func (c *CommandBufferManager) Destroy() {
	c.pool.Free(c.buffers)
	c.buffers = nil
}
