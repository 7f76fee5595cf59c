package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

type frameState int

const (
	stateIdle frameState = iota
	stateAcquiring
	stateSubmitting
	statePresenting
	stateRecreating
)

func (s frameState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAcquiring:
		return "acquiring"
	case stateSubmitting:
		return "submitting"
	case statePresenting:
		return "presenting"
	case stateRecreating:
		return "recreating"
	}
	return "unknown"
}

// frameDriver is the device side of one frame. Renderer implements it over
// the swapchain and queues.
type frameDriver interface {
	acquireNextImage() (uint32, vk.Result)
	submit(index uint32) vk.Result
	present(index uint32) vk.Result
	waitPresentIdle() vk.Result
	Recreate() error
}

// frameLoop runs frames over driver. A present that reports suboptimal
// recreates the swapchain once; later suboptimal presents are drawn as they
// are until a clean present or a resize clears the latch.
type frameLoop struct {
	driver              frameDriver
	suboptimalRecreated bool
}

// resized clears the suboptimal latch so the next suboptimal present
// recreates again.
func (l *frameLoop) resized() {
	l.suboptimalRecreated = false
}

// draw runs one pass of the frame loop, from acquire back to idle.
// An out of date swapchain on acquire skips submit and present and is
// recreated instead. Present waits for the queue to drain so only one frame
// is ever in flight.
func (l *frameLoop) draw() error {
	d := l.driver
	var index uint32
	state := stateAcquiring
	for state != stateIdle {
		switch state {
		case stateAcquiring:
			var ret vk.Result
			index, ret = d.acquireNextImage()
			switch ret {
			case vk.Success, vk.Suboptimal:
				state = stateSubmitting
			case vk.ErrorOutOfDate:
				state = stateRecreating
			default:
				return newKindError(ErrSwapchainAcquire, NewError(ret), "acquire next image")
			}

		case stateSubmitting:
			if ret := d.submit(index); isError(ret) {
				return newKindError(ErrSubmit, NewError(ret), "submit image %d", index)
			}
			state = statePresenting

		case statePresenting:
			ret := d.present(index)
			if wait := d.waitPresentIdle(); isError(wait) {
				return newKindError(ErrSubmit, NewError(wait), "wait for present queue")
			}
			switch ret {
			case vk.Success:
				l.suboptimalRecreated = false
				state = stateIdle
			case vk.Suboptimal:
				if l.suboptimalRecreated {
					state = stateIdle
					break
				}
				l.suboptimalRecreated = true
				state = stateRecreating
			case vk.ErrorOutOfDate:
				state = stateRecreating
			default:
				return newKindError(ErrSubmit, NewError(ret), "present image %d", index)
			}

		case stateRecreating:
			if err := d.Recreate(); err != nil {
				return err
			}
			state = stateIdle
		}
	}
	return nil
}

//----------------Renderer frame driver--------------------//

func (r *Renderer) acquireNextImage() (uint32, vk.Result) {
	var index uint32
	ret := vk.AcquireNextImage(r.device.handle, r.swapchain.handle, vk.MaxUint64,
		r.sync.imageAvailable, vk.NullFence, &index)
	return index, ret
}

func (r *Renderer) submit(index uint32) vk.Result {
	return vk.QueueSubmit(r.device.graphics, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{r.sync.imageAvailable},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{r.commands.Buffer(index)},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{r.sync.renderFinished},
	}}, vk.NullFence)
}

func (r *Renderer) present(index uint32) vk.Result {
	return vk.QueuePresent(r.device.present, &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{r.sync.renderFinished},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{r.swapchain.handle},
		PImageIndices:      []uint32{index},
	})
}

func (r *Renderer) waitPresentIdle() vk.Result {
	return vk.QueueWaitIdle(r.device.present)
}
