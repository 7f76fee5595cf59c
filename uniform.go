package quadvk

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/vulkan-go/vulkan"
)

// UniformBufferObject mirrors the uniform block at binding 0 of the vertex shader.
type UniformBufferObject struct {
	Model mgl32.Mat4
	View  mgl32.Mat4
	Proj  mgl32.Mat4
}

var uniformSize = vk.DeviceSize(unsafe.Sizeof(UniformBufferObject{}))

// Spin returns the transforms after seconds of animation: the model turns
// 90 degrees per second about Z, seen from (2,2,2) with a 45 degree lens.
func Spin(seconds float64, extent vk.Extent2D) UniformBufferObject {
	aspect := float32(1)
	if extent.Height > 0 {
		aspect = float32(extent.Width) / float32(extent.Height)
	}
	return UniformBufferObject{
		Model: mgl32.HomogRotate3D(float32(seconds)*mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1}),
		View:  mgl32.LookAtV(mgl32.Vec3{2, 2, 2}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}),
		Proj:  VulkanProjectionMat(mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 10)),
	}
}

func (u *UniformBufferObject) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(u)), int(uniformSize))
}

// UniformBuffer is a host-visible buffer rewritten every frame.
type UniformBuffer struct {
	*Buffer
	alloc *Allocator
}

func (a *Allocator) CreateUniformBuffer() (*UniformBuffer, error) {
	buffer, err := a.CreateBuffer(uniformSize, vk.BufferUsageUniformBufferBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, err
	}
	return &UniformBuffer{Buffer: buffer, alloc: a}, nil
}

func (u *UniformBuffer) Update(ubo UniformBufferObject) error {
	return u.alloc.Write(u.Buffer, ubo.Bytes())
}
