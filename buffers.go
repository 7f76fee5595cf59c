package quadvk

import (
	"unsafe"

	units "github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

type Buffer struct {
	// device for destroy purposes.
	device vk.Device
	// Buffer is the buffer object.
	Buffer vk.Buffer
	// Memory is the device memory backing buffer object.
	Memory vk.DeviceMemory
	// Size is the requested size in bytes.
	Size vk.DeviceSize
}

// Destroy releases the buffer before the memory bound to it.
func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.device, b.Buffer, nil)
	vk.FreeMemory(b.device, b.Memory, nil)
	b.Buffer = vk.NullBuffer
	b.Memory = vk.NullDeviceMemory
}

// Allocator creates memory-backed buffers and images on one device and runs
// staged transfers through a command pool.
type Allocator struct {
	device   vk.Device
	memProps vk.PhysicalDeviceMemoryProperties
	pool     *CorePool
	logs     *Logs
}

func NewAllocator(device vk.Device, memProps vk.PhysicalDeviceMemoryProperties, pool *CorePool, logs *Logs) *Allocator {
	return &Allocator{device: device, memProps: memProps, pool: pool, logs: logs}
}

func (a *Allocator) allocate(reqs vk.MemoryRequirements, props vk.MemoryPropertyFlagBits, what string) (vk.DeviceMemory, error) {
	memType, ok := FindMemoryType(a.memProps, reqs.MemoryTypeBits, props)
	if !ok {
		return vk.NullDeviceMemory, newKindError(ErrAllocation, nil,
			"no memory type in bits %#x with properties %#x for %s", reqs.MemoryTypeBits, uint32(props), what)
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(a.device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  reqs.Size,
		MemoryTypeIndex: memType,
	}, nil, &memory)
	if isError(ret) {
		return vk.NullDeviceMemory, newKindError(ErrAllocation, NewError(ret), "allocate %s memory", what)
	}
	a.logs.Info.Printf("vulkan: allocated %s for %s in memory type %d", units.BytesSize(float64(reqs.Size)), what, memType)
	return memory, nil
}

// CreateBuffer makes a buffer of size bytes and binds fresh memory satisfying
// props at offset 0.
func (a *Allocator) CreateBuffer(size vk.DeviceSize, usage vk.BufferUsageFlagBits, props vk.MemoryPropertyFlagBits) (*Buffer, error) {
	var buffer vk.Buffer
	ret := vk.CreateBuffer(a.device, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       vk.BufferUsageFlags(usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &buffer)
	if isError(ret) {
		return nil, newKindError(ErrResource, NewError(ret), "create buffer")
	}

	// Ask device about its memory requirements.
	var memReqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(a.device, buffer, &memReqs)
	memReqs.Deref()

	memory, err := a.allocate(memReqs, props, "buffer")
	if err != nil {
		vk.DestroyBuffer(a.device, buffer, nil)
		return nil, err
	}
	if ret := vk.BindBufferMemory(a.device, buffer, memory, 0); isError(ret) {
		vk.DestroyBuffer(a.device, buffer, nil)
		vk.FreeMemory(a.device, memory, nil)
		return nil, newKindError(ErrResource, NewError(ret), "bind buffer memory")
	}
	return &Buffer{device: a.device, Buffer: buffer, Memory: memory, Size: size}, nil
}

// Write maps the whole buffer and copies data into it. The memory must be
// host visible.
func (a *Allocator) Write(b *Buffer, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	var pData unsafe.Pointer
	ret := vk.MapMemory(a.device, b.Memory, 0, vk.DeviceSize(len(data)), 0, &pData)
	if isError(ret) {
		return newKindError(ErrResource, NewError(ret), "map memory (len=%d)", len(data))
	}
	n := vk.Memcopy(pData, data)
	vk.UnmapMemory(a.device, b.Memory)
	if n != len(data) {
		return newKindError(ErrResource, nil, "copied %d of %d bytes", n, len(data))
	}
	return nil
}

// createStaging fills a host-visible transfer source with data.
func (a *Allocator) createStaging(data []byte) (*Buffer, error) {
	staging, err := a.CreateBuffer(vk.DeviceSize(len(data)), vk.BufferUsageTransferSrcBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if err != nil {
		return nil, err
	}
	if err := a.Write(staging, data); err != nil {
		staging.Destroy()
		return nil, err
	}
	return staging, nil
}

// CreateStagedBuffer uploads data into a device-local buffer through a
// temporary staging buffer, which is released before returning.
func (a *Allocator) CreateStagedBuffer(data []byte, usage vk.BufferUsageFlagBits) (*Buffer, error) {
	if len(data) == 0 {
		return nil, newKindError(ErrResource, nil, "staged buffer with no data")
	}
	staging, err := a.createStaging(data)
	if err != nil {
		return nil, err
	}
	defer staging.Destroy()

	size := vk.DeviceSize(len(data))
	dst, err := a.CreateBuffer(size, vk.BufferUsageTransferDstBit|usage, vk.MemoryPropertyDeviceLocalBit)
	if err != nil {
		return nil, err
	}
	err = a.pool.OneTime(func(cmd vk.CommandBuffer) error {
		vk.CmdCopyBuffer(cmd, staging.Buffer, dst.Buffer, 1, []vk.BufferCopy{{Size: size}})
		return nil
	})
	if err != nil {
		dst.Destroy()
		return nil, err
	}
	return dst, nil
}
