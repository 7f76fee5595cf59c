package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//QueueFamily is the part of a device queue family relevant to selection
type QueueFamily struct {
	Flags   vk.QueueFlags
	Count   uint32
	Present bool //Supports presentation to the bound surface
}

//Graphics and present family indices for a device. Both may name the same family
type QueueFamilyIndices struct {
	Graphics    uint32
	Present     uint32
	HasGraphics bool
	HasPresent  bool
}

func (q QueueFamilyIndices) Complete() bool {
	return q.HasGraphics && q.HasPresent
}

//Separate is true when graphics and present work go to different families
func (q QueueFamilyIndices) Separate() bool {
	return q.Complete() && q.Graphics != q.Present
}

//Unique lists each distinct family once, graphics first
func (q QueueFamilyIndices) Unique() []uint32 {
	if q.Separate() {
		return []uint32{q.Graphics, q.Present}
	}
	return []uint32{q.Graphics}
}

//Gets one create info per distinct family with a single queue of priority 1.0
func (q QueueFamilyIndices) CreateInfos() []vk.DeviceQueueCreateInfo {
	unique := q.Unique()
	infos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for index, family := range unique {
		infos[index] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return infos
}

//FindQueueFamilies walks families in order, taking the latest family that offers
//each capability until both graphics and present are found. A family with both
//wins over an earlier graphics-only family found before it.
func FindQueueFamilies(families []QueueFamily) QueueFamilyIndices {
	var indices QueueFamilyIndices
	graphics := vk.QueueFlags(vk.QueueGraphicsBit)
	for index, family := range families {
		if family.Count == 0 {
			continue
		}
		if family.Flags&graphics == graphics {
			indices.Graphics = uint32(index)
			indices.HasGraphics = true
		}
		if family.Present {
			indices.Present = uint32(index)
			indices.HasPresent = true
		}
		if indices.Complete() {
			break
		}
	}
	return indices
}

//List queue family properties of a physical device along with present support for surface
func QueryQueueFamilies(gpu vk.PhysicalDevice, surface vk.Surface) []QueueFamily {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	properties := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, properties)

	families := make([]QueueFamily, count)
	for index := range properties {
		properties[index].Deref()
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(gpu, uint32(index), surface, &supported)
		families[index] = QueueFamily{
			Flags:   properties[index].QueueFlags,
			Count:   properties[index].QueueCount,
			Present: supported.B(),
		}
	}
	return families
}
