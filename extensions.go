package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// enumerateNames runs the count-then-fill enumeration every Vulkan property
// query uses and returns the name of each entry.
func enumerateNames[T any](what string, enumerate func(count *uint32, list []T) vk.Result, name func(*T) string) ([]string, error) {
	var count uint32
	if ret := enumerate(&count, nil); isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "count %s", what)
	}
	list := make([]T, count)
	if ret := enumerate(&count, list); isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "list %s", what)
	}
	names := make([]string, 0, count)
	for i := range list[:count] {
		names = append(names, name(&list[i]))
	}
	return names, nil
}

func extensionName(ext *vk.ExtensionProperties) string {
	ext.Deref()
	return vk.ToString(ext.ExtensionName[:])
}

func layerName(layer *vk.LayerProperties) string {
	layer.Deref()
	return vk.ToString(layer.LayerName[:])
}

// InstanceExtensions gets a list of instance extensions available on the platform.
func InstanceExtensions() ([]string, error) {
	return enumerateNames("instance extensions", func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateInstanceExtensionProperties("", count, list)
	}, extensionName)
}

// DeviceExtensions gets a list of extensions available on the provided physical device.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	return enumerateNames("device extensions", func(count *uint32, list []vk.ExtensionProperties) vk.Result {
		return vk.EnumerateDeviceExtensionProperties(gpu, "", count, list)
	}, extensionName)
}

// ValidationLayers gets a list of validation layers available on the platform.
func ValidationLayers() ([]string, error) {
	return enumerateNames("validation layers", func(count *uint32, list []vk.LayerProperties) vk.Result {
		return vk.EnumerateInstanceLayerProperties(count, list)
	}, layerName)
}

//----------------Extension Sets--------------------//

// ExtensionSet resolves wanted and required names against what the platform
// actually offers. The same type serves instance extensions, device
// extensions and validation layers.
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

func NewExtensionSet(actual, wanted, required []string) *ExtensionSet {
	return &ExtensionSet{wanted: wanted, required: required, actual: actual}
}

func (e *ExtensionSet) HasRequired() (bool, []string) {
	_, missing := checkExisting(e.actual, e.required)
	return len(missing) == 0, missing
}

func (e *ExtensionSet) HasWanted() (bool, []string) {
	_, missing := checkExisting(e.actual, e.wanted)
	return len(missing) == 0, missing
}

// GetExtensions lists the null terminated names to enable: every required
// name followed by each available wanted name not already required.
func (e *ExtensionSet) GetExtensions() []string {
	implement := safeStrings(e.required)
	seen := make(map[string]struct{}, len(implement))
	for _, name := range e.required {
		seen[trimNull(name)] = struct{}{}
	}
	available, _ := checkExisting(e.actual, e.wanted)
	for _, want := range available {
		if _, ok := seen[trimNull(want)]; ok {
			continue
		}
		seen[trimNull(want)] = struct{}{}
		implement = append(implement, want)
	}
	return implement
}

// FindMemoryType returns the first memory type index allowed by typeBits
// whose property flags contain every bit of props.
func FindMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, flags vk.MemoryPropertyFlagBits) (uint32, bool) {
	want := vk.MemoryPropertyFlags(flags)
	for i := uint32(0); i < props.MemoryTypeCount && i < vk.MaxMemoryTypes; i++ {
		if typeBits&(1<<i) == 0 {
			continue
		}
		memType := props.MemoryTypes[i]
		memType.Deref()
		if memType.PropertyFlags&want == want {
			return i, true
		}
	}
	return 0, false
}
