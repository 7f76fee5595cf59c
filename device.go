package quadvk

import (
	"strings"

	units "github.com/docker/go-units"
	vk "github.com/vulkan-go/vulkan"
)

//DeviceCandidate is everything device selection looks at, gathered up front so the
//selection itself needs no GPU
type DeviceCandidate struct {
	Name       string
	Type       vk.PhysicalDeviceType
	Extensions []string
	Families   []QueueFamily
	Anisotropy bool
	Support    SurfaceSupport
}

type DeviceRequirements struct {
	Extensions      []string
	RequireDiscrete bool
}

//Unsuitable returns why the candidate fails req, or "" when it passes
func (c DeviceCandidate) Unsuitable(req DeviceRequirements) string {
	if req.RequireDiscrete && c.Type != vk.PhysicalDeviceTypeDiscreteGpu {
		return "not a discrete gpu"
	}
	if _, missing := checkExisting(c.Extensions, req.Extensions); len(missing) > 0 {
		return "missing extensions " + strings.Join(missing, ", ")
	}
	if !FindQueueFamilies(c.Families).Complete() {
		return "no graphics and present queue families"
	}
	if !c.Anisotropy {
		return "no sampler anisotropy"
	}
	if !c.Support.Adequate() {
		return "surface reports no formats or present modes"
	}
	return ""
}

//SelectDevice returns the index of the first candidate meeting every requirement
func SelectDevice(candidates []DeviceCandidate, req DeviceRequirements) (int, error) {
	reasons := make([]string, 0, len(candidates))
	for index, candidate := range candidates {
		reason := candidate.Unsuitable(req)
		if reason == "" {
			return index, nil
		}
		reasons = append(reasons, candidate.Name+": "+reason)
	}
	return -1, newKindError(ErrNoSuitableDevice, nil, "%d devices checked [%s]", len(candidates), strings.Join(reasons, "; "))
}

//QueryDeviceCandidate gathers the selection inputs of gpu against surface
func QueryDeviceCandidate(gpu vk.PhysicalDevice, surface vk.Surface) (DeviceCandidate, error) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(gpu, &props)
	props.Deref()

	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(gpu, &features)
	features.Deref()

	extensions, err := DeviceExtensions(gpu)
	if err != nil {
		return DeviceCandidate{}, newKindError(ErrInitialization, err, "enumerate device extensions")
	}

	//A surface query failure leaves the support empty, which disqualifies the device
	support, _ := QuerySurfaceSupport(gpu, surface)

	return DeviceCandidate{
		Name:       vk.ToString(props.DeviceName[:]),
		Type:       props.DeviceType,
		Extensions: extensions,
		Families:   QueryQueueFamilies(gpu, surface),
		Anisotropy: features.SamplerAnisotropy.B(),
		Support:    support,
	}, nil
}

type CoreDevice struct {
	gpu        vk.PhysicalDevice
	handle     vk.Device
	name       string
	properties vk.PhysicalDeviceProperties
	memProps   vk.PhysicalDeviceMemoryProperties
	families   QueueFamilyIndices
	graphics   vk.Queue
	present    vk.Queue
}

//NewCoreDevice selects a physical device for surface and creates the logical device with
//one queue per distinct family and sampler anisotropy enabled
func NewCoreDevice(instance vk.Instance, surface vk.Surface, cfg DeviceConfig, layers []string, logs *Logs) (*CoreDevice, error) {
	var gpuCount uint32
	ret := vk.EnumeratePhysicalDevices(instance, &gpuCount, nil)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "enumerate physical devices")
	}
	if gpuCount == 0 {
		return nil, newKindError(ErrNoSuitableDevice, nil, "no physical devices found")
	}
	gpus := make([]vk.PhysicalDevice, gpuCount)
	ret = vk.EnumeratePhysicalDevices(instance, &gpuCount, gpus)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "enumerate physical devices")
	}

	candidates := make([]DeviceCandidate, 0, len(gpus))
	for _, gpu := range gpus {
		candidate, err := QueryDeviceCandidate(gpu, surface)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	selected, err := SelectDevice(candidates, DeviceRequirements{
		Extensions:      cfg.Extensions,
		RequireDiscrete: cfg.RequireDiscrete,
	})
	if err != nil {
		return nil, err
	}

	core := &CoreDevice{
		gpu:      gpus[selected],
		name:     candidates[selected].Name,
		families: FindQueueFamilies(candidates[selected].Families),
	}
	vk.GetPhysicalDeviceProperties(core.gpu, &core.properties)
	core.properties.Deref()
	core.properties.Limits.Deref()
	vk.GetPhysicalDeviceMemoryProperties(core.gpu, &core.memProps)
	core.memProps.Deref()
	logs.Info.Printf("vulkan: selected device %s", core.name)
	core.logHeaps(logs)

	extensions := NewExtensionSet(candidates[selected].Extensions, nil, cfg.Extensions).GetExtensions()
	queueInfos := core.families.CreateInfos()

	var device vk.Device
	ret = vk.CreateDevice(core.gpu, &vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
		PEnabledFeatures: []vk.PhysicalDeviceFeatures{{
			SamplerAnisotropy: vk.True,
		}},
	}, nil, &device)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "create logical device on %s", core.name)
	}
	core.handle = device

	vk.GetDeviceQueue(device, core.families.Graphics, 0, &core.graphics)
	vk.GetDeviceQueue(device, core.families.Present, 0, &core.present)
	return core, nil
}

func (core *CoreDevice) logHeaps(logs *Logs) {
	for i := uint32(0); i < core.memProps.MemoryHeapCount && i < vk.MaxMemoryHeaps; i++ {
		heap := core.memProps.MemoryHeaps[i]
		heap.Deref()
		logs.Info.Printf("vulkan: memory heap %d %s", i, units.BytesSize(float64(heap.Size)))
	}
}

//MaxAnisotropy is the device sampler anisotropy limit
func (core *CoreDevice) MaxAnisotropy() float32 {
	return core.properties.Limits.MaxSamplerAnisotropy
}

func (core *CoreDevice) WaitIdle() error {
	if ret := vk.DeviceWaitIdle(core.handle); isError(ret) {
		return newKindError(ErrSubmit, NewError(ret), "wait for device idle")
	}
	return nil
}

func (core *CoreDevice) Destroy() {
	vk.DestroyDevice(core.handle, nil)
	core.handle = nil
}
