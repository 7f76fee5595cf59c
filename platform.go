package quadvk

import (
	"log"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

const debugReportExtension = "VK_EXT_debug_report"

// Platform owns the Vulkan instance, the validation layers it was created
// with and the optional diagnostics sink.
type Platform struct {
	instance    vk.Instance
	layers      []string
	diagnostics *Diagnostics
}

// NewPlatform creates the instance. required lists the instance extensions the
// windowing system needs to create surfaces.
func NewPlatform(cfg Config, required []string, logs *Logs) (*Platform, error) {
	actualExtensions, err := InstanceExtensions()
	if err != nil {
		return nil, newKindError(ErrInitialization, err, "enumerate instance extensions")
	}
	var wanted []string
	if cfg.Validation.Enabled {
		wanted = []string{debugReportExtension}
	}
	extensions, debugReport, err := resolveInstanceExtensions(actualExtensions, required, wanted)
	if err != nil {
		return nil, err
	}
	logs.Info.Printf("vulkan: enabling %d instance extensions", len(extensions))

	var layers []string
	if cfg.Validation.Enabled {
		actualLayers, err := ValidationLayers()
		if err != nil {
			return nil, newKindError(ErrInitialization, err, "enumerate validation layers")
		}
		if layers, err = resolveLayers(actualLayers, cfg.Validation.Layers); err != nil {
			return nil, err
		}
		logs.Info.Printf("vulkan: enabling %d validation layers", len(layers))
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         uint32(vk.MakeVersion(1, 1, 0)),
			ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
			PApplicationName:   safeString(cfg.Window.Title),
			PEngineName:        "quadvk\x00",
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}, nil, &instance)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "create instance")
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, newKindError(ErrInitialization, err, "init instance")
	}

	p := &Platform{instance: instance, layers: layers}
	if debugReport {
		if p.diagnostics, err = NewDiagnostics(instance, logs); err != nil {
			p.Destroy()
			return nil, err
		}
		logs.Info.Println("vulkan: DebugReportCallback enabled by application")
	}
	return p, nil
}

// resolveInstanceExtensions fails when a required extension is absent. Wanted
// extensions are enabled when available; the flag reports whether the debug
// report extension made it in.
func resolveInstanceExtensions(actual, required, wanted []string) ([]string, bool, error) {
	set := NewExtensionSet(actual, wanted, required)
	if ok, missing := set.HasRequired(); !ok {
		return nil, false, newKindError(ErrInitialization, nil, "missing required instance extensions %v", missing)
	}
	names := set.GetExtensions()
	for _, name := range names {
		if trimNull(name) == debugReportExtension {
			return names, true, nil
		}
	}
	return names, false, nil
}

func resolveLayers(actual, required []string) ([]string, error) {
	set := NewExtensionSet(actual, nil, required)
	if ok, missing := set.HasRequired(); !ok {
		return nil, newKindError(ErrInitialization, nil, "missing required validation layers %v", missing)
	}
	return set.GetExtensions(), nil
}

func (p *Platform) Instance() vk.Instance { return p.instance }

// Layers are the null terminated validation layer names, also enabled on the device.
func (p *Platform) Layers() []string { return p.layers }

func (p *Platform) Diagnostics() *Diagnostics { return p.diagnostics }

// DestroyDiagnostics unregisters the debug callback. Later reports are dropped.
func (p *Platform) DestroyDiagnostics() {
	p.diagnostics.Destroy()
	p.diagnostics = nil
}

// Destroy releases the debug callback and then the instance.
func (p *Platform) Destroy() {
	p.DestroyDiagnostics()
	if p.instance != nil {
		vk.DestroyInstance(p.instance, nil)
		p.instance = nil
	}
}

//----------------Diagnostics--------------------//

// Diagnostics forwards validation layer reports to the logs. A nil
// *Diagnostics is valid and does nothing.
type Diagnostics struct {
	instance vk.Instance
	callback vk.DebugReportCallback
	logs     *Logs
}

func NewDiagnostics(instance vk.Instance, logs *Logs) (*Diagnostics, error) {
	d := &Diagnostics{instance: instance, logs: logs}
	ret := vk.CreateDebugReportCallback(instance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: d.report,
	}, nil, &d.callback)
	if isError(ret) {
		return nil, newKindError(ErrInitialization, NewError(ret), "create debug report callback")
	}
	return d, nil
}

func (d *Diagnostics) report(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	d.Report(flags, pLayerPrefix, messageCode, pMessage)
	return vk.Bool32(vk.False)
}

// Report writes one layer message to the logger matching its severity.
func (d *Diagnostics) Report(flags vk.DebugReportFlags, layer string, code int32, message string) {
	if d == nil {
		return
	}
	d.loggerFor(flags).Printf("[%s] Code %d : %s", layer, code, message)
}

func (d *Diagnostics) loggerFor(flags vk.DebugReportFlags) *log.Logger {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return d.logs.Error
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit|vk.DebugReportPerformanceWarningBit) != 0:
		return d.logs.Warn
	default:
		return d.logs.Info
	}
}

func (d *Diagnostics) Destroy() {
	if d == nil {
		return
	}
	if d.callback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(d.instance, d.callback, nil)
		d.callback = vk.NullDebugReportCallback
	}
}
