package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

// releaseStep destroys one kind of object belonging to owner.
type releaseStep struct {
	kind    string
	owner   string
	release func()
}

func (s releaseStep) String() string {
	return s.owner + " " + s.kind
}

type releasePlan []releaseStep

// Names lists the steps in order, for logging and comparing plans.
func (p releasePlan) Names() []string {
	names := make([]string, len(p))
	for i, step := range p {
		names[i] = step.String()
	}
	return names
}

func (p releasePlan) run() {
	for _, step := range p {
		step.release()
	}
}

func bufferSteps(owner string, b *Buffer) releasePlan {
	if b == nil {
		return nil
	}
	return releasePlan{
		{kind: "buffer", owner: owner, release: func() { vk.DestroyBuffer(b.device, b.Buffer, nil) }},
		{kind: "memory", owner: owner, release: func() { vk.FreeMemory(b.device, b.Memory, nil) }},
	}
}

func imageSteps(owner string, img *Image) releasePlan {
	if img == nil {
		return nil
	}
	return releasePlan{
		{kind: "image", owner: owner, release: func() { vk.DestroyImage(img.device, img.Image, nil) }},
		{kind: "memory", owner: owner, release: func() { vk.FreeMemory(img.device, img.Memory, nil) }},
	}
}

// swapchainReleasePlan destroys everything sized by the swapchain, dependents
// first. Recreation runs it behind a device wait and then rebuilds.
func (r *Renderer) swapchainReleasePlan() releasePlan {
	var plan releasePlan
	sc := r.swapchain
	if sc != nil {
		plan = append(plan, releaseStep{kind: "framebuffers", owner: "swapchain", release: func() {
			for _, framebuffer := range sc.framebuffers {
				vk.DestroyFramebuffer(sc.device, framebuffer, nil)
			}
			sc.framebuffers = nil
		}})
	}
	if cmds := r.commands; cmds != nil {
		plan = append(plan, releaseStep{kind: "command buffers", owner: "frame", release: cmds.Destroy})
	}
	if p := r.pipeline; p != nil {
		plan = append(plan,
			releaseStep{kind: "pipeline", owner: "renderer", release: func() { vk.DestroyPipeline(p.device, p.pipeline, nil) }},
			releaseStep{kind: "pipeline layout", owner: "renderer", release: func() { vk.DestroyPipelineLayout(p.device, p.layout, nil) }},
		)
	}
	if rp := r.renderPass; rp != nil {
		plan = append(plan, releaseStep{kind: "render pass", owner: "renderer", release: func() {
			vk.DestroyRenderPass(rp.device, rp.renderPass, nil)
		}})
	}
	if sc == nil {
		return plan
	}
	if depth := sc.depth; depth != nil {
		plan = append(plan, releaseStep{kind: "image view", owner: "depth", release: func() {
			vk.DestroyImageView(sc.device, depth.View, nil)
		}})
		plan = append(plan, imageSteps("depth", depth.Image)...)
	}
	plan = append(plan,
		releaseStep{kind: "image views", owner: "swapchain", release: func() {
			for _, view := range sc.views {
				vk.DestroyImageView(sc.device, view, nil)
			}
			sc.views = nil
		}},
		releaseStep{kind: "swapchain", owner: "swapchain", release: func() {
			vk.DestroySwapchain(sc.device, sc.handle, nil)
			sc.handle = vk.NullSwapchain
		}},
	)
	return plan
}

// teardownPlan destroys every object the renderer created, each after
// everything that depends on it. Components that were never created are
// skipped, so the plan also cleans up after a failed construction.
func (r *Renderer) teardownPlan() releasePlan {
	var plan releasePlan
	if s := r.sync; s != nil {
		plan = append(plan, releaseStep{kind: "semaphores", owner: "frame", release: s.Destroy})
	}
	plan = append(plan, r.swapchainReleasePlan()...)

	if t := r.texture; t != nil {
		device := t.Image.device
		plan = append(plan,
			releaseStep{kind: "sampler", owner: "texture", release: func() { vk.DestroySampler(device, t.Sampler, nil) }},
			releaseStep{kind: "image view", owner: "texture", release: func() { vk.DestroyImageView(device, t.View, nil) }},
		)
		plan = append(plan, imageSteps("texture", t.Image)...)
	}
	if d := r.descriptors; d != nil {
		plan = append(plan,
			releaseStep{kind: "descriptor set layout", owner: "renderer", release: func() {
				vk.DestroyDescriptorSetLayout(d.device, d.layout, nil)
			}},
			releaseStep{kind: "descriptor pool", owner: "renderer", release: func() {
				vk.DestroyDescriptorPool(d.device, d.pool, nil)
			}},
		)
	}
	if p := r.pool; p != nil {
		plan = append(plan, releaseStep{kind: "command pool", owner: "renderer", release: p.Destroy})
	}
	plan = append(plan, bufferSteps("index", r.indices)...)
	plan = append(plan, bufferSteps("vertex", r.vertices)...)
	if r.uniform != nil {
		plan = append(plan, bufferSteps("uniform", r.uniform.Buffer)...)
	}
	if dev := r.device; dev != nil {
		plan = append(plan, releaseStep{kind: "device", owner: "renderer", release: dev.Destroy})
	}
	if p := r.platform; p != nil && p.Diagnostics() != nil {
		plan = append(plan, releaseStep{kind: "debug callback", owner: "platform", release: p.DestroyDiagnostics})
	}
	if d := r.display; d != nil {
		plan = append(plan, releaseStep{kind: "surface", owner: "display", release: d.Destroy})
	}
	if p := r.platform; p != nil {
		plan = append(plan, releaseStep{kind: "instance", owner: "platform", release: p.Destroy})
	}
	return plan
}
