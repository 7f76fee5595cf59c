package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//CoreDescriptors holds the single descriptor set binding the uniform buffer and the texture.
//It outlives swapchain recreation
type CoreDescriptors struct {
	device vk.Device
	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	set    vk.DescriptorSet
}

func descriptorSetLayoutBindings() []vk.DescriptorSetLayoutBinding {
	return []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}
}

func descriptorPoolSizes() []vk.DescriptorPoolSize {
	return []vk.DescriptorPoolSize{
		{Type: vk.DescriptorTypeUniformBuffer, DescriptorCount: 1},
		{Type: vk.DescriptorTypeCombinedImageSampler, DescriptorCount: 1},
	}
}

func NewCoreDescriptors(device vk.Device) (*CoreDescriptors, error) {
	core := &CoreDescriptors{device: device}

	bindings := descriptorSetLayoutBindings()
	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &core.layout)
	if isError(ret) {
		return nil, newKindError(ErrPipeline, NewError(ret), "create descriptor set layout")
	}

	sizes := descriptorPoolSizes()
	ret = vk.CreateDescriptorPool(device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       1,
		PoolSizeCount: uint32(len(sizes)),
		PPoolSizes:    sizes,
	}, nil, &core.pool)
	if isError(ret) {
		vk.DestroyDescriptorSetLayout(device, core.layout, nil)
		return nil, newKindError(ErrResource, NewError(ret), "create descriptor pool")
	}

	ret = vk.AllocateDescriptorSets(device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     core.pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{core.layout},
	}, &core.set)
	if isError(ret) {
		vk.DestroyDescriptorPool(device, core.pool, nil)
		vk.DestroyDescriptorSetLayout(device, core.layout, nil)
		return nil, newKindError(ErrResource, NewError(ret), "allocate descriptor set")
	}
	return core, nil
}

//Write points binding 0 at the uniform buffer and binding 1 at the texture
func (c *CoreDescriptors) Write(uniform *UniformBuffer, texture *Texture) {
	writes := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          c.set,
			DstBinding:      0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo: []vk.DescriptorBufferInfo{{
				Buffer: uniform.Buffer.Buffer,
				Offset: 0,
				Range:  uniformSize,
			}},
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          c.set,
			DstBinding:      1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo: []vk.DescriptorImageInfo{{
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
				ImageView:   texture.View,
				Sampler:     texture.Sampler,
			}},
		},
	}
	vk.UpdateDescriptorSets(c.device, uint32(len(writes)), writes, 0, nil)
}
