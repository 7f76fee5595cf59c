package quadvk

import (
	vk "github.com/vulkan-go/vulkan"
)

//CorePipeline owns the graphics pipeline and its layout. Both depend on the swapchain
//extent and are rebuilt on every recreation
type CorePipeline struct {
	device   vk.Device
	layout   vk.PipelineLayout
	pipeline vk.Pipeline
}

type PipelineBuilder struct {
	_shaderStages         []vk.PipelineShaderStageCreateInfo
	_vertexInputInfo      vk.PipelineVertexInputStateCreateInfo
	_inputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	_viewport             vk.Viewport
	_scissor              vk.Rect2D
	_rasterizer           vk.PipelineRasterizationStateCreateInfo
	_colorBlendAttachment vk.PipelineColorBlendAttachmentState
	_multisampling        vk.PipelineMultisampleStateCreateInfo
	_depthStencil         vk.PipelineDepthStencilStateCreateInfo
}

//Fixed function state for the textured quad: triangle lists, back face culling with counter
//clockwise front faces, one sample and no blending
func NewPipelineBuilder(vertex, fragment vk.ShaderModule, extent vk.Extent2D, depth bool) *PipelineBuilder {

	pb := PipelineBuilder{}

	//Shader Stages
	pb._shaderStages = []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertex,
			PName:  safeString("main"),
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragment,
			PName:  safeString("main"),
		},
	}

	//Vertex Info
	bindings := vertexBindingDescriptions()
	attributes := vertexAttributeDescriptions()
	pb._vertexInputInfo = vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(bindings)),
		PVertexBindingDescriptions:      bindings,
		VertexAttributeDescriptionCount: uint32(len(attributes)),
		PVertexAttributeDescriptions:    attributes,
	}

	//Input Assembly
	pb._inputAssembly = vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	pb._viewport = vk.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	pb._scissor = vk.Rect2D{
		Offset: vk.Offset2D{},
		Extent: vk.Extent2D{Width: extent.Width, Height: extent.Height},
	}

	//Rasterization CreatInfo
	rasterizer := vk.PipelineRasterizationStateCreateInfo{}
	rasterizer.SType = vk.StructureTypePipelineRasterizationStateCreateInfo
	rasterizer.DepthClampEnable = vk.False
	rasterizer.RasterizerDiscardEnable = vk.False //discards primitives before rasterization stage
	rasterizer.PolygonMode = vk.PolygonModeFill   //Fill and Wire
	rasterizer.CullMode = vk.CullModeFlags(vk.CullModeBackBit)
	rasterizer.FrontFace = vk.FrontFaceCounterClockwise
	rasterizer.DepthBiasEnable = vk.False
	rasterizer.LineWidth = 1.0

	pb._rasterizer = rasterizer

	//Multisample State
	pb._multisampling = vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples:  vk.SampleCount1Bit,
		SampleShadingEnable:   vk.False,
		MinSampleShading:      1.0,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	//Color Blend
	cbb := vk.PipelineColorBlendAttachmentState{}
	cbb.ColorWriteMask = vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
		vk.ColorComponentBBit | vk.ColorComponentABit)
	cbb.BlendEnable = vk.False

	pb._colorBlendAttachment = cbb

	pb._depthStencil = vk.PipelineDepthStencilStateCreateInfo{
		SType: vk.StructureTypePipelineDepthStencilStateCreateInfo,
	}
	if depth {
		pb._depthStencil.DepthTestEnable = vk.True
		pb._depthStencil.DepthWriteEnable = vk.True
		pb._depthStencil.DepthCompareOp = vk.CompareOpLess
		pb._depthStencil.MinDepthBounds = 0.0
		pb._depthStencil.MaxDepthBounds = 1.0
	}

	return &pb
}

func (p *PipelineBuilder) BuildPipeline(device vk.Device, renderPass vk.RenderPass, layout vk.PipelineLayout) (vk.Pipeline, error) {

	view_create := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{p._viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{p._scissor},
	}

	//No transparent objects, we only write to the color attachment
	blend_state := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{p._colorBlendAttachment},
	}

	pipeline_info := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(p._shaderStages)),
		PStages:             p._shaderStages,
		PVertexInputState:   &p._vertexInputInfo,
		PInputAssemblyState: &p._inputAssembly,
		PViewportState:      &view_create,
		PRasterizationState: &p._rasterizer,
		PMultisampleState:   &p._multisampling,
		PColorBlendState:    &blend_state,
		PDepthStencilState:  &p._depthStencil,
		Layout:              layout,
		RenderPass:          renderPass,
		Subpass:             0,
	}

	//Build actual pipeline
	var pipelines = []vk.Pipeline{vk.NullPipeline}
	res := vk.CreateGraphicsPipelines(device, nil, 1, []vk.GraphicsPipelineCreateInfo{pipeline_info}, nil, pipelines)
	if isError(res) {
		return vk.NullPipeline, newKindError(ErrPipeline, NewError(res), "create graphics pipeline")
	}
	return pipelines[0], nil
}

//NewCorePipeline compiles program into shader modules, builds the layout over setLayout and
//the pipeline for renderPass. The modules are destroyed once the pipeline exists
func NewCorePipeline(device vk.Device, program *ShaderProgram, renderPass *CoreRenderPass,
	extent vk.Extent2D, setLayout vk.DescriptorSetLayout) (*CorePipeline, error) {

	vertex, err := CreateShaderModule(device, program.Vertex)
	if err != nil {
		return nil, err
	}
	defer vk.DestroyShaderModule(device, vertex, nil)

	fragment, err := CreateShaderModule(device, program.Fragment)
	if err != nil {
		return nil, err
	}
	defer vk.DestroyShaderModule(device, fragment, nil)

	var layout vk.PipelineLayout
	res := vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{setLayout},
	}, nil, &layout)
	if isError(res) {
		return nil, newKindError(ErrPipeline, NewError(res), "create pipeline layout")
	}

	builder := NewPipelineBuilder(vertex, fragment, extent, renderPass.HasDepth())
	pipeline, err := builder.BuildPipeline(device, renderPass.renderPass, layout)
	if err != nil {
		vk.DestroyPipelineLayout(device, layout, nil)
		return nil, err
	}
	return &CorePipeline{device: device, layout: layout, pipeline: pipeline}, nil
}
