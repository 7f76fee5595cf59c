package quadvk

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Vertex is one tightly interleaved vertex: position, color, texture coordinate.
type Vertex struct {
	Pos      [3]float32
	Color    [3]float32
	TexCoord [2]float32
}

// Two quads, one at z=0 and one at z=-0.5.
var QuadVertices = []Vertex{
	{Pos: [3]float32{-0.5, -0.5, 0}, Color: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
	{Pos: [3]float32{0.5, -0.5, 0}, Color: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
	{Pos: [3]float32{0.5, 0.5, 0}, Color: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	{Pos: [3]float32{-0.5, 0.5, 0}, Color: [3]float32{1, 1, 1}, TexCoord: [2]float32{1, 1}},

	{Pos: [3]float32{-0.5, -0.5, -0.5}, Color: [3]float32{1, 0, 0}, TexCoord: [2]float32{1, 0}},
	{Pos: [3]float32{0.5, -0.5, -0.5}, Color: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
	{Pos: [3]float32{0.5, 0.5, -0.5}, Color: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
	{Pos: [3]float32{-0.5, 0.5, -0.5}, Color: [3]float32{1, 1, 1}, TexCoord: [2]float32{1, 1}},
}

var QuadIndices = []uint16{
	0, 1, 2, 2, 3, 0,
	4, 5, 6, 6, 7, 4,
}

func vertexBindingDescriptions() []vk.VertexInputBindingDescription {
	return []vk.VertexInputBindingDescription{{
		Binding:   0,
		Stride:    uint32(unsafe.Sizeof(Vertex{})),
		InputRate: vk.VertexInputRateVertex,
	}}
}

func vertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{Location: 0, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Pos))},
		{Location: 1, Binding: 0, Format: vk.FormatR32g32b32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.Color))},
		{Location: 2, Binding: 0, Format: vk.FormatR32g32Sfloat, Offset: uint32(unsafe.Offsetof(Vertex{}.TexCoord))},
	}
}

// VertexBytes views vertices as raw bytes without copying.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	size := len(vertices) * int(unsafe.Sizeof(Vertex{}))
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size)
}

// IndexBytes views 16-bit indices as raw bytes without copying.
func IndexBytes(indices []uint16) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*2)
}
