package quadvk

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestVertexLayout(t *testing.T) {
	bindings := vertexBindingDescriptions()
	require.Len(t, bindings, 1)
	require.Equal(t, uint32(0), bindings[0].Binding)
	require.Equal(t, uint32(32), bindings[0].Stride)
	require.Equal(t, vk.VertexInputRateVertex, bindings[0].InputRate)

	attributes := vertexAttributeDescriptions()
	require.Len(t, attributes, 3)
	for i, want := range []struct {
		format vk.Format
		offset uint32
	}{
		{vk.FormatR32g32b32Sfloat, 0},
		{vk.FormatR32g32b32Sfloat, 12},
		{vk.FormatR32g32Sfloat, 24},
	} {
		require.Equal(t, uint32(i), attributes[i].Location)
		require.Equal(t, uint32(0), attributes[i].Binding)
		require.Equal(t, want.format, attributes[i].Format)
		require.Equal(t, want.offset, attributes[i].Offset)
	}
}

func TestVertexBytes(t *testing.T) {
	data := VertexBytes(QuadVertices)
	require.Len(t, data, len(QuadVertices)*32)

	float := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
	}
	second := 32
	require.Equal(t, float32(0.5), float(second))
	require.Equal(t, float32(-0.5), float(second+4))
	require.Equal(t, float32(1), float(second+16))
	require.Equal(t, float32(0), float(second+24))

	require.Nil(t, VertexBytes(nil))
}

func TestIndexBytes(t *testing.T) {
	data := IndexBytes(QuadIndices)
	require.Len(t, data, len(QuadIndices)*2)
	for i, index := range QuadIndices {
		require.Equal(t, index, binary.LittleEndian.Uint16(data[i*2:]))
	}
	require.Nil(t, IndexBytes(nil))
}

func TestQuadIndicesInRange(t *testing.T) {
	require.Len(t, QuadIndices, 12)
	for _, index := range QuadIndices {
		require.Less(t, int(index), len(QuadVertices))
	}
}
