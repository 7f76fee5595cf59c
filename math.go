package quadvk

import "github.com/go-gl/mathgl/mgl32"

// vulkanClip maps GL clip space to Vulkan's: Y points down and depth spans
// [0, 1] instead of [-1, 1].
var vulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// VulkanProjectionMat converts an OpenGL style projection matrix to Vulkan style projection matrix.
func VulkanProjectionMat(proj mgl32.Mat4) mgl32.Mat4 {
	return vulkanClip.Mul4(proj)
}
