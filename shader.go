package quadvk

import (
	"io/ioutil"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

//ShaderProgram is the vertex and fragment SPIR-V pair behind the pipeline
type ShaderProgram struct {
	Vertex   []byte
	Fragment []byte
}

//LoadShaderProgram reads both stages from disk. Missing files and malformed code are fatal
func LoadShaderProgram(vertex_path, fragment_path string) (*ShaderProgram, error) {
	vertex, err := LoadShaderCode(vertex_path)
	if err != nil {
		return nil, err
	}
	fragment, err := LoadShaderCode(fragment_path)
	if err != nil {
		return nil, err
	}
	return &ShaderProgram{Vertex: vertex, Fragment: fragment}, nil
}

func LoadShaderCode(path string) ([]byte, error) {
	buffer, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, newKindError(ErrShaderLoad, err, "read shader")
	}
	if err := validateShaderCode(buffer); err != nil {
		return nil, newKindError(ErrShaderLoad, err, "shader %s", path)
	}
	return buffer, nil
}

//Vulkan expects to receive whole uint32 words
func validateShaderCode(code []byte) error {
	if len(code) == 0 {
		return errors.New("empty shader code")
	}
	if len(code)%4 != 0 {
		return errors.Errorf("shader code size %d is not a multiple of 4", len(code))
	}
	return nil
}

func CreateShaderModule(device vk.Device, code []byte) (vk.ShaderModule, error) {
	if err := validateShaderCode(code); err != nil {
		return vk.NullShaderModule, newKindError(ErrShaderLoad, err, "create shader module")
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(device, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if isError(ret) {
		return vk.NullShaderModule, newKindError(ErrPipeline, NewError(ret), "create shader module")
	}
	return module, nil
}
