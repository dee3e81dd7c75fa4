package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is loaded for.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex indicates the vertex stage of a render pipeline.
	ShaderTypeVertex

	// ShaderTypeFragment indicates the fragment stage of a render pipeline.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeCompute:
		return "compute"
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	workGroupSize              [3]uint32
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader is a pre-processed WGSL kernel together with everything parsed out of it: entry point,
// binding set layouts, workgroup size and the @oxy declarations that name each binding's role.
type Shader interface {
	// Key retrieves the unique identifier for this shader.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the layout descriptor of one binding set.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed layout descriptors keyed by group index.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the WGSL variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// BindingFor finds the binding tagged by an @oxy:provider annotation with the given identity
	// and role. An empty role matches a provider annotation that names no role.
	//
	// Parameters:
	//   - identity: the provider identity (e.g. AnnotationArgWorld)
	//   - role: the binding role (e.g. AnnotationArgTarget)
	//
	// Returns:
	//   - int: the group index
	//   - int: the binding index
	//   - bool: false if no such annotation exists
	BindingFor(identity, role AnnotationArg) (group, binding int, ok bool)

	// StructBinding finds the binding generated by an @oxy:group annotation for a struct type.
	//
	// Parameters:
	//   - structType: the registered struct type (e.g. AnnotationArgViewParams)
	//
	// Returns:
	//   - int: the group index
	//   - int: the binding index
	//   - bool: false if the shader declares no such binding
	StructBinding(structType AnnotationArg) (group, binding int, ok bool)

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "main")
	EntryPoint() string

	// WorkgroupSize returns the workgroup dimensions of a compute shader, [0, 0, 0] for render stages.
	//
	// Returns:
	//   - [3]uint32: the workgroup size as [x, y, z]
	WorkgroupSize() [3]uint32

	// Module returns the shader module descriptor built from the pre-processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage this shader was loaded for.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex, ShaderTypeFragment, or ShaderTypeCompute
	ShaderType() ShaderType

	// Declarations returns the group and provider annotations found in the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader reads WGSL from sourcePath and builds a Shader from it.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to load the shader for
//   - sourcePath: the file path to read WGSL source from
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the file cannot be read or its annotations are malformed
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	if sourcePath == "" {
		return nil, fmt.Errorf("shader %s: empty source path", key)
	}
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return NewShaderFromSource(key, shaderType, string(data))
}

// NewShaderFromSource builds a Shader from WGSL source held in memory.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage to load the shader for
//   - source: the raw WGSL source, annotations included
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if an annotation is malformed or the stage has no entry point
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}

	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no %s entry point", key, shaderType)
	}

	var visibility wgpu.ShaderStage
	switch shaderType {
	case ShaderTypeCompute:
		visibility = wgpu.ShaderStageCompute
		s.workGroupSize = parseWorkgroupSize(processed)
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, visibility)

	slogger().Debug("shader loaded",
		"key", key,
		"stage", shaderType.String(),
		"entry", s.entryPoint,
		"groups", len(s.bindGroupLayoutDescriptors),
	)
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) WorkgroupSize() [3]uint32 {
	return s.workGroupSize
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindingFor(identity, role AnnotationArg) (int, int, bool) {
	for _, a := range s.declarations {
		if a.Type != AnnotationTypeProvider || a.Args[0] != identity {
			continue
		}
		var declared AnnotationArg
		if len(a.Args) > 1 {
			declared = a.Args[1]
		}
		if declared == role {
			return *a.Group, *a.Binding, true
		}
	}
	return -1, -1, false
}

func (s *shader) StructBinding(structType AnnotationArg) (int, int, bool) {
	for _, a := range s.declarations {
		if a.Type == AnnotationTypeBindingGroup && a.Args[2] == structType {
			return *a.Group, *a.Binding, true
		}
	}
	return -1, -1, false
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
