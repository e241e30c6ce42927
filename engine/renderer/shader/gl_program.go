package shader

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// glProgram is the OpenGL implementation of the Program interface.
type glProgram struct {
	handle    uint32
	key       string
	locations map[string]int32
}

var _ Program = &glProgram{}

var glStages = map[ShaderType]uint32{
	ShaderTypeVertex:   gl.VERTEX_SHADER,
	ShaderTypeFragment: gl.FRAGMENT_SHADER,
	ShaderTypeGeometry: gl.GEOMETRY_SHADER,
}

// CompileGL compiles and links src into an OpenGL program. A current OpenGL 4.1 core
// context must be bound to the calling thread.
//
// OpenGL reference: https://www.khronos.org/opengl/wiki/Shader_Compilation
//
// Parameters:
//   - src: processed sources, at least vertex and fragment
//
// Returns:
//   - Program: the linked program
//   - error: the compile or link log on failure
func CompileGL(src Sources) (Program, error) {
	handle := gl.CreateProgram()
	shaders := make([]uint32, 0, len(src.Stages))
	defer func() {
		for _, sh := range shaders {
			gl.DetachShader(handle, sh)
			gl.DeleteShader(sh)
		}
	}()

	for _, typ := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment, ShaderTypeGeometry} {
		code, ok := src.Stages[typ]
		if !ok {
			continue
		}
		sh, err := compileStage(glStages[typ], code)
		if err != nil {
			gl.DeleteProgram(handle)
			return nil, fmt.Errorf("shader: %s stage: %w", typ, err)
		}
		gl.AttachShader(handle, sh)
		shaders = append(shaders, sh)
	}

	gl.LinkProgram(handle)
	var status int32
	gl.GetProgramiv(handle, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(handle, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(handle, logLength, nil, gl.Str(log))
		gl.DeleteProgram(handle)
		return nil, fmt.Errorf("shader: failed to link program %s: %s", src.Paths.Key(), strings.TrimRight(log, "\x00"))
	}

	return &glProgram{
		handle:    handle,
		key:       src.Paths.Key(),
		locations: make(map[string]int32),
	}, nil
}

func compileStage(stage uint32, code string) (uint32, error) {
	sh := gl.CreateShader(stage)
	csources, free := gl.Strs(code + "\x00")
	gl.ShaderSource(sh, 1, csources, nil)
	free()
	gl.CompileShader(sh)

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(sh, logLength, nil, gl.Str(log))
		gl.DeleteShader(sh)
		return 0, fmt.Errorf("compile failed: %s", strings.TrimRight(log, "\x00"))
	}
	return sh, nil
}

func (p *glProgram) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.handle, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *glProgram) Upload(location int32, kind UniformKind, data []byte) error {
	if !kind.Valid() || len(data) != kind.Size() {
		return fmt.Errorf("shader: %d bytes do not hold a %s", len(data), kind)
	}
	if location < 0 {
		return nil
	}

	ptr := unsafe.Pointer(&data[0])
	f := (*float32)(ptr)
	i := (*int32)(ptr)
	u := (*uint32)(ptr)

	switch kind {
	case UniformFloat:
		gl.Uniform1fv(location, 1, f)
	case UniformVec2:
		gl.Uniform2fv(location, 1, f)
	case UniformVec3:
		gl.Uniform3fv(location, 1, f)
	case UniformVec4:
		gl.Uniform4fv(location, 1, f)
	case UniformInt, UniformSampler2D:
		gl.Uniform1iv(location, 1, i)
	case UniformIVec2:
		gl.Uniform2iv(location, 1, i)
	case UniformIVec3:
		gl.Uniform3iv(location, 1, i)
	case UniformIVec4:
		gl.Uniform4iv(location, 1, i)
	case UniformUint:
		gl.Uniform1uiv(location, 1, u)
	case UniformUVec2:
		gl.Uniform2uiv(location, 1, u)
	case UniformUVec3:
		gl.Uniform3uiv(location, 1, u)
	case UniformUVec4:
		gl.Uniform4uiv(location, 1, u)
	case UniformMat2:
		gl.UniformMatrix2fv(location, 1, false, f)
	case UniformMat3:
		gl.UniformMatrix3fv(location, 1, false, f)
	case UniformMat4:
		gl.UniformMatrix4fv(location, 1, false, f)
	case UniformMat2x3:
		gl.UniformMatrix2x3fv(location, 1, false, f)
	case UniformMat3x2:
		gl.UniformMatrix3x2fv(location, 1, false, f)
	case UniformMat2x4:
		gl.UniformMatrix2x4fv(location, 1, false, f)
	case UniformMat4x2:
		gl.UniformMatrix4x2fv(location, 1, false, f)
	case UniformMat3x4:
		gl.UniformMatrix3x4fv(location, 1, false, f)
	case UniformMat4x3:
		gl.UniformMatrix4x3fv(location, 1, false, f)
	}
	return nil
}

func (p *glProgram) Use() {
	gl.UseProgram(p.handle)
}

func (p *glProgram) Delete() {
	if p.handle != 0 {
		gl.DeleteProgram(p.handle)
		p.handle = 0
	}
}
