package shader

import (
	"fmt"
	"os"
)

// ShaderType identifies the pipeline stage a GLSL source is compiled for.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage, required for every program.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, required for every program.
	ShaderTypeFragment

	// ShaderTypeGeometry is the optional geometry stage.
	ShaderTypeGeometry
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	case ShaderTypeGeometry:
		return "geometry"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// Paths names the GLSL files making up one program. Geometry is optional.
type Paths struct {
	Vertex   string
	Fragment string
	Geometry string
}

// Key returns a stable identifier for the path set, used to share compiled programs
// between templates that reference the same shaders.
func (p Paths) Key() string {
	return p.Vertex + "|" + p.Fragment + "|" + p.Geometry
}

// Sources holds pre-processed GLSL source text per stage, ready for compilation.
type Sources struct {
	// Paths are the files the sources were read from.
	Paths Paths
	// Stages maps each present stage to its processed source.
	Stages map[ShaderType]string
	// Declarations are the annotations found while pre-processing, in stage then source order.
	Declarations []Annotation
}

// Program is the compiled shader program collaborator used by the material system.
// Implementations must be used from the thread owning the graphics context.
type Program interface {
	// UniformLocation resolves a uniform name to its location. Unknown or optimized-out
	// uniforms resolve to -1, which Upload silently ignores.
	//
	// Parameters:
	//   - name: the uniform variable name
	//
	// Returns:
	//   - int32: the uniform location, or -1
	UniformLocation(name string) int32

	// Upload writes a typed value to a uniform location of the currently bound program.
	//
	// Parameters:
	//   - location: a location returned by UniformLocation
	//   - kind: the uniform type of data
	//   - data: kind.Size() bytes, little-endian, column-major for matrices
	//
	// Returns:
	//   - error: error if data does not match kind
	Upload(location int32, kind UniformKind, data []byte) error

	// Use binds the program for subsequent uploads and draws.
	Use()

	// Delete releases the program's GPU resources.
	Delete()
}

// Compiler builds a Program from processed sources. CompileGL is the OpenGL implementation;
// tests inject fakes.
type Compiler func(src Sources) (Program, error)

// LoadSources reads and pre-processes every stage named in paths. Vertex and fragment paths are required.
//
// Parameters:
//   - paths: the GLSL files to read
//
// Returns:
//   - Sources: the processed sources
//   - error: error if a required path is empty, a file cannot be read, or pre-processing fails
func LoadSources(paths Paths) (Sources, error) {
	if paths.Vertex == "" {
		return Sources{}, fmt.Errorf("shader: vertex path is required")
	}
	if paths.Fragment == "" {
		return Sources{}, fmt.Errorf("shader: fragment path is required")
	}
	src := Sources{
		Paths:  paths,
		Stages: make(map[ShaderType]string, 3),
	}
	pp := NewPreProcessor()
	stages := []struct {
		typ  ShaderType
		path string
	}{
		{ShaderTypeVertex, paths.Vertex},
		{ShaderTypeFragment, paths.Fragment},
		{ShaderTypeGeometry, paths.Geometry},
	}
	for _, st := range stages {
		if st.path == "" {
			continue
		}
		data, err := os.ReadFile(st.path)
		if err != nil {
			return Sources{}, fmt.Errorf("shader: failed to read %s source %q: %w", st.typ, st.path, err)
		}
		processed, err := pp.Process(string(data))
		if err != nil {
			return Sources{}, fmt.Errorf("shader: failed to pre-process %s source %q: %w", st.typ, st.path, err)
		}
		src.Stages[st.typ] = processed
		src.Declarations = append(src.Declarations, pp.Declarations()...)
	}
	return src, nil
}

// Includes reports whether the sources pulled in the named snippet via //@oxy:include.
func (s Sources) Includes(snippet Snippet) bool {
	for _, d := range s.Declarations {
		if d.Type == AnnotationTypeInclude && d.Snippet == snippet {
			return true
		}
	}
	return false
}
