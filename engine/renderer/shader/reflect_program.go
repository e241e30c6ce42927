package shader

import "fmt"

// reflectProgram is a Program built from reflected source instead of a driver. Locations are
// assigned in declaration order and uploads are checked against the declared types, which lets
// tools validate materials against their shaders without a graphics context.
type reflectProgram struct {
	uniforms  []UniformDeclaration
	locations map[string]int32
	values    map[int32][]byte
	uses      int
}

var _ Program = &reflectProgram{}

// CompileReflect is a Compiler that never touches a graphics context. The returned program
// rejects uploads whose kind or size differ from the uniform's declaration.
//
// Parameters:
//   - src: processed sources, at least vertex and fragment
//
// Returns:
//   - Program: the reflected program
//   - error: error if a stage is missing or the uniforms cannot be reflected
func CompileReflect(src Sources) (Program, error) {
	if _, ok := src.Stages[ShaderTypeVertex]; !ok {
		return nil, fmt.Errorf("shader: vertex stage is required")
	}
	if _, ok := src.Stages[ShaderTypeFragment]; !ok {
		return nil, fmt.Errorf("shader: fragment stage is required")
	}
	uniforms, err := Reflect(src)
	if err != nil {
		return nil, err
	}
	p := &reflectProgram{
		uniforms:  uniforms,
		locations: make(map[string]int32, len(uniforms)),
		values:    make(map[int32][]byte),
	}
	for i, u := range uniforms {
		p.locations[u.Name] = int32(i)
	}
	return p, nil
}

// Uniforms returns the declarations of a program built by CompileReflect.
//
// Parameters:
//   - p: a program
//
// Returns:
//   - []UniformDeclaration: the reflected uniforms in location order
//   - bool: false if p was not built by CompileReflect
func Uniforms(p Program) ([]UniformDeclaration, bool) {
	rp, ok := p.(*reflectProgram)
	if !ok {
		return nil, false
	}
	return append([]UniformDeclaration(nil), rp.uniforms...), true
}

func (p *reflectProgram) UniformLocation(name string) int32 {
	loc, ok := p.locations[name]
	if !ok {
		return -1
	}
	return loc
}

func (p *reflectProgram) Upload(location int32, kind UniformKind, data []byte) error {
	if !kind.Valid() || len(data) != kind.Size() {
		return fmt.Errorf("shader: %s upload of %d bytes", kind, len(data))
	}
	if location < 0 {
		return nil
	}
	if int(location) >= len(p.uniforms) {
		return fmt.Errorf("shader: no uniform at location %d", location)
	}
	u := p.uniforms[location]
	if u.Kind != kind {
		return fmt.Errorf("shader: uniform %q is declared %s, not %s", u.Name, u.Type, kind)
	}
	p.values[location] = append(p.values[location][:0], data...)
	return nil
}

func (p *reflectProgram) Use() {
	p.uses++
}

func (p *reflectProgram) Delete() {
	clear(p.values)
}
