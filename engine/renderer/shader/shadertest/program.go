// Package shadertest provides an in-memory shader.Program for tests that run without a graphics context.
package shadertest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Upload records one call to Program.Upload.
type Upload struct {
	Location int32
	Kind     shader.UniformKind
	Data     []byte
}

// Program records every call made on it. Uniform locations are assigned in first-lookup order
// starting at 0; names listed in Missing resolve to -1.
type Program struct {
	Sources   shader.Sources
	Missing   map[string]bool
	Locations map[string]int32
	Uploads   []Upload
	Uses      int
	Deleted   bool
}

var _ shader.Program = &Program{}

func (p *Program) UniformLocation(name string) int32 {
	if p.Missing[name] {
		return -1
	}
	if p.Locations == nil {
		p.Locations = make(map[string]int32)
	}
	loc, ok := p.Locations[name]
	if !ok {
		loc = int32(len(p.Locations))
		p.Locations[name] = loc
	}
	return loc
}

func (p *Program) Upload(location int32, kind shader.UniformKind, data []byte) error {
	if len(data) != kind.Size() {
		return fmt.Errorf("shadertest: %s upload of %d bytes", kind, len(data))
	}
	if location < 0 {
		return nil
	}
	p.Uploads = append(p.Uploads, Upload{Location: location, Kind: kind, Data: append([]byte(nil), data...)})
	return nil
}

func (p *Program) Use() {
	p.Uses++
}

func (p *Program) Delete() {
	p.Deleted = true
}

// Compiler returns Programs and remembers each one it built.
type Compiler struct {
	Programs []*Program
	// Err, when set, is returned by every compilation.
	Err error
}

// Compile implements shader.Compiler.
func (c *Compiler) Compile(src shader.Sources) (shader.Program, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	p := &Program{Sources: src}
	c.Programs = append(c.Programs, p)
	return p, nil
}
