// pre_processor.go implements the Oxy GLSL pre-processor. It scans shader source for
// //@oxy: annotations, replaces include annotations with registered GLSL snippets and
// records every annotation so the renderer can tell which engine-provided uniforms a
// program declares without string lookups on the compiled program.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects a registered GLSL snippet at the annotation site.
	//
	// Syntax: //@oxy:include <snippet>
	//
	// Example: //@oxy:include transforms
	AnnotationTypeInclude AnnotationType = "include"
)

// Snippet names a GLSL block the pre-processor can inject.
type Snippet string

const (
	// SnippetTransforms declares the per-draw matrices the renderer uploads.
	SnippetTransforms Snippet = "transforms"

	// SnippetLighting declares the uniforms the renderer fills from the scene's first light.
	SnippetLighting Snippet = "lighting"
)

// Uniform names declared by SnippetTransforms.
const (
	UniformModelName          = "u_model"
	UniformViewProjectionName = "u_view_projection"
)

// Uniform names declared by SnippetLighting. u_light_vector holds a position (w = 1) or a
// direction (w = 0).
const (
	UniformLightVectorName   = "u_light_vector"
	UniformLightRadianceName = "u_light_radiance"
	UniformLightRangeName    = "u_light_range"
)

var lightingSnippet = "uniform vec4 " + UniformLightVectorName + ";\n" +
	"uniform vec3 " + UniformLightRadianceName + ";\n" +
	"uniform float " + UniformLightRangeName + ";"

var snippetRegistry = map[Snippet]string{
	SnippetTransforms: "uniform mat4 " + UniformModelName + ";\nuniform mat4 " + UniformViewProjectionName + ";",
	SnippetLighting:   lightingSnippet,
}

// Annotation is a parsed //@oxy: line.
type Annotation struct {
	Type    AnnotationType
	Snippet Snippet
	Line    int
}

// PreProcessor processes raw GLSL source containing //@oxy: annotations.
type PreProcessor interface {
	// Process replaces annotations with their GLSL output. The declarations list is reset at
	// the start of each call.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if any annotation is malformed or references an unknown snippet
	Process(source string) (string, error)

	// Declarations returns the annotations collected during the most recent Process call.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

type preProcessor struct {
	declarations []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor backed by the built-in snippet registry.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}
		switch a.Type {
		case AnnotationTypeInclude:
			out = append(out, snippetRegistry[a.Snippet])
		}
		p.declarations = append(p.declarations, *a)
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

// parseAnnotation returns nil, nil for lines that are not annotations.
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		sn := Snippet(args[1])
		if _, ok := snippetRegistry[sn]; !ok {
			return nil, fmt.Errorf("line %d: unknown snippet %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{Type: AnnotationTypeInclude, Snippet: sn, Line: lineNum}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
