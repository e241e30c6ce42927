package shader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UniformDeclaration is one uniform variable found in GLSL source.
type UniformDeclaration struct {
	// Name is the variable name without any array suffix.
	Name string
	// Type is the GLSL type name as written in the source.
	Type string
	// Kind is the matching UniformKind. It is not Valid when Type has no UniformKind, e.g. samplerCube.
	Kind UniformKind
	// Count is the array length, or 1 for non-array uniforms.
	Count int
	// Stage is the first stage declaring the uniform.
	Stage ShaderType
}

var (
	// uniformRegex matches a default-block uniform declaration and captures the type and the
	// declarator list. Interface blocks never match because the list cannot contain '{'.
	uniformRegex = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+([^;{]+);`)

	// declaratorRegex matches one declarator: a name with an optional constant array size.
	declaratorRegex = regexp.MustCompile(`^(\w+)\s*(?:\[\s*(\d+)\s*\])?$`)
)

// glslTypeAliases maps GLSL type spellings onto the names ParseUniformKind accepts.
var glslTypeAliases = map[string]string{
	"uvec2":  "uivec2",
	"uvec3":  "uivec3",
	"uvec4":  "uivec4",
	"mat2x2": "mat2",
	"mat3x3": "mat3",
	"mat4x4": "mat4",
}

// Reflect lists the default-block uniforms declared across every stage of src, in vertex,
// fragment then geometry order. A uniform declared by more than one stage is reported once.
//
// Parameters:
//   - src: processed sources
//
// Returns:
//   - []UniformDeclaration: the uniforms in declaration order
//   - error: error if a declarator is malformed or two stages disagree on a uniform's type
func Reflect(src Sources) ([]UniformDeclaration, error) {
	var out []UniformDeclaration
	seen := make(map[string]int)
	for _, typ := range []ShaderType{ShaderTypeVertex, ShaderTypeFragment, ShaderTypeGeometry} {
		code, ok := src.Stages[typ]
		if !ok {
			continue
		}
		decls, err := reflectStage(typ, code)
		if err != nil {
			return nil, fmt.Errorf("shader: %s stage: %w", typ, err)
		}
		for _, d := range decls {
			if i, dup := seen[d.Name]; dup {
				if out[i].Type != d.Type || out[i].Count != d.Count {
					return nil, fmt.Errorf("shader: uniform %q is %s in %s stage but %s in %s stage",
						d.Name, out[i].Type, out[i].Stage, d.Type, d.Stage)
				}
				continue
			}
			seen[d.Name] = len(out)
			out = append(out, d)
		}
	}
	return out, nil
}

func reflectStage(typ ShaderType, code string) ([]UniformDeclaration, error) {
	var out []UniformDeclaration
	for _, m := range uniformRegex.FindAllStringSubmatch(stripComments(code), -1) {
		glslType := m[1]
		kind := uniformKindCount
		name := glslType
		if alias, ok := glslTypeAliases[glslType]; ok {
			name = alias
		}
		if k, err := ParseUniformKind(name); err == nil {
			kind = k
		}

		for _, decl := range strings.Split(m[2], ",") {
			decl = strings.TrimSpace(decl)
			// Initializers are legal for uniforms; only the name matters here.
			if idx := strings.IndexByte(decl, '='); idx >= 0 {
				decl = strings.TrimSpace(decl[:idx])
			}
			dm := declaratorRegex.FindStringSubmatch(decl)
			if dm == nil {
				return nil, fmt.Errorf("malformed uniform declarator %q", decl)
			}
			count := 1
			if dm[2] != "" {
				n, err := strconv.Atoi(dm[2])
				if err != nil || n < 1 {
					return nil, fmt.Errorf("invalid array size in %q", decl)
				}
				count = n
			}
			out = append(out, UniformDeclaration{
				Name:  dm[1],
				Type:  glslType,
				Kind:  kind,
				Count: count,
				Stage: typ,
			})
		}
	}
	return out, nil
}

// stripComments removes line and block comments from GLSL source.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

// stripLineComments removes single-line // comments.
//
// Parameters:
//   - source: raw GLSL source string
//
// Returns:
//   - string: source with line comments removed
func stripLineComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for _, line := range strings.Split(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments removes /* ... */ comments. GLSL block comments do not nest, and an
// unterminated comment runs to the end of the source. Each comment becomes a single space so
// tokens on either side stay separate.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	for {
		start := strings.Index(source, "/*")
		if start < 0 {
			sb.WriteString(source)
			return sb.String()
		}
		sb.WriteString(source[:start])
		sb.WriteByte(' ')
		end := strings.Index(source[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		source = source[start+2+end+2:]
	}
}
