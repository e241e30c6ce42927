package material

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

// maxComponents is the component count of the largest uniform kind (mat4).
const maxComponents = 16

// Value is a typed uniform value as stored in a material slot. Components are kept as raw
// 32-bit words so integer values round-trip bit-exactly. Values are comparable with ==.
type Value struct {
	kind  shader.UniformKind
	words [maxComponents]uint32
}

// Kind returns the uniform type of the value.
func (v Value) Kind() shader.UniformKind {
	return v.kind
}

// Float32s returns the components reinterpreted as float32.
func (v Value) Float32s() []float32 {
	out := make([]float32, v.kind.Components())
	for i := range out {
		out[i] = math.Float32frombits(v.words[i])
	}
	return out
}

// Int32s returns the components reinterpreted as int32.
func (v Value) Int32s() []int32 {
	out := make([]int32, v.kind.Components())
	for i := range out {
		out[i] = int32(v.words[i])
	}
	return out
}

// Uint32s returns the raw components.
func (v Value) Uint32s() []uint32 {
	out := make([]uint32, v.kind.Components())
	copy(out, v.words[:])
	return out
}

// Bytes encodes the value little-endian, column-major for matrices.
//
// Returns:
//   - []byte: kind.Size() bytes ready for a slot or a uniform upload
func (v Value) Bytes() []byte {
	buf := make([]byte, v.kind.Size())
	v.encode(buf)
	return buf
}

func (v Value) encode(dst []byte) {
	for i := 0; i < v.kind.Components(); i++ {
		binary.LittleEndian.PutUint32(dst[i*4:i*4+4], v.words[i])
	}
}

func (v Value) String() string {
	switch v.kind.Base() {
	case shader.BaseInt32:
		return fmt.Sprintf("%s%v", v.kind, v.Int32s())
	case shader.BaseUint32:
		return fmt.Sprintf("%s%v", v.kind, v.Uint32s())
	default:
		return fmt.Sprintf("%s%v", v.kind, v.Float32s())
	}
}

func decodeValue(kind shader.UniformKind, src []byte) Value {
	v := Value{kind: kind}
	for i := 0; i < kind.Components(); i++ {
		v.words[i] = binary.LittleEndian.Uint32(src[i*4 : i*4+4])
	}
	return v
}

// Floats builds a value of a float-based kind (scalars, vectors and column-major matrices).
//
// Parameters:
//   - kind: the target uniform kind
//   - components: exactly kind.Components() values
//
// Returns:
//   - Value: the typed value
//   - error: ErrKindMismatch for non-float kinds, ErrLiteralCount for a wrong component count
func Floats(kind shader.UniformKind, components ...float32) (Value, error) {
	if !kind.Valid() || kind.Base() != shader.BaseFloat32 {
		return Value{}, fmt.Errorf("%w: %s is not float based", ErrKindMismatch, kind)
	}
	if len(components) != kind.Components() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", ErrLiteralCount, kind, kind.Components(), len(components))
	}
	v := Value{kind: kind}
	for i, c := range components {
		v.words[i] = math.Float32bits(c)
	}
	return v, nil
}

// Ints builds a value of an int-based kind (int, ivecN, sampler2D).
//
// Parameters:
//   - kind: the target uniform kind
//   - components: exactly kind.Components() values
//
// Returns:
//   - Value: the typed value
//   - error: ErrKindMismatch for non-int kinds, ErrLiteralCount for a wrong component count
func Ints(kind shader.UniformKind, components ...int32) (Value, error) {
	if !kind.Valid() || kind.Base() != shader.BaseInt32 {
		return Value{}, fmt.Errorf("%w: %s is not int based", ErrKindMismatch, kind)
	}
	if len(components) != kind.Components() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", ErrLiteralCount, kind, kind.Components(), len(components))
	}
	v := Value{kind: kind}
	for i, c := range components {
		v.words[i] = uint32(c)
	}
	return v, nil
}

// Uints builds a value of a uint-based kind (uint, uivecN).
//
// Parameters:
//   - kind: the target uniform kind
//   - components: exactly kind.Components() values
//
// Returns:
//   - Value: the typed value
//   - error: ErrKindMismatch for non-uint kinds, ErrLiteralCount for a wrong component count
func Uints(kind shader.UniformKind, components ...uint32) (Value, error) {
	if !kind.Valid() || kind.Base() != shader.BaseUint32 {
		return Value{}, fmt.Errorf("%w: %s is not uint based", ErrKindMismatch, kind)
	}
	if len(components) != kind.Components() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", ErrLiteralCount, kind, kind.Components(), len(components))
	}
	v := Value{kind: kind}
	copy(v.words[:], components)
	return v, nil
}

func mustValue(v Value, err error) Value {
	if err != nil {
		panic(err)
	}
	return v
}

// Float returns a float value.
func Float(f float32) Value { return mustValue(Floats(shader.UniformFloat, f)) }

// Vec2 returns a vec2 value.
func Vec2(v mgl32.Vec2) Value { return mustValue(Floats(shader.UniformVec2, v[:]...)) }

// Vec3 returns a vec3 value.
func Vec3(v mgl32.Vec3) Value { return mustValue(Floats(shader.UniformVec3, v[:]...)) }

// Vec4 returns a vec4 value.
func Vec4(v mgl32.Vec4) Value { return mustValue(Floats(shader.UniformVec4, v[:]...)) }

// Mat2 returns a mat2 value.
func Mat2(m mgl32.Mat2) Value { return mustValue(Floats(shader.UniformMat2, m[:]...)) }

// Mat3 returns a mat3 value.
func Mat3(m mgl32.Mat3) Value { return mustValue(Floats(shader.UniformMat3, m[:]...)) }

// Mat4 returns a mat4 value.
func Mat4(m mgl32.Mat4) Value { return mustValue(Floats(shader.UniformMat4, m[:]...)) }

// Int returns an int value.
func Int(i int32) Value { return mustValue(Ints(shader.UniformInt, i)) }

// Uint returns a uint value.
func Uint(u uint32) Value { return mustValue(Uints(shader.UniformUint, u)) }

// IVec returns an ivec2, ivec3 or ivec4 value depending on the number of components.
// Panics unless 2 to 4 components are given; use Ints to get an error instead.
func IVec(components ...int32) Value {
	return mustValue(Ints(vectorKind(shader.UniformIVec2, len(components)), components...))
}

// UVec returns a uivec2, uivec3 or uivec4 value depending on the number of components.
// Panics unless 2 to 4 components are given; use Uints to get an error instead.
func UVec(components ...uint32) Value {
	return mustValue(Uints(vectorKind(shader.UniformUVec2, len(components)), components...))
}

// Matrix builds a value of any matrix kind from column-major components.
//
// Parameters:
//   - kind: a matrix uniform kind
//   - columnMajor: exactly kind.Components() values
//
// Returns:
//   - Value: the typed value
//   - error: ErrKindMismatch if kind is not a matrix, ErrLiteralCount for a wrong component count
func Matrix(kind shader.UniformKind, columnMajor []float32) (Value, error) {
	if !kind.Valid() || !kind.IsMatrix() {
		return Value{}, fmt.Errorf("%w: %s is not a matrix", ErrKindMismatch, kind)
	}
	return Floats(kind, columnMajor...)
}

// vectorKind maps a component count of 2..4 onto the vector kind family starting at vec2.
// Other counts yield an invalid kind so the constructor reports a mismatch.
func vectorKind(vec2 shader.UniformKind, n int) shader.UniformKind {
	if n < 2 || n > 4 {
		return shader.UniformKind(255)
	}
	return vec2 + shader.UniformKind(n-2)
}

// Sampler returns a sampler2D value bound to the given texture unit.
func Sampler(unit int32) Value { return mustValue(Ints(shader.UniformSampler2D, unit)) }

// ValueFromLiteral converts a decoded document literal into a value of kind.
// A literal is a number or a flat array of numbers whose length equals kind.Components().
// Integer kinds require integral literals within the 32-bit range of the base type.
//
// Parameters:
//   - kind: the slot's uniform kind
//   - literal: a value produced by the JSON, TOML or YAML decoder
//
// Returns:
//   - Value: the typed value
//   - error: ErrLiteralType, ErrLiteralCount or ErrLiteralRange
func ValueFromLiteral(kind shader.UniformKind, literal any) (Value, error) {
	nums, err := literalNumbers(literal)
	if err != nil {
		return Value{}, err
	}
	if len(nums) != kind.Components() {
		return Value{}, fmt.Errorf("%w: %s needs %d components, got %d", ErrLiteralCount, kind, kind.Components(), len(nums))
	}

	v := Value{kind: kind}
	for i, n := range nums {
		switch kind.Base() {
		case shader.BaseFloat32:
			if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxFloat32 {
				return Value{}, fmt.Errorf("%w: %v is not a finite float32", ErrLiteralRange, n)
			}
			v.words[i] = math.Float32bits(float32(n))
		case shader.BaseInt32:
			if !common.IsIntegral(n) || n < math.MinInt32 || n > math.MaxInt32 {
				return Value{}, fmt.Errorf("%w: %v is not an int32", ErrLiteralRange, n)
			}
			v.words[i] = uint32(int32(n))
		case shader.BaseUint32:
			if !common.IsIntegral(n) || n < 0 || n > math.MaxUint32 {
				return Value{}, fmt.Errorf("%w: %v is not a uint32", ErrLiteralRange, n)
			}
			v.words[i] = uint32(n)
		}
	}
	return v, nil
}

func literalNumbers(literal any) ([]float64, error) {
	if n, ok := literalNumber(literal); ok {
		return []float64{n}, nil
	}
	var items []any
	switch l := literal.(type) {
	case []any:
		items = l
	case []float64:
		return l, nil
	case []int64:
		out := make([]float64, len(l))
		for i, n := range l {
			out[i] = float64(n)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrLiteralType, literal)
	}
	out := make([]float64, len(items))
	for i, item := range items {
		n, ok := literalNumber(item)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrLiteralType, i, item)
		}
		out[i] = n
	}
	return out, nil
}

func literalNumber(x any) (float64, bool) {
	switch n := x.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
