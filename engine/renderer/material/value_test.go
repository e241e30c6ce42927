package material

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	assert.Equal(t, shader.UniformVec3, Vec3(mgl32.Vec3{1, 2, 3}).Kind())
	assert.Equal(t, []float32{1, 2, 3}, Vec3(mgl32.Vec3{1, 2, 3}).Float32s())
	assert.Equal(t, []int32{-7}, Int(-7).Int32s())
	assert.Equal(t, []uint32{math.MaxUint32}, Uint(math.MaxUint32).Uint32s())
	assert.Equal(t, shader.UniformSampler2D, Sampler(3).Kind())
	assert.Equal(t, shader.UniformIVec3, IVec(1, 2, 3).Kind())
	assert.Equal(t, shader.UniformUVec4, UVec(1, 2, 3, 4).Kind())
	tr := mgl32.Translate3D(1, 2, 3)
	assert.Equal(t, tr[:], Mat4(tr).Float32s())

	m, err := Matrix(shader.UniformMat2x3, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, m.Float32s())

	_, err = Matrix(shader.UniformVec4, []float32{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = Floats(shader.UniformInt, 1)
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, err = Ints(shader.UniformIVec2, 1)
	assert.ErrorIs(t, err, ErrLiteralCount)
	_, err = Uints(shader.UniformFloat, 1)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Panics(t, func() { IVec(1) })
	assert.Panics(t, func() { IVec() })
	assert.Panics(t, func() { UVec(1, 2, 3, 4, 5) })
	assert.Panics(t, func() { UVec(7) })
}

func TestValueBytesAreLittleEndian(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f}, Float(1).Bytes())
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0x02, 0x00, 0x00, 0x00}, IVec(-1, 2).Bytes())

	v := Vec4(mgl32.Vec4{1, -2, 3.5, 0})
	assert.Equal(t, v, decodeValue(shader.UniformVec4, v.Bytes()))
}

func TestValueFromLiteral(t *testing.T) {
	tests := []struct {
		name    string
		kind    shader.UniformKind
		literal any
		want    Value
		err     error
	}{
		{"scalar float", shader.UniformFloat, 0.25, Float(0.25), nil},
		{"int64 into float", shader.UniformFloat, int64(2), Float(2), nil},
		{"json number", shader.UniformInt, json.Number("-12"), Int(-12), nil},
		{"vector", shader.UniformVec3, []any{1.0, int64(0), 0.5}, Vec3(mgl32.Vec3{1, 0, 0.5}), nil},
		{"uint max", shader.UniformUint, float64(math.MaxUint32), Uint(math.MaxUint32), nil},
		{"int min", shader.UniformInt, int(math.MinInt32), Int(math.MinInt32), nil},
		{"sampler", shader.UniformSampler2D, 2, Sampler(2), nil},
		{"string", shader.UniformFloat, "1.0", Value{}, ErrLiteralType},
		{"nested", shader.UniformVec2, []any{[]any{1.0}, 2.0}, Value{}, ErrLiteralType},
		{"map", shader.UniformVec2, map[string]any{"x": 1.0}, Value{}, ErrLiteralType},
		{"too few", shader.UniformVec3, []any{1.0, 2.0}, Value{}, ErrLiteralCount},
		{"scalar for vector", shader.UniformVec2, 1.0, Value{}, ErrLiteralCount},
		{"fractional int", shader.UniformInt, 1.5, Value{}, ErrLiteralRange},
		{"negative uint", shader.UniformUint, -1, Value{}, ErrLiteralRange},
		{"int overflow", shader.UniformIVec2, []any{0, int64(math.MaxInt32) + 1}, Value{}, ErrLiteralRange},
		{"float overflow", shader.UniformFloat, 1e300, Value{}, ErrLiteralRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueFromLiteral(tt.kind, tt.literal)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
