// Package common contains small math and generic helpers shared by the engine packages. They are not interface-wrapped,
// just plain functions over mgl32 types.
package common

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// LocalMatrix builds a rigid 4x4 transform from a position and a rotation.
// The rotation is normalized and expanded to the upper 3x3 block, and the translation is written
// into the last column (column-major, OpenGL convention).
//
// Parameters:
//   - position: translation relative to the parent
//   - rotation: orientation relative to the parent
//
// Returns:
//   - mgl32.Mat4: the local transform matrix
func LocalMatrix(position mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	m := rotation.Normalize().Mat4()
	m.SetCol(3, position.Vec4(1))
	return m
}

// MulChain multiplies the given matrices left to right, returning the identity for an empty chain.
//
// Parameters:
//   - mats: matrices ordered from outermost (root) to innermost
//
// Returns:
//   - mgl32.Mat4: mats[0] * mats[1] * ... * mats[n-1]
func MulChain(mats ...mgl32.Mat4) mgl32.Mat4 {
	out := mgl32.Ident4()
	for _, m := range mats {
		out = out.Mul4(m)
	}
	return out
}

// Mat4ApproxEqual reports whether every element of a and b differs by at most tol.
//
// Parameters:
//   - a, b: the matrices to compare
//   - tol: absolute per-element tolerance
//
// Returns:
//   - bool: true if the matrices match within tol
func Mat4ApproxEqual(a, b mgl32.Mat4, tol float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// EulerRotation converts Euler angles in degrees (applied X, then Y, then Z) to a quaternion.
//
// Parameters:
//   - x, y, z: rotation angles in degrees
//
// Returns:
//   - mgl32.Quat: the equivalent unit quaternion
func EulerRotation(x, y, z float32) mgl32.Quat {
	const degToRad = math32.Pi / 180
	return mgl32.AnglesToQuat(x*degToRad, y*degToRad, z*degToRad, mgl32.XYZ)
}

// IsIntegral reports whether f has no fractional part and is finite.
func IsIntegral(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}
