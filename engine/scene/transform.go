package scene

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/go-gl/mathgl/mgl32"
)

func (n *node) Position() mgl32.Vec3 {
	return n.position
}

func (n *node) Rotation() mgl32.Quat {
	return n.rotation
}

func (n *node) SetPosition(position mgl32.Vec3) {
	n.position = position
	n.markDirty()
}

func (n *node) SetRotation(rotation mgl32.Quat) {
	n.rotation = rotation
	n.markDirty()
}

func (n *node) SetTransform(position mgl32.Vec3, rotation mgl32.Quat) {
	n.position = position
	n.rotation = rotation
	n.markDirty()
}

func (n *node) Dirty() bool {
	return n.dirty
}

// markDirty flags the local matrix as stale. Only attached nodes enter the dirty set; detached
// subtrees are registered again when they are attached.
func (n *node) markDirty() {
	n.dirty = true
	if n.attached {
		n.scene.dirty[n] = struct{}{}
	}
}

func (n *node) TransformMatrix() mgl32.Mat4 {
	if n.dirty {
		n.recomputeLocal()
	}
	return n.local.value
}

// recomputeLocal rebuilds the local matrix, invalidates the node's own global matrix and pushes
// dirtiness one level down.
func (n *node) recomputeLocal() {
	n.local = matrixCache{value: common.LocalMatrix(n.position, n.rotation), valid: true}
	n.dirty = false
	delete(n.scene.dirty, n)
	n.global.valid = false
	for _, c := range n.children {
		c.markDirty()
	}
}

func (n *node) GlobalTransformMatrix() (mgl32.Mat4, error) {
	m, _, err := n.resolveGlobal()
	return m, err
}

// resolveGlobal walks to the root, finds the topmost node that is dirty or has no valid global
// matrix, and recomputes every global matrix from there down to n.
//
// Returns:
//   - mgl32.Mat4: the global matrix of n
//   - int: the number of global matrices recomputed
//   - error: ErrDestroyed or ErrDetached
func (n *node) resolveGlobal() (mgl32.Mat4, int, error) {
	if n.destroyed {
		return mgl32.Mat4{}, 0, ErrDestroyed
	}
	if !n.attached {
		return mgl32.Mat4{}, 0, ErrDetached
	}

	chain := n.scene.chain[:0]
	for cur := n; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	n.scene.chain = chain

	top := -1
	for i := len(chain) - 1; i >= 0; i-- {
		if chain[i].dirty || !chain[i].global.valid {
			top = i
			break
		}
	}
	for i := top; i >= 0; i-- {
		c := chain[i]
		if c.dirty {
			c.recomputeLocal()
		}
		if c.parent == nil {
			c.global = c.local
		} else {
			c.global = matrixCache{value: c.parent.global.value.Mul4(c.local.value), valid: true}
		}
	}
	return n.global.value, top + 1, nil
}
