package scene

import "errors"

// Hierarchy errors. The tree is left unchanged when one is returned.
var (
	ErrNameConflict    = errors.New("scene: a child with that name already exists")
	ErrNotAttached     = errors.New("scene: no child with that name")
	ErrDetached        = errors.New("scene: node is not attached to its scene root")
	ErrAlreadyAttached = errors.New("scene: node already has a parent")
	ErrForeignScene    = errors.New("scene: node belongs to another scene")
	ErrCycle           = errors.New("scene: node cannot be attached below itself")
	ErrDestroyed       = errors.New("scene: node has been destroyed")
	ErrEmptyName       = errors.New("scene: node name is empty")
	ErrInvalidName     = errors.New("scene: node name contains a path separator")
	ErrRootOperation   = errors.New("scene: operation not allowed on the scene root")
)
