package material

import "errors"

// Schema errors, returned by LoadTemplate and LoadMaterial. Nothing is committed when one is returned.
var (
	ErrUnsupportedFormat = errors.New("material: unsupported document format")
	ErrMissingField      = errors.New("material: missing required field")
	ErrDuplicateKey      = errors.New("material: duplicate key")
	ErrUnknownKind       = errors.New("material: unknown slot type")
	ErrEmptySlotName     = errors.New("material: empty slot name")
	ErrSlotNameTooLong   = errors.New("material: slot name too long")
	ErrLayoutOverflow    = errors.New("material: slot layout exceeds one slab slot")
	ErrLiteralType       = errors.New("material: literal is not a number or array of numbers")
	ErrLiteralCount      = errors.New("material: literal component count mismatch")
	ErrLiteralRange      = errors.New("material: literal out of range for slot type")
	ErrTooManyTemplates  = errors.New("material: template limit reached")
)

// Usage errors.
var (
	ErrUnknownTemplate    = errors.New("material: unknown template")
	ErrInvalidMaterial    = errors.New("material: invalid material handle")
	ErrReleased           = errors.New("material: material has been released")
	ErrDoubleRelease      = errors.New("material: material released twice")
	ErrUnknownSlot        = errors.New("material: unknown slot")
	ErrKindMismatch       = errors.New("material: value type does not match slot type")
	ErrInstanceExhaustion = errors.New("material: instance limit reached for template")
)
