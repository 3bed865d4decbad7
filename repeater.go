package repeater

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Built-in event names. Any other string is a valid custom event name.
const (
	EventAwake         = "awake"
	EventStart         = "start"
	EventDestroy       = "destroy"
	EventUpdate        = "update"
	EventFixedUpdate   = "fixedUpdate"
	EventParentChanged = "parentChanged"
	EventAdd           = "add"

	EventPointerDown = "pointerDown"
	EventPointerUp   = "pointerUp"
	EventPointerMove = "pointerMove"
	EventPointerOver = "pointerOver"
	EventPointerOut  = "pointerOut"
	EventClick       = "click"
	EventDragStart   = "dragStart"
	EventDrag        = "drag"
	EventDragEnd     = "dragEnd"

	EventCollisionStart = "collisionStart"
	EventCollisionEnd   = "collisionEnd"
)

var (
	// ErrDestroyed is the rejection reason of waits and coroutines whose
	// node was destroyed before they settled.
	ErrDestroyed = errors.New("repeater: node destroyed")
	// ErrAborted is the rejection reason of a coroutine stopped through
	// StopCoroutine or restarted through StartCoroutine.
	ErrAborted = errors.New("repeater: coroutine aborted")
	// ErrNotOrthographic is returned by camera operations that only make
	// sense for an orthographic projection.
	ErrNotOrthographic = errors.New("repeater: camera is not orthographic")
)

// XYZ returns a pointer to a vector, for use in Props literals.
func XYZ(x, y, z float64) *mgl64.Vec3 {
	return &mgl64.Vec3{x, y, z}
}

// Symbol returns a name that no other call to Symbol will return. Use it for
// node names that must not collide with user-supplied names.
func Symbol(desc string) string {
	return desc + "#" + uuid.NewString()
}

// Rect is an axis-aligned rectangle in the XY plane.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
