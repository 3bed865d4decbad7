package repeater

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Projection selects how a camera maps world space to the screen.
type Projection uint8

const (
	// Orthographic maps the XY plane to the screen with Y pointing down.
	Orthographic Projection = iota
	// Perspective projects along the camera's -Z axis.
	Perspective
)

// CameraOptions configures NewCamera.
type CameraOptions struct {
	Name       string
	Projection Projection
	// Viewport is the screen-space rectangle the camera maps onto.
	Viewport Rect
	// Zoom is the orthographic scale factor. Zero means 1.
	Zoom float64
	// FOV is the vertical field of view in degrees (perspective only).
	FOV float64
	// Near and Far are the perspective clip planes.
	Near, Far float64
}

var errInvalidCamera = errors.New("repeater: invalid camera")

// Camera is a node whose world position and Z rotation define the view.
// Add it with Engine.AddCamera so it receives updates.
type Camera struct {
	*Node

	projection Projection
	// Viewport is the screen-space rectangle this camera maps onto.
	Viewport Rect
	zoom     float64
	fov      float64
	near     float64
	far      float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds (orthographic only).
	BoundsEnabled bool
	Bounds        Rect

	followTarget *Node
	followOffset mgl64.Vec3
	followLerp   float64

	scrollTo       mgl64.Vec3
	scrollDuration float32
	scrollEase     ease.TweenFunc
}

// NewCamera validates opts and creates a camera node at the origin.
func NewCamera(opts CameraOptions) (*Camera, error) {
	if opts.Viewport.Width <= 0 || opts.Viewport.Height <= 0 {
		return nil, fmt.Errorf("%w: viewport %vx%v", errInvalidCamera, opts.Viewport.Width, opts.Viewport.Height)
	}
	if opts.Zoom < 0 {
		return nil, fmt.Errorf("%w: zoom %v", errInvalidCamera, opts.Zoom)
	}
	if opts.Zoom == 0 {
		opts.Zoom = 1
	}
	if opts.Projection == Perspective {
		if opts.FOV <= 0 || opts.FOV >= 180 {
			return nil, fmt.Errorf("%w: fov %v", errInvalidCamera, opts.FOV)
		}
		if opts.Near <= 0 || opts.Far <= opts.Near {
			return nil, fmt.Errorf("%w: clip planes %v..%v", errInvalidCamera, opts.Near, opts.Far)
		}
	}
	if opts.Name == "" {
		opts.Name = "camera"
	}
	c := &Camera{
		projection: opts.Projection,
		Viewport:   opts.Viewport,
		zoom:       opts.Zoom,
		fov:        opts.FOV,
		near:       opts.Near,
		far:        opts.Far,
	}
	c.Node = NewNode(Props{Name: opts.Name, Self: c})
	return c, nil
}

// Projection returns the camera's projection.
func (c *Camera) Projection() Projection {
	return c.projection
}

// Zoom returns the orthographic zoom factor.
func (c *Camera) Zoom() float64 {
	return c.zoom
}

// SetZoom changes the zoom factor (1 = no zoom, >1 = zoom in).
func (c *Camera) SetZoom(z float64) error {
	if c.projection != Orthographic {
		return ErrNotOrthographic
	}
	if z <= 0 {
		return fmt.Errorf("%w: zoom %v", errInvalidCamera, z)
	}
	c.zoom = z
	c.ClampToBounds()
	return nil
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
	c.ClampToBounds()
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds immediately clamps the camera position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false or the camera is
// not orthographic.
func (c *Camera) ClampToBounds() {
	if !c.BoundsEnabled || c.projection != Orthographic {
		return
	}
	p := c.Position()
	halfW := c.Viewport.Width / (2 * c.zoom)
	halfH := c.Viewport.Height / (2 * c.zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	// Bounds smaller than the visible area: center.
	x, y := p.X(), p.Y()
	if minX > maxX {
		x = c.Bounds.X + c.Bounds.Width/2
	} else {
		x = math.Max(minX, math.Min(x, maxX))
	}
	if minY > maxY {
		y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		y = math.Max(minY, math.Min(y, maxY))
	}
	if x != p.X() || y != p.Y() {
		c.SetPosition(mgl64.Vec3{x, y, p.Z()})
	}
}

// ViewMatrix maps world space to camera space.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	p := c.Position()
	eye := mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(c.Rotation().Mat4())
	return eye.Inv()
}

// ProjectionMatrix maps camera space to screen space (orthographic) or clip
// space (perspective).
func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	if c.projection == Perspective {
		aspect := c.Viewport.Width / c.Viewport.Height
		return mgl64.Perspective(mgl64.DegToRad(c.fov), aspect, c.near, c.far)
	}
	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	return mgl64.Translate3D(cx, cy, 0).Mul4(mgl64.Scale3D(c.zoom, c.zoom, 1))
}

// WorldToScreen converts a world position to screen coordinates. For a
// perspective camera ok is false when the point is behind the camera.
func (c *Camera) WorldToScreen(p mgl64.Vec3) (sx, sy float64, ok bool) {
	m := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	if c.projection == Orthographic {
		s := mgl64.TransformCoordinate(p, m)
		return s.X(), s.Y(), true
	}
	clip := m.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	sx = c.Viewport.X + (ndc.X()+1)/2*c.Viewport.Width
	sy = c.Viewport.Y + (1-ndc.Y())/2*c.Viewport.Height
	return sx, sy, true
}

// ScreenToWorld converts screen coordinates to a point on the camera's
// Z plane.
func (c *Camera) ScreenToWorld(sx, sy float64) (mgl64.Vec3, error) {
	if c.projection != Orthographic {
		return mgl64.Vec3{}, ErrNotOrthographic
	}
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()
	return mgl64.TransformCoordinate(mgl64.Vec3{sx, sy, 0}, inv), nil
}

// VisibleBounds returns the axis-aligned bounding rect of the camera's
// visible area in world space.
func (c *Camera) VisibleBounds() (Rect, error) {
	if c.projection != Orthographic {
		return Rect{}, ErrNotOrthographic
	}
	vx, vy := c.Viewport.X, c.Viewport.Y
	vr, vb := vx+c.Viewport.Width, vy+c.Viewport.Height

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range [4][2]float64{{vx, vy}, {vr, vy}, {vr, vb}, {vx, vb}} {
		w, _ := c.ScreenToWorld(corner[0], corner[1])
		minX, maxX = math.Min(minX, w.X()), math.Max(maxX, w.X())
		minY, maxY = math.Min(minY, w.Y()), math.Max(maxY, w.Y())
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, nil
}

// --- Coroutines ---

var followCoroutine = NewCoroutine("camera.follow", func(n *Node, yield func(Awaitable) bool) {
	c := n.Self().(*Camera)
	for yield(nil) {
		t := c.followTarget
		if t == nil || t.Destroyed() {
			return
		}
		target := t.Position().Add(c.followOffset)
		p := c.Position()
		c.SetPosition(p.Add(target.Sub(p).Mul(c.followLerp)))
		c.ClampToBounds()
	}
})

// Follow makes the camera track target every update, moving lerp of the
// remaining distance per update (1 snaps). It replaces any previous follow
// and ends when target is destroyed or Unfollow is called.
func (c *Camera) Follow(target *Node, offset mgl64.Vec3, lerp float64) *Future[struct{}] {
	c.followTarget = target
	c.followOffset = offset
	c.followLerp = lerp
	return c.StartCoroutine(followCoroutine)
}

// Unfollow stops tracking the current target.
func (c *Camera) Unfollow() {
	c.StopCoroutine(followCoroutine)
}

// Following returns the node the camera tracks, or nil.
func (c *Camera) Following() *Node {
	if !c.CoroutineStarted(followCoroutine) {
		return nil
	}
	return c.followTarget
}

var scrollCoroutine = NewCoroutine("camera.scroll", func(n *Node, yield func(Awaitable) bool) {
	c := n.Self().(*Camera)
	from := c.Position()
	tx := gween.New(float32(from.X()), float32(c.scrollTo.X()), c.scrollDuration, c.scrollEase)
	ty := gween.New(float32(from.Y()), float32(c.scrollTo.Y()), c.scrollDuration, c.scrollEase)
	for yield(nil) {
		x, doneX := tx.Update(float32(n.Delta()))
		y, doneY := ty.Update(float32(n.Delta()))
		c.SetPosition(mgl64.Vec3{float64(x), float64(y), c.Position().Z()})
		c.ClampToBounds()
		if doneX && doneY {
			return
		}
	}
})

// ScrollTo animates the camera's world XY position to (x, y) over duration
// seconds of update time. A running scroll is replaced.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) *Future[struct{}] {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTo = mgl64.Vec3{x, y, 0}
	c.scrollDuration = duration
	c.scrollEase = easeFn
	return c.StartCoroutine(scrollCoroutine)
}
