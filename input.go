package repeater

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	maxPointers         = 10  // pointer 0 = mouse, 1-9 = touch
	defaultDragDeadZone = 4.0 // world units
)

// --- Hit shapes ---

// HitShape is a hit area in a node's local XY plane.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a convex polygon hit area in local coordinates.
// Points must define a convex polygon in either winding order.
type HitPolygon struct {
	Points []mgl64.Vec2
}

// Contains reports whether (x, y) lies inside the polygon using a
// cross-product sign test.
func (p HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	var positive, negative bool
	for i := range n {
		a := p.Points[i]
		b := p.Points[(i+1)%n]
		cross := (b.X()-a.X())*(y-a.Y()) - (b.Y()-a.Y())*(x-a.X())
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// --- Interactive component ---

// Interactive makes its node a pointer target. The InputPlugin hit-tests
// Shape against the pointer position converted to the node's local space.
type Interactive struct {
	BaseComponent
	Shape HitShape
	// Disabled excludes the node (not its children) from hit testing.
	Disabled bool
}

// NewInteractive returns an Interactive component for shape.
func NewInteractive(shape HitShape) *Interactive {
	return &Interactive{Shape: shape}
}

// Hit reports whether the world-space point falls inside the shape.
func (c *Interactive) Hit(world mgl64.Vec3) bool {
	if c.Disabled || c.Shape == nil {
		return false
	}
	local := c.Node().WorldToLocal(world)
	return c.Shape.Contains(local.X(), local.Y())
}

// --- Pointer events ---

// PointerEvent is the payload of pointer, click and drag events. It is
// emitted upward from the node under the pointer, or on the root when the
// pointer is over nothing.
type PointerEvent struct {
	NodeEvent
	PointerID int
	Button    MouseButton
	Modifiers KeyModifiers

	ScreenX, ScreenY float64
	World            mgl64.Vec3
	// Local is World in the target's local space.
	Local mgl64.Vec3

	// Drag fields (valid for dragStart, drag and dragEnd).
	Start mgl64.Vec3
	Delta mgl64.Vec3
}

// --- Pointer sources ---

// PointerSample is the state of one pointer at one instant.
type PointerSample struct {
	ID               int
	ScreenX, ScreenY float64
	Pressed          bool
	Button           MouseButton
	Modifiers        KeyModifiers
}

// PointerSource produces pointer samples once per engine step.
type PointerSource interface {
	Poll(buf []PointerSample) []PointerSample
}

// EbitenPointerSource reads the mouse (pointer 0) and touches
// (pointers 1-9) from ebiten.
type EbitenPointerSource struct {
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
	lastTouch    [maxPointers]PointerSample
}

// Poll implements PointerSource.
func (s *EbitenPointerSource) Poll(buf []PointerSample) []PointerSample {
	mods := readModifiers()

	mx, my := ebiten.CursorPosition()
	mouse := PointerSample{ID: 0, ScreenX: float64(mx), ScreenY: float64(my), Modifiers: mods}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		mouse.Pressed, mouse.Button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		mouse.Pressed, mouse.Button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		mouse.Pressed, mouse.Button = true, MouseButtonMiddle
	}
	buf = append(buf, mouse)

	touchIDs := ebiten.AppendTouchIDs(s.prevTouchIDs[:0])
	s.prevTouchIDs = touchIDs

	var active [maxPointers]bool
	for _, tid := range touchIDs {
		slot := s.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		sample := PointerSample{
			ID: slot, ScreenX: float64(tx), ScreenY: float64(ty),
			Pressed: true, Button: MouseButtonLeft, Modifiers: mods,
		}
		s.lastTouch[slot] = sample
		buf = append(buf, sample)
	}

	// Release slots whose touch ended.
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && !active[i] {
			release := s.lastTouch[i]
			release.Pressed = false
			buf = append(buf, release)
			s.touchUsed[i] = false
			s.touchMap[i] = 0
		}
	}
	return buf
}

// touchSlot maps a touch to a pointer slot (1-9), allocating one if needed.
// Returns -1 if all slots are taken.
func (s *EbitenPointerSource) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if s.touchUsed[i] && s.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !s.touchUsed[i] {
			s.touchUsed[i] = true
			s.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// --- Input plugin ---

type pointerState struct {
	down     bool
	start    mgl64.Vec3
	last     mgl64.Vec3
	hitNode  *Node
	hover    *Node
	dragging bool
	button   MouseButton // captured at press time
}

// InputPlugin turns pointer samples into pointer events on the tree. Each
// step it consumes one injected sample if any are queued, otherwise it
// polls Source.
type InputPlugin struct {
	// Source is polled when no injected samples are queued. nil means
	// injected input only.
	Source PointerSource
	// DragDeadZone overrides Config.DragDeadZone when positive.
	DragDeadZone float64

	engine   *Engine
	pointers [maxPointers]pointerState
	captured [maxPointers]*Node
	injected []PointerSample
	samples  []PointerSample
	hitBuf   []*Node
}

// NewInputPlugin returns an input plugin reading from src.
func NewInputPlugin(src PointerSource) *InputPlugin {
	return &InputPlugin{Source: src}
}

// Load implements Plugin.
func (p *InputPlugin) Load(e *Engine) error {
	p.engine = e
	if p.DragDeadZone <= 0 {
		p.DragDeadZone = e.Config().DragDeadZone
	}
	return nil
}

// Init implements Plugin.
func (p *InputPlugin) Init(*Engine) error { return nil }

// Update implements Updater.
func (p *InputPlugin) Update(e *Engine, _ float64) {
	if p.processInjected() {
		return
	}
	if p.Source == nil {
		return
	}
	p.samples = p.Source.Poll(p.samples[:0])
	for _, s := range p.samples {
		p.processSample(s)
	}
}

// CapturePointer routes all events for pointerID to node until the pointer
// is released.
func (p *InputPlugin) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		p.captured[pointerID] = node
	}
}

// ReleasePointer stops routing events for pointerID to a captured node.
func (p *InputPlugin) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < maxPointers {
		p.captured[pointerID] = nil
	}
}

// ScreenToWorld converts screen coordinates through the main camera. Without
// an orthographic main camera, screen and world XY coincide.
func (p *InputPlugin) ScreenToWorld(sx, sy float64) mgl64.Vec3 {
	if p.engine != nil {
		if cam := p.engine.MainCamera(); cam != nil {
			if w, err := cam.ScreenToWorld(sx, sy); err == nil {
				return w
			}
		}
	}
	return mgl64.Vec3{sx, sy, 0}
}

// HitTest returns the topmost interactive node at the world position: the
// last match in depth-first tree order.
func (p *InputPlugin) HitTest(world mgl64.Vec3) *Node {
	if p.engine == nil {
		return nil
	}
	p.hitBuf = collectInteractive(p.engine.Root(), p.hitBuf[:0])
	for i := len(p.hitBuf) - 1; i >= 0; i-- {
		n := p.hitBuf[i]
		if c, ok := GetComponent[*Interactive](n); ok && c.Hit(world) {
			return n
		}
	}
	return nil
}

func collectInteractive(n *Node, buf []*Node) []*Node {
	if _, ok := GetComponent[*Interactive](n); ok {
		buf = append(buf, n)
	}
	for _, child := range n.children {
		buf = collectInteractive(child, buf)
	}
	return buf
}

// processSample runs the pointer state machine for one sample.
func (p *InputPlugin) processSample(s PointerSample) {
	if s.ID < 0 || s.ID >= maxPointers {
		return
	}
	ps := &p.pointers[s.ID]
	world := p.ScreenToWorld(s.ScreenX, s.ScreenY)

	target := p.captured[s.ID]
	if target == nil {
		target = p.HitTest(world)
	}

	base := PointerEvent{
		PointerID: s.ID, Button: s.Button, Modifiers: s.Modifiers,
		ScreenX: s.ScreenX, ScreenY: s.ScreenY, World: world,
	}

	if target != ps.hover {
		if ps.hover != nil && !ps.hover.Destroyed() {
			p.fire(ps.hover, EventPointerOut, base)
		}
		if target != nil {
			p.fire(target, EventPointerOver, base)
		}
		ps.hover = target
	}

	switch {
	case s.Pressed && !ps.down:
		ps.down = true
		ps.button = s.Button
		ps.start = world
		ps.last = world
		ps.hitNode = target
		ps.dragging = false
		p.fire(target, EventPointerDown, base)

	case !s.Pressed && ps.down:
		base.Button = ps.button
		if ps.dragging {
			drag := base
			drag.Start = ps.start
			drag.Delta = world.Sub(ps.last)
			p.fire(ps.hitNode, EventDragEnd, drag)
		} else if ps.hitNode != nil && ps.hitNode == target {
			p.fire(target, EventClick, base)
		}
		p.fire(target, EventPointerUp, base)

		p.captured[s.ID] = nil
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false
		ps.last = world

	case s.Pressed && ps.down:
		base.Button = ps.button
		if world != ps.last {
			if !ps.dragging && world.Sub(ps.start).Len() > p.DragDeadZone {
				ps.dragging = true
				drag := base
				drag.Start = ps.start
				drag.Delta = world.Sub(ps.start)
				p.fire(ps.hitNode, EventDragStart, drag)
			}
			if ps.dragging {
				drag := base
				drag.Start = ps.start
				drag.Delta = world.Sub(ps.last)
				p.fire(ps.hitNode, EventDrag, drag)
			}
			p.fire(target, EventPointerMove, base)
		}
		ps.last = world

	default:
		if world != ps.last {
			p.fire(target, EventPointerMove, base)
			ps.last = world
		}
	}
}

// fire emits a copy of base upward from node, or on the root when node is
// nil or destroyed.
func (p *InputPlugin) fire(node *Node, name string, base PointerEvent) {
	if node == nil || node.Destroyed() {
		node = p.engine.Root()
	}
	e := base
	e.Local = node.WorldToLocal(e.World)
	if math.IsNaN(e.Local.X()) {
		e.Local = e.World
	}
	node.EmitUp(name, &e)
}
