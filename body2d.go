package repeater

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyShape is the collision shape of a body, centered on its position.
type BodyShape interface {
	isBodyShape()
}

// Circle is a circular body shape.
type Circle struct {
	Radius float64
}

// Box is an axis-aligned rectangular body shape.
type Box struct {
	Width, Height float64
}

func (Circle) isBodyShape() {}
func (Box) isBodyShape()    {}

// BodyDef describes a body to create.
type BodyDef struct {
	Shape           BodyShape
	Static          bool
	Velocity        mgl64.Vec2
	AngularVelocity float64
}

// PhysicsBody is a body owned by a PhysicsWorld.
type PhysicsBody interface {
	Position() mgl64.Vec2
	SetPosition(p mgl64.Vec2)
	Angle() float64
	SetAngle(a float64)
	Velocity() mgl64.Vec2
	SetVelocity(v mgl64.Vec2)
}

// Contact is a pair of overlapping bodies.
type Contact struct {
	A, B PhysicsBody
}

// PhysicsWorld is the simulation a PhysicsPlugin steps. Contacts must
// report each overlapping pair with A and B in a stable order.
type PhysicsWorld interface {
	CreateBody(def BodyDef, position mgl64.Vec2, angle float64) PhysicsBody
	DestroyBody(b PhysicsBody)
	Step(dt float64)
	Contacts() []Contact
}

// CollisionEvent is emitted upward from both nodes of a contact as
// collisionStart when they begin to overlap and collisionEnd when they
// stop.
type CollisionEvent struct {
	NodeEvent
	Body  *Body2D
	Other *Body2D
}

// --- Component ---

// Body2D binds a node to a physics body. On connect the body is created at
// the node's world XY position and Z angle; on every fixedUpdate the node's
// world XY position and local Z rotation follow the body.
type Body2D struct {
	BaseComponent
	plugin *PhysicsPlugin
	def    BodyDef
	body   PhysicsBody
}

// Body returns the physics body, or nil before the component is attached.
func (b *Body2D) Body() PhysicsBody {
	return b.body
}

// Connect implements Connector.
func (b *Body2D) Connect(n *Node) {
	w := n.Position()
	q := n.Rotation()
	angle := 2 * math.Atan2(q.V.Z(), q.W)
	b.body = b.plugin.world.CreateBody(b.def, mgl64.Vec2{w.X(), w.Y()}, angle)
	b.plugin.bodies[b.body] = b
	b.On(EventFixedUpdate, func(Event) { b.sync() })
}

// OnDestroy implements Destroyer.
func (b *Body2D) OnDestroy() {
	if b.body == nil {
		return
	}
	delete(b.plugin.bodies, b.body)
	b.plugin.world.DestroyBody(b.body)
	b.body = nil
}

func (b *Body2D) sync() {
	n := b.Node()
	p := b.body.Position()
	n.SetPosition(mgl64.Vec3{p.X(), p.Y(), n.Position().Z()})
	n.SetRotation(mgl64.QuatRotate(b.body.Angle(), mgl64.Vec3{0, 0, 1}))
}

// --- Plugin ---

type contactKey struct {
	a, b PhysicsBody
}

// PhysicsPlugin steps a PhysicsWorld once per fixed tick and emits
// collision events for bodies created through it.
type PhysicsPlugin struct {
	world  PhysicsWorld
	bodies map[PhysicsBody]*Body2D
	// touching holds the live contacts in the order they started.
	touching []contactKey
}

// NewPhysicsPlugin returns a plugin stepping world. A nil world is
// replaced by a KinematicWorld.
func NewPhysicsPlugin(world PhysicsWorld) *PhysicsPlugin {
	if world == nil {
		world = NewKinematicWorld()
	}
	return &PhysicsPlugin{
		world:  world,
		bodies: make(map[PhysicsBody]*Body2D),
	}
}

// World returns the simulated world.
func (p *PhysicsPlugin) World() PhysicsWorld {
	return p.world
}

// NewBody returns a Body2D component for def. The body is created when
// the component is added to a node.
func (p *PhysicsPlugin) NewBody(def BodyDef) *Body2D {
	return &Body2D{plugin: p, def: def}
}

// Load implements Plugin.
func (p *PhysicsPlugin) Load(*Engine) error { return nil }

// Init implements Plugin.
func (p *PhysicsPlugin) Init(*Engine) error { return nil }

// FixedUpdate implements FixedUpdater.
func (p *PhysicsPlugin) FixedUpdate(_ *Engine, step float64) {
	p.world.Step(step)

	contacts := p.world.Contacts()
	current := make(map[contactKey]bool, len(contacts))
	for _, c := range contacts {
		current[contactKey{c.A, c.B}] = true
	}

	// Ends are reported in the order the contacts started.
	var ended []contactKey
	kept := make(map[contactKey]bool, len(p.touching))
	touching := make([]contactKey, 0, len(p.touching))
	for _, k := range p.touching {
		if current[k] {
			kept[k] = true
			touching = append(touching, k)
		} else {
			ended = append(ended, k)
		}
	}
	var started []contactKey
	for _, c := range contacts {
		k := contactKey{c.A, c.B}
		if !kept[k] {
			kept[k] = true
			started = append(started, k)
			touching = append(touching, k)
		}
	}
	p.touching = touching

	for _, k := range ended {
		p.emitPair(EventCollisionEnd, k)
	}
	for _, k := range started {
		p.emitPair(EventCollisionStart, k)
	}
}

func (p *PhysicsPlugin) emitPair(name string, k contactKey) {
	a, b := p.bodies[k.a], p.bodies[k.b]
	if a == nil || b == nil {
		return
	}
	if n := a.Node(); n != nil && !n.Destroyed() {
		n.EmitUp(name, &CollisionEvent{Body: a, Other: b})
	}
	if n := b.Node(); n != nil && !n.Destroyed() {
		n.EmitUp(name, &CollisionEvent{Body: b, Other: a})
	}
}

// --- Reference world ---

type kinematicBody struct {
	def      BodyDef
	position mgl64.Vec2
	angle    float64
}

func (b *kinematicBody) Position() mgl64.Vec2     { return b.position }
func (b *kinematicBody) SetPosition(p mgl64.Vec2) { b.position = p }
func (b *kinematicBody) Angle() float64           { return b.angle }
func (b *kinematicBody) SetAngle(a float64)       { b.angle = a }
func (b *kinematicBody) Velocity() mgl64.Vec2     { return b.def.Velocity }
func (b *kinematicBody) SetVelocity(v mgl64.Vec2) { b.def.Velocity = v }

// KinematicWorld integrates velocities and reports shape overlaps. It
// resolves nothing: bodies pass through each other.
type KinematicWorld struct {
	bodies []*kinematicBody
}

// NewKinematicWorld returns an empty world.
func NewKinematicWorld() *KinematicWorld {
	return &KinematicWorld{}
}

// CreateBody implements PhysicsWorld.
func (w *KinematicWorld) CreateBody(def BodyDef, position mgl64.Vec2, angle float64) PhysicsBody {
	b := &kinematicBody{def: def, position: position, angle: angle}
	w.bodies = append(w.bodies, b)
	return b
}

// DestroyBody implements PhysicsWorld.
func (w *KinematicWorld) DestroyBody(pb PhysicsBody) {
	for i, b := range w.bodies {
		if b == pb {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// Len returns the number of bodies.
func (w *KinematicWorld) Len() int {
	return len(w.bodies)
}

// Step implements PhysicsWorld.
func (w *KinematicWorld) Step(dt float64) {
	for _, b := range w.bodies {
		if b.def.Static {
			continue
		}
		b.position = b.position.Add(b.def.Velocity.Mul(dt))
		b.angle += b.def.AngularVelocity * dt
	}
}

// Contacts implements PhysicsWorld. Pairs are ordered by creation.
func (w *KinematicWorld) Contacts() []Contact {
	var out []Contact
	for i := 0; i < len(w.bodies); i++ {
		for j := i + 1; j < len(w.bodies); j++ {
			a, b := w.bodies[i], w.bodies[j]
			if overlaps(a, b) {
				out = append(out, Contact{A: a, B: b})
			}
		}
	}
	return out
}

func overlaps(a, b *kinematicBody) bool {
	switch sa := a.def.Shape.(type) {
	case Circle:
		switch sb := b.def.Shape.(type) {
		case Circle:
			r := sa.Radius + sb.Radius
			d := a.position.Sub(b.position)
			return d.Dot(d) <= r*r
		case Box:
			return circleBox(a.position, sa, b.position, sb)
		}
	case Box:
		switch sb := b.def.Shape.(type) {
		case Circle:
			return circleBox(b.position, sb, a.position, sa)
		case Box:
			ra := Rect{X: a.position.X() - sa.Width/2, Y: a.position.Y() - sa.Height/2, Width: sa.Width, Height: sa.Height}
			rb := Rect{X: b.position.X() - sb.Width/2, Y: b.position.Y() - sb.Height/2, Width: sb.Width, Height: sb.Height}
			return ra.Intersects(rb)
		}
	}
	return false
}

func circleBox(cp mgl64.Vec2, c Circle, bp mgl64.Vec2, b Box) bool {
	nx := mgl64.Clamp(cp.X(), bp.X()-b.Width/2, bp.X()+b.Width/2)
	ny := mgl64.Clamp(cp.Y(), bp.Y()-b.Height/2, bp.Y()+b.Height/2)
	dx, dy := cp.X()-nx, cp.Y()-ny
	return dx*dx+dy*dy <= c.Radius*c.Radius
}
