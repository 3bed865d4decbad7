package repeater

// Component is a behavior object owned by exactly one node. Implement it by
// embedding BaseComponent:
//
//	type Spinner struct {
//		repeater.BaseComponent
//		Speed float64
//	}
//
//	func (s *Spinner) Connect(n *repeater.Node) {
//		s.On(repeater.EventUpdate, func(e repeater.Event) { ... })
//	}
type Component interface {
	// Node returns the owning node, or nil before the component is added.
	Node() *Node
	attach(n *Node)
}

// ComponentFactory builds a component for a node.
type ComponentFactory func(n *Node) Component

// Connector is implemented by components that wire listeners once they are
// attached to their node.
type Connector interface {
	Connect(n *Node)
}

// Destroyer is implemented by components with teardown work. OnDestroy runs
// from the node's destroy signal, before the node's registries are cleared.
type Destroyer interface {
	OnDestroy()
}

// BaseComponent holds the back-reference to the owning node. The reference
// is lookup-only: the node owns the component, not the reverse.
type BaseComponent struct {
	node *Node
}

// Node returns the owning node.
func (c *BaseComponent) Node() *Node {
	return c.node
}

func (c *BaseComponent) attach(n *Node) {
	c.node = n
}

// On listens to the owning node and stops listening when it is destroyed.
func (c *BaseComponent) On(name string, fn func(Event)) *Listener {
	return c.node.On(name, fn).Until(c.node.destroySignal)
}

// Once is the one-shot variant of On.
func (c *BaseComponent) Once(name string, fn func(Event)) *Listener {
	return c.node.Once(name, fn).Until(c.node.destroySignal)
}

// Handle is On with a Handler.
func (c *BaseComponent) Handle(name string, h Handler) *Listener {
	return c.node.Handle(name, h).Until(c.node.destroySignal)
}

// AddComponent attaches c to n, runs its Connect hook and schedules its
// OnDestroy hook. Panics if c already belongs to a node.
func (n *Node) AddComponent(c Component) Component {
	if c.Node() != nil {
		panic("repeater: component is already attached to a node")
	}
	if globalDebug {
		debugCheckDestroyed(n, "AddComponent")
	}
	c.attach(n)
	n.components = append(n.components, c)
	if conn, ok := c.(Connector); ok {
		conn.Connect(n)
	}
	if d, ok := c.(Destroyer); ok {
		n.destroySignal.Once(d.OnDestroy)
	}
	return c
}

// Components returns the attached components in attach order. The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) Components() []Component {
	return n.components
}

// GetComponent returns the first component of type T attached to n.
func GetComponent[T Component](n *Node) (T, bool) {
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// WithComponents returns a Props.Components entry adding the components
// built by factories.
func WithComponents(factories ...ComponentFactory) func(n *Node) {
	return func(n *Node) {
		for _, f := range factories {
			n.AddComponent(f(n))
		}
	}
}
