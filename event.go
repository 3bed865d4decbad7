package repeater

// Event is the payload of every emission. Any struct that embeds NodeEvent
// satisfies it:
//
//	type HitEvent struct {
//		repeater.NodeEvent
//		Damage int
//	}
type Event interface {
	nodeEvent() *NodeEvent
}

// NodeEvent carries the propagation state shared by all payloads.
type NodeEvent struct {
	// Type is the event name the payload was first emitted under.
	Type string
	// Target is the node the event was first emitted on. Propagation through
	// EmitUp and EmitDown does not overwrite it.
	Target *Node

	StoppedPropagation          bool
	StoppedImmediatePropagation bool
}

func (e *NodeEvent) nodeEvent() *NodeEvent { return e }

// StopPropagation prevents EmitUp and EmitDown from continuing past the
// node currently dispatching the event.
func (e *NodeEvent) StopPropagation() {
	e.StoppedPropagation = true
}

// StopImmediatePropagation also skips the remaining listeners on the
// current node.
func (e *NodeEvent) StopImmediatePropagation() {
	e.StoppedPropagation = true
	e.StoppedImmediatePropagation = true
}

// NewEvent returns a bare event, for emissions that carry no payload.
func NewEvent() *NodeEvent {
	return &NodeEvent{}
}

// UpdateEvent is emitted down the tree once per variable-rate tick.
type UpdateEvent struct {
	NodeEvent
	Time  float64
	Delta float64
}

// FixedUpdateEvent is emitted down the tree once per fixed-rate tick.
type FixedUpdateEvent struct {
	NodeEvent
	Time float64
}

// ParentChangedEvent is emitted on a node after its parent changed.
type ParentChangedEvent struct {
	NodeEvent
	Parent   *Node
	Previous *Node
}

// AddEvent is emitted upward from a node right after it joined a parent.
type AddEvent struct {
	NodeEvent
	Child  *Node
	Parent *Node
}

// SetEvent is emitted as "set(<Field>)" before a watched field changes.
type SetEvent struct {
	NodeEvent
	Field    string
	Value    any
	Previous any
}

// SetEventName returns the name under which changes to field are emitted.
func SetEventName(field string) string {
	return "set(" + field + ")"
}
