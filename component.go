package grove

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// LifecycleState tracks where a component is in its init/update/render life.
type LifecycleState uint8

const (
	// Uninitialized components may be looked up but are never updated or rendered.
	Uninitialized LifecycleState = iota
	// Initialized components take part in update and render passes.
	Initialized
	// Retired components were replaced or detached and refuse lifecycle calls.
	Retired
)

func (s LifecycleState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Retired:
		return "retired"
	default:
		return "unknown"
	}
}

// Component is a behavior unit bound to exactly one Node. Implementations
// embed ComponentBase, which supplies identity, lifecycle bookkeeping and
// no-op hooks, and implement Clone to return an independent copy of their own
// concrete type.
type Component interface {
	// AsComponentBase returns the embedded ComponentBase.
	AsComponentBase() *ComponentBase

	// Init is called once after the component is attached to a node in a
	// scene, before any Update or Render. Hard dependencies on sibling
	// components are resolved here.
	Init(n *Node, ctx *Context) error

	// Update is called once per simulation step.
	Update(n *Node, ctx *Context) error

	// Render is called once per frame after every Update of that frame.
	Render(n *Node, ctx *Context) error

	// Clone returns a copy with the same concrete type. Owned state is deep
	// copied, shared GPU resources are shared by reference.
	Clone() Component
}

// Rebinder is implemented by components that cache references to sibling
// components. CloneNode calls Rebind on each cloned component once all of the
// clone's components are attached, so caches point at the clone's siblings.
type Rebinder interface {
	Rebind(n *Node)
}

// ComponentBase is embedded by every component.
type ComponentBase struct {
	// Kind is the stable category name, e.g. "Transform" or "Renderer".
	Kind string
	// Active components take part in update and render passes.
	Active bool

	state LifecycleState
	owner NodeID
	graph *Graph
}

// NewComponentBase returns an active, uninitialized base of the given kind.
func NewComponentBase(kind string) ComponentBase {
	return ComponentBase{Kind: kind, Active: true}
}

// AsComponentBase implements Component.
func (b *ComponentBase) AsComponentBase() *ComponentBase { return b }

// State returns the lifecycle state.
func (b *ComponentBase) State() LifecycleState { return b.state }

// Owner returns the handle of the node this component is attached to, or the
// zero NodeID when detached.
func (b *ComponentBase) Owner() NodeID { return b.owner }

// OwnerNode resolves the owning node, or returns nil when detached.
func (b *ComponentBase) OwnerNode() *Node {
	if b.graph == nil {
		return nil
	}
	return b.graph.Node(b.owner)
}

// Init is a placeholder implementation of [Component.Init] that does nothing.
func (b *ComponentBase) Init(n *Node, ctx *Context) error { return nil }

// Update is a placeholder implementation of [Component.Update] that does nothing.
func (b *ComponentBase) Update(n *Node, ctx *Context) error { return nil }

// Render is a placeholder implementation of [Component.Render] that does nothing.
func (b *ComponentBase) Render(n *Node, ctx *Context) error { return nil }

// Inspect exposes the base fields. Components that override Inspect should
// call it first.
func (b *ComponentBase) Inspect(ins Inspector) {
	ins.Text("Kind", b.Kind)
	ins.Bool("Active", &b.Active)
}

func (b *ComponentBase) String() string {
	return fmt.Sprintf("%s(%s)", b.Kind, b.state)
}

// live returns ErrRetired for an instance that was replaced or detached.
func (b *ComponentBase) live() error {
	if b.state == Retired {
		return ErrRetired
	}
	return nil
}

// detach resets the bookkeeping that ties an instance to a node.
func (b *ComponentBase) detach() {
	b.owner = NoNode
	b.graph = nil
	b.state = Retired
}

// reset clears the bookkeeping of a freshly copied instance.
func (b *ComponentBase) reset() {
	b.owner = NoNode
	b.graph = nil
	b.state = Uninitialized
}

// adopt transfers slot ownership and lifecycle state from a replaced instance.
func (b *ComponentBase) adopt(from *ComponentBase) {
	b.owner = from.owner
	b.graph = from.graph
	b.state = from.state
}

// --- Introspection ---

// Inspector receives editable fields from components. Tooling implements it;
// nothing in the simulation depends on it.
type Inspector interface {
	Float(label string, v *float32)
	Vec3(label string, v *mgl32.Vec3)
	Bool(label string, v *bool)
	Text(label, value string)
}

// Inspectable is the optional introspection hook.
type Inspectable interface {
	Inspect(ins Inspector)
}

// Field is one entry collected by FieldRecorder.
type Field struct {
	Label string
	Value any
}

// FieldRecorder is an Inspector that records a snapshot of every field it is
// shown. It never writes through the pointers it receives.
type FieldRecorder struct {
	Fields []Field
}

func (r *FieldRecorder) Float(label string, v *float32)   { r.add(label, *v) }
func (r *FieldRecorder) Vec3(label string, v *mgl32.Vec3) { r.add(label, *v) }
func (r *FieldRecorder) Bool(label string, v *bool)       { r.add(label, *v) }
func (r *FieldRecorder) Text(label, value string)         { r.add(label, value) }

func (r *FieldRecorder) add(label string, v any) {
	r.Fields = append(r.Fields, Field{Label: label, Value: v})
}

// Lookup returns the recorded value for label.
func (r *FieldRecorder) Lookup(label string) (any, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return nil, false
}

// InspectNode runs the introspection hook of every component on n.
func InspectNode(n *Node, ins Inspector) {
	ins.Text("Node", n.Name)
	ins.Bool("Active", &n.Active)
	for _, c := range n.components {
		if in, ok := c.(Inspectable); ok {
			in.Inspect(ins)
		}
	}
}

// --- Frame context ---

// Context carries the frame driver's state into lifecycle calls.
type Context struct {
	Scene     *Scene
	Input     AxisSource
	Device    Device  // nil outside the render pass
	Camera    *Camera // the scene's current camera, may be nil
	DeltaTime float32 // seconds per update step
	Frame     uint64
}

// Axis reads a labelled input axis, or 0 when no input is attached.
func (c *Context) Axis(label string) float32 {
	if c == nil || c.Input == nil {
		return 0
	}
	return c.Input.Axis(label)
}
