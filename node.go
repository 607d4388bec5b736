package grove

import "fmt"

// --- Arena ---

// NodeID is a stable handle to a node in a Graph. A handle goes stale when its
// node is destroyed; the slot's generation changes so a later node reusing the
// slot is never confused with the old one.
type NodeID struct {
	index uint32
	gen   uint32
}

// NoNode is the zero handle. It never resolves to a node.
var NoNode NodeID

// IsZero reports whether id is the zero handle.
func (id NodeID) IsZero() bool { return id.index == 0 }

func (id NodeID) String() string {
	if id.IsZero() {
		return "node(nil)"
	}
	return fmt.Sprintf("node(%d:%d)", id.index, id.gen)
}

type nodeSlot struct {
	gen  uint32
	node *Node
}

// Graph is the arena every Node lives in. Children are stored as handle lists
// and parents as plain handles, so no node keeps another alive.
type Graph struct {
	slots []nodeSlot // slot 0 is reserved so the zero NodeID is invalid
	free  []uint32
	live  int

	// Set by Scene to publish lifecycle events.
	onRelease func(n *Node)
	onReplace func(n *Node, old, replacement Component)
}

// NewGraph creates an empty arena.
func NewGraph() *Graph {
	return &Graph{slots: make([]nodeSlot, 1, 64)}
}

// NewNode creates an active, detached node named name. It is the only way to
// construct a node.
func (g *Graph) NewNode(name string) *Node {
	n := &Node{Name: name, Active: true, graph: g}
	var idx uint32
	if k := len(g.free); k > 0 {
		idx = g.free[k-1]
		g.free = g.free[:k-1]
	} else {
		g.slots = append(g.slots, nodeSlot{})
		idx = uint32(len(g.slots) - 1)
	}
	slot := &g.slots[idx]
	slot.gen++
	slot.node = n
	n.id = NodeID{index: idx, gen: slot.gen}
	g.live++
	return n
}

// Node resolves a handle. It returns nil for the zero handle and for handles
// whose node has been destroyed.
func (g *Graph) Node(id NodeID) *Node {
	if id.index == 0 || int(id.index) >= len(g.slots) {
		return nil
	}
	slot := g.slots[id.index]
	if slot.gen != id.gen {
		return nil
	}
	return slot.node
}

// Len returns the number of live nodes.
func (g *Graph) Len() int { return g.live }

func (g *Graph) release(n *Node) {
	slot := &g.slots[n.id.index]
	if slot.node != n {
		return
	}
	if g.onRelease != nil {
		g.onRelease(n)
	}
	slot.node = nil
	slot.gen++
	g.free = append(g.free, n.id.index)
	g.live--
}

// --- Node ---

// Node is a named point in the scene graph. It owns an ordered list of
// components and an ordered list of children.
type Node struct {
	// Name is the display name used in diagnostics.
	Name string
	// Active nodes take part in update and render, together with their subtree.
	Active bool

	id         NodeID
	graph      *Graph
	parent     NodeID
	children   []NodeID
	components []Component
	destroyed  bool
}

// ID returns the node's handle.
func (n *Node) ID() NodeID { return n.id }

// Graph returns the arena the node lives in.
func (n *Node) Graph() *Graph { return n.graph }

func (n *Node) String() string { return fmt.Sprintf("Node(%s)", n.Name) }

// --- Components ---

// AttachComponent appends c to the component list and returns n.
// Panics if c is nil or already attached to another node.
func (n *Node) AttachComponent(c Component) *Node {
	if c == nil {
		panic("grove: cannot attach nil component")
	}
	if globalDebug {
		debugCheckDestroyed(n, "AttachComponent")
	}
	b := c.AsComponentBase()
	if !b.owner.IsZero() {
		panic(fmt.Sprintf("grove: %s component is already attached to %v", b.Kind, b.owner))
	}
	if b.state == Retired {
		b.state = Uninitialized
	}
	b.owner = n.id
	b.graph = n.graph
	n.components = append(n.components, c)
	return n
}

// DetachComponent removes c from the component list. The instance is retired.
// Returns false if c is not attached to n.
func (n *Node) DetachComponent(c Component) bool {
	for i, cc := range n.components {
		if cc == c {
			copy(n.components[i:], n.components[i+1:])
			n.components[len(n.components)-1] = nil
			n.components = n.components[:len(n.components)-1]
			c.AsComponentBase().detach()
			return true
		}
	}
	return false
}

// Components returns the component list in attachment order. The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) Components() []Component {
	return n.components
}

// NumComponents returns the number of attached components.
func (n *Node) NumComponents() int {
	return len(n.components)
}

// ComponentAt returns the component in slot i.
func (n *Node) ComponentAt(i int) Component {
	return n.components[i]
}

// --- Tree manipulation ---

// AttachChild appends child to this node's children and returns n.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil, belongs to another graph, or is an ancestor of n.
func (n *Node) AttachChild(child *Node) *Node {
	if child == nil {
		panic("grove: cannot attach nil child")
	}
	if globalDebug {
		debugCheckDestroyed(n, "AttachChild (parent)")
		debugCheckDestroyed(child, "AttachChild (child)")
	}
	if child.graph != n.graph {
		panic("grove: child belongs to a different graph")
	}
	if isAncestor(child, n) {
		panic("grove: attaching child would create a cycle")
	}
	if p := child.Parent(); p != nil {
		p.removeChildByID(child.id)
	}
	child.parent = n.id
	n.children = append(n.children, child.id)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	return n
}

// RemoveChild detaches child from this node. The child stays alive in the
// graph until destroyed.
// Panics if child's parent is not n.
func (n *Node) RemoveChild(child *Node) {
	if child.parent != n.id {
		panic("grove: child's parent is not this node")
	}
	n.removeChildByID(child.id)
	child.parent = NoNode
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// Parent returns the parent node, or nil for a root or detached node.
func (n *Node) Parent() *Node {
	if n.parent.IsZero() {
		return nil
	}
	return n.graph.Node(n.parent)
}

// Children returns the child nodes in attachment order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		if c := n.graph.Node(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.graph.Node(n.children[index])
}

// FindChild returns the first descendant (pre-order) named name, or nil.
func (n *Node) FindChild(name string) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if c != n && c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// ForEach visits n and every descendant depth-first, pre-order, children in
// attachment order.
func (n *Node) ForEach(fn func(*Node)) {
	n.walk(func(c *Node) bool {
		fn(c)
		return true
	})
}

// walk is ForEach with early exit: returning false stops the traversal.
func (n *Node) walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, id := range n.children {
		c := n.graph.Node(id)
		if c == nil {
			continue
		}
		if !c.walk(fn) {
			return false
		}
	}
	return true
}

// --- Destruction ---

// Destroy removes this node from its parent, retires its components, and
// releases the arena slots of the node and all descendants.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.RemoveFromParent()
	n.destroy()
}

func (n *Node) destroy() {
	for _, id := range n.children {
		if c := n.graph.Node(id); c != nil {
			c.parent = NoNode
			c.destroy()
		}
	}
	for _, c := range n.components {
		c.AsComponentBase().detach()
	}
	n.graph.release(n)
	n.children = nil
	n.components = nil
	n.parent = NoNode
	n.destroyed = true
}

// IsDestroyed returns true if this node has been destroyed.
func (n *Node) IsDestroyed() bool {
	return n.destroyed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent() {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByID removes id from n.children without clearing the child's
// parent handle.
func (n *Node) removeChildByID(id NodeID) {
	for i, c := range n.children {
		if c == id {
			copy(n.children[i:], n.children[i+1:])
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
