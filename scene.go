package grove

import (
	"fmt"
	"time"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, lifecycle events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// EventType identifies a kind of scene lifecycle event.
type EventType uint8

const (
	EventComponentInitialized EventType = iota // a component finished Init
	EventComponentReplaced                     // a slot was swapped by ReplaceComponents
	EventNodeCloned                            // Scene.Clone produced a subtree copy
	EventNodeDestroyed                         // a node's arena slot was released
)

// SceneEvent carries lifecycle data for the ECS bridge.
type SceneEvent struct {
	Type     EventType
	Node     NodeID
	NodeName string
	Kind     string // component kind, empty for node events
	Source   NodeID // EventNodeCloned: the node that was cloned
	Frame    uint64
}

const defaultTPS = 60

// Scene is the frame driver. It owns the graph, the root node, the current
// camera and the input source, and walks the tree depth-first in attachment
// order: every pending component is initialised, then updated, then rendered.
// Any lifecycle error aborts the pass and is returned to the caller.
type Scene struct {
	graph  *Graph
	root   *Node
	camera *Camera
	input  AxisSource
	store  EntityStore
	debug  bool
	frame  uint64
	tps    int

	// Scripted input (inject.go, testrunner.go)
	injected    Axes
	injectQueue []syntheticAxisEvent
	testRunner  *TestRunner

	// Screenshots (screenshot.go), windowed driver only
	ScreenshotDir   string
	screenshotQueue []string
}

// NewScene creates a new scene with a pre-created root node.
func NewScene() *Scene {
	s := &Scene{
		graph:         NewGraph(),
		tps:           defaultTPS,
		injected:      Axes{},
		ScreenshotDir: "screenshots",
	}
	s.root = s.graph.NewNode("root")
	s.graph.onRelease = func(n *Node) {
		s.emit(SceneEvent{Type: EventNodeDestroyed, Node: n.id, NodeName: n.Name})
	}
	s.graph.onReplace = func(n *Node, old, replacement Component) {
		s.emit(SceneEvent{Type: EventComponentReplaced, Node: n.id, NodeName: n.Name, Kind: replacement.AsComponentBase().Kind})
	}
	return s
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node { return s.root }

// Graph returns the arena holding the scene's nodes.
func (s *Scene) Graph() *Graph { return s.graph }

// NewNode creates a detached node in the scene's graph.
func (s *Scene) NewNode(name string) *Node { return s.graph.NewNode(name) }

// Instantiate attaches n under the root. Its components are initialised at the
// start of the next Init or Update, never in the middle of a pass.
func (s *Scene) Instantiate(n *Node) *Node {
	s.root.AttachChild(n)
	return n
}

// Clone duplicates n (see CloneNode) and publishes EventNodeCloned.
func (s *Scene) Clone(n *Node) (*Node, error) {
	cl, err := CloneNode(n)
	if err != nil {
		return nil, err
	}
	s.emit(SceneEvent{Type: EventNodeCloned, Node: cl.id, NodeName: cl.Name, Source: n.id})
	return cl, nil
}

// SetCurrentCamera designates the camera bound by renderers. Pass nil to clear.
func (s *Scene) SetCurrentCamera(c *Camera) { s.camera = c }

// CurrentCamera returns the designated camera, or nil.
func (s *Scene) CurrentCamera() *Camera { return s.camera }

// SetInput sets the axis source read by behaviors.
func (s *Scene) SetInput(in AxisSource) { s.input = in }

// Input returns the axis source behaviors see, including injected axes.
func (s *Scene) Input() AxisSource {
	return layeredAxes{over: s.injected, base: s.input}
}

// SetTPS sets the number of updates per simulated second, which determines
// Context.DeltaTime.
func (s *Scene) SetTPS(tps int) {
	if tps <= 0 {
		tps = defaultTPS
	}
	s.tps = tps
}

// Frame returns the number of completed updates.
func (s *Scene) Frame() uint64 { return s.frame }

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) { s.store = store }

// SetDebugMode enables or disables debug mode. When enabled, destroyed-node
// access panics, tree depth and child count warnings are printed, and
// per-frame timing stats are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

func (s *Scene) emit(e SceneEvent) {
	if s.store == nil {
		return
	}
	e.Frame = s.frame
	s.store.EmitEvent(e)
}

func (s *Scene) context(dev Device) *Context {
	return &Context{
		Scene:     s,
		Input:     s.Input(),
		Device:    dev,
		Camera:    s.camera,
		DeltaTime: 1 / float32(s.tps),
		Frame:     s.frame,
	}
}

// --- Passes ---

// Init initialises every pending component in the tree. It stops at the first
// error, typically a *MissingDependencyError, which the caller should treat
// as fatal.
func (s *Scene) Init() error {
	return s.initTree(s.root, s.context(nil))
}

func (s *Scene) initTree(root *Node, ctx *Context) error {
	var err error
	root.walk(func(n *Node) bool {
		for i := 0; i < len(n.components); i++ {
			c := n.components[i]
			b := c.AsComponentBase()
			if b.state != Uninitialized {
				continue
			}
			if err = c.Init(n, ctx); err != nil {
				err = fmt.Errorf("init %s on %q: %w", b.Kind, n.Name, err)
				return false
			}
			b.state = Initialized
			s.emit(SceneEvent{Type: EventComponentInitialized, Node: n.id, NodeName: n.Name, Kind: b.Kind})
		}
		return true
	})
	return err
}

// Update advances scripted input, initialises pending components, then calls
// Update on every initialised, active component of every active node.
func (s *Scene) Update() error {
	var stats debugStats
	var t0 time.Time

	s.frame++
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	s.processInjectedInput()

	ctx := s.context(nil)
	if s.debug {
		t0 = time.Now()
	}
	if err := s.initTree(s.root, ctx); err != nil {
		return err
	}
	if s.debug {
		stats.initTime = time.Since(t0)
		t0 = time.Now()
	}
	err := s.lifecycle(s.root, ctx, &stats, func(c Component, n *Node) error {
		return c.Update(n, ctx)
	})
	if s.debug {
		stats.updateTime = time.Since(t0)
		s.debugLog("update", stats)
	}
	return err
}

// Render calls Render on every initialised, active component of every active
// node, passing dev as the resource layer. dev must not be nil.
func (s *Scene) Render(dev Device) error {
	var stats debugStats
	var t0 time.Time

	if dev == nil {
		return ErrNoDevice
	}
	if s.debug {
		dev = &countingDevice{Device: dev, draws: &stats.drawCalls}
		t0 = time.Now()
	}
	ctx := s.context(dev)
	err := s.lifecycle(s.root, ctx, &stats, func(c Component, n *Node) error {
		return c.Render(n, ctx)
	})
	if s.debug {
		stats.renderTime = time.Since(t0)
		s.debugLog("render", stats)
	}
	return err
}

// Step runs one Update followed by one Render.
func (s *Scene) Step(dev Device) error {
	if err := s.Update(); err != nil {
		return err
	}
	return s.Render(dev)
}

// lifecycle walks the active part of the tree and applies call to each
// initialised, active component in attachment order.
func (s *Scene) lifecycle(n *Node, ctx *Context, stats *debugStats, call func(Component, *Node) error) error {
	if !n.Active {
		return nil
	}
	for i := 0; i < len(n.components); i++ {
		c := n.components[i]
		b := c.AsComponentBase()
		if b.state != Initialized || !b.Active {
			continue
		}
		stats.components++
		if err := call(c, n); err != nil {
			return err
		}
	}
	for _, id := range n.children {
		child := s.graph.Node(id)
		if child == nil {
			continue
		}
		if err := s.lifecycle(child, ctx, stats, call); err != nil {
			return err
		}
	}
	return nil
}
