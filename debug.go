package grove

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-pass timing and draw-call metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	initTime   time.Duration
	updateTime time.Duration
	renderTime time.Duration
	components int
	drawCalls  int
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(pass string, stats debugStats) {
	if !s.debug {
		return
	}
	switch pass {
	case "update":
		_, _ = fmt.Fprintf(os.Stderr,
			"[grove] frame %d init: %v | update: %v | components: %d\n",
			s.frame, stats.initTime, stats.updateTime, stats.components)
	default:
		_, _ = fmt.Fprintf(os.Stderr,
			"[grove] frame %d render: %v | components: %d | draw calls: %d\n",
			s.frame, stats.renderTime, stats.components, stats.drawCalls)
	}
}

// debugf prints a diagnostic line in debug mode. Safe on a nil Scene.
func (s *Scene) debugf(format string, args ...any) {
	if s == nil || !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[grove] "+format+"\n", args...)
}

// debugCheckDestroyed panics with a descriptive message when a destroyed node
// is used in a tree operation. In release mode callers skip this entirely.
func debugCheckDestroyed(n *Node, op string) {
	if n.destroyed {
		panic(fmt.Sprintf("grove debug: %s on destroyed node %q (ID was %s)", op, n.Name, n.id))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent() {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// countingDevice wraps a Device and counts draw calls.
type countingDevice struct {
	Device
	draws *int
}

func (d *countingDevice) DrawArrays(va VertexArray, mode DrawMode, first, count int) {
	*d.draws++
	d.Device.DrawArrays(va, mode, first, count)
}

func (d *countingDevice) SetViewport(v Viewport) {
	if vs, ok := d.Device.(ViewportSetter); ok {
		vs.SetViewport(v)
	}
}
