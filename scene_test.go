package grove

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// tracer records every lifecycle call into a shared log.
type tracer struct {
	ComponentBase
	Label string
	log   *[]string
	fail  error
}

func newTracer(label string, log *[]string) *tracer {
	return &tracer{ComponentBase: NewComponentBase("Tracer"), Label: label, log: log}
}

func (p *tracer) Init(n *Node, ctx *Context) error {
	*p.log = append(*p.log, "init "+p.Label)
	return p.fail
}

func (p *tracer) Update(n *Node, ctx *Context) error {
	*p.log = append(*p.log, "update "+p.Label)
	return nil
}

func (p *tracer) Render(n *Node, ctx *Context) error {
	*p.log = append(*p.log, "render "+p.Label)
	return nil
}

func (p *tracer) Clone() Component {
	c := &tracer{log: p.log}
	mustCopyState(c, p)
	return c
}

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("log = %v\nwant  %v", got, want)
	}
}

func TestSceneLifecycleOrder(t *testing.T) {
	var log []string
	s := NewScene()
	a := s.NewNode("a").AttachComponent(newTracer("a1", &log)).AttachComponent(newTracer("a2", &log))
	b := s.NewNode("b").AttachComponent(newTracer("b", &log))
	a.AttachChild(b)
	s.Instantiate(a)
	s.Instantiate(s.NewNode("c").AttachComponent(newTracer("c", &log)))

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Step(NewRecorder()); err != nil {
		t.Fatal(err)
	}
	assertLog(t, log,
		"init a1", "init a2", "init b", "init c",
		"update a1", "update a2", "update b", "update c",
		"render a1", "render a2", "render b", "render c")
}

func TestSceneInitOnce(t *testing.T) {
	var log []string
	s := NewScene()
	s.Instantiate(s.NewNode("n").AttachComponent(newTracer("p", &log)))
	for i := 0; i < 3; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	assertLog(t, log, "init p", "update p", "update p", "update p")
}

func TestSceneMissingDependencyAbortsBeforeUpdate(t *testing.T) {
	var log []string
	s := NewScene()
	s.Instantiate(s.NewNode("first").AttachComponent(newTracer("first", &log)))
	s.Instantiate(s.NewNode("Cube").AttachComponent(NewRotation(1)))
	s.Instantiate(s.NewNode("last").AttachComponent(newTracer("last", &log)))

	err := s.Init()
	var missing *MissingDependencyError
	if !errors.As(err, &missing) || missing.Node != "Cube" {
		t.Fatalf("err = %v, want *MissingDependencyError for Cube", err)
	}
	assertLog(t, log, "init first")

	err = s.Step(NewRecorder())
	if !errors.As(err, &missing) {
		t.Fatalf("Step err = %v, want the same dependency error", err)
	}
	assertLog(t, log, "init first")
}

func TestSceneInitErrorIsWrapped(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	p := newTracer("p", &log)
	p.fail = boom
	s := NewScene()
	s.Instantiate(s.NewNode("n").AttachComponent(p))
	err := s.Init()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if p.State() != Uninitialized {
		t.Errorf("failed init should leave state uninitialized, got %v", p.State())
	}
}

func TestSceneInstantiateDuringUpdate(t *testing.T) {
	var log []string
	s := NewScene()
	s.Instantiate(s.NewNode("a").AttachComponent(newTracer("a", &log)))
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	s.Instantiate(s.NewNode("late").AttachComponent(newTracer("late", &log)))
	if err := s.Render(NewRecorder()); err != nil {
		t.Fatal(err)
	}
	// Not initialised yet: never rendered before Init.
	assertLog(t, log, "init a", "update a", "render a")

	log = log[:0]
	if err := s.Step(NewRecorder()); err != nil {
		t.Fatal(err)
	}
	assertLog(t, log, "init late", "update a", "update late", "render a", "render late")
}

func TestSceneInactiveSkipped(t *testing.T) {
	var log []string
	s := NewScene()
	parent := s.NewNode("parent").AttachComponent(newTracer("parent", &log))
	child := s.NewNode("child").AttachComponent(newTracer("child", &log))
	parent.AttachChild(child)
	s.Instantiate(parent)
	off := newTracer("off", &log)
	off.Active = false
	s.Instantiate(s.NewNode("other").AttachComponent(off))

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	parent.Active = false
	log = log[:0]
	if err := s.Step(NewRecorder()); err != nil {
		t.Fatal(err)
	}
	assertLog(t, log)
}

func TestSceneDeltaTime(t *testing.T) {
	s := NewScene()
	s.SetTPS(50)
	var dt float32
	s.Instantiate(s.NewNode("n").AttachComponent(&deltaReader{ComponentBase: NewComponentBase("Delta"), dt: &dt}))
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	assertNear(t, "dt", dt, 0.02)
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
}

type deltaReader struct {
	ComponentBase
	dt *float32
}

func (d *deltaReader) Update(n *Node, ctx *Context) error {
	*d.dt = ctx.DeltaTime
	return nil
}

func (d *deltaReader) Clone() Component { return &deltaReader{ComponentBase: NewComponentBase(d.Kind), dt: d.dt} }

// --- Events ---

type eventLog struct{ events []SceneEvent }

func (l *eventLog) EmitEvent(e SceneEvent) { l.events = append(l.events, e) }

func TestSceneEvents(t *testing.T) {
	store := &eventLog{}
	s := NewScene()
	s.SetEntityStore(store)
	n := s.NewNode("n").AttachComponent(NewTransform()).AttachComponent(NewRenderer(CubeModel("c"), NewMaterial(1, nil), DrawTriangles))
	s.Instantiate(n)
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := UpgradeRenderers(n); err != nil {
		t.Fatal(err)
	}
	cl, err := s.Clone(n)
	if err != nil {
		t.Fatal(err)
	}
	cl.Destroy()

	want := []struct {
		typ  EventType
		kind string
	}{
		{EventComponentInitialized, "Transform"},
		{EventComponentInitialized, "Renderer"},
		{EventComponentReplaced, "Renderer"},
		{EventNodeCloned, ""},
		{EventNodeDestroyed, ""},
	}
	if len(store.events) != len(want) {
		t.Fatalf("events = %+v", store.events)
	}
	for i, w := range want {
		if store.events[i].Type != w.typ || store.events[i].Kind != w.kind {
			t.Errorf("event %d = %+v, want %v %q", i, store.events[i], w.typ, w.kind)
		}
	}
	if store.events[3].Source != n.ID() || store.events[4].Node != cl.ID() {
		t.Error("clone and destroy events should carry node handles")
	}
}

func TestSceneCurrentCamera(t *testing.T) {
	s := NewScene()
	if s.CurrentCamera() != nil {
		t.Error("new scene should have no camera")
	}
	_, cam := NewCameraNode(s.Graph(), mgl32.Vec3{0, 0, 1}, mgl32.Vec3{}, Perspective{Fovy: 1, Aspect: 1, Near: 0.1, Far: 10})
	s.SetCurrentCamera(cam)
	if s.CurrentCamera() != cam {
		t.Error("CurrentCamera should return the designated camera")
	}
}

func TestSceneRenderNeedsDevice(t *testing.T) {
	s, _, prog := renderScene(t)
	s.Instantiate(NewCube(s.Graph(), NewTransform(), nil, prog))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(nil); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Render(nil) = %v, want ErrNoDevice", err)
	}
}
