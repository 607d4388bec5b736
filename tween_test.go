package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func tweenScene(t *testing.T, tw *Tween) (*Scene, *Transform) {
	t.Helper()
	s := NewScene()
	s.SetTPS(10)
	tr := NewTransform()
	s.Instantiate(s.NewNode("n").AttachComponent(tr).AttachComponent(tw))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	return s, tr
}

func TestTweenPosition(t *testing.T) {
	tw := NewTween(TweenPosition, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, -10}, 1, nil)
	s, tr := tweenScene(t, tw)
	assertVec3(t, "start", tr.Position, mgl32.Vec3{})

	for i := 0; i < 5; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	assertVec3(t, "halfway", tr.Position, mgl32.Vec3{5, 0, -5})
	for i := 0; i < 10; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	assertVec3(t, "end", tr.Position, mgl32.Vec3{10, 0, -10})
	if !tw.Done {
		t.Error("tween should be done")
	}
}

func TestTweenScaleLoops(t *testing.T) {
	tw := NewTween(TweenScale, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2}, 0.5, nil)
	tw.Loop = true
	s, tr := tweenScene(t, tw)
	for i := 0; i < 12; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if tw.Done {
		t.Error("looping tween should never be done")
	}
	if tr.Scale.X() < 1 || tr.Scale.X() > 2 {
		t.Errorf("scale = %v, want within [1, 2]", tr.Scale)
	}
}

func TestTweenRequiresTransform(t *testing.T) {
	s := NewScene()
	s.Instantiate(s.NewNode("n").AttachComponent(NewTween(TweenPosition, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, 1, nil)))
	if err := s.Init(); err == nil {
		t.Fatal("expected missing dependency error")
	}
}

func TestTweenCloneRestarts(t *testing.T) {
	tw := NewTween(TweenPosition, mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 0.1, nil)
	s, _ := tweenScene(t, tw)
	for i := 0; i < 3; i++ {
		if err := s.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if !tw.Done {
		t.Fatal("tween should be done")
	}
	c := tw.Clone().(*Tween)
	if c.Done || c.Ease == nil || c.To != tw.To {
		t.Errorf("clone = %+v", c)
	}
}
