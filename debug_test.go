package grove

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.String()
	}()
	fn()
	w.Close()
	os.Stderr = oldStderr
	return <-done
}

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_DestroyedNodePanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := s.NewNode("parent")
	s.Root().AttachChild(parent)

	child := s.NewNode("child")
	child.Destroy()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on AttachChild with destroyed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "destroyed") {
			t.Errorf("panic message should mention 'destroyed', got: %s", msg)
		}
	}()

	parent.AttachChild(child)
}

func TestDebugMode_DestroyedOwnerPanics(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	n := s.NewNode("gone")
	n.Destroy()

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on AttachComponent to destroyed node")
		}
	}()
	n.AttachComponent(NewTransform())
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		// Build a chain deeper than debugMaxTreeDepth (32).
		current := s.Root()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := s.NewNode(fmt.Sprintf("depth_%d", i))
			current.AttachChild(child)
			current = child
		}
	})

	if !strings.Contains(output, "[grove] warning: tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", output)
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	s := NewScene()
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		parent := s.NewNode("many_children")
		s.Root().AttachChild(parent)
		for i := 0; i < debugMaxChildCount+1; i++ {
			parent.AttachChild(s.NewNode(fmt.Sprintf("c_%d", i)))
		}
	})

	if !strings.Contains(output, "warning: node") || !strings.Contains(output, "children") {
		t.Errorf("expected child count warning in stderr, got: %q", output)
	}
}

func TestDebugMode_FrameStats(t *testing.T) {
	s, rec, prog := renderScene(t)
	s.Instantiate(NewCube(s.Graph(), NewTransform(), nil, prog))
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		if err := s.Step(rec); err != nil {
			t.Error(err)
		}
	})
	if !strings.Contains(output, "draw calls: 1") {
		t.Errorf("expected draw call count in stderr, got: %q", output)
	}
	if len(rec.Draws) != 1 {
		t.Errorf("counting device should forward draws, got %d", len(rec.Draws))
	}
}

func TestDebugMode_AllocationFailureLogged(t *testing.T) {
	s, rec, prog := renderScene(t)
	rec.FailAllocation = fmt.Errorf("no vao")
	s.Instantiate(NewCube(s.Graph(), NewTransform(), nil, prog))
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		if err := s.Init(); err != nil {
			t.Error(err)
		}
		if err := s.Step(rec); err != nil {
			t.Error(err)
		}
	})
	if !strings.Contains(output, "no vao") {
		t.Errorf("expected allocation error in stderr, got: %q", output)
	}
}

func TestReleaseMode_Silent(t *testing.T) {
	s, rec, prog := renderScene(t)
	rec.FailAllocation = fmt.Errorf("no vao")
	s.Instantiate(NewCube(s.Graph(), NewTransform(), nil, prog))

	output := captureStderr(t, func() {
		if err := s.Init(); err != nil {
			t.Error(err)
		}
		if err := s.Step(rec); err != nil {
			t.Error(err)
		}
	})
	if output != "" {
		t.Errorf("release mode should not log, got: %q", output)
	}
}

func TestDebugfNilScene(t *testing.T) {
	var s *Scene
	s.debugf("ignored %d", 1)
}
