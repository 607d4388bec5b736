package grove

import (
	"errors"
	"strings"
	"testing"
)

// marker is a minimal component used to exercise lookups.
type marker struct {
	ComponentBase
	Label string
}

func newMarker(label string) *marker {
	return &marker{ComponentBase: NewComponentBase("Marker"), Label: label}
}

func (m *marker) Clone() Component {
	c := &marker{}
	mustCopyState(c, m)
	return c
}

// labeled is satisfied by marker and lets lookups go through an interface.
type labeled interface {
	Component
	label() string
}

func (m *marker) label() string { return m.Label }

func TestGetComponent(t *testing.T) {
	g := NewGraph()
	tr := NewTransform()
	n := g.NewNode("n").AttachComponent(tr).AttachComponent(newMarker("a"))

	got, err := GetComponent[*Transform](n)
	if err != nil || got != tr {
		t.Fatalf("GetComponent = %v, %v", got, err)
	}
}

func TestGetComponentFirstInOrder(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n").AttachComponent(newMarker("first")).AttachComponent(newMarker("second"))

	m, err := GetComponent[*marker](n)
	if err != nil || m.Label != "first" {
		t.Errorf("GetComponent returned %v, %v; want first", m, err)
	}
	if all := ComponentsOf[*marker](n); len(all) != 2 || all[1].Label != "second" {
		t.Errorf("ComponentsOf = %v", all)
	}
}

func TestGetComponentByInterface(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n").AttachComponent(NewTransform()).AttachComponent(newMarker("x"))

	l, err := GetComponent[labeled](n)
	if err != nil || l.label() != "x" {
		t.Errorf("interface lookup = %v, %v", l, err)
	}
}

func TestGetComponentMissing(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("Lonely").AttachComponent(newMarker("a"))

	_, err := GetComponent[*Transform](n)
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingDependencyError", err)
	}
	if missing.Node != "Lonely" {
		t.Errorf("Node = %q, want Lonely", missing.Node)
	}
	if !strings.Contains(err.Error(), "Lonely") || !strings.Contains(err.Error(), "Transform") {
		t.Errorf("message should name node and type: %v", err)
	}
}

func TestRequireNamesDependent(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n")
	_, err := Require[*Transform](n, "Rotation")
	var missing *MissingDependencyError
	if !errors.As(err, &missing) || missing.Required != "Rotation" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), "Rotation requires") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestFindAndHasComponent(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n").AttachComponent(NewTransform())
	if !HasComponent[*Transform](n) {
		t.Error("HasComponent should find Transform")
	}
	if HasComponent[*Rotation](n) {
		t.Error("HasComponent should not find Rotation")
	}
	if _, ok := FindComponent[*Rotation](n); ok {
		t.Error("FindComponent should report false")
	}
}

// --- Replacement ---

func TestReplaceComponentsKeepsPosition(t *testing.T) {
	g := NewGraph()
	a := newMarker("a")
	tr := NewTransform()
	b := newMarker("b")
	n := g.NewNode("n").AttachComponent(a).AttachComponent(tr).AttachComponent(b)
	a.state = Initialized

	k, err := ReplaceComponents(n, func(m *marker) (Component, error) {
		return newMarker(strings.ToUpper(m.Label)), nil
	})
	if err != nil || k != 2 {
		t.Fatalf("ReplaceComponents = %d, %v; want 2, nil", k, err)
	}
	if n.NumComponents() != 3 {
		t.Fatalf("NumComponents = %d, want 3", n.NumComponents())
	}
	first := n.ComponentAt(0).(*marker)
	if first.Label != "A" || n.ComponentAt(1) != Component(tr) || n.ComponentAt(2).(*marker).Label != "B" {
		t.Error("replacements should keep list positions")
	}
	if first.Owner() != n.ID() || first.State() != Initialized {
		t.Errorf("replacement should adopt owner and state, got %v owned by %v", first.State(), first.Owner())
	}
	if a.State() != Retired || a.OwnerNode() != nil {
		t.Error("replaced instance should be retired and ownerless")
	}
	if _, err := GetComponent[*marker](n); err != nil {
		t.Errorf("lookup after replace: %v", err)
	}
}

func TestReplaceComponentsKeepOld(t *testing.T) {
	g := NewGraph()
	a := newMarker("a")
	n := g.NewNode("n").AttachComponent(a)
	k, err := ReplaceComponents(n, func(m *marker) (Component, error) { return m, nil })
	if err != nil || k != 0 {
		t.Fatalf("ReplaceComponents = %d, %v; want 0, nil", k, err)
	}
	if n.ComponentAt(0) != Component(a) || a.State() == Retired {
		t.Error("returning the old instance should leave the slot untouched")
	}
}

func TestReplaceComponentsErrors(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n").AttachComponent(newMarker("a")).AttachComponent(newMarker("b"))

	boom := errors.New("boom")
	calls := 0
	k, err := ReplaceComponents(n, func(m *marker) (Component, error) {
		calls++
		return nil, boom
	})
	if !errors.Is(err, boom) || k != 0 || calls != 1 {
		t.Errorf("got k=%d calls=%d err=%v", k, calls, err)
	}

	_, err = ReplaceComponents(n, func(m *marker) (Component, error) { return nil, nil })
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("nil replacement err = %v, want *TypeMismatchError", err)
	}

	owned := newMarker("owned")
	g.NewNode("other").AttachComponent(owned)
	if _, err := ReplaceComponents(n, func(m *marker) (Component, error) { return owned, nil }); err == nil {
		t.Error("expected error for an already attached replacement")
	}
}

func TestReplaceComponentAtTypeMismatch(t *testing.T) {
	g := NewGraph()
	n := g.NewNode("n").AttachComponent(NewTransform())
	err := ReplaceComponentAt(n, 0, func(m *marker) (Component, error) { return newMarker("x"), nil })
	var mismatch *TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *TypeMismatchError", err)
	}
	if !strings.Contains(mismatch.Got, "Transform") {
		t.Errorf("Got = %q", mismatch.Got)
	}
}

func TestRetiredRefusesLifecycle(t *testing.T) {
	g := NewGraph()
	rot := NewRotation(1)
	n := g.NewNode("n").AttachComponent(NewTransform()).AttachComponent(rot)
	if _, err := ReplaceComponents(n, func(r *Rotation) (Component, error) { return NewRotation(2), nil }); err != nil {
		t.Fatal(err)
	}
	if err := rot.Update(n, &Context{}); !errors.Is(err, ErrRetired) {
		t.Errorf("Update on retired = %v, want ErrRetired", err)
	}
}
