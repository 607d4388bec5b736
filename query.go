package grove

import "fmt"

// GetComponent returns the first component of n, in attachment order, whose
// dynamic type is T or implements T. It fails with *MissingDependencyError
// naming the node when there is none.
func GetComponent[T any](n *Node) (T, error) {
	if c, ok := FindComponent[T](n); ok {
		return c, nil
	}
	var zero T
	return zero, &MissingDependencyError{Node: n.Name, Want: typeNameOf[T]()}
}

// Require is GetComponent for a dependency declared by the component kind
// required; the error names both sides.
func Require[T any](n *Node, required string) (T, error) {
	c, err := GetComponent[T](n)
	if err != nil {
		err.(*MissingDependencyError).Required = required
	}
	return c, err
}

// FindComponent is the non-failing variant of GetComponent.
func FindComponent[T any](n *Node) (T, bool) {
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

// HasComponent reports whether n has a component of type T.
func HasComponent[T any](n *Node) bool {
	_, ok := FindComponent[T](n)
	return ok
}

// ComponentsOf returns every component of type T in attachment order.
func ComponentsOf[T any](n *Node) []T {
	var out []T
	for _, c := range n.components {
		if t, ok := c.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// ReplaceComponents replaces, in place, every component of type T on n with
// the instance returned by fn. The replacement takes over the slot position,
// owner and lifecycle state of the instance it replaces, which is retired.
// A replacement implementing Rebinder re-resolves its caches against n.
// Callers holding the old instance must re-resolve it. Returning the old
// instance from fn keeps the slot as it is. Returns the number of slots
// replaced; on error no further slots are visited.
func ReplaceComponents[T Component](n *Node, fn func(T) (Component, error)) (int, error) {
	replaced := 0
	for i, c := range n.components {
		old, ok := c.(T)
		if !ok {
			continue
		}
		ok, err := replaceSlot(n, i, old, fn)
		if err != nil {
			return replaced, err
		}
		if ok {
			replaced++
		}
	}
	return replaced, nil
}

// ReplaceComponentAt replaces the component in slot i, which must be of type T.
func ReplaceComponentAt[T Component](n *Node, i int, fn func(T) (Component, error)) error {
	c := n.components[i]
	old, ok := c.(T)
	if !ok {
		return &TypeMismatchError{Op: "replace component", Want: typeNameOf[T](), Got: typeName(c)}
	}
	_, err := replaceSlot(n, i, old, fn)
	return err
}

// replaceSlot swaps slot i for fn(old). Returning old itself from fn leaves
// the slot untouched and reports false.
func replaceSlot[T Component](n *Node, i int, old T, fn func(T) (Component, error)) (bool, error) {
	nc, err := fn(old)
	if err != nil {
		return false, err
	}
	if nc == nil {
		return false, &TypeMismatchError{Op: "replace component", Want: "a component", Got: "<nil>"}
	}
	if Component(old) == nc {
		return false, nil
	}
	nb := nc.AsComponentBase()
	if !nb.owner.IsZero() {
		return false, fmt.Errorf("grove: replacement %s is already attached to %v", nb.Kind, nb.owner)
	}
	ob := old.AsComponentBase()
	nb.adopt(ob)
	n.components[i] = nc
	ob.detach()
	if rb, ok := nc.(Rebinder); ok {
		rb.Rebind(n)
	}
	if h := n.graph.onReplace; h != nil {
		h(n, old, nc)
	}
	return true, nil
}
