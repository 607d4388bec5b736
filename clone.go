package grove

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/copier"
)

// copyState deep-copies src into dst, which must be of the same concrete type.
// Fields tagged `copier:"-"` are left untouched; components use the tag for
// shared GPU resources and assign those by reference themselves. Copier also
// carries the embedded ComponentBase, so a component dst is reset to a
// detached, uninitialized base afterwards. Only adopt moves slot state between
// instances. Unexported caches are the caller's to clear.
func copyState(dst, src any) error {
	if reflect.TypeOf(dst) != reflect.TypeOf(src) {
		return &TypeMismatchError{Op: "copy state", Want: typeName(src), Got: typeName(dst)}
	}
	if err := copier.CopyWithOption(dst, src, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return fmt.Errorf("grove: copy %s: %w", typeName(src), err)
	}
	if c, ok := dst.(Component); ok {
		c.AsComponentBase().reset()
	}
	return nil
}

// mustCopyState is copyState for Clone implementations, whose signature has no
// error return. The only failure mode is a programming error in the component.
func mustCopyState(dst, src any) {
	if err := copyState(dst, src); err != nil {
		panic(err)
	}
}

// CloneComponent returns a detached, uninitialized copy of c with the same
// concrete type. A Clone implementation that returns another type is reported
// as *TypeMismatchError.
func CloneComponent(c Component) (Component, error) {
	if c == nil {
		return nil, &TypeMismatchError{Op: "clone component", Want: "a component", Got: "<nil>"}
	}
	cl := c.Clone()
	if cl == nil || reflect.TypeOf(cl) != reflect.TypeOf(c) {
		return nil, &TypeMismatchError{Op: "clone component", Want: typeName(c), Got: typeName(cl)}
	}
	if cl == c {
		return nil, fmt.Errorf("grove: %s.Clone returned the receiver", c.AsComponentBase().Kind)
	}
	b := cl.AsComponentBase()
	b.owner = NoNode
	b.graph = nil
	b.state = Uninitialized
	return cl, nil
}

// CloneNode duplicates n and its whole subtree inside n's graph. The clone is
// detached (no parent); its components are cloned in order and its children
// are cloned recursively. Cached sibling references are re-resolved against
// the clone through Rebinder.
func CloneNode(n *Node) (*Node, error) {
	if n.destroyed {
		return nil, fmt.Errorf("clone %s: %w", n, ErrDestroyed)
	}
	cl := n.graph.NewNode(n.Name)
	cl.Active = n.Active
	for _, c := range n.components {
		cc, err := CloneComponent(c)
		if err != nil {
			cl.Destroy()
			return nil, fmt.Errorf("clone %s: %w", n, err)
		}
		cl.AttachComponent(cc)
	}
	for _, c := range cl.components {
		if rb, ok := c.(Rebinder); ok {
			rb.Rebind(cl)
		}
	}
	for _, child := range n.Children() {
		cc, err := CloneNode(child)
		if err != nil {
			cl.Destroy()
			return nil, err
		}
		cl.AttachChild(cc)
	}
	return cl, nil
}
