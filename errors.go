package grove

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrRetired is returned when a lifecycle call reaches a component instance
// that was replaced by ReplaceComponents or detached from its node.
var ErrRetired = errors.New("grove: component instance is retired")

// ErrNoDevice is returned by Scene.Render when it is given a nil Device.
var ErrNoDevice = errors.New("grove: render needs a device")

// ErrDestroyed is returned when an operation targets a destroyed node.
var ErrDestroyed = errors.New("grove: node is destroyed")

// MissingDependencyError reports that a component required a sibling component
// of a given type and the owning node has none.
type MissingDependencyError struct {
	Node     string // owning node name
	Want     string // required component type
	Required string // kind of the component that declared the dependency, if any
}

func (e *MissingDependencyError) Error() string {
	if e.Required != "" {
		return fmt.Sprintf("grove: node %q has no %s which %s requires", e.Node, e.Want, e.Required)
	}
	return fmt.Sprintf("grove: node %q has no %s", e.Node, e.Want)
}

// NoActiveCameraError reports a render call that needs the scene's current
// camera when none is set.
type NoActiveCameraError struct {
	Node string
	Kind string
}

func (e *NoActiveCameraError) Error() string {
	return fmt.Sprintf("grove: %s on node %q: no current camera set", e.Kind, e.Node)
}

// TypeMismatchError reports a clone or upgrade whose instance has an
// unexpected dynamic type.
type TypeMismatchError struct {
	Op   string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("grove: %s: expected %s, got %s", e.Op, e.Want, e.Got)
}

// typeName returns a readable name for the dynamic type of v.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}

// typeNameOf returns a readable name for the static type parameter T.
func typeNameOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
