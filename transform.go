package grove

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is the spatial component: local position, rotation and scale.
// A node has at most one. World matrices are recomputed from the current
// local fields and parent chain on every query.
//
// Composition order:
//
//	world = parentWorld * Translate(Position) * Rotation * Scale(Scale)
type Transform struct {
	ComponentBase

	Position mgl32.Vec3
	Rotation mgl32.Mat4
	Scale    mgl32.Vec3
}

// NewTransform creates an identity transform.
func NewTransform() *Transform {
	return &Transform{
		ComponentBase: NewComponentBase("Transform"),
		Rotation:      mgl32.Ident4(),
		Scale:         mgl32.Vec3{1, 1, 1},
	}
}

// NewTransformAt creates a transform translated to position.
func NewTransformAt(position mgl32.Vec3) *Transform {
	t := NewTransform()
	t.Position = position
	return t
}

// Init rejects a second Transform on the same node.
func (t *Transform) Init(n *Node, ctx *Context) error {
	if err := t.live(); err != nil {
		return err
	}
	if first, _ := FindComponent[*Transform](n); first != t {
		return fmt.Errorf("grove: node %q has more than one Transform", n.Name)
	}
	return nil
}

// Clone implements Component.
func (t *Transform) Clone() Component {
	c := &Transform{}
	mustCopyState(c, t)
	return c
}

// Attached reports whether the transform is attached to a live node, which is
// required for the parent chain to take part in WorldMatrix.
func (t *Transform) Attached() bool {
	return t.OwnerNode() != nil
}

// LocalMatrix returns Translate(Position) * Rotation * Scale(Scale).
func (t *Transform) LocalMatrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	sc := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return tr.Mul4(t.Rotation).Mul4(sc)
}

// ParentMatrix returns the world matrix of the nearest ancestor that has a
// Transform, or identity for roots and detached transforms.
func (t *Transform) ParentMatrix() mgl32.Mat4 {
	n := t.OwnerNode()
	if n == nil {
		return mgl32.Ident4()
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if pt, ok := FindComponent[*Transform](p); ok {
			return pt.WorldMatrix()
		}
	}
	return mgl32.Ident4()
}

// WorldMatrix returns ParentMatrix * LocalMatrix.
func (t *Transform) WorldMatrix() mgl32.Mat4 {
	return t.ParentMatrix().Mul4(t.LocalMatrix())
}

// RotationMatrix returns the current rotation state.
func (t *Transform) RotationMatrix() mgl32.Mat4 {
	return t.Rotation
}

// DeltaRotate composes a relative rotation onto the current rotation. delta
// holds angles in radians about the parent-frame X, Y and Z axes:
//
//	Rotation = RotX(delta.x) * RotY(delta.y) * RotZ(delta.z) * Rotation
func (t *Transform) DeltaRotate(delta mgl32.Vec3) {
	if delta == (mgl32.Vec3{}) {
		return
	}
	d := mgl32.HomogRotate3DX(delta.X()).
		Mul4(mgl32.HomogRotate3DY(delta.Y())).
		Mul4(mgl32.HomogRotate3DZ(delta.Z()))
	t.Rotation = d.Mul4(t.Rotation)
}

// Rotate composes a rotation of angle radians about a local-frame axis.
func (t *Transform) Rotate(axis mgl32.Vec3, angle float32) {
	if axis.Len() == 0 {
		return
	}
	t.Rotation = t.Rotation.Mul4(mgl32.HomogRotate3D(angle, axis.Normalize()))
}

// LookAt orients the transform so its -Z axis points from Position toward
// target.
func (t *Transform) LookAt(target, up mgl32.Vec3) {
	if target.ApproxEqual(t.Position) {
		return
	}
	view := mgl32.LookAtV(t.Position, target, up)
	t.Rotation = view.Mat3().Transpose().Mat4()
}

// LocalToWorld converts a point in this transform's local space to world space.
func (t *Transform) LocalToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return t.WorldMatrix().Mul4x1(p.Vec4(1)).Vec3()
}

// WorldToLocal converts a world-space point into this transform's local space.
// Returns p unchanged if the world matrix is singular.
func (t *Transform) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	w := t.WorldMatrix()
	if det := w.Det(); det > -1e-12 && det < 1e-12 {
		return p
	}
	return w.Inv().Mul4x1(p.Vec4(1)).Vec3()
}

// Inspect implements Inspectable.
func (t *Transform) Inspect(ins Inspector) {
	t.ComponentBase.Inspect(ins)
	ins.Vec3("Position", &t.Position)
	ins.Vec3("Scale", &t.Scale)
}

// WorldMatrix returns the world matrix of n's Transform, or identity if n has
// none.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if t, ok := FindComponent[*Transform](n); ok {
		return t.WorldMatrix()
	}
	return mgl32.Ident4()
}
