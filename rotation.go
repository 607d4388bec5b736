package grove

import "github.com/go-gl/mathgl/mgl32"

// Rotation turns its node's Transform by Speed times the "x" and "y" input
// axes every update. The axis delta is expressed in the object's frame and
// projected through the current rotation matrix before being applied, so
// input stays relative to what the object currently looks like.
type Rotation struct {
	ComponentBase

	// Speed is radians per update per unit of axis input.
	Speed float32

	// cached at Init so the lookup does not run every frame
	transform *Transform
}

// NewRotation creates a rotation behavior with the given speed.
func NewRotation(speed float32) *Rotation {
	return &Rotation{ComponentBase: NewComponentBase("Rotation"), Speed: speed}
}

// Init resolves the required Transform.
func (r *Rotation) Init(n *Node, ctx *Context) error {
	if err := r.live(); err != nil {
		return err
	}
	t, err := Require[*Transform](n, r.Kind)
	if err != nil {
		return err
	}
	r.transform = t
	return nil
}

// Rebind implements Rebinder.
func (r *Rotation) Rebind(n *Node) {
	r.transform, _ = FindComponent[*Transform](n)
}

// Transform returns the cached Transform, nil before Init.
func (r *Rotation) Transform() *Transform { return r.transform }

// Delta returns the parent-frame rotation delta for one update with axis
// input (x, y): RotationMatrix * (Speed*x, Speed*y, 0).
func (r *Rotation) Delta(x, y float32) mgl32.Vec3 {
	v := mgl32.Vec4{r.Speed * x, r.Speed * y, 0, 1}
	return r.transform.RotationMatrix().Mul4x1(v).Vec3()
}

// Update applies one step of input.
func (r *Rotation) Update(n *Node, ctx *Context) error {
	if err := r.live(); err != nil {
		return err
	}
	if r.transform == nil {
		return &MissingDependencyError{Node: n.Name, Want: "*grove.Transform", Required: r.Kind}
	}
	r.transform.DeltaRotate(r.Delta(ctx.Axis("x"), ctx.Axis("y")))
	return nil
}

// Clone implements Component. The Transform cache is cleared and is
// re-resolved by Rebind or Init against the clone's own node.
func (r *Rotation) Clone() Component {
	c := &Rotation{}
	mustCopyState(c, r)
	c.transform = nil
	return c
}

// Inspect implements Inspectable.
func (r *Rotation) Inspect(ins Inspector) {
	r.ComponentBase.Inspect(ins)
	ins.Float("Speed", &r.Speed)
}
