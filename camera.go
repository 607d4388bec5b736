package grove

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective holds the projection parameters of a Camera.
type Perspective struct {
	Fovy   float32 // vertical field of view in radians
	Aspect float32 // width / height, refreshed from the viewport by the driver
	Near   float32
	Far    float32
}

// Matrix returns the projection matrix.
func (p Perspective) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.Fovy, p.Aspect, p.Near, p.Far)
}

// Camera views the scene from its node's Transform. The scene's current
// camera is bound by every renderer at render time.
type Camera struct {
	ComponentBase

	Viewport    Viewport
	Perspective Perspective

	transform *Transform
}

// NewCamera creates a camera component.
func NewCamera(viewport Viewport, perspective Perspective) *Camera {
	return &Camera{
		ComponentBase: NewComponentBase("Camera"),
		Viewport:      viewport,
		Perspective:   perspective,
	}
}

// NewCameraNode builds a node with a Transform at position looking at target
// and a full-screen camera, the usual way to add a camera to a scene.
func NewCameraNode(g *Graph, position, target mgl32.Vec3, perspective Perspective) (*Node, *Camera) {
	t := NewTransformAt(position)
	t.LookAt(target, mgl32.Vec3{0, 1, 0})
	cam := NewCamera(FullViewport, perspective)
	n := g.NewNode("Camera").AttachComponent(t).AttachComponent(cam)
	return n, cam
}

// Init resolves the required Transform.
func (c *Camera) Init(n *Node, ctx *Context) error {
	if err := c.live(); err != nil {
		return err
	}
	t, err := Require[*Transform](n, c.Kind)
	if err != nil {
		return err
	}
	c.transform = t
	return nil
}

// Rebind implements Rebinder.
func (c *Camera) Rebind(n *Node) {
	c.transform, _ = FindComponent[*Transform](n)
}

// Clone implements Component.
func (c *Camera) Clone() Component {
	cl := &Camera{}
	mustCopyState(cl, c)
	cl.transform = nil
	return cl
}

// SetAspectFromScreen updates the projection aspect for a screen of the given
// pixel size, using the camera's viewport.
func (c *Camera) SetAspectFromScreen(screenW, screenH int) {
	_, _, w, h := c.Viewport.Pixels(screenW, screenH)
	if h > 0 {
		c.Perspective.Aspect = w / h
	}
}

// ViewMatrix is the inverse of the camera node's world matrix, or identity
// before Init.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	if c.transform == nil {
		return mgl32.Ident4()
	}
	w := c.transform.WorldMatrix()
	if det := w.Det(); det > -1e-12 && det < 1e-12 {
		return mgl32.Ident4()
	}
	return w.Inv()
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.Perspective.Matrix()
}

// ViewportSetter is implemented by devices that map clip space onto a
// sub-rectangle of their target.
type ViewportSetter interface {
	SetViewport(v Viewport)
}

// Bind sets u_view and u_projection on program p when it declares them, and
// hands the viewport to devices that accept one.
func (c *Camera) Bind(dev Device, p ShaderProgram) {
	if vs, ok := dev.(ViewportSetter); ok {
		vs.SetViewport(c.Viewport)
	}
	setUniformMat4(dev, p, UniformView, c.ViewMatrix())
	setUniformMat4(dev, p, UniformProjection, c.ProjectionMatrix())
}

// Inspect implements Inspectable.
func (c *Camera) Inspect(ins Inspector) {
	c.ComponentBase.Inspect(ins)
	ins.Float("Fovy", &c.Perspective.Fovy)
	ins.Float("Near", &c.Perspective.Near)
	ins.Float("Far", &c.Perspective.Far)
}
