package grove

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer draws a Model with a Material at its node's world transform.
//
// A renderer whose Material carries a MaterialExtra additionally binds the
// tint override: u_has_color is set to 1 and u_color to the tint when the tint
// is enabled, u_has_color to 0 when it is NoTint.
type Renderer struct {
	ComponentBase

	Mode DrawMode

	// Model is shared by reference, never copied.
	Model *Model `copier:"-"`
	// Material is shared by reference unless it is extended, in which case
	// each renderer owns its copy.
	Material *Material `copier:"-"`
}

// NewRenderer creates a renderer. Panics if model or material is nil.
func NewRenderer(model *Model, material *Material, mode DrawMode) *Renderer {
	if model == nil || material == nil {
		panic("grove: renderer needs a model and a material")
	}
	return &Renderer{
		ComponentBase: NewComponentBase("Renderer"),
		Mode:          mode,
		Model:         model,
		Material:      material,
	}
}

// NewExtraRenderer creates a renderer whose material is an extended copy of
// material with the given tint.
func NewExtraRenderer(model *Model, material *Material, tint mgl32.Vec3, mode DrawMode) *Renderer {
	r := NewRenderer(model, material.Upgrade(), mode)
	r.Material.Extra.Color = tint
	return r
}

// Clone implements Component.
func (r *Renderer) Clone() Component {
	c := &Renderer{}
	mustCopyState(c, r)
	c.Model = r.Model
	c.Material = r.Material
	if r.Material != nil && r.Material.Extended() {
		c.Material = r.Material.Clone()
	}
	return c
}

// Upgrade returns a new renderer with the same base state whose material
// carries the tint extension, initialised to NoTint unless r was already
// extended. r itself is not modified.
func (r *Renderer) Upgrade() *Renderer {
	c := &Renderer{}
	mustCopyState(c, r)
	c.Model = r.Model
	c.Material = r.Material.Upgrade()
	return c
}

// Extended reports whether the renderer binds the tint extension.
func (r *Renderer) Extended() bool {
	return r.Material.Extended()
}

// Tint returns the current tint and whether the renderer is extended.
func (r *Renderer) Tint() (mgl32.Vec3, bool) {
	if !r.Material.Extended() {
		return NoTint(), false
	}
	return r.Material.Extra.Color, true
}

// SetTint sets the tint override. A renderer pointing at a plain (shared)
// material first takes its own extended copy, so other renderers are not
// affected.
func (r *Renderer) SetTint(c mgl32.Vec3) {
	if !r.Material.Extended() {
		r.Material = r.Material.Upgrade()
	}
	r.Material.Extra.Color = c
}

// Render implements the draw contract: allocate the model on first use, skip
// when allocation failed or the node is inactive, bind program, camera,
// optional uniforms and texture, then draw Count vertices in Mode.
func (r *Renderer) Render(n *Node, ctx *Context) error {
	if err := r.live(); err != nil {
		return err
	}
	dev := ctx.Device
	if !r.Model.IsInit() {
		if err := r.Model.DelayedInit(dev); err != nil {
			ctx.Scene.debugf("model %q on node %q: %v", r.Model.Name(), n.Name, err)
		}
	}
	if r.Model.VAO() == NoVertexArray || !n.Active || !r.Active {
		return nil
	}
	t, ok := FindComponent[*Transform](n)
	if !ok {
		return &MissingDependencyError{Node: n.Name, Want: "*grove.Transform", Required: r.Kind}
	}
	if ctx.Camera == nil {
		return &NoActiveCameraError{Node: n.Name, Kind: r.Kind}
	}

	prog := r.Material.Program
	dev.UseProgram(prog)
	ctx.Camera.Bind(dev, prog)

	if extra := r.Material.Extra; extra != nil {
		has := extra.HasTint()
		setUniform1f(dev, prog, UniformHasColor, boolUniform(has))
		if has {
			setUniform3f(dev, prog, UniformColor, extra.Color)
		}
	}

	tex := r.Material.Texture
	dev.BindTexture(0, tex.GLIndex())
	setUniform1f(dev, prog, UniformDisplayTexture, boolUniform(tex != nil))
	setUniformMat4(dev, prog, UniformWorld, pivotWorld(t, r.Model.Offset()))

	dev.DrawArrays(r.Model.VAO(), r.Mode, 0, r.Model.Count())
	return nil
}

// Inspect implements Inspectable.
func (r *Renderer) Inspect(ins Inspector) {
	r.ComponentBase.Inspect(ins)
	ins.Text("Model", r.Model.Name())
	ins.Text("Mode", r.Mode.String())
	if extra := r.Material.Extra; extra != nil {
		ins.Vec3("Tint", &extra.Color)
	}
}

// pivotWorld returns parent * T(offset) * local * T(-offset): the local
// transform applied about the model's offset.
func pivotWorld(t *Transform, offset mgl32.Vec3) mgl32.Mat4 {
	if offset == (mgl32.Vec3{}) {
		return t.WorldMatrix()
	}
	return t.ParentMatrix().
		Mul4(mgl32.Translate3D(offset.X(), offset.Y(), offset.Z())).
		Mul4(t.LocalMatrix()).
		Mul4(mgl32.Translate3D(-offset.X(), -offset.Y(), -offset.Z()))
}

// UpgradeRenderers replaces every plain Renderer in the subtree rooted at root
// with its upgraded form, keeping list positions. Already extended renderers
// are left in place. Returns the number of slots replaced.
func UpgradeRenderers(root *Node) (int, error) {
	total := 0
	var err error
	root.walk(func(n *Node) bool {
		var k int
		k, err = ReplaceComponents(n, func(r *Renderer) (Component, error) {
			if r.Extended() {
				return r, nil
			}
			return r.Upgrade(), nil
		})
		total += k
		if err != nil {
			err = fmt.Errorf("upgrade renderers on %s: %w", n, err)
			return false
		}
		return true
	})
	return total, err
}
