package grove

import "github.com/go-gl/mathgl/mgl32"

// Skybox draws a unit cube around its node with depth writes disabled. The
// cube model is built per instance at Init; the material is shared.
type Skybox struct {
	ComponentBase

	Material *Material `copier:"-"`

	model *Model
}

// NewSkybox creates a skybox drawn with material.
func NewSkybox(material *Material) *Skybox {
	return &Skybox{ComponentBase: NewComponentBase("Skybox"), Material: material}
}

// Init builds the cube model.
func (s *Skybox) Init(n *Node, ctx *Context) error {
	if err := s.live(); err != nil {
		return err
	}
	s.model = CubeModel("Skybox")
	return nil
}

// Model returns the instance's cube, nil before Init.
func (s *Skybox) Model() *Model { return s.model }

// Clone implements Component. The clone builds its own cube at Init.
func (s *Skybox) Clone() Component {
	c := &Skybox{}
	mustCopyState(c, s)
	c.Material = s.Material
	c.model = nil
	return c
}

// Render draws the cube behind everything else.
func (s *Skybox) Render(n *Node, ctx *Context) error {
	if err := s.live(); err != nil {
		return err
	}
	dev := ctx.Device
	if s.model == nil {
		return nil
	}
	if !s.model.IsInit() {
		if err := s.model.DelayedInit(dev); err != nil {
			ctx.Scene.debugf("skybox on node %q: %v", n.Name, err)
		}
	}
	if s.model.VAO() == NoVertexArray || !s.Active || !n.Active {
		return nil
	}

	prog := s.Material.Program
	dev.UseProgram(prog)
	if ctx.Camera == nil {
		return &NoActiveCameraError{Node: n.Name, Kind: s.Kind}
	}
	ctx.Camera.Bind(dev, prog)
	dev.BindTexture(0, s.Material.Texture.GLIndex())

	t, ok := FindComponent[*Transform](n)
	if !ok {
		return &MissingDependencyError{Node: n.Name, Want: "*grove.Transform", Required: s.Kind}
	}
	setUniformMat4(dev, prog, UniformWorld, pivotWorld(t, s.model.Offset()))
	setUniform1f(dev, prog, UniformDisplayTexture, 1)

	dev.SetDepthMask(false)
	dev.DrawArrays(s.model.VAO(), DrawTriangles, 0, s.model.Count())
	dev.SetDepthMask(true)
	return nil
}

// --- Geometry ---

// cubePositions are the 36 corners of a 2-unit cube centered at the origin,
// two triangles per face.
var cubePositions = []mgl32.Vec3{
	{1, 1, 1}, {-1, 1, -1}, {-1, 1, 1},
	{1, 1, 1}, {1, 1, -1}, {-1, 1, -1},

	{1, 1, 1}, {-1, -1, 1}, {1, -1, 1},
	{1, 1, 1}, {-1, 1, 1}, {-1, -1, 1},

	{1, 1, 1}, {1, -1, 1}, {1, -1, -1},
	{1, 1, 1}, {1, -1, -1}, {1, 1, -1},

	{-1, -1, 1}, {-1, -1, -1}, {1, -1, 1},
	{1, -1, 1}, {-1, -1, -1}, {1, -1, -1},

	{-1, 1, -1}, {-1, -1, -1}, {-1, 1, 1},
	{-1, 1, 1}, {-1, -1, -1}, {-1, -1, 1},

	{1, -1, -1}, {-1, -1, -1}, {1, 1, -1},
	{1, 1, -1}, {-1, -1, -1}, {-1, 1, -1},
}

var cubeUVs = []mgl32.Vec2{
	{1, 1}, {0, 0}, {1, 0},
	{1, 1}, {0, 1}, {0, 0},

	{1, 1}, {0, 0}, {1, 0},
	{1, 1}, {0, 1}, {0, 0},

	{1, 1}, {1, 0}, {0, 0},
	{1, 1}, {0, 0}, {0, 1},

	{1, 0}, {0, 0}, {1, 1},
	{1, 1}, {0, 0}, {0, 1},

	{1, 1}, {0, 1}, {1, 0},
	{1, 0}, {0, 1}, {0, 0},

	{0, 1}, {0, 0}, {1, 1},
	{1, 1}, {0, 0}, {1, 0},
}

// Vertex layout slots used by the built-in geometry.
const (
	SlotPosition = 0
	SlotUV       = 2
)

// CubeModel returns a new textured cube: positions in SlotPosition, UVs in
// SlotUV, 36 vertices.
func CubeModel(name string) *Model {
	return NewModel().
		AttachVec3(cubePositions, SlotPosition).
		AttachVec2(cubeUVs, SlotUV).
		SetCount(len(cubePositions)).
		SetName(name)
}

// NewCube builds a node named "Cube" with transform and a renderer drawing a
// fresh cube model with a plain material.
func NewCube(g *Graph, transform *Transform, texture *Texture, program ShaderProgram) *Node {
	return g.NewNode("Cube").
		AttachComponent(transform).
		AttachComponent(NewRenderer(CubeModel("Cube"), NewMaterial(program, texture), DrawTriangles))
}
