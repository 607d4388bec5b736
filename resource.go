package grove

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Device is the graphics resource layer. grove only consumes it: it allocates
// vertex state for models, binds programs, textures and uniforms, and issues
// draw calls. Missing uniforms are reported by UniformLocation returning false
// and are skipped by callers, never treated as errors.
type Device interface {
	AllocateVertexArray(m *Model) (VertexArray, error)
	UseProgram(p ShaderProgram)
	UniformLocation(p ShaderProgram, name string) (UniformLocation, bool)
	SetUniform1f(loc UniformLocation, v float32)
	SetUniform3f(loc UniformLocation, v mgl32.Vec3)
	SetUniformMat4(loc UniformLocation, m mgl32.Mat4)
	BindTexture(unit int, t TextureHandle)
	SetDepthMask(enabled bool)
	DrawArrays(va VertexArray, mode DrawMode, first, count int)
}

// setUniform1f sets a float uniform if the program declares it.
func setUniform1f(dev Device, p ShaderProgram, name string, v float32) bool {
	loc, ok := dev.UniformLocation(p, name)
	if ok {
		dev.SetUniform1f(loc, v)
	}
	return ok
}

// setUniform3f sets a vec3 uniform if the program declares it.
func setUniform3f(dev Device, p ShaderProgram, name string, v mgl32.Vec3) bool {
	loc, ok := dev.UniformLocation(p, name)
	if ok {
		dev.SetUniform3f(loc, v)
	}
	return ok
}

// setUniformMat4 sets a mat4 uniform if the program declares it.
func setUniformMat4(dev Device, p ShaderProgram, name string, m mgl32.Mat4) bool {
	loc, ok := dev.UniformLocation(p, name)
	if ok {
		dev.SetUniformMat4(loc, m)
	}
	return ok
}

func boolUniform(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

// --- Model ---

// Buffer is one vertex stream of a Model.
type Buffer struct {
	Data  []float32
	Usage BufferUsage
	Slot  int // shader layout location
	Width int // components per vertex: 1, 2, 3 or 4
}

// Vertices returns the number of whole vertices in the buffer.
func (b Buffer) Vertices() int {
	if b.Width <= 0 {
		return 0
	}
	return len(b.Data) / b.Width
}

// ErrEmptyModel is returned when allocating a model with no buffers.
var ErrEmptyModel = errors.New("grove: model has no buffers")

// Model is a named set of vertex buffers. Models are shared GPU resources:
// any number of renderers may point at the same Model, and cloning never
// copies one. GPU state is allocated lazily on first render.
type Model struct {
	name    string
	buffers []Buffer
	count   int
	offset  mgl32.Vec3
	state   ResourceState
	vao     VertexArray
	err     error
}

// NewModel creates an empty, unallocated model.
func NewModel() *Model {
	return &Model{vao: NoVertexArray}
}

// AttachBuffer appends a vertex stream and returns m.
// Panics if width is not in [1, 4] or the model is already allocated.
func (m *Model) AttachBuffer(data []float32, usage BufferUsage, slot, width int) *Model {
	if width < 1 || width > 4 {
		panic(fmt.Sprintf("grove: buffer width %d out of range", width))
	}
	if m.state != ResourceUnallocated {
		panic("grove: cannot attach buffer to an allocated model")
	}
	m.buffers = append(m.buffers, Buffer{Data: data, Usage: usage, Slot: slot, Width: width})
	return m
}

// AttachVec3 appends a 3-wide stream built from v and returns m.
func (m *Model) AttachVec3(v []mgl32.Vec3, slot int) *Model {
	data := make([]float32, 0, 3*len(v))
	for _, p := range v {
		data = append(data, p[0], p[1], p[2])
	}
	return m.AttachBuffer(data, ArrayBuffer, slot, 3)
}

// AttachVec2 appends a 2-wide stream built from v and returns m.
func (m *Model) AttachVec2(v []mgl32.Vec2, slot int) *Model {
	data := make([]float32, 0, 2*len(v))
	for _, p := range v {
		data = append(data, p[0], p[1])
	}
	return m.AttachBuffer(data, ArrayBuffer, slot, 2)
}

// SetCount sets the number of vertices drawn and returns m.
func (m *Model) SetCount(n int) *Model {
	m.count = n
	return m
}

// SetName sets the model name and returns m.
func (m *Model) SetName(s string) *Model {
	m.name = s
	return m
}

// SetOffset sets the model's pivot offset and returns m.
func (m *Model) SetOffset(o mgl32.Vec3) *Model {
	m.offset = o
	return m
}

func (m *Model) Name() string         { return m.name }
func (m *Model) Count() int           { return m.count }
func (m *Model) Offset() mgl32.Vec3   { return m.offset }
func (m *Model) Buffers() []Buffer    { return m.buffers }
func (m *Model) State() ResourceState { return m.state }

// Err returns the allocation error, if allocation failed.
func (m *Model) Err() error { return m.err }

// VAO returns the vertex array handle, NoVertexArray until allocation succeeds.
func (m *Model) VAO() VertexArray { return m.vao }

// IsInit reports whether allocation has been attempted.
func (m *Model) IsInit() bool { return m.state != ResourceUnallocated }

// BufferAt returns the first buffer bound to layout slot, if any.
func (m *Model) BufferAt(slot int) (Buffer, bool) {
	for _, b := range m.buffers {
		if b.Slot == slot && b.Usage == ArrayBuffer {
			return b, true
		}
	}
	return Buffer{}, false
}

// DelayedInit allocates GPU state on dev. It runs at most once: afterwards
// the model is Ready or Failed and further calls return the stored result.
func (m *Model) DelayedInit(dev Device) error {
	if m.state != ResourceUnallocated {
		return m.err
	}
	m.state = ResourceAllocating
	if len(m.buffers) == 0 {
		return m.fail(ErrEmptyModel)
	}
	vao, err := dev.AllocateVertexArray(m)
	if err != nil {
		return m.fail(err)
	}
	if vao == NoVertexArray {
		return m.fail(fmt.Errorf("grove: device returned no vertex array for model %q", m.name))
	}
	m.vao = vao
	m.state = ResourceReady
	return nil
}

func (m *Model) fail(err error) error {
	m.vao = NoVertexArray
	m.state = ResourceFailed
	m.err = err
	return err
}

// --- Texture ---

// Texture is a shared, device-owned texture.
type Texture struct {
	Name   string
	handle TextureHandle
}

// NewTexture wraps a device texture handle.
func NewTexture(name string, handle TextureHandle) *Texture {
	return &Texture{Name: name, handle: handle}
}

// GLIndex returns the device texture handle.
func (t *Texture) GLIndex() TextureHandle {
	if t == nil {
		return NoTexture
	}
	return t.handle
}

// --- Material ---

// MaterialExtra is the optional extension payload of a Material: a
// per-instance tint that overrides the sampled color.
type MaterialExtra struct {
	// Color is the override tint; NoTint disables the override.
	Color mgl32.Vec3
}

// HasTint reports whether the tint override is enabled: every channel must
// be non-negative.
func (e *MaterialExtra) HasTint() bool {
	return e != nil && e.Color.X() >= 0 && e.Color.Y() >= 0 && e.Color.Z() >= 0
}

// Material pairs a shader program with a texture. The program and texture are
// shared handles. Extra, when set, carries per-instance state and makes the
// material itself per-instance: cloning a renderer copies an extended
// material but shares a plain one.
type Material struct {
	Program ShaderProgram
	Texture *Texture
	Extra   *MaterialExtra
}

// NewMaterial creates a plain material.
func NewMaterial(program ShaderProgram, texture *Texture) *Material {
	return &Material{Program: program, Texture: texture}
}

// NewExtraMaterial creates a material carrying a tint extension.
func NewExtraMaterial(program ShaderProgram, texture *Texture, color mgl32.Vec3) *Material {
	return &Material{Program: program, Texture: texture, Extra: &MaterialExtra{Color: color}}
}

// ShaderProgram returns the program handle.
func (m *Material) ShaderProgram() ShaderProgram { return m.Program }

// Extended reports whether the material carries the extension payload.
func (m *Material) Extended() bool { return m.Extra != nil }

// Clone copies the material record. Program and Texture are shared; the
// extension payload is copied.
func (m *Material) Clone() *Material {
	c := &Material{Program: m.Program, Texture: m.Texture}
	if m.Extra != nil {
		extra := *m.Extra
		c.Extra = &extra
	}
	return c
}

// Upgrade returns an extended copy of m. Base fields are copied as-is; an
// existing extension is kept, otherwise the tint starts at NoTint.
func (m *Material) Upgrade() *Material {
	c := m.Clone()
	if c.Extra == nil {
		c.Extra = &MaterialExtra{Color: NoTint()}
	}
	return c
}
