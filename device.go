package grove

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader source ---
// The built-in program mirrors the classic textured/tinted object shader:
// u_display_texture selects between the texture and white, u_has_color
// replaces the rgb with u_color. Ebitengine uses premultiplied alpha.

const objectShaderSrc = `//kage:unit pixels
package main

var DisplayTexture float
var HasColor float
var Color vec3

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	c := vec4(1)
	if DisplayTexture > 0 {
		c = imageSrc0At(src)
	}
	if HasColor > 0 {
		c = vec4(Color*c.a, c.a)
	}
	return c * color
}
`

// objectUniforms maps grove uniform names to the Kage uniforms of the
// built-in program.
var objectUniforms = map[string]string{
	UniformDisplayTexture: "DisplayTexture",
	UniformHasColor:       "HasColor",
	UniformColor:          "Color",
}

// transformUniforms are consumed on the CPU for vertex projection and are
// declared by every EbitenDevice program.
var transformUniforms = []string{UniformWorld, UniformView, UniformProjection}

type ebitenProgram struct {
	shader *ebiten.Shader
	locs   map[string]UniformLocation
	kage   map[string]string // grove name -> Kage uniform
	values map[string]any
}

type ebitenUniform struct {
	program ShaderProgram
	name    string
}

// EbitenDevice is a Device that rasterises models with Ebitengine. Vertex
// transformation runs on the CPU; fragments run through a Kage shader.
// Ebitengine has no depth buffer, so triangles are painter-sorted within
// each draw call and draw calls land in scene order.
type EbitenDevice struct {
	target   *ebiten.Image
	viewport Viewport

	programs map[ShaderProgram]*ebitenProgram
	uniforms []ebitenUniform
	current  ShaderProgram

	textures []*ebiten.Image
	bound    map[int]TextureHandle
	white    *ebiten.Image

	models []*Model // indexed by VertexArray
	depth  bool

	verts []ebiten.Vertex
	inds  []uint32
	tris  []projectedTriangle
}

// NewEbitenDevice creates a device. Call SetTarget each frame before rendering.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{
		viewport: FullViewport,
		programs: make(map[ShaderProgram]*ebitenProgram),
		bound:    make(map[int]TextureHandle),
		depth:    true,
	}
}

// SetTarget sets the image drawn into.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) { d.target = img }

// SetViewport implements ViewportSetter.
func (d *EbitenDevice) SetViewport(v Viewport) { d.viewport = v }

// NewProgram compiles a Kage shader. uniforms maps grove uniform names to the
// shader's exported uniform variables; the transform uniforms are always
// available.
func (d *EbitenDevice) NewProgram(src []byte, uniforms map[string]string) (ShaderProgram, error) {
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return NoProgram, fmt.Errorf("grove: compile shader: %w", err)
	}
	p := ShaderProgram(len(d.programs) + 1)
	prog := &ebitenProgram{
		shader: sh,
		locs:   make(map[string]UniformLocation),
		kage:   uniforms,
		values: make(map[string]any),
	}
	for _, name := range transformUniforms {
		prog.locs[name] = d.addUniform(p, name)
	}
	for name := range uniforms {
		prog.locs[name] = d.addUniform(p, name)
	}
	d.programs[p] = prog
	return p, nil
}

// NewObjectProgram compiles the built-in textured and tintable program.
func (d *EbitenDevice) NewObjectProgram() (ShaderProgram, error) {
	return d.NewProgram([]byte(objectShaderSrc), objectUniforms)
}

func (d *EbitenDevice) addUniform(p ShaderProgram, name string) UniformLocation {
	d.uniforms = append(d.uniforms, ebitenUniform{program: p, name: name})
	return UniformLocation(len(d.uniforms) - 1)
}

// NewTexture registers img and returns a shared Texture for it.
func (d *EbitenDevice) NewTexture(name string, img *ebiten.Image) *Texture {
	d.textures = append(d.textures, img)
	return NewTexture(name, TextureHandle(len(d.textures)-1))
}

func (d *EbitenDevice) AllocateVertexArray(m *Model) (VertexArray, error) {
	pos, ok := m.BufferAt(SlotPosition)
	if !ok || pos.Width != 3 {
		return NoVertexArray, fmt.Errorf("grove: model %q has no 3-wide position stream in slot %d", m.Name(), SlotPosition)
	}
	if pos.Vertices() < m.Count() {
		return NoVertexArray, fmt.Errorf("grove: model %q draws %d vertices but has %d", m.Name(), m.Count(), pos.Vertices())
	}
	d.models = append(d.models, m)
	return VertexArray(len(d.models) - 1), nil
}

func (d *EbitenDevice) UseProgram(p ShaderProgram) { d.current = p }

func (d *EbitenDevice) UniformLocation(p ShaderProgram, name string) (UniformLocation, bool) {
	prog, ok := d.programs[p]
	if !ok {
		return 0, false
	}
	loc, ok := prog.locs[name]
	return loc, ok
}

func (d *EbitenDevice) set(loc UniformLocation, v any) {
	if int(loc) < 0 || int(loc) >= len(d.uniforms) {
		return
	}
	u := d.uniforms[loc]
	if prog, ok := d.programs[u.program]; ok {
		prog.values[u.name] = v
	}
}

func (d *EbitenDevice) SetUniform1f(loc UniformLocation, v float32)      { d.set(loc, v) }
func (d *EbitenDevice) SetUniform3f(loc UniformLocation, v mgl32.Vec3)   { d.set(loc, v) }
func (d *EbitenDevice) SetUniformMat4(loc UniformLocation, m mgl32.Mat4) { d.set(loc, m) }

func (d *EbitenDevice) BindTexture(unit int, t TextureHandle) { d.bound[unit] = t }

func (d *EbitenDevice) SetDepthMask(enabled bool) { d.depth = enabled }

func (d *EbitenDevice) DrawArrays(va VertexArray, mode DrawMode, first, count int) {
	prog, ok := d.programs[d.current]
	if !ok || d.target == nil || int(va) < 0 || int(va) >= len(d.models) {
		return
	}
	if mode != DrawTriangles {
		// Only triangle lists are rasterised.
		return
	}
	m := d.models[va]
	pos, _ := m.BufferAt(SlotPosition)
	uv, _ := m.BufferAt(SlotUV)

	src := d.textureImage()
	sb := src.Bounds()
	mvp := mat4Uniform(prog.values, UniformProjection).
		Mul4(mat4Uniform(prog.values, UniformView)).
		Mul4(mat4Uniform(prog.values, UniformWorld))

	b := d.target.Bounds()
	vx, vy, vw, vh := d.viewport.Pixels(b.Dx(), b.Dy())
	rect := screenRect{X: vx, Y: vy, W: vw, H: vh}

	d.tris = projectTriangles(d.tris[:0], pos, uv, first, count, mvp, rect, float32(sb.Dx()), float32(sb.Dy()))
	if len(d.tris) == 0 {
		return
	}
	if d.depth {
		sortFarToNear(d.tris)
	}

	d.verts = d.verts[:0]
	d.inds = d.inds[:0]
	for _, t := range d.tris {
		base := uint32(len(d.verts))
		d.verts = append(d.verts, t.v[0], t.v[1], t.v[2])
		d.inds = append(d.inds, base, base+1, base+2)
	}

	var op ebiten.DrawTrianglesShaderOptions
	op.Images[0] = src
	op.Uniforms = kageUniforms(prog)
	d.target.DrawTrianglesShader32(d.verts, d.inds, prog.shader, &op)
}

// textureImage returns the image bound to unit 0, or a white pixel.
func (d *EbitenDevice) textureImage() *ebiten.Image {
	if h, ok := d.bound[0]; ok && h >= 0 && int(h) < len(d.textures) && d.textures[h] != nil {
		return d.textures[h]
	}
	if d.white == nil {
		d.white = ebiten.NewImage(1, 1)
		d.white.Fill(color.White)
	}
	return d.white
}

func mat4Uniform(values map[string]any, name string) mgl32.Mat4 {
	if m, ok := values[name].(mgl32.Mat4); ok {
		return m
	}
	return mgl32.Ident4()
}

// kageUniforms converts the program's fragment uniform values to the form
// Ebitengine expects.
func kageUniforms(prog *ebitenProgram) map[string]any {
	out := make(map[string]any, len(prog.kage))
	for name, kage := range prog.kage {
		switch v := prog.values[name].(type) {
		case float32:
			out[kage] = v
		case mgl32.Vec3:
			out[kage] = []float32{v[0], v[1], v[2]}
		case mgl32.Mat4:
			out[kage] = v[:]
		}
	}
	return out
}

// --- CPU vertex stage ---

// screenRect is a pixel rectangle with the origin at the top left.
type screenRect struct {
	X, Y, W, H float32
}

type projectedTriangle struct {
	v     [3]ebiten.Vertex
	depth float32 // mean NDC z
}

// projectTriangles transforms vertices [first, first+count) by mvp, clips
// whole triangles that leave the w > 0 half-space, and maps NDC to rect.
// UVs are scaled to source pixels of a texW x texH image with v flipped.
func projectTriangles(dst []projectedTriangle, pos, uv Buffer, first, count int, mvp mgl32.Mat4, rect screenRect, texW, texH float32) []projectedTriangle {
	n := pos.Vertices()
	for i := first; i+2 < first+count && i+2 < n; i += 3 {
		var t projectedTriangle
		visible := true
		for k := 0; k < 3; k++ {
			j := i + k
			p := mgl32.Vec4{pos.Data[3*j], pos.Data[3*j+1], pos.Data[3*j+2], 1}
			c := mvp.Mul4x1(p)
			if c.W() <= 1e-6 {
				visible = false
				break
			}
			ndc := c.Vec3().Mul(1 / c.W())
			var u, v float32
			if uv.Width == 2 && 2*j+1 < len(uv.Data) {
				u, v = uv.Data[2*j], uv.Data[2*j+1]
			}
			t.v[k] = ebiten.Vertex{
				DstX:   rect.X + (ndc.X()+1)*0.5*rect.W,
				DstY:   rect.Y + (1-ndc.Y())*0.5*rect.H,
				SrcX:   u * texW,
				SrcY:   (1 - v) * texH,
				ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
			}
			t.depth += ndc.Z() / 3
		}
		if visible {
			dst = append(dst, t)
		}
	}
	return dst
}

func sortFarToNear(tris []projectedTriangle) {
	sort.SliceStable(tris, func(a, b int) bool { return tris[a].depth > tris[b].depth })
}
