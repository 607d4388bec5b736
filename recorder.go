package grove

import (
	"fmt"
	"maps"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one draw call captured by a Recorder, with the uniform and texture
// state in effect when it was issued.
type Draw struct {
	Program   ShaderProgram
	VAO       VertexArray
	Mode      DrawMode
	First     int
	Count     int
	Texture   TextureHandle // unit 0
	DepthMask bool
	Uniforms  map[string]any // float32, mgl32.Vec3 or mgl32.Mat4
}

// Float returns a float uniform captured with the draw.
func (d Draw) Float(name string) (float32, bool) {
	v, ok := d.Uniforms[name].(float32)
	return v, ok
}

// Vec3 returns a vec3 uniform captured with the draw.
func (d Draw) Vec3(name string) (mgl32.Vec3, bool) {
	v, ok := d.Uniforms[name].(mgl32.Vec3)
	return v, ok
}

// Mat4 returns a mat4 uniform captured with the draw.
func (d Draw) Mat4(name string) (mgl32.Mat4, bool) {
	v, ok := d.Uniforms[name].(mgl32.Mat4)
	return v, ok
}

type recordedUniform struct {
	program ShaderProgram
	name    string
}

// Recorder is a Device that performs no drawing and records every call. It
// backs headless runs and tests. Uniform values are program state, as in GL:
// they persist across draws until overwritten.
type Recorder struct {
	// FailAllocation, when set, is returned by AllocateVertexArray.
	FailAllocation error

	Draws     []Draw
	Allocated []*Model

	programs map[ShaderProgram]map[string]UniformLocation
	uniforms []recordedUniform // indexed by UniformLocation
	values   map[ShaderProgram]map[string]any
	current  ShaderProgram
	textures map[int]TextureHandle
	depth    bool
	nextVAO  VertexArray
}

// NewRecorder creates an empty Recorder with depth writes enabled.
func NewRecorder() *Recorder {
	return &Recorder{
		programs: make(map[ShaderProgram]map[string]UniformLocation),
		values:   make(map[ShaderProgram]map[string]any),
		textures: make(map[int]TextureHandle),
		depth:    true,
	}
}

// NewProgram registers a program declaring the given uniforms.
func (r *Recorder) NewProgram(uniforms ...string) ShaderProgram {
	p := ShaderProgram(len(r.programs) + 1)
	locs := make(map[string]UniformLocation, len(uniforms))
	for _, name := range uniforms {
		locs[name] = UniformLocation(len(r.uniforms))
		r.uniforms = append(r.uniforms, recordedUniform{program: p, name: name})
	}
	r.programs[p] = locs
	r.values[p] = make(map[string]any)
	return p
}

// Uniform returns the current value of a program's uniform.
func (r *Recorder) Uniform(p ShaderProgram, name string) (any, bool) {
	v, ok := r.values[p][name]
	return v, ok
}

// DepthMask reports whether depth writes are enabled.
func (r *Recorder) DepthMask() bool { return r.depth }

// Reset forgets captured draws. Programs, uniforms and allocations are kept.
func (r *Recorder) Reset() { r.Draws = r.Draws[:0] }

func (r *Recorder) AllocateVertexArray(m *Model) (VertexArray, error) {
	if r.FailAllocation != nil {
		return NoVertexArray, r.FailAllocation
	}
	r.Allocated = append(r.Allocated, m)
	va := r.nextVAO
	r.nextVAO++
	return va, nil
}

func (r *Recorder) UseProgram(p ShaderProgram) { r.current = p }

func (r *Recorder) UniformLocation(p ShaderProgram, name string) (UniformLocation, bool) {
	loc, ok := r.programs[p][name]
	return loc, ok
}

func (r *Recorder) set(loc UniformLocation, v any) {
	if int(loc) < 0 || int(loc) >= len(r.uniforms) {
		panic(fmt.Sprintf("grove: recorder: unknown uniform location %d", loc))
	}
	u := r.uniforms[loc]
	if u.program != r.current {
		panic(fmt.Sprintf("grove: recorder: uniform %q set while program %d is not in use", u.name, u.program))
	}
	r.values[u.program][u.name] = v
}

func (r *Recorder) SetUniform1f(loc UniformLocation, v float32)      { r.set(loc, v) }
func (r *Recorder) SetUniform3f(loc UniformLocation, v mgl32.Vec3)   { r.set(loc, v) }
func (r *Recorder) SetUniformMat4(loc UniformLocation, m mgl32.Mat4) { r.set(loc, m) }

func (r *Recorder) BindTexture(unit int, t TextureHandle) { r.textures[unit] = t }

func (r *Recorder) SetDepthMask(enabled bool) { r.depth = enabled }

func (r *Recorder) DrawArrays(va VertexArray, mode DrawMode, first, count int) {
	tex, ok := r.textures[0]
	if !ok {
		tex = NoTexture
	}
	r.Draws = append(r.Draws, Draw{
		Program:   r.current,
		VAO:       va,
		Mode:      mode,
		First:     first,
		Count:     count,
		Texture:   tex,
		DepthMask: r.depth,
		Uniforms:  maps.Clone(r.values[r.current]),
	})
}
