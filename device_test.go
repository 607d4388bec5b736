package grove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func triangleBuffers() (Buffer, Buffer) {
	pos := Buffer{Width: 3, Data: []float32{
		-1, -1, 0,
		1, -1, 0,
		0, 1, 0,
	}}
	uv := Buffer{Width: 2, Data: []float32{0, 0, 1, 0, 0.5, 1}}
	return pos, uv
}

func TestProjectTrianglesIdentity(t *testing.T) {
	pos, uv := triangleBuffers()
	rect := screenRect{W: 200, H: 100}
	tris := projectTriangles(nil, pos, uv, 0, 3, mgl32.Ident4(), rect, 64, 32)
	if len(tris) != 1 {
		t.Fatalf("triangles = %d, want 1", len(tris))
	}
	v := tris[0].v
	// NDC (-1,-1) is the bottom-left pixel corner, (0,1) the top middle.
	assertNear(t, "v0.x", v[0].DstX, 0)
	assertNear(t, "v0.y", v[0].DstY, 100)
	assertNear(t, "v2.x", v[2].DstX, 100)
	assertNear(t, "v2.y", v[2].DstY, 0)
	// UV v is flipped into image rows.
	assertNear(t, "v0.src", v[0].SrcY, 32)
	assertNear(t, "v1.srcX", v[1].SrcX, 64)
	assertNear(t, "v2.src", v[2].SrcY, 0)
}

func TestProjectTrianglesViewportOffset(t *testing.T) {
	pos, uv := triangleBuffers()
	rect := screenRect{X: 50, Y: 10, W: 100, H: 100}
	tris := projectTriangles(nil, pos, uv, 0, 3, mgl32.Ident4(), rect, 1, 1)
	assertNear(t, "v0.x", tris[0].v[0].DstX, 50)
	assertNear(t, "v2.y", tris[0].v[2].DstY, 10)
}

func TestProjectTrianglesBehindCamera(t *testing.T) {
	pos, uv := triangleBuffers()
	proj := mgl32.Perspective(1, 1, 0.1, 100)
	// Camera at z=-5 looking down -Z sees nothing at z=0.
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 1, 0})
	tris := projectTriangles(nil, pos, uv, 0, 3, proj.Mul4(view), screenRect{W: 10, H: 10}, 1, 1)
	if len(tris) != 0 {
		t.Errorf("triangles behind the camera should be dropped, got %d", len(tris))
	}
}

func TestProjectTrianglesRange(t *testing.T) {
	m := CubeModel("c")
	pos, _ := m.BufferAt(SlotPosition)
	uv, _ := m.BufferAt(SlotUV)
	tris := projectTriangles(nil, pos, uv, 6, 12, mgl32.Ident4(), screenRect{W: 1, H: 1}, 1, 1)
	if len(tris) != 4 {
		t.Errorf("triangles = %d, want 4", len(tris))
	}
}

func TestSortFarToNear(t *testing.T) {
	tris := []projectedTriangle{{depth: 0.1}, {depth: 0.9}, {depth: 0.5}}
	sortFarToNear(tris)
	if tris[0].depth != 0.9 || tris[2].depth != 0.1 {
		t.Errorf("order = %v %v %v", tris[0].depth, tris[1].depth, tris[2].depth)
	}
}

func TestKageUniforms(t *testing.T) {
	prog := &ebitenProgram{
		kage: objectUniforms,
		values: map[string]any{
			UniformHasColor:       float32(1),
			UniformColor:          mgl32.Vec3{0.5, 0.25, 1},
			UniformWorld:          mgl32.Ident4(),
			UniformDisplayTexture: float32(0),
		},
	}
	u := kageUniforms(prog)
	if u["HasColor"] != float32(1) || u["DisplayTexture"] != float32(0) {
		t.Errorf("float uniforms = %v", u)
	}
	c, ok := u["Color"].([]float32)
	if !ok || len(c) != 3 || c[1] != 0.25 {
		t.Errorf("Color = %v", u["Color"])
	}
	if _, ok := u["u_world"]; ok {
		t.Error("transform uniforms are not passed to the fragment shader")
	}
}

func TestEbitenDeviceAllocate(t *testing.T) {
	d := NewEbitenDevice()
	va, err := d.AllocateVertexArray(CubeModel("c"))
	if err != nil || va != 0 {
		t.Fatalf("AllocateVertexArray = %v, %v", va, err)
	}

	short := NewModel().AttachVec3([]mgl32.Vec3{{0, 0, 0}}, SlotPosition).SetCount(3)
	if _, err := d.AllocateVertexArray(short); err == nil {
		t.Error("expected error for count beyond the position stream")
	}
	flat := NewModel().AttachVec2([]mgl32.Vec2{{0, 0}}, SlotPosition).SetCount(1)
	if _, err := d.AllocateVertexArray(flat); err == nil {
		t.Error("expected error for a 2-wide position stream")
	}
	if _, ok := d.UniformLocation(ShaderProgram(99), UniformWorld); ok {
		t.Error("unknown program should declare no uniforms")
	}
}
