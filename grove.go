package grove

import "github.com/go-gl/mathgl/mgl32"

// NoTint returns the sentinel tint meaning "no color override". A tint is only
// applied when every channel is non-negative.
func NoTint() mgl32.Vec3 { return mgl32.Vec3{-1, -1, -1} }

// DrawMode selects the primitive assembly used by a draw call.
type DrawMode uint8

const (
	DrawTriangles     DrawMode = iota // independent triangles (default)
	DrawTriangleStrip                 // triangle strip
	DrawTriangleFan                   // triangle fan
	DrawLines                         // independent line segments
	DrawLineStrip                     // connected line segments
	DrawPoints                        // points
)

func (m DrawMode) String() string {
	switch m {
	case DrawTriangles:
		return "triangles"
	case DrawTriangleStrip:
		return "triangle-strip"
	case DrawTriangleFan:
		return "triangle-fan"
	case DrawLines:
		return "lines"
	case DrawLineStrip:
		return "line-strip"
	case DrawPoints:
		return "points"
	default:
		return "unknown"
	}
}

// BufferUsage identifies what kind of GPU buffer a vertex stream is uploaded to.
type BufferUsage uint8

const (
	ArrayBuffer        BufferUsage = iota // per-vertex attribute data
	ElementArrayBuffer                    // index data
)

// ResourceState is the lifecycle of a lazily allocated GPU resource.
type ResourceState uint8

const (
	ResourceUnallocated ResourceState = iota // nothing requested yet
	ResourceAllocating                       // allocation in progress
	ResourceReady                            // handle valid, drawable
	ResourceFailed                           // allocation failed, never drawn
)

func (s ResourceState) String() string {
	switch s {
	case ResourceUnallocated:
		return "unallocated"
	case ResourceAllocating:
		return "allocating"
	case ResourceReady:
		return "ready"
	case ResourceFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ShaderProgram is an opaque handle to a linked shader program owned by a Device.
type ShaderProgram uint32

// NoProgram is the zero program handle.
const NoProgram ShaderProgram = 0

// TextureHandle is an opaque handle to a texture owned by a Device.
type TextureHandle int32

// NoTexture is the handle of an unbound texture.
const NoTexture TextureHandle = -1

// VertexArray is an opaque "ready" handle to a model's uploaded vertex state.
type VertexArray int32

// NoVertexArray means the model has not been (or could not be) allocated.
const NoVertexArray VertexArray = -1

// UniformLocation addresses a uniform inside a ShaderProgram.
type UniformLocation int32

// Uniform names bound by the built-in components. A shader that does not
// declare one of these simply never receives it.
const (
	UniformWorld          = "u_world"
	UniformView           = "u_view"
	UniformProjection     = "u_projection"
	UniformHasColor       = "u_has_color"
	UniformColor          = "u_color"
	UniformDisplayTexture = "u_display_texture"
)

// Viewport is a camera's target rectangle in relative screen units ([0, 1]).
type Viewport struct {
	Position mgl32.Vec2
	Size     mgl32.Vec2
}

// FullViewport covers the whole screen.
var FullViewport = Viewport{Size: mgl32.Vec2{1, 1}}

// Pixels converts the relative viewport to pixel coordinates for a screen of
// the given size.
func (v Viewport) Pixels(screenW, screenH int) (x, y, w, h float32) {
	sw, sh := float32(screenW), float32(screenH)
	return v.Position.X() * sw, v.Position.Y() * sh, v.Size.X() * sw, v.Size.Y() * sh
}
