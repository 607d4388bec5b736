// Package grove is a retained-mode 3D scene substrate for [Ebitengine].
//
// Grove provides the entity/component layer that a small 3D engine needs:
// nodes arranged in a hierarchy, components with an init/update/render
// lifecycle, typed component lookup, deep cloning of subtrees, in-place
// component replacement, a Transform hierarchy, and a binding contract
// between renderers and a graphics device.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := grove.NewScene()
//	grove.Run(scene, grove.RunConfig{
//		Title: "My Scene", Width: 1280, Height: 720,
//		Setup: func(dev *grove.EbitenDevice) error {
//			prog, err := dev.NewObjectProgram()
//			if err != nil {
//				return err
//			}
//			cube := grove.NewCube(scene.Graph(), grove.NewTransform(), nil, prog)
//			cube.AttachComponent(grove.NewRotation(1))
//			scene.Instantiate(cube)
//			cam, c := grove.NewCameraNode(scene.Graph(), mgl32.Vec3{0, 0, 7.5}, mgl32.Vec3{}, persp)
//			scene.Instantiate(cam)
//			scene.SetCurrentCamera(c)
//			return nil
//		},
//	})
//
// For headless use, drive the scene yourself with any [Device], for example
// a [Recorder]:
//
//	rec := grove.NewRecorder()
//	if err := scene.Init(); err != nil { ... }
//	if err := scene.Step(rec); err != nil { ... }
//
// # Nodes and components
//
// Every object is a [Node] owned by a [Graph]. Children are held by
// generational [NodeID] handles, so a destroyed node can never be reached
// through a stale handle. Components embed [ComponentBase] and are attached
// with [Node.AttachComponent]; a component has at most one owner.
//
// Look components up by type with [GetComponent], [FindComponent] and
// [Require]. Behaviors that depend on another component resolve it in Init
// and fail with a [*MissingDependencyError] when it is absent; the scene
// treats that as fatal.
//
// # Cloning and upgrading
//
// [CloneNode] deep-copies a subtree. Component state is copied with
// [copier]; fields tagged `copier:"-"` (models, materials, textures) are
// shared. Clones start uninitialised and re-resolve cached references through
// [Rebinder].
//
// [ReplaceComponents] swaps components in place, keeping list positions and
// lifecycle state. [UpgradeRenderers] uses it to turn plain renderers into
// tintable ones.
//
// # Transforms and rendering
//
// [Transform] holds position, rotation and scale and composes world matrices
// through the parent chain with [mathgl]. [Renderer] lazily allocates its
// [Model] on first render and binds u_world, u_view, u_projection,
// u_display_texture and, when extended, u_has_color and u_color. Uniforms a
// program does not declare are skipped.
//
// Lifecycle events can be mirrored into an ECS world with the grove/ecs
// package ([Donburi] adapter). Property animation is provided by [Tween]
// (via [gween]).
//
// [Ebitengine]: https://ebitengine.org
// [copier]: https://github.com/jinzhu/copier
// [mathgl]: https://github.com/go-gl/mathgl
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package grove
