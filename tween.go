package grove

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenProperty selects the Transform field a Tween animates.
type TweenProperty uint8

const (
	TweenPosition TweenProperty = iota // Transform.Position
	TweenScale                         // Transform.Scale
)

// Tween animates a Vec3 field of its node's Transform from From to To over
// Duration seconds of simulation time. Each update advances it by the frame
// driver's DeltaTime.
type Tween struct {
	ComponentBase

	Property TweenProperty
	From, To mgl32.Vec3
	Duration float32
	// Loop restarts the tween from From when it finishes.
	Loop bool
	// Done is set once a non-looping tween has reached To.
	Done bool

	Ease ease.TweenFunc `copier:"-"`

	tweens    [3]*gween.Tween
	transform *Transform
}

// NewTween creates a tween of property from `from` to `to`. A nil easing
// function means linear.
func NewTween(property TweenProperty, from, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		ComponentBase: NewComponentBase("Tween"),
		Property:      property,
		From:          from,
		To:            to,
		Duration:      duration,
		Ease:          fn,
	}
}

// Init resolves the Transform and starts the tweens at From.
func (tw *Tween) Init(n *Node, ctx *Context) error {
	if err := tw.live(); err != nil {
		return err
	}
	t, err := Require[*Transform](n, tw.Kind)
	if err != nil {
		return err
	}
	tw.transform = t
	tw.start()
	*tw.field() = tw.From
	return nil
}

func (tw *Tween) start() {
	for i := range tw.tweens {
		tw.tweens[i] = gween.New(tw.From[i], tw.To[i], tw.Duration, tw.Ease)
	}
}

func (tw *Tween) field() *mgl32.Vec3 {
	if tw.Property == TweenScale {
		return &tw.transform.Scale
	}
	return &tw.transform.Position
}

// Update advances the tween and writes the current value.
func (tw *Tween) Update(n *Node, ctx *Context) error {
	if err := tw.live(); err != nil {
		return err
	}
	if tw.Done || tw.transform == nil || tw.tweens[0] == nil {
		return nil
	}
	var v mgl32.Vec3
	finished := true
	for i, g := range tw.tweens {
		val, done := g.Update(ctx.DeltaTime)
		v[i] = val
		finished = finished && done
	}
	*tw.field() = v
	if finished {
		if tw.Loop {
			for _, g := range tw.tweens {
				g.Reset()
			}
		} else {
			tw.Done = true
		}
	}
	return nil
}

// Rebind implements Rebinder.
func (tw *Tween) Rebind(n *Node) {
	tw.transform, _ = FindComponent[*Transform](n)
}

// Clone implements Component. The clone restarts from From when initialised.
func (tw *Tween) Clone() Component {
	c := &Tween{}
	mustCopyState(c, tw)
	c.Ease = tw.Ease
	c.Done = false
	c.tweens = [3]*gween.Tween{}
	c.transform = nil
	return c
}

// Inspect implements Inspectable.
func (tw *Tween) Inspect(ins Inspector) {
	tw.ComponentBase.Inspect(ins)
	ins.Vec3("From", &tw.From)
	ins.Vec3("To", &tw.To)
	ins.Float("Duration", &tw.Duration)
	ins.Bool("Loop", &tw.Loop)
}
