package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window and loop created by Run.
type RunConfig struct {
	Title      string
	Width      int
	Height     int
	Background color.Color // cleared before each frame, defaults to black
	ShowFPS    bool        // draw FPS and TPS in the top-left corner
	Resizable  bool
	TPS        int // updates per second, defaults to 60

	// Input is polled once per tick before the scene update. When nil the
	// scene keeps whatever source SetInput installed.
	Input *InputMap

	// Device draws the scene. When nil a new EbitenDevice is created and
	// handed to Setup.
	Device *EbitenDevice

	// ScreenshotDir overrides the scene's screenshot directory when set.
	ScreenshotDir string

	// Setup runs once, after the window exists and before the first Init.
	// Use it to compile shaders and upload textures.
	Setup func(dev *EbitenDevice) error
}

// Run opens a window and drives scene until the window closes or a lifecycle
// error occurs, which is returned.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.Device == nil {
		cfg.Device = NewEbitenDevice()
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	scene.SetTPS(ebiten.TPS())
	if cfg.Input != nil {
		scene.SetInput(cfg.Input)
	}
	if cfg.ScreenshotDir != "" {
		scene.ScreenshotDir = cfg.ScreenshotDir
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{scene: scene, cfg: cfg})
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene  *Scene
	cfg    RunConfig
	ready  bool
	w, h   int
	err    error
	fpsImg *ebiten.Image
	fpsAcc float64
}

func (g *game) Update() error {
	if !g.ready {
		if g.cfg.Setup != nil {
			if err := g.cfg.Setup(g.cfg.Device); err != nil {
				return fmt.Errorf("setup: %w", err)
			}
		}
		if err := g.scene.Init(); err != nil {
			return err
		}
		g.ready = true
	}
	if g.err != nil {
		return g.err
	}
	if g.cfg.Input != nil {
		g.cfg.Input.Poll()
	}
	if cam := g.scene.CurrentCamera(); cam != nil && g.w > 0 {
		cam.SetAspectFromScreen(g.w, g.h)
	}
	if g.cfg.ShowFPS {
		g.tickFPS()
	}
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	if !g.ready || g.err != nil {
		return
	}
	screen.Fill(g.cfg.Background)
	g.cfg.Device.SetTarget(screen)
	if err := g.scene.Render(g.cfg.Device); err != nil {
		// Draw cannot fail; the error ends the loop on the next Update.
		g.err = err
		return
	}
	g.scene.flushScreenshots(screen)
	if g.cfg.ShowFPS && g.fpsImg != nil {
		screen.DrawImage(g.fpsImg, nil)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	g.w, g.h = outsideW, outsideH
	return outsideW, outsideH
}

// tickFPS refreshes the FPS overlay about twice a second.
func (g *game) tickFPS() {
	if g.fpsImg == nil {
		// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
		g.fpsImg = ebiten.NewImage(100, 32)
		g.fpsAcc = 0.5
	}
	g.fpsAcc += 1 / float64(ebiten.TPS())
	if g.fpsAcc < 0.5 {
		return
	}
	g.fpsAcc = 0
	g.fpsImg.Clear()
	g.fpsImg.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(g.fpsImg, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}
