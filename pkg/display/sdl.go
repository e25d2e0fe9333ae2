//go:build !test

package display

import (
	"github.com/thelolagemann/gomeboy-advance/internal/io"
	"github.com/thelolagemann/gomeboy-advance/pkg/emulator"
	"github.com/thelolagemann/gomeboy-advance/pkg/utils"
	"github.com/veandco/go-sdl2/sdl"
	"time"
)

func init() {
	Install("sdl", &sdlDriver{})
}

const displayScale = 3

// keyMap maps SDL scancodes to the GBA keys.
var keyMap = map[sdl.Scancode]io.Button{
	sdl.SCANCODE_Z:         io.ButtonA,
	sdl.SCANCODE_X:         io.ButtonB,
	sdl.SCANCODE_BACKSPACE: io.ButtonSelect,
	sdl.SCANCODE_RETURN:    io.ButtonStart,
	sdl.SCANCODE_RIGHT:     io.ButtonRight,
	sdl.SCANCODE_LEFT:      io.ButtonLeft,
	sdl.SCANCODE_UP:        io.ButtonUp,
	sdl.SCANCODE_DOWN:      io.ButtonDown,
	sdl.SCANCODE_S:         io.ButtonR,
	sdl.SCANCODE_A:         io.ButtonL,
}

type sdlDriver struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	stopped  bool
}

func (d *sdlDriver) Start(c emulator.Controller, pressed, released chan<- io.Button) error {
	if err := sdl.InitSubSystem(sdl.INIT_VIDEO); err != nil {
		return err
	}

	var err error
	d.window, err = sdl.CreateWindow("GomeBoy Advance",
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		io.ScreenWidth*displayScale, io.ScreenHeight*displayScale,
		sdl.WINDOW_SHOWN)
	if err != nil {
		return err
	}

	d.renderer, err = sdl.CreateRenderer(d.window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		return err
	}

	d.texture, err = d.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING,
		io.ScreenWidth, io.ScreenHeight)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for !d.stopped {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if btn, ok := keyMap[ev.Keysym.Scancode]; ok {
					if ev.Type == sdl.KEYDOWN {
						pressed <- btn
					} else {
						released <- btn
					}
					break
				}
				if ev.Type != sdl.KEYDOWN {
					break
				}
				switch ev.Keysym.Scancode {
				case sdl.SCANCODE_ESCAPE:
					return nil
				case sdl.SCANCODE_P:
					if c.Paused() {
						c.Unpause()
					} else {
						c.Pause()
					}
				case sdl.SCANCODE_F11:
					_ = utils.CopyImage(utils.Scale(c.Frame(), displayScale))
				case sdl.SCANCODE_F12:
					_ = utils.SaveImage(utils.Scale(c.Frame(), displayScale))
				}
			}
		}

		if !c.Paused() {
			c.RunFrame()
		}

		frame := c.Frame()
		if err := d.texture.Update(nil, frame.Pix, frame.Stride); err != nil {
			return err
		}
		if err := d.renderer.Clear(); err != nil {
			return err
		}
		if err := d.renderer.Copy(d.texture, nil, nil); err != nil {
			return err
		}
		d.renderer.Present()

		<-ticker.C
	}

	return nil
}

func (d *sdlDriver) Stop() error {
	d.stopped = true
	if d.texture != nil {
		_ = d.texture.Destroy()
	}
	if d.renderer != nil {
		_ = d.renderer.Destroy()
	}
	if d.window != nil {
		return d.window.Destroy()
	}
	return nil
}
