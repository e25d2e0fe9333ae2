package gba

import (
	"image"
	"image/color"

	"github.com/thelolagemann/gomeboy-advance/internal/io"
)

// The pixel pipeline proper lives outside this core; the
// bitmap modes are composed here so a front end has something
// to present. Tiled modes render as the backdrop colour.

// rgb555 converts a 15-bit BGR palette entry to 8-bit RGBA.
func rgb555(v uint16) color.RGBA {
	r := uint8(v & 0x1F)
	g := uint8(v >> 5 & 0x1F)
	b := uint8(v >> 10 & 0x1F)
	return color.RGBA{
		R: r<<3 | r>>2,
		G: g<<3 | g>>2,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}

// Frame composes the current display output into an RGBA
// image.
func (g *GBA) Frame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, io.ScreenWidth, io.ScreenHeight))
	dispcnt := g.Bus.Dispcnt()

	if dispcnt.ForcedBlank() {
		for i := range img.Pix {
			img.Pix[i] = 0xFF
		}
		return img
	}

	vram := g.Bus.VRAM()
	palram := g.Bus.PALRAM()

	switch dispcnt.BGMode() {
	case 3:
		for y := 0; y < io.ScreenHeight; y++ {
			for x := 0; x < io.ScreenWidth; x++ {
				i := (y*io.ScreenWidth + x) * 2
				img.SetRGBA(x, y, rgb555(uint16(vram[i])|uint16(vram[i+1])<<8))
			}
		}
	case 4:
		base := 0
		if dispcnt.Frame() == 1 {
			base = 0xA000
		}
		for y := 0; y < io.ScreenHeight; y++ {
			for x := 0; x < io.ScreenWidth; x++ {
				idx := int(vram[base+y*io.ScreenWidth+x]) * 2
				img.SetRGBA(x, y, rgb555(uint16(palram[idx])|uint16(palram[idx+1])<<8))
			}
		}
	case 5:
		base := 0
		if dispcnt.Frame() == 1 {
			base = 0xA000
		}
		backdrop := rgb555(uint16(palram[0]) | uint16(palram[1])<<8)
		for y := 0; y < io.ScreenHeight; y++ {
			for x := 0; x < io.ScreenWidth; x++ {
				if x < 160 && y < 128 {
					i := base + (y*160+x)*2
					img.SetRGBA(x, y, rgb555(uint16(vram[i])|uint16(vram[i+1])<<8))
				} else {
					img.SetRGBA(x, y, backdrop)
				}
			}
		}
	default:
		backdrop := rgb555(uint16(palram[0]) | uint16(palram[1])<<8)
		for y := 0; y < io.ScreenHeight; y++ {
			for x := 0; x < io.ScreenWidth; x++ {
				img.SetRGBA(x, y, backdrop)
			}
		}
	}

	return img
}
