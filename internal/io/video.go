package io

import "github.com/thelolagemann/gomeboy-advance/internal/scheduler"

// Video timing. The pixel pipeline itself lives outside this
// core; the bus still drives the dot clock because VCOUNT,
// DISPSTAT and the VBlank/HBlank DMA triggers hang off it.
const (
	// ScreenWidth is the width of the LCD in pixels.
	ScreenWidth = 240
	// ScreenHeight is the height of the LCD in pixels.
	ScreenHeight = 160

	cyclesPerDot = 4
	dotsPerLine  = 308
	totalLines   = 228

	// CyclesPerLine is the length of one scanline in CPU cycles.
	CyclesPerLine = dotsPerLine * cyclesPerDot
	// CyclesPerFrame is the length of one frame in CPU cycles.
	CyclesPerFrame = CyclesPerLine * totalLines

	hblankCycle = ScreenWidth * cyclesPerDot
)

// scheduleLine arms the two per-line events from the start of
// the current scanline.
func (b *Bus) scheduleLine() {
	b.s.ScheduleEvent(scheduler.PPUHBlank, hblankCycle)
	b.s.ScheduleEvent(scheduler.PPUEndLine, CyclesPerLine)
}

// enterHBlank marks the end of the visible portion of the
// scanline. HBlank DMA only fires on the visible lines.
func (b *Bus) enterHBlank() {
	b.reg.dispstat.setFlag(1, true)
	if b.reg.dispstat.HBlankIRQ() {
		b.raise(IntHBlank)
	}
	if b.reg.vcount < ScreenHeight {
		b.runReady(dmaHBlank)
	}
	// channel 3 video capture resynchronises per HBlank even
	// outside the visible region, so it can shut itself off
	for _, c := range b.dma {
		if c.index == 3 && c.control.Enabled() && c.control.Timing() == dmaSpecial && b.reg.vcount >= ScreenHeight {
			c.videoCapture()
		}
	}
}

// endLine advances VCOUNT and recomputes the blanking state.
func (b *Bus) endLine() {
	b.reg.dispstat.setFlag(1, false)
	b.reg.vcount++
	if b.reg.vcount == totalLines {
		b.reg.vcount = 0
	}

	switch b.reg.vcount {
	case ScreenHeight:
		b.reg.dispstat.setFlag(0, true)
		if b.reg.dispstat.VBlankIRQ() {
			b.raise(IntVBlank)
		}
		b.runReady(dmaVBlank)
		b.frameReady = true
	case totalLines - 1:
		// the VBlank flag drops one line before the frame wraps
		b.reg.dispstat.setFlag(0, false)
	}

	match := uint8(b.reg.vcount) == b.reg.dispstat.VCountSetting()
	wasMatch := b.reg.dispstat.VCountMatch()
	b.reg.dispstat.setFlag(2, match)
	if match && !wasMatch && b.reg.dispstat.VCountIRQ() {
		b.raise(IntVCount)
	}

	b.scheduleLine()
}

// VCount returns the current scanline.
func (b *Bus) VCount() uint16 {
	return b.reg.vcount
}

// Dispcnt returns the current LCD control view.
func (b *Bus) Dispcnt() Dispcnt {
	return b.reg.dispcnt
}

// Dispstat returns the current LCD status view.
func (b *Bus) Dispstat() Dispstat {
	return b.reg.dispstat
}

// FrameReady reports whether a VBlank has been entered since
// the flag was last cleared.
func (b *Bus) FrameReady() bool {
	return b.frameReady
}

// ClearFrameReady resets the frame flag after the front end
// has consumed the frame.
func (b *Bus) ClearFrameReady() {
	b.frameReady = false
}

// VRAM exposes the raw video memory for frame composition.
func (b *Bus) VRAM() []byte {
	return b.vram[:]
}

// PALRAM exposes the raw palette memory for frame composition.
func (b *Bus) PALRAM() []byte {
	return b.palram[:]
}
