package io

import "github.com/thelolagemann/gomeboy-advance/internal/types"

// DMA timing modes, the trigger that starts a latched channel.
const (
	dmaImmediate = 0
	dmaVBlank    = 1
	dmaHBlank    = 2
	dmaSpecial   = 3
)

// address control modes for the source and destination
const (
	dmaIncrement = 0
	dmaDecrement = 1
	dmaFixed     = 2
	dmaReload    = 3
)

// DMAControl is a view of a channel's control register.
type DMAControl uint16

func (c DMAControl) DstCtl() uint8 { return uint8(types.Bits(uint32(c), 5, 6)) }
func (c DMAControl) SrcCtl() uint8 { return uint8(types.Bits(uint32(c), 7, 8)) }
func (c DMAControl) Repeat() bool { return types.Test(uint32(c), 9) }
func (c DMAControl) Is32() bool { return types.Test(uint32(c), 10) }
func (c DMAControl) GamePakDRQ() bool { return types.Test(uint32(c), 11) }
func (c DMAControl) Timing() uint8 { return uint8(types.Bits(uint32(c), 12, 13)) }
func (c DMAControl) IRQOnEnd() bool { return types.Test(uint32(c), 14) }
func (c DMAControl) Enabled() bool { return types.Test(uint32(c), 15) }

// Channel is one of the four DMA channels. The channels are
// priority ordered: channel 0 always wins a simultaneous
// trigger, and a transfer in flight is never preempted.
type Channel struct {
	bus   *Bus
	index int

	// registers as the CPU wrote them
	sad     uint32
	dad     uint32
	count   uint16
	control DMAControl

	// shadow copies latched when the channel is enabled
	src   uint32
	dst   uint32
	words uint32

	// video capture state for channel 3 special timing
	capturing bool
}

func newChannel(b *Bus, index int) *Channel {
	return &Channel{bus: b, index: index}
}

// srcMask returns the writable width of the source address
// register: 27 bits on channel 0, which therefore cannot reach
// the game pak, 28 bits elsewhere.
func (c *Channel) srcMask() uint32 {
	if c.index == 0 {
		return 0x07FF_FFFF
	}
	return 0x0FFF_FFFF
}

// dstMask returns the writable width of the destination
// address register: 28 bits on channel 3, 27 bits elsewhere.
func (c *Channel) dstMask() uint32 {
	if c.index == 3 {
		return 0x0FFF_FFFF
	}
	return 0x07FF_FFFF
}

// countMask returns the writable width of the word count:
// 16 bits on channel 3, 14 bits elsewhere.
func (c *Channel) countMask() uint32 {
	if c.index == 3 {
		return 0xFFFF
	}
	return 0x3FFF
}

// Control returns the channel's control register view.
func (c *Channel) Control() DMAControl {
	return c.control
}

// readRegister reads one byte of the channel's register block.
// The source, destination and count registers are write-only;
// only the control word reads back.
func (c *Channel) readRegister(reg uint32) uint8 {
	switch reg {
	case 10:
		return uint8(c.control)
	case 11:
		return uint8(c.control >> 8)
	}
	return 0
}

// writeRegister writes one byte of the channel's register
// block: bytes 0..3 the source address, 4..7 the destination
// address, 8..9 the word count and 10..11 the control word.
// A write that flips the enable bit from 0 to 1 latches the
// shadow registers and schedules the channel on its trigger.
func (c *Channel) writeRegister(reg uint32, value uint8) {
	switch {
	case reg < 4:
		shift := reg * 8
		c.sad = (c.sad &^ (0xFF << shift)) | uint32(value)<<shift
		c.sad &= c.srcMask()
	case reg < 8:
		shift := (reg - 4) * 8
		c.dad = (c.dad &^ (0xFF << shift)) | uint32(value)<<shift
		c.dad &= c.dstMask()
	case reg == 8:
		c.count = c.count&0xFF00 | uint16(value)
	case reg == 9:
		c.count = c.count&0x00FF | uint16(value)<<8
		c.count &= uint16(c.countMask())
	case reg == 10:
		c.control = c.control&0xFF00 | DMAControl(value)
	case reg == 11:
		wasEnabled := c.control.Enabled()
		c.control = c.control&0x00FF | DMAControl(value)<<8
		if !wasEnabled && c.control.Enabled() {
			c.latch()
			if c.control.Timing() == dmaImmediate {
				c.bus.runReady(dmaImmediate)
			}
		}
		if !c.control.Enabled() {
			c.capturing = false
		}
	}
}

// latch copies the source, destination and count registers
// into the shadow copies the transfer consumes. A count of
// zero means the full range of the counter.
func (c *Channel) latch() {
	c.src = c.sad
	c.dst = c.dad
	c.words = uint32(c.count)
	if c.words == 0 {
		c.words = c.countMask() + 1
	}
	if c.index == 3 && c.control.Timing() == dmaSpecial {
		c.capturing = false
	}
}

// ready reports whether the channel should transfer on the
// given trigger.
func (c *Channel) ready(timing uint8) bool {
	if !c.control.Enabled() {
		return false
	}
	if c.control.Timing() == dmaSpecial {
		switch c.index {
		case 1, 2:
			// FIFO refill: on hardware the sound timers pace
			// this; here the front end requests it through
			// Bus.TriggerFIFO, which fires the special trigger.
			return timing == dmaSpecial
		case 3:
			// video capture resynchronises per HBlank
			return timing == dmaHBlank
		}
		return false
	}
	return c.control.Timing() == timing
}

// runReady serves every channel that is ready on the given
// trigger, in priority order. A transfer runs to completion
// before the next channel is considered.
func (b *Bus) runReady(timing uint8) {
	for _, c := range b.dma {
		if c.ready(timing) {
			c.transfer()
		}
	}
}

// fifoTransfer is the fixed-shape sound FIFO refill: four
// 32-bit units to a fixed destination, regardless of the
// programmed width and destination control.
func (c *Channel) fifoTransfer() {
	for i := 0; i < 4; i++ {
		v := c.bus.Read32(c.src &^ 3)
		c.bus.Write32(c.dst&^3, v)
		switch c.control.SrcCtl() {
		case dmaDecrement:
			c.src -= 4
		case dmaFixed:
		default:
			c.src += 4
		}
	}
	if c.control.IRQOnEnd() {
		c.bus.raise(IntDMA0 << uint(c.index))
	}
}

// videoCapture handles channel 3's special timing: the count
// reloads every HBlank on scanlines 2..161 and the channel
// disables itself after scanline 161.
func (c *Channel) videoCapture() {
	line := c.bus.reg.vcount
	if line < 2 || line > 161 {
		if c.capturing && line > 161 {
			c.control &^= 1 << 15
			c.capturing = false
		}
		return
	}
	c.capturing = true
	c.words = uint32(c.count)
	if c.words == 0 {
		c.words = c.countMask() + 1
	}
	c.run()
	if c.control.DstCtl() == dmaReload {
		c.dst = c.dad
	}
}

// transfer performs the channel's transfer for the trigger
// that fired.
func (c *Channel) transfer() {
	if c.control.Timing() == dmaSpecial {
		switch c.index {
		case 1, 2:
			c.fifoTransfer()
			return
		case 3:
			c.videoCapture()
			return
		}
	}

	c.run()

	if c.control.Repeat() && c.control.Timing() != dmaImmediate {
		// re-latch the count, and the destination when its
		// address control asks for a reload
		c.words = uint32(c.count)
		if c.words == 0 {
			c.words = c.countMask() + 1
		}
		if c.control.DstCtl() == dmaReload {
			c.dst = c.dad
		}
	} else {
		c.control &^= 1 << 15
	}

	if c.control.IRQOnEnd() {
		c.bus.raise(IntDMA0 << uint(c.index))
	}
}

// run drains the latched transfer through the bus, one unit at
// a time, updating the shadow addresses per their controls.
func (c *Channel) run() {
	unit := uint32(2)
	if c.control.Is32() {
		unit = 4
	}

	for ; c.words > 0; c.words-- {
		if unit == 4 {
			c.bus.Write32(c.dst&^3, c.bus.Read32(c.src&^3))
		} else {
			c.bus.Write16(c.dst&^1, c.bus.Read16(c.src&^1))
		}

		switch c.control.SrcCtl() {
		case dmaIncrement, dmaReload: // reload is reserved for the source
			c.src += unit
		case dmaDecrement:
			c.src -= unit
		}
		switch c.control.DstCtl() {
		case dmaIncrement, dmaReload:
			c.dst += unit
		case dmaDecrement:
			c.dst -= unit
		}
	}
}

// pushFIFO appends one byte to a sound FIFO, emitting whole
// sample words to the drain callback once they complete.
func (b *Bus) pushFIFO(fifo int, value uint8) {
	b.fifo[fifo] = append(b.fifo[fifo], value)
	if len(b.fifo[fifo]) >= 4 {
		if b.fifoDrain != nil {
			buf := b.fifo[fifo]
			sample := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
			b.fifoDrain(fifo, sample)
		}
		b.fifo[fifo] = b.fifo[fifo][:0]
	}
}

// TriggerFIFO requests a FIFO refill transfer on behalf of the
// audio front end, the "special" trigger for channels 1 and 2.
func (b *Bus) TriggerFIFO() {
	b.runReady(dmaSpecial)
}
