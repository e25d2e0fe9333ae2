package types

// HardwareAddress is the full bus address of a memory
// mapped hardware register.
type HardwareAddress = uint32

const (
	// DISPCNT is the LCD control register. It selects the
	// background mode, the displayed frame for the bitmap
	// modes, and the background/object/window enable bits.
	DISPCNT HardwareAddress = 0x0400_0000
	// GREENSWP is the undocumented green swap register.
	GREENSWP HardwareAddress = 0x0400_0002
	// DISPSTAT is the general LCD status register. It holds
	// the VBlank/HBlank/VCount match flags, their interrupt
	// enables and the VCount match setting.
	DISPSTAT HardwareAddress = 0x0400_0004
	// VCOUNT is the read-only current scanline register.
	VCOUNT HardwareAddress = 0x0400_0006

	// SOUNDCNT_H holds (among DMA-unrelated sound bits) the
	// FIFO reset and timer select bits for the two DMA sound
	// channels.
	SOUNDCNT_H HardwareAddress = 0x0400_0082
	// FIFO_A is the write-only sound FIFO for DMA channel A.
	FIFO_A HardwareAddress = 0x0400_00A0
	// FIFO_B is the write-only sound FIFO for DMA channel B.
	FIFO_B HardwareAddress = 0x0400_00A4

	// DMA0SAD is the source address of DMA channel 0. Each
	// channel owns four consecutive registers: source address,
	// destination address, word count and control.
	DMA0SAD HardwareAddress = 0x0400_00B0
	DMA0DAD HardwareAddress = 0x0400_00B4
	DMA0CNT HardwareAddress = 0x0400_00B8
	DMA0CTL HardwareAddress = 0x0400_00BA

	DMA1SAD HardwareAddress = 0x0400_00BC
	DMA1DAD HardwareAddress = 0x0400_00C0
	DMA1CNT HardwareAddress = 0x0400_00C4
	DMA1CTL HardwareAddress = 0x0400_00C6

	DMA2SAD HardwareAddress = 0x0400_00C8
	DMA2DAD HardwareAddress = 0x0400_00CC
	DMA2CNT HardwareAddress = 0x0400_00D0
	DMA2CTL HardwareAddress = 0x0400_00D2

	DMA3SAD HardwareAddress = 0x0400_00D4
	DMA3DAD HardwareAddress = 0x0400_00D8
	DMA3CNT HardwareAddress = 0x0400_00DC
	DMA3CTL HardwareAddress = 0x0400_00DE

	// KEYINPUT is the read-only key status register. Buttons
	// read active-low: a pressed button clears its bit.
	KEYINPUT HardwareAddress = 0x0400_0130
	// KEYCNT is the key interrupt control register.
	KEYCNT HardwareAddress = 0x0400_0132

	// IE is the interrupt enable register.
	IE HardwareAddress = 0x0400_0200
	// IF is the interrupt request register. Writing a 1 to a
	// bit acknowledges (clears) that request.
	IF HardwareAddress = 0x0400_0202
	// WAITCNT is the game pak waitstate control register.
	WAITCNT HardwareAddress = 0x0400_0204
	// IME is the interrupt master enable register.
	IME HardwareAddress = 0x0400_0208

	// GPIOData is the cartridge GPIO data port, inside the ROM
	// address space. Used by the RTC and other in-cart devices.
	GPIOData HardwareAddress = 0x0800_00C4
	// GPIODirection is the cartridge GPIO direction port.
	GPIODirection HardwareAddress = 0x0800_00C6
	// GPIOControl is the cartridge GPIO control port. Bit 0
	// makes the data and direction ports readable.
	GPIOControl HardwareAddress = 0x0800_00C8
)
