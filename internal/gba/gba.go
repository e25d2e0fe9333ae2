// Package gba provides an emulation of a Nintendo Game Boy
// Advance: the ARM7TDMI core, the memory bus and the DMA
// engine, behind the boundary a front end drives.
package gba

import (
	"bytes"
	"fmt"

	"github.com/thelolagemann/gomeboy-advance/internal/cartridge"
	"github.com/thelolagemann/gomeboy-advance/internal/cpu"
	"github.com/thelolagemann/gomeboy-advance/internal/io"
	"github.com/thelolagemann/gomeboy-advance/internal/scheduler"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
	"github.com/thelolagemann/gomeboy-advance/pkg/utils"
)

const (
	// ClockSpeed is the clock speed of the GBA.
	ClockSpeed = 16777216 // 16.78 MHz
	// FrameRate is the refresh rate of the LCD.
	FrameRate = 60
	// CyclesPerFrame is the number of CPU cycles per displayed
	// frame.
	CyclesPerFrame = io.CyclesPerFrame
)

// GBA represents a Game Boy Advance. It contains all the
// components of the system and is the main entry point for
// the emulator.
type GBA struct {
	CPU *cpu.CPU
	Bus *io.Bus

	log.Logger

	s          *scheduler.Scheduler
	savePath   string
	paused     bool
	biosLoaded bool
}

// NewGBA creates a GBA with the given options applied.
func NewGBA(opts ...Opt) *GBA {
	g := &GBA{
		Logger: log.New(),
	}
	g.s = scheduler.NewScheduler()
	g.Bus = io.NewBus(g.s, g.Logger)
	g.CPU = cpu.NewCPU(g.Bus, g.Logger)

	for _, opt := range opts {
		opt(g)
	}

	g.Reset()
	return g
}

// LoadBIOS loads the BIOS image from the given file. The image
// must be exactly 16 KiB.
func (g *GBA) LoadBIOS(path string) error {
	data, err := utils.LoadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read bios: %w", err)
	}
	if err := g.Bus.LoadBIOS(data); err != nil {
		return err
	}
	g.biosLoaded = true
	return nil
}

// LoadROM loads the cartridge ROM from the given file,
// attaches its save file and wires up the GPIO port when the
// game carries an RTC.
func (g *GBA) LoadROM(path string) error {
	data, err := utils.LoadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read rom: %w", err)
	}

	cart, err := cartridge.NewCartridge(data, g.Logger)
	if err != nil {
		return err
	}
	g.Bus.Cart = cart

	// games that link the RTC library get the GPIO port wired
	// to a clock chip
	if bytes.Contains(data, []byte("SIIRTC_V")) {
		g.Bus.GPIO = io.NewGPIO(io.NewRTC())
		g.Debugf("attached RTC to %q", cart.Header().Title)
	}

	g.savePath = cartridge.SavePath(path)
	if err := cart.AttachSave(g.savePath); err != nil {
		g.Errorf("unable to attach save file %s: %s", g.savePath, err)
	}

	return nil
}

// Reset returns the whole system to its post-BIOS state: RAM
// cleared, registers cleared, execution about to begin at the
// cartridge entry point in ARM state, System mode.
func (g *GBA) Reset() {
	g.s.Reset()
	g.Bus.Reset()
	g.CPU.Reset()
}

// Step executes a single instruction (or serves a pending
// interrupt) and advances the rest of the system by the cycles
// it consumed. Returns the cycles consumed.
func (g *GBA) Step() uint64 {
	cycles := g.CPU.Step()
	g.s.Tick(cycles)
	return cycles
}

// RunUntil steps the system until the given absolute cycle
// count has been reached.
func (g *GBA) RunUntil(cycle uint64) {
	for g.s.Cycle() < cycle {
		g.Step()
	}
}

// RunFrame steps the system until the next VBlank entry and
// clears the frame flag. A core that halts mid-frame stops
// early; the front end observes the halt through Dump.
func (g *GBA) RunFrame() {
	for !g.Bus.FrameReady() {
		if halted, _ := g.CPU.Halted(); halted {
			return
		}
		g.Step()
	}
	g.Bus.ClearFrameReady()
}

// FrameReady reports whether a frame has completed since the
// flag was last cleared.
func (g *GBA) FrameReady() bool {
	return g.Bus.FrameReady()
}

// BIOSLoaded reports whether a BIOS image has been loaded.
// Without one, software interrupts land on empty vectors.
func (g *GBA) BIOSLoaded() bool {
	return g.biosLoaded
}

// Paused reports whether the front end has paused emulation.
func (g *GBA) Paused() bool {
	return g.paused
}

// Pause stops the front end from driving frames.
func (g *GBA) Pause() {
	g.paused = true
}

// Unpause resumes frame driving.
func (g *GBA) Unpause() {
	g.paused = false
}

// Press records a button press in KEYINPUT.
func (g *GBA) Press(b io.Button) {
	g.Bus.Press(b)
}

// Release records a button release in KEYINPUT.
func (g *GBA) Release(b io.Button) {
	g.Bus.Release(b)
}

// Save flushes the cartridge backing store to disk.
func (g *GBA) Save() error {
	if g.Bus.Cart == nil {
		return nil
	}
	return g.Bus.Cart.FlushSave()
}
