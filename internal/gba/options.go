package gba

import (
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
)

// Opt is a function that modifies a GBA instance.
type Opt func(g *GBA)

// Debug halts the core on undefined encodings for inspection
// instead of delivering the exception.
func Debug() Opt {
	return func(g *GBA) {
		g.CPU.Debug = true
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger log.Logger) Opt {
	return func(g *GBA) {
		g.Logger = logger
	}
}

// WithBIOS loads the given BIOS image instead of reading one
// from disk.
func WithBIOS(bios []byte) Opt {
	return func(g *GBA) {
		if err := g.Bus.LoadBIOS(bios); err != nil {
			g.Errorf("unable to load bios: %s", err)
			return
		}
		g.biosLoaded = true
	}
}

// WithFIFODrain installs the audio FIFO drain callback the
// front end consumes samples through.
func WithFIFODrain(fn func(fifo int, sample uint32)) Opt {
	return func(g *GBA) {
		g.Bus.OnFIFODrain(fn)
	}
}
