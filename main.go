package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/thelolagemann/gomeboy-advance/internal/gba"
	"github.com/thelolagemann/gomeboy-advance/internal/io"
	"github.com/thelolagemann/gomeboy-advance/pkg/display"
	"github.com/thelolagemann/gomeboy-advance/pkg/display/web"
	"github.com/thelolagemann/gomeboy-advance/pkg/log"
	"github.com/thelolagemann/gomeboy-advance/pkg/utils"
)

func main() {
	// init display package
	display.Init()

	var logger = log.New()

	biosFile := flag.String("bios", "", "The bios image to load")
	displayDriver := flag.String("driver", "auto", "The display driver to use. Can be auto or sdl")
	webAddr := flag.String("web", "", "Stream frames to browsers on the given address, e.g. :8090")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <path_to_rom>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	romFile := flag.Arg(0)
	if romFile == "" || flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	g := gba.NewGBA(gba.WithLogger(logger))

	if *biosFile != "" {
		if !utils.IsSize(*biosFile, 16384) {
			logger.Errorf("BIOS %s is not a raw 16KiB image", *biosFile)
		}
		if err := g.LoadBIOS(*biosFile); err != nil {
			logger.Errorf("unable to load BIOS %s: %s", *biosFile, err)
			os.Exit(2)
		}
	} else {
		logger.Infof("no BIOS image given, SWI handlers will not work")
	}

	if err := g.LoadROM(romFile); err != nil {
		logger.Errorf("unable to load ROM %s: %s", romFile, err)
		os.Exit(2)
	}

	driver := display.GetDriver(*displayDriver)
	if driver == nil {
		logger.Fatal("invalid display driver")
	}

	// create input channels
	pressed := make(chan io.Button, 8)
	released := make(chan io.Button, 8)

	// handle input
	go func() {
		for {
			select {
			case b := <-pressed:
				g.Press(b)
			case b := <-released:
				g.Release(b)
			}
		}
	}()

	// stream frames to browsers when asked to
	if *webAddr != "" {
		hub := web.NewHub(logger)
		go func() {
			if err := hub.Run(*webAddr); err != nil {
				logger.Errorf("web: %s", err)
			}
		}()
		go func() {
			ticker := time.NewTicker(time.Second / gba.FrameRate)
			for range ticker.C {
				hub.Broadcast(g.Frame().Pix)
			}
		}()
	}

	// start the display driver (blocking)
	if err := driver.Start(g, pressed, released); err != nil {
		logger.Fatal(err.Error())
	}

	// flush the cartridge backing store on the way out
	if err := g.Save(); err != nil {
		logger.Fatal(fmt.Sprintf("unable to save: %v", err))
	}
}
