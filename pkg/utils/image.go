//go:build !test

package utils

import (
	"bytes"
	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
	"golang.org/x/image/draw"
	"image"
	"image/png"
	"os"
)

// Scale resizes img by the given integer factor using
// nearest-neighbour interpolation, keeping the hard pixel
// edges of the emulated display.
func Scale(img image.Image, factor int) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*factor, bounds.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func CopyImage(img image.Image) error {
	err := clipboard.Init()
	if err != nil {
		return err
	}

	// encode image to byte slice
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())

	return nil
}

func SaveImage(img image.Image) error {
	// ask user where to save the image
	filename, err := dialog.File().Filter("PNG Image", "png").Title("Save Image").Save()
	if err != nil {
		return err
	}

	// does file have a .png extension?
	if len(filename) < 4 || filename[len(filename)-4:] != ".png" {
		filename += ".png"
	}

	// save the image
	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = png.Encode(file, img)
	if err != nil {
		return err
	}

	return file.Close()
}
