package atari

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer holds the machine's video output: one RGB triple per pixel,
// row-major, top-left origin.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []byte // R, G, B, R, G, B, ...
}

func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]byte, width*height*3),
	}
}

func (fb *Framebuffer) SetPixel(x, y int, r, g, b byte) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}

	offset := (y*fb.Width + x) * 3
	fb.Pixels[offset] = r
	fb.Pixels[offset+1] = g
	fb.Pixels[offset+2] = b
}

func (fb *Framebuffer) At(x, y int) (byte, byte, byte) {
	offset := (y*fb.Width + x) * 3
	return fb.Pixels[offset], fb.Pixels[offset+1], fb.Pixels[offset+2]
}

// Clear the framebuffer to a single color.
func (fb *Framebuffer) Clear(r, g, b byte) {
	for i := 0; i < len(fb.Pixels); i += 3 {
		fb.Pixels[i] = r
		fb.Pixels[i+1] = g
		fb.Pixels[i+2] = b
	}
}

// ToRGBA copies the framebuffer into an image.RGBA, used by the PNG writer.
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{r, g, b, 0xFF})
		}
	}

	return img
}

// SavePpm writes the framebuffer as a binary PPM (P6) file.
func (fb *Framebuffer) SavePpm(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "P6\n%d %d\n255\n", fb.Width, fb.Height)
	_, err = f.Write(fb.Pixels)

	return err
}

// SavePng writes the framebuffer as a PNG file.
func (fb *Framebuffer) SavePng(filepath string) error {
	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, fb.ToRGBA())
}
