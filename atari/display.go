package atari

import (
	"image"
	"log"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

type Display struct {
	gameRgba *image.RGBA // Rectangle of RGBA points, used to manipulate pixels on the screen.

	window     *pixelgl.Window
	gameMatrix pixel.Matrix // Scale and position to render the machine's video output.

	// Debug text stuff
	debugAtlas    *text.Atlas // Used to load the font
	debugRegText  *text.Text  // CPU register printout
	debugInstText *text.Text  // CPU instruction disassembly

	isDebug bool // Debug panel enabled
}

const (
	// Main display settings
	atariResW  float64 = screenWidth
	atariResH  float64 = screenHeight
	scale      float64 = 3 // Scale at which to render the Atari display.
	gameW      float64 = atariResW * scale
	gameH      float64 = atariResH * scale
	screenPosX float64 = 600 // Where to render the display on the user's monitor.
	screenPosY float64 = 400

	// Debug panel settings
	debugResW float64 = 360
)

func NewDisplay(isDebug bool) *Display {
	rect := image.Rect(0, 0, int(atariResW), int(atariResH))
	gameRgba := image.NewRGBA(rect)

	screenW := gameW
	if isDebug {
		screenW += debugResW
	}

	config := pixelgl.WindowConfig{
		Title:    "Atari 800 Emulator",
		Bounds:   pixel.R(0, 0, screenW, gameH),
		Position: pixel.V(screenPosX, screenPosY),
		VSync:    true,
	}
	window, err := pixelgl.NewWindow(config)
	if err != nil {
		log.Fatal("Unable to create new PixelGl window...\n", err)
	}

	// Calculate matrix required to render the frame to the display at the
	// set scale.
	pic := pixel.PictureDataFromImage(gameRgba)
	gameMatrix := pixel.IM.Moved(pic.Bounds().Center().Scaled(scale))
	gameMatrix = gameMatrix.Scaled(pic.Bounds().Center().Scaled(scale), scale)

	// Debug text
	debugAtlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	debugRegText := text.New(pixel.V(gameW+8, gameH-40), debugAtlas)
	debugInstText := text.New(pixel.V(gameW+8, gameH-260), debugAtlas)

	return &Display{
		gameRgba:      gameRgba,
		window:        window,
		gameMatrix:    gameMatrix,
		debugAtlas:    debugAtlas,
		debugRegText:  debugRegText,
		debugInstText: debugInstText,
		isDebug:       isDebug,
	}
}

// DrawFrame copies a finished framebuffer into the display's backing image.
func (d *Display) DrawFrame(fb *Framebuffer) {
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			offset := (y*fb.Width + x) * 3
			i := d.gameRgba.PixOffset(x, y)
			d.gameRgba.Pix[i] = fb.Pixels[offset]
			d.gameRgba.Pix[i+1] = fb.Pixels[offset+1]
			d.gameRgba.Pix[i+2] = fb.Pixels[offset+2]
			d.gameRgba.Pix[i+3] = 0xFF
		}
	}
}

// Write a string of text to the CPU register section of the debug panel.
func (d *Display) WriteRegDebugString(t string) {
	d.debugRegText.Clear()
	d.debugRegText.WriteString(t)
}

// Write a string of text to the instruction disassembly section of the debug panel.
func (d *Display) WriteInstDebugString(t string) {
	d.debugInstText.Clear()
	d.debugInstText.WriteString(t)
}

// UpdateScreen pushes the current frame (and the debug panel, if enabled)
// out to the window.
func (d *Display) UpdateScreen() {
	d.window.Clear(colornames.Black)

	sprite := getSpriteFromImage(d.gameRgba)
	sprite.Draw(d.window, d.gameMatrix)

	if d.isDebug {
		d.debugRegText.Draw(d.window, pixel.IM)
		d.debugInstText.Draw(d.window, pixel.IM)
	}

	d.window.Update()
}

// Convenience function to get a pixel sprite from an image RGBA.
func getSpriteFromImage(img *image.RGBA) *pixel.Sprite {
	pic := pixel.PictureDataFromImage(img)
	sprite := pixel.NewSprite(pic, pic.Bounds())

	return sprite
}
