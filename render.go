package vision8

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"

	"vision8/chip8"
)

var (
	litColor  = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	darkColor = color.RGBA{A: 0xFF}
)

// keyMap lays the hex keypad over the left block of a QWERTY keyboard.
var keyMap = map[fyne.KeyName]uint8{
	fyne.Key1: 0x1, fyne.Key2: 0x2, fyne.Key3: 0x3, fyne.Key4: 0xC,
	fyne.KeyQ: 0x4, fyne.KeyW: 0x5, fyne.KeyE: 0x6, fyne.KeyR: 0xD,
	fyne.KeyA: 0x7, fyne.KeyS: 0x8, fyne.KeyD: 0x9, fyne.KeyF: 0xE,
	fyne.KeyZ: 0xA, fyne.KeyX: 0x0, fyne.KeyC: 0xB, fyne.KeyV: 0xF,
}

// render copies a w by h display buffer into dst, one pixel per cell.
func render(dst *image.RGBA, src []byte, w, h int) {
	for y := range h {
		row := src[y*w : (y+1)*w]
		for x, cell := range row {
			c := darkColor
			if cell == chip8.PixelOn {
				c = litColor
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

// snapshot renders the current display into a new image owned by the caller.
func snapshot(p *chip8.Processor) *image.RGBA {
	w, h := p.DisplaySize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	render(img, p.Display(), w, h)
	return img
}
