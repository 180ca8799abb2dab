/*
 * Copyright 2026 Joshua Jones <joshua.jones.software@gmail.com>
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      www.apache.org
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package chip8

import "go.uber.org/zap"

const (
	Width  int = 64
	Height int = 32
	Area   int = Width * Height

	SuperWidth  int = 128
	SuperHeight int = 64
	SuperArea   int = SuperWidth * SuperHeight

	PixelOn  byte = 0xFF
	PixelOff byte = 0x00

	// ScrollStep is the number of columns moved by the horizontal scrolls.
	ScrollStep = 4
)

// DisplaySize returns the dimensions of the pixel buffer. They depend only on
// the variant: the Super buffer is always 128x64 and low resolution pixels
// occupy 2x2 cells of it.
func (p *Processor) DisplaySize() (int, int) {
	if p.cfg.Variant == Super {
		return SuperWidth, SuperHeight
	}
	return Width, Height
}

// Resolution returns the grid addressed by programs in the current mode.
func (p *Processor) Resolution() (int, int) {
	if p.mode == HighRes {
		return SuperWidth, SuperHeight
	}
	return Width, Height
}

// Display returns the pixel buffer, row major, one byte per pixel. Lit pixels
// hold PixelOn. The slice aliases the machine's buffer.
func (p *Processor) Display() []byte {
	w, h := p.DisplaySize()
	return p.display[:w*h]
}

// Pixel reports whether the buffer cell at x, y is lit.
func (p *Processor) Pixel(x, y int) bool {
	w, h := p.DisplaySize()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return p.display[y*w+x] == PixelOn
}

func (p *Processor) Mode() Mode {
	return p.mode
}

func (p *Processor) setMode(m Mode) {
	clear(p.display[:])
	p.mode = m
	p.info |= Redraw
	p.log.Debug("display mode", zap.Stringer("mode", m))
}

func (p *Processor) DrawSprite(x, y, n byte) {
	var erased bool

	switch {
	case p.cfg.Variant == Classic:
		erased = p.drawSprite8(int(x)&(Width-1), int(y)&(Height-1), int(n), Height)
	case p.mode == HighRes && n == 0:
		erased = p.drawSprite16(int(x)&(SuperWidth-1), int(y)&(SuperHeight-1))
	case p.mode == HighRes:
		erased = p.drawSprite8(int(x)&(SuperWidth-1), int(y)&(SuperHeight-1), int(n), SuperHeight)
	default:
		erased = p.drawScaledSprite(int(x)&(Width-1), int(y)&(Height-1), int(n))
	}

	// VF reports whether any lit pixel was turned off.
	p.v[CarryFlag] = 0
	if erased {
		p.v[CarryFlag] = 1
	}
}

// drawSprite8 draws an 8 pixel wide sprite at native resolution. Rows past
// the bottom of the display are clipped.
func (p *Processor) drawSprite8(x, y, rows, height int) bool {
	var erased bool

	addr := p.i
	for row := range min(rows, height-y) {
		if p.xorRow(p.load(addr), x, y+row) {
			erased = true
		}
		addr++
	}
	return erased
}

// drawSprite16 draws the 16x16 sprite, two bytes per row.
func (p *Processor) drawSprite16(x, y int) bool {
	var erased bool

	addr := p.i
	for row := range min(16, SuperHeight-y) {
		if p.xorRow(p.load(addr), x, y+row) {
			erased = true
		}
		if p.xorRow(p.load(addr+1), (x+8)&(SuperWidth-1), y+row) {
			erased = true
		}
		addr += 2
	}
	return erased
}

// drawScaledSprite draws a low resolution sprite on the Super buffer, each
// sprite pixel becoming a 2x2 block. A row count of zero draws 16 rows.
func (p *Processor) drawScaledSprite(x, y, rows int) bool {
	var erased bool

	if rows == 0 {
		rows = 16
	}

	addr := p.i
	for row := range min(rows, Height-y) {
		col := x * 2
		for bits := p.load(addr); bits != 0; bits <<= 1 {
			if bits&0x80 != 0 && p.xorBlock(col, (y+row)*2) {
				erased = true
			}
			col = (col + 2) & (SuperWidth - 1)
		}
		addr++
	}
	return erased
}

// xorRow toggles the cells of buffer row y under the set bits of one sprite
// byte, starting at column x and wrapping at the right edge. It reports
// whether a lit cell went dark.
func (p *Processor) xorRow(bits byte, x, y int) bool {
	var erased bool

	w, _ := p.DisplaySize()
	line := p.display[y*w : (y+1)*w]
	for ; bits != 0; bits <<= 1 {
		if bits&0x80 != 0 {
			line[x] ^= PixelOn
			if line[x] == PixelOff {
				erased = true
			}
		}
		x = (x + 1) & (w - 1)
	}
	return erased
}

func (p *Processor) xorBlock(col, line int) bool {
	cells := [...]int{
		line*SuperWidth + col,
		line*SuperWidth + col + 1,
		(line+1)*SuperWidth + col,
		(line+1)*SuperWidth + col + 1,
	}

	var lit byte
	for _, c := range cells {
		p.display[c] ^= PixelOn
		lit |= p.display[c]
	}
	return lit == PixelOff
}

func clearScreen(p *Processor) {
	clear(p.display[:])
	p.info |= Redraw
}

func drawSprite(p *Processor, x, y, n uint8) {
	p.DrawSprite(p.v[x], p.v[y], n)
	p.info |= Redraw
}

func scrollDown(p *Processor, n uint8) {
	w, h := p.DisplaySize()
	buf := p.display[:w*h]
	shift := int(n) * w

	copy(buf[shift:], buf[:len(buf)-shift])
	clear(buf[:shift])
	p.info |= Redraw
}

func scrollRight(p *Processor) {
	w, h := p.DisplaySize()
	for y := range h {
		line := p.display[y*w : (y+1)*w]
		copy(line[ScrollStep:], line[:w-ScrollStep])
		clear(line[:ScrollStep])
	}
	p.info |= Redraw
}

func scrollLeft(p *Processor) {
	w, h := p.DisplaySize()
	for y := range h {
		line := p.display[y*w : (y+1)*w]
		copy(line, line[ScrollStep:])
		clear(line[w-ScrollStep:])
	}
	p.info |= Redraw
}
