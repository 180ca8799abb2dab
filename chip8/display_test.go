package chip8

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draw builds a program that points I at addr and draws n rows at x, y.
func draw(x, y byte, addr uint16, n byte) []uint16 {
	return []uint16{
		0x6000 | uint16(x),
		0x6100 | uint16(y),
		0xA000 | addr&0xFFF,
		0xD010 | uint16(n&0x0F),
	}
}

func litCells(p *Processor) int {
	var n int
	for _, c := range p.Display() {
		if c == PixelOn {
			n++
		}
	}
	return n
}

func TestDrawGlyph(t *testing.T) {
	p, _ := newProcessor(t, classicConfig(), draw(0, 0, GlyphAddress(0), FontHeight)...)
	steps(t, p, 3)

	info, err := p.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Redraw)

	rows := []string{
		"####....",
		"#..#....",
		"#..#....",
		"#..#....",
		"####....",
		"........",
	}
	for y, row := range rows {
		for x, c := range row {
			assert.Equal(t, c == '#', p.Pixel(x, y), "pixel %d,%d", x, y)
		}
	}
	assert.Zero(t, p.Register(CarryFlag))
	assert.Equal(t, 14, litCells(p))
}

func TestDrawTwiceErases(t *testing.T) {
	words := append(draw(10, 10, GlyphAddress(8), FontHeight), 0xD015)
	p, _ := newProcessor(t, classicConfig(), words...)

	steps(t, p, 4)
	assert.Zero(t, p.Register(CarryFlag))

	steps(t, p, 1)
	assert.Equal(t, byte(1), p.Register(CarryFlag))
	assert.Zero(t, litCells(p))
}

func TestDrawPartialOverlapCollides(t *testing.T) {
	// A 1 drawn two columns right overlaps the right edge of the 0.
	words := append(draw(0, 0, GlyphAddress(0), FontHeight),
		0x6002, 0xA000|GlyphAddress(1), 0xD015)
	p, _ := newProcessor(t, classicConfig(), words...)
	steps(t, p, 7)

	assert.Equal(t, byte(1), p.Register(CarryFlag))
}

func TestDrawOntoBlankDoesNotCollide(t *testing.T) {
	words := append(draw(0, 0, GlyphAddress(0), FontHeight),
		0x6020, 0xD015)
	p, _ := newProcessor(t, classicConfig(), words...)
	steps(t, p, 6)

	assert.Zero(t, p.Register(CarryFlag))
	assert.Equal(t, 28, litCells(p))
}

func TestDrawClipsAtBottom(t *testing.T) {
	p, _ := newProcessor(t, classicConfig(), draw(0, 30, GlyphAddress(0), FontHeight)...)
	steps(t, p, 4)

	assert.True(t, p.Pixel(0, 30))
	assert.True(t, p.Pixel(3, 31))
	assert.False(t, p.Pixel(0, 0))
	assert.False(t, p.Pixel(0, 1))
	assert.Equal(t, 6, litCells(p))
}

func TestDrawWrapsHorizontally(t *testing.T) {
	p, _ := newProcessor(t, classicConfig(), draw(62, 0, GlyphAddress(0), 1)...)
	steps(t, p, 4)

	for _, x := range []int{62, 63, 0, 1} {
		assert.True(t, p.Pixel(x, 0), "pixel %d", x)
	}
	assert.False(t, p.Pixel(2, 0))
	assert.False(t, p.Pixel(61, 0))
}

func TestDrawMasksCoordinates(t *testing.T) {
	p, _ := newProcessor(t, classicConfig(), draw(0x42, 0x21, GlyphAddress(0), 1)...)
	steps(t, p, 4)

	assert.True(t, p.Pixel(2, 1))
	assert.True(t, p.Pixel(5, 1))
	assert.Equal(t, 4, litCells(p))
}

func TestDrawClassicZeroRows(t *testing.T) {
	p, _ := newProcessor(t, classicConfig(), draw(0, 0, GlyphAddress(0), 0)...)
	steps(t, p, 4)

	assert.Zero(t, litCells(p))
	assert.Zero(t, p.Register(CarryFlag))
}

func TestDrawLowResOnSuper(t *testing.T) {
	p, _ := newProcessor(t, superConfig(), draw(1, 1, GlyphAddress(0), 1)...)
	steps(t, p, 4)

	w, h := p.DisplaySize()
	assert.Equal(t, SuperWidth, w)
	assert.Equal(t, SuperHeight, h)

	for x := 2; x < 10; x++ {
		assert.True(t, p.Pixel(x, 2), "pixel %d,2", x)
		assert.True(t, p.Pixel(x, 3), "pixel %d,3", x)
	}
	assert.False(t, p.Pixel(10, 2))
	assert.False(t, p.Pixel(2, 4))
	assert.Equal(t, 16, litCells(p))
}

func TestDrawLowResSixteenRows(t *testing.T) {
	p, _ := newProcessor(t, superConfig(), draw(0, 0, 0x300, 0)...)
	p.Write(0x300, bytes.Repeat([]byte{0x80}, 16))
	steps(t, p, 4)

	assert.True(t, p.Pixel(0, 0))
	assert.True(t, p.Pixel(1, 31))
	assert.False(t, p.Pixel(0, 32))
	assert.Equal(t, 64, litCells(p))
}

func TestDrawHighResSixteenBySixteen(t *testing.T) {
	words := append([]uint16{0x00FF}, draw(0, 60, 0x300, 0)...)
	p, _ := newProcessor(t, superConfig(), words...)
	p.Write(0x300, bytes.Repeat([]byte{0xFF}, 32))
	steps(t, p, 5)

	assert.True(t, p.Pixel(0, 60))
	assert.True(t, p.Pixel(15, 63))
	assert.False(t, p.Pixel(16, 60))
	assert.False(t, p.Pixel(0, 0))
	assert.Equal(t, 64, litCells(p))
	assert.Zero(t, p.Register(CarryFlag))
}

func TestDrawHighResWraps(t *testing.T) {
	words := append([]uint16{0x00FF}, draw(0x7F, 0, GlyphAddress(0), 1)...)
	p, _ := newProcessor(t, superConfig(), words...)
	steps(t, p, 5)

	for _, x := range []int{127, 0, 1, 2} {
		assert.True(t, p.Pixel(x, 0), "pixel %d", x)
	}
	assert.Equal(t, 4, litCells(p))
}

func TestModeSwitchClears(t *testing.T) {
	words := append(draw(0, 0, GlyphAddress(0), FontHeight), 0x00FF, 0x00FE)
	p, _ := newProcessor(t, superConfig(), words...)

	steps(t, p, 4)
	require.NotZero(t, litCells(p))
	w, h := p.Resolution()
	assert.Equal(t, []int{Width, Height}, []int{w, h})

	info, err := p.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Redraw)
	assert.Equal(t, HighRes, p.Mode())
	assert.Zero(t, litCells(p))
	w, h = p.Resolution()
	assert.Equal(t, []int{SuperWidth, SuperHeight}, []int{w, h})

	steps(t, p, 1)
	assert.Equal(t, LowRes, p.Mode())
	w, h = p.Resolution()
	assert.Equal(t, []int{Width, Height}, []int{w, h})
}

func TestScrolls(t *testing.T) {
	words := append([]uint16{0x00FF}, draw(0, 0, GlyphAddress(0), 1)...)
	words = append(words, 0x00C2, 0x00FB, 0x00FC, 0x00FC)
	p, _ := newProcessor(t, superConfig(), words...)
	steps(t, p, 5)

	row := func(y int) []bool {
		cells := make([]bool, 12)
		for x := range cells {
			cells[x] = p.Pixel(x, y)
		}
		return cells
	}
	lit := func(from, to int) []bool {
		cells := make([]bool, 12)
		for x := from; x < to; x++ {
			cells[x] = true
		}
		return cells
	}

	assert.Equal(t, lit(0, 4), row(0))

	steps(t, p, 1)
	assert.Equal(t, lit(0, 0), row(0))
	assert.Equal(t, lit(0, 4), row(2))

	steps(t, p, 1)
	assert.Equal(t, lit(4, 8), row(2))

	steps(t, p, 1)
	assert.Equal(t, lit(0, 4), row(2))

	// Columns pushed past the left edge are lost.
	steps(t, p, 1)
	assert.Zero(t, litCells(p))
}

func TestScrollDownDropsBottomRows(t *testing.T) {
	words := append([]uint16{0x00FF}, draw(0, 63, GlyphAddress(0), 1)...)
	words = append(words, 0x00C1)
	p, _ := newProcessor(t, superConfig(), words...)
	steps(t, p, 5)
	require.Equal(t, 4, litCells(p))

	steps(t, p, 1)
	assert.Zero(t, litCells(p))
}

func TestClearScreen(t *testing.T) {
	words := append(draw(0, 0, GlyphAddress(0), FontHeight), 0x00E0)
	p, _ := newProcessor(t, classicConfig(), words...)
	steps(t, p, 4)
	require.NotZero(t, litCells(p))

	info, err := p.Step()
	require.NoError(t, err)
	assert.NotZero(t, info&Redraw)
	assert.Zero(t, litCells(p))
}
