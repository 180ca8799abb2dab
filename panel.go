package vision8

import (
	"errors"
	"image"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"vision8/byteconv"
	"vision8/chip8"
)

const consoleLines = 9

// Console shows the most recent lines first.
type Console struct {
	labels []*widget.Label
	box    *fyne.Container
}

func NewConsole(capacity int) *Console {
	labels := make([]*widget.Label, capacity)
	objects := make([]fyne.CanvasObject, capacity)
	for i := range capacity {
		labels[i] = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
		objects[i] = labels[i]
	}
	return &Console{
		labels: labels,
		box:    container.NewVBox(objects...),
	}
}

// Prepend must be called on the UI goroutine.
func (c *Console) Prepend(msg string) {
	for i := len(c.labels) - 1; i > 0; i-- {
		c.labels[i].SetText(c.labels[i-1].Text)
	}
	c.labels[0].SetText(msg)
}

func (c *Console) Object() fyne.CanvasObject {
	return c.box
}

// panel holds the window widgets. Its fields are only touched on the UI
// goroutine.
type panel struct {
	screen    *canvas.Image
	console   *Console
	registers binding.StringList
	pc        *widget.Label
	index     *widget.Label
	stack     *widget.Label
	mode      *widget.Label
	state     *widget.Label
}

func newPanel(e *Emulator, w fyne.Window) (*panel, error) {
	canv, ok := w.Canvas().(desktop.Canvas)
	if !ok {
		return nil, errors.New("keyboard input needs a desktop driver")
	}
	canv.SetOnKeyDown(e.onKeyDown)
	canv.SetOnKeyUp(e.onKeyUp)

	p := &panel{
		console:   NewConsole(consoleLines),
		registers: binding.NewStringList(),
		pc:        widget.NewLabel(""),
		index:     widget.NewLabel(""),
		stack:     widget.NewLabel(""),
		mode:      widget.NewLabel(""),
		state:     widget.NewLabel(""),
	}

	p.screen = canvas.NewImageFromImage(snapshot(e.cpu))
	p.screen.FillMode = canvas.ImageFillStretch
	p.screen.ScaleMode = canvas.ImageScalePixels

	scale := float32(e.cfg.Scale)
	screen := container.New(
		layout.NewGridWrapLayout(fyne.NewSize(float32(chip8.Width)*scale, float32(chip8.Height)*scale)),
		p.screen,
	)

	console := container.New(
		layout.NewGridWrapLayout(fyne.NewSize(180, float32(chip8.Height)*scale)),
		p.console.Object(),
	)

	registerList := widget.NewListWithData(
		p.registers,
		func() fyne.CanvasObject {
			return widget.NewLabel("VF: FF")
		},
		func(di binding.DataItem, obj fyne.CanvasObject) {
			s, _ := di.(binding.String).Get()
			obj.(*widget.Label).SetText(s)
		},
	)

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			e.paused.Store(false)
		}),
		widget.NewToolbarAction(theme.MediaPauseIcon(), func() {
			e.paused.Store(true)
		}),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() {
			e.next.Store(true)
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ViewRefreshIcon(), func() {
			e.reset.Store(true)
		}),
		widget.NewToolbarAction(theme.MediaStopIcon(), func() {
			e.stop.Store(true)
		}),
	)

	labels := container.NewHBox(
		layout.NewSpacer(), p.pc,
		layout.NewSpacer(), p.index,
		layout.NewSpacer(), p.stack,
		layout.NewSpacer(), p.mode,
		layout.NewSpacer(), p.state,
		layout.NewSpacer(),
	)

	w.SetContent(container.NewBorder(toolbar, labels, console, registerList, screen))
	w.SetFixedSize(true)

	p.apply(e.status(), nil)
	return p, nil
}

// update hands a status and an optional new frame to the UI goroutine.
func (p *panel) update(st status, frame *image.RGBA) {
	fyne.Do(func() {
		p.apply(st, frame)
	})
}

func (p *panel) apply(st status, frame *image.RGBA) {
	if frame != nil {
		p.screen.Image = frame
		p.screen.Refresh()
	}

	regs := make([]string, len(st.regs))
	for i, v := range st.regs {
		regs[i] = "V" + byteconv.U8toh(uint8(i), 1) + ": " + byteconv.U8toh(v, 2)
	}
	_ = p.registers.Set(regs)

	p.console.Prepend(st.next)
	p.pc.SetText("PC: " + byteconv.U16toh(st.pc, 3))
	p.index.SetText("I: " + byteconv.U16toh(st.index, 3))
	p.stack.SetText("Stack: " + strconv.Itoa(st.depth))
	p.mode.SetText("Mode: " + st.mode.String())
	p.state.SetText(st.state)
}
