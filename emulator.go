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

package vision8

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vision8/byteconv"
	"vision8/chip8"
)

// idleInterval is how often a paused or halted machine checks for input.
const idleInterval = 20 * time.Millisecond

// Emulator drives a Processor and implements its Host. Run presents it in a
// window; Headless runs it without one.
type Emulator struct {
	cfg  Config
	base *zap.Logger
	log  *zap.Logger
	cpu  *chip8.Processor
	beep *Beep

	paused atomic.Bool
	next   atomic.Bool
	reset  atomic.Bool
	stop   atomic.Bool

	// Owned by the goroutine driving the processor.
	ctx        context.Context
	session    uuid.UUID
	headless   bool
	ticker     *time.Ticker
	interrupts int
	frames     int
	dirty      bool
	panel      *panel
}

func NewEmulator(cfg Config, logger *zap.Logger) *Emulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FrameSkip < 1 {
		cfg.FrameSkip = 1
	}

	e := &Emulator{
		cfg:  cfg,
		base: logger.Named("host"),
		beep: NewBeep(cfg.Tone, logger.Named("audio")),
		ctx:  context.Background(),
	}
	e.newSession()
	e.cpu = chip8.New(cfg.Machine(), e, logger.Named("chip8"))
	return e
}

func (e *Emulator) newSession() {
	e.session = uuid.New()
	e.log = e.base.With(zap.Stringer("session", e.session))
}

func (e *Emulator) Processor() *chip8.Processor {
	return e.cpu
}

// Frames returns the number of frames presented with a changed display.
func (e *Emulator) Frames() int {
	return e.frames
}

func (e *Emulator) Load(b []byte) error {
	n, err := e.cpu.Load(b)
	e.log.Info("program loaded",
		zap.Int("size", n),
		zap.Stringer("variant", e.cpu.Variant()))
	return err
}

func (e *Emulator) SoundOn() {
	if e.headless {
		e.log.Debug("sound on")
		return
	}
	if err := e.beep.Start(e.ctx); err != nil {
		e.log.Warn("beep unavailable", zap.Error(err))
	}
}

func (e *Emulator) SoundOff() {
	if e.headless {
		return
	}
	if err := e.beep.Stop(); err != nil {
		e.log.Warn("beep failed", zap.Error(err))
	}
}

// Interrupt presents every FrameSkip-th slice and then waits for the next
// tick of the pacing clock.
func (e *Emulator) Interrupt() {
	if e.stop.Swap(false) || e.ctx.Err() != nil {
		e.cpu.Stop()
	}

	if e.cpu.Info()&chip8.Redraw != 0 {
		e.dirty = true
	}

	e.interrupts++
	if e.interrupts%e.cfg.FrameSkip == 0 {
		e.present()
	}

	e.pace()
}

func (e *Emulator) present() {
	var frame *image.RGBA
	if e.dirty {
		e.frames++
		e.dirty = false
		if e.panel != nil {
			frame = snapshot(e.cpu)
		}
	}

	if e.panel != nil && e.ctx.Err() == nil {
		e.panel.update(e.status(), frame)
	}
}

func (e *Emulator) pace() {
	if e.ticker == nil {
		return
	}
	select {
	case <-e.ticker.C:
	case <-e.ctx.Done():
	}
}

func (e *Emulator) idle(ctx context.Context) {
	select {
	case <-time.After(idleInterval):
	case <-ctx.Done():
	}
}

type status struct {
	pc    uint16
	index uint16
	depth int
	regs  [chip8.RegisterCount]byte
	mode  chip8.Mode
	next  string
	state string
}

func (e *Emulator) status() status {
	pc := e.cpu.ProgramCounter()
	op := e.cpu.OpcodeAt(pc)

	state := chip8.Reason(e.cpu.Err())
	if e.cpu.Running() && e.paused.Load() {
		state = "paused"
	}

	return status{
		pc:    pc,
		index: e.cpu.Index(),
		depth: e.cpu.StackDepth(),
		regs:  e.cpu.Registers(),
		mode:  e.cpu.Mode(),
		next:  byteconv.U16toh(pc, 3) + "  " + op.String(),
		state: state,
	}
}

// Run opens the window and drives the machine until the window is closed
// or ctx is done.
func (e *Emulator) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.New()
	w := a.NewWindow("vision8 - " + e.cpu.Variant().String())

	p, err := newPanel(e, w)
	if err != nil {
		return err
	}
	e.panel = p

	if e.cfg.Rate > 0 {
		e.ticker = time.NewTicker(time.Second / time.Duration(e.cfg.Rate))
		defer e.ticker.Stop()
	}

	g, ctx := errgroup.WithContext(ctx)
	e.ctx = ctx

	g.Go(func() error {
		defer func() {
			if err := e.beep.Stop(); err != nil {
				e.log.Warn("beep failed", zap.Error(err))
			}
		}()
		return e.loop(ctx)
	})

	closed := make(chan struct{})
	g.Go(func() error {
		select {
		case <-ctx.Done():
			fyne.Do(a.Quit)
		case <-closed:
		}
		return nil
	})

	e.log.Info("window opened",
		zap.Int("rate", e.cfg.Rate),
		zap.Int("period", e.cfg.Period),
		zap.Int("frameskip", e.cfg.FrameSkip))

	w.ShowAndRun()
	close(closed)
	cancel()

	return g.Wait()
}

func (e *Emulator) loop(ctx context.Context) error {
	for ctx.Err() == nil {
		if e.reset.Swap(false) {
			e.cpu.Reset()
			e.newSession()
			e.log.Info("machine reset")
			e.present()
		}

		if e.stop.Swap(false) {
			e.cpu.Stop()
		}

		switch {
		case !e.cpu.Running():
			e.idle(ctx)
		case e.paused.Load():
			if e.next.Swap(false) {
				e.step()
				continue
			}
			e.idle(ctx)
		default:
			if err := e.cpu.Execute(); err != nil {
				e.halted(err)
			}
		}
	}
	return nil
}

// step executes one instruction while paused and shows it in the console.
func (e *Emulator) step() {
	info, err := e.cpu.Step()
	if info&chip8.Redraw != 0 {
		e.dirty = true
	}
	if err != nil {
		e.halted(err)
		return
	}
	e.present()
}

func (e *Emulator) halted(err error) {
	pc := byteconv.U16toh(e.cpu.ProgramCounter(), 3)

	if errors.Is(err, chip8.ErrStopped) {
		e.log.Info("machine stopped", zap.String("pc", pc))
	} else {
		e.log.Error("machine halted", zap.String("pc", pc), zap.Error(err))
	}
	e.present()
}

func (e *Emulator) onKeyDown(k *fyne.KeyEvent) {
	if hex, ok := keyMap[k.Name]; ok {
		e.cpu.SetKey(hex, true)
	}
}

func (e *Emulator) onKeyUp(k *fyne.KeyEvent) {
	switch k.Name {
	case fyne.KeyP:
		e.paused.Store(!e.paused.Load())
		return
	case fyne.KeyN:
		e.next.Store(true)
		return
	case fyne.KeyEscape:
		e.stop.Store(true)
		return
	}

	if hex, ok := keyMap[k.Name]; ok {
		e.cpu.SetKey(hex, false)
	}
}
