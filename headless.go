package vision8

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"vision8/byteconv"
	"vision8/chip8"
)

// Headless runs up to slices slices without a window, audio or pacing. Zero
// slices runs until the machine halts or ctx is done. It returns the fault
// that halted the machine, or nil when it stopped for any other reason.
func (e *Emulator) Headless(ctx context.Context, slices int) error {
	e.headless = true
	e.ctx = ctx

	var n int
	for slices == 0 || n < slices {
		n++
		if err := e.cpu.Execute(); err != nil {
			break
		}
	}

	err := e.cpu.Err()
	e.log.Info("headless run finished",
		zap.Int("slices", n),
		zap.Int("frames", e.frames),
		zap.String("pc", byteconv.U16toh(e.cpu.ProgramCounter(), 3)),
		zap.String("reason", chip8.Reason(err)))

	if errors.Is(err, chip8.ErrStopped) {
		return nil
	}
	return err
}
