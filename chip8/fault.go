package chip8

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode    = errors.New("unknown opcode")
	ErrStackOverflow    = errors.New("stack overflow")
	ErrStackUnderflow   = errors.New("stack underflow")
	ErrStopped          = errors.New("stopped by host")
	ErrProgramTruncated = errors.New("program truncated")
)

// Fault describes an instruction that could not execute.
type Fault struct {
	Opcode Opcode
	// PC is the address the opcode was fetched from.
	PC  uint16
	Err error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%v: %04X at %03X", f.Err, uint16(f.Opcode), f.PC)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Reason returns a short code for the fault, suitable for display.
func (f *Fault) Reason() string {
	return Reason(f)
}

// Reason maps an error returned by Execute or Step to a reason code.
func Reason(err error) string {
	switch {
	case err == nil:
		return "running"
	case errors.Is(err, ErrUnknownOpcode):
		return "unknown-opcode"
	case errors.Is(err, ErrStackOverflow):
		return "stack-overflow"
	case errors.Is(err, ErrStackUnderflow):
		return "stack-underflow"
	case errors.Is(err, ErrStopped):
		return "stopped"
	}
	return "error"
}
