package chip8

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// registers renders V0..VF for trace output.
type registers [RegisterCount]byte

func (r registers) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, v := range r {
		enc.AppendString(u8toh(v, 2))
	}
	return nil
}

func (p *Processor) traceOpcode(pc uint16, op Opcode) {
	p.log.Debug("trace",
		zap.String("pc", u16toh(pc, 3)),
		zap.String("opcode", u16toh(uint16(op), 4)),
		zap.Stringer("asm", op),
		zap.Array("v", registers(p.v)),
		zap.String("i", u16toh(p.i, 3)),
		zap.String("sp", u16toh(p.sp, 3)),
		zap.Uint8("dt", p.delay),
		zap.Uint8("st", p.sound))
}

// SetTrace switches per-instruction tracing on or off.
func (p *Processor) SetTrace(on bool) {
	p.trace = on
}

func (p *Processor) Tracing() bool {
	return p.trace
}
