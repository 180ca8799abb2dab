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

type Opcode uint16

func (o Opcode) kind() uint8 {
	return uint8((uint16(o) & 0xF000) >> 12)
}

func (o Opcode) x() uint8 {
	return uint8((uint16(o) & 0x0F00) >> 8)
}

func (o Opcode) y() uint8 {
	return uint8((uint16(o) & 0x00F0) >> 4)
}

func (o Opcode) n() uint8 {
	return uint8(uint16(o) & 0x000F)
}

func (o Opcode) nn() uint8 {
	return uint8(uint16(o) & 0x00FF)
}

func (o Opcode) nnn() uint16 {
	return uint16(o) & 0x0FFF
}

// execute runs a decoded instruction. The program counter already points
// past it.
func (p *Processor) execute(op Opcode) error {
	switch op.kind() {
	case 0x0:
		return system(p, op)
	case 0x1:
		jumpToLocation(p, op.nnn())
	case 0x2:
		return callSubroutine(p, op.nnn())
	case 0x3:
		stepIfXEqualsNN(p, op.x(), op.nn())
	case 0x4:
		stepIfXNotEqualsNN(p, op.x(), op.nn())
	case 0x5:
		stepIfXEqualsY(p, op.x(), op.y())
	case 0x6:
		setXToNN(p, op.x(), op.nn())
	case 0x7:
		addNNToX(p, op.x(), op.nn())
	case 0x8:
		arithmetic(p, op.x(), op.y(), op.n())
	case 0x9:
		stepIfXNotEqualsY(p, op.x(), op.y())
	case 0xA:
		setIToNNN(p, op.nnn())
	case 0xB:
		jumpWithOffset(p, op.nnn())
	case 0xC:
		setXToRandom(p, op.x(), op.nn())
	case 0xD:
		drawSprite(p, op.x(), op.y(), op.n())
	case 0xE:
		return keyboard(p, op)
	case 0xF:
		return misc(p, op)
	}
	return nil
}

// system handles the 0NNN family. Only the low byte is decoded.
func system(p *Processor, op Opcode) error {
	switch op.nn() {
	case 0xE0:
		clearScreen(p)
		return nil
	case 0xEE:
		return returnFromSubroutine(p)
	}

	if p.cfg.Variant != Super {
		return ErrUnknownOpcode
	}

	switch op.nn() {
	case 0xFB:
		scrollRight(p)
	case 0xFC:
		scrollLeft(p)
	case 0xFD:
		p.log.Info("program requested exit, resetting")
		p.Reset()
	case 0xFE:
		p.setMode(LowRes)
	case 0xFF:
		p.setMode(HighRes)
	default:
		if op.y() != 0xC {
			return ErrUnknownOpcode
		}
		scrollDown(p, op.n())
	}
	return nil
}

func keyboard(p *Processor, op Opcode) error {
	switch op.nn() {
	case 0x9E:
		stepIfKeyDown(p, op.x())
	case 0xA1:
		stepIfKeyUp(p, op.x())
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func misc(p *Processor, op Opcode) error {
	x := op.x()

	switch op.nn() {
	case 0x07:
		setXToDelay(p, x)
	case 0x0A:
		pauseUntilKeyPressed(p, x)
	case 0x15:
		setDelayToX(p, x)
	case 0x18:
		setSoundToX(p, x)
	case 0x1E:
		addXToI(p, x)
	case 0x29:
		setIToSymbol(p, x)
	case 0x33:
		binaryCodedDecimal(p, x)
	case 0x55:
		setRegistersToMemory(p, x)
	case 0x65:
		setMemoryToRegisters(p, x)
	case 0x30, 0x75, 0x85:
		if p.cfg.Variant != Super {
			return ErrUnknownOpcode
		}
		switch op.nn() {
		case 0x30:
			setIToExtendedSymbol(p, x)
		case 0x75:
			setRegistersToFlags(p, x)
		case 0x85:
			setFlagsToRegisters(p, x)
		}
	default:
		return ErrUnknownOpcode
	}
	return nil
}

func callSubroutine(p *Processor, nnn uint16) error {
	if p.sp < StackLimit+2 {
		return ErrStackOverflow
	}
	p.sp--
	p.store(p.sp, byte(p.pc))
	p.sp--
	p.store(p.sp, byte(p.pc>>8))
	p.pc = nnn
	return nil
}

func returnFromSubroutine(p *Processor) error {
	if p.sp >= StackTop {
		return ErrStackUnderflow
	}
	high := uint16(p.load(p.sp))
	low := uint16(p.load(p.sp + 1))
	p.sp += 2
	p.pc = (high<<8 | low) & AddressMask
	return nil
}

func jumpToLocation(p *Processor, nnn uint16) {
	p.pc = nnn
}

func jumpWithOffset(p *Processor, nnn uint16) {
	p.pc = (nnn + uint16(p.v[0x0])) & AddressMask
}

func skip(p *Processor) {
	p.pc = (p.pc + 2) & AddressMask
}

func stepIfXEqualsNN(p *Processor, x, nn uint8) {
	if p.v[x] == nn {
		skip(p)
	}
}

func stepIfXNotEqualsNN(p *Processor, x, nn uint8) {
	if p.v[x] != nn {
		skip(p)
	}
}

func stepIfXEqualsY(p *Processor, x, y uint8) {
	if p.v[x] == p.v[y] {
		skip(p)
	}
}

func stepIfXNotEqualsY(p *Processor, x, y uint8) {
	if p.v[x] != p.v[y] {
		skip(p)
	}
}

func setXToNN(p *Processor, x, nn uint8) {
	p.v[x] = nn
}

func addNNToX(p *Processor, x, nn uint8) {
	p.v[x] += nn
}

func setIToNNN(p *Processor, nnn uint16) {
	p.i = nnn
}

func setXToRandom(p *Processor, x, nn uint8) {
	p.v[x] = p.random() & nn
}

func stepIfKeyDown(p *Processor, x uint8) {
	if p.Key(p.v[x]) {
		skip(p)
	}
}

func stepIfKeyUp(p *Processor, x uint8) {
	if !p.Key(p.v[x]) {
		skip(p)
	}
}

func setXToDelay(p *Processor, x uint8) {
	p.v[x] = p.delay
}

// pauseUntilKeyPressed replays itself until a key is signalled as newly
// pressed. The signal only changes between slices, so a waiting program
// spins for the rest of the slice.
func pauseUntilKeyPressed(p *Processor, x uint8) {
	if key, ok := p.KeyPressed(); ok {
		p.v[x] = key
		return
	}
	p.pc = (p.pc - 2) & AddressMask
}

func setDelayToX(p *Processor, x uint8) {
	p.delay = p.v[x]
}

func setSoundToX(p *Processor, x uint8) {
	p.sound = p.v[x]
	if p.sound > 0 {
		p.host.SoundOn()
	}
}

func addXToI(p *Processor, x uint8) {
	p.i += uint16(p.v[x])
}

func setIToSymbol(p *Processor, x uint8) {
	p.i = GlyphAddress(p.v[x])
}

func setIToExtendedSymbol(p *Processor, x uint8) {
	p.i = ExtendedGlyphAddress(p.v[x])
}

func binaryCodedDecimal(p *Processor, x uint8) {
	// Double dabble: shift the value in one bit at a time, adding 3 to every
	// BCD digit that is 5 or more before each shift.
	var bcd uint32

	val := uint32(p.v[x])

	for i := range 8 {
		if (bcd & 0x00F) >= 5 {
			bcd += 3
		}

		if (bcd & 0x0F0) >= 0x050 {
			bcd += 0x030
		}

		if (bcd & 0xF00) >= 0x500 {
			bcd += 0x300
		}

		bcd = (bcd << 1) | ((val >> (7 - i)) & 1)
	}

	p.store(p.i, byte((bcd>>8)&0xF))   // Hundreds
	p.store(p.i+1, byte((bcd>>4)&0xF)) // Tens
	p.store(p.i+2, byte(bcd&0xF))      // Ones
}

func setRegistersToMemory(p *Processor, x uint8) {
	for i := uint8(0); i <= x; i++ {
		p.store(p.i+uint16(i), p.v[i])
	}
}

func setMemoryToRegisters(p *Processor, x uint8) {
	for i := uint8(0); i <= x; i++ {
		p.v[i] = p.load(p.i + uint16(i))
	}
}

// The flag storage holds V0 through V7 at most; larger register numbers
// are clamped.
func setRegistersToFlags(p *Processor, x uint8) {
	x = min(x, FlagCount-1)
	copy(p.flags[:x+1], p.v[:x+1])
	p.log.Debug("flags saved", zap.Uint8("count", x+1))
}

func setFlagsToRegisters(p *Processor, x uint8) {
	x = min(x, FlagCount-1)
	copy(p.v[:x+1], p.flags[:x+1])
}
