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

import (
	"strings"

	isa "github.com/retroenv/retrogolib/arch/cpu/chip8"

	"vision8/byteconv"
)

func u16toh(i uint16, n int) string {
	return byteconv.U16toh(i, n)
}

func u8toh(i uint8, n int) string {
	return byteconv.U8toh(i, n)
}

// String returns the assembly mnemonic of the opcode. Words that are not
// instructions render as a data directive.
func (op Opcode) String() string {
	name, ok := op.mnemonic()
	if !ok {
		return "DW #" + u16toh(uint16(op), 4)
	}
	if args := op.operands(); args != "" {
		return name + " " + args
	}
	return name
}

// mnemonic looks the opcode up in the CHIP-8 instruction table and falls
// back to the SCHIP additions and the loosely decoded 5XY_ and 9XY_ forms.
func (op Opcode) mnemonic() (string, bool) {
	for _, o := range isa.Opcodes[op.kind()] {
		if uint16(op)&o.Info.Mask == o.Info.Value {
			return strings.ToUpper(o.Instruction.Name), true
		}
	}

	switch op.kind() {
	case 0x0:
		switch op.nn() {
		case 0xFB:
			return "SCR", true
		case 0xFC:
			return "SCL", true
		case 0xFD:
			return "EXIT", true
		case 0xFE:
			return "LOW", true
		case 0xFF:
			return "HIGH", true
		}
		if op.y() == 0xC {
			return "SCD", true
		}
	case 0x5:
		return "SE", true
	case 0x9:
		return "SNE", true
	case 0xF:
		switch op.nn() {
		case 0x30, 0x75, 0x85:
			return "LD", true
		}
	}
	return "", false
}

func (op Opcode) operands() string {
	vx := "V" + u8toh(op.x(), 1)
	vy := "V" + u8toh(op.y(), 1)

	switch op.kind() {
	case 0x0:
		if op.y() == 0xC {
			return u8toh(op.n(), 1)
		}
	case 0x1, 0x2:
		return u16toh(op.nnn(), 3)
	case 0x3, 0x4, 0x6, 0x7, 0xC:
		return vx + ", " + u8toh(op.nn(), 2)
	case 0x5, 0x9:
		return vx + ", " + vy
	case 0x8:
		if op.n() == 0x6 || op.n() == 0xE {
			return vx
		}
		return vx + ", " + vy
	case 0xA:
		return "I, " + u16toh(op.nnn(), 3)
	case 0xB:
		return "V0, " + u16toh(op.nnn(), 3)
	case 0xD:
		return vx + ", " + vy + ", " + u8toh(op.n(), 1)
	case 0xE:
		return vx
	case 0xF:
		switch op.nn() {
		case 0x07:
			return vx + ", DT"
		case 0x0A:
			return vx + ", K"
		case 0x15:
			return "DT, " + vx
		case 0x18:
			return "ST, " + vx
		case 0x1E:
			return "I, " + vx
		case 0x29:
			return "F, " + vx
		case 0x30:
			return "HF, " + vx
		case 0x33:
			return "B, " + vx
		case 0x55:
			return "[I], " + vx
		case 0x65:
			return vx + ", [I]"
		case 0x75:
			return "R, " + vx
		case 0x85:
			return vx + ", R"
		}
	}
	return ""
}

// Disassemble lists a program image one instruction word per line, each
// prefixed with its address and raw value. An odd trailing byte is listed
// as a data byte.
func Disassemble(program []byte, origin uint16) []string {
	lines := make([]string, 0, (len(program)+1)/2)

	addr := origin
	for i := 0; i < len(program); i += 2 {
		if i+1 == len(program) {
			lines = append(lines, u16toh(addr, 3)+"  "+u8toh(program[i], 2)+"    DB #"+u8toh(program[i], 2))
			break
		}

		op := Opcode(uint16(program[i])<<8 | uint16(program[i+1]))
		lines = append(lines, u16toh(addr, 3)+"  "+u16toh(uint16(op), 4)+"  "+op.String())
		addr += 2
	}
	return lines
}
