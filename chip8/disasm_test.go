package chip8

import (
	"strings"
	"testing"

	isa "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/stretchr/testify/assert"
)

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{0x00E0, "CLS"},
		{0x00EE, "RET"},
		{0x00C4, "SCD 4"},
		{0x00FB, "SCR"},
		{0x00FC, "SCL"},
		{0x00FD, "EXIT"},
		{0x00FE, "LOW"},
		{0x00FF, "HIGH"},
		{0x0123, "DW #0123"},
		{0x1ABC, "JP ABC"},
		{0x2208, "CALL 208"},
		{0x3A0F, "SE VA, 0F"},
		{0x4B10, "SNE VB, 10"},
		{0x5120, "SE V1, V2"},
		{0x5121, "SE V1, V2"},
		{0x6C33, "LD VC, 33"},
		{0x7D01, "ADD VD, 01"},
		{0x8120, "LD V1, V2"},
		{0x8121, "OR V1, V2"},
		{0x8122, "AND V1, V2"},
		{0x8123, "XOR V1, V2"},
		{0x8124, "ADD V1, V2"},
		{0x8125, "SUB V1, V2"},
		{0x8126, "SHR V1"},
		{0x8127, "SUBN V1, V2"},
		{0x812E, "SHL V1"},
		{0x8128, "DW #8128"},
		{0x9E50, "SNE VE, V5"},
		{0xA2F0, "LD I, 2F0"},
		{0xB300, "JP V0, 300"},
		{0xC7FF, "RND V7, FF"},
		{0xD125, "DRW V1, V2, 5"},
		{0xD120, "DRW V1, V2, 0"},
		{0xE39E, "SKP V3"},
		{0xE3A1, "SKNP V3"},
		{0xE300, "DW #E300"},
		{0xF407, "LD V4, DT"},
		{0xF40A, "LD V4, K"},
		{0xF415, "LD DT, V4"},
		{0xF418, "LD ST, V4"},
		{0xF41E, "ADD I, V4"},
		{0xF429, "LD F, V4"},
		{0xF430, "LD HF, V4"},
		{0xF433, "LD B, V4"},
		{0xF455, "LD [I], V4"},
		{0xF465, "LD V4, [I]"},
		{0xF475, "LD R, V4"},
		{0xF485, "LD V4, R"},
		{0xF4FF, "DW #F4FF"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestOpcodeStringCoversInstructionTable(t *testing.T) {
	for _, group := range isa.Opcodes {
		for _, o := range group {
			op := Opcode(o.Info.Value | 0x0123&^o.Info.Mask)
			name := strings.ToUpper(o.Instruction.Name)
			assert.True(t, strings.HasPrefix(op.String(), name+" ") || op.String() == name,
				"%04X renders %q", uint16(op), op.String())
		}
	}
}

func TestDisassemble(t *testing.T) {
	lines := Disassemble(program(0x00E0, 0x6000, 0xD015, 0x1206), ProgramStartAddress)

	assert.Equal(t, []string{
		"200  00E0  CLS",
		"202  6000  LD V0, 00",
		"204  D015  DRW V0, V1, 5",
		"206  1206  JP 206",
	}, lines)
}

func TestDisassembleOddLength(t *testing.T) {
	lines := Disassemble([]byte{0x12, 0x00, 0xAB}, 0x300)

	assert.Equal(t, []string{
		"300  1200  JP 200",
		"302  AB    DB #AB",
	}, lines)
}

func TestDisassembleEmpty(t *testing.T) {
	assert.Empty(t, Disassemble(nil, ProgramStartAddress))
}
