package chip8

// aluOp implements one 8XYN instruction on Vx and the value of Vy.
type aluOp func(p *Processor, x uint8, vy byte)

// aluOps is indexed by the low nibble of the opcode. Nil entries are no-ops.
var aluOps = [16]aluOp{
	0x0: setXToY,
	0x1: orXY,
	0x2: andXY,
	0x3: xorXY,
	0x4: addXY,
	0x5: subtractYFromX,
	0x6: shiftRightX,
	0x7: subtractXFromY,
	0xE: shiftLeftX,
}

func arithmetic(p *Processor, x, y, n uint8) {
	if op := aluOps[n&0x0F]; op != nil {
		op(p, x, p.v[y])
	}
}

func setXToY(p *Processor, x uint8, vy byte) {
	p.v[x] = vy
}

func orXY(p *Processor, x uint8, vy byte) {
	p.v[x] |= vy
}

func andXY(p *Processor, x uint8, vy byte) {
	p.v[x] &= vy
}

func xorXY(p *Processor, x uint8, vy byte) {
	p.v[x] ^= vy
}

// The flag is written after the result, so VF as destination holds the flag.

func addXY(p *Processor, x uint8, vy byte) {
	sum := uint16(p.v[x]) + uint16(vy)
	p.v[x] = byte(sum)
	p.v[CarryFlag] = byte(sum >> 8)
}

func subtractYFromX(p *Processor, x uint8, vy byte) {
	vx := p.v[x]
	p.v[x] = vx - vy
	p.v[CarryFlag] = notBorrow(vx, vy)
}

func subtractXFromY(p *Processor, x uint8, vy byte) {
	vx := p.v[x]
	p.v[x] = vy - vx
	p.v[CarryFlag] = notBorrow(vy, vx)
}

func notBorrow(a, b byte) byte {
	if a >= b {
		return 1
	}
	return 0
}

// Shifts operate on Vx alone; Vy is ignored.

func shiftRightX(p *Processor, x uint8, _ byte) {
	vx := p.v[x]
	p.v[x] = vx >> 1
	p.v[CarryFlag] = vx & 0x1
}

func shiftLeftX(p *Processor, x uint8, _ byte) {
	vx := p.v[x]
	p.v[x] = vx << 1
	p.v[CarryFlag] = vx >> 7
}
