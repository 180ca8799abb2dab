package chip8

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	MemorySize          = 4096
	AddressMask         = MemorySize - 1
	RegisterCount       = 16
	KeyCount            = 16
	FlagCount           = 8
	ProgramStartAddress = 0x200
	ProgramCapacity     = MemorySize - ProgramStartAddress
	CarryFlag           = 0xF

	// The call stack lives in memory and grows down from StackTop. Sixteen
	// return addresses fit above StackLimit.
	StackTop   = 0x1E0
	StackLimit = 0x1C0
)

// Info bits reported by Step and Info.
const (
	Delay uint8 = 1 << iota
	Sound
	Redraw
)

type Processor struct {
	memory   [MemorySize]byte
	v        [RegisterCount]byte
	flags    [FlagCount]byte
	keyState [KeyCount]atomic.Bool
	display  [SuperArea]byte

	// keyPressed is the key (plus one) newly pressed during the last slice.
	keyPressed uint8

	program []byte
	pc      uint16
	i       uint16
	sp      uint16
	delay   uint8
	sound   uint8
	mode    Mode
	info    uint8
	running bool
	err     error
	trace   bool

	cfg  Config
	host Host
	log  *zap.Logger
	rnd  *rand.Rand
}

// New returns a reset Processor. A nil host or logger is replaced with a no-op.
func New(cfg Config, host Host, logger *zap.Logger) *Processor {
	if cfg.Period <= 0 {
		cfg.Period = DefaultPeriod
	}
	if host == nil {
		host = NopHost{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Processor{
		cfg:  cfg,
		host: host,
		log:  logger,
	}
	if cfg.Seed != 0 {
		p.rnd = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed>>32|cfg.Seed<<32))
	}
	p.Reset()
	return p
}

// Reset puts the machine back into its power-on state and reloads the last
// program. The flag storage used by FX75 and FX85 is preserved.
func (p *Processor) Reset() {
	clear(p.memory[:])
	installFonts(p.memory[:], p.cfg.Variant)
	copy(p.memory[ProgramStartAddress:], p.program)

	clear(p.v[:])

	for i := range len(p.keyState) {
		p.keyState[i].Store(false)
	}
	p.keyPressed = 0

	clear(p.display[:])

	p.pc = ProgramStartAddress
	p.i = 0
	p.sp = StackTop
	p.delay = 0
	p.sound = 0
	p.mode = LowRes
	p.info = Redraw
	p.running = true
	p.err = nil
	p.trace = p.cfg.Trace

	p.host.SoundOff()

	p.log.Debug("reset",
		zap.Stringer("variant", p.cfg.Variant),
		zap.Int("program_size", len(p.program)))
}

// Load copies the program to the program origin and resets the machine. A
// program larger than the available space is truncated; the returned error
// then wraps ErrProgramTruncated.
func (p *Processor) Load(b []byte) (int, error) {
	n := min(len(b), ProgramCapacity)
	p.program = slices.Clone(b[:n])
	p.Reset()

	if n < len(b) {
		return n, fmt.Errorf("%w: loaded %d of %d bytes", ErrProgramTruncated, n, len(b))
	}
	return n, nil
}

// Write copies data into memory starting at loc, wrapping at the end of memory.
func (p *Processor) Write(loc uint16, data []byte) int {
	n := min(len(data), MemorySize)
	for i := range n {
		p.store(loc+uint16(i), data[i])
	}
	return n
}

// Read copies memory starting at loc into data, wrapping at the end of memory.
func (p *Processor) Read(loc uint16, data []byte) int {
	n := min(len(data), MemorySize)
	for i := range n {
		data[i] = p.load(loc + uint16(i))
	}
	return n
}

func (p *Processor) load(addr uint16) byte {
	return p.memory[addr&AddressMask]
}

func (p *Processor) store(addr uint16, b byte) {
	p.memory[addr&AddressMask] = b
}

func (p *Processor) SetKey(key uint8, value bool) {
	p.keyState[key&0x0F].Store(value)
}

func (p *Processor) Key(key uint8) bool {
	return p.keyState[key&0x0F].Load()
}

// KeyPressed returns the key considered newly pressed during the last slice.
func (p *Processor) KeyPressed() (uint8, bool) {
	if p.keyPressed == 0 {
		return 0, false
	}
	return p.keyPressed - 1, true
}

func (p *Processor) ProgramCounter() uint16 {
	return p.pc
}

func (p *Processor) Index() uint16 {
	return p.i
}

func (p *Processor) StackPointer() uint16 {
	return p.sp
}

// StackDepth is the number of return addresses on the stack.
func (p *Processor) StackDepth() int {
	return (StackTop - int(p.sp)) / 2
}

func (p *Processor) Register(n uint8) byte {
	return p.v[n&0x0F]
}

func (p *Processor) Registers() [RegisterCount]byte {
	return p.v
}

func (p *Processor) Flags() [FlagCount]byte {
	return p.flags
}

func (p *Processor) Delay() uint8 {
	return p.delay
}

func (p *Processor) Sound() uint8 {
	return p.sound
}

func (p *Processor) Variant() Variant {
	return p.cfg.Variant
}

// Info returns the bits gathered since the last host interrupt.
func (p *Processor) Info() uint8 {
	return p.info | p.timerInfo()
}

func (p *Processor) timerInfo() uint8 {
	var info uint8
	if p.sound > 0 {
		info |= Sound
	}
	if p.delay > 0 {
		info |= Delay
	}
	return info
}

// Running reports whether the machine accepts further slices. There is no
// separate idle state: New and Reset leave the machine running.
func (p *Processor) Running() bool {
	return p.running
}

// Err returns the reason the machine halted, or nil while it is running.
func (p *Processor) Err() error {
	return p.err
}

// Stop halts the machine. It must be called from the goroutine driving
// Execute, typically from Host.Interrupt.
func (p *Processor) Stop() {
	if !p.running {
		return
	}
	p.halt(ErrStopped)
}

func (p *Processor) halt(err error) {
	p.running = false
	p.err = err
	p.log.Info("halted", zap.String("reason", Reason(err)), zap.Error(err))
}

// OpcodeAt reads the big-endian instruction word at offset.
func (p *Processor) OpcodeAt(offset uint16) Opcode {
	high := uint16(p.load(offset))
	low := uint16(p.load(offset + 1))
	return Opcode(high<<8 | low)
}

// Step executes a single instruction. The returned bits describe that
// instruction and the current timer state.
func (p *Processor) Step() (uint8, error) {
	if !p.running {
		return 0, p.err
	}

	prev := p.info
	p.info = 0
	err := p.step()
	info := p.info | p.timerInfo()
	p.info |= prev
	return info, err
}

func (p *Processor) step() error {
	if p.cfg.Trap >= 0 && int(p.pc&AddressMask) == p.cfg.Trap && !p.trace {
		p.trace = true
		p.log.Info("trap reached, tracing", zap.String("pc", u16toh(p.pc, 3)))
	}

	pc := p.pc
	opcode := p.OpcodeAt(pc)

	if p.trace {
		p.traceOpcode(pc, opcode)
	}

	p.pc = (p.pc + 2) & AddressMask

	if err := p.execute(opcode); err != nil {
		return p.fault(opcode, pc, err)
	}
	return nil
}

func (p *Processor) fault(opcode Opcode, pc uint16, err error) error {
	f := &Fault{Opcode: opcode, PC: pc, Err: err}

	if p.cfg.Policy == Ignore {
		p.log.Warn("instruction skipped",
			zap.String("reason", f.Reason()),
			zap.String("pc", u16toh(pc, 3)),
			zap.String("opcode", u16toh(uint16(opcode), 4)))
		return nil
	}

	p.halt(f)
	return f
}

// Execute runs one slice: Period instructions, then the timers, the host
// interrupt and the key scan. It returns the reason once the machine halts.
func (p *Processor) Execute() error {
	if !p.running {
		return p.err
	}

	for range p.cfg.Period {
		if err := p.step(); err != nil {
			return err
		}
	}

	if p.delay > 0 {
		p.delay--
	}

	if p.sound > 0 {
		p.sound--
		if p.sound == 0 {
			p.host.SoundOff()
		}
	}

	p.host.Interrupt()
	p.info = 0

	p.scanKeys()

	return p.err
}

// scanKeys derives the newly pressed key from the held keys. The highest
// held key is signalled when it differs from the previous signal.
func (p *Processor) scanKeys() {
	var pressed uint8
	for i := range uint8(KeyCount) {
		if p.keyState[i].Load() {
			pressed = i + 1
		}
	}

	if pressed != 0 && pressed != p.keyPressed {
		p.keyPressed = pressed
	} else {
		p.keyPressed = 0
	}
}

func (p *Processor) random() byte {
	if p.rnd != nil {
		return byte(p.rnd.Uint32N(256))
	}
	return byte(rand.Uint32N(256))
}
