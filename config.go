package vision8

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"gitlab.com/efronlicht/enve"
	"go.uber.org/zap/zapcore"

	"vision8/chip8"
)

const (
	// DefaultRate is the number of slices presented per second.
	DefaultRate  = 50
	DefaultScale = 8
	DefaultTone  = 440.0

	maxScale = 32
	maxTone  = 20000.0
)

// Config holds the host settings. LoadConfig fills it from the environment
// and RegisterFlags lets the command line override it.
type Config struct {
	Period  int
	Variant chip8.Variant
	Policy  chip8.FaultPolicy
	Seed    uint64
	Trace   bool
	// Trap is the address that switches tracing on, or -1.
	Trap int

	// Rate is the number of slices per second. Zero runs unpaced.
	Rate int
	// Scale is the window size in screen pixels per display cell.
	Scale int
	// FrameSkip presents one frame out of every FrameSkip interrupts.
	FrameSkip int
	// Tone is the beep frequency in Hz.
	Tone     float64
	LogLevel string
}

func LoadConfig() Config {
	return Config{
		Period:    enve.IntOr("VISION8_PERIOD", chip8.DefaultPeriod),
		Variant:   enve.Or(chip8.ParseVariant, "VISION8_VARIANT", chip8.Super),
		Policy:    enve.Or(chip8.ParsePolicy, "VISION8_POLICY", chip8.Ignore),
		Seed:      enve.Uint64Or("VISION8_SEED", 0),
		Trace:     enve.BoolOr("VISION8_TRACE", false),
		Trap:      enve.Or(parseAddress, "VISION8_TRAP", -1),
		Rate:      enve.IntOr("VISION8_RATE", DefaultRate),
		Scale:     enve.IntOr("VISION8_SCALE", DefaultScale),
		FrameSkip: enve.IntOr("VISION8_FRAMESKIP", 1),
		Tone:      enve.FloatOr("VISION8_TONE", DefaultTone),
		LogLevel:  enve.StringOr("VISION8_LOG_LEVEL", "info"),
	}
}

// parseAddress accepts decimal, 0x-prefixed hex and the empty-trap value -1.
func parseAddress(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		return 0, err
	}
	if n < -1 || n > chip8.AddressMask {
		return 0, fmt.Errorf("address %s out of range", s)
	}
	return int(n), nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Period <= 0 {
		errs = append(errs, fmt.Errorf("period must be positive, got %d", c.Period))
	}
	if c.Rate < 0 {
		errs = append(errs, fmt.Errorf("rate must not be negative, got %d", c.Rate))
	}
	if c.Scale < 1 || c.Scale > maxScale {
		errs = append(errs, fmt.Errorf("scale must be between 1 and %d, got %d", maxScale, c.Scale))
	}
	if c.FrameSkip < 1 {
		errs = append(errs, fmt.Errorf("frame skip must be at least 1, got %d", c.FrameSkip))
	}
	if c.Trap < -1 || c.Trap > chip8.AddressMask {
		errs = append(errs, fmt.Errorf("trap address %d out of range", c.Trap))
	}
	if c.Tone <= 0 || c.Tone > maxTone {
		errs = append(errs, fmt.Errorf("tone must be in (0, %g] Hz, got %g", maxTone, c.Tone))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.Variant != chip8.Classic && c.Variant != chip8.Super {
		errs = append(errs, fmt.Errorf("unknown variant %v", c.Variant))
	}
	if c.Policy != chip8.Ignore && c.Policy != chip8.Halt {
		errs = append(errs, fmt.Errorf("unknown fault policy %v", c.Policy))
	}

	return errors.Join(errs...)
}

// Machine returns the processor settings.
func (c Config) Machine() chip8.Config {
	return chip8.Config{
		Period:  c.Period,
		Variant: c.Variant,
		Policy:  c.Policy,
		Seed:    c.Seed,
		Trace:   c.Trace,
		Trap:    c.Trap,
	}
}

// RegisterFlags binds the settings to fs. The current values become the
// flag defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Period, "period", c.Period, "instructions per slice")
	fs.IntVar(&c.Rate, "rate", c.Rate, "slices per second, 0 runs unpaced")
	fs.IntVar(&c.Scale, "scale", c.Scale, "window pixels per display cell")
	fs.IntVar(&c.FrameSkip, "frameskip", c.FrameSkip, "interrupts per presented frame")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 is nondeterministic")
	fs.BoolVar(&c.Trace, "trace", c.Trace, "log every instruction")
	fs.Float64Var(&c.Tone, "tone", c.Tone, "beep frequency in Hz")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level: debug, info, warn or error")

	fs.Func("variant", "machine variant: classic or super (default "+c.Variant.String()+")", func(s string) error {
		v, err := chip8.ParseVariant(s)
		if err != nil {
			return err
		}
		c.Variant = v
		return nil
	})
	fs.Func("policy", "fault policy: ignore or halt (default "+c.Policy.String()+")", func(s string) error {
		p, err := chip8.ParsePolicy(s)
		if err != nil {
			return err
		}
		c.Policy = p
		return nil
	})
	fs.Func("trap", "address that switches tracing on, e.g. 0x2A4", func(s string) error {
		n, err := parseAddress(s)
		if err != nil {
			return err
		}
		c.Trap = n
		return nil
	})
}
