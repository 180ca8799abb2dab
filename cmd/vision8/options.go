package main

import (
	"flag"
	"fmt"
	"io"

	"vision8"
)

type options struct {
	cfg      vision8.Config
	input    string
	headless int
	disasm   bool
}

// UsageError means the command line could not be parsed; the usage text
// should be shown.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: vision8 [options] <program file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
}

// parseFlags applies the command line on top of the environment settings.
func parseFlags(args []string, cfg vision8.Config) (options, error) {
	flags := flag.NewFlagSet("vision8", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	opts := options{cfg: cfg}
	opts.cfg.RegisterFlags(flags)
	flags.IntVar(&opts.headless, "headless", 0, "run the given number of slices without a window, then exit")
	flags.BoolVar(&opts.disasm, "disasm", false, "print a disassembly listing and exit")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, &UsageError{flags: flags, msg: "missing program file"}
	case len(rest) > 1:
		return opts, &UsageError{
			flags: flags,
			msg:   fmt.Sprintf("argument %s found after the program file, options go first", rest[1]),
		}
	}
	opts.input = rest[0]

	if opts.headless < 0 {
		return opts, fmt.Errorf("headless slice count must not be negative, got %d", opts.headless)
	}
	if err := opts.cfg.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
