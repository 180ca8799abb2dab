package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vision8"
	"vision8/chip8"
)

func writeProgram(t *testing.T, b []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "program.ch8")
	require.NoError(t, os.WriteFile(name, b, 0o600))
	return name
}

func testConfig() vision8.Config {
	return vision8.Config{
		Period:    chip8.DefaultPeriod,
		Variant:   chip8.Super,
		Policy:    chip8.Ignore,
		Trap:      -1,
		Rate:      vision8.DefaultRate,
		Scale:     vision8.DefaultScale,
		FrameSkip: 1,
		Tone:      vision8.DefaultTone,
		LogLevel:  "info",
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, opts options)
	}{
		{
			name: "defaults",
			args: []string{"game.ch8"},
			check: func(t *testing.T, opts options) {
				assert.Equal(t, "game.ch8", opts.input)
				assert.Equal(t, testConfig(), opts.cfg)
				assert.Zero(t, opts.headless)
				assert.False(t, opts.disasm)
			},
		},
		{
			name: "machine flags",
			args: []string{"-variant", "classic", "-policy", "halt", "-period", "20", "-trap", "0x2A4", "game.ch8"},
			check: func(t *testing.T, opts options) {
				assert.Equal(t, chip8.Classic, opts.cfg.Variant)
				assert.Equal(t, chip8.Halt, opts.cfg.Policy)
				assert.Equal(t, 20, opts.cfg.Period)
				assert.Equal(t, 0x2A4, opts.cfg.Trap)
			},
		},
		{
			name: "modes",
			args: []string{"-headless", "100", "-disasm", "-log", "debug", "game.ch8"},
			check: func(t *testing.T, opts options) {
				assert.Equal(t, 100, opts.headless)
				assert.True(t, opts.disasm)
				assert.Equal(t, "debug", opts.cfg.LogLevel)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args, testConfig())
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no program", nil},
		{"unknown flag", []string{"-nope", "game.ch8"}},
		{"bad variant", []string{"-variant", "mega", "game.ch8"}},
		{"flag after program", []string{"game.ch8", "-trace"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseFlags(tt.args, testConfig())

			var usageErr *UsageError
			require.ErrorAs(t, err, &usageErr)

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.Contains(t, buf.String(), "usage: vision8")
			assert.Contains(t, buf.String(), "-headless")
		})
	}
}

func TestParseFlagsValidates(t *testing.T) {
	_, err := parseFlags([]string{"-scale", "0", "game.ch8"}, testConfig())
	require.Error(t, err)

	var usageErr *UsageError
	assert.NotErrorAs(t, err, &usageErr)
}

func TestRunDisassembles(t *testing.T) {
	opts := options{
		cfg:    testConfig(),
		input:  writeProgram(t, []byte{0x00, 0xE0, 0x12, 0x02}),
		disasm: true,
	}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), zaptest.NewLogger(t), opts, &out))
	assert.Equal(t, "200  00E0  CLS\n202  1202  JP 202\n", out.String())
}

func TestRunHeadless(t *testing.T) {
	cfg := testConfig()
	cfg.Policy = chip8.Halt

	opts := options{
		cfg:      cfg,
		input:    writeProgram(t, []byte{0x60, 0x01, 0x01, 0x23}),
		headless: 5,
	}

	err := run(context.Background(), zaptest.NewLogger(t), opts, new(bytes.Buffer))
	require.ErrorIs(t, err, chip8.ErrUnknownOpcode)
}

func TestRunEmptyProgram(t *testing.T) {
	opts := options{cfg: testConfig(), input: writeProgram(t, nil), headless: 1}

	err := run(context.Background(), zaptest.NewLogger(t), opts, new(bytes.Buffer))
	assert.ErrorContains(t, err, "empty program")
}
