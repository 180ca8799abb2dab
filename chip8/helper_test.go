package chip8

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

type recordingHost struct {
	soundOn     int
	soundOff    int
	interrupts  int
	onInterrupt func()
}

func (h *recordingHost) SoundOn()  { h.soundOn++ }
func (h *recordingHost) SoundOff() { h.soundOff++ }

func (h *recordingHost) Interrupt() {
	h.interrupts++
	if h.onInterrupt != nil {
		h.onInterrupt()
	}
}

func program(words ...uint16) []byte {
	b := make([]byte, 0, len(words)*2)
	for _, w := range words {
		b = append(b, byte(w>>8), byte(w))
	}
	return b
}

func classicConfig() Config {
	cfg := DefaultConfig()
	cfg.Variant = Classic
	return cfg
}

func superConfig() Config {
	return DefaultConfig()
}

func haltConfig(variant Variant) Config {
	cfg := DefaultConfig()
	cfg.Variant = variant
	cfg.Policy = Halt
	return cfg
}

func newProcessor(t *testing.T, cfg Config, words ...uint16) (*Processor, *recordingHost) {
	t.Helper()

	host := &recordingHost{}
	p := New(cfg, host, zaptest.NewLogger(t))
	_, err := p.Load(program(words...))
	require.NoError(t, err)
	return p, host
}

// bufferLogger records JSON log lines for assertions.
func bufferLogger() (*zap.Logger, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(buf),
		zapcore.DebugLevel))
	return logger, buf
}

func steps(t *testing.T, p *Processor, n int) {
	t.Helper()
	for range n {
		_, err := p.Step()
		require.NoError(t, err)
	}
}
