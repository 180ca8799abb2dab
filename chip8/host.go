package chip8

// Host is the program driving a Processor. All three calls are made from the
// goroutine that calls Execute.
type Host interface {
	// SoundOn is called when the sound timer is loaded with a nonzero value.
	SoundOn()
	// SoundOff is called when the sound timer reaches zero and on reset.
	SoundOff()
	// Interrupt is called once per slice after the timers are updated. It is
	// the host's chance to present the display and refresh the key state.
	Interrupt()
}

// NopHost ignores every call.
type NopHost struct{}

func (NopHost) SoundOn()   {}
func (NopHost) SoundOff()  {}
func (NopHost) Interrupt() {}
