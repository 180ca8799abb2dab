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
	"fmt"
	"strings"
)

// Variant selects the machine being emulated.
type Variant uint8

const (
	// Classic is the plain CHIP-8 machine: a 64x32 display and no extended opcodes.
	Classic Variant = iota
	// Super adds the 128x64 extended display mode, its font, scrolling and
	// the 16x16 sprite. Low resolution sprites are drawn as 2x2 blocks.
	Super
)

func (v Variant) String() string {
	switch v {
	case Classic:
		return "classic"
	case Super:
		return "super"
	}
	return fmt.Sprintf("variant(%d)", uint8(v))
}

// ParseVariant accepts the names returned by Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classic", "chip8", "chip-8":
		return Classic, nil
	case "super", "schip", "superchip":
		return Super, nil
	}
	return Classic, fmt.Errorf("unknown variant %q", s)
}

// Mode is the active display mode.
type Mode uint8

const (
	LowRes Mode = iota
	HighRes
)

func (m Mode) String() string {
	if m == HighRes {
		return "high"
	}
	return "low"
}

// FaultPolicy decides what happens when an instruction cannot execute.
type FaultPolicy uint8

const (
	// Ignore skips the offending instruction, logs it and keeps running.
	Ignore FaultPolicy = iota
	// Halt stops the machine and keeps the fault for the host.
	Halt
)

func (f FaultPolicy) String() string {
	if f == Halt {
		return "halt"
	}
	return "ignore"
}

// ParsePolicy accepts the names returned by FaultPolicy.String.
func ParsePolicy(s string) (FaultPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore", "skip":
		return Ignore, nil
	case "halt", "stop":
		return Halt, nil
	}
	return Ignore, fmt.Errorf("unknown fault policy %q", s)
}

type Config struct {
	// Period is the number of instructions executed per slice.
	Period int
	// Variant is fixed for the lifetime of a Processor.
	Variant Variant
	Policy  FaultPolicy
	// Seed makes the random opcode reproducible. Zero uses the global source.
	Seed uint64
	// Trace logs every instruction before it executes.
	Trace bool
	// Trap switches tracing on once the program counter reaches it.
	// A negative value disables the trap.
	Trap int
}

const DefaultPeriod = 15

func DefaultConfig() Config {
	return Config{
		Period:  DefaultPeriod,
		Variant: Super,
		Policy:  Ignore,
		Trap:    -1,
	}
}
