// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// Registers contains the state of all 6502 registers.
type Registers struct {
	A                byte   // accumulator
	X                byte   // X indexing register
	Y                byte   // Y indexing register
	SP               uint16 // stack pointer ($100 | low byte = stack memory location)
	PC               uint16 // program counter
	Carry            bool   // PS: Carry bit (C)
	Zero             bool   // PS: Zero bit (Z)
	InterruptDisable bool   // PS: Interrupt disable bit (I)
	Decimal          bool   // PS: Decimal bit (D)
	Break            bool   // PS: Break bit (B)
	Overflow         bool   // PS: Overflow bit (V)
	Sign             bool   // PS: Sign bit (N)
}

// Bits assigned to the processor status byte
const (
	CarryBit            = 1 << 0
	ZeroBit             = 1 << 1
	InterruptDisableBit = 1 << 2
	DecimalBit          = 1 << 3
	BreakBit            = 1 << 4
	ReservedBit         = 1 << 5
	OverflowBit         = 1 << 6
	SignBit             = 1 << 7
)

// Power-on register values.
const (
	resetPC uint16 = 0xfffc
	resetSP uint16 = 0x0100
)

// flagBits pairs each status flag stored in the processor status byte
// with its bit. Break is not a real flag and is handled separately.
var flagBits = []struct {
	bit  byte
	flag func(r *Registers) *bool
}{
	{CarryBit, func(r *Registers) *bool { return &r.Carry }},
	{ZeroBit, func(r *Registers) *bool { return &r.Zero }},
	{InterruptDisableBit, func(r *Registers) *bool { return &r.InterruptDisable }},
	{DecimalBit, func(r *Registers) *bool { return &r.Decimal }},
	{OverflowBit, func(r *Registers) *bool { return &r.Overflow }},
	{SignBit, func(r *Registers) *bool { return &r.Sign }},
}

// SavePS packs the status flags into a processor status byte. The reserved
// bit is always set; the break bit is set when brk is true.
func (r *Registers) SavePS(brk bool) byte {
	ps := byte(ReservedBit)
	if brk {
		ps |= BreakBit
	}
	for _, f := range flagBits {
		if *f.flag(r) {
			ps |= f.bit
		}
	}
	return ps
}

// RestorePS unpacks a processor status byte into the status flags. The
// break and reserved bits are ignored.
func (r *Registers) RestorePS(ps byte) {
	for _, f := range flagBits {
		*f.flag(r) = ps&f.bit != 0
	}
}

// Init initializes all registers to their power-on state. A, X, Y = 0.
// SP = $0100. PC = $FFFC. All status flags are cleared.
func (r *Registers) Init() {
	*r = Registers{
		SP: resetSP,
		PC: resetPC,
	}
}
