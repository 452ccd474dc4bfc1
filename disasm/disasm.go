// Copyright 2014 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a 6502 instruction set
// disassembler.
package disasm

import (
	"fmt"

	"github.com/beevik/cycle6502/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	cpu.IMM: "#$%s",
	cpu.IMP: "%s",
	cpu.REL: "$%s",
	cpu.ZPG: "$%s",
	cpu.ZPX: "$%s,X",
	cpu.ZPY: "$%s,Y",
	cpu.ABS: "$%s",
	cpu.ABX: "$%s,X",
	cpu.ABY: "$%s,Y",
	cpu.IND: "($%s)",
	cpu.IDX: "($%s,X)",
	cpu.IDY: "($%s),Y",
	cpu.ACC: "%s",
}

var hex = "0123456789ABCDEF"

// Return a hexadecimal string representation of the byte slice, most
// significant byte first.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// Disassemble the machine code in the CPU's memory at address 'addr'.
// Return a 'line' string representing the disassembled instruction and a
// 'next' address that starts the following line of machine code. Bytes
// that do not begin a known instruction disassemble as "???".
func Disassemble(c *cpu.CPU, addr uint16) (line string, next uint16, err error) {
	inst, err := c.GetInstruction(addr)
	if err != nil {
		return "", addr, err
	}

	operand := make([]byte, inst.Length-1)
	for i := range operand {
		operand[i], err = c.Mem.LoadByte(addr + 1 + uint16(i))
		if err != nil {
			return "", addr, err
		}
	}

	if inst.Mode == cpu.REL {
		// Convert relative offset to absolute address.
		braddr := addr + uint16(inst.Length) + uint16(int8(operand[0]))
		operand = []byte{byte(braddr), byte(braddr >> 8)}
	}

	line = inst.Name
	if len(operand) > 0 {
		line += " " + fmt.Sprintf(modeFormat[inst.Mode], hexString(operand))
	}

	next = addr + uint16(inst.Length)
	return line, next, nil
}

// RegisterString returns a string describing the contents of the 6502
// registers. Set status flags appear as letters in the PS field.
func RegisterString(r *cpu.Registers) string {
	return fmt.Sprintf("A=%02X X=%02X Y=%02X PS=[%s] SP=%04X PC=%04X",
		r.A, r.X, r.Y, statusString(r), r.SP, r.PC)
}

func statusString(r *cpu.Registers) string {
	v := func(bit bool, ch byte) byte {
		if bit {
			return ch
		}
		return '-'
	}
	b := []byte{
		v(r.Sign, 'N'),
		v(r.Overflow, 'V'),
		v(r.Decimal, 'D'),
		v(r.InterruptDisable, 'I'),
		v(r.Zero, 'Z'),
		v(r.Carry, 'C'),
	}
	return string(b)
}
