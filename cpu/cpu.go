// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements a cycle-counted 6502 CPU instruction set and
// emulator.
//
// A CPU is bound to a Memory, reset to its power-on state, and then driven
// by Execute, which runs whole instructions until the cycle counter reaches
// a requested target. Instructions are indivisible, so the final
// instruction may carry the counter past the target.
package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrIllegalOpcode = errors.New("illegal opcode")
)

// An IllegalOpcodeError is returned when the CPU fetches an opcode that has
// no instruction in the instruction set.
type IllegalOpcodeError struct {
	Opcode byte   // the offending opcode
	PC     uint16 // address the opcode was fetched from
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}

// Unwrap returns ErrIllegalOpcode.
func (e *IllegalOpcodeError) Unwrap() error {
	return ErrIllegalOpcode
}

// CPU represents a single 6502 CPU. It contains a pointer to the
// memory associated with the CPU.
type CPU struct {
	Reg         Registers       // CPU registers
	Mem         Memory          // assigned memory
	Cycles      uint64          // total executed CPU cycles
	LastPC      uint16          // Previous program counter
	InstSet     *InstructionSet // Instruction set used by the CPU
	Lenient     bool            // treat illegal opcodes as 1-cycle no-ops
	pageCrossed bool
	deltaCycles int8
	debugger    *Debugger
}

// State is a snapshot of the CPU registers and cycle counter.
type State struct {
	Reg    Registers
	Cycles uint64
}

const stackPage = 0x0100

// NewCPU creates an emulated 6502 CPU bound to the specified memory. The
// CPU starts in its power-on state.
func NewCPU(m Memory) *CPU {
	cpu := &CPU{
		Mem:     m,
		InstSet: GetInstructionSet(),
	}

	cpu.Reset()
	return cpu
}

// Reset returns the CPU to its power-on state: PC = $FFFC, SP = $0100,
// A, X and Y cleared, all status flags cleared and the cycle counter at
// zero. Memory is not touched.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.Cycles = 0
	cpu.LastPC = 0
	cpu.pageCrossed = false
	cpu.deltaCycles = 0
}

// Save returns a snapshot of the CPU registers and cycle counter.
func (cpu *CPU) Save() State {
	return State{Reg: cpu.Reg, Cycles: cpu.Cycles}
}

// Restore reinstates a snapshot previously returned by Save.
func (cpu *CPU) Restore(s State) {
	cpu.Reg = s.Reg
	cpu.Cycles = s.Cycles
}

// SetPC updates the CPU program counter to 'addr'.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
}

// GetInstruction returns the instruction whose opcode is stored at the
// requested address.
func (cpu *CPU) GetInstruction(addr uint16) (*Instruction, error) {
	opcode, err := cpu.Mem.LoadByte(addr)
	if err != nil {
		return nil, err
	}
	return cpu.InstSet.Lookup(opcode), nil
}

// NextAddr returns the address of the next instruction following the
// instruction at addr.
func (cpu *CPU) NextAddr(addr uint16) (uint16, error) {
	inst, err := cpu.GetInstruction(addr)
	if err != nil {
		return 0, err
	}
	return addr + uint16(inst.Length), nil
}

// Execute runs instructions until the cycle counter is at least 'cycles'.
// The counter is absolute, so a CPU that has already reached the target
// executes nothing. Execution stops at the first error.
func (cpu *CPU) Execute(cycles uint64) error {
	for cpu.Cycles < cycles {
		if err := cpu.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step the cpu by one instruction.
func (cpu *CPU) Step() error {
	// Grab the next opcode at the current PC
	opcode, err := cpu.Mem.LoadByte(cpu.Reg.PC)
	if err != nil {
		return err
	}

	// Look up the instruction data for the opcode
	inst := cpu.InstSet.Lookup(opcode)

	// Undefined opcodes stop the CPU before any state changes, unless
	// the CPU is lenient, in which case only the fetch is charged.
	if !inst.Defined() {
		if !cpu.Lenient {
			return &IllegalOpcodeError{Opcode: opcode, PC: cpu.Reg.PC}
		}
		cpu.LastPC = cpu.Reg.PC
		cpu.Reg.PC++
		cpu.Cycles++
		cpu.notifyPC()
		return nil
	}

	// Fetch the operand (if any) and advance the PC
	var buf [2]byte
	operand := buf[:inst.Length-1]
	for i := range operand {
		operand[i], err = cpu.Mem.LoadByte(cpu.Reg.PC + 1 + uint16(i))
		if err != nil {
			return err
		}
	}
	cpu.LastPC = cpu.Reg.PC
	cpu.Reg.PC += uint16(inst.Length)

	// Execute the instruction
	cpu.pageCrossed = false
	cpu.deltaCycles = 0
	if err := inst.fn(cpu, inst, operand); err != nil {
		return err
	}

	// Update the CPU cycle counter, with special-case logic
	// to handle a page boundary crossing
	cpu.Cycles += uint64(int8(inst.Cycles) + cpu.deltaCycles)
	if cpu.pageCrossed {
		cpu.Cycles += uint64(inst.BPCycles)
	}

	cpu.notifyPC()
	return nil
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU executes an instruction or stores a byte
// to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
}

// DetachDebugger detaches the currently debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
}

// Update the debugger so it can handle breakpoints.
func (cpu *CPU) notifyPC() {
	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
}

// Resolve the effective address of a memory operand.
func (cpu *CPU) address(mode Mode, operand []byte) (uint16, error) {
	switch mode {
	case ZPG, ABS:
		return operandToAddress(operand), nil
	case ZPX:
		return offsetZeroPage(operandToAddress(operand), cpu.Reg.X), nil
	case ZPY:
		return offsetZeroPage(operandToAddress(operand), cpu.Reg.Y), nil
	case ABX:
		var addr uint16
		addr, cpu.pageCrossed = offsetAddress(operandToAddress(operand), cpu.Reg.X)
		return addr, nil
	case ABY:
		var addr uint16
		addr, cpu.pageCrossed = offsetAddress(operandToAddress(operand), cpu.Reg.Y)
		return addr, nil
	case IND:
		return cpu.loadPointer(operandToAddress(operand))
	case IDX:
		zpaddr := offsetZeroPage(operandToAddress(operand), cpu.Reg.X)
		return cpu.loadPointer(zpaddr)
	case IDY:
		addr, err := cpu.loadPointer(operandToAddress(operand))
		if err != nil {
			return 0, err
		}
		addr, cpu.pageCrossed = offsetAddress(addr, cpu.Reg.Y)
		return addr, nil
	default:
		panic("Invalid addressing mode")
	}
}

// Load a 16-bit pointer stored little-endian at 'addr'. When the pointer
// spans 2 pages (i.e., address ends in 0xff), the high byte comes from the
// start of the same page. For example, a pointer at $12FF reads its low
// byte from $12FF and its high byte from $1200. This mimics the NMOS 6502
// and keeps zero-page pointers inside the zero page.
func (cpu *CPU) loadPointer(addr uint16) (uint16, error) {
	lo, err := cpu.Mem.LoadByte(addr)
	if err != nil {
		return 0, err
	}
	hi, err := cpu.Mem.LoadByte((addr & 0xff00) | ((addr + 1) & 0x00ff))
	if err != nil {
		return 0, err
	}
	return uint16(lo) | uint16(hi)<<8, nil
}

// Load a byte value from using the requested addressing mode
// and the operand to determine where to load it from.
func (cpu *CPU) load(mode Mode, operand []byte) (byte, error) {
	switch mode {
	case IMM:
		return operand[0], nil
	case ACC:
		return cpu.Reg.A, nil
	}
	addr, err := cpu.address(mode, operand)
	if err != nil {
		return 0, err
	}
	return cpu.Mem.LoadByte(addr)
}

// Store a byte value using the specified addressing mode and the
// variable-sized instruction operand to determine where to store it.
func (cpu *CPU) store(mode Mode, operand []byte, v byte) error {
	if mode == ACC {
		cpu.Reg.A = v
		return nil
	}
	addr, err := cpu.address(mode, operand)
	if err != nil {
		return err
	}
	return cpu.storeByte(addr, v)
}

// Store the byte value 'v' at the address 'addr'.
func (cpu *CPU) storeByte(addr uint16, v byte) error {
	if err := cpu.Mem.StoreByte(addr, v); err != nil {
		return err
	}
	if cpu.debugger != nil {
		cpu.debugger.onDataStore(cpu, addr, v)
	}
	return nil
}

// Execute a branch using the instruction operand.
func (cpu *CPU) branch(operand []byte) {
	offset := operandToAddress(operand)
	oldPC := cpu.Reg.PC
	if offset < 0x80 {
		cpu.Reg.PC += uint16(offset)
	} else {
		cpu.Reg.PC -= uint16(0x100 - offset)
	}
	cpu.deltaCycles++
	if ((cpu.Reg.PC ^ oldPC) & 0xff00) != 0 {
		cpu.deltaCycles++
	}
}

// Push a value 'v' onto the stack.
func (cpu *CPU) push(v byte) error {
	if err := cpu.storeByte(stackAddress(cpu.Reg.SP), v); err != nil {
		return err
	}
	cpu.Reg.SP--
	return nil
}

// Push the address 'addr' onto the stack, high byte first.
func (cpu *CPU) pushAddress(addr uint16) error {
	if err := cpu.push(byte(addr >> 8)); err != nil {
		return err
	}
	return cpu.push(byte(addr))
}

// Pop a value from the stack and return it.
func (cpu *CPU) pop() (byte, error) {
	cpu.Reg.SP++
	return cpu.Mem.LoadByte(stackAddress(cpu.Reg.SP))
}

// Pop a 16-bit address off the stack, low byte first.
func (cpu *CPU) popAddress() (uint16, error) {
	lo, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	hi, err := cpu.pop()
	if err != nil {
		return 0, err
	}
	return uint16(lo) | (uint16(hi) << 8), nil
}

// Update the Zero and Negative flags based on the value of 'v'.
func (cpu *CPU) updateNZ(v byte) {
	cpu.Reg.Zero = (v == 0)
	cpu.Reg.Sign = ((v & 0x80) != 0)
}

// Compare 'reg' to a loaded value, setting C, Z and N.
func (cpu *CPU) compare(reg byte, inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Carry = (reg >= v)
	cpu.updateNZ(reg - v)
	return nil
}

// Boolean AND. Flags: Z, N.
func (cpu *CPU) and(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A &= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Branch if Carry Clear
func (cpu *CPU) bcc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Carry {
		cpu.branch(operand)
	}
	return nil
}

// Branch if Carry Set
func (cpu *CPU) bcs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Carry {
		cpu.branch(operand)
	}
	return nil
}

// Branch if EQual (to zero)
func (cpu *CPU) beq(inst *Instruction, operand []byte) error {
	if cpu.Reg.Zero {
		cpu.branch(operand)
	}
	return nil
}

// Branch if MInus (negative)
func (cpu *CPU) bmi(inst *Instruction, operand []byte) error {
	if cpu.Reg.Sign {
		cpu.branch(operand)
	}
	return nil
}

// Branch if Not Equal (not zero)
func (cpu *CPU) bne(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Zero {
		cpu.branch(operand)
	}
	return nil
}

// Branch if PLus (positive)
func (cpu *CPU) bpl(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Sign {
		cpu.branch(operand)
	}
	return nil
}

// Branch if oVerflow Clear
func (cpu *CPU) bvc(inst *Instruction, operand []byte) error {
	if !cpu.Reg.Overflow {
		cpu.branch(operand)
	}
	return nil
}

// Branch if oVerflow Set
func (cpu *CPU) bvs(inst *Instruction, operand []byte) error {
	if cpu.Reg.Overflow {
		cpu.branch(operand)
	}
	return nil
}

// Clear Carry flag
func (cpu *CPU) clc(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = false
	return nil
}

// Clear Decimal flag
func (cpu *CPU) cld(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = false
	return nil
}

// Clear InterruptDisable flag
func (cpu *CPU) cli(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = false
	return nil
}

// Clear oVerflow flag
func (cpu *CPU) clv(inst *Instruction, operand []byte) error {
	cpu.Reg.Overflow = false
	return nil
}

// Compare to accumulator. Flags: C, Z, N.
func (cpu *CPU) cmp(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.A, inst, operand)
}

// Compare to X register. Flags: C, Z, N.
func (cpu *CPU) cpx(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.X, inst, operand)
}

// Compare to Y register. Flags: C, Z, N.
func (cpu *CPU) cpy(inst *Instruction, operand []byte) error {
	return cpu.compare(cpu.Reg.Y, inst, operand)
}

// Decrement X register. Flags: Z, N.
func (cpu *CPU) dex(inst *Instruction, operand []byte) error {
	cpu.Reg.X--
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Decrement Y register. Flags: Z, N.
func (cpu *CPU) dey(inst *Instruction, operand []byte) error {
	cpu.Reg.Y--
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Boolean XOR. Flags: Z, N.
func (cpu *CPU) eor(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A ^= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Increment X register. Flags: Z, N.
func (cpu *CPU) inx(inst *Instruction, operand []byte) error {
	cpu.Reg.X++
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Increment Y register. Flags: Z, N.
func (cpu *CPU) iny(inst *Instruction, operand []byte) error {
	cpu.Reg.Y++
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Jump to memory address
func (cpu *CPU) jmp(inst *Instruction, operand []byte) error {
	addr := operandToAddress(operand)
	if inst.Mode == IND {
		var err error
		if addr, err = cpu.loadPointer(addr); err != nil {
			return err
		}
	}
	cpu.Reg.PC = addr
	return nil
}

// Jump to subroutine. The pushed return address is the last byte of the
// JSR instruction.
func (cpu *CPU) jsr(inst *Instruction, operand []byte) error {
	addr := operandToAddress(operand)
	if err := cpu.pushAddress(cpu.Reg.PC - 1); err != nil {
		return err
	}
	cpu.Reg.PC = addr
	return nil
}

// load Accumulator. Flags: Z, N.
func (cpu *CPU) lda(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A = v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// load the X register. Flags: Z, N.
func (cpu *CPU) ldx(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.X = v
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// load the Y register. Flags: Z, N.
func (cpu *CPU) ldy(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.Y = v
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// No-operation
func (cpu *CPU) nop(inst *Instruction, operand []byte) error {
	return nil
}

// Boolean OR. Flags: Z, N.
func (cpu *CPU) ora(inst *Instruction, operand []byte) error {
	v, err := cpu.load(inst.Mode, operand)
	if err != nil {
		return err
	}
	cpu.Reg.A |= v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Push Accumulator
func (cpu *CPU) pha(inst *Instruction, operand []byte) error {
	return cpu.push(cpu.Reg.A)
}

// Push Processor flags
func (cpu *CPU) php(inst *Instruction, operand []byte) error {
	return cpu.push(cpu.Reg.SavePS(true))
}

// Pull (pop) Accumulator. Flags: Z, N.
func (cpu *CPU) pla(inst *Instruction, operand []byte) error {
	v, err := cpu.pop()
	if err != nil {
		return err
	}
	cpu.Reg.A = v
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Pull (pop) Processor flags. Flags: all but B.
func (cpu *CPU) plp(inst *Instruction, operand []byte) error {
	v, err := cpu.pop()
	if err != nil {
		return err
	}
	cpu.Reg.RestorePS(v)
	return nil
}

// Return from Subroutine
func (cpu *CPU) rts(inst *Instruction, operand []byte) error {
	addr, err := cpu.popAddress()
	if err != nil {
		return err
	}
	cpu.Reg.PC = addr + 1
	return nil
}

// Set Carry flag
func (cpu *CPU) sec(inst *Instruction, operand []byte) error {
	cpu.Reg.Carry = true
	return nil
}

// Set Decimal flag. Arithmetic is unaffected.
func (cpu *CPU) sed(inst *Instruction, operand []byte) error {
	cpu.Reg.Decimal = true
	return nil
}

// Set InterruptDisable flag
func (cpu *CPU) sei(inst *Instruction, operand []byte) error {
	cpu.Reg.InterruptDisable = true
	return nil
}

// Store Accumulator
func (cpu *CPU) sta(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.A)
}

// Store X register
func (cpu *CPU) stx(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.X)
}

// Store Y register
func (cpu *CPU) sty(inst *Instruction, operand []byte) error {
	return cpu.store(inst.Mode, operand, cpu.Reg.Y)
}

// Transfer Accumulator to X register. Flags: Z, N.
func (cpu *CPU) tax(inst *Instruction, operand []byte) error {
	cpu.Reg.X = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Transfer Accumulator to Y register. Flags: Z, N.
func (cpu *CPU) tay(inst *Instruction, operand []byte) error {
	cpu.Reg.Y = cpu.Reg.A
	cpu.updateNZ(cpu.Reg.Y)
	return nil
}

// Transfer stack pointer to X register. Flags: Z, N.
func (cpu *CPU) tsx(inst *Instruction, operand []byte) error {
	cpu.Reg.X = byte(cpu.Reg.SP)
	cpu.updateNZ(cpu.Reg.X)
	return nil
}

// Transfer X register to Accumulator. Flags: Z, N.
func (cpu *CPU) txa(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.X
	cpu.updateNZ(cpu.Reg.A)
	return nil
}

// Transfer X register to the stack pointer
func (cpu *CPU) txs(inst *Instruction, operand []byte) error {
	cpu.Reg.SP = uint16(cpu.Reg.X)
	return nil
}

// Transfer Y register to the Accumulator. Flags: Z, N.
func (cpu *CPU) tya(inst *Instruction, operand []byte) error {
	cpu.Reg.A = cpu.Reg.Y
	cpu.updateNZ(cpu.Reg.A)
	return nil
}
