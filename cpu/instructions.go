// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "strings"

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symUndefined opsym = iota
	symAND
	symBCC
	symBCS
	symBEQ
	symBMI
	symBNE
	symBPL
	symBVC
	symBVS
	symCLC
	symCLD
	symCLI
	symCLV
	symCMP
	symCPX
	symCPY
	symDEX
	symDEY
	symEOR
	symINX
	symINY
	symJMP
	symJSR
	symLDA
	symLDX
	symLDY
	symNOP
	symORA
	symPHA
	symPHP
	symPLA
	symPLP
	symRTS
	symSEC
	symSED
	symSEI
	symSTA
	symSTX
	symSTY
	symTAX
	symTAY
	symTSX
	symTXA
	symTXS
	symTYA
)

type instfunc func(c *CPU, inst *Instruction, operand []byte) error

// Emulator implementation for each opcode
type opcodeImpl struct {
	sym  opsym
	name string
	fn   instfunc
}

var impl = []opcodeImpl{
	{symAND, "AND", (*CPU).and},
	{symBCC, "BCC", (*CPU).bcc},
	{symBCS, "BCS", (*CPU).bcs},
	{symBEQ, "BEQ", (*CPU).beq},
	{symBMI, "BMI", (*CPU).bmi},
	{symBNE, "BNE", (*CPU).bne},
	{symBPL, "BPL", (*CPU).bpl},
	{symBVC, "BVC", (*CPU).bvc},
	{symBVS, "BVS", (*CPU).bvs},
	{symCLC, "CLC", (*CPU).clc},
	{symCLD, "CLD", (*CPU).cld},
	{symCLI, "CLI", (*CPU).cli},
	{symCLV, "CLV", (*CPU).clv},
	{symCMP, "CMP", (*CPU).cmp},
	{symCPX, "CPX", (*CPU).cpx},
	{symCPY, "CPY", (*CPU).cpy},
	{symDEX, "DEX", (*CPU).dex},
	{symDEY, "DEY", (*CPU).dey},
	{symEOR, "EOR", (*CPU).eor},
	{symINX, "INX", (*CPU).inx},
	{symINY, "INY", (*CPU).iny},
	{symJMP, "JMP", (*CPU).jmp},
	{symJSR, "JSR", (*CPU).jsr},
	{symLDA, "LDA", (*CPU).lda},
	{symLDX, "LDX", (*CPU).ldx},
	{symLDY, "LDY", (*CPU).ldy},
	{symNOP, "NOP", (*CPU).nop},
	{symORA, "ORA", (*CPU).ora},
	{symPHA, "PHA", (*CPU).pha},
	{symPHP, "PHP", (*CPU).php},
	{symPLA, "PLA", (*CPU).pla},
	{symPLP, "PLP", (*CPU).plp},
	{symRTS, "RTS", (*CPU).rts},
	{symSEC, "SEC", (*CPU).sec},
	{symSED, "SED", (*CPU).sed},
	{symSEI, "SEI", (*CPU).sei},
	{symSTA, "STA", (*CPU).sta},
	{symSTX, "STX", (*CPU).stx},
	{symSTY, "STY", (*CPU).sty},
	{symTAX, "TAX", (*CPU).tax},
	{symTAY, "TAY", (*CPU).tay},
	{symTSX, "TSX", (*CPU).tsx},
	{symTXA, "TXA", (*CPU).txa},
	{symTXS, "TXS", (*CPU).txs},
	{symTYA, "TYA", (*CPU).tya},
}

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

var modeNames = [...]string{
	IMM: "Immediate",
	IMP: "Implied",
	REL: "Relative",
	ZPG: "Zero Page",
	ZPX: "Zero Page,X",
	ZPY: "Zero Page,Y",
	ABS: "Absolute",
	ABX: "Absolute,X",
	ABY: "Absolute,Y",
	IND: "(Indirect)",
	IDX: "(Indirect,X)",
	IDY: "(Indirect),Y",
	ACC: "Accumulator",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Unknown"
}

// Opcode data for an (opcode, mode) pair
type opcodeData struct {
	sym      opsym // internal opcode symbol
	mode     Mode  // addressing mode
	opcode   byte  // opcode hex value
	length   byte  // length of opcode + operand in bytes
	cycles   byte  // number of CPU cycles to execute command
	bpcycles byte  // additional CPU cycles if command crosses page boundary
}

// All valid (opcode, mode) pairs. Cycle counts are the sum of one cycle per
// opcode and operand fetch, one per memory read or write, and one per
// internal adjustment step.
var data = []opcodeData{
	{symLDA, IMM, 0xa9, 2, 2, 0},
	{symLDA, ZPG, 0xa5, 2, 3, 0},
	{symLDA, ZPX, 0xb5, 2, 4, 0},
	{symLDA, ABS, 0xad, 3, 4, 0},
	{symLDA, ABX, 0xbd, 3, 4, 1},
	{symLDA, ABY, 0xb9, 3, 4, 1},
	{symLDA, IDX, 0xa1, 2, 6, 0},
	{symLDA, IDY, 0xb1, 2, 5, 1},

	{symLDX, IMM, 0xa2, 2, 2, 0},
	{symLDX, ZPG, 0xa6, 2, 3, 0},
	{symLDX, ZPY, 0xb6, 2, 4, 0},
	{symLDX, ABS, 0xae, 3, 4, 0},
	{symLDX, ABY, 0xbe, 3, 4, 1},

	{symLDY, IMM, 0xa0, 2, 2, 0},
	{symLDY, ZPG, 0xa4, 2, 3, 0},
	{symLDY, ZPX, 0xb4, 2, 4, 0},
	{symLDY, ABS, 0xac, 3, 4, 0},
	{symLDY, ABX, 0xbc, 3, 4, 1},

	{symSTA, ZPG, 0x85, 2, 3, 0},
	{symSTA, ZPX, 0x95, 2, 4, 0},
	{symSTA, ABS, 0x8d, 3, 4, 0},
	{symSTA, ABX, 0x9d, 3, 5, 0},
	{symSTA, ABY, 0x99, 3, 5, 0},
	{symSTA, IDX, 0x81, 2, 6, 0},
	{symSTA, IDY, 0x91, 2, 6, 0},

	{symSTX, ZPG, 0x86, 2, 3, 0},
	{symSTX, ZPY, 0x96, 2, 4, 0},
	{symSTX, ABS, 0x8e, 3, 4, 0},

	{symSTY, ZPG, 0x84, 2, 3, 0},
	{symSTY, ZPX, 0x94, 2, 4, 0},
	{symSTY, ABS, 0x8c, 3, 4, 0},

	{symAND, IMM, 0x29, 2, 2, 0},
	{symAND, ZPG, 0x25, 2, 3, 0},
	{symAND, ABS, 0x2d, 3, 4, 0},

	{symORA, IMM, 0x09, 2, 2, 0},
	{symORA, ZPG, 0x05, 2, 3, 0},
	{symORA, ABS, 0x0d, 3, 4, 0},

	{symEOR, IMM, 0x49, 2, 2, 0},
	{symEOR, ZPG, 0x45, 2, 3, 0},
	{symEOR, ABS, 0x4d, 3, 4, 0},

	{symCMP, IMM, 0xc9, 2, 2, 0},
	{symCMP, ZPG, 0xc5, 2, 3, 0},
	{symCMP, ABS, 0xcd, 3, 4, 0},

	{symCPX, IMM, 0xe0, 2, 2, 0},
	{symCPX, ZPG, 0xe4, 2, 3, 0},
	{symCPX, ABS, 0xec, 3, 4, 0},

	{symCPY, IMM, 0xc0, 2, 2, 0},
	{symCPY, ZPG, 0xc4, 2, 3, 0},
	{symCPY, ABS, 0xcc, 3, 4, 0},

	{symTAX, IMP, 0xaa, 1, 2, 0},
	{symTAY, IMP, 0xa8, 1, 2, 0},
	{symTXA, IMP, 0x8a, 1, 2, 0},
	{symTYA, IMP, 0x98, 1, 2, 0},
	{symTSX, IMP, 0xba, 1, 2, 0},
	{symTXS, IMP, 0x9a, 1, 2, 0},

	{symINX, IMP, 0xe8, 1, 2, 0},
	{symINY, IMP, 0xc8, 1, 2, 0},
	{symDEX, IMP, 0xca, 1, 2, 0},
	{symDEY, IMP, 0x88, 1, 2, 0},

	{symCLC, IMP, 0x18, 1, 2, 0},
	{symSEC, IMP, 0x38, 1, 2, 0},
	{symCLI, IMP, 0x58, 1, 2, 0},
	{symSEI, IMP, 0x78, 1, 2, 0},
	{symCLV, IMP, 0xb8, 1, 2, 0},
	{symCLD, IMP, 0xd8, 1, 2, 0},
	{symSED, IMP, 0xf8, 1, 2, 0},

	{symNOP, IMP, 0xea, 1, 2, 0},

	{symPHA, IMP, 0x48, 1, 3, 0},
	{symPHP, IMP, 0x08, 1, 3, 0},
	{symPLA, IMP, 0x68, 1, 4, 0},
	{symPLP, IMP, 0x28, 1, 4, 0},

	{symBPL, REL, 0x10, 2, 2, 0},
	{symBMI, REL, 0x30, 2, 2, 0},
	{symBVC, REL, 0x50, 2, 2, 0},
	{symBVS, REL, 0x70, 2, 2, 0},
	{symBCC, REL, 0x90, 2, 2, 0},
	{symBCS, REL, 0xb0, 2, 2, 0},
	{symBNE, REL, 0xd0, 2, 2, 0},
	{symBEQ, REL, 0xf0, 2, 2, 0},

	{symJMP, ABS, 0x4c, 3, 4, 0},
	{symJMP, IND, 0x6c, 3, 5, 0},
	{symJSR, ABS, 0x20, 3, 6, 0},
	{symRTS, IMP, 0x60, 1, 6, 0},
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and its CPU cycle
// cost.
type Instruction struct {
	Name     string   // all-caps name of the instruction
	Mode     Mode     // addressing mode
	Opcode   byte     // hexadecimal opcode value
	Length   byte     // combined size of opcode and operand, in bytes
	Cycles   byte     // number of CPU cycles to execute the instruction
	BPCycles byte     // additional cycles required if boundary page crossed
	sym      opsym    // internal opcode symbol
	fn       instfunc // emulator implementation of the function
}

// Defined returns true if the instruction is part of the supported
// instruction set.
func (inst *Instruction) Defined() bool {
	return inst.sym != symUndefined
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]Instruction          // all instructions by opcode
	variants     map[string][]*Instruction // variants of each instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested opcode.
// Opcodes outside the supported set return an undefined instruction.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return &s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

const undefinedName = "???"

// Create the instruction set.
func newInstructionSet() *InstructionSet {
	set := &InstructionSet{
		variants: make(map[string][]*Instruction),
	}

	// Create a map from symbol to implementation for fast lookups.
	symToImpl := make(map[opsym]*opcodeImpl, len(impl))
	for i := range impl {
		symToImpl[impl[i].sym] = &impl[i]
	}

	for i := range set.instructions {
		set.instructions[i] = Instruction{
			Name:   undefinedName,
			Mode:   IMP,
			Opcode: byte(i),
			Length: 1,
		}
	}

	for _, d := range data {
		inst := &set.instructions[d.opcode]
		if inst.sym != symUndefined {
			panic("duplicate opcode " + inst.Name)
		}

		impl := symToImpl[d.sym]
		inst.Name = impl.name
		inst.Mode = d.mode
		inst.Length = d.length
		inst.Cycles = d.cycles
		inst.BPCycles = d.bpcycles
		inst.sym = d.sym
		inst.fn = impl.fn

		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the instruction set executed by the CPU. The
// returned set must not be modified.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
