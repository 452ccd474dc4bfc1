package disasm_test

import (
	"testing"

	"github.com/beevik/cycle6502/cpu"
	"github.com/beevik/cycle6502/disasm"
)

func loadCPU(t *testing.T, origin uint16, code ...byte) *cpu.CPU {
	mem := cpu.NewFlatMemory()
	if err := mem.StoreBytes(origin, code); err != nil {
		t.Fatal(err)
	}
	return cpu.NewCPU(mem)
}

func TestDisassemble(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x7f, // LDA #$7F
		0xb5, 0x42, // LDA $42,X
		0xbd, 0x34, 0x12, // LDA $1234,X
		0xb6, 0x10, // LDX $10,Y
		0x6c, 0x00, 0x30, // JMP ($3000)
		0xa1, 0x20, // LDA ($20,X)
		0xb1, 0x20, // LDA ($20),Y
		0xd0, 0xfe, // BNE $1010
		0x10, 0x10, // BPL $1024
		0xe8,             // INX
		0x02,             // ???
		0x20, 0x21, 0x42) // JSR $4221

	expected := []string{
		"LDA #$7F",
		"LDA $42,X",
		"LDA $1234,X",
		"LDX $10,Y",
		"JMP ($3000)",
		"LDA ($20,X)",
		"LDA ($20),Y",
		"BNE $1010",
		"BPL $1024",
		"INX",
		"???",
		"JSR $4221",
	}

	addr := uint16(0x1000)
	for i, exp := range expected {
		line, next, err := disasm.Disassemble(c, addr)
		if err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if line != exp {
			t.Errorf("line %d incorrect. exp: %q, got: %q", i, exp, line)
		}
		if next <= addr {
			t.Fatalf("line %d: next address $%04X did not advance", i, next)
		}
		addr = next
	}
	if addr != 0x1019 {
		t.Errorf("final address incorrect. exp: $1019, got: $%04X", addr)
	}
}

func TestDisassembleOutOfBounds(t *testing.T) {
	mem, err := cpu.NewSizedMemory(0x100)
	if err != nil {
		t.Fatal(err)
	}
	c := cpu.NewCPU(mem)
	if _, _, err := disasm.Disassemble(c, 0x200); err == nil {
		t.Error("expected an error disassembling outside memory")
	}

	// Operand runs off the end of memory.
	if err := mem.StoreByte(0xff, 0xad); err != nil {
		t.Fatal(err)
	}
	if _, _, err := disasm.Disassemble(c, 0xff); err == nil {
		t.Error("expected an error for a truncated operand")
	}
}

func TestRegisterString(t *testing.T) {
	c := cpu.NewCPU(cpu.NewFlatMemory())
	if s := disasm.RegisterString(&c.Reg); s != "A=00 X=00 Y=00 PS=[------] SP=0100 PC=FFFC" {
		t.Errorf("unexpected reset register string: %s", s)
	}

	c.Reg.A, c.Reg.X, c.Reg.Y = 0x12, 0x34, 0x56
	c.Reg.Sign, c.Reg.Zero, c.Reg.Carry = true, true, true
	c.Reg.SP = 0x00fe
	if s := disasm.RegisterString(&c.Reg); s != "A=12 X=34 Y=56 PS=[N---ZC] SP=00FE PC=FFFC" {
		t.Errorf("unexpected register string: %s", s)
	}
}
