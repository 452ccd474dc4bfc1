package cpu_test

import (
	"errors"
	"testing"

	"github.com/beevik/cycle6502/cpu"
)

func loadCPU(t *testing.T, origin uint16, code ...byte) *cpu.CPU {
	mem := cpu.NewFlatMemory()
	if err := mem.StoreBytes(origin, code); err != nil {
		t.Fatal(err)
	}
	c := cpu.NewCPU(mem)
	c.SetPC(origin)
	return c
}

func loadResetCPU(t *testing.T, code ...byte) *cpu.CPU {
	return loadCPU(t, 0xfffc, code...)
}

func poke(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	if err := c.Mem.StoreByte(addr, v); err != nil {
		t.Fatal(err)
	}
}

func execute(t *testing.T, c *cpu.CPU, cycles uint64) {
	if err := c.Execute(cycles); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
}

func stepCPU(t *testing.T, c *cpu.CPU, steps int) {
	for i := 0; i < steps; i++ {
		if err := c.Step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectSP(t *testing.T, c *cpu.CPU, sp uint16) {
	t.Helper()
	if c.Reg.SP != sp {
		t.Errorf("stack pointer incorrect. exp: $%04X, got $%04X", sp, c.Reg.SP)
	}
}

func expectZN(t *testing.T, c *cpu.CPU, zero, sign bool) {
	t.Helper()
	if c.Reg.Zero != zero {
		t.Errorf("Zero flag incorrect. exp: %v, got: %v", zero, c.Reg.Zero)
	}
	if c.Reg.Sign != sign {
		t.Errorf("Sign flag incorrect. exp: %v, got: %v", sign, c.Reg.Sign)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got, err := c.Mem.LoadByte(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

var powerOn = cpu.Registers{SP: 0x0100, PC: 0xfffc}

func TestReset(t *testing.T) {
	c := cpu.NewCPU(cpu.NewFlatMemory())
	if c.Reg != powerOn || c.Cycles != 0 {
		t.Errorf("new CPU not in power-on state: %+v cycles=%d", c.Reg, c.Cycles)
	}

	c.Reg = cpu.Registers{
		A: 1, X: 2, Y: 3, SP: 0x42, PC: 0x1234,
		Carry: true, Zero: true, InterruptDisable: true, Decimal: true,
		Break: true, Overflow: true, Sign: true,
	}
	c.Cycles = 99

	c.Reset()
	if c.Reg != powerOn || c.Cycles != 0 {
		t.Errorf("reset CPU not in power-on state: %+v cycles=%d", c.Reg, c.Cycles)
	}

	c.Reset()
	if c.Reg != powerOn || c.Cycles != 0 {
		t.Errorf("second reset changed state: %+v cycles=%d", c.Reg, c.Cycles)
	}
}

func TestResetKeepsMemory(t *testing.T) {
	c := loadCPU(t, 0x2000, 0x5a)
	c.Reset()
	expectMem(t, c, 0x2000, 0x5a)
}

func TestLoadImmediate(t *testing.T) {
	tests := []struct {
		name    string
		operand byte
		zero    bool
		sign    bool
	}{
		{"positive", 0x7f, false, false},
		{"negative", 0x84, false, true},
		{"zero", 0x00, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadResetCPU(t, 0xa9, tt.operand)
			execute(t, c, 2)

			expectPC(t, c, 0xfffe)
			expectSP(t, c, 0x0100)
			expectCycles(t, c, 2)
			expectACC(t, c, tt.operand)
			expectZN(t, c, tt.zero, tt.sign)

			want := powerOn
			want.PC = 0xfffe
			want.A = tt.operand
			want.Zero = tt.zero
			want.Sign = tt.sign
			if c.Reg != want {
				t.Errorf("unexpected register change: %+v", c.Reg)
			}
		})
	}
}

func TestLoadClearsFlags(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x00, // LDA #$00
		0xa9, 0x80, // LDA #$80
		0xa9, 0x01) // LDA #$01

	stepCPU(t, c, 1)
	expectZN(t, c, true, false)
	stepCPU(t, c, 1)
	expectZN(t, c, false, true)
	stepCPU(t, c, 1)
	expectZN(t, c, false, false)
}

func TestLoadZeroPage(t *testing.T) {
	c := loadResetCPU(t, 0xa5, 0x42)
	poke(t, c, 0x0042, 0x37)
	execute(t, c, 3)

	expectPC(t, c, 0xfffe)
	expectCycles(t, c, 3)
	expectACC(t, c, 0x37)
	expectZN(t, c, false, false)
}

func TestLoadZeroPageX(t *testing.T) {
	c := loadResetCPU(t, 0xb5, 0x42)
	c.Reg.X = 0x05
	poke(t, c, 0x0047, 0xa4)
	execute(t, c, 4)

	expectPC(t, c, 0xfffe)
	expectCycles(t, c, 4)
	expectACC(t, c, 0xa4)
	expectZN(t, c, false, true)
	if c.Reg.X != 0x05 {
		t.Errorf("X changed: $%02X", c.Reg.X)
	}
}

func TestLoadZeroPageXWraps(t *testing.T) {
	c := loadCPU(t, 0x1000, 0xb5, 0x80)
	c.Reg.X = 0xff
	poke(t, c, 0x007f, 0x11)
	poke(t, c, 0x017f, 0x22)
	stepCPU(t, c, 1)

	expectACC(t, c, 0x11)
	expectCycles(t, c, 4)
}

func TestLoadAbsolute(t *testing.T) {
	c := loadResetCPU(t, 0xad, 0x21, 0x42)
	poke(t, c, 0x4221, 0x87)
	execute(t, c, 4)

	expectPC(t, c, 0xffff)
	expectCycles(t, c, 4)
	expectACC(t, c, 0x87)
	expectZN(t, c, false, true)
}

func TestIndexedPageCross(t *testing.T) {
	regA := func(c *cpu.CPU) byte { return c.Reg.A }
	regX := func(c *cpu.CPU) byte { return c.Reg.X }
	regY := func(c *cpu.CPU) byte { return c.Reg.Y }

	tests := []struct {
		name   string
		code   []byte
		x, y   byte
		addr   uint16
		cycles uint64
		reg    func(c *cpu.CPU) byte
	}{
		{"LDA abs,X same page", []byte{0xbd, 0x00, 0x12}, 0x01, 0, 0x1201, 4, regA},
		{"LDA abs,X crossed", []byte{0xbd, 0xff, 0x12}, 0x01, 0, 0x1300, 5, regA},
		{"LDA abs,Y same page", []byte{0xb9, 0x10, 0x12}, 0, 0x20, 0x1230, 4, regA},
		{"LDA abs,Y crossed", []byte{0xb9, 0xf0, 0x12}, 0, 0x20, 0x1310, 5, regA},
		{"LDX abs,Y crossed", []byte{0xbe, 0xf0, 0x12}, 0, 0x20, 0x1310, 5, regX},
		{"LDY abs,X crossed", []byte{0xbc, 0xf0, 0x12}, 0x20, 0, 0x1310, 5, regY},
		{"LDA abs,X wraps", []byte{0xbd, 0xff, 0xff}, 0x02, 0, 0x0001, 5, regA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, 0x1000, tt.code...)
			c.Reg.X, c.Reg.Y = tt.x, tt.y
			poke(t, c, tt.addr, 0x5e)
			stepCPU(t, c, 1)

			expectCycles(t, c, tt.cycles)
			expectPC(t, c, 0x1003)
			if got := tt.reg(c); got != 0x5e {
				t.Errorf("loaded value incorrect. exp: $5E, got: $%02X", got)
			}
		})
	}
}

func TestIndirectX(t *testing.T) {
	c := loadCPU(t, 0x1000, 0xa1, 0x20) // LDA ($20,X)
	c.Reg.X = 0x04
	poke(t, c, 0x24, 0x74)
	poke(t, c, 0x25, 0x30)
	poke(t, c, 0x3074, 0x99)
	stepCPU(t, c, 1)

	expectACC(t, c, 0x99)
	expectCycles(t, c, 6)
}

func TestIndirectY(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xb1, 0x10, // LDA ($10),Y
		0xb1, 0x12) // LDA ($12),Y
	c.Reg.Y = 0x01
	poke(t, c, 0x10, 0xff)
	poke(t, c, 0x11, 0x20)
	poke(t, c, 0x12, 0x00)
	poke(t, c, 0x13, 0x20)
	poke(t, c, 0x2100, 0x44)
	poke(t, c, 0x2001, 0x55)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x44)
	expectCycles(t, c, 6)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x55)
	expectCycles(t, c, 11)
}

func TestStore(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x5e, // LDA #$5E
		0x85, 0x15, // STA $15
		0x8d, 0x00, 0x15, // STA $1500
		0xa2, 0x80, // LDX #$80
		0x9d, 0x00, 0x20, // STA $2000,X
		0x8e, 0x01, 0x15, // STX $1501
		0xa0, 0x07, // LDY #$07
		0x94, 0x10) // STY $10,X

	stepCPU(t, c, 8)
	expectPC(t, c, 0x1013)
	expectCycles(t, c, 2+3+4+2+5+4+2+4)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x1500, 0x5e)
	expectMem(t, c, 0x2080, 0x5e)
	expectMem(t, c, 0x1501, 0x80)
	expectMem(t, c, 0x90, 0x07)
}

func TestStoreLeavesFlags(t *testing.T) {
	c := loadCPU(t, 0x1000, 0x85, 0x20) // STA $20
	c.Reg.A = 0x00
	c.Reg.Sign = true
	c.Reg.Carry = true
	stepCPU(t, c, 1)

	expectZN(t, c, false, true)
	if !c.Reg.Carry {
		t.Error("Carry flag cleared by store")
	}
}

func TestJSR(t *testing.T) {
	c := loadResetCPU(t, 0x20, 0x21, 0x42)
	execute(t, c, 6)

	expectPC(t, c, 0x4221)
	expectSP(t, c, 0x00fe)
	expectCycles(t, c, 6)

	want := powerOn
	want.PC = 0x4221
	want.SP = 0x00fe
	if c.Reg != want {
		t.Errorf("unexpected register change: %+v", c.Reg)
	}

	// The return address is the last byte of the JSR, high byte first.
	expectMem(t, c, 0x0100, 0xff)
	expectMem(t, c, 0x01ff, 0xfe)
}

func TestJSRAndRTS(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0x20, 0x00, 0x20, // JSR $2000
		0xa9, 0x01) // LDA #$01
	poke(t, c, 0x2000, 0x60) // RTS

	stepCPU(t, c, 2)
	expectPC(t, c, 0x1003)
	expectSP(t, c, 0x0100)
	expectCycles(t, c, 12)

	stepCPU(t, c, 1)
	expectACC(t, c, 0x01)
}

func TestJMP(t *testing.T) {
	c := loadResetCPU(t, 0x4c, 0x00, 0x30)
	execute(t, c, 4)

	expectPC(t, c, 0x3000)
	expectCycles(t, c, 4)
	expectSP(t, c, 0x0100)
}

func TestJMPIndirect(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0x6c, 0x00, 0x31, // JMP ($3100)
	)
	poke(t, c, 0x3100, 0x34)
	poke(t, c, 0x3101, 0x12)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x1234)
	expectCycles(t, c, 5)

	// A pointer at the end of a page takes its high byte from the start of
	// the same page.
	c = loadCPU(t, 0x1000, 0x6c, 0xff, 0x30)
	poke(t, c, 0x30ff, 0x80)
	poke(t, c, 0x3000, 0x50)
	poke(t, c, 0x3100, 0x40)
	stepCPU(t, c, 1)
	expectPC(t, c, 0x5080)
}

func TestStack(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x11, // LDA #$11
		0x48,       // PHA
		0xa9, 0x12, // LDA #$12
		0x48,       // PHA
		0xa9, 0x13, // LDA #$13
		0x48,             // PHA
		0x68,             // PLA
		0x8d, 0x00, 0x20, // STA $2000
		0x68,             // PLA
		0x8d, 0x01, 0x20, // STA $2001
		0x68,             // PLA
		0x8d, 0x02, 0x20) // STA $2002

	stepCPU(t, c, 6)
	expectSP(t, c, 0x00fd)
	expectACC(t, c, 0x13)
	expectMem(t, c, 0x100, 0x11)
	expectMem(t, c, 0x1ff, 0x12)
	expectMem(t, c, 0x1fe, 0x13)

	stepCPU(t, c, 6)
	expectACC(t, c, 0x11)
	expectSP(t, c, 0x0100)
	expectMem(t, c, 0x2000, 0x13)
	expectMem(t, c, 0x2001, 0x12)
	expectMem(t, c, 0x2002, 0x11)
}

func TestStatusPushPull(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0x38, // SEC
		0xf8, // SED
		0x08, // PHP
		0x18, // CLC
		0xd8, // CLD
		0x28) // PLP

	stepCPU(t, c, 3)
	expectMem(t, c, 0x0100, cpu.CarryBit|cpu.DecimalBit|cpu.BreakBit|cpu.ReservedBit)

	stepCPU(t, c, 3)
	if !c.Reg.Carry || !c.Reg.Decimal {
		t.Errorf("flags not restored: %+v", c.Reg)
	}
	expectSP(t, c, 0x0100)
	expectCycles(t, c, 2+2+3+2+2+4)
}

func TestTransfers(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x80, // LDA #$80
		0xaa,       // TAX
		0xe8,       // INX
		0x8a,       // TXA
		0xa8,       // TAY
		0x88,       // DEY
		0x98,       // TYA
		0xa2, 0xff, // LDX #$FF
		0x9a, // TXS
		0xba) // TSX

	stepCPU(t, c, 3)
	if c.Reg.X != 0x81 {
		t.Errorf("X incorrect. exp: $81, got: $%02X", c.Reg.X)
	}
	stepCPU(t, c, 4)
	expectACC(t, c, 0x80)
	expectZN(t, c, false, true)

	stepCPU(t, c, 2)
	expectSP(t, c, 0x00ff)
	stepCPU(t, c, 1)
	if c.Reg.X != 0xff {
		t.Errorf("X incorrect. exp: $FF, got: $%02X", c.Reg.X)
	}
	expectCycles(t, c, 20)
}

func TestLogical(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0xf0, // LDA #$F0
		0x29, 0x3c, // AND #$3C
		0x09, 0x01, // ORA #$01
		0x49, 0x31) // EOR #$31

	stepCPU(t, c, 2)
	expectACC(t, c, 0x30)
	stepCPU(t, c, 1)
	expectACC(t, c, 0x31)
	stepCPU(t, c, 1)
	expectACC(t, c, 0x00)
	expectZN(t, c, true, false)
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name              string
		code              []byte
		a                 byte
		carry, zero, sign bool
	}{
		{"equal", []byte{0xc9, 0x40}, 0x40, true, true, false},
		{"greater", []byte{0xc9, 0x10}, 0x40, true, false, false},
		{"less", []byte{0xc9, 0x41}, 0x40, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, 0x1000, tt.code...)
			c.Reg.A = tt.a
			stepCPU(t, c, 1)
			if c.Reg.Carry != tt.carry {
				t.Errorf("Carry incorrect. exp: %v, got: %v", tt.carry, c.Reg.Carry)
			}
			expectZN(t, c, tt.zero, tt.sign)
			expectACC(t, c, tt.a)
		})
	}
}

func TestBranch(t *testing.T) {
	tests := []struct {
		name   string
		origin uint16
		code   []byte
		zero   bool
		pc     uint16
		cycles uint64
	}{
		{"not taken", 0x1000, []byte{0xd0, 0x02}, true, 0x1002, 2},
		{"taken", 0x1000, []byte{0xd0, 0x02}, false, 0x1004, 3},
		{"taken across page", 0x10f0, []byte{0xd0, 0x20}, false, 0x1112, 4},
		{"taken backward across page", 0x1000, []byte{0xd0, 0xfc}, false, 0x0ffe, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadCPU(t, tt.origin, tt.code...)
			c.Reg.Zero = tt.zero
			stepCPU(t, c, 1)
			expectPC(t, c, tt.pc)
			expectCycles(t, c, tt.cycles)
		})
	}
}

func TestLoop(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa2, 0x05, // LDX #$05
		0xca,       // DEX
		0xd0, 0xfd, // BNE $1002
		0xea) // NOP

	stepCPU(t, c, 1+5*2+1)
	expectPC(t, c, 0x1006)
	expectCycles(t, c, 2+5*2+4*3+2+2)
}

func TestExecuteOvershoot(t *testing.T) {
	c := loadResetCPU(t, 0xad, 0x00, 0x20) // LDA $2000
	execute(t, c, 1)

	// The instruction always completes.
	expectCycles(t, c, 4)
	expectPC(t, c, 0xffff)

	// The budget is an absolute target that has been reached.
	execute(t, c, 4)
	expectCycles(t, c, 4)
	expectPC(t, c, 0xffff)
}

func TestIllegalOpcode(t *testing.T) {
	c := loadResetCPU(t, 0x02)
	err := c.Execute(10)
	if !errors.Is(err, cpu.ErrIllegalOpcode) {
		t.Fatalf("expected illegal opcode error, got %v", err)
	}

	var ie *cpu.IllegalOpcodeError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *IllegalOpcodeError, got %T", err)
	}
	if ie.Opcode != 0x02 || ie.PC != 0xfffc {
		t.Errorf("unexpected error contents: %+v", ie)
	}
	expectPC(t, c, 0xfffc)
	expectCycles(t, c, 0)
}

func TestLenientIllegalOpcode(t *testing.T) {
	c := loadCPU(t, 0x1000, 0x02, 0x03, 0xa9, 0x07)
	c.Lenient = true
	execute(t, c, 4)

	expectPC(t, c, 0x1004)
	expectCycles(t, c, 4)
	expectACC(t, c, 0x07)
}

func TestOutOfBounds(t *testing.T) {
	mem, err := cpu.NewSizedMemory(0x1000)
	if err != nil {
		t.Fatal(err)
	}
	c := cpu.NewCPU(mem)

	// The reset PC lies outside a 4K memory.
	err = c.Execute(2)
	if !errors.Is(err, cpu.ErrMemoryOutOfBounds) {
		t.Fatalf("expected out of bounds error, got %v", err)
	}
	var ae *cpu.AddressError
	if !errors.As(err, &ae) || ae.Addr != 0xfffc {
		t.Errorf("unexpected error: %v", err)
	}

	// A store outside memory stops execution.
	if err := mem.StoreBytes(0x0200, []byte{0x8d, 0x00, 0x20}); err != nil {
		t.Fatal(err)
	}
	c.Reset()
	c.SetPC(0x0200)
	err = c.Execute(10)
	if !errors.As(err, &ae) || ae.Addr != 0x2000 {
		t.Errorf("unexpected error: %v", err)
	}
	expectCycles(t, c, 0)
}

func TestDeterminism(t *testing.T) {
	mem := cpu.NewFlatMemory()
	program := []byte{
		0xa2, 0x10, // LDX #$10
		0x8a,             // TXA
		0x9d, 0xf8, 0x20, // STA $20F8,X
		0x20, 0x00, 0x30, // JSR $3000
		0xca,       // DEX
		0xd0, 0xf6, // BNE $0202
		0x4c, 0x00, 0x02, // JMP $0200
	}
	if err := mem.StoreBytes(0x0200, program); err != nil {
		t.Fatal(err)
	}
	if err := mem.StoreBytes(0x3000, []byte{0xbd, 0xf8, 0x20, 0x60}); err != nil {
		t.Fatal(err)
	}

	c := cpu.NewCPU(mem)
	c.SetPC(0x0200)
	execute(t, c, 50)

	saved := c.Save()
	snapshot := mem.Clone()

	execute(t, c, 1000)
	first := c.Save()

	c2 := cpu.NewCPU(snapshot)
	c2.Restore(saved)
	execute(t, c2, 1000)

	if c2.Save() != first {
		t.Errorf("re-run diverged: %+v vs %+v", c2.Save(), first)
	}
	for addr := 0; addr < cpu.MaxMemorySize; addr++ {
		a, _ := mem.LoadByte(uint16(addr))
		b, _ := snapshot.LoadByte(uint16(addr))
		if a != b {
			t.Fatalf("memory diverged at $%04X", addr)
		}
	}
}

func TestInstructionSet(t *testing.T) {
	set := cpu.GetInstructionSet()
	for i := 0; i < 256; i++ {
		inst := set.Lookup(byte(i))
		if inst == nil || inst.Opcode != byte(i) {
			t.Fatalf("opcode $%02X not mapped", i)
		}
		if inst.Defined() && inst.Cycles == 0 {
			t.Errorf("opcode $%02X has no cycle cost", i)
		}
		if !inst.Defined() && inst.Name != "???" {
			t.Errorf("undefined opcode $%02X named %s", i, inst.Name)
		}
	}

	lda := set.GetInstructions("lda")
	if len(lda) != 8 {
		t.Errorf("expected 8 LDA variants, got %d", len(lda))
	}
	if set.Lookup(0x00).Defined() {
		t.Error("BRK should not be part of the instruction set")
	}
}

type breakHandler struct {
	hits     []uint16
	dataHits []uint16
}

func (h *breakHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.hits = append(h.hits, b.Address)
}

func (h *breakHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.dataHits = append(h.dataHits, b.Address)
}

func TestDebugger(t *testing.T) {
	c := loadCPU(t, 0x1000,
		0xa9, 0x01, // LDA #$01
		0x85, 0x20, // STA $20
		0xa9, 0x02, // LDA #$02
		0x85, 0x20, // STA $20
		0x85, 0x21) // STA $21

	h := &breakHandler{}
	d := cpu.NewDebugger(h)
	d.AddBreakpoint(0x1004)
	d.AddBreakpoint(0x1002).Disabled = true
	d.AddConditionalDataBreakpoint(0x20, 0x02)
	d.AddDataBreakpoint(0x21)
	c.AttachDebugger(d)

	stepCPU(t, c, 5)

	if len(h.hits) != 1 || h.hits[0] != 0x1004 {
		t.Errorf("unexpected breakpoint hits: %v", h.hits)
	}
	if len(h.dataHits) != 2 || h.dataHits[0] != 0x20 || h.dataHits[1] != 0x21 {
		t.Errorf("unexpected data breakpoint hits: %v", h.dataHits)
	}

	bps := d.GetBreakpoints()
	if len(bps) != 2 || bps[0].Address != 0x1002 || bps[1].Address != 0x1004 {
		t.Errorf("breakpoints not sorted: %v", bps)
	}

	c.DetachDebugger()
	c.SetPC(0x1002)
	stepCPU(t, c, 1)
	if len(h.hits) != 1 || len(h.dataHits) != 2 {
		t.Error("detached debugger still notified")
	}
}
