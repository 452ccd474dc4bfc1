// Copyright 2018 Brett Vickers.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that emulates a computer system
// with a cycle-counted 6502 CPU, 64K of memory, a built-in debugger, and
// other useful tools.
//
// Within the host it is possible to load machine code into memory, debug
// and step through machine code, measure the number of CPU cycles elapsed,
// set address and data breakpoints, dump the contents of memory,
// disassemble the contents of memory, manipulate CPU registers and memory,
// and evaluate arbitrary expressions.
package host

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/beevik/cmd"
	"go.starlark.net/starlark"

	"github.com/beevik/cycle6502/cpu"
	"github.com/beevik/cycle6502/disasm"
	"github.com/beevik/cycle6502/translate"
)

var errQuit = errors.New("exiting program")

type displayFlags uint8

const (
	displayRegisters displayFlags = 1 << iota
	displayCycles

	displayAll = displayRegisters | displayCycles
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
	stateStepOverBreakpoint
	stateInterrupted
	stateError
)

// A Host represents a fully emulated 6502 system, 64K of memory, a built-in
// debugger, and other useful tools.
type Host struct {
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	mem         *cpu.FlatMemory
	cpu         *cpu.CPU
	debugger    *cpu.Debugger
	lastCmd     *cmd.Command
	lastArgs    []string
	state       state
	interrupt   atomic.Bool
	expr        *exprEvaluator
	settings    *settings
}

// New creates a new 6502 host environment.
func New() *Host {
	h := &Host{
		state:    stateProcessingCommands,
		expr:     newExprEvaluator(),
		settings: newSettings(),
	}

	// Create the emulated CPU and memory.
	h.mem = cpu.NewFlatMemory()
	h.cpu = cpu.NewCPU(h.mem)

	// Create a CPU debugger and attach it to the CPU.
	h.debugger = cpu.NewDebugger((*debugHandler)(h))
	h.cpu.AttachDebugger(h.debugger)

	return h
}

// SetLenient selects whether the CPU treats illegal opcodes as 1-cycle
// no-ops instead of stopping with an error.
func (h *Host) SetLenient(lenient bool) {
	h.settings.Lenient = lenient
	h.onSettingsUpdate()
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. If the commands are interactive, a prompt is displayed while
// the host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	defer h.flush()

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		c, args := h.lastCmd, h.lastArgs
		if strings.TrimSpace(line) != "" {
			n, a, err := cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.printf("Command not found.\n")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.printf("Command is ambiguous.\n")
				continue
			case err != nil:
				h.reportError(err)
				continue
			}

			// A bare subtree name lists the subtree's commands.
			if t, ok := n.(*cmd.Tree); ok {
				t.DisplayHelp(h.output)
				h.flush()
				continue
			}
			c, args = n.(*cmd.Command), a
		}
		if c == nil {
			continue
		}

		handler, ok := c.Data.(func(*Host, *cmd.Command, []string) error)
		if !ok {
			h.printf("Command not found.\n")
			continue
		}
		h.lastCmd, h.lastArgs = c, args

		if err := handler(h, c, args); err != nil {
			break
		}
	}
}

// Break interrupts a running CPU. It may be called from any goroutine.
func (h *Host) Break() {
	h.interrupt.Store(true)
}

func (h *Host) print(args ...any) {
	fmt.Fprint(h.output, args...)
}

func (h *Host) printf(format string, args ...any) {
	h.print(translate.From(format, args...))
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.print("* ")
		h.flush()
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
	}
}

func (h *Host) reportError(err error) {
	h.printf("ERROR: %v.\n", err)
}

func (h *Host) cmdBreakpointList(c *cmd.Command, args []string) error {
	h.println("Addr  Enabled")
	h.println("----- -------")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %v\n", b.Address, !b.Disabled)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.reportError(err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c *cmd.Command, args []string) error {
	b := h.lookupBreakpoint(c, args)
	if b == nil {
		return nil
	}

	h.debugger.RemoveBreakpoint(b.Address)
	h.printf("Breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointEnable(c *cmd.Command, args []string) error {
	b := h.lookupBreakpoint(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdBreakpointDisable(c *cmd.Command, args []string) error {
	b := h.lookupBreakpoint(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) lookupBreakpoint(c *cmd.Command, args []string) *cpu.Breakpoint {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.reportError(err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDataBreakpointList(c *cmd.Command, args []string) error {
	h.println("Addr  Enabled  Value")
	h.println("----- -------  -----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X\n", b.Address, !b.Disabled, b.Value)
		} else {
			h.printf("$%04X %-5v    <none>\n", b.Address, !b.Disabled)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.reportError(err)
		return nil
	}

	if len(args) > 1 {
		value, err := h.parseExpr(args[1])
		if err != nil {
			h.reportError(err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}

	return nil
}

func (h *Host) cmdDataBreakpointRemove(c *cmd.Command, args []string) error {
	b := h.lookupDataBreakpoint(c, args)
	if b == nil {
		return nil
	}

	h.debugger.RemoveDataBreakpoint(b.Address)
	h.printf("Data breakpoint at $%04X removed.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c *cmd.Command, args []string) error {
	b := h.lookupDataBreakpoint(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = false
	h.printf("Data breakpoint at $%04X enabled.\n", b.Address)
	return nil
}

func (h *Host) cmdDataBreakpointDisable(c *cmd.Command, args []string) error {
	b := h.lookupDataBreakpoint(c, args)
	if b == nil {
		return nil
	}

	b.Disabled = true
	h.printf("Data breakpoint at $%04X disabled.\n", b.Address)
	return nil
}

func (h *Host) lookupDataBreakpoint(c *cmd.Command, args []string) *cpu.DataBreakpoint {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.reportError(err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
	}
	return b
}

func (h *Host) cmdDisassemble(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"$"}
	}

	var addr uint16
	switch args[0] {
	case "$":
		addr = h.settings.NextDisasmAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	default:
		a, err := h.parseExpr(args[0])
		if err != nil {
			h.reportError(err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(args) > 1 {
		l, err := h.parseExpr(args[1])
		if err != nil {
			h.reportError(err)
			return nil
		}
		lines = int(l)
	}

	for i := 0; i < lines; i++ {
		d, next := h.disassemble(addr, 0)
		h.println(d)
		addr = next
	}

	h.settings.NextDisasmAddr = addr
	h.lastArgs = []string{"$", fmt.Sprintf("%d", lines)}
	return nil
}

func (h *Host) cmdEvaluate(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	expr := strings.Join(args, " ")
	v, err := h.parseExpr(expr)
	if err != nil {
		h.reportError(err)
		return nil
	}

	h.printf("$%04X\n", v)
	return nil
}

func (h *Host) cmdExecute(c *cmd.Command, args []string) error {
	if len(args) < 1 {
		h.displayUsage(c)
		return nil
	}

	cycles, err := h.parseValue(strings.Join(args, " "))
	if err != nil {
		h.reportError(err)
		return nil
	}
	if cycles < 0 {
		h.reportError(errExprValue)
		return nil
	}

	// Step toward the cycle target so a break request can stop a long
	// execution. Breakpoints are reported but do not stop it.
	target := uint64(cycles)
	h.interrupt.Store(false)
	h.state = stateRunning
	for h.cpu.Cycles < target {
		if err := h.cpu.Step(); err != nil {
			h.reportError(err)
			break
		}
		if h.interrupt.Swap(false) {
			h.printf("Execution interrupted.\n")
			break
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	h.displayPC()
	return nil
}

func (h *Host) cmdHelp(c *cmd.Command, args []string) error {
	err := cmds.GetHelp(h.output, args)
	h.flush()
	if err != nil {
		h.printf("%v.\n", err)
	}
	return nil
}

func (h *Host) cmdMemoryClear(c *cmd.Command, args []string) error {
	h.mem.Clear()
	h.printf("Memory cleared.\n")
	return nil
}

func (h *Host) cmdMemoryDump(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"$"}
	}

	var addr uint16
	switch args[0] {
	case "$":
		addr = h.settings.NextMemDumpAddr
		if addr == 0 {
			addr = h.cpu.Reg.PC
		}

	default:
		a, err := h.parseExpr(args[0])
		if err != nil {
			h.reportError(err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(args) >= 2 {
		v, err := h.parseExpr(args[1])
		if err != nil {
			h.reportError(err)
			return nil
		}
		bytes = int(v)
	}

	next := h.dumpMemory(addr, bytes)

	h.settings.NextMemDumpAddr = next
	h.lastArgs = []string{"$", fmt.Sprintf("%d", bytes)}
	return nil
}

func (h *Host) cmdMemoryLoad(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[1])
	if err != nil {
		h.reportError(err)
		return nil
	}

	filename := args[0]
	code, err := os.ReadFile(filename)
	if err != nil {
		h.printf("Failed to open '%s': %v\n", filepath.Base(filename), err)
		return nil
	}
	if len(code) == 0 {
		h.printf("File '%s' is empty.\n", filepath.Base(filename))
		return nil
	}

	if err := h.mem.StoreBytes(addr, code); err != nil {
		h.reportError(err)
		return nil
	}
	h.cpu.SetPC(addr)

	h.printf("Loaded '%s' to $%04X..$%04X.\n", filepath.Base(filename), addr, int(addr)+len(code)-1)
	return nil
}

func (h *Host) cmdMemorySet(c *cmd.Command, args []string) error {
	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	addr, err := h.parseExpr(args[0])
	if err != nil {
		h.reportError(err)
		return nil
	}

	b := make([]byte, 0, len(args)-1)
	for _, arg := range args[1:] {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.reportError(err)
			return nil
		}
		b = append(b, byte(v))
	}

	if err := h.mem.StoreBytes(addr, b); err != nil {
		h.reportError(err)
		return nil
	}

	h.printf("Stored %d bytes at $%04X.\n", len(b), addr)
	return nil
}

func (h *Host) cmdQuit(c *cmd.Command, args []string) error {
	return errQuit
}

func (h *Host) cmdRegister(c *cmd.Command, args []string) error {
	if len(args) == 0 {
		d, _ := h.disassemble(h.cpu.Reg.PC, displayAll)
		h.println(d)
		return nil
	}

	if len(args) < 2 {
		h.displayUsage(c)
		return nil
	}

	key := strings.ToLower(args[0])
	v, err := h.parseValue(strings.Join(args[1:], " "))
	if err != nil {
		h.reportError(err)
		return nil
	}

	sz := -1
	switch key {
	case "a":
		h.cpu.Reg.A, sz = byte(v), 1
	case "x":
		h.cpu.Reg.X, sz = byte(v), 1
	case "y":
		h.cpu.Reg.Y, sz = byte(v), 1
	case "sp":
		h.cpu.Reg.SP, sz = uint16(v), 2
	case ".":
		key = "pc"
		fallthrough
	case "pc":
		h.cpu.Reg.PC, sz = uint16(v), 2
		h.settings.NextDisasmAddr = h.cpu.Reg.PC
	case "n", "sign":
		h.cpu.Reg.Sign, sz = intToBool(int(v)), 0
	case "z", "zero":
		h.cpu.Reg.Zero, sz = intToBool(int(v)), 0
	case "c", "carry":
		h.cpu.Reg.Carry, sz = intToBool(int(v)), 0
	case "i", "interruptdisable":
		h.cpu.Reg.InterruptDisable, sz = intToBool(int(v)), 0
	case "d", "decimal":
		h.cpu.Reg.Decimal, sz = intToBool(int(v)), 0
	case "v", "overflow":
		h.cpu.Reg.Overflow, sz = intToBool(int(v)), 0
	}

	switch sz {
	case 0:
		h.printf("Status flag %s set to %v.\n", strings.ToUpper(key), intToBool(int(v)))
	case 1:
		h.printf("Register %s set to $%02X.\n", strings.ToUpper(key), byte(v))
	case 2:
		h.printf("Register %s set to $%04X.\n", strings.ToUpper(key), uint16(v))
	default:
		h.printf("Unknown register '%s'.\n", key)
	}
	return nil
}

func (h *Host) cmdReset(c *cmd.Command, args []string) error {
	h.cpu.Reset()
	h.settings.NextDisasmAddr = 0
	h.printf("CPU reset.\n")
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c *cmd.Command, args []string) error {
	if len(args) > 0 {
		pc, err := h.parseExpr(args[0])
		if err != nil {
			h.reportError(err)
			return nil
		}
		h.cpu.SetPC(pc)
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.cpu.Reg.PC)

	h.interrupt.Store(false)
	h.state = stateRunning
	h.runUntilStopped()
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
	return nil
}

func (h *Host) cmdSet(c *cmd.Command, args []string) error {
	switch len(args) {
	case 0:
		h.printf("Variables:\n")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage(c)

	default:
		key, value := args[0], strings.Join(args[1:], " ")
		err := h.settings.Set(key, value, h.parseValue)

		if err == nil {
			h.printf("Setting updated.\n")
		} else {
			h.reportError(err)
		}

		h.onSettingsUpdate()
	}

	return nil
}

func (h *Host) cmdStepIn(c *cmd.Command, args []string) error {
	h.stepRepeat(args, (*Host).step)
	return nil
}

func (h *Host) cmdStepOver(c *cmd.Command, args []string) error {
	h.stepRepeat(args, (*Host).stepOver)
	return nil
}

// Call the step function as many times as the selection's optional count
// argument requests, displaying the last MaxStepLines steps.
func (h *Host) stepRepeat(args []string, fn func(h *Host)) {
	count := 1
	if len(args) > 0 {
		n, err := h.parseValue(args[0])
		if err != nil {
			h.reportError(err)
			return
		}
		count = int(n)
	}

	h.interrupt.Store(false)
	h.state = stateRunning
	for i := count - 1; i >= 0 && h.state == stateRunning; i-- {
		fn(h)
		switch {
		case i == h.settings.MaxStepLines:
			h.println("...")
		case i < h.settings.MaxStepLines:
			h.displayPC()
		}
	}
	h.state = stateProcessingCommands

	h.settings.NextDisasmAddr = h.cpu.Reg.PC
}

// Step the CPU by one instruction. Errors stop the host from running.
func (h *Host) step() {
	if err := h.cpu.Step(); err != nil {
		h.reportError(err)
		h.state = stateError
		return
	}
	if h.interrupt.Swap(false) && h.state == stateRunning {
		h.state = stateInterrupted
	}
}

func (h *Host) stepOver() {
	cpu := h.cpu

	// JSR instructions need to be handled specially.
	inst, err := cpu.GetInstruction(cpu.Reg.PC)
	if err != nil {
		h.reportError(err)
		h.state = stateError
		return
	}
	if inst.Name != "JSR" {
		h.step()
		return
	}

	// Place a step-over breakpoint on the instruction following the JSR.
	// Either modify an already existing breakpoint on that instrution, or
	// create a temporary one.
	next := cpu.Reg.PC + uint16(inst.Length)
	tmpBreakpointCreated := false
	b := h.debugger.GetBreakpoint(next)
	if b == nil {
		b = h.debugger.AddBreakpoint(next)
		tmpBreakpointCreated = true
	}
	b.StepOver = true

	// Run until interrupted.
	h.runUntilStopped()
	b.StepOver = false

	// If we were interrupted by the temporary step-over breakpoint,
	// then continue as normal.
	if h.state == stateStepOverBreakpoint {
		h.state = stateRunning
	}

	// Remove the temporarily created breakpoint.
	if tmpBreakpointCreated {
		h.debugger.RemoveBreakpoint(next)
	}
}

// Step the CPU until something stops it: a breakpoint, an error, a break
// request or the run cycle limit.
func (h *Host) runUntilStopped() {
	start := h.cpu.Cycles
	for h.state == stateRunning {
		h.step()

		limit := h.settings.RunCycleLimit
		if h.state == stateRunning && limit != 0 && h.cpu.Cycles-start >= limit {
			h.printf("Run cycle limit reached.\n")
			h.state = stateInterrupted
		}
	}

	if h.state == stateInterrupted {
		h.displayPC()
	}
}

func (h *Host) onSettingsUpdate() {
	h.expr.hexMode = h.settings.HexMode
	h.cpu.Lenient = h.settings.Lenient
}

// Evaluate an expression that must produce a 16-bit value. Negative values
// down to -$10000 wrap.
func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.parseValue(expr)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	if v < 0 || v > 0xffff {
		return 0, errExprValue
	}
	return uint16(v), nil
}

func (h *Host) parseValue(expr string) (int64, error) {
	return h.expr.Eval(expr, h)
}

func (h *Host) identifiers() starlark.StringDict {
	r := &h.cpu.Reg
	return starlark.StringDict{
		"a":  starlark.MakeInt(int(r.A)),
		"x":  starlark.MakeInt(int(r.X)),
		"y":  starlark.MakeInt(int(r.Y)),
		"sp": starlark.MakeInt(int(r.SP)),
		"pc": starlark.MakeInt(int(r.PC)),
	}
}

func (h *Host) disassemble(addr uint16, flags displayFlags) (str string, next uint16) {
	line, next, err := disasm.Disassemble(h.cpu, addr)
	if err != nil {
		line, next = "???", addr+1
	}

	l := next - addr
	b := make([]byte, l)
	if err := h.mem.LoadBytes(addr, b); err != nil {
		b = nil
	}

	str = fmt.Sprintf("%04X-   %-8s    %-15s", addr, codeString(b), line)

	if (flags & displayRegisters) != 0 {
		str += " " + disasm.RegisterString(&h.cpu.Reg)
	}

	if (flags & displayCycles) != 0 {
		str += fmt.Sprintf(" C=%d", h.cpu.Cycles)
	}

	return strings.TrimRight(str, " "), next
}

// Dump rows of 16 bytes covering 'bytes' bytes from the 16-byte boundary
// at or below addr0. Return the address following the last row.
func (h *Host) dumpMemory(addr0 uint16, bytes int) (next uint16) {
	if bytes <= 0 {
		return addr0
	}

	start := uint32(addr0) & 0xfff0
	stop := (start + uint32(bytes) + 15) & 0x1fff0
	if stop > 0x10000 {
		stop = 0x10000
	}

	buf := []byte("    -" + strings.Repeat(" ", 66))

	for r := start; r < stop; r += 16 {
		addrToBuf(uint16(r), buf[0:4])
		for i := uint32(0); i < 16; i++ {
			c1, c2 := 6+3*i, 55+i
			m, err := h.mem.LoadByte(uint16(r + i))
			if err != nil {
				buf[c1], buf[c1+1], buf[c2] = '?', '?', '?'
				continue
			}
			byteToBuf(m, buf[c1:c1+2])
			buf[c2] = toPrintableChar(m)
		}
		h.println(string(buf))
	}

	return uint16(stop)
}

func (h *Host) displayUsage(c *cmd.Command) {
	if c.Usage == "" {
		h.println("<no help text>")
		return
	}
	c.DisplayUsage(h.output)
	h.flush()
}

// A debugHandler is a Host viewed as the receiver of debugger
// notifications.
type debugHandler Host

func (d *debugHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	(*Host)(d).onBreakpoint(c, b)
}

func (d *debugHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	(*Host)(d).onDataBreakpoint(c, b)
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if b.StepOver {
		h.state = stateStepOverBreakpoint
	} else {
		h.state = stateBreakpoint
		h.printf("Breakpoint hit at $%04X.\n", b.Address)
		h.displayPC()
	}
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	h.state = stateBreakpoint

	if cpu.LastPC != cpu.Reg.PC {
		d, _ := h.disassemble(cpu.LastPC, displayAll)
		h.println(d)
	}

	h.displayPC()
}
