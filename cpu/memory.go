// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrMemorySize        = errors.New("invalid memory size")
)

// An AddressError is returned when a memory access falls outside the
// configured size of a memory.
type AddressError struct {
	Addr uint16 // address being accessed
	Size int    // size of the memory in bytes
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address $%04X outside memory of %d bytes", e.Addr, e.Size)
}

// Unwrap returns ErrMemoryOutOfBounds.
func (e *AddressError) Unwrap() error {
	return ErrMemoryOutOfBounds
}

// The Memory interface presents an interface to the CPU through which all
// memory accesses occur.
type Memory interface {
	// LoadByte loads a single byte from the address and returns it.
	LoadByte(addr uint16) (byte, error)

	// StoreByte stores a byte to the requested address.
	StoreByte(addr uint16, v byte) error

	// Clear sets every byte of memory to zero.
	Clear()
}

// MaxMemorySize is the size of the entire 16-bit address space.
const MaxMemorySize = 64 * 1024

// FlatMemory represents a contiguous block of memory starting at address
// zero. Every instance owns its own buffer.
type FlatMemory struct {
	b []byte
}

// NewFlatMemory creates a memory covering the entire 16-bit address space.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{b: make([]byte, MaxMemorySize)}
}

// NewSizedMemory creates a memory of 'size' bytes. Accesses at or above
// 'size' fail with ErrMemoryOutOfBounds.
func NewSizedMemory(size int) (*FlatMemory, error) {
	if size <= 0 || size > MaxMemorySize {
		return nil, fmt.Errorf("%w: %d", ErrMemorySize, size)
	}
	return &FlatMemory{b: make([]byte, size)}, nil
}

// Size returns the number of addressable bytes.
func (m *FlatMemory) Size() int {
	return len(m.b)
}

// LoadByte loads a single byte from the address and returns it.
func (m *FlatMemory) LoadByte(addr uint16) (byte, error) {
	if int(addr) >= len(m.b) {
		return 0, m.errorAt(addr)
	}
	return m.b[addr], nil
}

// LoadBytes loads len(b) bytes starting at the address. Nothing is copied
// unless the whole range is in bounds.
func (m *FlatMemory) LoadBytes(addr uint16, b []byte) error {
	if err := m.checkRange(addr, len(b)); err != nil {
		return err
	}
	copy(b, m.b[addr:])
	return nil
}

// StoreByte stores a byte at the requested address.
func (m *FlatMemory) StoreByte(addr uint16, v byte) error {
	if int(addr) >= len(m.b) {
		return m.errorAt(addr)
	}
	m.b[addr] = v
	return nil
}

// StoreBytes stores multiple bytes to the requested address. Nothing is
// stored unless the whole range is in bounds.
func (m *FlatMemory) StoreBytes(addr uint16, b []byte) error {
	if err := m.checkRange(addr, len(b)); err != nil {
		return err
	}
	copy(m.b[addr:], b)
	return nil
}

// Clear sets every byte of memory to zero.
func (m *FlatMemory) Clear() {
	clear(m.b)
}

// Clone returns an independent copy of the memory.
func (m *FlatMemory) Clone() *FlatMemory {
	b := make([]byte, len(m.b))
	copy(b, m.b)
	return &FlatMemory{b: b}
}

func (m *FlatMemory) checkRange(addr uint16, n int) error {
	if n > 0 && int(addr)+n > len(m.b) {
		return m.errorAt(addr)
	}
	return nil
}

func (m *FlatMemory) errorAt(addr uint16) error {
	return &AddressError{Addr: addr, Size: len(m.b)}
}

// Return the offset address 'addr' + 'offset'. If the offset
// crossed a page boundary, return 'pageCrossed' as true.
func offsetAddress(addr uint16, offset byte) (newAddr uint16, pageCrossed bool) {
	newAddr = addr + uint16(offset)
	pageCrossed = ((newAddr & 0xff00) != (addr & 0xff00))
	return newAddr, pageCrossed
}

// Offset a zero-page address 'addr' by 'offset'. If the address
// exceeds the zero-page address space, wrap it.
func offsetZeroPage(addr uint16, offset byte) uint16 {
	return (addr + uint16(offset)) & 0xff
}

// Convert a 1- or 2-byte operand into an address.
func operandToAddress(operand []byte) uint16 {
	switch {
	case len(operand) == 1:
		return uint16(operand[0])
	case len(operand) == 2:
		return uint16(operand[0]) | uint16(operand[1])<<8
	}
	return 0
}

// Given a stack pointer register, return the corresponding stack memory
// address. Only the low byte of the stack pointer selects the slot.
func stackAddress(sp uint16) uint16 {
	return stackPage | (sp & 0xff)
}
