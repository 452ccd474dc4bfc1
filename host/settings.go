// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/beevik/prefixtree/v2"

	"github.com/beevik/cycle6502/translate"
)

var (
	errSettingNotFound = errors.New("setting not found")
	errSettingValue    = errors.New("setting value out of range")
)

type settings struct {
	HexMode         bool
	Lenient         bool
	MemDumpBytes    int
	DisasmLines     int
	MaxStepLines    int
	RunCycleLimit   uint64
	NextDisasmAddr  uint16
	NextMemDumpAddr uint16
}

func newSettings() *settings {
	return &settings{
		MemDumpBytes: 32,
		DisasmLines:  10,
		MaxStepLines: 20,
	}
}

// A setting describes one field of the settings struct. The field is
// reached through ref, which returns a *bool, *int, *uint64 or *uint16.
type setting struct {
	name string
	doc  string
	ref  func(s *settings) any
}

var settingList = []*setting{
	{"HexMode", "hexadecimal input mode", func(s *settings) any { return &s.HexMode }},
	{"Lenient", "treat illegal opcodes as 1-cycle no-ops", func(s *settings) any { return &s.Lenient }},
	{"MemDumpBytes", "default number of memory bytes to dump", func(s *settings) any { return &s.MemDumpBytes }},
	{"DisasmLines", "default number of lines to disassemble", func(s *settings) any { return &s.DisasmLines }},
	{"MaxStepLines", "max lines to disassemble when stepping", func(s *settings) any { return &s.MaxStepLines }},
	{"RunCycleLimit", "cycles after which run stops (0 = never)", func(s *settings) any { return &s.RunCycleLimit }},
	{"NextDisasmAddr", "address of next disassembly", func(s *settings) any { return &s.NextDisasmAddr }},
	{"NextMemDumpAddr", "address of next memory dump", func(s *settings) any { return &s.NextMemDumpAddr }},
}

var settingTree = prefixtree.New[*setting]()

func init() {
	for _, st := range settingList {
		settingTree.Add(strings.ToLower(st.name), st)
	}
}

// Display writes every setting with its current value and description.
func (s *settings) Display(w io.Writer) {
	for _, st := range settingList {
		var v string
		switch p := st.ref(s).(type) {
		case *bool:
			v = fmt.Sprintf("%v", *p)
		case *int:
			v = fmt.Sprintf("%d", *p)
		case *uint64:
			v = fmt.Sprintf("%d", *p)
		case *uint16:
			v = fmt.Sprintf("$%04X", *p)
		}
		line := fmt.Sprintf("    %-16s %s", st.name, v)
		fmt.Fprintf(w, "%-28s (%s)\n", line, translate.From(st.doc))
	}
}

// Set assigns a value to the setting whose name is uniquely prefixed by
// key. Boolean settings accept true/false style words; numeric settings
// are evaluated with eval.
func (s *settings) Set(key, value string, eval func(string) (int64, error)) error {
	st, err := settingTree.FindValue(strings.ToLower(key))
	if err != nil {
		return fmt.Errorf("%w: %s", errSettingNotFound, key)
	}

	if p, ok := st.ref(s).(*bool); ok {
		b, err := stringToBool(value)
		if err != nil {
			return err
		}
		*p = b
		return nil
	}

	v, err := eval(value)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s", errSettingValue, st.name)
	}

	switch p := st.ref(s).(type) {
	case *int:
		if v > math.MaxInt32 {
			return fmt.Errorf("%w: %s", errSettingValue, st.name)
		}
		*p = int(v)
	case *uint64:
		*p = uint64(v)
	case *uint16:
		if v > 0xffff {
			return fmt.Errorf("%w: %s", errSettingValue, st.name)
		}
		*p = uint16(v)
	}
	return nil
}
