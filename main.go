// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/beevik/cycle6502/host"
	"github.com/beevik/term"
)

var (
	lenient bool
)

func init() {
	flag.BoolVar(&lenient, "lenient", false, "treat illegal opcodes as 1-cycle no-ops")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: cycle6502 [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("cycle6502: ")
	flag.Parse()

	h := host.New()
	h.SetLenient(lenient)

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			log.Fatalf("%v", err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands from standard input, prompting only on a terminal.
	h.RunCommands(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}
