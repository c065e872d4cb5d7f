// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Exzap/wut-tools/internal/rpl"
)

func mainE() error {
	var isRPL bool
	flag.BoolVar(&isRPL, "r", false, "produce an RPL (library) instead of an RPX (executable)")
	flag.BoolVar(&isRPL, "rpl", false, "produce an RPL (library) instead of an RPX (executable)")

	var showHelp bool
	flag.BoolVar(&showHelp, "H", false, "show usage")
	flag.BoolVar(&showHelp, "help", false, "show usage")

	flag.Parse()

	if showHelp {
		fmt.Println("usage: elf2rpl [-r|--rpl] [-H|--help] <src> <dst>")
		return nil
	}

	args := flag.Args()
	if len(args) != 2 {
		return fmt.Errorf("expected 2 positional arguments (src, dst), got %d", len(args))
	}
	src, dst := args[0], args[1]

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	flags := uint32(rpl.RplIsRpx)
	if isRPL {
		flags = 0
	}

	out, err := rpl.Convert(data, flags)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, out, 0644)
}

func main() {
	if err := mainE(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
