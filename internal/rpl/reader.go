// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"bytes"
	"fmt"
	"io"
)

// ReadImage parses a freshly-linked ELF object into an ElfImage. Section
// order from the input is preserved exactly.
func ReadImage(r io.ReadSeeker) (*ElfImage, error) {
	header, err := readElfHeader(r)
	if err != nil {
		return nil, wrapStage("reader", err)
	}

	if header.Class != ELFCLASS32 {
		return nil, wrapStagef("reader", "unexpected ELF file class %d, expected %d", header.Class, ELFCLASS32)
	}
	if header.Encoding != ELFDATA2MSB {
		return nil, wrapStagef("reader", "unexpected ELF encoding %d, expected %d", header.Encoding, ELFDATA2MSB)
	}
	if header.Machine != EM_PPC {
		return nil, wrapStagef("reader", "unexpected ELF machine type %d, expected %d", header.Machine, EM_PPC)
	}
	if header.Version != EV_CURRENT {
		return nil, wrapStagef("reader", "unexpected ELF version %d, expected %d", header.Version, EV_CURRENT)
	}

	if _, err := r.Seek(int64(header.SHOff), io.SeekStart); err != nil {
		return nil, wrapStage("reader", err)
	}

	sections := make([]*Section, 0, header.SHNum)
	for i := 0; i < int(header.SHNum); i++ {
		sh, err := readSectionHeader(r)
		if err != nil {
			return nil, wrapStagef("reader", "section %d: %v", i, err)
		}
		sections = append(sections, &Section{Header: sh})
	}

	for i, s := range sections {
		if !s.Header.Type.HasDataInFile() || s.Header.Size == 0 {
			continue
		}
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, wrapStage("reader", err)
		}
		if _, err := r.Seek(int64(s.Header.Offset), io.SeekStart); err != nil {
			return nil, wrapStagef("reader", "section %d: %v", i, err)
		}
		data := make([]byte, s.Header.Size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, wrapStagef("reader", "section %d: %v", i, err)
		}
		s.Data = data
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return nil, wrapStage("reader", err)
		}
	}

	if int(header.SHStrNdx) >= len(sections) {
		return nil, wrapStagef("reader", "shstrndx %d out of range", header.SHStrNdx)
	}
	shstrtab := sections[header.SHStrNdx].Data
	for _, s := range sections {
		s.Name = readString(shstrtab, s.Header.NameOffset)
	}

	return &ElfImage{Header: header, Sections: sections}, nil
}

// ReadSymbols decodes the symbol table payload of a SHT_SYMTAB section.
func ReadSymbols(data []byte) ([]Symbol, error) {
	if len(data)%symbolSize != 0 {
		return nil, fmt.Errorf("symtab size %d is not a multiple of %d", len(data), symbolSize)
	}
	count := len(data) / symbolSize
	syms := make([]Symbol, count)
	br := bytes.NewReader(data)
	for i := 0; i < count; i++ {
		sym, err := readSymbol(br)
		if err != nil {
			return nil, err
		}
		syms[i] = sym
	}
	return syms, nil
}

// WriteSymbols encodes a symbol table back into a SHT_SYMTAB payload.
func WriteSymbols(syms []Symbol) ([]byte, error) {
	var buf bytes.Buffer
	for _, sym := range syms {
		if err := writeSymbol(&buf, sym); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// ReadRelas decodes the relocation payload of a SHT_RELA section.
func ReadRelas(data []byte) ([]Rela, error) {
	if len(data)%relaSize != 0 {
		return nil, fmt.Errorf("rela size %d is not a multiple of %d", len(data), relaSize)
	}
	count := len(data) / relaSize
	relas := make([]Rela, count)
	br := bytes.NewReader(data)
	for i := 0; i < count; i++ {
		rel, err := readRela(br)
		if err != nil {
			return nil, err
		}
		relas[i] = rel
	}
	return relas, nil
}

// WriteRelas encodes a relocation table back into a SHT_RELA payload.
func WriteRelas(relas []Rela) ([]byte, error) {
	var buf bytes.Buffer
	for _, rel := range relas {
		if err := writeRela(&buf, rel); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
