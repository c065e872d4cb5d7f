// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"fmt"
	"sort"
)

// FixRelocations rewrites every R_PPC_REL32 relocation into a
// GHS_REL16_HI/GHS_REL16_LO pair and clears the flags of every RELA section
// (RPL relocations must be non-allocated). It fails overall if any
// relocation type outside the supported set is encountered, or if a
// R_PPC_REL32 references a symbol index out of range of its symbol table;
// in both cases it keeps scanning so every distinct problem is reported once
// before returning.
func FixRelocations(img *ElfImage) error {
	unsupported := map[uint32]bool{}
	var danglingErrs []string
	ok := true

	for _, sec := range img.Sections {
		if sec.Header.Type != SHT_RELA {
			continue
		}

		relas, err := ReadRelas(sec.Data)
		if err != nil {
			return wrapStage("relocation fixer", err)
		}

		var symCount int
		if int(sec.Header.Link) < len(img.Sections) {
			symtab := img.Sections[sec.Header.Link]
			symCount = len(symtab.Data) / symbolSize
		}

		var appended []Rela
		for i := range relas {
			rel := &relas[i]
			switch {
			case supportedRelocationTypes[rel.Type]:
				// valid on the Wii U, nothing to do
			case rel.Type == R_PPC_REL32:
				if int(rel.SymbolIdx) >= symCount {
					danglingErrs = append(danglingErrs, fmt.Sprintf(
						"R_PPC_REL32 at offset 0x%x references out-of-range symbol %d", rel.Offset, rel.SymbolIdx))
					ok = false
					continue
				}
				appended = append(appended, Rela{
					Offset:    rel.Offset + 2,
					SymbolIdx: rel.SymbolIdx,
					Type:      R_PPC_GHS_REL16_LO,
					Addend:    rel.Addend + 2,
				})
				rel.Type = R_PPC_GHS_REL16_HI
			default:
				if !unsupported[rel.Type] {
					unsupported[rel.Type] = true
					ok = false
				}
			}
		}

		relas = append(relas, appended...)
		data, err := WriteRelas(relas)
		if err != nil {
			return wrapStage("relocation fixer", err)
		}
		sec.Data = data
		sec.Header.Flags = 0
	}

	if !ok {
		var msgs []string
		types := make([]uint32, 0, len(unsupported))
		for t := range unsupported {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, t := range types {
			msgs = append(msgs, fmt.Sprintf("unsupported relocation type %d", t))
		}
		msgs = append(msgs, danglingErrs...)
		return wrapStage("relocation fixer", fmt.Errorf("%d problem(s): %v", len(msgs), msgs))
	}

	return nil
}
