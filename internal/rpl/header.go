// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import "fmt"

// FinalizeHeader rewrites the ELF header's identification, type, and
// section-table descriptors to RPL conventions.
func FinalizeHeader(img *ElfImage) error {
	idx := sectionIndexByName(img, ".shstrtab")
	if idx < 0 {
		return wrapStage("header finalizer", fmt.Errorf("no .shstrtab section found"))
	}

	h := &img.Header
	h.Class = ELFCLASS32
	h.Encoding = ELFDATA2MSB
	h.Version8 = EV_CURRENT
	h.OSABI = EABI_CAFE
	h.Type = ET_RPL
	h.Machine = EM_PPC
	h.Version = EV_CURRENT
	h.Flags = 0
	h.PHOff = 0
	h.PHEntSize = 0
	h.PHNum = 0
	h.SHOff = alignUp(elfHeaderSize, 64)
	h.SHEntSize = sectionHeaderSize
	h.SHNum = uint16(len(img.Sections))
	h.EHSize = elfHeaderSize
	h.SHStrNdx = uint16(idx)
	return nil
}

func sectionIndexByName(img *ElfImage, name string) int {
	for i, s := range img.Sections {
		if s.Name == name {
			return i
		}
	}
	return -1
}
