// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

// alignUp rounds v up to the next multiple of align (align of 0 or 1 is a
// no-op).
func alignUp(v, align uint32) uint32 {
	if align <= 1 {
		return v
	}
	return (v + align - 1) / align * align
}

// RelocateLoaderSections moves every SHT_SYMTAB/SHT_STRTAB section into the
// loader address window (addresses >= LoadBaseAddress), since the linker
// script never places them there itself. Every symbol and relocation
// offset pointing into a moved section is rewritten to track the move.
func RelocateLoaderSections(img *ElfImage) error {
	loadMax := uint32(LoadBaseAddress)
	for _, sec := range img.Sections {
		end := sec.Header.Addr + uint32(len(sec.Data))
		if end > loadMax {
			loadMax = end
		}
	}

	for i, sec := range img.Sections {
		if sec.Header.Type != SHT_SYMTAB && sec.Header.Type != SHT_STRTAB {
			continue
		}

		newAddr := alignUp(loadMax, sec.Header.AddrAlign)
		if err := relocateSection(img, sec, i, newAddr); err != nil {
			return wrapStage("address relocator", err)
		}
		sec.Header.Flags |= SHF_ALLOC
		loadMax = newAddr + uint32(len(sec.Data))
	}

	return nil
}

// relocateSection moves section idx's virtual base to newAddr, rewriting
// every symbol and relocation offset that pointed into its old range. The
// range test is deliberately inclusive of the end address: two abutting
// sections may share an endpoint, and a symbol placed at that exact address
// must follow the section being moved.
func relocateSection(img *ElfImage, sec *Section, idx int, newAddr uint32) error {
	old := sec.Header.Addr
	length := uint32(len(sec.Data))
	if length == 0 {
		length = sec.Header.Size
	}
	end := old + length

	for _, symtab := range img.Sections {
		if symtab.Header.Type != SHT_SYMTAB {
			continue
		}
		syms, err := ReadSymbols(symtab.Data)
		if err != nil {
			return err
		}
		changed := false
		for i := range syms {
			s := &syms[i]
			if s.Type != STT_OBJECT && s.Type != STT_FUNC && s.Type != STT_SECTION {
				continue
			}
			if s.Value >= old && s.Value <= end {
				s.Value = (s.Value - old) + newAddr
				changed = true
			}
		}
		if changed {
			data, err := WriteSymbols(syms)
			if err != nil {
				return err
			}
			symtab.Data = data
		}
	}

	for _, rela := range img.Sections {
		if rela.Header.Type != SHT_RELA || int(rela.Header.Info) != idx {
			continue
		}
		relas, err := ReadRelas(rela.Data)
		if err != nil {
			return err
		}
		changed := false
		for i := range relas {
			r := &relas[i]
			if r.Offset >= old && r.Offset <= end {
				r.Offset = (r.Offset - old) + newAddr
				changed = true
			}
		}
		if changed {
			data, err := WriteRelas(relas)
			if err != nil {
				return err
			}
			rela.Data = data
		}
	}

	sec.Header.Addr = newAddr
	return nil
}
