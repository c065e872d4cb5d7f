// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"github.com/Exzap/wut-tools/internal/region"
)

// LayoutOffsets assigns each section its final on-disk offset, in the
// strict ordering discipline RPL requires: CRCs, file-info, writable
// allocated data, read-only allocated data (imports included), executable
// code, then non-allocated temp sections. Within a pass, sections are
// placed in their existing positional order — the pass filters are what
// produce the RPL ordering, not a resort of the section list.
func LayoutOffsets(img *ElfImage) error {
	for _, sec := range img.Sections {
		if sec.Header.Type == SHT_NOBITS || sec.Header.Type == SHT_NULL {
			sec.Header.Offset = 0
			sec.Data = nil
		}
	}

	cursor := img.Header.SHOff + alignUp(uint32(len(img.Sections))*sectionHeaderSize, 64)
	r := region.NewRegion[*Section](uint64(cursor), 1<<40, false)

	passes := []func(*Section) bool{
		func(s *Section) bool { return s.Header.Type == SHT_RPL_CRCS },
		func(s *Section) bool { return s.Header.Type == SHT_RPL_FILEINFO },
		isWritableDataSection,
		isReadOnlyAllocSection,
		func(s *Section) bool { return s.Header.Type == SHT_RPL_IMPORTS },
		isCodeSection,
		isTempSection,
	}

	for _, include := range passes {
		for _, sec := range img.Sections {
			if len(sec.Data) == 0 || !include(sec) {
				continue
			}
			ok, _ := r.Place(sec, nil, false)
			if !ok {
				return wrapStagef("offset layouter", "could not place section %q", sec.Name)
			}
			sec.Header.Size = uint32(len(sec.Data))
		}
	}

	for i, sec := range img.Sections {
		if sec.Header.Offset == 0 && sec.Header.Type != SHT_NULL && sec.Header.Type != SHT_NOBITS {
			return wrapStagef("offset layouter", "failed to calculate offset for section %d", i)
		}
	}

	return nil
}

// excludedFromDataPasses is the set of types that passes C, D, F, G never
// place even when their flag predicate would otherwise match — most
// notably SHT_RPL_IMPORTS, whose EXECINSTR flag would otherwise land it in
// the code pass (F) instead of its own pass (E).
func excludedFromDataPasses(s *Section) bool {
	switch s.Header.Type {
	case SHT_RPL_FILEINFO, SHT_RPL_IMPORTS, SHT_RPL_CRCS, SHT_NOBITS:
		return true
	}
	return false
}

func isWritableDataSection(s *Section) bool {
	if excludedFromDataPasses(s) {
		return false
	}
	f := s.Header.Flags
	return f&SHF_EXECINSTR == 0 && f&SHF_WRITE != 0 && f&SHF_ALLOC != 0
}

func isReadOnlyAllocSection(s *Section) bool {
	if excludedFromDataPasses(s) {
		return false
	}
	f := s.Header.Flags
	return (f&SHF_EXECINSTR == 0 || s.Header.Type == SHT_RPL_EXPORTS) &&
		f&SHF_WRITE == 0 && f&SHF_ALLOC != 0
}

func isCodeSection(s *Section) bool {
	if excludedFromDataPasses(s) {
		return false
	}
	return s.Header.Flags&SHF_EXECINSTR != 0 && s.Header.Type != SHT_RPL_EXPORTS
}

func isTempSection(s *Section) bool {
	if excludedFromDataPasses(s) {
		return false
	}
	f := s.Header.Flags
	return f&SHF_EXECINSTR == 0 && f&SHF_ALLOC == 0
}
