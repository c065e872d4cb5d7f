// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"bytes"
	"hash/crc32"
)

// GenerateCRCs computes a CRC-32 (zlib polynomial, seed 0) over every
// section's current data and appends one SHT_RPL_CRCS section holding the
// table, inserted immediately before the (already-appended) file-info
// section. The CRC section reports zero for its own slot; ChecksumIEEE is
// the same polynomial/seed pair as the reference tool's
// crc32(0, Z_NULL, 0) + crc32(crc, data, len) pair, computed in one call.
//
// Must run after GenerateFileInfo, since its insertion point is defined
// relative to the file-info section at the tail of the list.
func GenerateCRCs(img *ElfImage) error {
	n := len(img.Sections)
	perSection := make([]uint32, n)
	for i, sec := range img.Sections {
		if len(sec.Data) > 0 {
			perSection[i] = crc32.ChecksumIEEE(sec.Data)
		}
	}

	// The table has one entry per final section (n+1, once the CRC section
	// itself is inserted): perSection in order, with a zero slot for the
	// CRC section spliced in right before file-info's entry.
	table := make([]uint32, n+1)
	copy(table, perSection[:n-1])
	table[n-1] = 0
	table[n] = perSection[n-1]

	var buf bytes.Buffer
	for _, crc := range table {
		if err := writeBE(&buf, crc); err != nil {
			return wrapStage("crc generator", err)
		}
	}

	crcSection := &Section{
		Header: SectionHeader{
			Type:      SHT_RPL_CRCS,
			AddrAlign: 4,
			EntSize:   4,
		},
		Data: buf.Bytes(),
	}

	// Insert just before file-info, which is the last section.
	sections := make([]*Section, 0, n+1)
	sections = append(sections, img.Sections[:n-1]...)
	sections = append(sections, crcSection)
	sections = append(sections, img.Sections[n-1])
	img.Sections = sections

	return nil
}
