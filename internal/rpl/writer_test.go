// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteImagePlacesSectionDataAtAssignedOffsets(t *testing.T) {
	sec := &Section{Header: SectionHeader{Type: SHT_PROGBITS, Offset: 100, Size: 4}, Data: []byte{0xAA, 0xBB, 0xCC, 0xDD}}
	img := &ElfImage{
		Header: ElfHeader{
			Class: ELFCLASS32, Encoding: ELFDATA2MSB, Machine: EM_PPC, Version: EV_CURRENT,
			SHOff: elfHeaderSize, SHEntSize: sectionHeaderSize, SHNum: 1,
		},
		Sections: []*Section{sec},
	}

	out, err := EncodeImage(img)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(out), 104)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, out[100:104])
	assert.Equal(t, byte(0x7F), out[0])
	assert.Equal(t, []byte("ELF"), out[1:4])
}
