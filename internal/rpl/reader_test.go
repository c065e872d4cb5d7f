// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMinimalElf(t *testing.T) []byte {
	t.Helper()

	shstrtab := []byte{0, '.', 's', 'h', 's', 't', 'r', 't', 'a', 'b', 0, '.', 't', 'e', 'x', 't', 0}
	text := bytes.Repeat([]byte{0x60, 0x00, 0x00, 0x00}, 4)

	img := &ElfImage{
		Header: ElfHeader{
			Class: ELFCLASS32, Encoding: ELFDATA2MSB, Version8: EV_CURRENT,
			Machine: EM_PPC, Version: EV_CURRENT,
			SHOff: elfHeaderSize, SHEntSize: sectionHeaderSize, SHNum: 2, SHStrNdx: 1,
		},
		Sections: []*Section{
			{Name: ".text", Header: SectionHeader{Type: SHT_PROGBITS, NameOffset: 11, Flags: SHF_EXECINSTR | SHF_ALLOC}, Data: text},
			{Name: ".shstrtab", Header: SectionHeader{Type: SHT_STRTAB, NameOffset: 1}, Data: shstrtab},
		},
	}

	shOff := elfHeaderSize + uint32(len(img.Sections))*sectionHeaderSize
	cursor := shOff + uint32(len(img.Sections))*sectionHeaderSize
	for _, s := range img.Sections {
		s.Header.Offset = cursor
		s.Header.Size = uint32(len(s.Data))
		cursor += s.Header.Size
	}
	img.Header.SHOff = shOff

	data, err := EncodeImage(img)
	require.NoError(t, err)
	return data
}

func TestReadImageRoundTripsSectionsAndNames(t *testing.T) {
	raw := buildMinimalElf(t)

	img, err := ReadImage(bytes.NewReader(raw))
	require.NoError(t, err)

	require.Len(t, img.Sections, 2)
	assert.Equal(t, ".text", img.Sections[0].Name)
	assert.Equal(t, ".shstrtab", img.Sections[1].Name)
	assert.Equal(t, uint16(1), img.Header.SHStrNdx)
}

func TestReadImageRejectsBadMachine(t *testing.T) {
	raw := buildMinimalElf(t)
	// Machine follows Type in wireElfHeader, right after the 16-byte ident.
	raw[18] = 0
	raw[19] = 0

	_, err := ReadImage(bytes.NewReader(raw))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reader")
}

func TestReadSymbolsRejectsMisalignedPayload(t *testing.T) {
	_, err := ReadSymbols(make([]byte, symbolSize+1))
	assert.Error(t, err)
}
