// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeHeaderSetsRplConventions(t *testing.T) {
	shstrtab := &Section{Name: ".shstrtab", Header: SectionHeader{Type: SHT_STRTAB}}
	other := &Section{Name: ".text"}
	img := &ElfImage{Sections: []*Section{other, shstrtab}}

	require.NoError(t, FinalizeHeader(img))

	h := img.Header
	assert.Equal(t, uint8(ELFCLASS32), h.Class)
	assert.Equal(t, uint8(ELFDATA2MSB), h.Encoding)
	assert.Equal(t, uint16(ET_RPL), h.Type)
	assert.Equal(t, uint16(EM_PPC), h.Machine)
	assert.Equal(t, uint8(EABI_CAFE), h.OSABI)
	assert.Zero(t, h.PHOff)
	assert.Zero(t, h.PHNum)
	assert.Equal(t, uint16(1), h.SHStrNdx)
	assert.Equal(t, uint16(2), h.SHNum)
	assert.Equal(t, uint16(sectionHeaderSize), h.SHEntSize)
	assert.Equal(t, alignUp(elfHeaderSize, 64), h.SHOff)
}

func TestFinalizeHeaderErrorsWithoutShstrtab(t *testing.T) {
	img := &ElfImage{Sections: []*Section{{Name: ".text"}}}
	err := FinalizeHeader(img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header finalizer")
}
