// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func relaImage(t *testing.T, relas []Rela, symCount int) *ElfImage {
	t.Helper()
	relaData, err := WriteRelas(relas)
	require.NoError(t, err)
	symtab := &Section{Header: SectionHeader{Type: SHT_SYMTAB}, Data: make([]byte, symCount*symbolSize)}
	rela := &Section{Header: SectionHeader{Type: SHT_RELA, Link: 0, Flags: SHF_ALLOC}, Data: relaData}
	return &ElfImage{Sections: []*Section{symtab, rela}}
}

func TestFixRelocationsRewritesREL32(t *testing.T) {
	img := relaImage(t, []Rela{{Offset: 8, SymbolIdx: 1, Type: R_PPC_REL32, Addend: 0}}, 2)

	require.NoError(t, FixRelocations(img))

	rela := img.Sections[1]
	assert.Equal(t, SectionFlag(0), rela.Header.Flags)

	relas, err := ReadRelas(rela.Data)
	require.NoError(t, err)
	require.Len(t, relas, 2)
	assert.Equal(t, Rela{Offset: 8, SymbolIdx: 1, Type: R_PPC_GHS_REL16_HI, Addend: 0}, relas[0])
	assert.Equal(t, Rela{Offset: 10, SymbolIdx: 1, Type: R_PPC_GHS_REL16_LO, Addend: 2}, relas[1])
}

func TestFixRelocationsPassesSupportedTypesThrough(t *testing.T) {
	img := relaImage(t, []Rela{{Offset: 4, SymbolIdx: 0, Type: R_PPC_ADDR32, Addend: 0}}, 1)

	require.NoError(t, FixRelocations(img))

	relas, err := ReadRelas(img.Sections[1].Data)
	require.NoError(t, err)
	require.Len(t, relas, 1)
	assert.Equal(t, uint32(R_PPC_ADDR32), relas[0].Type)
}

func TestFixRelocationsReportsUnsupportedType(t *testing.T) {
	const rAddr24 = 2 // R_PPC_ADDR24, not in the supported set
	img := relaImage(t, []Rela{{Offset: 4, SymbolIdx: 0, Type: rAddr24, Addend: 0}}, 1)

	err := FixRelocations(img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported relocation type 2")
}

func TestFixRelocationsReportsDanglingSymbol(t *testing.T) {
	img := relaImage(t, []Rela{{Offset: 4, SymbolIdx: 5, Type: R_PPC_REL32, Addend: 0}}, 1)

	err := FixRelocations(img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out-of-range symbol 5")
}
