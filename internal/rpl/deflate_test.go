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

func TestDeflateSectionsCompressesEligiblePayloads(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, 0x40)
	sec := &Section{Data: append([]byte{}, payload...)}
	img := &ElfImage{Sections: []*Section{sec}}

	require.NoError(t, DeflateSections(img))

	assert.NotZero(t, sec.Header.Flags&SHF_DEFLATED)
	require.GreaterOrEqual(t, len(sec.Data), 4)
	assert.Equal(t, uint32(len(payload)), byteOrder.Uint32(sec.Data[:4]))

	inflated, err := InflateSection(sec.Data)
	require.NoError(t, err)
	assert.Equal(t, payload, inflated)
}

func TestDeflateSectionsSkipsUndersizedPayloads(t *testing.T) {
	sec := &Section{Data: bytes.Repeat([]byte{0x01}, DeflateMinSectionSize-1)}
	img := &ElfImage{Sections: []*Section{sec}}

	require.NoError(t, DeflateSections(img))

	assert.Zero(t, sec.Header.Flags&SHF_DEFLATED)
	assert.Equal(t, bytes.Repeat([]byte{0x01}, DeflateMinSectionSize-1), sec.Data)
}

func TestDeflateSectionsSkipsCRCsAndFileInfo(t *testing.T) {
	big := bytes.Repeat([]byte{0x02}, 0x40)
	crcs := &Section{Header: SectionHeader{Type: SHT_RPL_CRCS}, Data: append([]byte{}, big...)}
	fileinfo := &Section{Header: SectionHeader{Type: SHT_RPL_FILEINFO}, Data: append([]byte{}, big...)}
	img := &ElfImage{Sections: []*Section{crcs, fileinfo}}

	require.NoError(t, DeflateSections(img))

	assert.Zero(t, crcs.Header.Flags&SHF_DEFLATED)
	assert.Zero(t, fileinfo.Header.Flags&SHF_DEFLATED)
}
