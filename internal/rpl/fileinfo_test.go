// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRplFileInfoRoundTripsThroughEncodeDecode(t *testing.T) {
	info := RplFileInfo{
		Version:          fileInfoVersion,
		TextSize:         0x100,
		TextAlign:        32,
		DataSize:         0x1000,
		DataAlign:        4096,
		Flags:            RplIsRpx,
		MinVersion:       0x5078,
		CompressionLevel: 6,
		CafeSDKVersion:   0x5335,
		CafeSDKRevision:  0x10D4B,
		TLSModuleIndex:   1,
		TLSAlignShift:    2,
	}

	data, err := encodeFileInfo(info)
	require.NoError(t, err)
	assert.Len(t, data, rplFileInfoSize)

	got, err := decodeFileInfo(data)
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestGenerateFileInfoAggregatesByAddressRegion(t *testing.T) {
	text := &Section{Header: SectionHeader{Addr: CodeBaseAddress, Size: 0x100}, Data: make([]byte, 0x100)}
	data := &Section{Header: SectionHeader{Addr: DataBaseAddress, Size: 0x10}, Data: make([]byte, 0x10)}
	img := &ElfImage{Sections: []*Section{text, data}}

	require.NoError(t, GenerateFileInfo(img, RplIsRpx))

	fi := img.Sections[len(img.Sections)-1]
	assert.Equal(t, SHT_RPL_FILEINFO, fi.Header.Type)

	info, err := decodeFileInfo(fi.Data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x100), info.TextSize)
	assert.Equal(t, uint32(4096), info.DataSize)
	assert.Equal(t, RplIsRpx, int(info.Flags))
}

func TestGenerateFileInfoAppliesTempSizePad(t *testing.T) {
	temp := &Section{Header: SectionHeader{Addr: 0, Size: 0x10}, Data: make([]byte, 0x10)}
	img := &ElfImage{Sections: []*Section{temp}}

	require.NoError(t, GenerateFileInfo(img, 0))

	info, err := decodeFileInfo(img.Sections[len(img.Sections)-1].Data)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x10+128), info.TempSize)
}

func TestGenerateFileInfoSkipsCRCAndFileInfoSectionsFromTemp(t *testing.T) {
	crcs := &Section{Header: SectionHeader{Type: SHT_RPL_CRCS, Addr: 0}, Data: []byte{1, 2, 3, 4}}
	img := &ElfImage{Sections: []*Section{crcs}}

	require.NoError(t, GenerateFileInfo(img, 0))

	info, err := decodeFileInfo(img.Sections[len(img.Sections)-1].Data)
	require.NoError(t, err)
	assert.Zero(t, info.TempSize)
}
