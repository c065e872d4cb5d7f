// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"bytes"
	"compress/zlib"
	"io"
)

// DeflateSections compresses every section whose payload is at least
// DeflateMinSectionSize bytes, skipping SHT_RPL_CRCS and SHT_RPL_FILEINFO
// regardless of their size (the 0x60-byte file-info record is always above
// the threshold, and so is any CRC table of six or more entries).
// Each compressed payload is prefixed with its original (inflated) size as
// a big-endian uint32; Header.Size is left untouched, since it continues to
// describe the section's virtual footprint until the offset layouter
// overwrites it with the on-disk length.
func DeflateSections(img *ElfImage) error {
	for _, sec := range img.Sections {
		if len(sec.Data) < DeflateMinSectionSize ||
			sec.Header.Type == SHT_RPL_CRCS ||
			sec.Header.Type == SHT_RPL_FILEINFO {
			continue
		}

		var compressed bytes.Buffer
		if err := writeBE(&compressed, uint32(len(sec.Data))); err != nil {
			return wrapStage("deflater", err)
		}

		zw, err := zlib.NewWriterLevel(&compressed, 6)
		if err != nil {
			return wrapStage("deflater", err)
		}
		if _, err := zw.Write(sec.Data); err != nil {
			return wrapStage("deflater", err)
		}
		if err := zw.Close(); err != nil {
			return wrapStage("deflater", err)
		}

		sec.Data = compressed.Bytes()
		sec.Header.Flags |= SHF_DEFLATED
	}
	return nil
}

// InflateSection reverses DeflateSections for a single section's data,
// returning the original payload. Used by tests to verify the round trip.
func InflateSection(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, io.ErrUnexpectedEOF
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[4:]))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
