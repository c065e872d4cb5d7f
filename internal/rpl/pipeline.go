// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"bytes"
)

// Convert runs the full nine-stage pipeline over src (a freshly-linked
// PowerPC ELF object) and returns the serialized RPL/RPX bytes. flags is
// passed straight to GenerateFileInfo; pass RplIsRpx for an executable or 0
// for a shared library. Every stage wraps its own errors with its name, so
// callers only need to print err.Error().
func Convert(src []byte, flags uint32) ([]byte, error) {
	img, err := ReadImage(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	if err := FixRelocations(img); err != nil {
		return nil, err
	}
	if err := RelocateLoaderSections(img); err != nil {
		return nil, err
	}
	if err := GenerateFileInfo(img, flags); err != nil {
		return nil, err
	}
	if err := GenerateCRCs(img); err != nil {
		return nil, err
	}
	if err := FinalizeHeader(img); err != nil {
		return nil, err
	}
	if err := DeflateSections(img); err != nil {
		return nil, err
	}
	if err := LayoutOffsets(img); err != nil {
		return nil, err
	}

	return EncodeImage(img)
}

// EncodeImage serializes an already-finalized image to a byte slice sized
// to fit the header, section header table, and every section's payload at
// the offset the offset layouter assigned it.
func EncodeImage(img *ElfImage) ([]byte, error) {
	size := int64(img.Header.SHOff) + int64(img.Header.SHNum)*int64(sectionHeaderSize)
	for _, sec := range img.Sections {
		if end := int64(sec.Header.Offset) + int64(len(sec.Data)); end > size {
			size = end
		}
	}

	out := &memWriterAt{buf: make([]byte, size)}
	if err := WriteImage(out, img); err != nil {
		return nil, err
	}
	return out.buf, nil
}

// memWriterAt is a minimal in-memory io.WriterAt, growing to fit whatever is
// written; WriteImage never writes past the extent EncodeImage precomputed,
// but growth is handled anyway so the two don't have to agree byte-for-byte.
type memWriterAt struct{ buf []byte }

func (m *memWriterAt) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[off:], p)
	return len(p), nil
}
