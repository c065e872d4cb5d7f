// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import "io"

// WriteImage serializes img to w in the layout the earlier stages computed:
// the ELF header at offset 0, the section header table at Header.SHOff, and
// each section's payload at its own Header.Offset. Nothing in WriteImage
// decides placement — it trusts the offsets LayoutOffsets already assigned.
func WriteImage(w io.WriterAt, img *ElfImage) error {
	if err := writeAt(w, 0, func(sw io.Writer) error {
		return writeElfHeader(sw, img.Header)
	}); err != nil {
		return wrapStage("writer", err)
	}

	if err := writeAt(w, int64(img.Header.SHOff), func(sw io.Writer) error {
		for i, sec := range img.Sections {
			if err := writeSectionHeader(sw, sec.Header); err != nil {
				return wrapStagef("writer", "section header %d: %v", i, err)
			}
		}
		return nil
	}); err != nil {
		return wrapStage("writer", err)
	}

	for i, sec := range img.Sections {
		if len(sec.Data) == 0 {
			continue
		}
		if _, err := w.WriteAt(sec.Data, int64(sec.Header.Offset)); err != nil {
			return wrapStagef("writer", "section %d data: %v", i, err)
		}
	}

	return nil
}

// writeAt buffers whatever fn writes and places it at off in one WriteAt
// call, so every wire-format helper in beio.go can keep working against a
// plain io.Writer.
func writeAt(w io.WriterAt, off int64, fn func(io.Writer) error) error {
	buf := &offsetBuffer{}
	if err := fn(buf); err != nil {
		return err
	}
	if len(buf.data) == 0 {
		return nil
	}
	_, err := w.WriteAt(buf.data, off)
	return err
}

type offsetBuffer struct{ data []byte }

func (b *offsetBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}
