// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

import (
	"encoding/binary"
	"io"
)

// byteOrder centralizes the on-disk byte order in one place, mirroring the
// teacher's GetByteOrder() accessor pattern. This tool only ever speaks
// 32-bit big-endian PowerPC, so the accessor collapses to a constant rather
// than a runtime class/endian switch, but every (de)serialization call still
// goes through it rather than assuming native byte order.
var byteOrder = binary.BigEndian

// wire structs used only for (de)serialization; the rest of the pipeline
// works against the native-width types in types.go.

type wireElfHeader struct {
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	PHOff     uint32
	SHOff     uint32
	Flags     uint32
	EHSize    uint16
	PHEntSize uint16
	PHNum     uint16
	SHEntSize uint16
	SHNum     uint16
	SHStrNdx  uint16
}

const elfHeaderSize = 16 + 36 // 16-byte ident + wireElfHeader (36 bytes)

func readElfHeader(r io.Reader) (ElfHeader, error) {
	var h ElfHeader
	ident := make([]byte, 16)
	if _, err := io.ReadFull(r, ident); err != nil {
		return h, err
	}
	if uint32(ident[0])<<24|uint32(ident[1])<<16|uint32(ident[2])<<8|uint32(ident[3]) != headerMagic {
		return h, errInvalidMagic
	}
	h.Class = ident[4]
	h.Encoding = ident[5]
	h.Version8 = ident[6]
	h.OSABI = ident[7]

	var wh wireElfHeader
	if err := binary.Read(r, byteOrder, &wh); err != nil {
		return h, err
	}
	h.Type = wh.Type
	h.Machine = wh.Machine
	h.Version = wh.Version
	h.Entry = wh.Entry
	h.PHOff = wh.PHOff
	h.SHOff = wh.SHOff
	h.Flags = wh.Flags
	h.EHSize = wh.EHSize
	h.PHEntSize = wh.PHEntSize
	h.PHNum = wh.PHNum
	h.SHEntSize = wh.SHEntSize
	h.SHNum = wh.SHNum
	h.SHStrNdx = wh.SHStrNdx
	return h, nil
}

func writeElfHeader(w io.Writer, h ElfHeader) error {
	ident := make([]byte, 16)
	ident[0], ident[1], ident[2], ident[3] = 0x7F, 'E', 'L', 'F'
	ident[4] = h.Class
	ident[5] = h.Encoding
	ident[6] = h.Version8
	ident[7] = h.OSABI
	if _, err := w.Write(ident); err != nil {
		return err
	}

	wh := wireElfHeader{
		Type:      h.Type,
		Machine:   h.Machine,
		Version:   h.Version,
		Entry:     h.Entry,
		PHOff:     h.PHOff,
		SHOff:     h.SHOff,
		Flags:     h.Flags,
		EHSize:    h.EHSize,
		PHEntSize: h.PHEntSize,
		PHNum:     h.PHNum,
		SHEntSize: h.SHEntSize,
		SHNum:     h.SHNum,
		SHStrNdx:  h.SHStrNdx,
	}
	return binary.Write(w, byteOrder, &wh)
}

type wireSectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	AddrAlign uint32
	EntSize   uint32
}

const sectionHeaderSize = 40

func readSectionHeader(r io.Reader) (SectionHeader, error) {
	var wh wireSectionHeader
	if err := binary.Read(r, byteOrder, &wh); err != nil {
		return SectionHeader{}, err
	}
	return SectionHeader{
		NameOffset: wh.Name,
		Type:       SectionType(wh.Type),
		Flags:      SectionFlag(wh.Flags),
		Addr:       wh.Addr,
		Offset:     wh.Offset,
		Size:       wh.Size,
		Link:       wh.Link,
		Info:       wh.Info,
		AddrAlign:  wh.AddrAlign,
		EntSize:    wh.EntSize,
	}, nil
}

func writeSectionHeader(w io.Writer, h SectionHeader) error {
	wh := wireSectionHeader{
		Name:      h.NameOffset,
		Type:      uint32(h.Type),
		Flags:     uint32(h.Flags),
		Addr:      h.Addr,
		Offset:    h.Offset,
		Size:      h.Size,
		Link:      h.Link,
		Info:      h.Info,
		AddrAlign: h.AddrAlign,
		EntSize:   h.EntSize,
	}
	return binary.Write(w, byteOrder, &wh)
}

const symbolSize = 16

func readSymbol(r io.Reader) (Symbol, error) {
	var wh struct {
		Name    uint32
		Value   uint32
		Size    uint32
		Info    uint8
		Other   uint8
		SHIndex uint16
	}
	if err := binary.Read(r, byteOrder, &wh); err != nil {
		return Symbol{}, err
	}
	return Symbol{
		NameOffset: wh.Name,
		Value:      wh.Value,
		Size:       wh.Size,
		Type:       SymbolType(wh.Info & 0xF),
		Binding:    SymbolBinding(wh.Info >> 4),
		Other:      wh.Other,
		SectionIdx: wh.SHIndex,
	}, nil
}

func writeSymbol(w io.Writer, s Symbol) error {
	wh := struct {
		Name    uint32
		Value   uint32
		Size    uint32
		Info    uint8
		Other   uint8
		SHIndex uint16
	}{
		Name:    s.NameOffset,
		Value:   s.Value,
		Size:    s.Size,
		Info:    uint8(s.Type)&0xF | uint8(s.Binding)<<4,
		Other:   s.Other,
		SHIndex: s.SectionIdx,
	}
	return binary.Write(w, byteOrder, &wh)
}

const relaSize = 12

func readRela(r io.Reader) (Rela, error) {
	var wh struct {
		Offset uint32
		Info   uint32
		Addend int32
	}
	if err := binary.Read(r, byteOrder, &wh); err != nil {
		return Rela{}, err
	}
	return Rela{
		Offset:    wh.Offset,
		SymbolIdx: wh.Info >> 8,
		Type:      wh.Info & 0xFF,
		Addend:    wh.Addend,
	}, nil
}

func writeRela(w io.Writer, rel Rela) error {
	wh := struct {
		Offset uint32
		Info   uint32
		Addend int32
	}{
		Offset: rel.Offset,
		Info:   rel.SymbolIdx<<8 | (rel.Type & 0xFF),
		Addend: rel.Addend,
	}
	return binary.Write(w, byteOrder, &wh)
}

// writeBE and readBE are thin wrappers around binary.Write/binary.Read
// pinned to the on-disk byte order, used for one-off scalar fields (e.g.
// RplFileInfo) that don't warrant their own wire struct.
func writeBE(w io.Writer, v interface{}) error {
	return binary.Write(w, byteOrder, v)
}

func readBE(r io.Reader, v interface{}) error {
	return binary.Read(r, byteOrder, v)
}

func readString(data []byte, offset uint32) string {
	if int(offset) >= len(data) {
		return ""
	}
	end := offset
	for end < uint32(len(data)) && data[end] != 0 {
		end++
	}
	return string(data[offset:end])
}
