// SPDX-License-Identifier: MIT
//
// Copyright (c) 2024 Adrian "asie" Siekierka

package rpl

// ELF identification.
const (
	ELFCLASS32   = 1
	ELFDATA2MSB  = 2
	EV_CURRENT   = 1
	EABI_CAFE    = 0xCA
	EM_PPC       = 0x14
	headerMagic  = 0x7F454C46
	ET_RPL       = 0xFE01
)

// SectionType is the section header `sh_type` field.
type SectionType uint32

const (
	SHT_NULL         SectionType = 0
	SHT_PROGBITS     SectionType = 1
	SHT_SYMTAB       SectionType = 2
	SHT_STRTAB       SectionType = 3
	SHT_RELA         SectionType = 4
	SHT_NOBITS       SectionType = 8
	SHT_RPL_EXPORTS  SectionType = 0x80000001
	SHT_RPL_IMPORTS  SectionType = 0x80000002
	SHT_RPL_CRCS     SectionType = 0x80000003
	SHT_RPL_FILEINFO SectionType = 0x80000004
)

// HasDataInFile reports whether a section of this type carries a payload on
// disk (SHT_NOBITS sections occupy virtual address space only).
func (t SectionType) HasDataInFile() bool {
	return t != SHT_NOBITS
}

// SectionFlag is the section header `sh_flags` bitmask.
type SectionFlag uint32

const (
	SHF_WRITE     SectionFlag = 0x00000001
	SHF_ALLOC     SectionFlag = 0x00000002
	SHF_EXECINSTR SectionFlag = 0x00000004
	SHF_DEFLATED  SectionFlag = 0x08000000
)

// SymbolType is the low 4 bits of a symbol's `st_info`.
type SymbolType uint8

const (
	STT_NOTYPE  SymbolType = 0
	STT_OBJECT  SymbolType = 1
	STT_FUNC    SymbolType = 2
	STT_SECTION SymbolType = 3
)

// SymbolBinding is the high 4 bits of a symbol's `st_info`.
type SymbolBinding uint8

const (
	STB_LOCAL  SymbolBinding = 0
	STB_GLOBAL SymbolBinding = 1
	STB_WEAK   SymbolBinding = 2
)

// Relocation types. Everything except R_PPC_REL32 is supported directly by
// the Wii U loader; R_PPC_REL32 is input-only and must be rewritten by the
// relocation fixer into a GHS_REL16_HI/GHS_REL16_LO pair.
const (
	R_PPC_NONE            = 0
	R_PPC_ADDR32          = 1
	R_PPC_ADDR16_LO       = 4
	R_PPC_ADDR16_HI       = 5
	R_PPC_ADDR16_HA       = 6
	R_PPC_REL24           = 10
	R_PPC_REL14           = 11
	R_PPC_REL32           = 26
	R_PPC_DTPMOD32        = 68
	R_PPC_DTPREL32        = 78
	R_PPC_EMB_SDA21       = 109
	R_PPC_EMB_RELSDA      = 116
	R_PPC_DIAB_SDA21_LO   = 180
	R_PPC_DIAB_SDA21_HI   = 181
	R_PPC_DIAB_SDA21_HA   = 182
	R_PPC_DIAB_RELSDA_LO  = 183
	R_PPC_DIAB_RELSDA_HI  = 184
	R_PPC_DIAB_RELSDA_HA  = 185
	R_PPC_GHS_REL16_HI    = 252
	R_PPC_GHS_REL16_LO    = 253
)

// supportedRelocationTypes is every relocation type the Wii U loader accepts
// on output, i.e. everything except R_PPC_REL32 which is rewritten before it
// can reach the output file.
var supportedRelocationTypes = map[uint32]bool{
	R_PPC_NONE:           true,
	R_PPC_ADDR32:         true,
	R_PPC_ADDR16_LO:      true,
	R_PPC_ADDR16_HI:      true,
	R_PPC_ADDR16_HA:      true,
	R_PPC_REL24:          true,
	R_PPC_REL14:          true,
	R_PPC_DTPMOD32:       true,
	R_PPC_DTPREL32:       true,
	R_PPC_EMB_SDA21:      true,
	R_PPC_EMB_RELSDA:     true,
	R_PPC_DIAB_SDA21_LO:  true,
	R_PPC_DIAB_SDA21_HI:  true,
	R_PPC_DIAB_SDA21_HA:  true,
	R_PPC_DIAB_RELSDA_LO: true,
	R_PPC_DIAB_RELSDA_HI: true,
	R_PPC_DIAB_RELSDA_HA: true,
	R_PPC_GHS_REL16_HI:   true,
	R_PPC_GHS_REL16_LO:   true,
}

// Address-space regions used by the file-info generator's size aggregation.
const (
	CodeBaseAddress = 0x02000000
	DataBaseAddress = 0x10000000
	LoadBaseAddress = 0xC0000000
)

// DeflateMinSectionSize is the smallest section payload eligible for
// compression; anything smaller is emitted verbatim.
const DeflateMinSectionSize = 0x18

// RplIsRpx is set in RplFileInfo.Flags when the output is an executable
// rather than a shared library.
const RplIsRpx = 0x00000002

const fileInfoVersion = 0xCAFE0402
