// SPDX-License-Identifier: MIT
//
// Copyright (c) 2023, 2024 Adrian "asie" Siekierka

// Package region implements a small bin-packing allocator used by the
// RPL offset layouter to assign on-disk byte ranges to sections within a
// single ordering pass.
package region

import (
	"slices"
)

// Placeable is anything that can be assigned an offset within a Region.
type Placeable interface {
	Offset() uint64
	SetOffset(uint64)
	Size() uint64
	Alignment() uint64
}

// Region is a contiguous byte range into which Placeable entries are packed,
// either ascending from its start or descending from its end.
type Region[T Placeable] struct {
	offset     uint64
	size       uint64
	entries    []T
	descending bool
}

// List is an ordered set of Regions tried in sequence until one accepts an
// entry.
type List[T Placeable] struct {
	Regions []*Region[T]
}

func NewRegion[T Placeable](offset uint64, size uint64, descending bool) *Region[T] {
	return &Region[T]{
		offset:     offset,
		size:       size,
		entries:    make([]T, 0),
		descending: descending,
	}
}

func (r Region[T]) Offset() uint64 {
	return r.offset
}

func (r Region[T]) Size() uint64 {
	return r.size
}

func (r Region[T]) Empty() bool {
	return len(r.entries) == 0
}

func (r Region[T]) Full() bool {
	if r.descending {
		return r.UsedStart() == r.offset
	}
	return r.UsedEnd() == r.offset+r.size-1
}

func (r Region[T]) UsedStart() uint64 {
	if !r.Empty() {
		return r.entries[0].Offset()
	}
	return r.offset
}

func (r Region[T]) UsedEnd() uint64 {
	if !r.Empty() {
		last := r.entries[len(r.entries)-1]
		return last.Offset() + last.Size() - 1
	}
	// if empty, UsedEnd() == UsedStart()
	return r.UsedStart()
}

func calcEntryOffset(start uint64, end uint64, length uint64, descending bool, align uint64) (bool, uint64) {
	if descending {
		offset := end - length
		if align > 1 {
			offset -= offset % align
		}
		if offset >= start {
			return true, offset
		}
	} else {
		offset := start
		if align > 1 {
			offset += align - 1
			offset -= offset % align
		}
		if offset+length <= end {
			return true, offset
		}
	}

	return false, 0
}

const (
	FindGapModeSmallest = iota
	FindGapModeLargest
	FindGapModeFirst
)

func (r Region[T]) findGap(offsetMin uint64, offsetMax uint64, mode int, minimumSize int64, startIndex int) (bool, uint64, uint64, int) {
	if r.Empty() {
		if int64(offsetMax-offsetMin) >= minimumSize {
			return true, offsetMin, offsetMax, 0
		}
		return false, 0, 0, 0
	}

	// TODO: skip up to startIndex
	if startIndex > 0 && mode != FindGapModeFirst {
		panic("startIndex not supported with non-first gap find mode yet")
	}

	previous := r.entries[0]
	gapStart := max(offsetMin, r.Offset())
	gapSize := int64(previous.Offset() - offsetMin)
	gapIndex := 0

	newBestGap := func(newGapSize int64) bool {
		if newGapSize < minimumSize {
			return false
		}
		switch mode {
		case FindGapModeFirst:
			return true
		case FindGapModeLargest:
			return newGapSize > gapSize
		default:
			return newGapSize < gapSize
		}
	}

	if mode == FindGapModeFirst && gapSize >= minimumSize && gapIndex >= startIndex {
		return true, gapStart, gapStart + uint64(gapSize), gapIndex
	}

	for i := 1; i <= len(r.entries); i++ {
		currentGapStart := max(offsetMin, previous.Offset()+previous.Size())
		currentGapEnd := min(offsetMax, r.Offset()+r.Size())

		if i < len(r.entries) {
			current := r.entries[i]
			currentGapEnd = min(currentGapEnd, current.Offset())
			previous = current
		}

		currentGap := int64(currentGapEnd - currentGapStart)
		if newBestGap(currentGap) {
			gapStart = currentGapStart
			gapSize = currentGap
			gapIndex = i

			if mode == FindGapModeFirst && gapIndex >= startIndex {
				return true, gapStart, gapStart + uint64(gapSize), gapIndex
			}
		}
	}

	if gapSize < minimumSize {
		return false, 0, 0, 0
	}
	return true, gapStart, gapStart + uint64(gapSize), gapIndex
}

func (r Region[T]) FindGap(offsetMin uint64, offsetMax uint64, mode int, minimumSize int64) (bool, uint64, uint64) {
	ok, gapStart, gapEnd, _ := r.findGap(offsetMin, offsetMax, mode, minimumSize, 0)
	return ok, gapStart, gapEnd
}

func (r Region[T]) FindAnyGap(mode int, minimumSize int64) (bool, uint64, uint64) {
	return r.FindGap(r.Offset(), r.Offset()+r.Size(), mode, minimumSize)
}

// Place inserts entry into the first gap that satisfies its size and
// alignment, optionally restricted to offsetRange (a 1- or 2-element
// [start] / [start, end] bound). With simulate set, the region is left
// unmodified and only the feasibility/offset is reported.
func (r *Region[T]) Place(entry T, offsetRange []uint64, simulate bool) (bool, uint64) {
	offsetMin := r.Offset()
	offsetMax := r.Offset() + r.Size()

	if offsetRange != nil {
		switch len(offsetRange) {
		case 2:
			offsetMin = max(offsetMin, offsetRange[0])
			offsetMax = min(offsetMax, offsetRange[1]+1)
		case 1:
			offsetMin = max(offsetMin, offsetRange[0])
			offsetMax = min(offsetMax, offsetRange[0]+entry.Size())
		default:
			panic("unsupported offsetRange length")
		}
	}

	if r.Size() < (offsetMax - offsetMin) {
		return false, 0
	}

	gapIndex := -1
	for {
		ok, gapStart, gapEnd, idx := r.findGap(offsetMin, offsetMax, FindGapModeFirst, int64(entry.Size()), gapIndex+1)
		if !ok {
			return false, 0
		}
		gapIndex = idx

		ok, offset := calcEntryOffset(gapStart, gapEnd, entry.Size(), r.descending, entry.Alignment())
		if ok {
			if !simulate {
				entry.SetOffset(offset)
				r.entries = slices.Insert(r.entries, gapIndex, entry)
			}
			return true, offset
		}

		// loop starting from next index; alignment might not have been sufficient
	}
}

// Place tries each region in order, returning the first that accepts entry.
func (l *List[T]) Place(entry T, offsetRange []uint64, simulate bool) (bool, uint64) {
	for _, r := range l.Regions {
		if ok, offset := r.Place(entry, offsetRange, simulate); ok {
			return ok, offset
		}
	}
	return false, 0
}
