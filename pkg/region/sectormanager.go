package region

import (
	"sort"

	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
)

// sectorManager is the in-memory free-space map derived from a region's
// sector table. It mediates every allocation for the lifetime of a
// handle so that variable-length compressed chunk payloads never
// fragment into overlapping ranges.
//
// unused holds disjoint, non-adjacent sector-index ranges not covered by
// any live sector and not part of the header. end is the single
// distinguished range running from the first sector past every live
// sector out to the 2^24 sector ceiling; allocations that cannot be
// satisfied from unused are carved from the low end of end.
type sectorManager struct {
	unused []span
	end    span
}

// newSectorManager builds a sectorManager from a region's sector table,
// as at file-open time. It returns mcerr.KindOverlappingSectors if two
// live sectors intersect.
func newSectorManager(sectors *[tableEntries]Sector) (*sectorManager, error) {
	live := make([]span, 0, tableEntries)
	for _, s := range sectors {
		if s.Empty() {
			continue
		}
		live = append(live, spanOf(s))
	}
	sort.Slice(live, func(i, j int) bool { return live[i].Start < live[j].Start })

	sm := &sectorManager{}
	cursor := uint32(headerSectors)
	for i, s := range live {
		if s.Start < cursor {
			return nil, mcerr.New(mcerr.KindOverlappingSectors, "")
		}
		if i > 0 && s.Start < live[i-1].End {
			return nil, mcerr.New(mcerr.KindOverlappingSectors, "")
		}
		if s.Start > cursor {
			sm.unused = append(sm.unused, span{Start: cursor, End: s.Start})
		}
		cursor = s.End
	}
	sm.end = span{Start: cursor, End: maxSectorIndex}
	return sm, nil
}

// allocate reserves n contiguous 4 KiB sectors and returns the resulting
// Sector, using first-fit over unused before falling back to the end
// range.
func (sm *sectorManager) allocate(n uint8) (Sector, error) {
	if n == 0 {
		return Sector(0), mcerr.New(mcerr.KindRegionAllocationFailure, "zero-length allocation")
	}
	need := uint32(n)

	for i, u := range sm.unused {
		if u.Len() < need {
			continue
		}
		// Carve from the left edge of the matched range.
		result := NewSector(u.Start, n)
		remainder := span{Start: u.Start + need, End: u.End}
		if remainder.Empty() {
			sm.unused = append(sm.unused[:i], sm.unused[i+1:]...)
		} else {
			sm.unused[i] = remainder
		}
		return result, nil
	}

	if sm.end.Len() < need {
		return Sector(0), mcerr.New(mcerr.KindRegionAllocationFailure, "")
	}
	result := NewSector(sm.end.Start, n)
	sm.end.Start += need
	return result, nil
}

// free releases sector, coalescing it with any adjacent unused ranges
// or the end range. A zero/empty sector is a no-op.
func (sm *sectorManager) free(sector Sector) {
	if sector.Empty() {
		return
	}
	freed := spanOf(sector)

	leftIdx, rightIdx := -1, -1
	for i, u := range sm.unused {
		if u.End == freed.Start {
			leftIdx = i
		} else if freed.End == u.Start {
			rightIdx = i
		}
	}

	switch {
	case leftIdx >= 0 && rightIdx >= 0:
		left, right := sm.unused[leftIdx], sm.unused[rightIdx]
		freed = span{Start: left.Start, End: right.End}
		sm.removeIndices(leftIdx, rightIdx)
	case leftIdx >= 0:
		left := sm.unused[leftIdx]
		freed = span{Start: left.Start, End: freed.End}
		sm.removeIndices(leftIdx)
	case rightIdx >= 0:
		right := sm.unused[rightIdx]
		freed = span{Start: freed.Start, End: right.End}
		sm.removeIndices(rightIdx)
	}

	if freed.End >= sm.end.Start {
		if freed.Start < sm.end.Start {
			sm.end.Start = freed.Start
		}
		return
	}
	sm.unused = append(sm.unused, freed)
}

// removeIndices removes the given indices from sm.unused. Indices must
// be passed in any order; duplicates are ignored.
func (sm *sectorManager) removeIndices(idx ...int) {
	drop := make(map[int]bool, len(idx))
	for _, i := range idx {
		drop[i] = true
	}
	out := sm.unused[:0]
	for i, u := range sm.unused {
		if !drop[i] {
			out = append(out, u)
		}
	}
	sm.unused = out
}
