package hwio

import (
	"fmt"
	"sort"
)

type rangeEntry struct {
	begin, end uint16 // inclusive
	io         BankIO8
}

// rangeTable maps inclusive address ranges to I/O handlers. Ranges never
// overlap; lookups are a binary search over the sorted entries.
type rangeTable struct {
	entries []rangeEntry
}

func (rt *rangeTable) InsertRange(begin, end uint16, io BankIO8) error {
	if begin > end {
		return fmt.Errorf("invalid range [%04x, %04x]", begin, end)
	}
	idx := sort.Search(len(rt.entries), func(i int) bool {
		return rt.entries[i].begin > begin
	})
	if idx > 0 && rt.entries[idx-1].end >= begin {
		return fmt.Errorf("range [%04x, %04x] overlaps [%04x, %04x]",
			begin, end, rt.entries[idx-1].begin, rt.entries[idx-1].end)
	}
	if idx < len(rt.entries) && rt.entries[idx].begin <= end {
		return fmt.Errorf("range [%04x, %04x] overlaps [%04x, %04x]",
			begin, end, rt.entries[idx].begin, rt.entries[idx].end)
	}
	rt.entries = append(rt.entries, rangeEntry{})
	copy(rt.entries[idx+1:], rt.entries[idx:])
	rt.entries[idx] = rangeEntry{begin, end, io}
	return nil
}

// RemoveRange unmaps every entry fully contained in [begin, end].
func (rt *rangeTable) RemoveRange(begin, end uint16) {
	out := rt.entries[:0]
	for _, e := range rt.entries {
		if e.begin >= begin && e.end <= end {
			continue
		}
		out = append(out, e)
	}
	rt.entries = out
}

func (rt *rangeTable) Search(addr uint16) BankIO8 {
	idx := sort.Search(len(rt.entries), func(i int) bool {
		return rt.entries[i].end >= addr
	})
	if idx < len(rt.entries) && rt.entries[idx].begin <= addr {
		return rt.entries[idx].io
	}
	return nil
}
