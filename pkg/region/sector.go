package region

const (
	sectorSize     = 4096
	headerSectors  = 2
	maxSectorCount = 255 // a sector entry's count field is 8 bits
	maxSectorIndex = 1 << 24
)

// Sector packs a 24-bit sector offset (high 3 bytes) and an 8-bit sector
// count (low byte), both counted in 4 KiB units. The zero value denotes
// "absent".
type Sector uint32

// NewSector packs an offset/count pair into a Sector.
func NewSector(offset uint32, count uint8) Sector {
	return Sector(offset<<8 | uint32(count))
}

// Empty reports whether the sector is the all-zero "absent" value.
func (s Sector) Empty() bool { return s == 0 }

// Offset returns the 4 KiB sector index this sector begins at.
func (s Sector) Offset() uint32 { return uint32(s) >> 8 }

// Count returns the number of 4 KiB sectors this sector occupies.
func (s Sector) Count() uint8 { return uint8(s) }

// EndOffset returns the 4 KiB sector index one past the end of this
// sector.
func (s Sector) EndOffset() uint32 { return s.Offset() + uint32(s.Count()) }

// ByteOffset returns the byte offset in the file this sector begins at.
func (s Sector) ByteOffset() int64 { return int64(s.Offset()) * sectorSize }

// ByteLength returns the size in bytes this sector occupies.
func (s Sector) ByteLength() int64 { return int64(s.Count()) * sectorSize }

// span is a half-open range of 4 KiB sector indices, [Start, End). It is
// the currency of the free-space map: unlike Sector it carries no 255
// count cap, so it can represent arbitrarily large gaps.
type span struct {
	Start uint32
	End   uint32
}

func spanOf(s Sector) span {
	return span{Start: s.Offset(), End: s.EndOffset()}
}

func (r span) Len() uint32 { return r.End - r.Start }

func (r span) Empty() bool { return r.Start >= r.End }

// adjacentLeft reports whether r immediately precedes other (r.End ==
// other.Start).
func (r span) adjacentLeft(other span) bool { return r.End == other.Start }
