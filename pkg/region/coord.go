// Package region implements Minecraft's region (.mca) file format: the
// 8 KiB header of sector/timestamp tables, the 4 KiB sector allocator
// that places compressed chunk payloads inside a single file, and the
// streaming compressed read/write path that feeds the NBT codec.
package region

// Coord is a chunk's packed 10-bit local coordinate within a region
// file: z*32 + x, with x and z each folded mod 32. It indexes directly
// into the sector and timestamp tables.
type Coord uint16

// NewCoord builds a Coord from any signed or unsigned chunk x/z pair,
// folding both into 0..31 the way the game does (local = coord & 31).
func NewCoord[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](x, z T) Coord {
	lx := uint16(x) & 31
	lz := uint16(z) & 31
	return Coord(lz*32 + lx)
}

// Index returns the coordinate's position (0..1023) in either header
// table.
func (c Coord) Index() int { return int(c) }

// X returns the local x component, 0..31.
func (c Coord) X() int { return int(c) & 31 }

// Z returns the local z component, 0..31.
func (c Coord) Z() int { return int(c) >> 5 & 31 }

// SectorTableOffset returns the byte offset of this coordinate's entry
// in the sector table.
func (c Coord) SectorTableOffset() int64 { return 4 * int64(c) }

// TimestampTableOffset returns the byte offset of this coordinate's
// entry in the timestamp table.
func (c Coord) TimestampTableOffset() int64 { return 4096 + 4*int64(c) }
