package region

import (
	"io"
	"os"
	"time"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
	"github.com/OCharnyshevich/mcregion/pkg/nbt"
)

// presenceBitmask tracks, per coordinate, whether a chunk is considered
// present. A sector-table entry alone isn't sufficient: a region file
// can carry a non-empty sector entry whose framed length probes out to
// zero, which downgrades to absent at open time rather than being
// treated as a truncated read on every later access.
type presenceBitmask [tableEntries / 64]uint64

func (p *presenceBitmask) get(c Coord) bool {
	i := c.Index()
	return p[i/64]&(1<<uint(i%64)) != 0
}

func (p *presenceBitmask) set(c Coord, present bool) {
	i := c.Index()
	if present {
		p[i/64] |= 1 << uint(i%64)
	} else {
		p[i/64] &^= 1 << uint(i%64)
	}
}

// File is an open handle on a region (.mca) file: its 8 KiB header, its
// sector allocator, and the underlying file descriptor. A File is not
// safe for concurrent use; callers wanting parallelism should open one
// handle per region file.
type File struct {
	f       *os.File
	header  *Header
	sm      *sectorManager
	present presenceBitmask
	dirty   bool
	level   CompressionLevel
}

// Open opens the region file at path, creating an empty one (an 8 KiB
// zeroed header, no chunks) if it doesn't exist. Every non-empty sector
// table entry is probed for its framed length at open time; an entry
// whose probed length is zero is treated as absent rather than as a
// later read error.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, err)
	}

	rf := &File{f: f, level: DefaultLevel}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, mcerr.Wrap(mcerr.KindIO, err)
	}
	if info.Size() == 0 {
		rf.header = &Header{}
		if err := binio.ZeroFill(f, headerBytes); err != nil {
			f.Close()
			return nil, err
		}
		rf.sm, err = newSectorManager(&rf.header.sectors)
		if err != nil {
			f.Close()
			return nil, err
		}
		return rf, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, mcerr.Wrap(mcerr.KindIO, err)
	}
	header, err := ReadHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rf.header = header

	sm, err := newSectorManager(&header.sectors)
	if err != nil {
		f.Close()
		return nil, err
	}
	rf.sm = sm

	for i := 0; i < tableEntries; i++ {
		c := Coord(i)
		s := header.Sector(c)
		if s.Empty() {
			continue
		}
		l, err := rf.probeLength(s)
		if err != nil {
			f.Close()
			return nil, err
		}
		rf.present.set(c, l > 0)
	}

	return rf, nil
}

// Create truncates and opens a fresh region file at path, discarding any
// existing contents.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, err)
	}
	rf := &File{f: f, header: &Header{}, level: DefaultLevel}
	if err := binio.ZeroFill(f, headerBytes); err != nil {
		f.Close()
		return nil, err
	}
	sm, err := newSectorManager(&rf.header.sectors)
	if err != nil {
		f.Close()
		return nil, err
	}
	rf.sm = sm
	return rf, nil
}

// SetCompressionLevel sets the zlib level used for subsequent writes.
func (rf *File) SetCompressionLevel(level CompressionLevel) { rf.level = level }

// probeLength reads the 4-byte framed-payload length at the start of
// sector without otherwise disturbing the file position.
func (rf *File) probeLength(s Sector) (uint32, error) {
	var l uint32
	err := binio.ScopedSeek(rf.f, s.ByteOffset(), io.SeekStart, func() error {
		v, err := binio.ReadBE[uint32](rf.f)
		if err != nil {
			return err
		}
		l = v
		return nil
	})
	return l, err
}

// Has reports whether coord currently holds a present chunk.
func (rf *File) Has(c Coord) bool { return rf.present.get(c) }

// Timestamp returns coord's stored modification time and whether it is
// present.
func (rf *File) Timestamp(c Coord) (time.Time, bool) {
	if !rf.present.get(c) {
		return time.Time{}, false
	}
	return time.Unix(int64(rf.header.Timestamp(c)), 0).UTC(), true
}

// Read decodes the chunk at coord. It returns ok=false, with a nil
// error, if no chunk is present there.
func (rf *File) Read(c Coord) (tag nbt.NamedTag, ok bool, err error) {
	if !rf.present.get(c) {
		return nbt.NamedTag{}, false, nil
	}
	s := rf.header.Sector(c)
	if s.Empty() {
		return nbt.NamedTag{}, false, nil
	}

	err = binio.ScopedSeek(rf.f, s.ByteOffset(), io.SeekStart, func() error {
		l, err := binio.ReadBE[uint32](rf.f)
		if err != nil {
			return err
		}
		if l == 0 {
			return nil
		}
		schemeByte, err := binio.ReadBE[byte](rf.f)
		if err != nil {
			return err
		}
		limited := binio.NewLimitedReader(rf.f, int64(l)-1)
		decomp, err := decompress(Scheme(schemeByte), limited)
		if err != nil {
			return err
		}
		nt, err := nbt.Decode(decomp)
		if err != nil {
			return err
		}
		tag, ok = nt, true
		return nil
	})
	if err != nil {
		return nbt.NamedTag{}, false, err
	}
	return tag, ok, nil
}

// Write compresses and stores tag at coord, stamping the timestamp
// table entry with ts (or the current time, if ts is the zero value).
// It allocates the new chunk's sectors and writes the payload before
// freeing coord's previous sectors, so a write that fails partway
// through the disk I/O never hands the old sectors back to the free
// list while the header still points coord at them.
func (rf *File) Write(c Coord, tag nbt.NamedTag, ts time.Time) error {
	compressed, err := encodeChunk(tag, rf.level)
	if err != nil {
		return err
	}

	n, err := sectorsNeeded(uint32(len(compressed)) + 1)
	if err != nil {
		return err
	}

	old := rf.header.Sector(c)
	newSector, err := rf.sm.allocate(n)
	if err != nil {
		return err
	}

	err = binio.ScopedSeek(rf.f, newSector.ByteOffset(), io.SeekStart, func() error {
		l, err := writeFramedPayload(rf.f, SchemeZlib, compressed)
		if err != nil {
			return err
		}
		written := int64(l) + 4
		pad := newSector.ByteLength() - written
		if pad > 0 {
			return binio.ZeroFill(rf.f, int(pad))
		}
		return nil
	})
	if err != nil {
		rf.sm.free(newSector)
		return err
	}

	rf.sm.free(old)

	if ts.IsZero() {
		ts = time.Now()
	}
	rf.header.setSector(c, newSector)
	rf.header.setTimestamp(c, uint32(ts.Unix()))
	rf.present.set(c, true)
	rf.dirty = true
	return nil
}

// Delete removes the chunk at coord, freeing its sectors and clearing
// its header entry. The underlying bytes on disk are left untouched;
// only the header and free-space map change. Deleting an absent
// coordinate is a no-op.
func (rf *File) Delete(c Coord) error {
	if !rf.present.get(c) {
		return nil
	}
	s := rf.header.Sector(c)
	rf.sm.free(s)
	rf.header.setSector(c, Sector(0))
	rf.header.setTimestamp(c, 0)
	rf.present.set(c, false)
	rf.dirty = true
	return nil
}

// Flush writes the 8 KiB header back to disk if it has changed since
// the last flush, and ensures the file's length is a multiple of the
// 4 KiB sector size.
func (rf *File) Flush() error {
	if rf.dirty {
		if err := binio.ScopedSeek(rf.f, 0, io.SeekStart, func() error {
			return rf.header.WriteTo(rf.f)
		}); err != nil {
			return err
		}
		rf.dirty = false
	}

	info, err := rf.f.Stat()
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}
	if rem := info.Size() % sectorSize; rem != 0 {
		if err := rf.f.Truncate(info.Size() + (sectorSize - rem)); err != nil {
			return mcerr.Wrap(mcerr.KindIO, err)
		}
	}
	return nil
}

// Close flushes pending changes and closes the underlying file
// descriptor.
func (rf *File) Close() error {
	if err := rf.Flush(); err != nil {
		rf.f.Close()
		return err
	}
	if err := rf.f.Close(); err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}
	return nil
}
