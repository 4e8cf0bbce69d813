package region

import (
	"io"
	"os"

	"github.com/google/renameio"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
)

// Rebuild copies every present chunk's framed payload out of the region
// file at src and repacks it, in coordinate order, into a fresh region
// file written atomically to dst. Each chunk is copied byte-for-byte —
// length, scheme byte, and compressed payload unchanged — so rebuilding
// never touches a chunk's compression scheme and running it twice in a
// row on an already-packed file produces identical bytes. The rebuilt
// file has no fragmentation: chunks are packed back-to-back starting at
// the first sector past the header, so a region that has accumulated
// dead space from repeated overwrites and deletes shrinks back down to
// the space its live chunks actually need.
//
// src and dst may name the same path; the swap is atomic via a temp
// file renamed into place, so a crash mid-rebuild never leaves a
// partially written region file where src used to be.
func Rebuild(src, dst string) error {
	in, err := Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	t, err := renameio.TempFile("", dst)
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}
	defer t.Cleanup()

	if err := binio.ZeroFill(t, headerBytes); err != nil {
		return err
	}

	out := &Header{}
	cursor := uint32(headerSectors)

	for i := 0; i < tableEntries; i++ {
		c := Coord(i)
		if !in.Has(c) {
			continue
		}

		srcSector := in.header.Sector(c)
		framed, err := readRawFramedPayload(in.f, srcSector)
		if err != nil {
			return err
		}

		n, err := sectorsNeeded(uint32(len(framed)))
		if err != nil {
			return err
		}

		sector := NewSector(cursor, n)
		if _, err := t.Seek(sector.ByteOffset(), io.SeekStart); err != nil {
			return mcerr.Wrap(mcerr.KindIO, err)
		}
		if err := binio.WriteBE(t, uint32(len(framed))); err != nil {
			return err
		}
		if _, err := t.Write(framed); err != nil {
			return mcerr.Wrap(mcerr.KindIO, err)
		}
		pad := sector.ByteLength() - (int64(len(framed)) + 4)
		if pad > 0 {
			if err := binio.ZeroFill(t, int(pad)); err != nil {
				return err
			}
		}

		cursor += uint32(n)
		out.setSector(c, sector)
		out.setTimestamp(c, in.header.Timestamp(c))
	}

	if _, err := t.Seek(0, io.SeekStart); err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}
	if err := out.WriteTo(t); err != nil {
		return err
	}

	if err := t.Truncate(int64(cursor) * sectorSize); err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}

	if err := t.CloseAtomicallyReplace(); err != nil {
		return mcerr.Wrap(mcerr.KindIO, err)
	}
	return nil
}

// readRawFramedPayload reads the scheme byte and compressed bytes
// (everything the 4-byte length field describes) for sector out of f,
// without decompressing or otherwise interpreting them. The returned
// slice is exactly what the destination's length field should describe
// when copied onward unchanged.
func readRawFramedPayload(f *os.File, sector Sector) ([]byte, error) {
	var framed []byte
	err := binio.ScopedSeek(f, sector.ByteOffset(), io.SeekStart, func() error {
		l, err := binio.ReadBE[uint32](f)
		if err != nil {
			return err
		}
		buf := make([]byte, l)
		if _, err := io.ReadFull(f, buf); err != nil {
			return mcerr.Wrap(mcerr.KindTruncatedPayload, err)
		}
		framed = buf
		return nil
	})
	return framed, err
}
