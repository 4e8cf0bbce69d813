package region

import (
	"io"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
)

const (
	tableEntries = 1024
	headerBytes  = 8192
)

// Header holds the two fixed-size 1024-element tables that make up the
// first 8 KiB of a region file: the sector table and the timestamp
// table.
type Header struct {
	sectors    [tableEntries]Sector
	timestamps [tableEntries]uint32
}

// Sector returns the sector table entry for coord.
func (h *Header) Sector(c Coord) Sector { return h.sectors[c.Index()] }

// Timestamp returns the raw Unix-seconds timestamp table entry for
// coord.
func (h *Header) Timestamp(c Coord) uint32 { return h.timestamps[c.Index()] }

func (h *Header) setSector(c Coord, s Sector) { h.sectors[c.Index()] = s }
func (h *Header) setTimestamp(c Coord, ts uint32) { h.timestamps[c.Index()] = ts }

// ReadHeader reads the 8 KiB header (sector table followed by timestamp
// table) from r.
func ReadHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	for i := range h.sectors {
		v, err := binio.ReadBE[uint32](r)
		if err != nil {
			return nil, err
		}
		h.sectors[i] = Sector(v)
	}
	for i := range h.timestamps {
		v, err := binio.ReadBE[uint32](r)
		if err != nil {
			return nil, err
		}
		h.timestamps[i] = v
	}
	return h, nil
}

// WriteTo writes the 8 KiB header (sector table followed by timestamp
// table) to w.
func (h *Header) WriteTo(w io.Writer) error {
	for _, s := range h.sectors {
		if err := binio.WriteBE(w, uint32(s)); err != nil {
			return err
		}
	}
	for _, ts := range h.timestamps {
		if err := binio.WriteBE(w, ts); err != nil {
			return err
		}
	}
	return nil
}
