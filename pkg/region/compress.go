package region

import (
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/pgzip"
	"github.com/orcaman/writerseeker"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
	"github.com/OCharnyshevich/mcregion/pkg/nbt"
)

// encodeChunk serializes tag as NBT and compresses it at level, the way
// File.Write needs to before it knows the chunk's final framed length.
// Rebuild does not call it: it copies framed payloads unchanged.
func encodeChunk(tag nbt.NamedTag, level CompressionLevel) ([]byte, error) {
	ws := &writerseeker.WriterSeeker{}
	if err := nbt.Encode(ws, tag); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(ws.BytesReader())
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindIO, err)
	}
	return compressZlib(raw, level)
}

// Scheme identifies the one-byte compression scheme a chunk payload is
// framed with.
type Scheme byte

const (
	SchemeGZip        Scheme = 1
	SchemeZlib        Scheme = 2
	SchemeUncompressed Scheme = 3
)

// CompressionLevel is the zlib level used when writing chunks, 0 (no
// compression) through 9 (best compression). DefaultLevel matches
// zlib's own "balanced" default.
type CompressionLevel int

const DefaultLevel CompressionLevel = zlib.DefaultCompression

// compressZlib compresses data at the given level into a growable
// in-memory buffer and returns its bytes.
func compressZlib(data []byte, level CompressionLevel) ([]byte, error) {
	ws := &writerseeker.WriterSeeker{}
	zw, err := zlib.NewWriterLevel(ws, int(level))
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return io.ReadAll(ws.BytesReader())
}

// decompress wraps r (already limited to the framed payload length) with
// the decompressor matching scheme, or returns it unchanged for
// SchemeUncompressed.
func decompress(scheme Scheme, r io.Reader) (io.Reader, error) {
	switch scheme {
	case SchemeGZip:
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedPayload, err)
		}
		return gz, nil
	case SchemeZlib:
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedPayload, err)
		}
		return zr, nil
	case SchemeUncompressed:
		return r, nil
	default:
		return nil, mcerr.WithByte(mcerr.KindInvalidScheme, byte(scheme))
	}
}

// writeFramedPayload writes the 4-byte length, 1-byte scheme, and
// compressed bytes for a chunk, returning the total framed length L (the
// scheme byte plus compressed data, not the length field itself).
func writeFramedPayload(w io.Writer, scheme Scheme, compressed []byte) (uint32, error) {
	l := uint32(len(compressed)) + 1
	if err := binio.WriteBE(w, l); err != nil {
		return 0, err
	}
	if err := binio.WriteBE(w, byte(scheme)); err != nil {
		return 0, err
	}
	if _, err := w.Write(compressed); err != nil {
		return 0, err
	}
	return l, nil
}

// sectorsNeeded returns the number of 4 KiB sectors needed to hold a
// framed payload of l+4 total bytes (the 4-byte length field plus the L
// bytes it describes), or an error if that exceeds the 255-sector cap
// a Sector's count field can represent.
func sectorsNeeded(l uint32) (uint8, error) {
	total := uint64(l) + 4
	n := (total + sectorSize - 1) / sectorSize
	if n > maxSectorCount {
		return 0, mcerr.New(mcerr.KindChunkTooLarge, "")
	}
	return uint8(n), nil
}
