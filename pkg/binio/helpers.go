package binio

import (
	"fmt"
	"io"
)

// zeroBufSize is the size of the stack buffer zero-fill batches through,
// so padding a multi-megabyte chunk payload never allocates a
// correspondingly large slice.
const zeroBufSize = 4096

// ReadLengthPrefixed reads a big-endian length of 2 or 4 bytes (width must
// be 2 or 4), then that many raw bytes.
func ReadLengthPrefixed(r io.Reader, width int) ([]byte, error) {
	var n int
	switch width {
	case 2:
		v, err := ReadBE[uint16](r)
		if err != nil {
			return nil, err
		}
		n = int(v)
	case 4:
		v, err := ReadBE[uint32](r)
		if err != nil {
			return nil, err
		}
		n = int(v)
	default:
		panic(fmt.Sprintf("binio: unsupported length-prefix width %d", width))
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedRead, err)
	}
	return buf, nil
}

// WriteLengthPrefixed writes a big-endian length (width 2 or 4 bytes)
// followed by data.
func WriteLengthPrefixed(w io.Writer, width int, data []byte) error {
	switch width {
	case 2:
		if err := WriteBE(w, uint16(len(data))); err != nil {
			return err
		}
	case 4:
		if err := WriteBE(w, uint32(len(data))); err != nil {
			return err
		}
	default:
		panic(fmt.Sprintf("binio: unsupported length-prefix width %d", width))
	}
	_, err := w.Write(data)
	return err
}

// ZeroFill writes n zero bytes to w, batching through a fixed-size stack
// buffer rather than allocating an n-byte slice.
func ZeroFill(w io.Writer, n int) error {
	var buf [zeroBufSize]byte
	for n > 0 {
		chunk := n
		if chunk > zeroBufSize {
			chunk = zeroBufSize
		}
		if _, err := w.Write(buf[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// ScopedSeek seeks rs to off, runs fn, then restores the original stream
// position on every exit path (including fn returning an error). Used
// whenever a small header poke must not disturb the caller's place in
// the stream.
func ScopedSeek(rs io.ReadWriteSeeker, off int64, whence int, fn func() error) error {
	saved, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("binio: save position: %w", err)
	}
	if _, err := rs.Seek(off, whence); err != nil {
		return fmt.Errorf("binio: seek: %w", err)
	}
	ferr := fn()
	if _, err := rs.Seek(saved, io.SeekStart); err != nil {
		if ferr != nil {
			return ferr
		}
		return fmt.Errorf("binio: restore position: %w", err)
	}
	return ferr
}

// LimitedReader wraps r so that reads past n total bytes fail with
// ErrTruncatedRead instead of silently reading into whatever follows in
// the underlying stream. This is what keeps a malformed chunk-payload
// length from letting a decompressor consume bytes belonging to the next
// sector.
type LimitedReader struct {
	r         io.Reader
	remaining int64
}

// NewLimitedReader returns a LimitedReader that yields at most n bytes
// from r before failing reads with ErrTruncatedRead.
func NewLimitedReader(r io.Reader, n int64) *LimitedReader {
	return &LimitedReader{r: r, remaining: n}
}

func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, ErrTruncatedRead
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	return n, err
}
