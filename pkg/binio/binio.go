// Package binio provides big-endian read/write primitives over any
// byte-oriented sequential stream. It is the lowest layer of the region
// file engine: the NBT codec and the region header tables are built on
// top of these functions rather than on raw encoding/binary calls, so
// every short-read failure surfaces as the same error kind.
package binio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ErrTruncatedRead is returned whenever a read consumed fewer bytes than
// the primitive required.
var ErrTruncatedRead = fmt.Errorf("binio: truncated read")

// Number is the set of fixed-width scalar types the stream primitives
// support.
type Number interface {
	uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64
}

// ReadBE reads a single big-endian value of type T from r.
func ReadBE[T Number](r io.Reader) (T, error) {
	var zero T
	var buf [8]byte
	size := sizeOf(zero)
	n, err := io.ReadFull(r, buf[:size])
	if err != nil || n != size {
		return zero, fmt.Errorf("%w: %v", ErrTruncatedRead, err)
	}
	return decode[T](buf[:size]), nil
}

// WriteBE writes a single big-endian value of type T to w.
func WriteBE[T Number](w io.Writer, v T) error {
	buf := encode(v)
	_, err := w.Write(buf)
	return err
}

func sizeOf(v any) int {
	switch v.(type) {
	case uint8, int8:
		return 1
	case uint16, int16:
		return 2
	case uint32, int32, float32:
		return 4
	case uint64, int64, float64:
		return 8
	default:
		panic(fmt.Sprintf("binio: unsupported type %T", v))
	}
}

func decode[T Number](buf []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case int8:
		return T(int8(buf[0]))
	case uint16:
		return T(binary.BigEndian.Uint16(buf))
	case int16:
		return T(int16(binary.BigEndian.Uint16(buf)))
	case uint32:
		return T(binary.BigEndian.Uint32(buf))
	case int32:
		return T(int32(binary.BigEndian.Uint32(buf)))
	case uint64:
		return T(binary.BigEndian.Uint64(buf))
	case int64:
		return T(int64(binary.BigEndian.Uint64(buf)))
	case float32:
		return any(math.Float32frombits(binary.BigEndian.Uint32(buf))).(T)
	case float64:
		return any(math.Float64frombits(binary.BigEndian.Uint64(buf))).(T)
	default:
		panic(fmt.Sprintf("binio: unsupported type %T", zero))
	}
}

func encode[T Number](v T) []byte {
	switch x := any(v).(type) {
	case uint8:
		return []byte{x}
	case int8:
		return []byte{byte(x)}
	case uint16:
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, x)
		return buf
	case int16:
		buf := make([]byte, 2)
		binary.BigEndian.PutUint16(buf, uint16(x))
		return buf
	case uint32:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, x)
		return buf
	case int32:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(x))
		return buf
	case uint64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, x)
		return buf
	case int64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(x))
		return buf
	case float32:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, math.Float32bits(x))
		return buf
	case float64:
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, math.Float64bits(x))
		return buf
	default:
		panic(fmt.Sprintf("binio: unsupported type %T", v))
	}
}
