package nbt

import (
	"io"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
)

// Encode writes a root named tag to w: id, 16-bit name length, name
// bytes, then the payload.
func Encode(w io.Writer, nt NamedTag) error {
	return writeNamed(w, nt)
}

func writeNamed(w io.Writer, nt NamedTag) error {
	id := IDEnd
	if nt.Tag != nil {
		id = nt.Tag.ID()
	}
	if err := binio.WriteBE(w, byte(id)); err != nil {
		return err
	}
	if err := writeString(w, nt.Name); err != nil {
		return err
	}
	return writePayload(w, nt.Tag)
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return mcerr.New(mcerr.KindStringTooLong, s[:32]+"...")
	}
	return binio.WriteLengthPrefixed(w, 2, []byte(s))
}

func writePayload(w io.Writer, t Tag) error {
	switch v := t.(type) {
	case Byte:
		return binio.WriteBE(w, int8(v))
	case Short:
		return binio.WriteBE(w, int16(v))
	case Int:
		return binio.WriteBE(w, int32(v))
	case Long:
		return binio.WriteBE(w, int64(v))
	case Float:
		return binio.WriteBE(w, float32(v))
	case Double:
		return binio.WriteBE(w, float64(v))
	case ByteArray:
		return binio.WriteLengthPrefixed(w, 4, v)
	case String:
		return writeString(w, string(v))
	case List:
		return writeList(w, v)
	case Compound:
		return writeCompound(w, v)
	case IntArray:
		if err := binio.WriteBE(w, uint32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := binio.WriteBE(w, n); err != nil {
				return err
			}
		}
		return nil
	case LongArray:
		if err := binio.WriteBE(w, uint32(len(v))); err != nil {
			return err
		}
		for _, n := range v {
			if err := binio.WriteBE(w, n); err != nil {
				return err
			}
		}
		return nil
	case nil:
		// Only valid for the End marker, which has no payload.
		return nil
	default:
		panic("nbt: unhandled tag type in writePayload")
	}
}

func writeList(w io.Writer, l List) error {
	elemID := l.ElemID
	if len(l.Items) == 0 {
		elemID = IDEnd
	}
	if err := binio.WriteBE(w, byte(elemID)); err != nil {
		return err
	}
	if err := binio.WriteBE(w, uint32(len(l.Items))); err != nil {
		return err
	}
	for _, item := range l.Items {
		if err := writePayload(w, item); err != nil {
			return err
		}
	}
	return nil
}

func writeCompound(w io.Writer, c Compound) error {
	for _, entry := range c.Entries {
		if err := writeNamed(w, entry); err != nil {
			return err
		}
	}
	return binio.WriteBE(w, byte(IDEnd))
}
