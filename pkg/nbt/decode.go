package nbt

import (
	"io"
	"unicode/utf8"

	"github.com/OCharnyshevich/mcregion/pkg/binio"
	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
)

// Decode reads a root named tag from r: id, 16-bit name length, name
// bytes, then the payload. The root id is usually IDCompound with an
// empty name.
func Decode(r io.Reader) (NamedTag, error) {
	return readNamed(r)
}

func readNamed(r io.Reader) (NamedTag, error) {
	idByte, err := binio.ReadBE[byte](r)
	if err != nil {
		return NamedTag{}, mcerr.Wrap(mcerr.KindTruncatedRead, err)
	}
	id := ID(idByte)
	if id == IDEnd {
		return NamedTag{}, mcerr.New(mcerr.KindUnexpectedEnd, "end tag where a named tag was expected")
	}
	name, err := readString(r)
	if err != nil {
		return NamedTag{}, err
	}
	tag, err := readPayload(r, id)
	if err != nil {
		return NamedTag{}, err
	}
	return NamedTag{Name: name, Tag: tag}, nil
}

func readString(r io.Reader) (string, error) {
	raw, err := binio.ReadLengthPrefixed(r, 2)
	if err != nil {
		return "", mcerr.Wrap(mcerr.KindTruncatedRead, err)
	}
	if !utf8.Valid(raw) {
		return "", mcerr.New(mcerr.KindInvalidUTF8, "")
	}
	return string(raw), nil
}

func readPayload(r io.Reader, id ID) (Tag, error) {
	switch id {
	case IDByte:
		v, err := binio.ReadBE[int8](r)
		return Byte(v), wrapTrunc(err)
	case IDShort:
		v, err := binio.ReadBE[int16](r)
		return Short(v), wrapTrunc(err)
	case IDInt:
		v, err := binio.ReadBE[int32](r)
		return Int(v), wrapTrunc(err)
	case IDLong:
		v, err := binio.ReadBE[int64](r)
		return Long(v), wrapTrunc(err)
	case IDFloat:
		v, err := binio.ReadBE[float32](r)
		return Float(v), wrapTrunc(err)
	case IDDouble:
		v, err := binio.ReadBE[float64](r)
		return Double(v), wrapTrunc(err)
	case IDByteArray:
		raw, err := binio.ReadLengthPrefixed(r, 4)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
		}
		return ByteArray(raw), nil
	case IDString:
		s, err := readString(r)
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case IDList:
		return readList(r)
	case IDCompound:
		return readCompound(r)
	case IDIntArray:
		n, err := binio.ReadBE[uint32](r)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
		}
		out := make(IntArray, n)
		for i := range out {
			v, err := binio.ReadBE[int32](r)
			if err != nil {
				return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
			}
			out[i] = v
		}
		return out, nil
	case IDLongArray:
		n, err := binio.ReadBE[uint32](r)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
		}
		out := make(LongArray, n)
		for i := range out {
			v, err := binio.ReadBE[int64](r)
			if err != nil {
				return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, mcerr.WithByte(mcerr.KindUnknownTagID, byte(id))
	}
}

func wrapTrunc(err error) error {
	if err == nil {
		return nil
	}
	return mcerr.Wrap(mcerr.KindTruncatedRead, err)
}

func readList(r io.Reader) (Tag, error) {
	elemIDByte, err := binio.ReadBE[byte](r)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
	}
	elemID := ID(elemIDByte)

	length, err := binio.ReadBE[int32](r)
	if err != nil {
		return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
	}
	if length < 0 {
		return nil, mcerr.New(mcerr.KindListOverflow, "")
	}
	if elemID == IDEnd {
		if length > 0 {
			return nil, mcerr.New(mcerr.KindUnexpectedEnd, "list declares End element id with nonzero length")
		}
		return List{ElemID: IDEnd, Items: nil}, nil
	}
	items := make([]Tag, length)
	for i := range items {
		item, err := readPayload(r, elemID)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return List{ElemID: elemID, Items: items}, nil
}

func readCompound(r io.Reader) (Tag, error) {
	var c Compound
	for {
		idByte, err := binio.ReadBE[byte](r)
		if err != nil {
			return nil, mcerr.Wrap(mcerr.KindTruncatedRead, err)
		}
		id := ID(idByte)
		if id == IDEnd {
			return c, nil
		}
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		tag, err := readPayload(r, id)
		if err != nil {
			return nil, err
		}
		c.Entries = append(c.Entries, NamedTag{Name: name, Tag: tag})
	}
}
