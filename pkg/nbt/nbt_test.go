package nbt

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OCharnyshevich/mcregion/pkg/mcerr"
)

func roundtrip(t *testing.T, nt NamedTag) NamedTag {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, nt); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func TestRoundtripScalars(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
	}{
		{"byte-min", Byte(math.MinInt8)},
		{"byte-max", Byte(math.MaxInt8)},
		{"short-min", Short(math.MinInt16)},
		{"short-max", Short(math.MaxInt16)},
		{"int-min", Int(math.MinInt32)},
		{"int-max", Int(math.MaxInt32)},
		{"long-min", Long(math.MinInt64)},
		{"long-max", Long(math.MaxInt64)},
		{"float", Float(3.14159)},
		{"double", Double(2.718281828)},
		{"empty-string", String("")},
		{"string", String("minecraft:stone")},
		{"empty-byte-array", ByteArray{}},
		{"byte-array", ByteArray{1, 2, 3, 255}},
		{"empty-int-array", IntArray{}},
		{"int-array", IntArray{-1, 0, math.MaxInt32}},
		{"empty-long-array", LongArray{}},
		{"long-array", LongArray{math.MinInt64, math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nt := NamedTag{Name: "v", Tag: tt.tag}
			got := roundtrip(t, nt)
			if diff := cmp.Diff(nt, got); diff != "" {
				t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundtripEmptyList(t *testing.T) {
	nt := NamedTag{Name: "empty", Tag: List{ElemID: IDEnd, Items: nil}}
	got := roundtrip(t, nt)
	if diff := cmp.Diff(nt, got); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundtripNestedCompound(t *testing.T) {
	inner := Compound{}.
		Append("xPos", Int(5)).
		Append("zPos", Int(7))

	root := Compound{}.
		Append("Level", inner).
		Append("Sections", List{ElemID: IDCompound, Items: []Tag{
			Compound{}.Append("Y", Byte(0)),
			Compound{}.Append("Y", Byte(1)),
		}}).
		Append("Name", String("minecraft:air"))

	nt := NamedTag{Name: "", Tag: root}
	got := roundtrip(t, nt)
	if diff := cmp.Diff(nt, got); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestCompoundOrderPreserved(t *testing.T) {
	root := Compound{}.
		Append("z", Int(1)).
		Append("a", Int(2)).
		Append("m", Int(3))

	got := roundtrip(t, NamedTag{Tag: root})
	gotCompound := got.Tag.(Compound)

	wantOrder := []string{"z", "a", "m"}
	for i, name := range wantOrder {
		if gotCompound.Entries[i].Name != name {
			t.Fatalf("entry %d: want name %q, got %q", i, name, gotCompound.Entries[i].Name)
		}
	}
}

func TestByteArrayVsListByteDistinct(t *testing.T) {
	var baBuf, listBuf bytes.Buffer
	if err := Encode(&baBuf, NamedTag{Name: "x", Tag: ByteArray{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&listBuf, NamedTag{Name: "x", Tag: List{ElemID: IDByte, Items: []Tag{Byte(1), Byte(2), Byte(3)}}}); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(baBuf.Bytes(), listBuf.Bytes()) {
		t.Fatal("ByteArray and List(Byte) encoded identically; they must be distinct on the wire")
	}
}

func TestDecodeUnknownTagID(t *testing.T) {
	buf := []byte{99, 0, 1, 'x'}
	_, err := Decode(bytes.NewReader(buf))
	var merr *mcerr.Error
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.As(err, &merr) || merr.Kind != mcerr.KindUnknownTagID {
		t.Fatalf("want KindUnknownTagID, got %v", err)
	}
}

func TestDecodeInvalidUtf8(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(IDByte))
	buf.Write([]byte{0, 2})
	buf.Write([]byte{0xff, 0xfe})
	buf.WriteByte(5)

	_, err := Decode(&buf)
	var merr *mcerr.Error
	if !errors.As(err, &merr) || merr.Kind != mcerr.KindInvalidUTF8 {
		t.Fatalf("want KindInvalidUTF8, got %v", err)
	}
}

func TestEncodeStringTooLong(t *testing.T) {
	s := strings.Repeat("a", 65536)
	err := Encode(&bytes.Buffer{}, NamedTag{Name: "x", Tag: String(s)})
	var merr *mcerr.Error
	if !errors.As(err, &merr) || merr.Kind != mcerr.KindStringTooLong {
		t.Fatalf("want KindStringTooLong, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	buf := []byte{byte(IDInt), 0, 1, 'x', 0, 0}
	_, err := Decode(bytes.NewReader(buf))
	var merr *mcerr.Error
	if !errors.As(err, &merr) || merr.Kind != mcerr.KindTruncatedRead {
		t.Fatalf("want KindTruncatedRead, got %v", err)
	}
}

func TestDecodeListNonzeroLengthEndID(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(byte(IDList))
	buf.Write([]byte{0, 1, 'x'})
	buf.WriteByte(byte(IDEnd))
	buf.Write([]byte{0, 0, 0, 3})

	_, err := Decode(&buf)
	var merr *mcerr.Error
	if !errors.As(err, &merr) || merr.Kind != mcerr.KindUnexpectedEnd {
		t.Fatalf("want KindUnexpectedEnd, got %v", err)
	}
}

func TestPayloadSize(t *testing.T) {
	tests := []struct {
		name string
		tag  Tag
		want int
	}{
		{"byte", Byte(1), 1},
		{"string", String("abc"), 5},
		{"byte-array", ByteArray{1, 2, 3}, 7},
		{"int-array", IntArray{1, 2}, 12},
		{"empty-compound", Compound{}, 1},
		{"empty-list", List{}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayloadSize(tt.tag); got != tt.want {
				t.Errorf("PayloadSize(%v) = %d, want %d", tt.tag, got, tt.want)
			}
		})
	}
}

