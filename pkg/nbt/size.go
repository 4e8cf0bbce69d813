package nbt

// PayloadSize returns the exact on-wire byte count of t's payload alone
// (it does not include the 1-byte id or 2-byte-length name header a
// NamedTag carries).
func PayloadSize(t Tag) int {
	switch v := t.(type) {
	case Byte:
		return 1
	case Short:
		return 2
	case Int:
		return 4
	case Long:
		return 8
	case Float:
		return 4
	case Double:
		return 8
	case ByteArray:
		return 4 + len(v)
	case String:
		return 2 + len(v)
	case List:
		size := 1 + 4 // element id + length
		for _, item := range v.Items {
			size += PayloadSize(item)
		}
		return size
	case Compound:
		size := 1 // terminator
		for _, entry := range v.Entries {
			size += NamedSize(entry)
		}
		return size
	case IntArray:
		return 4 + 4*len(v)
	case LongArray:
		return 4 + 8*len(v)
	case nil:
		return 0
	default:
		panic("nbt: unhandled tag type in PayloadSize")
	}
}

// NamedSize returns the exact on-wire byte count of nt including its
// 1-byte id and 2-byte-length-prefixed name.
func NamedSize(nt NamedTag) int {
	return 1 + 2 + len(nt.Name) + PayloadSize(nt.Tag)
}
