package nbt

import (
	"fmt"
	"os"

	"github.com/klauspost/pgzip"
)

// ReadGzipFile reads a standalone GZip-wrapped NBT file, such as
// level.dat. Region payloads use a different framing (see the region
// package); this helper is only for top-level files that carry the
// GZip envelope directly on disk.
func ReadGzipFile(path string) (NamedTag, error) {
	f, err := os.Open(path)
	if err != nil {
		return NamedTag{}, fmt.Errorf("nbt: open %s: %w", path, err)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return NamedTag{}, fmt.Errorf("nbt: gzip reader for %s: %w", path, err)
	}
	defer gz.Close()

	nt, err := Decode(gz)
	if err != nil {
		return NamedTag{}, fmt.Errorf("nbt: decode %s: %w", path, err)
	}
	return nt, nil
}

// WriteGzipFile writes nt to path as a standalone GZip-wrapped NBT file.
func WriteGzipFile(path string, nt NamedTag) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nbt: create %s: %w", path, err)
	}
	defer f.Close()

	gz := pgzip.NewWriter(f)
	if err := Encode(gz, nt); err != nil {
		gz.Close()
		return fmt.Errorf("nbt: encode %s: %w", path, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("nbt: close gzip writer for %s: %w", path, err)
	}
	return nil
}
