// Package rom loads raw ROM images, the flat format used to distribute
// Dragon system ROMs and cartridges.
package rom

import (
	"fmt"
	"io"
	"os"
)

// Sizes a ROM image may legally have. The Dragon 32 BASIC ROM is 16K;
// cartridges are 2K to 16K, always a power of two so they can mirror
// cleanly across the cartridge window.
const (
	MinSize = 2 * 1024
	MaxSize = 16 * 1024
)

type Rom struct {
	Data []byte
}

// Open loads a rom from file.
func Open(path string) (*Rom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rom := new(Rom)
	if _, err := rom.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rom, nil
}

// ReadFrom implements the io.ReaderFrom interface.
func (rom *Rom) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if len(buf) < MinSize || len(buf) > MaxSize {
		return 0, fmt.Errorf("bad image size %d, want %d to %d bytes", len(buf), MinSize, MaxSize)
	}
	if len(buf)&(len(buf)-1) != 0 {
		return 0, fmt.Errorf("image size %d is not a power of two", len(buf))
	}
	rom.Data = buf
	return int64(len(buf)), nil
}

// Autostart reports whether the image looks like an autostart cartridge:
// by convention those begin with a DK magic pair, and the machine asserts
// the cartridge interrupt line to boot them.
func (rom *Rom) Autostart() bool {
	return len(rom.Data) >= 2 && rom.Data[0] == 'D' && rom.Data[1] == 'K'
}
