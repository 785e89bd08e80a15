package eepromfs

import (
	"encoding/binary"

	"github.com/embedCreativity/EEPROM-FS/consts"
)

// fileEntry is the in-memory form of one file table row: start address
// and size of a slot's payload. The zero value is the inactive entry.
//
// The original C++ overlays fileEntry_t directly onto the disk buffer
// (a packed struct cast over raw bytes). Design note 9 recommends the
// serialize-on-flush approach for memory-safe languages instead of an
// unsafe overlay; entries here are a plain Go struct and are
// (de)serialized to/from the image's table prefix with encoding/binary.
type fileEntry struct {
	Start uint16
	Size  uint16
}

// isInactive reports whether the slot this entry belongs to is empty.
func (e fileEntry) isInactive() bool {
	return e.Start == 0 && e.Size == 0
}

// isCorruptZeroStart reports the one structurally-corrupt shape the
// validator rejects outright: a zero start address paired with a
// nonzero size (I2/§4.6 step 2).
func (e fileEntry) isCorruptZeroStart() bool {
	return e.Start == 0 && e.Size != 0
}

// fileTable is the fixed consts.MaxFiles-entry array occupying the
// image's prefix.
type fileTable [consts.MaxFiles]fileEntry

// readTable decodes the table from the first consts.TableSize bytes of
// the image.
func readTable(image []byte) fileTable {
	var t fileTable
	for i := 0; i < consts.MaxFiles; i++ {
		off := i * consts.EntrySize
		t[i].Start = binary.LittleEndian.Uint16(image[off : off+2])
		t[i].Size = binary.LittleEndian.Uint16(image[off+2 : off+4])
	}
	return t
}

// writeEntry encodes a single table row back into the image's prefix.
// The image is the single source of truth (§4.4); every table mutation
// goes through this so a subsequent flush serializes exactly what's in
// memory.
func writeEntry(image []byte, slot int, e fileEntry) {
	off := slot * consts.EntrySize
	binary.LittleEndian.PutUint16(image[off:off+2], e.Start)
	binary.LittleEndian.PutUint16(image[off+2:off+4], e.Size)
}
