// Package consts holds the fixed sizing constants of the on-device
// file system layout. They mirror the #defines of the original
// EEPROM_FS.h/.cpp sources.
package consts

// MaxFiles is the fixed number of slots in the file table (the original's
// EEPROM_MAX_NUM_FILES).
const MaxFiles = 20

// EntrySize is the packed, little-endian on-disk size of a single file
// table entry: two uint16 fields, no padding.
const EntrySize = 4

// TableSize is the total size in bytes of the file table region.
const TableSize = MaxFiles * EntrySize

// FirstFileAddr is the first byte address available to file payloads;
// everything before it is the reserved table region.
const FirstFileAddr = TableSize

// WordSize is the device's required alignment for offsets and lengths.
const WordSize = 4

// StatusStringLen is the length, including NUL terminator, of the fixed
// status-string buffer used by the original EEPROMStatus implementation.
// Retained so callers that need the original's buffer contract can check
// a rendering still fits it; see status.Status.AppendTo.
const StatusStringLen = 20

// ErasedByte is the value every unused or freed byte of the device
// carries.
const ErasedByte = 0xFF

// PrintableLow and PrintableHigh bound the printable ASCII range a
// payload byte must fall in unless it is NUL.
const (
	PrintableLow  = 0x20
	PrintableHigh = 0x7E
)
