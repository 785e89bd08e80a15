// Package device defines the Device Adapter contract the EEPROM-FS core
// consumes: bulk byte I/O over a persistent region, with the alignment
// and sizing rules spec'd for the on-chip EEPROM. The core only ever
// holds an Adapter; the concrete implementation (hostfile, or a real
// on-chip EEPROM driver on an embedded target) is swapped in by the
// caller that constructs the facade.
package device

// Adapter is the external collaborator the core treats as given: bulk
// read/program/erase of a byte-addressable persistent region, plus an
// init step and a capacity query. Every offset and length the core
// passes is a multiple of WordSize.
type Adapter interface {
	// Init prepares the device for use. Called once, before any other
	// method.
	Init() error

	// Size returns the device's byte capacity. Always a multiple of 4.
	Size() (uint32, error)

	// Read copies up to len(dst) bytes starting at off into dst and
	// returns the number of bytes actually read. off and len(dst) must
	// be multiples of 4.
	Read(dst []byte, off uint32) (uint32, error)

	// Program writes src to the device starting at off. off and
	// len(src) must be multiples of 4.
	Program(src []byte, off uint32) error

	// MassErase sets every byte of the device to 0xFF.
	MassErase() error
}
