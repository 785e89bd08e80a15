// Package hostfile implements device.Adapter against a regular file on
// the host filesystem, the "host-emulated mode" spec.md §4.2 and §6
// describe as a substitute for the real on-chip EEPROM. It is adapted
// from timtadh-fs2/file.BlockFile: that type opens an *os.File and does
// Seek+Read/Write in fixed blocks; this one does the same Seek dance but
// against arbitrary word-aligned offsets and lengths instead of fixed
// block indices, since the EEPROM model has no block structure at all.
package hostfile

import (
	"fmt"
	"os"

	"github.com/embedCreativity/EEPROM-FS/consts"
)

// Adapter backs device.Adapter with a fixed-size regular file.
type Adapter struct {
	path   string
	size   uint32
	opened bool
	file   *os.File
}

// New returns an Adapter that will use path as its backing file and
// advertise size bytes of capacity. size must be a multiple of 4 and
// greater than the file table region; callers typically get it from
// config.DeviceConfig.
func New(path string, size uint32) *Adapter {
	return &Adapter{path: path, size: size}
}

// Init opens (creating if necessary) the backing file. If the file is
// missing or not exactly size bytes, it is recreated full of 0xFF, the
// way the original's read()/write() paths lazily call
// FauxEEPROMMassErase() on a size mismatch.
func (a *Adapter) Init() error {
	f, err := os.OpenFile(a.path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return fmt.Errorf("hostfile: open %s: %w", a.path, err)
	}
	a.file = f
	a.opened = true

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("hostfile: stat %s: %w", a.path, err)
	}
	if uint32(info.Size()) != a.size {
		if err := a.massErase(); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the adapter's configured capacity.
func (a *Adapter) Size() (uint32, error) {
	return a.size, nil
}

// Read implements device.Adapter.Read by seeking then reading.
func (a *Adapter) Read(dst []byte, off uint32) (uint32, error) {
	if err := a.checkAligned(off, uint32(len(dst))); err != nil {
		return 0, err
	}
	if !a.opened {
		return 0, fmt.Errorf("hostfile: not initialized")
	}
	if _, err := a.file.Seek(int64(off), 0); err != nil {
		return 0, err
	}
	n, err := a.file.Read(dst)
	if err != nil {
		return uint32(n), err
	}
	return uint32(n), nil
}

// Program implements device.Adapter.Program by seeking then writing.
func (a *Adapter) Program(src []byte, off uint32) error {
	if err := a.checkAligned(off, uint32(len(src))); err != nil {
		return err
	}
	if !a.opened {
		return fmt.Errorf("hostfile: not initialized")
	}
	if _, err := a.file.Seek(int64(off), 0); err != nil {
		return err
	}
	n, err := a.file.Write(src)
	if err != nil {
		return err
	}
	if n != len(src) {
		return fmt.Errorf("hostfile: short write: wrote %d of %d bytes", n, len(src))
	}
	return a.file.Sync()
}

// MassErase fills the entire backing file with 0xFF, the host analogue
// of the original's FauxEEPROMMassErase.
func (a *Adapter) MassErase() error {
	return a.massErase()
}

func (a *Adapter) massErase() error {
	if !a.opened {
		return fmt.Errorf("hostfile: not initialized")
	}
	filler := make([]byte, a.size)
	for i := range filler {
		filler[i] = consts.ErasedByte
	}
	if _, err := a.file.Seek(0, 0); err != nil {
		return err
	}
	if _, err := a.file.Write(filler); err != nil {
		return err
	}
	if err := a.file.Truncate(int64(a.size)); err != nil {
		return err
	}
	return a.file.Sync()
}

func (a *Adapter) checkAligned(off, length uint32) error {
	if off%consts.WordSize != 0 || length%consts.WordSize != 0 {
		return errWordAlignment
	}
	return nil
}

// errWordAlignment is returned by Read/Program when the caller violates
// the 4-byte alignment rule. The eepromfs facade does not single it out:
// it reports a failed read as status.InvalidTable and a failed program
// as status.WriteError, and never sets status.WordAlignment.
var errWordAlignment = fmt.Errorf("hostfile: offset and length must be word aligned")

// ErrWordAlignment lets callers test the specific condition with
// errors.Is.
func ErrWordAlignment() error { return errWordAlignment }

// Close releases the backing file handle. Not part of device.Adapter —
// used by tests and cmd/eepromfsck for cleanup.
func (a *Adapter) Close() error {
	if !a.opened {
		return nil
	}
	a.opened = false
	return a.file.Close()
}

// Path reports the backing file's path.
func (a *Adapter) Path() string {
	return a.path
}
