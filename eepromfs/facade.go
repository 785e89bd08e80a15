// Package eepromfs implements the on-device file system core: the
// fixed-slot file table, the compacting allocator, the handle manager,
// and the single public Facade that ties them together behind one
// lock. It consumes a device.Adapter for all durable I/O and never
// talks to hardware (or a host-emulated backing file) directly.
package eepromfs

import (
	"sync"

	"go.uber.org/zap"

	"github.com/embedCreativity/EEPROM-FS/consts"
	"github.com/embedCreativity/EEPROM-FS/device"
	islice "github.com/embedCreativity/EEPROM-FS/internal/slice"
	"github.com/embedCreativity/EEPROM-FS/internal/xerrors"
	"github.com/embedCreativity/EEPROM-FS/status"
)

// Facade is the single entry point described in spec.md §4.9. One
// Facade owns one device.Adapter, one disk image, and the lock that
// serializes every public operation against them.
type Facade struct {
	mu  sync.Mutex
	dev device.Adapter
	log *zap.Logger

	image   []byte
	table   fileTable
	active  []int // ascending slot ids with active entries
	handles map[int]*handleManager

	hwInitialized bool
	ready         bool
	writeEnabled  bool
	validTable    bool
	eepromSize    uint32
	bytesUsed     uint32

	status *status.Status
}

// FileInfo is the (start, size) pair ActiveFiles reports for a slot.
type FileInfo struct {
	Start uint16
	Size  uint16
}

// New constructs a Facade over dev: it initializes the device, allocates
// a word-aligned disk image, and runs the validator once, mirroring the
// original EEPROMFS constructor's getLock/init/releaseLock sequence. A
// nil logger is replaced with a no-op logger.
func New(dev device.Adapter, logger *zap.Logger) *Facade {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Facade{
		dev:     dev,
		log:     logger,
		handles: make(map[int]*handleManager),
		status:  status.New(),
	}

	f.mu.Lock()
	f.ready = f.init()
	f.mu.Unlock()

	return f
}

// init performs the one-time device bring-up. Callers hold the lock.
func (f *Facade) init() bool {
	if err := f.dev.Init(); err != nil {
		f.log.Error("device init failed", zap.Error(xerrors.Wrap(err, "device init")))
		f.status.Set(status.DeviceApi)
		return false
	}
	f.hwInitialized = true

	size, err := f.dev.Size()
	if err != nil {
		f.log.Error("device size query failed", zap.Error(xerrors.Wrap(err, "device size")))
		f.status.Set(status.DeviceApi)
		return false
	}
	f.eepromSize = size

	if size <= consts.FirstFileAddr {
		f.status.Set(status.InsufficientStorage)
		return false
	}

	result := f.validate()
	if result.ok {
		f.applyValidation(result)
	} else {
		f.failValidation(result.code)
	}
	return true
}

// Acquire locks the facade for a reader that needs to dereference a
// Handle's Data window directly (§4.3, §4.8). Pair with Release.
func (f *Facade) Acquire() { f.mu.Lock() }

// Release unlocks the facade after a direct Handle dereference.
func (f *Facade) Release() { f.mu.Unlock() }

// EnableWrite arms the single-shot write fuse. The next mutating call —
// even one that ultimately fails, and even TotalCapacity — consumes it
// (§4.9, §9).
func (f *Facade) EnableWrite() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeEnabled = true
}

// TotalCapacity returns the device's advertised byte capacity. It also
// clears the write-enable fuse, matching the original's
// getTotalCapacity exactly (§4.9 lists this explicitly).
func (f *Facade) TotalCapacity() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeEnabled = false
	return f.eepromSize
}

// UsedCapacity returns the bytes currently in use. If the table is
// invalid it reports InvalidTable and, per the original's suspicious
// but preserved behavior (§9), destructively zeroes bytesUsed.
func (f *Facade) UsedCapacity() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.validTable {
		f.status.Set(status.InvalidTable)
		f.bytesUsed = 0
	}
	return f.bytesUsed
}

// ActiveFileCount returns the number of active slots. On an invalid
// table it reports InvalidTable and clears the active set, mirroring
// getActiveFileCount alongside UsedCapacity's destructive read.
func (f *Facade) ActiveFileCount() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.validTable {
		f.status.Set(status.InvalidTable)
		f.active = nil
	}
	return uint32(len(f.active))
}

// ActiveFiles returns a snapshot of every active slot's (start, size).
func (f *Facade) ActiveFiles() map[int]FileInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int]FileInfo, len(f.active))
	for _, id := range f.active {
		e := f.table[id]
		out[id] = FileInfo{Start: e.Start, Size: e.Size}
	}
	return out
}

// Status returns the outcome of the most recently completed operation.
func (f *Facade) Status() status.Code {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status.Value()
}

// Open returns the shared Handle for slot id, creating its manager on
// first access and incrementing its reference count otherwise (§4.8).
func (f *Facade) Open(id int) (*Handle, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.validTable {
		f.status.Set(status.InvalidTable)
		return nil, false
	}
	if id < 0 || id >= consts.MaxFiles {
		f.status.Set(status.BadParams)
		return nil, false
	}
	if _, active := f.indexOf(id); !active {
		f.status.Set(status.FileNotFound)
		return nil, false
	}

	if mgr, ok := f.handles[id]; ok {
		mgr.refCount++
		f.status.Set(status.Ok)
		return mgr.handle, true
	}

	h := &Handle{}
	refreshHandle(h, f.image, f.table[id])
	f.handles[id] = &handleManager{handle: h, refCount: 1}
	f.status.Set(status.Ok)
	return h, true
}

// Close releases one reference to slot id's handle, destroying the
// manager once the count reaches zero (§4.8).
func (f *Facade) Close(id int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	mgr, ok := f.handles[id]
	if !ok {
		return
	}
	if mgr.refCount > 0 {
		mgr.refCount--
	}
	if mgr.refCount == 0 {
		delete(f.handles, id)
	}
}

// Write creates or replaces slot id's payload with buf, per the
// placement/overwrite rules of §4.7. Requires a prior EnableWrite call;
// the fuse is consumed whether or not the write succeeds.
func (f *Facade) Write(id int, buf []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	armed := f.writeEnabled
	f.writeEnabled = false

	if !f.validTable {
		f.status.Set(status.InvalidTable)
		return false
	}
	if !f.ready {
		f.status.Set(status.NotInitialized)
		return false
	}
	if !armed {
		f.status.Set(status.WriteProtected)
		return false
	}
	if id < 0 || id >= consts.MaxFiles {
		f.status.Set(status.BadParams)
		return false
	}

	bufLen := len(buf)
	_, active := f.indexOf(id)

	var code status.Code
	if !active {
		if uint32(bufLen)+f.bytesUsed > f.eepromSize {
			f.status.Set(status.InsufficientStorage)
			return false
		}
		code = f.insertNewFile(id, buf)
	} else {
		old := f.table[id]
		if uint32(bufLen)+f.bytesUsed-uint32(old.Size) > f.eepromSize {
			f.status.Set(status.InsufficientStorage)
			return false
		}
		code = f.overwriteExistingFile(id, buf)
	}
	if code != status.Ok {
		f.status.Set(code)
		return false
	}

	if err := f.flush(); err != nil {
		f.log.Error("write flush failed", zap.Error(xerrors.Wrap(err, "flush")))
		f.status.Set(status.WriteError)
		return false
	}

	f.status.Set(status.Ok)
	return true
}

// Delete removes slot id's payload and reclaims its space, per §4.7.
// Requires a prior EnableWrite call; the fuse is consumed regardless of
// outcome.
func (f *Facade) Delete(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	armed := f.writeEnabled
	f.writeEnabled = false

	if !f.validTable {
		f.status.Set(status.InvalidTable)
		return false
	}
	if !f.ready {
		f.status.Set(status.NotInitialized)
		return false
	}
	if !armed {
		f.status.Set(status.WriteProtected)
		return false
	}
	if id < 0 || id >= consts.MaxFiles {
		f.status.Set(status.BadParams)
		return false
	}

	if _, active := f.indexOf(id); !active {
		f.status.Set(status.FileNotFound)
		return false
	}

	code := f.deleteActiveFile(id)
	if code != status.Ok {
		f.status.Set(code)
		return false
	}

	if err := f.flush(); err != nil {
		f.log.Error("delete flush failed", zap.Error(xerrors.Wrap(err, "flush")))
		f.status.Set(status.WriteError)
		return false
	}

	f.status.Set(status.Ok)
	return true
}

// Format mass-erases the device, zeroes the table, and re-validates.
// Requires the device to have initialized and a prior EnableWrite call.
func (f *Facade) Format() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	armed := f.writeEnabled
	f.writeEnabled = false

	if !f.hwInitialized {
		f.status.Set(status.NotInitialized)
		return false
	}
	if !armed {
		f.status.Set(status.WriteProtected)
		return false
	}

	// A device that never passed init()'s size check (or whose Size()
	// call failed outright, leaving eepromSize at its zero value) has
	// nowhere to hold even an empty table; hwInitialized alone doesn't
	// guarantee f.image was ever allocated.
	if f.eepromSize <= consts.FirstFileAddr {
		f.status.Set(status.InsufficientStorage)
		return false
	}

	if err := f.dev.MassErase(); err != nil {
		f.log.Error("mass erase failed", zap.Error(err))
		f.status.Set(status.DeviceApi)
		return false
	}

	if len(f.image) != int(f.eepromSize) {
		f.image = islice.NewAligned(int(f.eepromSize), consts.WordSize)
	}

	for i := range f.image {
		f.image[i] = consts.ErasedByte
	}
	f.table = fileTable{}
	for i := 0; i < consts.MaxFiles; i++ {
		writeEntry(f.image, i, fileEntry{})
	}
	f.bytesUsed = consts.FirstFileAddr

	if err := f.dev.Program(f.image, 0); err != nil {
		f.log.Error("format flush failed", zap.Error(xerrors.Wrap(err, "format flush")))
		f.status.Set(status.WriteError)
		f.bytesUsed = 0
		return false
	}

	result := f.validate()
	if result.ok {
		f.applyValidation(result)
	} else {
		f.failValidation(result.code)
	}
	for id := range f.handles {
		f.refreshManagedHandle(id)
	}
	return f.validTable
}

// flush writes the entire image back through the device, the coarse
// single-program-call discipline spec.md §4.7/§9 call out deliberately.
func (f *Facade) flush() error {
	return f.dev.Program(f.image, 0)
}

// refreshManagedHandle repoints slot id's handle at its current table
// row if, and only if, id has an outstanding manager. A no-op for
// unmanaged slots, matching updateHandle's behavior when called for
// slots nobody has opened.
func (f *Facade) refreshManagedHandle(id int) {
	if mgr, ok := f.handles[id]; ok {
		refreshHandle(mgr.handle, f.image, f.table[id])
	}
}
