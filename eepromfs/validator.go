package eepromfs

import (
	"go.uber.org/zap"

	"github.com/embedCreativity/EEPROM-FS/consts"
	islice "github.com/embedCreativity/EEPROM-FS/internal/slice"
	"github.com/embedCreativity/EEPROM-FS/status"
)

// validationResult carries everything validate derives from a fresh
// read of the table and payloads, so the facade can apply it
// atomically rather than mutating state mid-check.
type validationResult struct {
	ok        bool
	code      status.Code
	table     fileTable
	active    []int
	bytesUsed uint32
}

// validate implements the Validator (C6): pull the image, walk the
// table enforcing I1-I2 (bounds and ordering; gaps between consecutive
// files are not rejected), then scan every active payload for I5. The
// only facade field it sets is f.image, replaced as soon as a full read
// succeeds; table, active set, byte count and status are left for the
// caller to apply from the result.
func (f *Facade) validate() validationResult {
	image := islice.NewAligned(int(f.eepromSize), consts.WordSize)
	n, err := f.dev.Read(image, 0)
	if err != nil || n != f.eepromSize {
		f.log.Warn("validator: short read from device",
			zap.Uint32("wanted", f.eepromSize), zap.Uint32("got", n), zap.Error(err))
		return validationResult{ok: false, code: status.InvalidTable}
	}

	f.image = image
	table := readTable(image)
	active := make([]int, 0, consts.MaxFiles)
	lastEnd := uint32(consts.FirstFileAddr)
	var bytesUsed uint32 = consts.FirstFileAddr

	for i := 0; i < consts.MaxFiles; i++ {
		e := table[i]
		if e.isInactive() {
			continue
		}
		if e.isCorruptZeroStart() {
			return validationResult{ok: false, code: status.InvalidTable}
		}
		start := uint32(e.Start)
		size := uint32(e.Size)
		if start < lastEnd {
			return validationResult{ok: false, code: status.InvalidTable}
		}
		if start+size > f.eepromSize {
			return validationResult{ok: false, code: status.InvalidTable}
		}
		active = append(active, i)
		lastEnd = start + size
		bytesUsed += size
	}

	for _, slot := range active {
		e := table[slot]
		nulls := 0
		start := int(e.Start)
		size := int(e.Size)
		for j := 0; j < size; j++ {
			b := image[start+j]
			switch {
			case b == 0:
				nulls++
			case b < consts.PrintableLow || b > consts.PrintableHigh:
				return validationResult{ok: false, code: status.NonAscii}
			case nulls != 0:
				return validationResult{ok: false, code: status.UnexpectedNulls}
			}
		}
	}

	return validationResult{
		ok:        true,
		code:      status.Ok,
		table:     table,
		active:    active,
		bytesUsed: bytesUsed,
	}
}

// applyValidation installs a successful validationResult into the
// facade's live state. Callers must hold the lock.
func (f *Facade) applyValidation(r validationResult) {
	f.table = r.table
	f.active = append([]int(nil), r.active...)
	f.bytesUsed = r.bytesUsed
	f.validTable = true
	f.status.Set(status.Ok)
}

// failValidation records a failed validationResult: bytesUsed zeroed,
// validTable cleared, per §4.6's "all failure paths zero bytes_used".
func (f *Facade) failValidation(code status.Code) {
	f.bytesUsed = 0
	f.validTable = false
	f.active = nil
	f.status.Set(code)
}
