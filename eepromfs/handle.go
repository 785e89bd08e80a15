package eepromfs

// Handle is an externally held window over an active slot's payload.
// Callers must hold the facade lock (Facade.Acquire/Release) while
// dereferencing Data, since a concurrent mutation can retarget it
// in-place at any time (I6).
//
// Design note 9 suggests indirection through an opaque handle id as the
// "robust" re-implementation strategy, but this keeps the original's
// in-place mutation of a shared record: all holders of a Handle for the
// same slot already alias one struct (one *Handle per managed slot), so
// refreshing its fields in place is exactly the indirection the note
// describes — callers never re-fetch, they just re-read Data/Size under
// the lock.
//
// Size is widened to uint16 (REDESIGN per §9): the original's 8-bit
// handle.size field truncates any file above 255 bytes, which this
// implementation does not reproduce.
type Handle struct {
	Data []byte
	Size uint16
}

// handleManager is the per-slot bookkeeping record: the shared handle
// plus a reference count of outstanding opens (the original's
// manager_t).
type handleManager struct {
	handle   *Handle
	refCount int
}

// refreshHandle repoints h at image[e.Start:e.Start+e.Size]. Called for
// every managed slot whose start or size changed, including as a
// byproduct of a shift during some other slot's write/delete.
func refreshHandle(h *Handle, image []byte, e fileEntry) {
	start := int(e.Start)
	h.Data = image[start : start+int(e.Size)]
	h.Size = e.Size
}
