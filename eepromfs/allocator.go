package eepromfs

import (
	"github.com/embedCreativity/EEPROM-FS/consts"
	"github.com/embedCreativity/EEPROM-FS/status"
)

// shiftBytes moves the size bytes starting at head by distance bytes
// within f.image (C7's shift primitive), copying in whichever direction
// avoids self-overwrite and filling the vacated positions with 0xFF.
// Callers hold the lock.
func (f *Facade) shiftBytes(head, size, distance int) status.Code {
	imgLen := len(f.image)
	if head < 0 || head+size > imgLen {
		return status.Internal
	}
	switch {
	case distance > 0:
		if head+size+distance-1 >= imgLen {
			return status.InsufficientStorage
		}
		for i := size - 1; i >= 0; i-- {
			f.image[head+i+distance] = f.image[head+i]
			f.image[head+i] = consts.ErasedByte
		}
	case distance < 0:
		if head+distance < consts.FirstFileAddr {
			return status.Internal
		}
		for i := 0; i < size; i++ {
			f.image[head+i+distance] = f.image[head+i]
			f.image[head+i] = consts.ErasedByte
		}
	}
	return status.Ok
}

// shiftSlot moves one active slot's payload by distance, updates its
// table entry and image, and refreshes its handle if managed.
func (f *Facade) shiftSlot(id int, distance int) status.Code {
	e := f.table[id]
	if code := f.shiftBytes(int(e.Start), int(e.Size), distance); code != status.Ok {
		return code
	}
	e.Start = uint16(int(e.Start) + distance)
	f.table[id] = e
	writeEntry(f.image, id, e)
	f.refreshManagedHandle(id)
	return status.Ok
}

// indexOf returns the position of id within f.active, and whether it is
// present.
func (f *Facade) indexOf(id int) (pos int, present bool) {
	for i, s := range f.active {
		if s == id {
			return i, true
		}
		if s > id {
			return i, false
		}
	}
	return len(f.active), false
}

// insertNewFile places a brand-new slot's payload per the placement
// rule of §4.7 and appends id to the active set in order.
func (f *Facade) insertNewFile(id int, buf []byte) status.Code {
	bufLen := len(buf)
	pos, _ := f.indexOf(id)

	var start int
	switch {
	case pos == 0:
		// id precedes all active ids (or there are none yet): shift
		// every existing file right by bufLen, starting from the last.
		for i := len(f.active) - 1; i >= 0; i-- {
			if code := f.shiftSlot(f.active[i], bufLen); code != status.Ok {
				return code
			}
		}
		start = consts.FirstFileAddr
	case pos == len(f.active):
		// id follows all active ids: no shift needed.
		prev := f.table[f.active[pos-1]]
		start = int(prev.Start) + int(prev.Size)
	default:
		// id lies strictly between active ids at pos-1 and pos: shift
		// everything from pos onward right by bufLen.
		for i := len(f.active) - 1; i >= pos; i-- {
			if code := f.shiftSlot(f.active[i], bufLen); code != status.Ok {
				return code
			}
		}
		prev := f.table[f.active[pos-1]]
		start = int(prev.Start) + int(prev.Size)
	}

	e := fileEntry{Start: uint16(start), Size: uint16(bufLen)}
	f.table[id] = e
	writeEntry(f.image, id, e)
	copy(f.image[start:start+bufLen], buf)

	f.active = insertSorted(f.active, id)
	f.bytesUsed += uint32(bufLen)
	f.refreshManagedHandle(id)
	return status.Ok
}

// overwriteExistingFile implements the overwrite rule of §4.7 for a
// slot that is already active.
func (f *Facade) overwriteExistingFile(id int, buf []byte) status.Code {
	bufLen := len(buf)
	old := f.table[id]
	oldSize := int(old.Size)
	delta := bufLen - oldSize

	// erase the existing payload first so no trailing bytes peek out
	// past whichever edge ends up shorter.
	start := int(old.Start)
	for i := 0; i < oldSize; i++ {
		f.image[start+i] = consts.ErasedByte
	}

	pos, _ := f.indexOf(id)
	isLast := pos == len(f.active)-1

	if delta != 0 && !isLast {
		if delta < 0 {
			for i := pos + 1; i < len(f.active); i++ {
				if code := f.shiftSlot(f.active[i], delta); code != status.Ok {
					return code
				}
			}
		} else {
			for i := len(f.active) - 1; i > pos; i-- {
				if code := f.shiftSlot(f.active[i], delta); code != status.Ok {
					return code
				}
			}
		}
	}

	e := fileEntry{Start: old.Start, Size: uint16(bufLen)}
	f.table[id] = e
	writeEntry(f.image, id, e)
	copy(f.image[int(e.Start):int(e.Start)+bufLen], buf)

	f.bytesUsed = uint32(int(f.bytesUsed) + delta)
	f.refreshManagedHandle(id)
	return status.Ok
}

// deleteActiveFile implements the delete rule of §4.7.
func (f *Facade) deleteActiveFile(id int) status.Code {
	e := f.table[id]

	if e.Size == 0 {
		// pathological: active but empty. Quietly demote, no shift.
		f.table[id] = fileEntry{}
		writeEntry(f.image, id, fileEntry{})
		f.active = removeSorted(f.active, id)
		f.refreshManagedHandle(id)
		return status.Ok
	}

	start := int(e.Start)
	size := int(e.Size)
	for i := 0; i < size; i++ {
		f.image[start+i] = consts.ErasedByte
	}

	f.table[id] = fileEntry{}
	writeEntry(f.image, id, fileEntry{})
	f.refreshManagedHandle(id)

	pos, _ := f.indexOf(id)
	distance := -size
	for i := pos + 1; i < len(f.active); i++ {
		if code := f.shiftSlot(f.active[i], distance); code != status.Ok {
			return code
		}
	}

	f.active = removeSorted(f.active, id)
	f.bytesUsed -= uint32(size)
	return status.Ok
}

func insertSorted(s []int, v int) []int {
	i := 0
	for i < len(s) && s[i] < v {
		i++
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeSorted(s []int, v int) []int {
	for i, x := range s {
		if x == v {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}
