package midi

import "math"

const (
	// MaxDelta is the largest delta-time a file may contain.
	MaxDelta = 0x0fffffff

	// The largest delta-time fits in four bytes. One byte of 0x80 padding is
	// tolerated, anything longer is treated as garbage. Without the byte
	// limit, a run of 0x80 bytes would never push the value over MaxDelta.
	maxDeltaBytes = 5
)

// readDelta reads a delta-time and advances past it. It returns false,
// without advancing, if the track or buffer ends inside the quantity or the
// quantity is out of range.
func (c *cursor) readDelta() (uint32, bool) {
	var v uint64
	for n := 1; ; n++ {
		if !c.has(n) {
			return 0, false
		}
		b := c.buf[n-1]
		v = v<<7 | uint64(b&0x7f)
		if v > MaxDelta || n > maxDeltaBytes {
			return 0, false
		}
		if b&0x80 == 0 {
			c.consume(n)
			return uint32(v), true
		}
	}
}

// readLength reads a length prefix starting at offset off, without
// advancing. It returns the value and the offset just past the prefix. The
// value is not checked against anything; if it overflows it saturates, so
// it will fail any bounds check. ok is false if the track or buffer ends
// before the last byte of the prefix.
func (c *cursor) readLength(off int) (v uint64, end int, ok bool) {
	for i := off; c.has(i + 1); i++ {
		b := c.buf[i]
		if v > math.MaxUint64>>7 {
			v = math.MaxUint64
		} else if v != math.MaxUint64 {
			v = v<<7 | uint64(b&0x7f)
		}
		if b&0x80 == 0 {
			return v, i + 1, true
		}
	}
	return 0, 0, false
}
