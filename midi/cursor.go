package midi

import "encoding/binary"

// A cursor is a view of the unread part of the input. It tracks two
// remaining counts: bytes left in the whole buffer, and bytes left in the
// current track chunk. The track count never exceeds the buffer count.
type cursor struct {
	buf   []byte
	track int
}

// has returns true if n bytes are available in both the buffer and the
// current track.
func (c *cursor) has(n int) bool {
	return n >= 0 && n <= len(c.buf) && n <= c.track
}

// hasBuf returns true if n bytes are available in the buffer, ignoring the
// track. Used outside of tracks, for chunk headers.
func (c *cursor) hasBuf(n int) bool {
	return n >= 0 && n <= len(c.buf)
}

// consume advances past n bytes inside a track. The caller must have
// checked has(n).
func (c *cursor) consume(n int) {
	c.buf = c.buf[n:]
	c.track -= n
}

// skip advances past n bytes outside a track. The caller must have checked
// hasBuf(n).
func (c *cursor) skip(n int) {
	c.buf = c.buf[n:]
}

// setTrack starts a new track of the given declared length.
func (c *cursor) setTrack(n uint32) {
	if uint64(n) > uint64(len(c.buf)) {
		c.track = len(c.buf)
	} else {
		c.track = int(n)
	}
}

// slice returns a view of n bytes starting at off. Appending to the result
// never writes into the input.
func (c *cursor) slice(off, n int) []byte {
	return c.buf[off : off+n : off+n]
}

func (c *cursor) be16(off int) uint16 {
	return binary.BigEndian.Uint16(c.buf[off:])
}

func (c *cursor) be32(off int) uint32 {
	return binary.BigEndian.Uint32(c.buf[off:])
}
