package midi

import "encoding/binary"

// TicksPerQuarter returns the number of ticks per quarter note, if the
// division is metrical.
func (d Division) TicksPerQuarter() (uint16, bool) {
	if d&0x8000 != 0 {
		return 0, false
	}
	return uint16(d), true
}

// SMPTE returns the frame rate (24, 25, 29 or 30) and the ticks per frame,
// if the division is time-code based.
func (d Division) SMPTE() (fps, ticks uint8, ok bool) {
	if d&0x8000 == 0 {
		return 0, 0, false
	}
	return uint8(-int8(d >> 8)), uint8(d), true
}

// PitchBend returns the 14-bit pitch bend value of a pitch bend event,
// where 0x2000 is the center.
func (e ChannelEvent) PitchBend() uint16 {
	return uint16(e.Param2&0x7f)<<7 | uint16(e.Param1&0x7f)
}

// IsText returns true for the meta types that hold text.
func (t MetaType) IsText() bool {
	return t >= 0x01 && t <= 0x0f
}

// Tempo returns the microseconds per quarter note of a Set Tempo event.
func (e MetaEvent) Tempo() (uint32, bool) {
	if e.Type != MetaSetTempo || len(e.Data) != 3 {
		return 0, false
	}
	d := e.Data
	return uint32(d[0])<<16 | uint32(d[1])<<8 | uint32(d[2]), true
}

// A TimeSignature is the payload of a Time Signature event. The denominator
// is a power of two, stored as its exponent.
type TimeSignature struct {
	Numerator       uint8
	Denominator     uint8
	ClocksPerClick  uint8
	NotesPerQuarter uint8
}

// TimeSignature decodes a Time Signature event.
func (e MetaEvent) TimeSignature() (TimeSignature, bool) {
	if e.Type != MetaTimeSignature || len(e.Data) != 4 {
		return TimeSignature{}, false
	}
	return TimeSignature{
		Numerator:       e.Data[0],
		Denominator:     e.Data[1],
		ClocksPerClick:  e.Data[2],
		NotesPerQuarter: e.Data[3],
	}, true
}

// A KeySignature is the payload of a Key Signature event. Accidentals is
// the number of sharps if positive, or flats if negative.
type KeySignature struct {
	Accidentals int8
	Minor       bool
}

// KeySignature decodes a Key Signature event.
func (e MetaEvent) KeySignature() (KeySignature, bool) {
	if e.Type != MetaKeySignature || len(e.Data) != 2 {
		return KeySignature{}, false
	}
	return KeySignature{
		Accidentals: int8(e.Data[0]),
		Minor:       e.Data[1] != 0,
	}, true
}

// SequenceNumber decodes a Sequence Number event.
func (e MetaEvent) SequenceNumber() (uint16, bool) {
	if e.Type != MetaSequenceNumber || len(e.Data) != 2 {
		return 0, false
	}
	return binary.BigEndian.Uint16(e.Data), true
}
