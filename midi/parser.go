// Package midi decodes Standard MIDI Files.
//
// A Parser walks a complete file held in memory and returns one unit, a
// header, a track prologue, or an event, for each call to Parse. The parser
// never copies the input and never allocates while parsing. Meta and sysex
// payloads are views into the input, so the input must stay unmodified for
// as long as the parser or any payload is in use.
//
// A Parser is not safe for concurrent use.
package midi

import (
	"errors"
	"io"
)

const (
	headerSize      = 14
	trackHeaderSize = 8
)

var errBadState = errors.New("invalid parser state")

// A Parser decodes a Standard MIDI File.
type Parser struct {
	in    []byte
	cur   cursor
	state Status

	// Position and reason of the last error.
	errOffset int
	err       error

	// Running status. Zero if there is none.
	running     ChannelStatus
	runningChan uint8

	header Header
	track  Track
	delta  uint32
	midi   ChannelEvent
	meta   MetaEvent
	sysex  SysexEvent
}

// NewParser returns a parser which reads the given file contents.
func NewParser(data []byte) *Parser {
	return &Parser{
		in:  data,
		cur: cursor{buf: data},
	}
}

// Parse decodes the next unit from the file. After StatusEndOfBuffer or
// StatusError is returned, every further call returns the same status.
func (p *Parser) Parse() Status {
	if p.state.Terminal() {
		return p.state
	}
	s := p.parse()
	if s.Terminal() {
		p.state = s
	}
	return s
}

func (p *Parser) parse() Status {
	for {
		if len(p.cur.buf) == 0 {
			return StatusEndOfBuffer
		}
		switch p.state {
		case StatusInit:
			return p.parseHeader()
		case StatusHeader:
			return p.parseTrack()
		case StatusTrack:
			if p.cur.track == 0 {
				// End of track, the next track header follows.
				p.state = StatusHeader
				continue
			}
			return p.parseEvent()
		default:
			return p.fail(errBadState)
		}
	}
}

func (p *Parser) fail(err error) Status {
	p.errOffset = p.Offset()
	p.err = err
	return StatusError
}

func (p *Parser) parseHeader() Status {
	c := &p.cur
	if !c.hasBuf(headerSize) {
		return StatusEndOfBuffer
	}
	if string(c.buf[:4]) != "MThd" {
		return p.fail(ErrBadMagic)
	}
	p.header = Header{
		Size:     c.be32(4),
		Format:   Format(c.be16(8)),
		Tracks:   c.be16(10),
		Division: Division(c.be16(12)),
	}
	c.skip(headerSize)
	p.state = StatusHeader
	return StatusHeader
}

func (p *Parser) parseTrack() Status {
	c := &p.cur
	if !c.hasBuf(trackHeaderSize) {
		return StatusEndOfBuffer
	}
	copy(p.track.ID[:], c.buf[:4])
	p.track.Length = c.be32(4)
	c.skip(trackHeaderSize)
	c.setTrack(p.track.Length)
	p.running = 0
	p.state = StatusTrack
	return StatusTrack
}

func (p *Parser) parseEvent() Status {
	c := &p.cur
	p.meta = MetaEvent{}
	p.sysex = SysexEvent{}
	d, ok := c.readDelta()
	if !ok {
		return StatusEndOfBuffer
	}
	p.delta = d
	if !c.has(1) {
		return p.fail(ErrTrackOverrun)
	}
	b := c.buf[0]
	if b < 0xf0 {
		return p.parseChannel(b)
	}
	// Sysex and meta events cancel running status.
	p.running = 0
	switch b {
	case 0xf0:
		return p.parseSysex()
	case 0xff:
		return p.parseMeta()
	default:
		return p.fail(ErrUnknownEvent)
	}
}

func (p *Parser) parseChannel(b byte) Status {
	c := &p.cur
	if b&0x80 == 0 {
		// Running status: b is the first data byte.
		if p.running == 0 {
			return StatusEndOfBuffer
		}
		n := p.running.DataLen()
		if !c.has(n) {
			return StatusEndOfBuffer
		}
		p.midi = ChannelEvent{
			Status:  p.running,
			Channel: p.runningChan,
			Param1:  b,
		}
		if n > 1 {
			p.midi.Param2 = c.buf[1]
		}
		c.consume(n)
		return StatusChannel
	}
	s := ChannelStatus(b >> 4)
	n := s.DataLen()
	if !c.has(1 + n) {
		return StatusEndOfBuffer
	}
	p.midi = ChannelEvent{
		Status:  s,
		Channel: b & 0xf,
		Param1:  c.buf[1],
	}
	if n > 1 {
		p.midi.Param2 = c.buf[2]
	}
	p.running = s
	p.runningChan = p.midi.Channel
	c.consume(1 + n)
	return StatusChannel
}

// payload checks that a payload of length n starting at off fits in both
// the buffer and the track.
func (c *cursor) payload(off int, n uint64) bool {
	return n <= uint64(len(c.buf)-off) && n <= uint64(c.track-off)
}

func (p *Parser) parseMeta() Status {
	c := &p.cur
	if !c.has(2) {
		return p.fail(ErrTrackOverrun)
	}
	t := MetaType(c.buf[1])
	n, off, ok := c.readLength(2)
	if !ok {
		return p.fail(ErrTrackOverrun)
	}
	if !c.payload(off, n) {
		return p.fail(ErrBadLength)
	}
	p.meta = MetaEvent{
		Type: t,
		Data: c.slice(off, int(n)),
	}
	c.consume(off + int(n))
	return StatusMeta
}

func (p *Parser) parseSysex() Status {
	c := &p.cur
	if !c.has(2) {
		return p.fail(ErrTrackOverrun)
	}
	n, off, ok := c.readLength(1)
	if !ok {
		return p.fail(ErrTrackOverrun)
	}
	if n == 0 || !c.payload(off, n) {
		return p.fail(ErrBadLength)
	}
	data := c.slice(off, int(n))
	c.consume(off + int(n))
	p.sysex = SysexEvent{Data: data}
	// The end-of-exclusive marker is not part of the data.
	if last := len(data) - 1; data[last] == 0xf7 {
		p.sysex = SysexEvent{
			Data:       data[:last:last],
			Terminated: true,
		}
	}
	return StatusSysex
}

// Offset returns the number of input bytes consumed so far.
func (p *Parser) Offset() int {
	return len(p.in) - len(p.cur.buf)
}

// Remaining returns the number of input bytes not yet consumed.
func (p *Parser) Remaining() int {
	return len(p.cur.buf)
}

// Err returns the reason for StatusError, or nil if Parse has not returned
// StatusError. The error is a *SyntaxError.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return &SyntaxError{Offset: p.errOffset, Err: p.err}
}

// Header returns the file header. Valid after StatusHeader.
func (p *Parser) Header() Header { return p.header }

// Track returns the current track prologue. Valid after StatusTrack.
func (p *Parser) Track() Track { return p.track }

// Delta returns the delta-time of the last event.
func (p *Parser) Delta() uint32 { return p.delta }

// Channel returns the last channel event. Valid after StatusChannel.
func (p *Parser) Channel() ChannelEvent { return p.midi }

// Meta returns the last meta event. Valid after StatusMeta.
func (p *Parser) Meta() MetaEvent { return p.meta }

// Sysex returns the last sysex event. Valid after StatusSysex.
func (p *Parser) Sysex() SysexEvent { return p.sysex }

// Next parses the next unit and returns a copy of it. At the end of the
// input Next returns io.EOF, or io.ErrUnexpectedEOF if the input stopped in
// the middle of a unit. If the input is malformed, the error is a
// *SyntaxError.
func (p *Parser) Next() (Event, error) {
	e := Event{Offset: p.Offset()}
	e.Status = p.Parse()
	switch e.Status {
	case StatusEndOfBuffer:
		if len(p.cur.buf) == 0 {
			return e, io.EOF
		}
		return e, io.ErrUnexpectedEOF
	case StatusError:
		return e, p.Err()
	case StatusHeader:
		e.Header = p.header
	case StatusTrack:
		e.Track = p.track
	case StatusChannel:
		e.Delta = p.delta
		e.Channel = p.midi
	case StatusMeta:
		e.Delta = p.delta
		e.Meta = p.meta
	case StatusSysex:
		e.Delta = p.delta
		e.Sysex = p.sysex
	}
	return e, nil
}
