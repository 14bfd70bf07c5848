package dump

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"moria.us/smf/midi"
)

// The proto format is a stream of records, each a 4-byte big-endian length
// followed by an Event message:
//
//	message Event {
//	  sint32 status = 1;
//	  uint64 offset = 2;
//	  uint32 delta = 3;
//	  Header header = 4;
//	  Track track = 5;
//	  Channel channel = 6;
//	  Meta meta = 7;
//	  Sysex sysex = 8;
//	}
//	message Header { uint32 size = 1; uint32 format = 2; uint32 tracks = 3; uint32 division = 4; }
//	message Track { bytes id = 1; uint32 length = 2; }
//	message Channel { uint32 status = 1; uint32 channel = 2; uint32 param1 = 3; uint32 param2 = 4; }
//	message Meta { uint32 type = 1; bytes data = 2; }
//	message Sysex { bytes data = 1; bool terminated = 2; }
const (
	fieldStatus  protowire.Number = 1
	fieldOffset  protowire.Number = 2
	fieldDelta   protowire.Number = 3
	fieldHeader  protowire.Number = 4
	fieldTrack   protowire.Number = 5
	fieldChannel protowire.Number = 6
	fieldMeta    protowire.Number = 7
	fieldSysex   protowire.Number = 8
)

const maxRecordSize = 64 * 1024 * 1024

var errRecordSize = errors.New("record too large")

type protoWriter struct {
	w   *bufio.Writer
	buf []byte
	sub []byte
}

// NewProto returns a writer for length-prefixed protobuf records.
func NewProto(w io.Writer) Writer {
	return &protoWriter{w: bufio.NewWriter(w)}
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func (p *protoWriter) appendEvent(b []byte, e *midi.Event) []byte {
	b = protowire.AppendTag(b, fieldStatus, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(int64(e.Status)))
	b = appendUint(b, fieldOffset, uint64(e.Offset))
	sub := p.sub[:0]
	switch e.Status {
	case midi.StatusHeader:
		h := &e.Header
		sub = appendUint(sub, 1, uint64(h.Size))
		sub = appendUint(sub, 2, uint64(h.Format))
		sub = appendUint(sub, 3, uint64(h.Tracks))
		sub = appendUint(sub, 4, uint64(h.Division))
		b = appendBytes(b, fieldHeader, sub)
	case midi.StatusTrack:
		sub = appendBytes(sub, 1, e.Track.ID[:])
		sub = appendUint(sub, 2, uint64(e.Track.Length))
		b = appendBytes(b, fieldTrack, sub)
	case midi.StatusChannel:
		c := &e.Channel
		b = appendUint(b, fieldDelta, uint64(e.Delta))
		sub = appendUint(sub, 1, uint64(c.Status))
		sub = appendUint(sub, 2, uint64(c.Channel))
		sub = appendUint(sub, 3, uint64(c.Param1))
		sub = appendUint(sub, 4, uint64(c.Param2))
		b = appendBytes(b, fieldChannel, sub)
	case midi.StatusMeta:
		b = appendUint(b, fieldDelta, uint64(e.Delta))
		sub = appendUint(sub, 1, uint64(e.Meta.Type))
		if len(e.Meta.Data) != 0 {
			sub = appendBytes(sub, 2, e.Meta.Data)
		}
		b = appendBytes(b, fieldMeta, sub)
	case midi.StatusSysex:
		b = appendUint(b, fieldDelta, uint64(e.Delta))
		sub = appendBytes(sub, 1, e.Sysex.Data)
		if e.Sysex.Terminated {
			sub = appendUint(sub, 2, 1)
		}
		b = appendBytes(b, fieldSysex, sub)
	}
	p.sub = sub[:0]
	return b
}

func (p *protoWriter) WriteEvent(e *midi.Event) error {
	buf := append(p.buf[:0], 0, 0, 0, 0)
	buf = p.appendEvent(buf, e)
	p.buf = buf[:0]
	binary.BigEndian.PutUint32(buf, uint32(len(buf)-4))
	_, err := p.w.Write(buf)
	return err
}

func (p *protoWriter) Close() error {
	return p.w.Flush()
}

// ReadRecord reads one record written by the proto writer and returns the
// Event message it contains. It returns io.EOF if there are no more
// records.
func ReadRecord(r io.Reader, buf []byte) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint32(hdr[:]))
	if n > maxRecordSize {
		return nil, errRecordSize
	}
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}
