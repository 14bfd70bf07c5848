package dump

import (
	"bufio"
	"encoding/hex"
	"io"

	"github.com/goccy/go-json"
	"golang.org/x/text/encoding"

	"moria.us/smf/midi"
)

// A Record is the JSON form of a parsed unit.
type Record struct {
	Status  string         `json:"status"`
	Offset  int            `json:"offset"`
	Delta   *uint32        `json:"delta,omitempty"`
	Header  *HeaderRecord  `json:"header,omitempty"`
	Track   *TrackRecord   `json:"track,omitempty"`
	Channel *ChannelRecord `json:"channel,omitempty"`
	Meta    *MetaRecord    `json:"meta,omitempty"`
	Sysex   *SysexRecord   `json:"sysex,omitempty"`
}

type HeaderRecord struct {
	Size       uint32 `json:"size"`
	Format     uint16 `json:"format"`
	FormatName string `json:"formatName"`
	Tracks     uint16 `json:"tracks"`
	Division   uint16 `json:"division"`
}

type TrackRecord struct {
	ID     string `json:"id"`
	Length uint32 `json:"length"`
}

type ChannelRecord struct {
	Status  uint8  `json:"status"`
	Name    string `json:"name"`
	Channel uint8  `json:"channel"`
	Param1  uint8  `json:"param1"`
	Param2  uint8  `json:"param2"`
}

type MetaRecord struct {
	Type  uint8   `json:"type"`
	Name  string  `json:"name"`
	Data  string  `json:"data"`
	Text  *string `json:"text,omitempty"`
	Tempo *uint32 `json:"tempo,omitempty"`
}

type SysexRecord struct {
	Data       string `json:"data"`
	Terminated bool   `json:"terminated"`
}

// NewRecord converts a parsed unit to its JSON form. Payloads are hex
// encoded, text meta events are also decoded with enc.
func NewRecord(e *midi.Event, enc encoding.Encoding) Record {
	r := Record{
		Status: e.Status.String(),
		Offset: e.Offset,
	}
	delta := e.Delta
	switch e.Status {
	case midi.StatusHeader:
		h := &e.Header
		r.Header = &HeaderRecord{
			Size:       h.Size,
			Format:     uint16(h.Format),
			FormatName: h.Format.String(),
			Tracks:     h.Tracks,
			Division:   uint16(h.Division),
		}
	case midi.StatusTrack:
		r.Track = &TrackRecord{
			ID:     string(e.Track.ID[:]),
			Length: e.Track.Length,
		}
	case midi.StatusChannel:
		c := &e.Channel
		r.Delta = &delta
		r.Channel = &ChannelRecord{
			Status:  uint8(c.Status),
			Name:    c.Status.String(),
			Channel: c.Channel,
			Param1:  c.Param1,
			Param2:  c.Param2,
		}
	case midi.StatusMeta:
		m := &e.Meta
		r.Delta = &delta
		r.Meta = &MetaRecord{
			Type: uint8(m.Type),
			Name: m.Type.String(),
			Data: hex.EncodeToString(m.Data),
		}
		if m.Type.IsText() {
			s := decodeText(enc, m.Data)
			r.Meta.Text = &s
		} else if v, ok := m.Tempo(); ok {
			r.Meta.Tempo = &v
		}
	case midi.StatusSysex:
		r.Delta = &delta
		r.Sysex = &SysexRecord{
			Data:       hex.EncodeToString(e.Sysex.Data),
			Terminated: e.Sysex.Terminated,
		}
	}
	return r
}

type jsonWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
	txt encoding.Encoding
}

// NewJSON returns a writer for JSON, one object per line.
func NewJSON(w io.Writer, txt encoding.Encoding) Writer {
	bw := bufio.NewWriter(w)
	return &jsonWriter{
		w:   bw,
		enc: json.NewEncoder(bw),
		txt: txt,
	}
}

func (j *jsonWriter) WriteEvent(e *midi.Event) error {
	r := NewRecord(e, j.txt)
	return j.enc.Encode(&r)
}

func (j *jsonWriter) Close() error {
	return j.w.Flush()
}
