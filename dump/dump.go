// Package dump renders the contents of MIDI files.
package dump

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"moria.us/smf/midi"
)

// A Writer writes parsed events. Every unit returned by the parser is
// written, including the final end-of-buffer or error status.
type Writer interface {
	WriteEvent(e *midi.Event) error
	Close() error
}

// Formats lists the output formats accepted by NewWriter.
var Formats = []string{"text", "json", "proto"}

// NewWriter returns a writer for the named format. The text encoding in opts
// also applies to JSON.
func NewWriter(format string, w io.Writer, opts TextOptions) (Writer, error) {
	switch format {
	case "", "text":
		return NewText(w, opts), nil
	case "json":
		return NewJSON(w, opts.Encoding), nil
	case "proto":
		return NewProto(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %q", format)
	}
}

// A Summary counts the units in a file.
type Summary struct {
	Header    midi.Header `json:"header"`
	Tracks    int         `json:"tracks"`
	Channel   int         `json:"channel"`
	Meta      int         `json:"meta"`
	Sysex     int         `json:"sysex"`
	Bytes     int         `json:"bytes"`
	Size      int         `json:"size"`
	Truncated bool        `json:"truncated"`
}

func (s *Summary) add(e *midi.Event) {
	switch e.Status {
	case midi.StatusHeader:
		s.Header = e.Header
	case midi.StatusTrack:
		s.Tracks++
	case midi.StatusChannel:
		s.Channel++
	case midi.StatusMeta:
		s.Meta++
	case midi.StatusSysex:
		s.Sysex++
	}
}

// Dump parses a file and writes every unit to w. The writer is not closed.
// Running out of data is not an error, but is reported in the summary if it
// happens in the middle of a unit. Malformed data is returned as a
// *midi.SyntaxError.
func Dump(data []byte, w Writer) (Summary, error) {
	s := Summary{Size: len(data)}
	p := midi.NewParser(data)
	for {
		e, err := p.Next()
		if werr := w.WriteEvent(&e); werr != nil {
			return s, werr
		}
		s.add(&e)
		if err == nil {
			continue
		}
		s.Bytes = p.Offset()
		switch err {
		case io.EOF:
			if s.Tracks != int(s.Header.Tracks) {
				logrus.Warnf("header declares %d tracks, found %d", s.Header.Tracks, s.Tracks)
			}
			return s, nil
		case io.ErrUnexpectedEOF:
			s.Truncated = true
			logrus.WithFields(logrus.Fields{
				"offset":    p.Offset(),
				"remaining": p.Remaining(),
			}).Warn("data ends inside an event")
			return s, nil
		default:
			return s, err
		}
	}
}

type collector struct {
	events []midi.Event
}

func (c *collector) WriteEvent(e *midi.Event) error {
	c.events = append(c.events, *e)
	return nil
}

func (*collector) Close() error { return nil }

// Collect parses a file and returns all of its units. The payloads in the
// events refer to data.
func Collect(data []byte) ([]midi.Event, Summary, error) {
	var c collector
	s, err := Dump(data, &c)
	return c.events, s, err
}
