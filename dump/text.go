package dump

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/text/encoding"

	"moria.us/smf/midi"
)

// TextOptions control the text format.
type TextOptions struct {
	// Encoding for text meta events. Defaults to UTF-8.
	Encoding encoding.Encoding
	// Payloads enables hex dumps of meta and sysex data.
	Payloads bool
}

type textWriter struct {
	w    *bufio.Writer
	opts TextOptions
}

// NewText returns a writer for a human-readable listing, one indented block
// per unit.
func NewText(w io.Writer, opts TextOptions) Writer {
	return &textWriter{
		w:    bufio.NewWriter(w),
		opts: opts,
	}
}

func (t *textWriter) WriteEvent(e *midi.Event) error {
	w := t.w
	fmt.Fprintln(w, e.Status)
	switch e.Status {
	case midi.StatusHeader:
		h := &e.Header
		fmt.Fprintf(w, "  size: %d\n", h.Size)
		fmt.Fprintf(w, "  format: %d [%s]\n", h.Format, h.Format)
		fmt.Fprintf(w, "  tracks count: %d\n", h.Tracks)
		if fps, ticks, ok := h.Division.SMPTE(); ok {
			fmt.Fprintf(w, "  time division: %d [%d fps, %d ticks/frame]\n", uint16(h.Division), fps, ticks)
		} else {
			fmt.Fprintf(w, "  time division: %d\n", uint16(h.Division))
		}
	case midi.StatusTrack:
		if id := string(e.Track.ID[:]); id != "MTrk" {
			fmt.Fprintf(w, "  id: %q\n", id)
		}
		fmt.Fprintf(w, "  length: %d\n", e.Track.Length)
	case midi.StatusChannel:
		c := &e.Channel
		fmt.Fprintf(w, "  time: %d\n", e.Delta)
		fmt.Fprintf(w, "  status: %d [%s]\n", c.Status, c.Status)
		fmt.Fprintf(w, "  channel: %d\n", c.Channel)
		switch c.Status {
		case midi.NoteOff, midi.NoteOn, midi.NoteAftertouch:
			fmt.Fprintf(w, "  param1: %d [%s]\n", c.Param1, midi.NoteName(c.Param1))
		default:
			fmt.Fprintf(w, "  param1: %d\n", c.Param1)
		}
		fmt.Fprintf(w, "  param2: %d\n", c.Param2)
	case midi.StatusMeta:
		m := &e.Meta
		fmt.Fprintf(w, "  time: %d\n", e.Delta)
		fmt.Fprintf(w, "  type: %d [%s]\n", m.Type, m.Type)
		fmt.Fprintf(w, "  length: %d\n", len(m.Data))
		if m.Type.IsText() {
			fmt.Fprintf(w, "  text: %q\n", decodeText(t.opts.Encoding, m.Data))
		} else if v, ok := m.Tempo(); ok {
			fmt.Fprintf(w, "  tempo: %d\n", v)
		}
		t.payload(m.Data)
	case midi.StatusSysex:
		x := &e.Sysex
		fmt.Fprintf(w, "  time: %d\n", e.Delta)
		fmt.Fprintf(w, "  length: %d\n", len(x.Data))
		t.payload(x.Data)
	}
	return nil
}

func (t *textWriter) payload(data []byte) {
	if !t.opts.Payloads || len(data) == 0 {
		return
	}
	d := hex.Dumper(&indenter{w: t.w})
	d.Write(data)
	d.Close()
}

func (t *textWriter) Close() error {
	return t.w.Flush()
}

// An indenter indents every line written to it.
type indenter struct {
	w   io.Writer
	mid bool
}

func (d *indenter) Write(p []byte) (int, error) {
	for i, c := range p {
		if !d.mid {
			if _, err := io.WriteString(d.w, "    "); err != nil {
				return i, err
			}
		}
		if _, err := d.w.Write(p[i : i+1]); err != nil {
			return i, err
		}
		d.mid = c != '\n'
	}
	return len(p), nil
}
