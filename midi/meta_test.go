package midi

import "testing"

func TestNoteName(t *testing.T) {
	cases := map[uint8]string{
		0:   "C-1",
		60:  "C4",
		69:  "A4",
		70:  "A#4",
		127: "G9",
	}
	for v, want := range cases {
		if got := NoteName(v); got != want {
			t.Errorf("NoteName(%d): got %q, want %q", v, got, want)
		}
	}
}

func TestNames(t *testing.T) {
	type testcase struct {
		got, want string
	}
	cases := []testcase{
		{StatusChannel.String(), "track-midi"},
		{Status(9).String(), "status(9)"},
		{FormatMultipleSongs.String(), "multiple songs"},
		{Format(7).String(), "(unknown)"},
		{ChannelAftertouch.String(), "Channel Aftertouch"},
		{MetaSetTempo.String(), "Set Tempo"},
		{MetaType(0x60).String(), "(unknown)"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("got %q, want %q", c.got, c.want)
		}
	}
}

func TestDivision(t *testing.T) {
	if n, ok := Division(96).TicksPerQuarter(); !ok || n != 96 {
		t.Errorf("TicksPerQuarter(96): got %d %t", n, ok)
	}
	if _, _, ok := Division(96).SMPTE(); ok {
		t.Errorf("SMPTE(96): got ok")
	}
	// -25 fps, 40 ticks per frame.
	d := Division(0xe728)
	if _, ok := d.TicksPerQuarter(); ok {
		t.Errorf("TicksPerQuarter(%#x): got ok", uint16(d))
	}
	if fps, ticks, ok := d.SMPTE(); !ok || fps != 25 || ticks != 40 {
		t.Errorf("SMPTE(%#x): got %d %d %t, want 25 40 true", uint16(d), fps, ticks, ok)
	}
}

func TestMetaPayloads(t *testing.T) {
	ts, ok := MetaEvent{MetaTimeSignature, []byte{6, 3, 0x24, 8}}.TimeSignature()
	if want := (TimeSignature{6, 3, 0x24, 8}); !ok || ts != want {
		t.Errorf("TimeSignature: got %+v %t, want %+v", ts, ok, want)
	}
	ks, ok := MetaEvent{MetaKeySignature, []byte{0xfd, 1}}.KeySignature()
	if want := (KeySignature{-3, true}); !ok || ks != want {
		t.Errorf("KeySignature: got %+v %t, want %+v", ks, ok, want)
	}
	if _, ok := (MetaEvent{MetaSetTempo, []byte{1, 2}}).Tempo(); ok {
		t.Errorf("Tempo with 2 bytes: got ok")
	}
	if n, ok := (MetaEvent{MetaSequenceNumber, []byte{1, 2}}).SequenceNumber(); !ok || n != 0x102 {
		t.Errorf("SequenceNumber: got %#x %t", n, ok)
	}
	if !MetaLyrics.IsText() || MetaEndOfTrack.IsText() {
		t.Errorf("IsText: wrong result")
	}
	if v := (ChannelEvent{PitchBend, 0, 0x00, 0x40}).PitchBend(); v != 0x2000 {
		t.Errorf("PitchBend: got %#x, want 0x2000", v)
	}
}
