package midi

import "strconv"

func (s Status) String() string {
	switch s {
	case StatusEndOfBuffer:
		return "eob"
	case StatusError:
		return "error"
	case StatusInit:
		return "init"
	case StatusHeader:
		return "header"
	case StatusTrack:
		return "track"
	case StatusChannel:
		return "track-midi"
	case StatusMeta:
		return "track-meta"
	case StatusSysex:
		return "track-sysex"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

func (f Format) String() string {
	switch f {
	case FormatSingleTrack:
		return "single track"
	case FormatMultipleTracks:
		return "multiple tracks"
	case FormatMultipleSongs:
		return "multiple songs"
	default:
		return "(unknown)"
	}
}

func (s ChannelStatus) String() string {
	switch s {
	case NoteOff:
		return "Note Off"
	case NoteOn:
		return "Note On"
	case NoteAftertouch:
		return "Note Aftertouch"
	case Controller:
		return "CC"
	case ProgramChange:
		return "Program Change"
	case ChannelAftertouch:
		return "Channel Aftertouch"
	case PitchBend:
		return "Pitch Bend"
	default:
		return "(unknown)"
	}
}

func (t MetaType) String() string {
	switch t {
	case MetaSequenceNumber:
		return "Sequence Number"
	case MetaText:
		return "Text"
	case MetaCopyright:
		return "Copyright"
	case MetaTrackName:
		return "Track Name"
	case MetaInstrumentName:
		return "Instrument Name"
	case MetaLyrics:
		return "Lyrics"
	case MetaMarker:
		return "Marker"
	case MetaCuePoint:
		return "Cue Point"
	case MetaChannelPrefix:
		return "Channel Prefix"
	case MetaPort:
		return "MIDI Port"
	case MetaEndOfTrack:
		return "End of Track"
	case MetaSetTempo:
		return "Set Tempo"
	case MetaSMPTEOffset:
		return "SMPTE Offset"
	case MetaTimeSignature:
		return "Time Signature"
	case MetaKeySignature:
		return "Key Signature"
	case MetaSeqSpecific:
		return "Sequencer Specific"
	default:
		return "(unknown)"
	}
}

var notes = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName returns the human-readable version of a note value, with middle C
// (60) as C4.
func NoteName(value uint8) string {
	octave := int(value)/12 - 1
	chromaticity := int(value) % 12
	return notes[chromaticity] + strconv.Itoa(octave)
}
