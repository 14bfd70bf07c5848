package midi

// A Status is the result of a call to Parse. Init is only ever the state of
// a parser before its first call.
type Status int

const (
	StatusEndOfBuffer Status = iota - 2
	StatusError
	StatusInit
	StatusHeader
	StatusTrack
	StatusChannel
	StatusMeta
	StatusSysex
)

// Terminal returns true for EndOfBuffer and Error. No more units follow a
// terminal status.
func (s Status) Terminal() bool {
	return s == StatusEndOfBuffer || s == StatusError
}

// A Format is the file format from the header chunk.
type Format uint16

const (
	FormatSingleTrack    Format = 0
	FormatMultipleTracks Format = 1
	FormatMultipleSongs  Format = 2
)

// A Division is the time division from the header chunk. The parser does
// not interpret it.
type Division uint16

// A Header is the content of the MThd chunk.
type Header struct {
	Size     uint32
	Format   Format
	Tracks   uint16
	Division Division
}

// A Track is the prologue of a track chunk. The ID is not validated.
type Track struct {
	ID     [4]byte
	Length uint32
}

// A ChannelStatus is the high nibble of a channel voice status byte.
type ChannelStatus uint8

const (
	NoteOff           ChannelStatus = 0x8
	NoteOn            ChannelStatus = 0x9
	NoteAftertouch    ChannelStatus = 0xa
	Controller        ChannelStatus = 0xb
	ProgramChange     ChannelStatus = 0xc
	ChannelAftertouch ChannelStatus = 0xd
	PitchBend         ChannelStatus = 0xe
)

// DataLen returns the number of data bytes following the status byte.
func (s ChannelStatus) DataLen() int {
	switch s {
	case ProgramChange, ChannelAftertouch:
		return 1
	default:
		return 2
	}
}

// A ChannelEvent is a channel voice message. Param2 is zero for statuses
// with a single data byte.
type ChannelEvent struct {
	Status  ChannelStatus
	Channel uint8
	Param1  uint8
	Param2  uint8
}

// A MetaType is the type byte of a meta event.
type MetaType uint8

const (
	MetaSequenceNumber MetaType = 0x00
	MetaText           MetaType = 0x01
	MetaCopyright      MetaType = 0x02
	MetaTrackName      MetaType = 0x03
	MetaInstrumentName MetaType = 0x04
	MetaLyrics         MetaType = 0x05
	MetaMarker         MetaType = 0x06
	MetaCuePoint       MetaType = 0x07
	MetaChannelPrefix  MetaType = 0x20
	MetaPort           MetaType = 0x21
	MetaEndOfTrack     MetaType = 0x2f
	MetaSetTempo       MetaType = 0x51
	MetaSMPTEOffset    MetaType = 0x54
	MetaTimeSignature  MetaType = 0x58
	MetaKeySignature   MetaType = 0x59
	MetaSeqSpecific    MetaType = 0x7f
)

// A MetaEvent is a meta event. Data points into the parsed buffer.
type MetaEvent struct {
	Type MetaType
	Data []byte
}

// A SysexEvent is a system exclusive event. Data points into the parsed
// buffer and does not include the trailing 0xF7, if there was one.
type SysexEvent struct {
	Data       []byte
	Terminated bool
}

// An Event is a copy of one unit returned by the parser. Only the fields
// matching Status are set. Delta is set for channel, meta and sysex events.
type Event struct {
	Status  Status
	Offset  int
	Header  Header
	Track   Track
	Delta   uint32
	Channel ChannelEvent
	Meta    MetaEvent
	Sysex   SysexEvent
}
