package synth

// EventKind distinguishes note events.
type EventKind uint8

const (
	// EventNoteOn starts a note.
	EventNoteOn EventKind = iota
	// EventNoteOff releases a note.
	EventNoteOff
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventNoteOn:
		return "note-on"
	case EventNoteOff:
		return "note-off"
	default:
		return "unknown"
	}
}

// Event is a note event scheduled at a sample offset within a block.
type Event struct {
	Offset   int
	Kind     EventKind
	Note     uint8
	Velocity float64
}

// NoteOn returns a note-on event at offset.
func NoteOn(offset int, note uint8, velocity float64) Event {
	return Event{Offset: offset, Kind: EventNoteOn, Note: note, Velocity: velocity}
}

// NoteOff returns a note-off event at offset.
func NoteOff(offset int, note uint8) Event {
	return Event{Offset: offset, Kind: EventNoteOff, Note: note}
}
