package cal

import (
	"bytes"
	"io"
	"time"
)

type IncidenceType int32

const (
	TypeEvent IncidenceType = iota + 1
	TypeTodo
	TypeJournal
	TypeFreeBusy
)

func (t IncidenceType) String() string {
	switch t {
	case TypeEvent:
		return "Event"
	case TypeTodo:
		return "Todo"
	case TypeJournal:
		return "Journal"
	case TypeFreeBusy:
		return "FreeBusy"
	default:
		return "Unknown"
	}
}

// DateTimeRole selects which of an incidence's date-times a caller is
// after without knowing the concrete type.
type DateTimeRole int32

const (
	DateTimeRoleStart DateTimeRole = iota
	DateTimeRoleEnd
	DateTimeRoleSort
	DateTimeRoleDisplay
	DateTimeRoleRecurrenceStart
)

// Incidence is the contract every calendar component fulfills on top of
// the embedded IncidenceBase. The serialization hooks are unexported,
// which closes the set to the types in this package: Event, Todo,
// Journal and FreeBusy.
type Incidence interface {
	Base() *IncidenceBase
	GetType() IncidenceType
	MimeType() string
	DateTime(role DateTimeRole) time.Time
	SetDateTime(t time.Time, role DateTimeRole)
	Accept(v Visitor) error
	Equals(other Incidence) bool
	Assign(other Incidence) error

	serializeExt(sw *streamWriter)
	deserializeExt(sr *streamReader)
}

// Visitor dispatches over the closed set of concrete incidence types.
type Visitor interface {
	VisitEvent(e *Event) error
	VisitTodo(t *Todo) error
	VisitJournal(j *Journal) error
	VisitFreeBusy(fb *FreeBusy) error
}

// Write inc to w: the magic identifier, the type tag, the base block,
// then the type-specific block.
func WriteIncidence(w io.Writer, inc Incidence) error {
	sw := newStreamWriter(w)
	sw.writeUint32(MagicSerializationIdentifier())
	sw.writeInt32(int32(inc.GetType()))
	inc.Base().serialize(sw)
	inc.serializeExt(sw)
	return sw.Err()
}

// Read one incidence from r. A stream whose leading constant is not the
// magic identifier yields ErrInvalidStream and no bytes beyond the
// first four are interpreted.
func ReadIncidence(r io.Reader) (Incidence, error) {
	sr := newStreamReader(r)
	if magic := sr.readUint32(); sr.Err() != nil {
		return nil, sr.Err()
	} else if magic != MagicSerializationIdentifier() {
		return nil, ErrInvalidStream
	}
	var inc Incidence
	switch tag := IncidenceType(sr.readInt32()); tag {
	case TypeEvent:
		inc = &Event{}
	case TypeTodo:
		inc = &Todo{}
	case TypeJournal:
		inc = &Journal{}
	case TypeFreeBusy:
		inc = &FreeBusy{}
	default:
		if sr.Err() != nil {
			return nil, sr.Err()
		}
		return nil, NewCustomError("unknown incidence type tag", map[string]any{"tag": int32(tag)})
	}
	inc.Base().deserialize(sr)
	inc.deserializeExt(sr)
	if sr.Err() != nil {
		return nil, sr.Err()
	}
	return inc, nil
}

// MarshalIncidence is the []byte convenience over WriteIncidence.
func MarshalIncidence(inc Incidence) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteIncidence(&buf, inc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalIncidence is the []byte convenience over ReadIncidence.
func UnmarshalIncidence(data []byte) (Incidence, error) {
	return ReadIncidence(bytes.NewReader(data))
}

func assignTypeMismatch(want Incidence, got Incidence) error {
	return NewCustomError("incidence type mismatch", map[string]any{
		"want": want.GetType().String(),
		"got":  got.GetType().String(),
	})
}
