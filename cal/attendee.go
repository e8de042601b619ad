package cal

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

type (
	// AttendeeRole is the participation role of an attendee.
	AttendeeRole int32
	// AttendeePartStat is the participation status of an attendee.
	AttendeePartStat int32
	// AttendeeCUType classifies the calendar user behind an attendee.
	AttendeeCUType int32
)

const (
	AttendeeRoleReqParticipant AttendeeRole = iota // required participant
	AttendeeRoleOptParticipant                     // optional participant
	AttendeeRoleNonParticipant                     // for information only
	AttendeeRoleChair                              // chairperson
)

const (
	AttendeePartStatNeedsAction AttendeePartStat = iota
	AttendeePartStatAccepted
	AttendeePartStatDeclined
	AttendeePartStatTentative
	AttendeePartStatDelegated
	AttendeePartStatCompleted
	AttendeePartStatInProcess
	AttendeePartStatNone
)

const (
	AttendeeCUTypeIndividual AttendeeCUType = iota
	AttendeeCUTypeGroup
	AttendeeCUTypeResource
	AttendeeCUTypeRoom
	AttendeeCUTypeUnknown
)

func (c AttendeeCUType) String() string {
	switch c {
	case AttendeeCUTypeIndividual:
		return "INDIVIDUAL"
	case AttendeeCUTypeGroup:
		return "GROUP"
	case AttendeeCUTypeResource:
		return "RESOURCE"
	case AttendeeCUTypeRoom:
		return "ROOM"
	default:
		return "UNKNOWN"
	}
}

// A person invited to an incidence, together with their participation
// metadata. Plain value semantics: copies are independent once either
// side is mutated.
type Attendee struct {
	person    Person
	rsvp      bool
	role      AttendeeRole
	status    AttendeePartStat
	cuType    AttendeeCUType
	cuTypeStr string // retained X-/IANA- extension token, "" when canonical
	uid       string
	delegate  string
	delegator string
	custom    CustomProperties
}

// "mailto:" prefixes are stripped from both name and email, mirroring
// Person.
func NewAttendee(name string, email string) Attendee {
	var a Attendee
	a.person = NewPerson(stripMailto(name), email)
	return a
}

// #region Getters

func (a *Attendee) GetName() string {
	return a.person.GetName()
}

func (a *Attendee) GetEmail() string {
	return a.person.GetEmail()
}

func (a *Attendee) GetPerson() Person {
	return a.person
}

func (a *Attendee) GetRSVP() bool {
	return a.rsvp
}

func (a *Attendee) GetRole() AttendeeRole {
	return a.role
}

func (a *Attendee) GetStatus() AttendeePartStat {
	return a.status
}

func (a *Attendee) GetCUType() AttendeeCUType {
	return a.cuType
}

// The display form of the calendar user type: the canonical token for
// known types, the retained X-/IANA- token otherwise.
func (a *Attendee) GetCUTypeStr() string {
	if a.cuTypeStr != "" {
		return a.cuTypeStr
	}
	return a.cuType.String()
}

// The attendee uid. If none was ever set, a process-unique fallback is
// generated on first read and cached for the lifetime of the instance.
// The fallback is not suitable for persistent storage.
func (a *Attendee) GetUID() string {
	if a.uid == "" {
		a.uid = uuid.NewString()
	}
	return a.uid
}

func (a *Attendee) GetDelegate() string {
	return a.delegate
}

func (a *Attendee) GetDelegator() string {
	return a.delegator
}

func (a *Attendee) CustomProperties() *CustomProperties {
	return &a.custom
}

// #endregion

// #region Setters

func (a *Attendee) SetName(name string) {
	a.person.SetName(stripMailto(name))
}

func (a *Attendee) SetEmail(email string) {
	a.person.SetEmail(email)
}

func (a *Attendee) SetRSVP(rsvp bool) {
	a.rsvp = rsvp
}

func (a *Attendee) SetRole(role AttendeeRole) {
	a.role = role
}

func (a *Attendee) SetStatus(status AttendeePartStat) {
	a.status = status
}

// Setting by enum clears any retained extension token, so the display
// string reverts to the canonical name.
func (a *Attendee) SetCUType(cuType AttendeeCUType) {
	a.cuType = cuType
	a.cuTypeStr = ""
}

// Setting by token: the four known tokens map to their enum
// (case-insensitive); unknown tokens map to Unknown and are retained
// verbatim, uppercased, only when they carry an X- or IANA- prefix.
func (a *Attendee) SetCUTypeStr(cuType string) {
	up := strings.ToUpper(cuType)
	switch up {
	case "INDIVIDUAL":
		a.SetCUType(AttendeeCUTypeIndividual)
	case "GROUP":
		a.SetCUType(AttendeeCUTypeGroup)
	case "RESOURCE":
		a.SetCUType(AttendeeCUTypeResource)
	case "ROOM":
		a.SetCUType(AttendeeCUTypeRoom)
	default:
		a.cuType = AttendeeCUTypeUnknown
		if strings.HasPrefix(up, "X-") || strings.HasPrefix(up, "IANA-") {
			a.cuTypeStr = up
		} else {
			a.cuTypeStr = ""
		}
	}
}

func (a *Attendee) SetUID(uid string) {
	a.uid = uid
}

func (a *Attendee) SetDelegate(delegate string) {
	a.delegate = delegate
}

func (a *Attendee) SetDelegator(delegator string) {
	a.delegator = delegator
}

// #endregion

// Both name and email unset.
func (a *Attendee) IsNull() bool {
	return a.person.IsEmpty()
}

// Compares the stored uid without realizing a fallback; custom
// properties do not participate.
func (a *Attendee) Equal(other Attendee) bool {
	return a.uid == other.uid &&
		a.rsvp == other.rsvp &&
		a.role == other.role &&
		a.status == other.status &&
		a.delegate == other.delegate &&
		a.delegator == other.delegator &&
		a.GetCUTypeStr() == other.GetCUTypeStr() &&
		a.person.Equal(other.person)
}

func (a *Attendee) serialize(sw *streamWriter) {
	a.person.serialize(sw)
	sw.writeBool(a.rsvp)
	sw.writeInt32(int32(a.role))
	sw.writeInt32(int32(a.status))
	sw.writeString(a.uid)
	sw.writeString(a.delegate)
	sw.writeString(a.delegator)
	sw.writeString(a.GetCUTypeStr())
	a.custom.serialize(sw)
}

func (a *Attendee) deserialize(sr *streamReader) {
	a.person.deserialize(sr)
	a.rsvp = sr.readBool()
	a.role = AttendeeRole(sr.readInt32())
	a.status = AttendeePartStat(sr.readInt32())
	a.uid = sr.readString()
	a.delegate = sr.readString()
	a.delegator = sr.readString()
	// going through the token setter keeps extension tokens intact
	a.SetCUTypeStr(sr.readString())
	a.custom.deserialize(sr)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *Attendee) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	sw := newStreamWriter(&buf)
	a.serialize(sw)
	if err := sw.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (a *Attendee) UnmarshalBinary(data []byte) error {
	sr := newStreamReader(bytes.NewReader(data))
	a.deserialize(sr)
	return sr.Err()
}
