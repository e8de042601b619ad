package cal

import (
	"time"

	"github.com/google/uuid"
)

// An event: the shared incidence state plus an end date-time.
type Event struct {
	IncidenceBase
	dtEnd time.Time
}

func NewEvent() *Event {
	e := &Event{}
	e.uid = uuid.NewString()
	e.lastModified = time.Now().UTC()
	return e
}

func (e *Event) Base() *IncidenceBase {
	return &e.IncidenceBase
}

func (e *Event) GetType() IncidenceType {
	return TypeEvent
}

func (e *Event) MimeType() string {
	return "application/x-vnd.calcore.event"
}

// The explicit end when one is set, otherwise start plus duration when
// the event carries one.
func (e *Event) GetDtEnd() time.Time {
	if e.dtEnd.IsZero() && e.hasDuration {
		return e.dtStart.Add(e.duration.AsTimeDuration())
	}
	return e.dtEnd
}

func (e *Event) SetDtEnd(dtEnd time.Time) {
	if e.readOnly {
		return
	}
	e.update()
	e.dtEnd = dtEnd
	e.markFieldDirty(FieldDtEnd)
	e.updated()
}

func (e *Event) DateTime(role DateTimeRole) time.Time {
	switch role {
	case DateTimeRoleStart, DateTimeRoleSort, DateTimeRoleRecurrenceStart:
		return e.dtStart
	case DateTimeRoleEnd, DateTimeRoleDisplay:
		return e.GetDtEnd()
	default:
		return time.Time{}
	}
}

func (e *Event) SetDateTime(t time.Time, role DateTimeRole) {
	switch role {
	case DateTimeRoleStart:
		e.SetDtStart(t)
	case DateTimeRoleEnd:
		e.SetDtEnd(t)
	}
}

func (e *Event) Accept(v Visitor) error {
	return v.VisitEvent(e)
}

func (e *Event) Equals(other Incidence) bool {
	o, ok := other.(*Event)
	if !ok {
		return false
	}
	return e.equalsBase(&o.IncidenceBase) && e.dtEnd.Equal(o.dtEnd)
}

// Copy all state from other, which must be another Event. FieldUnknown
// is always marked dirty afterward; assigning an event to itself only
// marks the field.
func (e *Event) Assign(other Incidence) error {
	o, ok := other.(*Event)
	if !ok {
		return assignTypeMismatch(e, other)
	}
	e.assignBase(&o.IncidenceBase)
	if e != o {
		e.dtEnd = o.dtEnd
	}
	return nil
}

func (e *Event) serializeExt(sw *streamWriter) {
	sw.writeTime(e.dtEnd)
}

func (e *Event) deserializeExt(sr *streamReader) {
	e.dtEnd = sr.readTime()
}
