package cal

import (
	"time"

	"github.com/google/uuid"
)

// A journal entry carries no state beyond the shared incidence base.
type Journal struct {
	IncidenceBase
}

func NewJournal() *Journal {
	j := &Journal{}
	j.uid = uuid.NewString()
	j.lastModified = time.Now().UTC()
	return j
}

func (j *Journal) Base() *IncidenceBase {
	return &j.IncidenceBase
}

func (j *Journal) GetType() IncidenceType {
	return TypeJournal
}

func (j *Journal) MimeType() string {
	return "application/x-vnd.calcore.journal"
}

func (j *Journal) DateTime(role DateTimeRole) time.Time {
	switch role {
	case DateTimeRoleStart, DateTimeRoleEnd, DateTimeRoleSort, DateTimeRoleDisplay, DateTimeRoleRecurrenceStart:
		return j.dtStart
	default:
		return time.Time{}
	}
}

func (j *Journal) SetDateTime(t time.Time, role DateTimeRole) {
	if role == DateTimeRoleStart {
		j.SetDtStart(t)
	}
}

func (j *Journal) Accept(v Visitor) error {
	return v.VisitJournal(j)
}

func (j *Journal) Equals(other Incidence) bool {
	o, ok := other.(*Journal)
	if !ok {
		return false
	}
	return j.equalsBase(&o.IncidenceBase)
}

func (j *Journal) Assign(other Incidence) error {
	o, ok := other.(*Journal)
	if !ok {
		return assignTypeMismatch(j, other)
	}
	j.assignBase(&o.IncidenceBase)
	return nil
}

func (j *Journal) serializeExt(sw *streamWriter) {}

func (j *Journal) deserializeExt(sr *streamReader) {}
