package cal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// One busy span inside a free-busy record.
type Period struct {
	Start time.Time
	End   time.Time
}

// A free-busy record: the shared incidence state plus an end date-time
// and an ordered list of busy periods.
type FreeBusy struct {
	IncidenceBase
	dtEnd   time.Time
	periods []Period
}

func NewFreeBusy() *FreeBusy {
	fb := &FreeBusy{}
	fb.uid = uuid.NewString()
	fb.lastModified = time.Now().UTC()
	return fb
}

func (fb *FreeBusy) Base() *IncidenceBase {
	return &fb.IncidenceBase
}

func (fb *FreeBusy) GetType() IncidenceType {
	return TypeFreeBusy
}

func (fb *FreeBusy) MimeType() string {
	return "application/x-vnd.calcore.freebusy"
}

func (fb *FreeBusy) GetDtEnd() time.Time {
	return fb.dtEnd
}

func (fb *FreeBusy) SetDtEnd(dtEnd time.Time) {
	if fb.readOnly {
		return
	}
	fb.update()
	fb.dtEnd = dtEnd
	fb.markFieldDirty(FieldDtEnd)
	fb.updated()
}

func (fb *FreeBusy) GetPeriods() []Period {
	return fb.periods
}

func (fb *FreeBusy) AddPeriod(start time.Time, end time.Time) {
	if fb.readOnly {
		return
	}
	fb.update()
	fb.periods = append(fb.periods, Period{Start: start, End: end})
	fb.markFieldDirty(FieldUnknown)
	fb.updated()
}

func (fb *FreeBusy) ClearPeriods() {
	if fb.readOnly {
		return
	}
	fb.update()
	fb.periods = nil
	fb.markFieldDirty(FieldUnknown)
	fb.updated()
}

func (fb *FreeBusy) DateTime(role DateTimeRole) time.Time {
	switch role {
	case DateTimeRoleStart, DateTimeRoleSort, DateTimeRoleRecurrenceStart:
		return fb.dtStart
	case DateTimeRoleEnd, DateTimeRoleDisplay:
		return fb.dtEnd
	default:
		return time.Time{}
	}
}

func (fb *FreeBusy) SetDateTime(t time.Time, role DateTimeRole) {
	switch role {
	case DateTimeRoleStart:
		fb.SetDtStart(t)
	case DateTimeRoleEnd:
		fb.SetDtEnd(t)
	}
}

func (fb *FreeBusy) Accept(v Visitor) error {
	return v.VisitFreeBusy(fb)
}

func (fb *FreeBusy) Equals(other Incidence) bool {
	o, ok := other.(*FreeBusy)
	if !ok {
		return false
	}
	if !fb.equalsBase(&o.IncidenceBase) || !fb.dtEnd.Equal(o.dtEnd) {
		return false
	}
	if len(fb.periods) != len(o.periods) {
		return false
	}
	for i := range fb.periods {
		if !fb.periods[i].Start.Equal(o.periods[i].Start) ||
			!fb.periods[i].End.Equal(o.periods[i].End) {
			return false
		}
	}
	return true
}

func (fb *FreeBusy) Assign(other Incidence) error {
	o, ok := other.(*FreeBusy)
	if !ok {
		return assignTypeMismatch(fb, other)
	}
	fb.assignBase(&o.IncidenceBase)
	if fb != o {
		fb.dtEnd = o.dtEnd
		fb.periods = append([]Period(nil), o.periods...)
	}
	return nil
}

func (fb *FreeBusy) serializeExt(sw *streamWriter) {
	sw.writeTime(fb.dtEnd)
	sw.writeUint32(uint32(len(fb.periods)))
	for _, p := range fb.periods {
		sw.writeTime(p.Start)
		sw.writeTime(p.End)
	}
}

func (fb *FreeBusy) deserializeExt(sr *streamReader) {
	fb.dtEnd = sr.readTime()
	count := sr.readUint32()
	if sr.Err() != nil {
		return
	}
	if count > maxStreamBlobLen {
		sr.err = fmt.Errorf("FreeBusy: period count %d out of range", count)
		return
	}
	fb.periods = nil
	for i := uint32(0); i < count; i++ {
		start := sr.readTime()
		end := sr.readTime()
		if sr.Err() != nil {
			return
		}
		fb.periods = append(fb.periods, Period{Start: start, End: end})
	}
}
